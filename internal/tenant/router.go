// Package tenant resolves which physical store a user's credential
// operations run against. Users on the shared preference all land on the
// default pool; users who brought their own store get a pool per connection
// string, opened once and cached.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"passvault/internal/domain/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrStoreUnavailable means the user's store could not be reached.
	// Callers must fail the operation; falling back to the shared store
	// would write tenant data into the wrong place.
	ErrStoreUnavailable = errors.New("tenant store unavailable")

	// ErrInvalidStoreConfig means a user-supplied connection string failed
	// the connectivity probe and must not be persisted as a preference.
	ErrInvalidStoreConfig = errors.New("invalid tenant store configuration")
)

// Store is a handle to one physical store. Core calls receive it
// pre-resolved instead of looking it up from ambient request state.
type Store struct {
	pool   *pgxpool.Pool
	shared bool
}

func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Shared reports whether this is the default multi-tenant store.
func (s *Store) Shared() bool {
	return s.shared
}

// MigrateFunc applies the schema to a freshly opened tenant store.
type MigrateFunc func(databaseURI string) error

type Router struct {
	defaultStore *Store
	databaseName string
	probeTimeout time.Duration
	migrate      MigrateFunc
	log          *slog.Logger

	mu     sync.RWMutex
	stores map[string]*Store
	group  singleflight.Group
}

func NewRouter(defaultPool *pgxpool.Pool, databaseName string, probeTimeout time.Duration, migrate MigrateFunc, log *slog.Logger) *Router {
	return &Router{
		defaultStore: &Store{pool: defaultPool, shared: true},
		databaseName: databaseName,
		probeTimeout: probeTimeout,
		migrate:      migrate,
		log:          log.With("component", "tenant_router"),
		stores:       make(map[string]*Store),
	}
}

// Default returns the shared store handle.
func (r *Router) Default() *Store {
	return r.defaultStore
}

// Resolve returns the store for the given preference. Own-store resolution
// is memoized per connection string; concurrent first resolutions of the
// same string collapse into a single pool open.
func (r *Router) Resolve(ctx context.Context, pref user.StoragePreference) (*Store, error) {
	if !pref.OwnStore() {
		return r.defaultStore, nil
	}

	r.mu.RLock()
	store, ok := r.stores[pref.ConnectionString]
	r.mu.RUnlock()
	if ok {
		return store, nil
	}

	v, err, _ := r.group.Do(pref.ConnectionString, func() (interface{}, error) {
		r.mu.RLock()
		store, ok := r.stores[pref.ConnectionString]
		r.mu.RUnlock()
		if ok {
			return store, nil
		}

		store, err := r.open(ctx, pref.ConnectionString)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.stores[pref.ConnectionString] = store
		r.mu.Unlock()
		return store, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Store), nil
}

// Probe checks that a user-supplied connection string is reachable before
// it is persisted as a preference. Nothing is cached.
func (r *Router) Probe(ctx context.Context, pref user.StoragePreference) error {
	uri, err := r.tenantURI(pref.ConnectionString)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStoreConfig, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStoreConfig, err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStoreConfig, err)
	}
	return nil
}

// Close shuts down every tenant pool opened by the router. The default pool
// belongs to the caller and is not closed here.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for connString, store := range r.stores {
		store.pool.Close()
		delete(r.stores, connString)
	}
}

func (r *Router) open(ctx context.Context, connString string) (*Store, error) {
	uri, err := r.tenantURI(connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if r.migrate != nil {
		if err := r.migrate(uri); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%w: migrate tenant store: %v", ErrStoreUnavailable, err)
		}
	}

	r.log.Info("opened tenant store", "database", r.databaseName)
	return &Store{pool: pool}, nil
}

// tenantURI rewrites the user-supplied connection URL to target the fixed
// well-known database, whatever database the URL itself names.
func (r *Router) tenantURI(connString string) (string, error) {
	u, err := url.Parse(connString)
	if err != nil {
		return "", fmt.Errorf("parse connection string: %v", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported connection scheme %q", u.Scheme)
	}
	u.Path = "/" + r.databaseName
	return u.String(), nil
}
