// Package monitor runs the periodic background sweeps: expired
// notification cleanup, password rotation reminders and the breach scan
// that flags compromised secrets.
package monitor

import (
	"context"
	"errors"
	"time"

	"passvault/internal/crypto"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/leakcheck"
	"passvault/internal/domain/notification"
	"passvault/internal/domain/user"
	"passvault/internal/tenant"

	"golang.org/x/exp/slog"
)

const scanBatchSize = 100

type Monitor struct {
	credentials   credential.Repository
	users         user.Repository
	router        *tenant.Router
	checker       leakcheck.Servicer
	notifications notification.Servicer
	interval      time.Duration
	log           *slog.Logger
	now           func() time.Time
}

func New(
	credentials credential.Repository,
	users user.Repository,
	router *tenant.Router,
	checker leakcheck.Servicer,
	notifications notification.Servicer,
	interval time.Duration,
	log *slog.Logger,
) *Monitor {
	return &Monitor{
		credentials:   credentials,
		users:         users,
		router:        router,
		checker:       checker,
		notifications: notifications,
		interval:      interval,
		log:           log.With("component", "monitor"),
		now:           time.Now,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.sweep(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Monitor) sweep(ctx context.Context) {
	if _, err := m.notifications.CleanupExpired(ctx); err != nil {
		m.log.Error("notification cleanup failed", "error", err)
	}
	m.sendReminders(ctx)
	m.scanForLeaks(ctx)
}

// sendReminders covers the default store. Credentials routed to a user's
// own store are only scanned while that store is open and resolvable.
func (m *Monitor) sendReminders(ctx context.Context) {
	now := m.now()
	due, err := m.credentials.ListReminderDue(ctx, m.router.Default(), now)
	if err != nil {
		m.log.Error("reminder scan failed", "error", err)
		return
	}

	for _, c := range due {
		overdue := m.daysOverdue(c, now)
		if err := m.notifications.NotifyPasswordChangeReminder(ctx, c.OwnerUserID, c.Title, overdue); err != nil {
			m.log.Error("reminder notification failed", "credential_id", c.ID, "error", err)
		}
	}

	if len(due) > 0 {
		m.log.Info("rotation reminders sent", "count", len(due))
	}
}

func (m *Monitor) daysOverdue(c credential.Credential, now time.Time) int {
	last := c.LastSecretChangeAt
	if last.IsZero() {
		last = c.CreatedAt
	}
	elapsed := int(now.Sub(last).Hours() / 24)
	return elapsed - c.ReminderIntervalDays
}

// scanForLeaks decrypts each secret under its owner's key and checks it
// against the breach corpus. A source outage aborts the pass; stale
// results are better than false negatives.
func (m *Monitor) scanForLeaks(ctx context.Context) {
	store := m.router.Default()

	for offset := 0; ; offset += scanBatchSize {
		batch, err := m.credentials.ListBatch(ctx, store, scanBatchSize, offset)
		if err != nil {
			m.log.Error("leak scan batch failed", "offset", offset, "error", err)
			return
		}
		if len(batch) == 0 {
			return
		}

		for _, c := range batch {
			if c.IsCompromised {
				continue
			}
			if err := m.checkCredential(ctx, store, c); err != nil {
				if errors.Is(err, leakcheck.ErrUnavailable) {
					m.log.Warn("breach source unavailable, aborting leak scan")
					return
				}
				m.log.Error("leak check failed", "credential_id", c.ID, "error", err)
			}
		}
	}
}

func (m *Monitor) checkCredential(ctx context.Context, store *tenant.Store, c credential.Credential) error {
	owner, err := m.users.GetByID(ctx, c.OwnerUserID)
	if err != nil {
		return err
	}

	box, err := crypto.New(owner.EncryptionKeyRef)
	if err != nil {
		return err
	}

	secret, err := box.Decrypt(c.Secret)
	if err != nil {
		return err
	}

	leaked, count, err := m.checker.IsPasswordLeaked(ctx, secret)
	if err != nil {
		return err
	}
	if !leaked {
		return nil
	}

	if err := m.credentials.SetCompromised(ctx, store, c.ID, true); err != nil {
		return err
	}

	m.log.Warn("compromised secret detected", "credential_id", c.ID, "seen_count", count)

	if err := m.notifications.NotifyPasswordCompromised(ctx, c.OwnerUserID, c.ID, c.Title, ""); err != nil {
		m.log.Error("compromise notification failed", "credential_id", c.ID, "error", err)
	}
	return nil
}
