package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"passvault/internal/domain/access"
	"passvault/internal/domain/audit"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

// AuditRepository is append-only: entries are inserted and read, never
// updated or deleted. The audit trail always lives in the default store.
type AuditRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewAuditRepository(pool *pgxpool.Pool, log *slog.Logger) *AuditRepository {
	return &AuditRepository{
		pool: pool,
		log:  log.With("component", "audit_repository"),
	}
}

const auditColumns = `
	id, user_id, credential_id, credential_title, access_type, accessed_at,
	device_info, location_info, is_suspicious, suspicious_reason,
	is_from_trusted_device, is_from_known_location`

func (r *AuditRepository) Insert(ctx context.Context, e audit.Entry) (audit.Entry, error) {
	const query = `
		INSERT INTO access_logs (
			id, user_id, credential_id, credential_title, access_type,
			accessed_at, device_info, location_info, is_suspicious,
			suspicious_reason, is_from_trusted_device, is_from_known_location
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	e.ID = uuid.NewString()

	device, location, err := marshalContext(e.DeviceInfo, e.LocationInfo)
	if err != nil {
		return audit.Entry{}, err
	}

	_, err = r.pool.Exec(ctx, query,
		e.ID, e.UserID, e.CredentialID, e.CredentialTitle, e.AccessType,
		e.AccessedAt, device, location, e.IsSuspicious,
		e.SuspiciousReason, e.IsFromTrustedDevice, e.IsFromKnownLocation,
	)
	if err != nil {
		r.log.Error("failed to insert audit entry", "user_id", e.UserID, "error", err)
		return audit.Entry{}, fmt.Errorf("insert audit entry: %w", err)
	}

	return e, nil
}

func (r *AuditRepository) RecentByUser(ctx context.Context, userID string, since time.Time) ([]audit.Entry, error) {
	const query = `
		SELECT ` + auditColumns + `
		FROM access_logs
		WHERE user_id = $1 AND accessed_at >= $2
		ORDER BY accessed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID, since)
	if err != nil {
		r.log.Error("failed to load recent accesses", "user_id", userID, "error", err)
		return nil, fmt.Errorf("recent accesses: %w", err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

func (r *AuditRepository) HistoryByCredential(ctx context.Context, credentialID string, page, pageSize int) ([]audit.Entry, error) {
	const query = `
		SELECT ` + auditColumns + `
		FROM access_logs
		WHERE credential_id = $1
		ORDER BY accessed_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, credentialID, pageSize, (page-1)*pageSize)
	if err != nil {
		r.log.Error("failed to load credential history", "credential_id", credentialID, "error", err)
		return nil, fmt.Errorf("credential history: %w", err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

func (r *AuditRepository) HistoryByUser(ctx context.Context, userID string, page, pageSize int) ([]audit.Entry, error) {
	const query = `
		SELECT ` + auditColumns + `
		FROM access_logs
		WHERE user_id = $1
		ORDER BY accessed_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		r.log.Error("failed to load user history", "user_id", userID, "error", err)
		return nil, fmt.Errorf("user history: %w", err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

func (r *AuditRepository) Suspicious(ctx context.Context, userID string, page, pageSize int) ([]audit.Entry, error) {
	const query = `
		SELECT ` + auditColumns + `
		FROM access_logs
		WHERE user_id = $1 AND is_suspicious
		ORDER BY accessed_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		r.log.Error("failed to load suspicious accesses", "user_id", userID, "error", err)
		return nil, fmt.Errorf("suspicious accesses: %w", err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

func (r *AuditRepository) scanEntries(rows pgx.Rows) ([]audit.Entry, error) {
	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var device, location []byte

		err := rows.Scan(
			&e.ID, &e.UserID, &e.CredentialID, &e.CredentialTitle,
			&e.AccessType, &e.AccessedAt, &device, &location,
			&e.IsSuspicious, &e.SuspiciousReason,
			&e.IsFromTrustedDevice, &e.IsFromKnownLocation,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if e.DeviceInfo, e.LocationInfo, err = unmarshalContext(device, location); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func marshalContext(device *access.DeviceInfo, location *access.LocationInfo) ([]byte, []byte, error) {
	var d, l []byte
	var err error
	if device != nil {
		if d, err = json.Marshal(device); err != nil {
			return nil, nil, fmt.Errorf("marshal device info: %w", err)
		}
	}
	if location != nil {
		if l, err = json.Marshal(location); err != nil {
			return nil, nil, fmt.Errorf("marshal location info: %w", err)
		}
	}
	return d, l, nil
}

func unmarshalContext(device, location []byte) (*access.DeviceInfo, *access.LocationInfo, error) {
	var d *access.DeviceInfo
	var l *access.LocationInfo
	if len(device) > 0 {
		d = &access.DeviceInfo{}
		if err := json.Unmarshal(device, d); err != nil {
			return nil, nil, fmt.Errorf("unmarshal device info: %w", err)
		}
	}
	if len(location) > 0 {
		l = &access.LocationInfo{}
		if err := json.Unmarshal(location, l); err != nil {
			return nil, nil, fmt.Errorf("unmarshal location info: %w", err)
		}
	}
	return d, l, nil
}
