package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"passvault/internal/domain/credential"
	"passvault/internal/tenant"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
)

// CredentialRepository runs against whichever store the caller resolved.
// Share grants and secret history are embedded JSONB so a credential is
// one self-contained row, wherever it lives.
type CredentialRepository struct {
	log *slog.Logger
}

func NewCredentialRepository(log *slog.Logger) *CredentialRepository {
	return &CredentialRepository{
		log: log.With("component", "credential_repository"),
	}
}

const credentialColumns = `
	id, owner_user_id, title, site_url, email_id, secret, user_name,
	phone_number, category, strength, is_compromised, reminder_interval_days,
	shared_with, history, created_at, updated_at, last_secret_change_at`

func (r *CredentialRepository) Create(ctx context.Context, store *tenant.Store, c credential.Credential) (credential.Credential, error) {
	const query = `
		INSERT INTO credentials (
			id, owner_user_id, title, site_url, email_id, secret, user_name,
			phone_number, category, strength, is_compromised,
			reminder_interval_days, shared_with, history,
			created_at, updated_at, last_secret_change_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	c.ID = uuid.NewString()

	sharedWith, history, err := marshalEmbedded(c)
	if err != nil {
		return credential.Credential{}, err
	}

	_, err = store.Pool().Exec(ctx, query,
		c.ID, c.OwnerUserID, c.Title, c.SiteURL, c.EmailID, c.Secret, c.UserName,
		c.PhoneNumber, c.Category, c.Strength, c.IsCompromised,
		c.ReminderIntervalDays, sharedWith, history,
		c.CreatedAt, c.UpdatedAt, c.LastSecretChangeAt,
	)
	if err != nil {
		r.log.Error("failed to create credential", "owner_id", c.OwnerUserID, "error", err)
		return credential.Credential{}, fmt.Errorf("create credential: %w", err)
	}

	return c, nil
}

func (r *CredentialRepository) GetByID(ctx context.Context, store *tenant.Store, id string) (credential.Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE id = $1`
	return r.scanCredential(store.Pool().QueryRow(ctx, query, id))
}

// Search returns the page of credentials the user owns or holds a grant
// on, newest first. Filters are literal prefix matches; the caller only
// validated them, wildcard escaping happens here.
func (r *CredentialRepository) Search(ctx context.Context, store *tenant.Store, userID string, q credential.Query) (credential.Page, error) {
	where := `(owner_user_id = $1 OR shared_with @> $2)`
	grantProbe, err := json.Marshal([]map[string]string{{"grantee_user_id": userID}})
	if err != nil {
		return credential.Page{}, fmt.Errorf("marshal grant probe: %w", err)
	}

	args := []interface{}{userID, grantProbe}
	argIndex := 3

	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		where += fmt.Sprintf(" AND %s ILIKE $%d", column, argIndex)
		args = append(args, credential.EscapeLike(value)+"%")
		argIndex++
	}

	if q.ID != "" {
		where += fmt.Sprintf(" AND id = $%d", argIndex)
		args = append(args, q.ID)
		argIndex++
	}
	addFilter("title", q.Title)
	addFilter("site_url", q.SiteURL)
	addFilter("email_id", q.EmailID)

	var total int
	countQuery := `SELECT COUNT(*) FROM credentials WHERE ` + where
	if err := store.Pool().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.log.Error("failed to count credentials", "user_id", userID, "error", err)
		return credential.Page{}, fmt.Errorf("count credentials: %w", err)
	}

	query := `SELECT ` + credentialColumns + ` FROM credentials WHERE ` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, q.PageSize, q.Offset())

	rows, err := store.Pool().Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to search credentials", "user_id", userID, "error", err)
		return credential.Page{}, fmt.Errorf("search credentials: %w", err)
	}
	defer rows.Close()

	var creds []credential.Credential
	for rows.Next() {
		c, err := r.scanCredential(rows)
		if err != nil {
			return credential.Page{}, err
		}
		creds = append(creds, c)
	}
	if err := rows.Err(); err != nil {
		return credential.Page{}, fmt.Errorf("search credentials: %w", err)
	}

	return credential.Page{
		Credentials: creds,
		TotalCount:  total,
		Page:        q.Page,
		PageSize:    q.PageSize,
	}, nil
}

func (r *CredentialRepository) Replace(ctx context.Context, store *tenant.Store, c credential.Credential) error {
	const query = `
		UPDATE credentials
		SET title = $1, site_url = $2, email_id = $3, secret = $4,
			user_name = $5, phone_number = $6, category = $7, strength = $8,
			is_compromised = $9, reminder_interval_days = $10, shared_with = $11,
			history = $12, updated_at = $13, last_secret_change_at = $14
		WHERE id = $15`

	sharedWith, history, err := marshalEmbedded(c)
	if err != nil {
		return err
	}

	result, err := store.Pool().Exec(ctx, query,
		c.Title, c.SiteURL, c.EmailID, c.Secret,
		c.UserName, c.PhoneNumber, c.Category, c.Strength,
		c.IsCompromised, c.ReminderIntervalDays, sharedWith,
		history, c.UpdatedAt, c.LastSecretChangeAt,
		c.ID,
	)
	if err != nil {
		r.log.Error("failed to replace credential", "credential_id", c.ID, "error", err)
		return fmt.Errorf("replace credential: %w", err)
	}
	if result.RowsAffected() == 0 {
		return credential.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context, store *tenant.Store, id string) error {
	const query = `DELETE FROM credentials WHERE id = $1`

	result, err := store.Pool().Exec(ctx, query, id)
	if err != nil {
		r.log.Error("failed to delete credential", "credential_id", id, "error", err)
		return fmt.Errorf("delete credential: %w", err)
	}
	if result.RowsAffected() == 0 {
		return credential.ErrNotFound
	}
	return nil
}

// AddShareGrant appends the grant atomically; the guard in the WHERE clause
// keeps a concurrent duplicate invite from producing two grants.
func (r *CredentialRepository) AddShareGrant(ctx context.Context, store *tenant.Store, credentialID string, grant credential.ShareGrant) (bool, error) {
	const query = `
		UPDATE credentials
		SET shared_with = shared_with || $1::jsonb, updated_at = NOW()
		WHERE id = $2
		  AND NOT EXISTS (
			SELECT 1 FROM jsonb_array_elements(shared_with) AS g
			WHERE g->>'grantee_user_id' = $3
		  )`

	payload, err := json.Marshal([]credential.ShareGrant{grant})
	if err != nil {
		return false, fmt.Errorf("marshal share grant: %w", err)
	}

	result, err := store.Pool().Exec(ctx, query, payload, credentialID, grant.GranteeUserID)
	if err != nil {
		r.log.Error("failed to add share grant", "credential_id", credentialID, "error", err)
		return false, fmt.Errorf("add share grant: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *CredentialRepository) RemoveShareGrant(ctx context.Context, store *tenant.Store, credentialID, granteeUserID string) (bool, error) {
	const query = `
		UPDATE credentials
		SET shared_with = COALESCE(
			(SELECT jsonb_agg(g) FROM jsonb_array_elements(shared_with) AS g
			 WHERE g->>'grantee_user_id' <> $1),
			'[]'::jsonb
		), updated_at = NOW()
		WHERE id = $2
		  AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(shared_with) AS g
			WHERE g->>'grantee_user_id' = $1
		  )`

	result, err := store.Pool().Exec(ctx, query, granteeUserID, credentialID)
	if err != nil {
		r.log.Error("failed to remove share grant", "credential_id", credentialID, "error", err)
		return false, fmt.Errorf("remove share grant: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *CredentialRepository) SetCompromised(ctx context.Context, store *tenant.Store, credentialID string, compromised bool) error {
	const query = `
		UPDATE credentials
		SET is_compromised = $1, updated_at = NOW()
		WHERE id = $2`

	result, err := store.Pool().Exec(ctx, query, compromised, credentialID)
	if err != nil {
		r.log.Error("failed to set compromised flag", "credential_id", credentialID, "error", err)
		return fmt.Errorf("set compromised: %w", err)
	}
	if result.RowsAffected() == 0 {
		return credential.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) ListReminderDue(ctx context.Context, store *tenant.Store, now time.Time) ([]credential.Credential, error) {
	const query = `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE reminder_interval_days > 0
		  AND GREATEST(last_secret_change_at, created_at)
			  + reminder_interval_days * INTERVAL '1 day' < $1`

	rows, err := store.Pool().Query(ctx, query, now)
	if err != nil {
		r.log.Error("failed to list reminder-due credentials", "error", err)
		return nil, fmt.Errorf("list reminder due: %w", err)
	}
	defer rows.Close()

	var creds []credential.Credential
	for rows.Next() {
		c, err := r.scanCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, c)
	}
	return creds, rows.Err()
}

func (r *CredentialRepository) ListBatch(ctx context.Context, store *tenant.Store, limit, offset int) ([]credential.Credential, error) {
	const query = `
		SELECT ` + credentialColumns + `
		FROM credentials
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`

	rows, err := store.Pool().Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("failed to list credential batch", "error", err)
		return nil, fmt.Errorf("list credential batch: %w", err)
	}
	defer rows.Close()

	var creds []credential.Credential
	for rows.Next() {
		c, err := r.scanCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, c)
	}
	return creds, rows.Err()
}

func (r *CredentialRepository) scanCredential(row pgx.Row) (credential.Credential, error) {
	var c credential.Credential
	var sharedWith, history []byte

	err := row.Scan(
		&c.ID, &c.OwnerUserID, &c.Title, &c.SiteURL, &c.EmailID, &c.Secret,
		&c.UserName, &c.PhoneNumber, &c.Category, &c.Strength,
		&c.IsCompromised, &c.ReminderIntervalDays, &sharedWith, &history,
		&c.CreatedAt, &c.UpdatedAt, &c.LastSecretChangeAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return credential.Credential{}, credential.ErrNotFound
		}
		return credential.Credential{}, fmt.Errorf("scan credential: %w", err)
	}

	if err := json.Unmarshal(sharedWith, &c.SharedWith); err != nil {
		return credential.Credential{}, fmt.Errorf("unmarshal share grants: %w", err)
	}
	if err := json.Unmarshal(history, &c.History); err != nil {
		return credential.Credential{}, fmt.Errorf("unmarshal secret history: %w", err)
	}

	return c, nil
}

func marshalEmbedded(c credential.Credential) ([]byte, []byte, error) {
	sharedWith := c.SharedWith
	if sharedWith == nil {
		sharedWith = []credential.ShareGrant{}
	}
	history := c.History
	if history == nil {
		history = []credential.SecretHistoryEntry{}
	}

	sw, err := json.Marshal(sharedWith)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal share grants: %w", err)
	}
	h, err := json.Marshal(history)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal secret history: %w", err)
	}
	return sw, h, nil
}
