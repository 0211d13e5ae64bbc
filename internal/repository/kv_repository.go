package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/noah-isme/programme-match-api/pkg/errors"
)

// KVRepository persists session values in the kv_store table.
type KVRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewKVRepository constructs the Postgres-backed store.
func NewKVRepository(db *sqlx.DB) *KVRepository {
	return &KVRepository{db: db, now: time.Now}
}

type kvRow struct {
	Value     []byte       `db:"value"`
	ExpiresAt sql.NullTime `db:"expires_at"`
}

// Get loads the JSON value stored under key into dest.
func (r *KVRepository) Get(ctx context.Context, key string, dest interface{}) error {
	const query = `SELECT value, expires_at FROM kv_store WHERE key = $1`
	var row kvRow
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("kv get %s: %w", key, err)
	}
	if row.ExpiresAt.Valid && !r.now().Before(row.ExpiresAt.Time) {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(row.Value, dest); err != nil {
		return fmt.Errorf("unmarshal kv value for %s: %w", key, err)
	}
	return nil
}

// Set upserts value under key. A zero ttl stores it without expiry.
func (r *KVRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal kv value for %s: %w", key, err)
	}
	now := r.now().UTC()
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: now.Add(ttl), Valid: true}
	}
	const query = `INSERT INTO kv_store (key, value, expires_at, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, string(payload), expiresAt, now); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// DeleteByPattern removes keys matching a glob pattern where '*' matches any run of characters.
func (r *KVRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	const query = `DELETE FROM kv_store WHERE key LIKE $1 ESCAPE '\'`
	if _, err := r.db.ExecContext(ctx, query, globToLike(pattern)); err != nil {
		return fmt.Errorf("kv delete pattern %s: %w", pattern, err)
	}
	return nil
}

// PurgeExpired removes rows whose expiry has passed and reports how many went.
func (r *KVRepository) PurgeExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at <= $1`
	res, err := r.db.ExecContext(ctx, query, r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("kv purge expired: %w", err)
	}
	return res.RowsAffected()
}

func globToLike(pattern string) string {
	var b strings.Builder
	for _, ch := range pattern {
		switch ch {
		case '*':
			b.WriteRune('%')
		case '?':
			b.WriteRune('_')
		case '%', '_', '\\':
			b.WriteRune('\\')
			b.WriteRune(ch)
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}
