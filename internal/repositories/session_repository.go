package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/teamhub/backend/internal/auth"
	"github.com/teamhub/backend/internal/db"
	"github.com/teamhub/backend/internal/domain"
)

// PostgresSessionStore persists session records to PostgreSQL.
type PostgresSessionStore struct {
	pool db.Pool
}

// NewPostgresSessionStore constructs a session store backed by PostgreSQL.
func NewPostgresSessionStore(pool db.Pool) *PostgresSessionStore {
	return &PostgresSessionStore{pool: pool}
}

// Save inserts a new session record.
func (s *PostgresSessionStore) Save(ctx context.Context, record domain.SessionRecord) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO sessions (id, user_id, token, refresh_token, status, expires_at, last_accessed_at, ip_address, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `, record.ID, record.UserID, record.Token, record.RefreshToken, record.Status,
		millisToTime(record.ExpiresAt), optionalMillisToTime(record.LastAccessedAt), record.IPAddress,
		millisToTime(record.CreatedAt), millisToTime(record.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// FindByRefreshToken loads a session record by its refresh token.
func (s *PostgresSessionStore) FindByRefreshToken(ctx context.Context, refreshToken string) (domain.SessionRecord, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, user_id, token, refresh_token, status, expires_at, last_accessed_at, ip_address, created_at, updated_at
        FROM sessions
        WHERE refresh_token = $1
    `, refreshToken)

	var (
		record         domain.SessionRecord
		expiresAt      time.Time
		lastAccessedAt sql.NullTime
		createdAt      time.Time
		updatedAt      time.Time
	)
	if err := row.Scan(&record.ID, &record.UserID, &record.Token, &record.RefreshToken, &record.Status,
		&expiresAt, &lastAccessedAt, &record.IPAddress, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SessionRecord{}, auth.ErrSessionNotFound
		}
		return domain.SessionRecord{}, fmt.Errorf("select session: %w", err)
	}

	record.ExpiresAt = expiresAt.UnixMilli()
	record.CreatedAt = createdAt.UnixMilli()
	record.UpdatedAt = updatedAt.UnixMilli()
	if lastAccessedAt.Valid {
		millis := lastAccessedAt.Time.UnixMilli()
		record.LastAccessedAt = &millis
	}

	return record, nil
}

// Update overwrites the mutable fields of an existing session record.
func (s *PostgresSessionStore) Update(ctx context.Context, record domain.SessionRecord) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE sessions
        SET token = $2, refresh_token = $3, status = $4, expires_at = $5,
            last_accessed_at = $6, ip_address = $7, updated_at = $8
        WHERE id = $1
    `, record.ID, record.Token, record.RefreshToken, record.Status,
		millisToTime(record.ExpiresAt), optionalMillisToTime(record.LastAccessedAt), record.IPAddress,
		millisToTime(record.UpdatedAt))
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return auth.ErrSessionNotFound
	}

	return nil
}

var _ auth.SessionStore = (*PostgresSessionStore)(nil)
