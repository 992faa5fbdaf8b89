package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/teamhub/backend/internal/db"
	"github.com/teamhub/backend/internal/domain"
	"github.com/teamhub/backend/internal/profiles"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user profiles.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, email, password_hash, username, display_name, bio, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, user.ID, user.Email, user.Password, user.Username, user.DisplayName, user.Bio, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByEmail fetches a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (profiles.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return profiles.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, email, password_hash, username, display_name, bio, created_at, updated_at
        FROM users
        WHERE email = $1
    `, email)

	var user profiles.User
	if err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Username, &user.DisplayName, &user.Bio, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profiles.User{}, ErrNotFound
		}
		return profiles.User{}, fmt.Errorf("select user by email: %w", err)
	}

	return user, nil
}

// FindProfile fetches the public profile fields for a user.
func (r *PostgresUserRepository) FindProfile(ctx context.Context, userID string) (profiles.UserProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return profiles.UserProfile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, username, display_name, bio, updated_at
        FROM users
        WHERE id = $1
    `, userID)

	var profile profiles.UserProfile
	if err := row.Scan(&profile.UserID, &profile.Username, &profile.DisplayName, &profile.Bio, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profiles.UserProfile{}, profiles.ErrNotFound
		}
		return profiles.UserProfile{}, fmt.Errorf("select user profile: %w", err)
	}

	return profile, nil
}

// SaveProfile updates the public profile fields for a user.
func (r *PostgresUserRepository) SaveProfile(ctx context.Context, profile profiles.UserProfile) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET username = $2, display_name = $3, bio = $4, updated_at = $5
        WHERE id = $1
    `, profile.UserID, profile.Username, profile.DisplayName, profile.Bio, profile.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("update user profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return profiles.ErrNotFound
	}

	return nil
}

// PostgresFriendRepository provides PostgreSQL-backed persistence for friend
// relationship records.
type PostgresFriendRepository struct {
	pool db.Pool
}

// NewPostgresFriendRepository constructs a friend repository backed by PostgreSQL.
func NewPostgresFriendRepository(pool db.Pool) *PostgresFriendRepository {
	return &PostgresFriendRepository{pool: pool}
}

// Create persists a new friend relationship record.
func (r *PostgresFriendRepository) Create(ctx context.Context, record domain.FriendRecord) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO friends (id, user_id, friend_user_id, status, requested_at, responded_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, record.ID, record.UserID, record.FriendUserID, record.Status,
		millisToTime(record.RequestedAt), optionalMillisToTime(record.RespondedAt),
		millisToTime(record.CreatedAt), millisToTime(record.UpdatedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert friend record: %w", err)
	}

	return nil
}

// Get loads one friend relationship record by id.
func (r *PostgresFriendRepository) Get(ctx context.Context, id string) (domain.FriendRecord, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return domain.FriendRecord{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, user_id, friend_user_id, status, requested_at, responded_at, created_at, updated_at
        FROM friends
        WHERE id = $1
    `, id)

	record, err := scanFriendRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FriendRecord{}, ErrNotFound
		}
		return domain.FriendRecord{}, fmt.Errorf("select friend record: %w", err)
	}

	return record, nil
}

// Update persists the full state of an existing friend relationship record.
func (r *PostgresFriendRepository) Update(ctx context.Context, record domain.FriendRecord) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE friends
        SET status = $2, responded_at = $3, updated_at = $4
        WHERE id = $1
    `, record.ID, record.Status, optionalMillisToTime(record.RespondedAt), millisToTime(record.UpdatedAt))
	if err != nil {
		return fmt.Errorf("update friend record: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListForUser returns friend records where the user is requester or receiver.
func (r *PostgresFriendRepository) ListForUser(ctx context.Context, userID string) ([]domain.FriendRecord, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, user_id, friend_user_id, status, requested_at, responded_at, created_at, updated_at
        FROM friends
        WHERE user_id = $1 OR friend_user_id = $1
        ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query friend records: %w", err)
	}
	defer rows.Close()

	var records []domain.FriendRecord
	for rows.Next() {
		record, err := scanFriendRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan friend record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate friend records: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFriendRecord(row rowScanner) (domain.FriendRecord, error) {
	var (
		record      domain.FriendRecord
		requestedAt time.Time
		respondedAt sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(&record.ID, &record.UserID, &record.FriendUserID, &record.Status,
		&requestedAt, &respondedAt, &createdAt, &updatedAt); err != nil {
		return domain.FriendRecord{}, err
	}

	record.RequestedAt = requestedAt.UnixMilli()
	record.CreatedAt = createdAt.UnixMilli()
	record.UpdatedAt = updatedAt.UnixMilli()
	if respondedAt.Valid {
		millis := respondedAt.Time.UnixMilli()
		record.RespondedAt = &millis
	}

	return record, nil
}

func millisToTime(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}

func optionalMillisToTime(millis *int64) sql.NullTime {
	if millis == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Valid: true, Time: time.UnixMilli(*millis).UTC()}
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ FriendRepository = (*PostgresFriendRepository)(nil)
