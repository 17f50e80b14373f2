package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no profile exists for a user id.
	ErrNotFound = errors.New("profile not found")
	// ErrAlreadyExists is returned by CreateIfAbsent when a profile for the
	// user id was created concurrently or earlier.
	ErrAlreadyExists = errors.New("profile already exists")
)

// Repository persists user profiles.
type Repository interface {
	Get(ctx context.Context, userID string) (UserProfile, error)
	// CreateIfAbsent writes the profile only if none exists for its UserID.
	// It must be atomic with respect to concurrent calls for the same id.
	CreateIfAbsent(ctx context.Context, p UserProfile) error
	UpdateRole(ctx context.Context, userID, role string) (UserProfile, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed profile repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get fetches a profile by user id.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (UserProfile, error) {
	row := r.db.QueryRow(ctx, `SELECT id, phone, role, created_at, updated_at
        FROM user_profiles WHERE id = $1`, userID)
	return scanProfile(row)
}

// CreateIfAbsent inserts the profile with a conditional write. The ON
// CONFLICT DO NOTHING form makes the existence check and the insert a single
// atomic operation, so concurrent first logins cannot double-create.
func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, p UserProfile) error {
	cmd, err := r.db.Exec(ctx, `INSERT INTO user_profiles (id, phone, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO NOTHING`,
		p.UserID, p.Phone, p.Role, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// UpdateRole sets a new role and refreshes updated_at.
func (r *PostgresRepository) UpdateRole(ctx context.Context, userID, role string) (UserProfile, error) {
	row := r.db.QueryRow(ctx, `UPDATE user_profiles SET role = $1, updated_at = $2
        WHERE id = $3
        RETURNING id, phone, role, created_at, updated_at`,
		role, time.Now().UTC(), userID)
	p, err := scanProfile(row)
	if errors.Is(err, ErrNotFound) {
		return UserProfile{}, ErrNotFound
	}
	return p, err
}

func scanProfile(row pgx.Row) (UserProfile, error) {
	var (
		p         UserProfile
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&p.UserID, &p.Phone, &p.Role, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserProfile{}, ErrNotFound
		}
		return UserProfile{}, err
	}
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}
