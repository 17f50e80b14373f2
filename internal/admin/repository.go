package admin

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no admin exists for an email.
var ErrNotFound = errors.New("admin not found")

// Repository persists admin accounts.
type Repository interface {
	Create(ctx context.Context, a Admin) error
	FindByEmail(ctx context.Context, email string) (Admin, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed admin repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new admin account.
func (r *PostgresRepository) Create(ctx context.Context, a Admin) error {
	adminID, err := uuid.Parse(a.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO admins (id, email, password_hash, created_at)
        VALUES ($1, $2, $3, $4)`, adminID, a.Email, a.PasswordHash, a.CreatedAt.UTC())
	return err
}

// FindByEmail fetches an admin by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Admin, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`, email)
	var (
		id        uuid.UUID
		createdAt time.Time
		a         Admin
	)
	if err := row.Scan(&id, &a.Email, &a.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, err
	}
	a.ID = id.String()
	a.CreatedAt = createdAt.UTC()
	return a, nil
}
