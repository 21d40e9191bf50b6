package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is a PostgreSQL-backed UserStore for production deployments.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to PostgreSQL, verifies connectivity and runs
// migrations.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pooling configuration
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

func (s *PGStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			name          TEXT NOT NULL,
			username      TEXT NOT NULL UNIQUE,
			mobile        TEXT NOT NULL DEFAULT '',
			address       TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Ping checks database connectivity.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateUser registers a new user with a hashed password.
func (s *PGStore) CreateUser(ctx context.Context, nu *NewUser) (*User, error) {
	if err := validateNewUser(nu); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(nu.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Email:        nu.Email,
		Name:         nu.Name,
		Username:     nu.Username,
		Mobile:       nu.Mobile,
		Address:      nu.Address,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}

	// Pre-check for friendlier errors than constraint violations
	var taken bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, nu.Email,
	).Scan(&taken); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, nu.Email)
	}
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, nu.Username,
	).Scan(&taken); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, nu.Username)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (id, email, name, username, mobile, address, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Email, user.Name, user.Username, user.Mobile, user.Address, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *PGStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.queryUser(ctx, `
		SELECT id, email, name, username, mobile, address, password_hash, created_at
		FROM users WHERE email = $1
	`, email)
}

// GetUserByID retrieves a user by ID.
func (s *PGStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.queryUser(ctx, `
		SELECT id, email, name, username, mobile, address, password_hash, created_at
		FROM users WHERE id = $1
	`, id)
}

func (s *PGStore) queryUser(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Name, &user.Username,
		&user.Mobile, &user.Address, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// UpdatePassword replaces a user's password with a new hash.
func (s *PGStore) UpdatePassword(ctx context.Context, email, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE email = $2`, hashed, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, email)
	}

	return nil
}
