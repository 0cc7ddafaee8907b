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

// ErrUserNotFound is returned for missing users or sessions.
var ErrUserNotFound = errors.New("user not found")

// User is one dashboard operator account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // empty for OAuth-only accounts
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository persists users, refresh sessions and OAuth identities.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts an operator account.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash, displayName string) (*User, error) {
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Role:         "operator",
		IsActive:     true,
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Role, u.IsActive,
	).Scan(&u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, `WHERE email = $1`, email)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

func (r *Repository) getUser(ctx context.Context, where string, arg any) (*User, error) {
	u := &User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, display_name, role, is_active, created_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// CreateSession stores a hashed refresh token.
func (r *Repository) CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time, userAgent, clientIP string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, expires_at, user_agent, client_ip)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), userID, tokenHash, expiresAt, userAgent, clientIP)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSessionUser resolves a refresh token hash to its user, if the session
// is still live.
func (r *Repository) GetSessionUser(ctx context.Context, tokenHash string) (*User, error) {
	u := &User{}
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.password_hash, u.display_name, u.role, u.is_active, u.created_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1 AND s.expires_at > now()`, tokenHash,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	return u, nil
}

// DeleteSession revokes a refresh token.
func (r *Repository) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetUserByOAuthIdentity resolves a provider identity to its user.
func (r *Repository) GetUserByOAuthIdentity(ctx context.Context, provider, providerUserID string) (*User, error) {
	u := &User{}
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.password_hash, u.display_name, u.role, u.is_active, u.created_at
		FROM oauth_identities oi JOIN users u ON u.id = oi.user_id
		WHERE oi.provider = $1 AND oi.provider_user_id = $2`, provider, providerUserID,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve oauth identity: %w", err)
	}
	return u, nil
}

// CreateOrUpdateOAuthIdentity links a provider identity to a user.
func (r *Repository) CreateOrUpdateOAuthIdentity(ctx context.Context, provider, providerUserID string, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO oauth_identities (id, provider, provider_user_id, user_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider, provider_user_id) DO UPDATE SET user_id = EXCLUDED.user_id`,
		uuid.New(), provider, providerUserID, userID)
	if err != nil {
		return fmt.Errorf("failed to upsert oauth identity: %w", err)
	}
	return nil
}
