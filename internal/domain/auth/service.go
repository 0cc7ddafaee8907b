package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markbates/goth"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive is returned when a user has been disabled.
	ErrAccountInactive = errors.New("account is deactivated")
)

// SessionMetadata captures client information for the session audit trail.
type SessionMetadata struct {
	UserAgent string
	ClientIP  string
}

// LoginResult is produced after a successful login.
type LoginResult struct {
	User   *User
	Tokens *TokenPair
}

// UserStore is the persistence dependency of the service.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, displayName string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	CreateSession(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time, userAgent, clientIP string) error
	GetSessionUser(ctx context.Context, tokenHash string) (*User, error)
	DeleteSession(ctx context.Context, tokenHash string) error
	GetUserByOAuthIdentity(ctx context.Context, provider, providerUserID string) (*User, error)
	CreateOrUpdateOAuthIdentity(ctx context.Context, provider, providerUserID string, userID uuid.UUID) error
}

// Service implements registration, login and session renewal.
type Service struct {
	repo   UserStore
	tokens *TokenManager
	logger *slog.Logger
}

// NewService creates the auth service.
func NewService(repo UserStore, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Register creates a local-password operator account and logs it in.
func (s *Service) Register(ctx context.Context, email, password, displayName string, meta SessionMetadata) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: email and a password of at least 8 characters are required", ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, string(hash), displayName)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, meta)
}

// Login verifies a password login.
func (s *Service) Login(ctx context.Context, email, password string, meta SessionMetadata) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issueTokens(ctx, user, meta)
}

// Logout revokes the refresh session.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSession(ctx, hashToken(refreshToken))
}

// Refresh rotates a refresh token into a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string, meta SessionMetadata) (*TokenPair, error) {
	oldHash := hashToken(refreshToken)
	user, err := s.repo.GetSessionUser(ctx, oldHash)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := s.repo.DeleteSession(ctx, oldHash); err != nil {
		return nil, err
	}

	result, err := s.issueTokens(ctx, user, meta)
	if err != nil {
		return nil, err
	}
	return result.Tokens, nil
}

// ValidateAccessToken verifies a bearer token and returns its claims.
func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(token)
}

// LoginOrRegisterOAuth resolves an OAuth callback into a local account,
// creating one on first sign-in. The bool result reports whether a new
// account was created.
func (s *Service) LoginOrRegisterOAuth(ctx context.Context, provider string, gothUser *goth.User, meta SessionMetadata) (*LoginResult, bool, error) {
	created := false

	user, err := s.repo.GetUserByOAuthIdentity(ctx, provider, gothUser.UserID)
	if errors.Is(err, ErrUserNotFound) {
		user, err = s.repo.GetUserByEmail(ctx, strings.ToLower(gothUser.Email))
		if errors.Is(err, ErrUserNotFound) {
			displayName := gothUser.Name
			if displayName == "" {
				displayName = gothUser.NickName
			}
			user, err = s.repo.CreateUser(ctx, strings.ToLower(gothUser.Email), "", displayName)
			created = true
		}
		if err != nil {
			return nil, false, err
		}
		if err := s.repo.CreateOrUpdateOAuthIdentity(ctx, provider, gothUser.UserID, user.ID); err != nil {
			return nil, false, err
		}
	} else if err != nil {
		return nil, false, err
	}

	if !user.IsActive {
		return nil, false, ErrAccountInactive
	}

	result, err := s.issueTokens(ctx, user, meta)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info("oauth account created",
			slog.String("provider", provider),
			slog.String("user_id", user.ID.String()),
		)
	}
	return result, created, nil
}

func (s *Service) issueTokens(ctx context.Context, user *User, meta SessionMetadata) (*LoginResult, error) {
	tokens, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSession(ctx, user.ID, hashToken(tokens.RefreshToken),
		tokens.RefreshExpiresAt, meta.UserAgent, meta.ClientIP); err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// hashToken stores only a digest of refresh tokens at rest.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
