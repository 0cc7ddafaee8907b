package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserStore struct {
	users      map[string]*User
	sessions   map[string]uuid.UUID
	identities map[string]uuid.UUID
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:      make(map[string]*User),
		sessions:   make(map[string]uuid.UUID),
		identities: make(map[string]uuid.UUID),
	}
}

func (m *memUserStore) CreateUser(_ context.Context, email, passwordHash, displayName string) (*User, error) {
	u := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Role:         "reviewer",
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.users[email] = u
	return u, nil
}

func (m *memUserStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *memUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memUserStore) CreateSession(_ context.Context, userID uuid.UUID, tokenHash string, _ time.Time, _, _ string) error {
	m.sessions[tokenHash] = userID
	return nil
}

func (m *memUserStore) GetSessionUser(ctx context.Context, tokenHash string) (*User, error) {
	id, ok := m.sessions[tokenHash]
	if !ok {
		return nil, ErrUserNotFound
	}
	return m.GetUserByID(ctx, id)
}

func (m *memUserStore) DeleteSession(_ context.Context, tokenHash string) error {
	delete(m.sessions, tokenHash)
	return nil
}

func (m *memUserStore) GetUserByOAuthIdentity(ctx context.Context, provider, providerUserID string) (*User, error) {
	id, ok := m.identities[provider+":"+providerUserID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return m.GetUserByID(ctx, id)
}

func (m *memUserStore) CreateOrUpdateOAuthIdentity(_ context.Context, provider, providerUserID string, userID uuid.UUID) error {
	m.identities[provider+":"+providerUserID] = userID
	return nil
}

func newTestService(t *testing.T) (*Service, *memUserStore) {
	t.Helper()
	store := newMemUserStore()
	return NewService(store, NewTokenManager("test-secret"), slog.Default()), store
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	meta := SessionMetadata{UserAgent: "test", ClientIP: "127.0.0.1"}

	reg, err := svc.Register(ctx, "Ivan@Example.com", "correct horse", "Ivan", meta)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.Tokens.AccessToken)

	claims, err := svc.ValidateAccessToken(reg.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID.String(), claims.UserID)

	login, err := svc.Login(ctx, "ivan@example.com", "correct horse", meta)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "ivan@example.com", "wrong password", meta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "anything", meta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Register_RejectsShortPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "a@b.bg", "short", "A", SessionMetadata{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_InactiveAccount(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "off@example.com", "correct horse", "Off", SessionMetadata{})
	require.NoError(t, err)
	store.users[reg.User.Email].IsActive = false

	_, err = svc.Login(ctx, "off@example.com", "correct horse", SessionMetadata{})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestService_RefreshRotatesSession(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	meta := SessionMetadata{}

	reg, err := svc.Register(ctx, "rot@example.com", "correct horse", "Rot", meta)
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, reg.Tokens.RefreshToken, meta)
	require.NoError(t, err)
	assert.NotEqual(t, reg.Tokens.RefreshToken, pair.RefreshToken)

	// the old token is single-use
	_, err = svc.Refresh(ctx, reg.Tokens.RefreshToken, meta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Len(t, store.sessions, 2)
}

func TestService_Logout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "out@example.com", "correct horse", "Out", SessionMetadata{})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, reg.Tokens.RefreshToken))

	_, err = svc.Refresh(ctx, reg.Tokens.RefreshToken, SessionMetadata{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_LoginOrRegisterOAuth(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	gu := &goth.User{UserID: "g-123", Email: "OAuth@Example.com", Name: "O Auth"}

	res, created, err := svc.LoginOrRegisterOAuth(ctx, "google", gu, SessionMetadata{})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "oauth@example.com", res.User.Email)
	assert.Empty(t, res.User.PasswordHash)

	// second sign-in finds the linked identity
	res2, created, err := svc.LoginOrRegisterOAuth(ctx, "google", gu, SessionMetadata{})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, res.User.ID, res2.User.ID)
	assert.Len(t, store.identities, 1)
}
