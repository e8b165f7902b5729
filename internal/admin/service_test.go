package admin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/istehunt/hunt/internal/admin"
)

type mockRepo struct {
	admins map[string]*admin.Admin
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*admin.Admin, error) {
	a, ok := m.admins[email]
	if !ok {
		return nil, admin.ErrAdminNotFound
	}
	return a, nil
}

func (m *mockRepo) Upsert(_ context.Context, email, hash string) error {
	if m.admins == nil {
		m.admins = make(map[string]*admin.Admin)
	}
	m.admins[email] = &admin.Admin{ID: int64(len(m.admins) + 1), Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	return nil
}

func newService(repo admin.Repository) *admin.Service {
	// MinCost keeps the hashing fast in tests.
	return admin.NewService(repo, "test-secret", 12*time.Hour, bcrypt.MinCost)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	svc := newService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CreateAdmin(ctx, "admin@example.com", "changeme"))

	token, err := svc.Login(ctx, "admin@example.com", "changeme")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "1", claims.Subject)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	svc := newService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CreateAdmin(ctx, "admin@example.com", "changeme"))

	_, err := svc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, admin.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc := newService(&mockRepo{})

	// Indistinguishable from a wrong password.
	_, err := svc.Login(context.Background(), "nobody@example.com", "changeme")
	assert.ErrorIs(t, err, admin.ErrInvalidCredentials)
}

func TestVerify_TamperedToken(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	svc := newService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CreateAdmin(ctx, "admin@example.com", "changeme"))
	token, err := svc.Login(ctx, "admin@example.com", "changeme")
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	assert.ErrorIs(t, err, admin.ErrInvalidToken)

	_, err = svc.Verify("not-a-token")
	assert.ErrorIs(t, err, admin.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	svc := newService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CreateAdmin(ctx, "admin@example.com", "changeme"))
	token, err := svc.Login(ctx, "admin@example.com", "changeme")
	require.NoError(t, err)

	other := admin.NewService(repo, "other-secret", 12*time.Hour, bcrypt.MinCost)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, admin.ErrInvalidToken)
}

func TestCreateAdmin_HashesPassword(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	svc := newService(repo)
	ctx := context.Background()

	require.NoError(t, svc.CreateAdmin(ctx, "admin@example.com", "changeme"))

	stored := repo.admins["admin@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "changeme", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("changeme")))
}
