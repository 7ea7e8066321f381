package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board-service/internal/auth"
	"board-service/internal/auth/authtest"
	"board-service/internal/domain"
	"board-service/internal/domain/entities"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entities.User
	err   error
}

func newFakeUsers(users ...*entities.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uuid.UUID]*entities.User)}
	for _, u := range users {
		f.users[u.Id] = u
	}
	return f
}

func (f *fakeUsers) FindById(_ context.Context, id uuid.UUID) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.users[id], nil
}

func (f *fakeUsers) remove(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

func TestMemoryStore(t *testing.T) {
	authtest.RunStoreContract(t, func(*testing.T) auth.TokenStore {
		return auth.NewMemoryStore()
	})
}

func TestRegistry_IssueResolveRevoke(t *testing.T) {
	ctx := context.Background()
	alice := entities.NewUser("alice@example.com", "Alice", "pw")
	registry := auth.NewRegistry(auth.NewMemoryStore(), newFakeUsers(alice))

	token, err := registry.Issue(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, token, 43)

	again, err := registry.Issue(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	user, err := registry.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, alice.Id, user.Id)

	require.NoError(t, registry.Revoke(ctx, token))
	_, err = registry.Resolve(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	require.NoError(t, registry.Revoke(ctx, token))
}

func TestRegistry_ResolveEvictsTokenOfDeletedUser(t *testing.T) {
	ctx := context.Background()
	alice := entities.NewUser("alice@example.com", "Alice", "pw")
	users := newFakeUsers(alice)
	registry := auth.NewRegistry(auth.NewMemoryStore(), users)

	token, err := registry.Issue(ctx, alice)
	require.NoError(t, err)

	users.remove(alice.Id)

	_, err = registry.Resolve(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	count, err := registry.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRegistry_RevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	alice := entities.NewUser("alice@example.com", "Alice", "pw")
	registry := auth.NewRegistry(auth.NewMemoryStore(), newFakeUsers(alice))

	token, err := registry.Issue(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, registry.RevokeAllForUser(ctx, alice.Id))

	_, err = registry.Resolve(ctx, token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRegistry_ResolveSurfacesStoreErrors(t *testing.T) {
	ctx := context.Background()
	alice := entities.NewUser("alice@example.com", "Alice", "pw")
	users := newFakeUsers(alice)
	registry := auth.NewRegistry(auth.NewMemoryStore(), users)
	token, err := registry.Issue(ctx, alice)
	require.NoError(t, err)

	users.err = errors.New("db down")
	_, err = registry.Resolve(ctx, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		token  string
		err    error
	}{
		{"Token abc", "abc", nil},
		{"Token   abc  ", "abc", nil},
		{"", "", auth.ErrMissingCredentials},
		{"Bearer xyz", "", auth.ErrMissingCredentials},
		{"token abc", "", auth.ErrMissingCredentials},
		{"Token ", "", auth.ErrMissingCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, err := auth.TokenFromHeader(tt.header)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}
