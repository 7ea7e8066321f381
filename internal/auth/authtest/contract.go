// Package authtest holds the behaviour every auth.TokenStore must share, so
// each backing store runs the same checks.
package authtest

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board-service/internal/auth"
)

func RunStoreContract(t *testing.T, newStore func(t *testing.T) auth.TokenStore) {
	ctx := context.Background()

	t.Run("issue is idempotent per user", func(t *testing.T) {
		store := newStore(t)
		user := uuid.New()

		first, err := store.Issue(ctx, user, auth.NewToken)
		require.NoError(t, err)
		second, err := store.Issue(ctx, user, func() (string, error) {
			t.Fatal("mint called for a user that already has a token")
			return "", nil
		})
		require.NoError(t, err)
		assert.Equal(t, first, second)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("lookup maps the token back to its user", func(t *testing.T) {
		store := newStore(t)
		alice, bob := uuid.New(), uuid.New()

		aliceToken, err := store.Issue(ctx, alice, auth.NewToken)
		require.NoError(t, err)
		bobToken, err := store.Issue(ctx, bob, auth.NewToken)
		require.NoError(t, err)
		assert.NotEqual(t, aliceToken, bobToken)

		got, ok, err := store.Lookup(ctx, aliceToken)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, alice, got)

		_, ok, err = store.Lookup(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("revoke removes both directions and is repeatable", func(t *testing.T) {
		store := newStore(t)
		user := uuid.New()
		token, err := store.Issue(ctx, user, auth.NewToken)
		require.NoError(t, err)

		require.NoError(t, store.Revoke(ctx, token))
		require.NoError(t, store.Revoke(ctx, token))
		require.NoError(t, store.Revoke(ctx, "never-issued"))

		_, ok, err := store.Lookup(ctx, token)
		require.NoError(t, err)
		assert.False(t, ok)

		fresh, err := store.Issue(ctx, user, auth.NewToken)
		require.NoError(t, err)
		assert.NotEqual(t, token, fresh)
	})

	t.Run("revoke user drops only that user's token", func(t *testing.T) {
		store := newStore(t)
		alice, bob := uuid.New(), uuid.New()
		aliceToken, err := store.Issue(ctx, alice, auth.NewToken)
		require.NoError(t, err)
		bobToken, err := store.Issue(ctx, bob, auth.NewToken)
		require.NoError(t, err)

		require.NoError(t, store.RevokeUser(ctx, alice))
		require.NoError(t, store.RevokeUser(ctx, alice))

		_, ok, err := store.Lookup(ctx, aliceToken)
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = store.Lookup(ctx, bobToken)
		require.NoError(t, err)
		assert.True(t, ok)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("concurrent issue for one user yields one token", func(t *testing.T) {
		store := newStore(t)
		user := uuid.New()

		const workers = 16
		tokens := make([]string, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				token, err := store.Issue(ctx, user, auth.NewToken)
				assert.NoError(t, err)
				tokens[i] = token
			}(i)
		}
		wg.Wait()

		for _, token := range tokens[1:] {
			assert.Equal(t, tokens[0], token)
		}
		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
