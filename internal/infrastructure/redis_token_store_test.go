package infrastructure

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board-service/internal/auth"
	"board-service/internal/auth/authtest"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisTokenStore(t *testing.T) {
	authtest.RunStoreContract(t, func(t *testing.T) auth.TokenStore {
		_, client := newTestRedis(t)
		return NewRedisTokenStore(client)
	})
}

func TestRedisTokenStore_Layout(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisTokenStore(client)
	user := uuid.New()

	token, err := store.Issue(context.Background(), user, auth.NewToken)
	require.NoError(t, err)

	mr.CheckGet(t, "token:"+token, user.String())
	mr.CheckGet(t, "user_token:"+user.String(), token)
	assert.True(t, mr.Exists(liveTokensKey))

	require.NoError(t, store.Revoke(context.Background(), token))
	assert.False(t, mr.Exists("token:"+token))
	assert.False(t, mr.Exists("user_token:"+user.String()))
}

func TestRedisTokenStore_SharedBetweenStores(t *testing.T) {
	_, client := newTestRedis(t)
	first := NewRedisTokenStore(client)
	second := NewRedisTokenStore(client)
	user := uuid.New()

	token, err := first.Issue(context.Background(), user, auth.NewToken)
	require.NoError(t, err)

	got, ok, err := second.Lookup(context.Background(), token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user, got)

	again, err := second.Issue(context.Background(), user, auth.NewToken)
	require.NoError(t, err)
	assert.Equal(t, token, again)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{URL: "redis://" + mr.Addr() + "/0"})
	require.NoError(t, err)
	client.Close()

	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	client, err = NewRedisClient(context.Background(), RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	client.Close()

	stopped, err := miniredis.Run()
	require.NoError(t, err)
	host, port, err = net.SplitHostPort(stopped.Addr())
	require.NoError(t, err)
	stopped.Close()
	_, err = NewRedisClient(context.Background(), RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}
