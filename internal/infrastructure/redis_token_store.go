package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix     = "token:"
	userTokenKeyPrefix = "user_token:"
	liveTokensKey      = "tokens:live"
)

// The scripts keep the two directions of the mapping in step; a plain
// GET-then-SET would let two concurrent logins mint two tokens for one user.
// The revoke scripts derive the reverse key from a stored value, so not every
// key they touch is in KEYS: the store needs a single Redis node or a
// primary/replica setup, not Redis Cluster.
var (
	issueScript = redis.NewScript(`
local existing = redis.call('GET', KEYS[1])
if existing then
	return existing
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[2])
redis.call('SADD', KEYS[3], ARGV[1])
return ARGV[1]
`)

	revokeScript = redis.NewScript(`
local uid = redis.call('GET', KEYS[1])
if not uid then
	return 0
end
redis.call('DEL', KEYS[1])
redis.call('SREM', KEYS[2], ARGV[1])
local userKey = ARGV[2] .. uid
if redis.call('GET', userKey) == ARGV[1] then
	redis.call('DEL', userKey)
end
return 1
`)

	revokeUserScript = redis.NewScript(`
local token = redis.call('GET', KEYS[1])
if not token then
	return 0
end
redis.call('DEL', KEYS[1])
redis.call('DEL', ARGV[1] .. token)
redis.call('SREM', KEYS[2], token)
return 1
`)
)

// RedisTokenStore shares tokens between processes. Tokens never expire on
// their own, same as the in-memory store.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Issue(ctx context.Context, userID uuid.UUID, mint func() (string, error)) (string, error) {
	existing, err := s.client.Get(ctx, userTokenKeyPrefix+userID.String()).Result()
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", err
	}

	candidate, err := mint()
	if err != nil {
		return "", err
	}
	keys := []string{userTokenKeyPrefix + userID.String(), tokenKeyPrefix + candidate, liveTokensKey}
	token, err := issueScript.Run(ctx, s.client, keys, candidate, userID.String()).Text()
	if err != nil {
		return "", fmt.Errorf("redis issue: %w", err)
	}
	return token, nil
}

func (s *RedisTokenStore) Lookup(ctx context.Context, token string) (uuid.UUID, bool, error) {
	value, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt token entry: %w", err)
	}
	return userID, true, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	keys := []string{tokenKeyPrefix + token, liveTokensKey}
	return revokeScript.Run(ctx, s.client, keys, token, userTokenKeyPrefix).Err()
}

func (s *RedisTokenStore) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	keys := []string{userTokenKeyPrefix + userID.String(), liveTokensKey}
	return revokeUserScript.Run(ctx, s.client, keys, tokenKeyPrefix).Err()
}

func (s *RedisTokenStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, liveTokensKey).Result()
	return int(n), err
}
