package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/labforge/labauth/refresh"
)

const refreshRecordVersionV1 = 1

// refreshRecord is the wire form of one persisted refresh token.
type refreshRecord struct {
	Version     int    `json:"v"`
	PrincipalID string `json:"pid"`
	CreatedAt   int64  `json:"iat"`
	ExpiresAt   int64  `json:"exp"`
}

// RedisRefreshStore keeps refresh tokens in Redis, one key per token id,
// with a TTL matching the token's expiry. Redis evicts expired records on
// its own, so PurgeExpired always reports zero.
type RedisRefreshStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisRefreshStore returns a store writing under prefix (default "lrt").
func NewRedisRefreshStore(redisClient redis.UniversalClient, prefix string) *RedisRefreshStore {
	if prefix == "" {
		prefix = "lrt"
	}
	return &RedisRefreshStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *RedisRefreshStore) key(tokenID string) string {
	return s.prefix + ":" + tokenID
}

func (s *RedisRefreshStore) Save(ctx context.Context, token *refresh.Token) error {
	if token == nil || token.ID == "" {
		return errors.New("invalid refresh token record")
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return errors.New("refresh token already expired")
	}

	encoded, err := json.Marshal(refreshRecord{
		Version:     refreshRecordVersionV1,
		PrincipalID: token.PrincipalID,
		CreatedAt:   token.CreatedAt.Unix(),
		ExpiresAt:   token.ExpiresAt.Unix(),
	})
	if err != nil {
		return err
	}

	return s.redis.Set(ctx, s.key(token.ID), encoded, ttl).Err()
}

func (s *RedisRefreshStore) FindByTokenID(ctx context.Context, id string) (*refresh.Token, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record refreshRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt refresh record: %v", err)
	}
	if record.Version != refreshRecordVersionV1 {
		return nil, fmt.Errorf("unsupported refresh record version %d", record.Version)
	}

	return &refresh.Token{
		ID:          id,
		PrincipalID: record.PrincipalID,
		CreatedAt:   time.Unix(record.CreatedAt, 0).UTC(),
		ExpiresAt:   time.Unix(record.ExpiresAt, 0).UTC(),
	}, nil
}

func (s *RedisRefreshStore) DeleteByTokenID(ctx context.Context, id string) (bool, error) {
	n, err := s.redis.Del(ctx, s.key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisRefreshStore) PurgeExpired(context.Context, time.Time) (int, error) {
	// Key TTLs already sweep expired records.
	return 0, nil
}
