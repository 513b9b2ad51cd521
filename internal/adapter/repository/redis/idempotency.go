package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pocketbank:idemp:"

// placeholder marks a key claimed by an in-flight request whose
// response is not yet known.
const placeholder = "in-flight"

// IdempotencyStore backs usecase.IdempotencyStore with Redis so
// replayed write requests return the original response instead of
// posting twice.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// CheckAndSet claims key for the caller. It returns (true, cached, nil)
// when the key was already claimed, where cached is the recorded
// response (nil while the first request is still in flight).
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	full := keyPrefix + key

	cached, err := s.client.Get(ctx, full).Bytes()
	if err == nil {
		if string(cached) == placeholder {
			cached = nil
		}
		return true, cached, nil
	}
	if err != redis.Nil {
		return false, nil, err
	}

	if response != nil {
		if err := s.client.Set(ctx, full, response, ttl).Err(); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	claimed, err := s.client.SetNX(ctx, full, placeholder, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !claimed {
		// Lost the race to a concurrent request.
		cached, err := s.client.Get(ctx, full).Bytes()
		if err != nil && err != redis.Nil {
			return false, nil, err
		}
		if string(cached) == placeholder {
			cached = nil
		}
		return true, cached, nil
	}
	return false, nil, nil
}

// Update replaces the placeholder with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, keyPrefix+key, response, ttl).Err()
}
