package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/entity"

	"github.com/go-redis/redis/v8"
)

// RedisCartStore keeps one cart per session id as a JSON blob in redis.
// Every Put is durable before it returns, so the next request on the
// same session sees the mutation.
type RedisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("basket:%s", sessionID)
}

// Get returns the cart for a session; a missing key is an empty cart.
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*entity.Cart, error) {
	val, err := s.rdb.Get(ctx, cartKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &entity.Cart{}, nil
		}
		return nil, err
	}

	cart := &entity.Cart{}
	if err := json.Unmarshal([]byte(val), cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *RedisCartStore) Put(ctx context.Context, sessionID string, cart *entity.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(sessionID), data, s.ttl).Err()
}

func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, cartKey(sessionID)).Err()
}
