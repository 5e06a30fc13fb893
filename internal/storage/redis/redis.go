package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/proj/internal/storage"

	"github.com/redis/go-redis/v9"
)

func New(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// CodeStore keeps one confirmation code hash per user, expiring after ttl.
type CodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCodeStore(client *redis.Client, ttl time.Duration) *CodeStore {
	return &CodeStore{client: client, ttl: ttl}
}

func codeKey(userID int64) string {
	return fmt.Sprintf("auth:confirmation_code:%d", userID)
}

// Set replaces any code previously issued for the user.
func (s *CodeStore) Set(ctx context.Context, userID int64, codeHash []byte) error {
	if err := s.client.Set(ctx, codeKey(userID), codeHash, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis confirmation code set: %w", err)
	}
	return nil
}

func (s *CodeStore) Get(ctx context.Context, userID int64) ([]byte, error) {
	hash, err := s.client.Get(ctx, codeKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("redis confirmation code get: %w", err)
	}
	return hash, nil
}

// Delete consumes the user's code. It returns storage.ErrNotFound when there was
// no code left to remove, so of two concurrent callers only one succeeds.
func (s *CodeStore) Delete(ctx context.Context, userID int64) error {
	removed, err := s.client.Del(ctx, codeKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis confirmation code delete: %w", err)
	}
	if removed == 0 {
		return storage.ErrNotFound
	}
	return nil
}
