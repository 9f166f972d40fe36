package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
	"github.com/vncsmyrnk/elearning/internal/core/ports"
)

const keyPrefix = "session:"

// Store keeps one JSON user snapshot per user id with a sliding TTL.
type Store struct {
	client *redis.Client
	logger *zap.Logger
}

func NewStore(client *redis.Client, logger *zap.Logger) *Store {
	return &Store{client: client, logger: logger}
}

var _ ports.SessionStore = (*Store)(nil)

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func key(userID string) string {
	return keyPrefix + userID
}

func (s *Store) Put(ctx context.Context, userID string, snapshot *domain.User, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(userID), data, ttl).Err(); err != nil {
		s.logger.Error("failed to write session", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID string) (*domain.User, bool, error) {
	data, err := s.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		s.logger.Error("failed to read session", zap.Error(err), zap.String("user_id", userID))
		return nil, false, err
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Error("corrupt session entry", zap.Error(err), zap.String("user_id", userID))
		return nil, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return &user, true, nil
}

// Replace uses SET XX KEEPTTL so a concurrently deleted entry stays deleted.
func (s *Store) Replace(ctx context.Context, userID string, snapshot *domain.User) (bool, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return false, fmt.Errorf("failed to encode session: %w", err)
	}
	replaced, err := s.client.SetXX(ctx, key(userID), data, redis.KeepTTL).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		s.logger.Error("failed to replace session", zap.Error(err), zap.String("user_id", userID))
		return false, err
	}
	return replaced, nil
}

func (s *Store) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		s.logger.Error("failed to delete session", zap.Error(err), zap.String("user_id", userID))
		return err
	}
	return nil
}
