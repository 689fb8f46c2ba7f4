package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"practicetrack/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		fmt.Println("Redis connection closed.")
	}
}

// RevokeStore tracks logged-out session IDs until their tokens expire.
type RevokeStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type redisRevokeStore struct {
	rdb *redis.Client
}

func NewRedisRevokeStore(rdb *redis.Client) RevokeStore {
	return &redisRevokeStore{rdb: rdb}
}

func revokeKey(sessionID string) string {
	return "session:revoked:" + sessionID
}

func (s *redisRevokeStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to deny.
		return nil
	}
	if err := s.rdb.Set(ctx, revokeKey(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redisRevokeStore.Revoke: %w", err)
	}
	return nil
}

func (s *redisRevokeStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokeKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redisRevokeStore.IsRevoked: %w", err)
	}
	return n > 0, nil
}
