package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/adapters/session/redis"
	"github.com/vncsmyrnk/elearning/internal/logger"
)

type userIDs []string

func (u *userIDs) String() string { return strings.Join(*u, ",") }

func (u *userIDs) Set(v string) error {
	if v = strings.TrimSpace(v); v != "" {
		*u = append(*u, v)
	}
	return nil
}

// Deletes the session entry of each given user, which invalidates every
// access and refresh token issued to them.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	var ids userIDs
	flag.StringVar(&redisURL, "redis-url", redisURL, "Redis URL")
	flag.Var(&ids, "user-id", "User id whose session is revoked (repeatable)")
	flag.Parse()

	if len(ids) == 0 {
		log.Fatal("at least one -user-id is required.")
	}

	logg := logger.New(os.Getenv("LOG_LEVEL"), false)
	defer logg.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := redis.Connect(ctx, redisURL)
	if err != nil {
		logg.Fatal("failed to connect", zap.Error(err))
	}
	defer client.Close()

	store := redis.NewStore(client, logg)

	failed := 0
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			failed++
			continue
		}
		logg.Info("session revoked", zap.String("user_id", id))
	}

	if failed > 0 {
		logg.Fatal("some sessions could not be revoked", zap.Int("failed", failed), zap.Int("total", len(ids)))
	}
}
