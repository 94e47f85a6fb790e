// Command migrate copies the development JSON files into Redis using
// the same collection layout the server reads, so a local data set can
// seed a Redis deployment.
package main

import (
	"context"
	"fmt"
	"log"

	"oha-portal/internal/config"
	"oha-portal/internal/store"
	"oha-portal/pkg/logger"
	"oha-portal/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.RedisURL == "" {
		log.Fatal("REDIS_URL environment variable is not set")
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	fileStore, err := store.NewFileStore(cfg.DataDir, zlog)
	if err != nil {
		log.Fatalf("Failed to open data directory: %v", err)
	}

	client, err := redis.NewClient(cfg.RedisURL, zlog.Logger)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer client.Close()

	redisStore := store.NewRedisStore(client, cfg.KeyPrefix, zlog)
	ctx := context.Background()

	users := fileStore.ReadUsers(ctx)
	if err := redisStore.WriteUsers(ctx, users); err != nil {
		log.Fatalf("Failed to migrate users: %v", err)
	}
	fmt.Printf("Migrated %d users\n", len(users))

	proposals := fileStore.ReadProposals(ctx)
	if err := redisStore.WriteProposals(ctx, proposals); err != nil {
		log.Fatalf("Failed to migrate proposals: %v", err)
	}
	fmt.Printf("Migrated %d proposals\n", len(proposals))

	comments := fileStore.ReadComments(ctx)
	if err := redisStore.WriteComments(ctx, comments); err != nil {
		log.Fatalf("Failed to migrate comments: %v", err)
	}
	fmt.Printf("Migrated %d comments\n", len(comments))

	requests := fileStore.ReadRequests(ctx)
	if err := redisStore.WriteRequests(ctx, requests); err != nil {
		log.Fatalf("Failed to migrate proposal requests: %v", err)
	}
	fmt.Printf("Migrated %d proposal requests\n", len(requests))

	fmt.Println("Migration complete")
}
