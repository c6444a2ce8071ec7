package cache

import (
	"context"
	"log"
	"time"

	config "github.com/citytransit/bus_pass_backend/configs"
	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// ConnectRedis dials the configured redis instance. Redis only backs the
// one-time-code store, so a missing REDIS_ADDR is a warning, not a fatal:
// callers fall back to the in-memory store.
func ConnectRedis() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR not set, one-time codes will use the in-memory store")
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		log.Fatalf("🔥 Failed to connect to redis: %v", err)
	}
	log.Println("✅ Redis connected successfully")
}
