package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"amonic/skydesk/internal/logging"
)

// NewRedisClient builds the session store client. A failed ping is logged
// and the client is still returned; the pool reconnects on demand.
func NewRedisClient(addr, password string, db int) *redis.Client {
	logging.Info("Initializing Redis client", "addr", addr, "db", db)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Error("Failed to ping Redis", "addr", addr, "error", err)
		return client
	}

	logging.Info("Connected to Redis", "addr", addr)
	return client
}
