package db

import (
	"context"
	"time"

	"janken_backend/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// Connect creates the shared Redis client and verifies the connection.
// The client is passed down explicitly; nothing else in the process
// creates its own connection.
func Connect(addr, password string, db int) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to ping redis", "error", err)
	}

	logger.Info("redis connected", "addr", addr)
	return rdb
}
