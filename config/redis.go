package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// ConnectRedis dials Redis once using REDIS_ADDR, REDIS_PASS, and REDIS_DB.
// The client is optional infrastructure: session caching and rate limiting
// degrade gracefully when it is absent, so a failed ping leaves the client
// nil instead of aborting startup. The test environment never connects.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		cfg := LoadConfig()
		if (cfg != nil && cfg.AppEnv == "test") || os.Getenv("APPENV") == "test" {
			return
		}

		addr := os.Getenv("REDIS_ADDR")
		if addr == "" {
			addr = "localhost:6379"
		}
		dbNum := 0
		if raw := os.Getenv("REDIS_DB"); raw != "" {
			if v, convErr := strconv.Atoi(raw); convErr == nil {
				dbNum = v
			}
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASS"),
			DB:       dbNum,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			err = fmt.Errorf("redis ping failed: %w", err)
			return
		}

		redisClient = rdb
		log.Printf("Connected to Redis at %s", addr)
	})
	return redisClient, err
}

// GetRedisClient returns the Redis client, which is nil when ConnectRedis has
// not run or failed.
func GetRedisClient() *redis.Client {
	return redisClient
}

// SetRedisClientForTest allows tests to inject a mock Redis client.
// This should only be used in tests.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest clears the injected Redis client after a test and
// allows ConnectRedis to run again.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
