// Package redis caches game details and relays move events over pub/sub
package redis

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
}

// Connect returns a client, or nil when Redis can't be reached. Callers run
// without the cache and relay in that case.
func Connect(ctx context.Context, opts Options) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[REDIS] Warning: Could not connect to Redis at %s: %v. Running without cache and relay.", opts.Addr, err)
		_ = client.Close()
		return nil
	}

	log.Println("[REDIS] Connected successfully")
	return client
}
