package services

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisService is an optional cache in front of the context assembler.
// When Redis is unreachable the service is simply absent and every read
// goes to the databases.
type RedisService struct {
	client *redis.Client
}

// NewRedisService connects to Redis, returning nil (not an error) when
// the URL is empty or the server is unreachable.
func NewRedisService(url string) *RedisService {
	if url == "" {
		log.Println("⚠️ Redis not configured, context caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("⚠️ Invalid REDIS_URL, context caching disabled: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable, context caching disabled: %v", err)
		client.Close()
		return nil
	}

	log.Println("✅ Redis connected")
	return &RedisService{client: client}
}

// Get returns the cached value or "" on miss/error
func (r *RedisService) Get(ctx context.Context, key string) string {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores a value with a TTL, logging but not propagating failures
func (r *RedisService) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("⚠️ [REDIS] Failed to cache %s: %v", key, err)
	}
}

// Delete removes a key
func (r *RedisService) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		log.Printf("⚠️ [REDIS] Failed to delete %s: %v", key, err)
	}
}

// Close shuts the client down
func (r *RedisService) Close() error {
	return r.client.Close()
}
