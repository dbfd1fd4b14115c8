package config

import "github.com/redis/go-redis/v9"

// ConnectRedis returns nil when no Redis address is configured.
func ConnectRedis(cfg Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
