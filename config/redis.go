package config

import (
	"fmt"

	"portfolio/global"

	"github.com/go-redis/redis"
)

// InitRedis connects when an address is configured. A nil client means Redis is disabled.
func InitRedis(cfg *Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})
	if _, err := client.Ping().Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
	}

	global.RedisDB = client
	return client, nil
}
