package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the shared connection to the session/profile store. It
// stays nil when redis is unavailable; callers treat that as "no auth".
var RedisClient *redis.Client

const (
	defaultRedisPort     = 6379
	defaultRedisTimeout  = 5 * time.Second
	defaultRedisPoolSize = 10
)

// redisOptions maps the yaml section onto client options, filling in the
// defaults for anything left unset.
func redisOptions(cfg RedisConfig) (*redis.Options, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, errors.New("redis host is empty")
	}

	port := cfg.Port
	if port == 0 {
		port = defaultRedisPort
	}

	timeout := defaultRedisTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = defaultRedisPoolSize
	}

	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     poolSize,
	}, nil
}

// InitRedis connects to the store the auth gateway writes sessions and user
// profiles into, and verifies the connection with a ping.
func InitRedis() error {
	if AppConfig == nil {
		return errors.New("app config is not initialized")
	}

	opts, err := redisOptions(AppConfig.Redis)
	if err != nil {
		return err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis ping failed (addr=%s db=%d): %w", opts.Addr, opts.DB, err)
	}

	RedisClient = client
	return nil
}

func CloseRedis() error {
	if RedisClient == nil {
		return nil
	}
	err := RedisClient.Close()
	RedisClient = nil
	return err
}
