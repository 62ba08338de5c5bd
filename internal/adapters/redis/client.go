package redis

import (
	"ERecyclo/internal/shared/config"
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewClient connects to Redis and pings it once.
func NewClient(ctx context.Context, cfg config.RedisConfig, baseLogger *zerolog.Logger) (*goredis.Client, error) {
	log := baseLogger.With().Str("component", "redis").Logger()

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("addr", cfg.Addr).Msg("Failed to ping redis")
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("addr", cfg.Addr).Msg("Redis connection established")
	return client, nil
}
