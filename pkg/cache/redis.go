package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/school-ledger-api/pkg/config"
)

// NewRedis returns a configured Redis client. A failed ping closes the client.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// LedgerKey is the cache key of a ledger grid.
func LedgerKey(class, section, year string) string {
	return fmt.Sprintf("ledger:%s:%s:%s", class, section, year)
}

// LedgerPattern matches every cached grid of a year.
func LedgerPattern(year string) string {
	return fmt.Sprintf("ledger:*:*:%s", year)
}

// LedgerClassPattern matches every cached grid of a class across sections and years.
func LedgerClassPattern(class string) string {
	return fmt.Sprintf("ledger:%s:*", class)
}

// SettingsKey is the cache key of the settings row.
const SettingsKey = "settings:school"
