// Package bootstrap opens the shared runtime dependencies used by the cmd
// entry points.
package bootstrap

import (
	"fmt"

	"blogapp/internal/cache"
	"blogapp/internal/config"
	"blogapp/internal/database"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis. The Redis client is nil
// when REDIS_URL is unset or unreachable.
func InitRuntime(cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("runtime requires config")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May leave a nil client if Redis is unreachable.
	cache.InitRedis(cfg.RedisURL)
	return db, cache.GetClient(), nil
}
