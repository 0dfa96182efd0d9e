package bootstrap

import (
	"fmt"

	"quietspace/internal/cache"
	"quietspace/internal/config"
	"quietspace/internal/database"
	"quietspace/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
	Seed         seed.Options
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
// The Redis client may be nil if the server is unreachable; callers are
// expected to tolerate that.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		if err := seed.Run(db, opts.Seed); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}
