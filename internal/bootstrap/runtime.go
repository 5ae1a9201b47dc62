// Package bootstrap wires shared runtime dependencies for the CLIs.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/cache"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/config"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/database"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/seed"

	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo populates the database with generated demo data.
	// Refused outside the development environment.
	SeedDemo bool
	// SeedProfilePath points at a YAML seed profile; empty means the
	// built-in default profile.
	SeedProfilePath string
	// CleanBeforeSeed wipes existing rows before seeding.
	CleanBeforeSeed bool
}

// InitRuntime connects to the database and Redis and optionally runs
// demo seeding. The cache handle is never nil; when Redis is
// unreachable it degrades to a pass-through, the same way the server
// does.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *cache.Cache, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.Connect(cfg.RedisURL)

	if opts.SeedDemo {
		if err := runDemoSeed(ctx, cfg, db, rdb, opts); err != nil {
			return nil, nil, err
		}
	}

	return db, rdb, nil
}

func runDemoSeed(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *cache.Cache, opts Options) error {
	if !strings.EqualFold(cfg.Env, "development") && !strings.EqualFold(cfg.Env, "test") {
		return fmt.Errorf("demo seeding refused in %q environment", cfg.Env)
	}

	profile := seed.DefaultProfile()
	if opts.SeedProfilePath != "" {
		var err error
		profile, err = seed.LoadProfile(opts.SeedProfilePath)
		if err != nil {
			return err
		}
	}

	seeder := seed.NewSeeder(db, profile, rdb)
	if opts.CleanBeforeSeed {
		if err := seeder.ClearAll(); err != nil {
			return fmt.Errorf("clean before seed: %w", err)
		}
	}
	if err := seeder.Run(ctx); err != nil {
		return fmt.Errorf("demo seeding failed: %w", err)
	}

	log.Println("demo data seeded; all generated users share the password password123")
	return nil
}
