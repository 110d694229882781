package app

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"megawe/internal/config"
	dbpostgres "megawe/internal/database/postgres"
	"megawe/internal/infrastructure/cache"
	"megawe/internal/repository"
	"megawe/internal/telemetry"
)

// Container owns the process-wide connections.
type Container struct {
	Config config.Config
	Log    *logrus.Logger
	DB     *dbpostgres.Pool
	Cache  *cache.Redis

	Jobs  repository.JobRepository
	Stats repository.StatsRepository
}

func NewContainer(cfg config.Config, log *logrus.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout+connectGrace)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	telemetry.RegisterPool(db)

	return &Container{
		Config: cfg,
		Log:    log,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, log),
		Jobs:   repository.NewPostgresJobRepository(db),
		Stats:  repository.NewPostgresStatsRepository(db),
	}, nil
}

// Deps exposes the container to the HTTP layer.
func (c *Container) Deps() Deps {
	return Deps{
		Jobs:  c.Jobs,
		Stats: c.Stats,
		Cache: c.Cache,
		DB:    c.DB,
		Log:   c.Log,
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
