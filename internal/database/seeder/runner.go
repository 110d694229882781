package seeder

import (
	"context"
	"fmt"
	"time"

	"megawe/internal/database"

	"github.com/sirupsen/logrus"
)

type Runner struct {
	Seeders []Seeder
	Log     logrus.FieldLogger
}

// Run executes seeders in order and stops at the first failure. When only
// is non-empty, seeders whose names are not listed are skipped.
func (r Runner) Run(ctx context.Context, db database.DB, only ...string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	for _, s := range r.Seeders {
		if s == nil || !selected(s.Name(), only) {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.WithFields(logrus.Fields{
			"seeder":      s.Name(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("[Seeder] done")
	}
	return nil
}

func selected(name string, only []string) bool {
	if len(only) == 0 {
		return true
	}
	for _, o := range only {
		if o == name {
			return true
		}
	}
	return false
}
