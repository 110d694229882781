package repositorytest

import (
	"context"
	"sync/atomic"

	"megawe/internal/domain/job"
	"megawe/internal/repository"
)

// StaticStats returns a fixed aggregate.
type StaticStats struct {
	Stats job.Stats
	Err   error

	Calls atomic.Int32
}

var _ repository.StatsRepository = (*StaticStats)(nil)

func (s *StaticStats) Aggregate(context.Context) (job.Stats, error) {
	s.Calls.Add(1)
	if s.Err != nil {
		return job.EmptyStats(), s.Err
	}
	return s.Stats, nil
}
