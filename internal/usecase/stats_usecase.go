package usecase

import (
	"context"
	"fmt"

	"megawe/internal/domain/job"
	"megawe/internal/repository"

	"github.com/sirupsen/logrus"
)

type StatsUsecase interface {
	Stats(ctx context.Context) (job.Stats, error)
	Summary(ctx context.Context) (job.Summary, error)
}

type StatsService struct {
	repo repository.StatsRepository
	log  logrus.FieldLogger
}

func NewStatsUsecase(repo repository.StatsRepository, log logrus.FieldLogger) *StatsService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StatsService{repo: repo, log: log}
}

func (s *StatsService) Stats(ctx context.Context) (job.Stats, error) {
	st, err := s.repo.Aggregate(ctx)
	if err != nil {
		s.log.WithError(err).Error("[Stats] aggregate failed")
		return job.EmptyStats(), fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return st, nil
}

func (s *StatsService) Summary(ctx context.Context) (job.Summary, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return job.EmptyStats().Summary(), err
	}
	return st.Summary(), nil
}
