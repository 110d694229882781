package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"megawe/internal/domain/job"
	"megawe/internal/repository"
	"megawe/internal/search"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Pagination is the one paging shape every list endpoint reports.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page, limit, total int) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 && total > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	return p
}

// Facets are the distinct values present on a returned page.
type Facets struct {
	Locations  []string `json:"locations"`
	Types      []string `json:"types"`
	Categories []string `json:"categories"`
}

type JobPage struct {
	Jobs       []job.View `json:"jobs"`
	Pagination Pagination `json:"pagination"`
	Facets     *Facets    `json:"facets,omitempty"`
}

type JobListUsecase interface {
	ListJobs(ctx context.Context, f search.FilterSpec) (JobPage, bool, error)
	FeaturedJobs(ctx context.Context, f search.FeaturedSpec) (JobPage, bool, error)
}

const (
	lockTTL           = 30 * time.Second
	defaultLockWait   = 300 * time.Millisecond
	maxLockWaitJitter = 200
)

type JobList struct {
	jobs     repository.JobRepository
	cache    SearchCache
	ttl      time.Duration
	lockWait time.Duration
	log      logrus.FieldLogger
}

// NewJobListUsecase builds the listing usecase. cache may be nil.
func NewJobListUsecase(jobs repository.JobRepository, cache SearchCache, ttl time.Duration, log logrus.FieldLogger) *JobList {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JobList{jobs: jobs, cache: cache, ttl: ttl, lockWait: defaultLockWait, log: log}
}

// ListJobs returns one page of jobs matching f. The bool reports a cache hit.
func (u *JobList) ListJobs(ctx context.Context, f search.FilterSpec) (JobPage, bool, error) {
	f = f.Normalize()
	plan, err := search.Build(f)
	if err != nil {
		return JobPage{}, false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return u.cached(ctx, JobsSearchCacheKey(f), func(ctx context.Context) (JobPage, error) {
		views, total, err := u.fetch(ctx, plan, nil)
		if err != nil {
			return JobPage{}, err
		}
		return JobPage{Jobs: views, Pagination: NewPagination(f.Page, f.Limit, total)}, nil
	})
}

// FeaturedJobs returns featured jobs first, with facets of the returned page.
func (u *JobList) FeaturedJobs(ctx context.Context, f search.FeaturedSpec) (JobPage, bool, error) {
	f = f.Normalize()
	plan, err := search.BuildFeatured(f)
	if err != nil {
		return JobPage{}, false, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return u.cached(ctx, FeaturedCacheKey(f), func(ctx context.Context) (JobPage, error) {
		views, total, err := u.fetch(ctx, plan, repository.FeaturedColumns)
		if err != nil {
			return JobPage{}, err
		}
		facets := FacetsOf(views)
		return JobPage{Jobs: views, Pagination: NewPagination(f.Page, f.Limit, total), Facets: &facets}, nil
	})
}

// fetch runs the count and page queries of plan concurrently.
func (u *JobList) fetch(ctx context.Context, plan search.QueryPlan, columns []string) ([]job.View, int, error) {
	var (
		total int
		recs  []job.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = u.jobs.Count(gctx, plan)
		return err
	})
	g.Go(func() (err error) {
		recs, err = u.jobs.Search(gctx, plan, columns)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.WithError(err).Error("[Jobs] query failed")
		return nil, 0, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return job.ToViews(recs), total, nil
}

func (u *JobList) cached(ctx context.Context, key string, load func(context.Context) (JobPage, error)) (JobPage, bool, error) {
	if u.cache == nil {
		page, err := load(ctx)
		return page, false, err
	}

	var hit JobPage
	if ok, err := u.cache.GetJSON(ctx, key, &hit); err == nil && ok {
		u.log.WithField("key", key).Debug("[Jobs] Cache HIT")
		return hit, true, nil
	}
	u.log.WithField("key", key).Debug("[Jobs] Cache MISS")

	lockKey := JobsSearchLockKey(key)
	locked := false
	ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", lockTTL)
	switch {
	case err == nil && ok:
		locked = true
	case err == nil:
		// Another request is rebuilding this key; give it a moment.
		if u.sleep(ctx) {
			if ok, err := u.cache.GetJSON(ctx, key, &hit); err == nil && ok {
				u.log.WithField("key", key).Debug("[Jobs] Cache HIT after wait")
				return hit, true, nil
			}
		}
		u.log.WithField("key", lockKey).Debug("[Jobs] Lock wait fallback")
	}

	page, err := load(ctx)
	if locked {
		defer func() { _ = u.cache.Delete(context.WithoutCancel(ctx), lockKey) }()
	}
	if err != nil {
		return JobPage{}, false, err
	}

	if err := u.cache.SetJSON(ctx, key, page, u.ttl); err != nil {
		u.log.WithError(err).WithField("key", key).Warn("[Jobs] Cache SET failed")
	}
	return page, false, nil
}

func (u *JobList) sleep(ctx context.Context) bool {
	if u.lockWait <= 0 {
		return true
	}
	jitter := time.Duration(time.Now().UnixNano()%maxLockWaitJitter) * time.Millisecond
	t := time.NewTimer(u.lockWait + jitter)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// FacetsOf lists the distinct locations, employment types and categories of
// views in first-seen order.
func FacetsOf(views []job.View) Facets {
	f := Facets{Locations: []string{}, Types: []string{}, Categories: []string{}}
	seen := map[string]struct{}{}
	add := func(dst *[]string, kind, v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		k := kind + "\x00" + v
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		*dst = append(*dst, v)
	}
	for _, v := range views {
		add(&f.Locations, "l", v.Location)
		add(&f.Types, "t", v.EmploymentType)
		add(&f.Categories, "c", v.Category)
	}
	return f
}
