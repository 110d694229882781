package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megawe/internal/domain/job"
	"megawe/internal/infrastructure/cache"
	"megawe/internal/repository/repositorytest"
	"megawe/internal/search"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func record(id, location string, postedDaysAgo int) job.Record {
	return job.Record{
		ID:             id,
		Title:          repositorytest.Str("Job " + id),
		Company:        repositorytest.Str("Acme"),
		EmployerID:     repositorytest.Str("emp-1"),
		Location:       repositorytest.Str(location),
		EmploymentType: repositorytest.Str("full-time"),
		Category:       repositorytest.Str("IT"),
		IsActive:       true,
		PostedAt:       repositorytest.Time(now.AddDate(0, 0, -postedDaysAgo)),
	}
}

func jakartaStore() *repositorytest.MemoryJobs {
	expired := record("j-expired", "Jakarta", 40)
	expired.ExpiresAt = repositorytest.Time(now.AddDate(0, 0, -1))
	inactive := record("j-inactive", "Jakarta", 1)
	inactive.IsActive = false

	repo := repositorytest.NewMemoryJobs(
		record("j1", "Jakarta", 1),
		record("j2", "Jakarta", 2),
		record("j3", "Jakarta", 3),
		expired,
		inactive,
		record("b1", "Bandung", 1),
	)
	repo.Now = func() time.Time { return now }
	return repo
}

func TestListJobs_ExcludesExpiredAndPaginates(t *testing.T) {
	uc := NewJobListUsecase(jakartaStore(), nil, 0, nil)

	page, hit, err := uc.ListJobs(context.Background(), search.FilterSpec{Location: "Jakarta", Limit: 2, Page: 1})
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, page.Jobs, 2)
	assert.Equal(t, Pagination{Page: 1, Limit: 2, Total: 3, TotalPages: 2}, page.Pagination)
	for _, j := range page.Jobs {
		assert.Equal(t, "Jakarta", j.Location)
	}
	assert.Nil(t, page.Facets)

	page, _, err = uc.ListJobs(context.Background(), search.FilterSpec{Location: "jakarta", Limit: 2, Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, "j3", page.Jobs[0].ID)
}

func TestListJobs_LimitBoundary(t *testing.T) {
	uc := NewJobListUsecase(jakartaStore(), nil, 0, nil)

	_, _, err := uc.ListJobs(context.Background(), search.FilterSpec{Limit: 100})
	require.NoError(t, err)

	_, _, err = uc.ListJobs(context.Background(), search.FilterSpec{Limit: 101})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, search.ErrInvalidFilter)

	var verr *search.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Limit cannot exceed 100", verr.Message)
}

func TestListJobs_StorageErrorIsInternal(t *testing.T) {
	repo := jakartaStore()
	repo.Err = errors.New("connection refused")
	log, hook := test.NewNullLogger()
	uc := NewJobListUsecase(repo, nil, 0, log)

	_, _, err := uc.ListJobs(context.Background(), search.FilterSpec{})
	require.ErrorIs(t, err, ErrInternal)
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "query failed")
}

func TestFeaturedJobs_LimitAndFacets(t *testing.T) {
	uc := NewJobListUsecase(jakartaStore(), nil, 0, nil)

	page, _, err := uc.FeaturedJobs(context.Background(), search.FeaturedSpec{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, page.Jobs, 4)
	require.NotNil(t, page.Facets)
	assert.Equal(t, "b1", page.Jobs[0].ID)
	assert.Equal(t, []string{"Bandung", "Jakarta"}, page.Facets.Locations)
	assert.Equal(t, []string{"full-time"}, page.Facets.Types)
	assert.Equal(t, []string{"IT"}, page.Facets.Categories)
	assert.Equal(t, 50, page.Pagination.Limit)

	page, _, err = uc.FeaturedJobs(context.Background(), search.FeaturedSpec{})
	require.NoError(t, err)
	assert.Equal(t, search.DefaultFeaturedLimit, page.Pagination.Limit)

	_, _, err = uc.FeaturedJobs(context.Background(), search.FeaturedSpec{Limit: 51})
	require.ErrorIs(t, err, ErrInvalidInput)
	var verr *search.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Limit cannot exceed 50", verr.Message)
}

func TestListJobs_CachesResponses(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	log, _ := test.NewNullLogger()
	rc := cache.NewRedisFromClient(client, time.Minute, log)

	repo := jakartaStore()
	uc := NewJobListUsecase(repo, rc, time.Minute, log)
	uc.lockWait = 0

	f := search.FilterSpec{Location: "Jakarta", Limit: 2}
	first, hit, err := uc.ListJobs(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, mr.Exists(JobsSearchCacheKey(f)))
	assert.False(t, mr.Exists(JobsSearchLockKey(JobsSearchCacheKey(f))))

	planned := len(repo.Plans)
	second, hit, err := uc.ListJobs(context.Background(), search.FilterSpec{Location: "  jakarta ", Limit: 2})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, planned, len(repo.Plans))
	assert.Equal(t, first.Pagination, second.Pagination)
	assert.Equal(t, first.Jobs[0].ID, second.Jobs[0].ID)

	_, err = rc.InvalidateJobs(context.Background())
	require.NoError(t, err)
	_, hit, err = uc.ListJobs(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestListJobs_CategoryCaseKeepsSeparateEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rc := cache.NewRedisFromClient(client, time.Minute, nil)

	uc := NewJobListUsecase(jakartaStore(), rc, time.Minute, nil)
	uc.lockWait = 0

	page, _, err := uc.ListJobs(context.Background(), search.FilterSpec{Category: "it"})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Pagination.Total)

	page, hit, err := uc.ListJobs(context.Background(), search.FilterSpec{Category: "IT"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 4, page.Pagination.Total)
}

func TestListJobs_WaitsOnHeldLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rc := cache.NewRedisFromClient(client, time.Minute, nil)

	uc := NewJobListUsecase(jakartaStore(), rc, time.Minute, nil)
	uc.lockWait = 0

	f := search.FilterSpec{Location: "Bandung"}
	key := JobsSearchCacheKey(f)
	require.NoError(t, mr.Set(JobsSearchLockKey(key), "1"))

	page, hit, err := uc.ListJobs(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, page.Jobs, 1)
	assert.True(t, mr.Exists(JobsSearchLockKey(key)), "a lock held by another request is left alone")
}

func TestCacheKeys(t *testing.T) {
	a := JobsSearchCacheKey(search.FilterSpec{Query: "Go  Developer", Location: "Jakarta"})
	b := JobsSearchCacheKey(search.FilterSpec{Query: "go developer", Location: " jakarta", Page: 1, Limit: 20})
	c := JobsSearchCacheKey(search.FilterSpec{Query: "go developer", Location: "Jakarta", Page: 2})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^jobs:search:[0-9a-f]{64}$`, a)
	assert.NotEqual(t,
		JobsSearchCacheKey(search.FilterSpec{Category: "it"}),
		JobsSearchCacheKey(search.FilterSpec{Category: "IT"}),
	)
	assert.Equal(t,
		JobsSearchCacheKey(search.FilterSpec{Category: "IT"}),
		JobsSearchCacheKey(search.FilterSpec{Category: " IT "}),
	)

	f := FeaturedCacheKey(search.FeaturedSpec{})
	assert.Regexp(t, `^jobs:featured:[0-9a-f]{64}$`, f)
	assert.Equal(t, f, FeaturedCacheKey(search.FeaturedSpec{Page: 1, Limit: search.DefaultFeaturedLimit}))

	assert.Equal(t, "jobs:lock:abc", JobsSearchLockKey("jobs:search:abc"))
	assert.Equal(t, "jobs:lock:abc", JobsSearchLockKey("jobs:featured:abc"))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Total: 0, TotalPages: 0}, NewPagination(1, 20, 0))
	assert.Equal(t, Pagination{Page: 3, Limit: 20, Total: 41, TotalPages: 3}, NewPagination(3, 20, 41))
	assert.Equal(t, 2, NewPagination(1, 20, 40).TotalPages)
}
