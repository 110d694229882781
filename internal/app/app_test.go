package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megawe/internal/config"
	"megawe/internal/domain/job"
	"megawe/internal/infrastructure/cache"
	"megawe/internal/repository/repositorytest"
)

const internalToken = "s3cret"

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{
			AppName:       "megawe-test",
			Environment:   "test",
			SiteBaseURL:   "https://megawe.net",
			InternalToken: internalToken,
		},
		Redis: config.RedisConfig{TTL: time.Minute},
	}
}

func record(id, location string, daysAgo int) job.Record {
	lo, hi := int64(5000000), int64(9000000)
	return job.Record{
		ID:             id,
		Title:          repositorytest.Str("Engineer " + id),
		Description:    repositorytest.Str("Membangun layanan backend"),
		Company:        repositorytest.Str("Acme"),
		EmployerID:     repositorytest.Str("emp-1"),
		Location:       repositorytest.Str(location),
		EmploymentType: repositorytest.Str("full-time"),
		Category:       repositorytest.Str("IT"),
		SalaryMin:      &lo,
		SalaryMax:      &hi,
		ShowSalary:     true,
		IsActive:       true,
		PostedAt:       repositorytest.Time(time.Now().AddDate(0, 0, -daysAgo)),
	}
}

func store() *repositorytest.MemoryJobs {
	expired := record("j-expired", "Jakarta", 40)
	expired.ExpiresAt = repositorytest.Time(time.Now().AddDate(0, 0, -1))
	inactive := record("j-inactive", "Jakarta", 1)
	inactive.IsActive = false
	return repositorytest.NewMemoryJobs(
		record("j1", "Jakarta", 1),
		record("j2", "Jakarta", 2),
		record("j3", "Jakarta", 3),
		expired,
		inactive,
		record("b1", "Bandung", 1),
	)
}

type fixture struct {
	app   *App
	jobs  *repositorytest.MemoryJobs
	stats *repositorytest.StaticStats
	redis *miniredis.Miniredis
}

func newFixture(t *testing.T, withCache bool) *fixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	f := &fixture{
		jobs: store(),
		stats: &repositorytest.StaticStats{Stats: job.Stats{
			TotalJobs:      4,
			TotalCompanies: 1,
			JobsByCategory: []job.Bucket{{Name: "IT", Count: 4}},
			JobsByType:     []job.Bucket{{Name: "full-time", Count: 4}},
			JobsByLocation: []job.Bucket{{Name: "Jakarta", Count: 3}, {Name: "Bandung", Count: 1}},
			SalaryRanges:   []job.SalaryBucket{},
		}},
	}
	deps := Deps{Jobs: f.jobs, Stats: f.stats, DB: pinger{}, Log: log}
	if withCache {
		f.redis = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: f.redis.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		deps.Cache = cache.NewRedisFromClient(client, time.Minute, log)
	}
	f.app = New(testConfig(), deps)
	return f
}

func (f *fixture) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := f.app.Fiber.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, body
}

func (f *fixture) get(t *testing.T, target string) (*http.Response, []byte) {
	return f.do(t, httptest.NewRequest(http.MethodGet, target, nil))
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Pagination *struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
	Meta struct {
		Timestamp      string `json:"timestamp"`
		RequestID      string `json:"requestId"`
		Version        string `json:"version"`
		ProcessingTime int64  `json:"processingTime"`
	} `json:"meta"`
}

func decode(t *testing.T, body []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return env
}

func TestListJobs_FiltersLocationAndExpiry(t *testing.T) {
	f := newFixture(t, false)

	resp, body := f.get(t, "/api/jobs?location=Jakarta&limit=2")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	env := decode(t, body)
	assert.True(t, env.Success)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 3, env.Pagination.Total)
	assert.Equal(t, 2, env.Pagination.TotalPages)
	assert.Equal(t, resp.Header.Get("X-Request-ID"), env.Meta.RequestID)
	assert.Equal(t, "v1", env.Meta.Version)

	var jobs []job.View
	require.NoError(t, json.Unmarshal(env.Data, &jobs))
	require.Len(t, jobs, 2)
	for _, j := range jobs {
		assert.Equal(t, "Jakarta", j.Location)
		assert.NotEqual(t, "j-expired", j.ID)
	}
}

func TestListJobs_LimitBoundary(t *testing.T) {
	f := newFixture(t, false)

	resp, _ := f.get(t, "/api/jobs?limit=100")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.get(t, "/api/jobs?limit=101")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decode(t, body)
	assert.False(t, env.Success)
	assert.Equal(t, "Limit cannot exceed 100", env.Error)
}

func TestListJobs_BadNumbersAndEnums(t *testing.T) {
	f := newFixture(t, false)

	resp, body := f.get(t, "/api/jobs?limit=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "limit must be an integer", decode(t, body).Error)

	resp, body = f.get(t, "/api/jobs?employmentType=full-time&employmentType=astronaut")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid employment type: astronaut", decode(t, body).Error)

	resp, body = f.get(t, "/api/jobs?employmentType=full-time,contract")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4, decode(t, body).Pagination.Total)
}

func TestFeaturedJobs(t *testing.T) {
	f := newFixture(t, false)

	resp, body := f.get(t, "/api/featured-jobs?limit=51")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Limit cannot exceed 50", decode(t, body).Error)

	resp, body = f.get(t, "/api/featured-jobs?limit=50")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decode(t, body)
	assert.Equal(t, 50, env.Pagination.Limit)

	var data struct {
		Jobs    []job.View `json:"jobs"`
		Filters struct {
			Locations []string `json:"locations"`
		} `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Jobs, 4)
	assert.ElementsMatch(t, []string{"Jakarta", "Bandung"}, data.Filters.Locations)
}

func TestListJobs_CacheHeader(t *testing.T) {
	f := newFixture(t, true)

	resp, _ := f.get(t, "/api/jobs?location=Bandung")
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	resp, _ = f.get(t, "/api/jobs?location=bandung")
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
}

func TestOptionsPreflight(t *testing.T) {
	f := newFixture(t, false)

	for _, target := range []string{"/api/jobs", "/api/featured-jobs", "/api/stats"} {
		resp, body := f.do(t, httptest.NewRequest(http.MethodOptions, target, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
		assert.Empty(t, body, target)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestStorageErrorIs500(t *testing.T) {
	f := newFixture(t, false)
	f.jobs.Err = errors.New("connection reset by peer")

	resp, body := f.get(t, "/api/jobs")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	env := decode(t, body)
	assert.Equal(t, "Internal server error", env.Error)
	assert.NotContains(t, string(body), "connection reset")

	resp, body = f.get(t, "/jobs/j1")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Contains(t, string(body), "Terjadi kesalahan pada server")
}

func TestJobPage(t *testing.T) {
	f := newFixture(t, false)

	resp, body := f.get(t, "/jobs/j1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600, s-maxage=86400", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", resp.Header.Get("X-XSS-Protection"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	require.NoError(t, err)
	assert.Equal(t, "Engineer j1", doc.Find("#job-title").Text())
	assert.Equal(t, "IDR 5.000.000 - 9.000.000", doc.Find("#job-salary").Text())
}

func TestJobPage_NotFound(t *testing.T) {
	f := newFixture(t, false)

	for _, target := range []string{"/jobs/missing", "/jobs/j-inactive"} {
		resp, body := f.get(t, target)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, target)
		assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))
		assert.Contains(t, string(body), "Lowongan kerja tidak ditemukan")
		assert.Contains(t, string(body), `<meta name="robots" content="noindex">`)
	}
}

func TestCompanyAndLocationPages(t *testing.T) {
	f := newFixture(t, false)

	resp, body := f.get(t, "/companies/emp-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=1800, s-maxage=3600", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Find("#company-jobs .job-card").Length())

	resp, body = f.get(t, "/locations/jakarta")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	require.NoError(t, err)
	assert.Equal(t, "Lowongan Kerja di Jakarta", doc.Find("#location-title").Text())
	assert.Equal(t, 3, doc.Find("#location-jobs .job-card").Length())

	resp, body = f.get(t, "/locations/atlantis")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "Lokasi tidak ditemukan")

	resp, _ = f.get(t, "/companies/emp-404")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStats(t *testing.T) {
	f := newFixture(t, false)

	resp, body := f.get(t, "/api/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=600", resp.Header.Get("Cache-Control"))
	var st job.Stats
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &st))
	assert.Equal(t, 4, st.TotalJobs)

	resp, body = f.get(t, "/api/stats/summary")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sum job.Summary
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &sum))
	require.Len(t, sum.TopLocations, 2)
	assert.Equal(t, "jakarta", sum.TopLocations[0].Slug)

	f.stats.Err = errors.New("timeout")
	resp, _ = f.get(t, "/api/stats")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestJobsUpdatedWebhook(t *testing.T) {
	f := newFixture(t, true)

	_, _ = f.get(t, "/api/jobs?location=Jakarta")
	_, _ = f.get(t, "/api/featured-jobs")
	require.Len(t, f.redis.Keys(), 2)

	req := httptest.NewRequest(http.MethodPost, "/internal/jobs-updated", strings.NewReader(`{"source":"ingest"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := f.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/internal/jobs-updated", strings.NewReader(`{"source":"ingest","updatedAt":"2025-03-10T05:00:00Z"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Token", internalToken)
	resp, body := f.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var res struct {
		Status      string `json:"status"`
		KeysDeleted int    `json:"keysDeleted"`
	}
	require.NoError(t, json.Unmarshal(decode(t, body).Data, &res))
	assert.Equal(t, "cache_invalidated", res.Status)
	assert.Equal(t, 2, res.KeysDeleted)
	assert.Empty(t, f.redis.Keys())

	req = httptest.NewRequest(http.MethodPost, "/internal/jobs-updated", strings.NewReader(`{"updatedAt":"yesterday"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Token", internalToken)
	resp, _ = f.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)
	resp, body := f.get(t, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"cache":"disabled"`)

	log, _ := test.NewNullLogger()
	down := New(testConfig(), Deps{DB: pinger{err: errors.New("refused")}, Log: log})
	resp, err := down.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsAndUnknownRoute(t *testing.T) {
	f := newFixture(t, false)
	_, _ = f.get(t, "/api/jobs")

	resp, body := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "megawe_http_requests_total")

	resp, body = f.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, decode(t, body).Success)
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("8080")
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	addr, err = ListenAddr(":9000")
	require.NoError(t, err)
	assert.Equal(t, ":9000", addr)

	_, err = ListenAddr(" ")
	assert.Error(t, err)
}
