package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"megawe/internal/database"
	"megawe/internal/domain/job"
	"megawe/internal/search"

	"golang.org/x/sync/errgroup"
)

type StatsRepository interface {
	Aggregate(ctx context.Context) (job.Stats, error)
}

type PostgresStatsRepository struct {
	db database.DB
}

func NewPostgresStatsRepository(db database.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

var liveJobs = search.ActiveCondition + " AND " + search.ExpiryCondition

// Aggregate runs the independent breakdown queries concurrently.
func (r *PostgresStatsRepository) Aggregate(ctx context.Context) (job.Stats, error) {
	st := job.EmptyStats()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q := `SELECT COUNT(*), COUNT(DISTINCT company), COUNT(DISTINCT NULLIF(category, '')), COUNT(DISTINCT NULLIF(location, ''))
			FROM jobs WHERE ` + liveJobs
		return r.db.QueryRow(gctx, q).Scan(&st.TotalJobs, &st.TotalCompanies, &st.TotalCategories, &st.TotalLocations)
	})

	var byCategory, byType, byLocation []job.Bucket
	g.Go(func() (err error) {
		byCategory, err = r.groupBy(gctx, "category", "")
		return err
	})
	g.Go(func() (err error) {
		byType, err = r.groupBy(gctx, "employment_type", job.DefaultEmploymentType)
		return err
	})
	g.Go(func() (err error) {
		byLocation, err = r.groupBy(gctx, "location", "")
		return err
	})

	var salary []job.SalaryBucket
	g.Go(func() (err error) {
		salary, err = r.salaryHistogram(gctx)
		return err
	})

	g.Go(func() error {
		q := `SELECT
				COUNT(*) FILTER (WHERE created_at >= date_trunc('day', NOW())),
				COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days'),
				COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '30 days'),
				MAX(created_at)
			FROM jobs WHERE ` + liveJobs
		var last *time.Time
		ra := &st.RecentActivity
		if err := r.db.QueryRow(gctx, q).Scan(&ra.JobsAddedToday, &ra.JobsAddedThisWeek, &ra.JobsAddedThisMonth, &last); err != nil {
			return err
		}
		ra.LastSyncTime = last
		return nil
	})

	if err := g.Wait(); err != nil {
		return job.EmptyStats(), err
	}

	st.JobsByCategory = job.WithPercentages(byCategory, st.TotalJobs)
	st.JobsByType = job.WithPercentages(byType, st.TotalJobs)
	st.JobsByLocation = job.WithPercentages(byLocation, st.TotalJobs)
	st.SalaryRanges = salary
	return st, nil
}

// groupBy counts live jobs per value of column. Empty values fold into
// fallback, or are dropped when fallback is empty.
func (r *PostgresStatsRepository) groupBy(ctx context.Context, column, fallback string) ([]job.Bucket, error) {
	expr := "NULLIF(TRIM(" + column + "), '')"
	where := liveJobs
	if fallback != "" {
		expr = "COALESCE(" + expr + ", '" + strings.ReplaceAll(fallback, "'", "''") + "')"
	} else {
		where += " AND " + expr + " IS NOT NULL"
	}

	q := "SELECT " + expr + " AS name, COUNT(*) AS n FROM jobs WHERE " + where +
		" GROUP BY 1 ORDER BY n DESC, name ASC LIMIT ?"
	rows, err := r.db.Query(ctx, database.Rebind(q), job.BreakdownLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Bucket, 0, job.BreakdownLimit)
	for rows.Next() {
		var b job.Bucket
		if err := rows.Scan(&b.Name, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresStatsRepository) salaryHistogram(ctx context.Context) ([]job.SalaryBucket, error) {
	q := "SELECT " + SalaryBandCase("salary_min") + " AS band, COUNT(*) FROM jobs WHERE " + liveJobs +
		" AND show_salary = true AND salary_min > 0 GROUP BY 1"
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var band string
		var n int
		if err := rows.Scan(&band, &n); err != nil {
			return nil, err
		}
		counts[band] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]job.SalaryBucket, 0, len(job.SalaryBands))
	for _, b := range job.SalaryBands {
		out = append(out, job.SalaryBucket{Range: b.Label, Count: counts[b.Label]})
	}
	return out, nil
}

// SalaryBandCase renders job.SalaryBands as a SQL CASE over column.
func SalaryBandCase(column string) string {
	var b strings.Builder
	b.WriteString("CASE")
	var last string
	for _, band := range job.SalaryBands {
		if band.Below == 0 {
			last = band.Label
			continue
		}
		b.WriteString(" WHEN " + column + " < " + strconv.FormatInt(band.Below, 10) + " THEN '" + band.Label + "'")
	}
	b.WriteString(" ELSE '" + last + "' END")
	return b.String()
}
