package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"megawe/internal/database"
	"megawe/internal/domain/job"
	"megawe/internal/search"

	"github.com/jackc/pgx/v5"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

const jobsTable = "jobs"

// PageScanLimit caps the rows a company or location page folds over.
const PageScanLimit = 500

// FeaturedColumns is the lighter projection used by the featured listing.
var FeaturedColumns = []string{
	"id", "title", "slug", "description", "company", "employer_id", "company_logo", "industry",
	"location", "is_remote", "is_hybrid", "employment_type", "experience_level", "category",
	"salary_min", "salary_max", "salary_currency", "salary_period", "show_salary",
	"available_quota", "quota", "is_active", "featured", "priority", "seo_slug", "posted_at", "expires_at",
}

type JobRepository interface {
	Search(ctx context.Context, plan search.QueryPlan, columns []string) ([]job.Record, error)
	Count(ctx context.Context, plan search.QueryPlan) (int, error)
	FindActiveByID(ctx context.Context, id string) (job.Record, error)
	ListByEmployer(ctx context.Context, employerID string, limit int) ([]job.Record, error)
	ListByLocation(ctx context.Context, location string, limit int) ([]job.Record, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Search(ctx context.Context, plan search.QueryPlan, columns []string) ([]job.Record, error) {
	if len(columns) == 0 {
		columns = job.Columns
	}
	rows, err := r.db.Query(ctx, database.Rebind(plan.SelectSQL(jobsTable, columns)), plan.AllArgs()...)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows, columns)
}

func (r *PostgresJobRepository) Count(ctx context.Context, plan search.QueryPlan) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, database.Rebind(plan.CountSQL(jobsTable)), plan.CountArgs()...).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresJobRepository) FindActiveByID(ctx context.Context, id string) (job.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return job.Record{}, ErrJobNotFound
	}
	q := "SELECT " + strings.Join(job.Columns, ", ") + " FROM " + jobsTable +
		" WHERE id = ? AND " + search.ActiveCondition

	var rec job.Record
	targets, err := rec.ScanTargets(job.Columns)
	if err != nil {
		return job.Record{}, err
	}
	if err := r.db.QueryRow(ctx, database.Rebind(q), id).Scan(targets...); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return job.Record{}, ErrJobNotFound
		}
		return job.Record{}, err
	}
	return rec, nil
}

func (r *PostgresJobRepository) ListByEmployer(ctx context.Context, employerID string, limit int) ([]job.Record, error) {
	return r.listWhere(ctx, "employer_id = ?", strings.TrimSpace(employerID), "created_at DESC, id ASC", limit)
}

func (r *PostgresJobRepository) ListByLocation(ctx context.Context, location string, limit int) ([]job.Record, error) {
	return r.listWhere(ctx, "LOWER(location) = LOWER(?)", strings.TrimSpace(location), "posted_at DESC NULLS LAST, id ASC", limit)
}

func (r *PostgresJobRepository) listWhere(ctx context.Context, cond string, arg any, orderBy string, limit int) ([]job.Record, error) {
	if limit <= 0 || limit > PageScanLimit {
		limit = PageScanLimit
	}
	q := "SELECT " + strings.Join(job.Columns, ", ") + " FROM " + jobsTable +
		" WHERE " + search.ActiveCondition + " AND " + search.ExpiryCondition + " AND " + cond +
		" ORDER BY " + orderBy + " LIMIT ?"

	rows, err := r.db.Query(ctx, database.Rebind(q), arg, limit)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows, job.Columns)
}

func scanRecords(rows database.Rows, columns []string) ([]job.Record, error) {
	defer rows.Close()

	out := make([]job.Record, 0)
	for rows.Next() {
		var rec job.Record
		targets, err := rec.ScanTargets(columns)
		if err != nil {
			return nil, err
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
