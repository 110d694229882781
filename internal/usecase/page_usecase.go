package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"megawe/internal/domain/job"
	"megawe/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	CompanyPageJobs  = 10
	CompanyPageTopN  = 5
	LocationPageJobs = 20
	LocationPageTopN = 6
)

// CompanyProfile is everything the company page shows. Stats cover every
// scanned row; Jobs is the first CompanyPageJobs of them.
type CompanyProfile struct {
	Company  job.Company
	Location string
	Jobs     []job.View
	HasMore  bool
	Stats    job.PageStats
}

// LocationListing is everything the location page shows.
type LocationListing struct {
	Name    string
	Slug    string
	Jobs    []job.View
	HasMore bool
	Stats   job.PageStats
}

type PageUsecase interface {
	JobDetail(ctx context.Context, id string) (job.View, error)
	CompanyProfile(ctx context.Context, employerID string) (CompanyProfile, error)
	LocationListing(ctx context.Context, slug string) (LocationListing, error)
}

type Pages struct {
	jobs repository.JobRepository
	log  logrus.FieldLogger
}

func NewPageUsecase(jobs repository.JobRepository, log logrus.FieldLogger) *Pages {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pages{jobs: jobs, log: log}
}

func (p *Pages) JobDetail(ctx context.Context, id string) (job.View, error) {
	rec, err := p.jobs.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.EmptyView(), ErrNotFound
		}
		p.log.WithError(err).WithField("job_id", id).Error("[Pages] job lookup failed")
		return job.EmptyView(), fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return job.ToView(rec), nil
}

func (p *Pages) CompanyProfile(ctx context.Context, employerID string) (CompanyProfile, error) {
	employerID = strings.TrimSpace(employerID)
	if employerID == "" {
		return CompanyProfile{}, ErrNotFound
	}
	recs, err := p.jobs.ListByEmployer(ctx, employerID, repository.PageScanLimit)
	if err != nil {
		p.log.WithError(err).WithField("employer_id", employerID).Error("[Pages] company lookup failed")
		return CompanyProfile{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if len(recs) == 0 {
		return CompanyProfile{}, ErrNotFound
	}

	views := job.ToViews(recs)
	first := views[0]
	company := first.Company
	if company.ID == "" {
		company.ID = employerID
	}
	return CompanyProfile{
		Company:  company,
		Location: first.Location,
		Jobs:     firstN(views, CompanyPageJobs),
		HasMore:  len(views) > CompanyPageJobs,
		Stats:    job.FoldStats(views, CompanyPageTopN),
	}, nil
}

// LocationListing resolves slug to a location name by turning hyphens into
// spaces and matching it case-insensitively.
func (p *Pages) LocationListing(ctx context.Context, slug string) (LocationListing, error) {
	slug = strings.TrimSpace(slug)
	name := strings.TrimSpace(strings.ReplaceAll(slug, "-", " "))
	if name == "" {
		return LocationListing{}, ErrNotFound
	}
	recs, err := p.jobs.ListByLocation(ctx, name, repository.PageScanLimit)
	if err != nil {
		p.log.WithError(err).WithField("location", name).Error("[Pages] location lookup failed")
		return LocationListing{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if len(recs) == 0 {
		return LocationListing{}, ErrNotFound
	}

	views := job.ToViews(recs)
	if loc := strings.TrimSpace(views[0].Location); loc != "" {
		name = loc
	}
	return LocationListing{
		Name:    name,
		Slug:    slug,
		Jobs:    firstN(views, LocationPageJobs),
		HasMore: len(views) > LocationPageJobs,
		Stats:   job.FoldStats(views, LocationPageTopN),
	}, nil
}

func firstN(views []job.View, n int) []job.View {
	if len(views) <= n {
		return views
	}
	return views[:n]
}
