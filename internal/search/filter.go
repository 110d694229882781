// Package search turns request filters into parameterized query plans over the
// jobs table.
package search

import (
	"strings"

	"megawe/internal/domain/job"
)

const (
	DefaultPage          = 1
	DefaultLimit         = 20
	MaxLimit             = 100
	DefaultFeaturedLimit = 6
	MaxFeaturedLimit     = 50
)

// Sort keys accepted by sortBy.
const (
	SortRelevance = "relevance"
	SortSalary    = "salary"
	SortCompany   = "company"
	SortPostedAt  = "postedAt"
	SortDate      = "date"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// FilterSpec is a validated, defaulted job search request. Field order is the
// order conditions and binds are emitted in.
type FilterSpec struct {
	Query           string   `json:"query,omitempty" validate:"max=200"`
	Location        string   `json:"location,omitempty" validate:"max=100"`
	CompanyID       string   `json:"companyId,omitempty" validate:"max=100"`
	Category        string   `json:"category,omitempty" validate:"max=100"`
	ExperienceLevel string   `json:"experienceLevel,omitempty" validate:"omitempty,experience_level"`
	EmploymentTypes []string `json:"employmentTypes,omitempty" validate:"max=7,dive,employment_type"`
	Remote          bool     `json:"remote,omitempty"`
	SalaryMin       int64    `json:"salaryMin,omitempty" validate:"gte=0"`
	SalaryMax       int64    `json:"salaryMax,omitempty" validate:"gte=0"`

	Page      int    `json:"page" validate:"gte=1"`
	Limit     int    `json:"limit" validate:"gte=1,lte=100"`
	SortBy    string `json:"sortBy" validate:"oneof=relevance salary company postedAt date"`
	SortOrder string `json:"sortOrder,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Normalize trims text filters, dedupes employment types and fills defaults
// for page, limit and sort. A limit above the maximum is left alone so
// validation can reject it.
func (f FilterSpec) Normalize() FilterSpec {
	f.Query = collapseSpaces(f.Query)
	f.Location = collapseSpaces(f.Location)
	f.CompanyID = strings.TrimSpace(f.CompanyID)
	f.Category = strings.TrimSpace(f.Category)
	f.ExperienceLevel = strings.ToLower(strings.TrimSpace(f.ExperienceLevel))
	f.EmploymentTypes = dedupeLower(f.EmploymentTypes)
	if f.SalaryMin < 0 {
		f.SalaryMin = 0
	}
	if f.SalaryMax < 0 {
		f.SalaryMax = 0
	}

	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	f.SortBy = strings.TrimSpace(f.SortBy)
	if f.SortBy == "" {
		f.SortBy = SortRelevance
	}
	f.SortOrder = strings.ToLower(strings.TrimSpace(f.SortOrder))
	return f
}

// Offset is the zero-based row offset of the requested page.
func (f FilterSpec) Offset() int {
	return offset(f.Page, f.Limit)
}

// FeaturedSpec is the request shape of the featured jobs endpoint.
type FeaturedSpec struct {
	Page  int `json:"page" validate:"gte=1"`
	Limit int `json:"limit" validate:"gte=1,lte=50"`
}

func (f FeaturedSpec) Normalize() FeaturedSpec {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultFeaturedLimit
	}
	return f
}

func (f FeaturedSpec) Offset() int {
	return offset(f.Page, f.Limit)
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dedupeLower(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isEmploymentType(s string) bool { return job.IsEmploymentType(s) }

func isExperienceLevel(s string) bool { return job.IsExperienceLevel(s) }
