package job

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is one row of the jobs table. Columns a query does not select stay nil.
type Record struct {
	ID               string
	Title            *string
	Slug             *string
	Description      *string
	Requirements     *string
	Responsibilities *string
	Benefits         *string
	Skills           *string
	Tags             *string

	Company     *string
	EmployerID  *string
	CompanyLogo *string
	Industry    *string

	Location   *string
	PostalCode *string
	Latitude   *float64
	Longitude  *float64
	IsRemote   Flag
	IsHybrid   Flag

	EmploymentType    *string
	ExperienceLevel   *string
	MinYearExperience *int64
	Category          *string

	SalaryMin      *int64
	SalaryMax      *int64
	SalaryCurrency *string
	SalaryPeriod   *string
	ShowSalary     Flag

	Quota          *int64
	AvailableQuota *int64
	ApplicationURL *string

	IsActive  Flag
	Featured  Flag
	Priority  *int64
	ViewCount *int64

	SEOSlug     *string
	SEOKeywords *string

	PostedAt  *time.Time
	ExpiresAt *time.Time
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// Columns lists every jobs column in table order.
var Columns = []string{
	"id", "title", "slug", "description", "requirements", "responsibilities", "benefits", "skills", "tags",
	"company", "employer_id", "company_logo", "industry",
	"location", "postal_code", "latitude", "longitude", "is_remote", "is_hybrid",
	"employment_type", "experience_level", "min_year_experience", "category",
	"salary_min", "salary_max", "salary_currency", "salary_period", "show_salary",
	"quota", "available_quota", "application_url",
	"is_active", "featured", "priority", "view_count",
	"seo_slug", "seo_keywords",
	"posted_at", "expires_at", "created_at", "updated_at",
}

// ScanTargets returns scan destinations for cols, in order.
func (r *Record) ScanTargets(cols []string) ([]any, error) {
	out := make([]any, 0, len(cols))
	for _, c := range cols {
		t := r.target(c)
		if t == nil {
			return nil, fmt.Errorf("job: unknown column %q", c)
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Record) target(col string) any {
	switch col {
	case "id":
		return &r.ID
	case "title":
		return &r.Title
	case "slug":
		return &r.Slug
	case "description":
		return &r.Description
	case "requirements":
		return &r.Requirements
	case "responsibilities":
		return &r.Responsibilities
	case "benefits":
		return &r.Benefits
	case "skills":
		return &r.Skills
	case "tags":
		return &r.Tags
	case "company":
		return &r.Company
	case "employer_id":
		return &r.EmployerID
	case "company_logo":
		return &r.CompanyLogo
	case "industry":
		return &r.Industry
	case "location":
		return &r.Location
	case "postal_code":
		return &r.PostalCode
	case "latitude":
		return &r.Latitude
	case "longitude":
		return &r.Longitude
	case "is_remote":
		return &r.IsRemote
	case "is_hybrid":
		return &r.IsHybrid
	case "employment_type":
		return &r.EmploymentType
	case "experience_level":
		return &r.ExperienceLevel
	case "min_year_experience":
		return &r.MinYearExperience
	case "category":
		return &r.Category
	case "salary_min":
		return &r.SalaryMin
	case "salary_max":
		return &r.SalaryMax
	case "salary_currency":
		return &r.SalaryCurrency
	case "salary_period":
		return &r.SalaryPeriod
	case "show_salary":
		return &r.ShowSalary
	case "quota":
		return &r.Quota
	case "available_quota":
		return &r.AvailableQuota
	case "application_url":
		return &r.ApplicationURL
	case "is_active":
		return &r.IsActive
	case "featured":
		return &r.Featured
	case "priority":
		return &r.Priority
	case "view_count":
		return &r.ViewCount
	case "seo_slug":
		return &r.SEOSlug
	case "seo_keywords":
		return &r.SEOKeywords
	case "posted_at":
		return &r.PostedAt
	case "expires_at":
		return &r.ExpiresAt
	case "created_at":
		return &r.CreatedAt
	case "updated_at":
		return &r.UpdatedAt
	}
	return nil
}

// Flag is a boolean column that may arrive as bool, 0/1 or a string flag.
// NULL and anything unrecognised read as false.
type Flag bool

func (f *Flag) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = false
	case bool:
		*f = Flag(v)
	case int64:
		*f = v != 0
	case int32:
		*f = v != 0
	case int16:
		*f = v != 0
	case int:
		*f = v != 0
	case float64:
		*f = v != 0
	case []byte:
		*f = Flag(parseFlag(string(v)))
	case string:
		*f = Flag(parseFlag(v))
	default:
		return fmt.Errorf("job: cannot scan %T into Flag", src)
	}
	return nil
}

func parseFlag(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "t", "true", "y", "yes", "on":
		return true
	}
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && n != 0
}

// View is the display-ready job shape shared by the API and the pages.
type View struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	Summary          string   `json:"summary"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	Benefits         []string `json:"benefits"`
	Skills           []string `json:"skills"`
	Tags             []string `json:"tags"`

	Company  Company `json:"company"`
	Location string  `json:"location"`
	Category string  `json:"category"`

	PostalCode string   `json:"postalCode,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	IsRemote bool `json:"isRemote"`
	IsHybrid bool `json:"isHybrid"`
	IsActive bool `json:"isActive"`
	Featured bool `json:"featured"`

	EmploymentType    string `json:"employmentType"`
	ExperienceLevel   string `json:"experienceLevel,omitempty"`
	MinYearExperience int64  `json:"minYearExperience"`

	Salary *Salary `json:"salary,omitempty"`

	Quota          int64  `json:"quota"`
	AvailableQuota int64  `json:"availableQuota"`
	ApplicationURL string `json:"applicationUrl,omitempty"`

	ViewCount int64 `json:"viewCount"`
	Priority  int64 `json:"priority"`

	SEOSlug     string `json:"seoSlug,omitempty"`
	SEOKeywords string `json:"seoKeywords,omitempty"`

	PostedAt  *time.Time `json:"postedAt,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Logo     string `json:"logo,omitempty"`
	Industry string `json:"industry,omitempty"`
}

type Salary struct {
	Min        *int64 `json:"min,omitempty"`
	Max        *int64 `json:"max,omitempty"`
	Currency   string `json:"currency"`
	Period     string `json:"period"`
	ShowSalary bool   `json:"showSalary"`
}

// Bounds returns min and max with absent bounds as zero.
func (s *Salary) Bounds() (int64, int64) {
	var lo, hi int64
	if s == nil {
		return 0, 0
	}
	if s.Min != nil {
		lo = *s.Min
	}
	if s.Max != nil {
		hi = *s.Max
	}
	return lo, hi
}
