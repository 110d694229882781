package job

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	DefaultEmploymentType = "full-time"
	DefaultCurrency       = "IDR"
	DefaultSalaryPeriod   = "month"

	// SummaryLength is the rune limit of View.Summary.
	SummaryLength = 300

	ellipsis = "..."
)

// EmptyView is the shape of a job with no data: every list is empty, never nil.
func EmptyView() View {
	return View{
		Requirements:     []string{},
		Responsibilities: []string{},
		Benefits:         []string{},
		Skills:           []string{},
		Tags:             []string{},
		EmploymentType:   DefaultEmploymentType,
	}
}

// ToView maps one row to its display shape.
func ToView(r Record) View {
	v := EmptyView()

	v.ID = r.ID
	v.Title = str(r.Title)
	v.Description = str(r.Description)
	v.Summary = Truncate(v.Description, SummaryLength)
	v.Slug = firstNonEmpty(str(r.Slug), str(r.SEOSlug), Slugify(v.Title))

	v.Requirements = SplitList(str(r.Requirements))
	v.Responsibilities = SplitList(str(r.Responsibilities))
	v.Benefits = SplitList(str(r.Benefits))
	v.Skills = SplitList(str(r.Skills))
	v.Tags = SplitList(str(r.Tags))

	name := str(r.Company)
	v.Company = Company{
		ID:       str(r.EmployerID),
		Name:     name,
		Slug:     Slugify(name),
		Logo:     str(r.CompanyLogo),
		Industry: str(r.Industry),
	}
	v.Location = str(r.Location)
	v.Category = str(r.Category)
	v.PostalCode = str(r.PostalCode)
	v.Latitude = r.Latitude
	v.Longitude = r.Longitude

	v.IsRemote = bool(r.IsRemote)
	v.IsHybrid = bool(r.IsHybrid)
	v.IsActive = bool(r.IsActive)
	v.Featured = bool(r.Featured)

	if et := strings.TrimSpace(str(r.EmploymentType)); et != "" {
		v.EmploymentType = et
	}
	v.ExperienceLevel = str(r.ExperienceLevel)
	v.MinYearExperience = num(r.MinYearExperience)

	v.Salary = salaryOf(r)

	v.Quota = num(r.Quota)
	v.AvailableQuota = num(r.AvailableQuota)
	if r.AvailableQuota == nil {
		v.AvailableQuota = v.Quota
	}
	v.ApplicationURL = str(r.ApplicationURL)

	v.ViewCount = num(r.ViewCount)
	v.Priority = num(r.Priority)
	v.SEOSlug = str(r.SEOSlug)
	v.SEOKeywords = str(r.SEOKeywords)

	v.PostedAt = r.PostedAt
	v.ExpiresAt = r.ExpiresAt
	v.CreatedAt = r.CreatedAt
	v.UpdatedAt = r.UpdatedAt

	return v
}

// ToViews maps rows in order.
func ToViews(rs []Record) []View {
	out := make([]View, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToView(r))
	}
	return out
}

func salaryOf(r Record) *Salary {
	if num(r.SalaryMin) == 0 && num(r.SalaryMax) == 0 {
		return nil
	}
	s := &Salary{
		Currency:   firstNonEmpty(str(r.SalaryCurrency), DefaultCurrency),
		Period:     firstNonEmpty(str(r.SalaryPeriod), DefaultSalaryPeriod),
		ShowSalary: bool(r.ShowSalary),
	}
	if num(r.SalaryMin) != 0 {
		lo := *r.SalaryMin
		s.Min = &lo
	}
	if num(r.SalaryMax) != 0 {
		hi := *r.SalaryMax
		s.Max = &hi
	}
	return s
}

// SplitList splits a comma- or newline-joined column into trimmed,
// non-empty entries. Empty input yields an empty slice.
func SplitList(raw string) []string {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Truncate cuts s to n runes and appends "..." only when something was cut.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + ellipsis
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
