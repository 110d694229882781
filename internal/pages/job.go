package pages

import (
	"strconv"
	"strings"

	"megawe/internal/domain/job"
	"megawe/internal/render"
)

// JobContext builds the template variables of the job detail page.
func (b *Builder) JobContext(v job.View) render.Context {
	lo, hi := v.Salary.Bounds()
	salaryVisible := v.Salary != nil && v.Salary.ShowSalary && (lo > 0 || hi > 0)

	keywords := v.SEOKeywords
	if keywords == "" {
		keywords = strings.Join(v.Tags, ", ")
	}
	apply := v.ApplicationURL
	if apply == "" {
		apply = NoApplyURL
	}

	ctx := render.Context{
		"title":            text(v.Title),
		"description":      text(v.Summary),
		"keywords":         text(keywords),
		"canonicalUrl":     text(b.url("jobs", v.ID)),
		"company":          text(v.Company.Name),
		"companyUrl":       text(b.companyURL(v.Company)),
		"location":         text(v.Location),
		"employmentType":   text(job.EmploymentLabel(v.EmploymentType)),
		"experienceYears":  v.MinYearExperience,
		"experienceLevel":  text(v.ExperienceLevel),
		"isRemote":         v.IsRemote,
		"isHybrid":         v.IsHybrid,
		"isActive":         v.IsActive,
		"isInactive":       !v.IsActive,
		"salaryVisible":    salaryVisible,
		"salaryRange":      "",
		"availableQuota":   v.AvailableQuota,
		"requirements":     escapeAll(v.Requirements),
		"responsibilities": escapeAll(v.Responsibilities),
		"benefits":         escapeAll(v.Benefits),
		"skills":           escapeAll(v.Skills),
		"applicationUrl":   text(apply),
		"postedDate":       render.FormatDateOr(v.PostedAt, NoPostedDate),
		"expiresAt":        render.FormatDateOr(v.ExpiresAt, NoDeadline),
		"year":             strconv.Itoa(b.now().Year()),
		"jsonld":           b.JobPostingLD(v),
	}
	if salaryVisible {
		ctx["salaryRange"] = salaryRange(lo, hi)
	}
	return ctx
}

// JobPage renders the job detail document.
func (b *Builder) JobPage(v job.View) string {
	return render.Render(jobTemplate, b.JobContext(v))
}

func escapeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = text(s)
	}
	return out
}
