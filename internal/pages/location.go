package pages

import (
	"strconv"
	"strings"

	"megawe/internal/domain/job"
	"megawe/internal/render"
	"megawe/internal/usecase"
)

const locationSummaryLength = 200

func locationDescription(name string) string {
	return "Temukan semua lowongan kerja di " + name + ". Platform terpercaya untuk mencari pekerjaan terbaik di wilayah Anda."
}

// LocationContext builds the template variables of the location listing page.
func (b *Builder) LocationContext(l usecase.LocationListing) render.Context {
	st := l.Stats
	desc := locationDescription(l.Name)

	keywords := []string{"lowongan kerja " + l.Name, "karir " + l.Name, "pekerjaan " + l.Name}
	categories := make([]render.Context, 0, len(st.ByCategory))
	for _, c := range st.ByCategory {
		keywords = append(keywords, c.Name)
		categories = append(categories, render.Context{"catName": text(c.Name), "catQuery": queryValue(c.Name), "catCount": c.Count})
	}
	companies := make([]render.Context, 0, len(st.TopCompanies))
	for _, c := range st.TopCompanies {
		companies = append(companies, render.Context{"coId": pathValue(c.EmployerID), "coName": text(c.Name), "coCount": c.Count})
	}
	jobs := make([]render.Context, 0, len(l.Jobs))
	for _, v := range l.Jobs {
		apply := v.ApplicationURL
		if apply == "" {
			apply = NoApplyURL
		}
		jobs = append(jobs, render.Context{
			"jobId":       pathValue(v.ID),
			"jobTitle":    text(v.Title),
			"jobCompany":  text(v.Company.Name),
			"jobType":     text(job.EmploymentLabel(v.EmploymentType)),
			"jobSalary":   text(visibleSalary(v)),
			"jobPosted":   render.FormatDateOr(v.PostedAt, ""),
			"jobSummary":  text(job.Truncate(v.Description, locationSummaryLength)),
			"jobQuota":    v.AvailableQuota,
			"jobApplyUrl": text(apply),
		})
	}

	avg := NoSalary
	if st.HasSalary {
		avg = render.FormatNumber(st.AverageSalary)
	}
	updated := b.now()
	if st.LastUpdated != nil {
		updated = *st.LastUpdated
	}

	return render.Context{
		"locationTitle":      text("Lowongan Kerja di " + l.Name),
		"locationName":       text(l.Name),
		"locationQuery":      queryValue(l.Name),
		"canonicalUrl":       text(b.url("locations", l.Slug)),
		"description":        text(desc),
		"keywords":           text(strings.Join(keywords, ", ")),
		"totalJobs":          strconv.Itoa(st.TotalJobs),
		"totalCompanies":     strconv.Itoa(st.Companies),
		"averageSalary":      avg,
		"topCategoriesCount": strconv.Itoa(len(st.ByCategory)),
		"lastUpdated":        render.FormatDate(updated),
		"topCategories":      categories,
		"topCompanies":       companies,
		"jobs":               jobs,
		"hasMoreJobs":        l.HasMore,
		"year":               strconv.Itoa(b.now().Year()),
		"jsonld":             b.CollectionPageLD(l.Name, l.Slug, desc, st.TotalJobs, l.Jobs),
	}
}

// LocationPage renders the location listing document.
func (b *Builder) LocationPage(l usecase.LocationListing) string {
	return render.Render(locationTemplate, b.LocationContext(l))
}
