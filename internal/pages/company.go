package pages

import (
	"strconv"

	"megawe/internal/domain/job"
	"megawe/internal/render"
	"megawe/internal/usecase"
)

// companySummaryLength is the rune limit of a job card on the company page.
const companySummaryLength = 150

func companyDescription(name string) string {
	return "Lihat semua lowongan kerja dari " + name + ". Temukan berbagai peluang karir yang tersedia saat ini."
}

// CompanyContext builds the template variables of the company profile page.
func (b *Builder) CompanyContext(p usecase.CompanyProfile) render.Context {
	name := p.Company.Name
	if name == "" {
		name = "Perusahaan"
	}
	desc := companyDescription(name)
	st := p.Stats

	types := make([]render.Context, 0, len(st.ByType))
	for _, t := range st.ByType {
		types = append(types, render.Context{"typeName": text(job.EmploymentLabel(t.Name)), "typeCount": t.Count})
	}
	locations := make([]render.Context, 0, len(st.ByLocation))
	for _, l := range st.ByLocation {
		locations = append(locations, render.Context{"locName": text(l.Name), "locCount": l.Count})
	}
	categories := make([]render.Context, 0, len(st.ByCategory))
	for _, c := range st.ByCategory {
		categories = append(categories, render.Context{"catName": text(c.Name), "catCount": c.Count})
	}
	jobs := make([]render.Context, 0, len(p.Jobs))
	for _, v := range p.Jobs {
		jobs = append(jobs, render.Context{
			"jobId":       pathValue(v.ID),
			"jobTitle":    text(v.Title),
			"jobLocation": text(v.Location),
			"jobType":     text(job.EmploymentLabel(v.EmploymentType)),
			"jobSalary":   text(visibleSalary(v)),
			"jobSummary":  text(job.Truncate(v.Description, companySummaryLength)),
		})
	}

	avg := ""
	if st.HasSalary {
		avg = render.FormatRupiah(st.AverageSalary)
	}

	return render.Context{
		"companyName":     text(name),
		"companyId":       queryValue(p.Company.ID),
		"canonicalUrl":    text(b.companyURL(p.Company)),
		"description":     text(desc),
		"keywords":        text(name + ", lowongan kerja, karir, pekerjaan, " + p.Location),
		"companyLocation": text(p.Location),
		"industry":        text(p.Company.Industry),
		"totalJobs":       st.TotalJobs,
		"activeJobs":      strconv.Itoa(st.ActiveJobs),
		"locationsCount":  strconv.Itoa(st.Locations),
		"categoriesCount": strconv.Itoa(st.Categories),
		"averageSalary":   avg,
		"jobTypes":        types,
		"topLocations":    locations,
		"topCategories":   categories,
		"currentJobs":     jobs,
		"hasMoreJobs":     p.HasMore,
		"year":            strconv.Itoa(b.now().Year()),
		"jsonld":          b.OrganizationLD(p.Company, desc, p.Location, st.TotalJobs),
	}
}

// CompanyPage renders the company profile document.
func (b *Builder) CompanyPage(p usecase.CompanyProfile) string {
	return render.Render(companyTemplate, b.CompanyContext(p))
}

// visibleSalary is the card salary text, empty when the job hides it.
func visibleSalary(v job.View) string {
	if v.Salary == nil || !v.Salary.ShowSalary {
		return ""
	}
	return salaryRange(v.Salary.Bounds())
}
