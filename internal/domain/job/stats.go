package job

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Bucket is one row of a group-by breakdown.
type Bucket struct {
	Name       string  `json:"name"`
	Slug       string  `json:"slug,omitempty"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage,omitempty"`
}

type SalaryBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type RecentActivity struct {
	JobsAddedToday     int        `json:"jobsAddedToday"`
	JobsAddedThisWeek  int        `json:"jobsAddedThisWeek"`
	JobsAddedThisMonth int        `json:"jobsAddedThisMonth"`
	LastSyncTime       *time.Time `json:"lastSyncTime,omitempty"`
}

// Stats is the site-wide aggregate served by /api/stats.
type Stats struct {
	TotalJobs       int            `json:"totalJobs"`
	TotalCompanies  int            `json:"totalCompanies"`
	TotalCategories int            `json:"totalCategories"`
	TotalLocations  int            `json:"totalLocations"`
	JobsByCategory  []Bucket       `json:"jobsByCategory"`
	JobsByType      []Bucket       `json:"jobsByType"`
	JobsByLocation  []Bucket       `json:"jobsByLocation"`
	SalaryRanges    []SalaryBucket `json:"salaryRanges"`
	RecentActivity  RecentActivity `json:"recentActivity"`
}

// Summary is the homepage subset served by /api/stats/summary.
type Summary struct {
	TotalJobs       int      `json:"totalJobs"`
	TotalCompanies  int      `json:"totalCompanies"`
	JobsAddedToday  int      `json:"jobsAddedToday"`
	TopLocations    []Bucket `json:"topLocations"`
	TopCategories   []Bucket `json:"topCategories"`
	EmploymentTypes []Bucket `json:"employmentTypes"`
}

const (
	// BreakdownLimit caps every site-wide breakdown.
	BreakdownLimit = 10
	// SummaryLimit caps the summary's top lists.
	SummaryLimit = 5

	UnknownLocation = "Unknown"
	GeneralCategory = "General"
)

// EmptyStats is the aggregate of an empty store.
func EmptyStats() Stats {
	return Stats{
		JobsByCategory: []Bucket{},
		JobsByType:     []Bucket{},
		JobsByLocation: []Bucket{},
		SalaryRanges:   []SalaryBucket{},
	}
}

// Summary derives the homepage subset from the full aggregate.
func (s Stats) Summary() Summary {
	return Summary{
		TotalJobs:       s.TotalJobs,
		TotalCompanies:  s.TotalCompanies,
		JobsAddedToday:  s.RecentActivity.JobsAddedToday,
		TopLocations:    withSlugs(head(s.JobsByLocation, SummaryLimit)),
		TopCategories:   withSlugs(head(s.JobsByCategory, SummaryLimit)),
		EmploymentTypes: head(s.JobsByType, len(s.JobsByType)),
	}
}

// WithPercentages fills Percentage as a share of total, rounded to one decimal.
func WithPercentages(buckets []Bucket, total int) []Bucket {
	out := make([]Bucket, len(buckets))
	copy(out, buckets)
	if total <= 0 {
		return out
	}
	for i := range out {
		out[i].Percentage = math.Round(float64(out[i].Count)*1000/float64(total)) / 10
	}
	return out
}

// SalaryBand is a histogram band on salary_min; Below is an exclusive upper
// bound, zero for the open last band.
type SalaryBand struct {
	Label string
	Below int64
}

var SalaryBands = []SalaryBand{
	{Label: "Di bawah 3jt", Below: 3_000_000},
	{Label: "3jt - 5jt", Below: 5_000_000},
	{Label: "5jt - 8jt", Below: 8_000_000},
	{Label: "8jt - 12jt", Below: 12_000_000},
	{Label: "Di atas 12jt"},
}

// BandFor returns the label of the band containing amount.
func BandFor(amount int64) string {
	for _, b := range SalaryBands {
		if b.Below == 0 || amount < b.Below {
			return b.Label
		}
	}
	return SalaryBands[len(SalaryBands)-1].Label
}

// CompanyBucket counts jobs per employer.
type CompanyBucket struct {
	Name       string
	EmployerID string
	Count      int
}

// PageStats are folded from the rows a company or location page already fetched.
type PageStats struct {
	TotalJobs     int
	ActiveJobs    int
	Companies     int
	Locations     int
	Categories    int
	ByType        []Bucket
	ByLocation    []Bucket
	ByCategory    []Bucket
	TopCompanies  []CompanyBucket
	AverageSalary int64
	HasSalary     bool
	LastUpdated   *time.Time
}

// FoldStats computes page statistics over views, keeping topN entries per breakdown.
func FoldStats(views []View, topN int) PageStats {
	types := newCounter()
	locations := newCounter()
	categories := newCounter()
	companies := map[string]*CompanyBucket{}
	var companyOrder []string

	var ps PageStats
	var salarySum, salaryN int64
	for _, v := range views {
		ps.TotalJobs++
		if v.IsActive {
			ps.ActiveJobs++
		}
		types.add(v.EmploymentType)
		locations.add(orDefault(v.Location, UnknownLocation))
		categories.add(orDefault(v.Category, GeneralCategory))

		key := v.Company.ID + "\x00" + v.Company.Name
		cb, ok := companies[key]
		if !ok {
			cb = &CompanyBucket{Name: v.Company.Name, EmployerID: v.Company.ID}
			companies[key] = cb
			companyOrder = append(companyOrder, key)
		}
		cb.Count++

		lo, hi := v.Salary.Bounds()
		if lo > 0 && hi > 0 {
			salarySum += (lo + hi) / 2
			salaryN++
		}

		stamp := v.UpdatedAt
		if stamp == nil {
			stamp = v.PostedAt
		}
		if stamp != nil && (ps.LastUpdated == nil || stamp.After(*ps.LastUpdated)) {
			t := *stamp
			ps.LastUpdated = &t
		}
	}

	ps.Locations = len(locations.counts)
	ps.Categories = len(categories.counts)
	ps.Companies = len(companies)
	ps.ByType = types.top(topN)
	ps.ByLocation = locations.top(topN)
	ps.ByCategory = withSlugs(categories.top(topN))

	top := make([]CompanyBucket, 0, len(companyOrder))
	for _, k := range companyOrder {
		top = append(top, *companies[k])
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	ps.TopCompanies = top

	if salaryN > 0 {
		ps.HasSalary = true
		ps.AverageSalary = int64(math.Round(float64(salarySum) / float64(salaryN)))
	}
	return ps
}

type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// top orders by count descending; ties keep first-seen order.
func (c *counter) top(n int) []Bucket {
	out := make([]Bucket, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, Bucket{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return head(out, n)
}

func head(bs []Bucket, n int) []Bucket {
	if n <= 0 || len(bs) <= n {
		n = len(bs)
	}
	out := make([]Bucket, n)
	copy(out, bs[:n])
	return out
}

func withSlugs(bs []Bucket) []Bucket {
	for i := range bs {
		if bs[i].Slug == "" {
			bs[i].Slug = Slugify(bs[i].Name)
		}
	}
	return bs
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
