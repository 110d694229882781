// Package pages builds the server-rendered HTML documents: job detail,
// company profile, location listing and their 404/500 variants.
package pages

import (
	"embed"
	"net/url"
	"strings"
	"time"

	"megawe/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	jobTemplate      = mustRead("templates/job.html")
	companyTemplate  = mustRead("templates/company.html")
	locationTemplate = mustRead("templates/location.html")
	statusTemplate   = mustRead("templates/status.html")
)

func mustRead(name string) string {
	b, err := templateFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Fallback texts shown when a job lacks the value.
const (
	NoPostedDate   = "Tanggal tidak tersedia"
	NoDeadline     = "Tidak ada deadline"
	NoSalary       = "N/A"
	NoApplyURL     = "#"
	validityWindow = 30 * 24 * time.Hour
)

// Builder renders pages with absolute links rooted at BaseURL.
type Builder struct {
	BaseURL string
	Now     func() time.Time
}

func NewBuilder(baseURL string) *Builder {
	return &Builder{BaseURL: strings.TrimRight(baseURL, "/"), Now: time.Now}
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) url(parts ...string) string {
	var sb strings.Builder
	sb.WriteString(b.BaseURL)
	for _, p := range parts {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(p))
	}
	return sb.String()
}

// Kind names the page family a status document belongs to.
type Kind int

const (
	KindJob Kind = iota
	KindCompany
	KindLocation
)

type statusCopy struct {
	notFoundTitle string
	notFound      string
	backURL       string
	notFoundBack  string
	errorBack     string
}

var statusCopies = map[Kind]statusCopy{
	KindJob: {
		notFoundTitle: "Lowongan Tidak Ditemukan",
		notFound:      "Lowongan kerja tidak ditemukan",
		backURL:       "/",
		notFoundBack:  "Kembali ke Beranda",
		errorBack:     "Kembali ke Beranda",
	},
	KindCompany: {
		notFoundTitle: "Perusahaan Tidak Ditemukan",
		notFound:      "Perusahaan tidak ditemukan atau tidak memiliki lowongan aktif",
		backURL:       "/companies",
		notFoundBack:  "Lihat Semua Perusahaan",
		errorBack:     "Kembali ke Daftar Perusahaan",
	},
	KindLocation: {
		notFoundTitle: "Lokasi Tidak Ditemukan",
		notFound:      "Lokasi tidak ditemukan atau tidak memiliki lowongan aktif",
		backURL:       "/jobs",
		notFoundBack:  "Lihat Semua Lowongan",
		errorBack:     "Kembali ke Lowongan",
	},
}

// NotFound is the noindex 404 document for kind.
func NotFound(kind Kind) string {
	c := statusCopies[kind]
	return render.Render(statusTemplate, render.Context{
		"pageTitle":  c.notFoundTitle,
		"noindex":    true,
		"statusCode": 404,
		"message":    c.notFound,
		"backUrl":    c.backURL,
		"backLabel":  c.notFoundBack,
	})
}

// ServerError is the 500 document for kind.
func ServerError(kind Kind) string {
	c := statusCopies[kind]
	return render.Render(statusTemplate, render.Context{
		"pageTitle":  "Kesalahan Server",
		"noindex":    true,
		"statusCode": 500,
		"message":    "Terjadi kesalahan pada server",
		"backUrl":    c.backURL,
		"backLabel":  c.errorBack,
	})
}

var braces = strings.NewReplacer("{", "&#123;", "}", "&#125;")

// text escapes s for HTML and neutralizes template markup in data.
func text(s string) string {
	return braces.Replace(render.Escape(s))
}

func pathValue(s string) string {
	return text(url.PathEscape(s))
}

func queryValue(s string) string {
	return text(url.QueryEscape(s))
}

func salaryRange(lo, hi int64) string {
	switch {
	case lo > 0 && hi > 0:
		return render.FormatRupiah(lo) + " - " + render.FormatNumber(hi)
	case lo > 0:
		return "Mulai " + render.FormatRupiah(lo)
	case hi > 0:
		return "Hingga " + render.FormatRupiah(hi)
	}
	return ""
}
