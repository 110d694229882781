package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"megawe/internal/database"
	"megawe/internal/domain/job"
)

// JobsSeeder upserts a small set of demo listings across the main cities.
type JobsSeeder struct {
	Now func() time.Time
}

func (JobsSeeder) Name() string { return "jobs" }

type seedJob struct {
	ID              string
	Title           string
	Company         string
	EmployerID      string
	Location        string
	Category        string
	EmploymentType  string
	ExperienceLevel string
	MinYears        int64
	SalaryMin       int64
	SalaryMax       int64
	Quota           int64
	Remote          bool
	Featured        bool
	Priority        int64
	Skills          string
	Requirements    string
	Benefits        string
	Description     string
	PostedDaysAgo   int
	ExpiresInDays   int
}

// SeedJobs is the demo dataset. Jobs with a negative ExpiresInDays are expired.
var SeedJobs = []seedJob{
	{
		ID: "job-backend-go-jkt", Title: "Backend Engineer (Go)", Company: "PT Nusantara Digital", EmployerID: "nusantara-digital",
		Location: "Jakarta", Category: "Teknologi Informasi", EmploymentType: "full-time", ExperienceLevel: "mid-level", MinYears: 3,
		SalaryMin: 12_000_000, SalaryMax: 18_000_000, Quota: 2, Featured: true, Priority: 10,
		Skills: "Go, PostgreSQL, Redis, Docker", Requirements: "S1 Teknik Informatika, Pengalaman 3 tahun dengan Go, Memahami SQL",
		Benefits: "BPJS Kesehatan, Asuransi swasta, WFH fleksibel",
		Description:   "Membangun dan memelihara layanan backend berbasis Go untuk platform pembayaran dengan jutaan transaksi per hari.",
		PostedDaysAgo: 1, ExpiresInDays: 30,
	},
	{
		ID: "job-frontend-jkt", Title: "Frontend Developer (React)", Company: "PT Nusantara Digital", EmployerID: "nusantara-digital",
		Location: "Jakarta", Category: "Teknologi Informasi", EmploymentType: "full-time", ExperienceLevel: "junior", MinYears: 1,
		SalaryMin: 7_000_000, SalaryMax: 10_000_000, Quota: 3, Priority: 5,
		Skills: "React, TypeScript, Tailwind CSS", Requirements: "Menguasai React, Terbiasa dengan Git",
		Benefits:      "BPJS Kesehatan, Laptop kantor",
		Description:   "Mengembangkan antarmuka web yang cepat dan mudah diakses untuk pengguna di seluruh Indonesia.",
		PostedDaysAgo: 3, ExpiresInDays: 25,
	},
	{
		ID: "job-kasir-jkt", Title: "Kasir Toko", Company: "Toko Makmur Sejahtera", EmployerID: "makmur-sejahtera",
		Location: "Jakarta", Category: "Ritel", EmploymentType: "part-time", ExperienceLevel: "entry-level",
		SalaryMin: 2_500_000, SalaryMax: 3_200_000, Quota: 4,
		Skills: "Pelayanan pelanggan, Mesin kasir", Requirements: "Minimal SMA/SMK, Jujur dan teliti",
		Description:   "Melayani transaksi pelanggan dan menjaga kerapian area kasir.",
		PostedDaysAgo: 0, ExpiresInDays: 14,
	},
	{
		ID: "job-admin-expired-jkt", Title: "Staff Admin Gudang", Company: "CV Sumber Logistik", EmployerID: "sumber-logistik",
		Location: "Jakarta", Category: "Logistik", EmploymentType: "contract", ExperienceLevel: "junior", MinYears: 1,
		SalaryMin: 4_000_000, SalaryMax: 5_000_000, Quota: 1,
		Skills: "Microsoft Excel, Inventaris", Requirements: "Teliti, Menguasai Excel",
		Description:   "Mencatat keluar masuk barang dan menyiapkan laporan stok mingguan.",
		PostedDaysAgo: 45, ExpiresInDays: -5,
	},
	{
		ID: "job-data-bdg", Title: "Data Analyst", Company: "PT Insight Parahyangan", EmployerID: "insight-parahyangan",
		Location: "Bandung", Category: "Teknologi Informasi", EmploymentType: "full-time", ExperienceLevel: "mid-level", MinYears: 2,
		SalaryMin: 9_000_000, SalaryMax: 13_000_000, Quota: 1, Featured: true, Priority: 8,
		Skills: "SQL, Python, Looker Studio", Requirements: "S1 Statistika/Matematika, Mahir SQL",
		Benefits:      "BPJS, Bonus tahunan",
		Description:   "Menganalisis data penjualan dan menyusun dasbor untuk tim manajemen.",
		PostedDaysAgo: 2, ExpiresInDays: 30,
	},
	{
		ID: "job-marketing-sby", Title: "Digital Marketing Specialist", Company: "PT Arek Kreatif", EmployerID: "arek-kreatif",
		Location: "Surabaya", Category: "Pemasaran", EmploymentType: "full-time", ExperienceLevel: "junior", MinYears: 1,
		SalaryMin: 5_500_000, SalaryMax: 7_500_000, Quota: 2, Priority: 3,
		Skills: "SEO, Google Ads, Copywriting", Requirements: "Portofolio kampanye digital, Kreatif",
		Description:   "Merancang dan mengelola kampanye pemasaran digital untuk klien UMKM.",
		PostedDaysAgo: 5, ExpiresInDays: 20,
	},
	{
		ID: "job-intern-remote", Title: "Magang Content Writer", Company: "PT Arek Kreatif", EmployerID: "arek-kreatif",
		Location: "Surabaya", Category: "Pemasaran", EmploymentType: "internship", ExperienceLevel: "entry-level",
		Quota: 5, Remote: true,
		Skills: "Menulis, Riset", Requirements: "Mahasiswa tingkat akhir",
		Description:   "Menulis artikel blog dan konten media sosial bersama tim editorial.",
		PostedDaysAgo: 7, ExpiresInDays: 10,
	},
	{
		ID: "job-devops-remote", Title: "DevOps Engineer", Company: "PT Awan Kita", EmployerID: "awan-kita",
		Location: "Yogyakarta", Category: "Teknologi Informasi", EmploymentType: "contract", ExperienceLevel: "senior", MinYears: 5,
		SalaryMin: 15_000_000, SalaryMax: 22_000_000, Quota: 1, Remote: true, Featured: true, Priority: 9,
		Skills: "Kubernetes, Terraform, AWS, Prometheus", Requirements: "Pengalaman 5 tahun DevOps, Sertifikasi cloud menjadi nilai tambah",
		Description:   "Mengelola infrastruktur cloud, pipeline CI/CD, dan observabilitas layanan produksi.",
		PostedDaysAgo: 4,
	},
}

func (s JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", job.Columns...); err != nil {
		return err
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, it := range SeedJobs {
		posted := now.AddDate(0, 0, -it.PostedDaysAgo)
		var expires *time.Time
		if it.ExpiresInDays != 0 {
			e := now.AddDate(0, 0, it.ExpiresInDays)
			expires = &e
		}

		_, err := tx.Exec(ctx, database.Rebind(upsertJobSQL),
			it.ID, it.Title, job.Slugify(it.Title+" "+it.Location), it.Description, it.Requirements, it.Benefits, it.Skills,
			it.Company, it.EmployerID, it.Location, it.Remote,
			it.EmploymentType, it.ExperienceLevel, it.MinYears, it.Category,
			nullableInt(it.SalaryMin), nullableInt(it.SalaryMax),
			it.Quota, it.Quota, "https://megawe.net/apply/"+it.ID,
			it.Featured, it.Priority,
			seoKeywords(it), posted, expires,
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

const upsertJobSQL = `
INSERT INTO jobs (
	id, title, slug, description, requirements, benefits, skills,
	company, employer_id, location, is_remote,
	employment_type, experience_level, min_year_experience, category,
	salary_min, salary_max,
	quota, available_quota, application_url,
	featured, priority,
	seo_keywords, posted_at, expires_at, is_active
) VALUES (
	?, ?, ?, ?, ?, ?, ?,
	?, ?, ?, ?,
	?, ?, ?, ?,
	?, ?,
	?, ?, ?,
	?, ?,
	?, ?, ?, true
)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	requirements = EXCLUDED.requirements,
	benefits = EXCLUDED.benefits,
	skills = EXCLUDED.skills,
	salary_min = EXCLUDED.salary_min,
	salary_max = EXCLUDED.salary_max,
	featured = EXCLUDED.featured,
	priority = EXCLUDED.priority,
	posted_at = EXCLUDED.posted_at,
	expires_at = EXCLUDED.expires_at,
	updated_at = now()`

func nullableInt(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}

func seoKeywords(it seedJob) string {
	parts := []string{"lowongan " + strings.ToLower(it.Title), "loker " + strings.ToLower(it.Location), it.Company}
	return strings.Join(parts, ", ")
}
