package job

import "strings"

var EmploymentTypes = []string{
	"full-time", "part-time", "contract", "temporary", "internship", "freelance", "volunteer",
}

var ExperienceLevels = []string{
	"entry-level", "junior", "mid-level", "senior", "lead", "manager", "director", "executive",
}

var SalaryPeriods = []string{"hour", "day", "week", "month", "year"}

func IsEmploymentType(s string) bool { return contains(EmploymentTypes, s) }

func IsExperienceLevel(s string) bool { return contains(ExperienceLevels, s) }

// SchemaEmploymentType maps an employment type to its schema.org JobPosting value.
func SchemaEmploymentType(t string) string {
	switch normalizeType(t) {
	case "full-time":
		return "FULL_TIME"
	case "part-time":
		return "PART_TIME"
	case "temporary":
		return "TEMPORARY"
	case "internship":
		return "INTERN"
	case "volunteer":
		return "VOLUNTEER"
	}
	return "CONTRACTOR"
}

// SchemaSalaryUnit maps a salary period to a schema.org unitText.
func SchemaSalaryUnit(period string) string {
	switch strings.ToLower(period) {
	case "hour":
		return "HOUR"
	case "day":
		return "DAY"
	case "week":
		return "WEEK"
	case "year":
		return "YEAR"
	}
	return "MONTH"
}

var employmentLabels = map[string]string{
	"full-time":  "Penuh Waktu",
	"part-time":  "Paruh Waktu",
	"contract":   "Kontrak",
	"temporary":  "Sementara",
	"internship": "Magang",
	"freelance":  "Lepas",
	"volunteer":  "Sukarela",
}

// EmploymentLabel is the Indonesian display label; unknown tags are shown as is.
func EmploymentLabel(t string) string {
	if l, ok := employmentLabels[normalizeType(t)]; ok {
		return l
	}
	return t
}

func normalizeType(t string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(t)), "_", "-")
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
