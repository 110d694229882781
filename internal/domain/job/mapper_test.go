package job

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }
func ip(n int64) *int64   { return &n }

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b,c"))
	assert.Equal(t, []string{}, SplitList(""))
	assert.Equal(t, []string{}, SplitList("  "))
	assert.Equal(t, []string{"S1 Informatika", "Go"}, SplitList("S1 Informatika\n\nGo,"))
}

func TestToView_AbsentListsAreEmptyNotNil(t *testing.T) {
	v := ToView(Record{ID: "j1"})

	for name, list := range map[string][]string{
		"requirements":     v.Requirements,
		"responsibilities": v.Responsibilities,
		"benefits":         v.Benefits,
		"skills":           v.Skills,
		"tags":             v.Tags,
	} {
		require.NotNil(t, list, name)
		assert.Empty(t, list, name)
	}

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"skills":[]`)
	assert.NotContains(t, string(raw), "null")
}

func TestToView_SalaryPresence(t *testing.T) {
	onlyMax := ToView(Record{ID: "a", SalaryMax: ip(8_000_000)})
	require.NotNil(t, onlyMax.Salary)
	assert.Nil(t, onlyMax.Salary.Min)
	assert.Equal(t, int64(8_000_000), *onlyMax.Salary.Max)
	assert.Equal(t, "IDR", onlyMax.Salary.Currency)
	assert.Equal(t, "month", onlyMax.Salary.Period)

	none := ToView(Record{ID: "b"})
	assert.Nil(t, none.Salary)
	raw, err := json.Marshal(none)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"salary"`)

	zeros := ToView(Record{ID: "c", SalaryMin: ip(0), SalaryMax: ip(0)})
	assert.Nil(t, zeros.Salary)
}

func TestToView_BooleansAndDefaults(t *testing.T) {
	v := ToView(Record{
		ID:             "x",
		Title:          sp("Backend Engineer (Go)"),
		Company:        sp("PT Maju Jaya"),
		EmployerID:     sp("emp-1"),
		IsRemote:       true,
		EmploymentType: sp("  "),
		Quota:          ip(4),
	})

	assert.True(t, v.IsRemote)
	assert.False(t, v.IsHybrid)
	assert.False(t, v.IsActive)
	assert.Equal(t, "full-time", v.EmploymentType)
	assert.Equal(t, "backend-engineer-go", v.Slug)
	assert.Equal(t, Company{ID: "emp-1", Name: "PT Maju Jaya", Slug: "pt-maju-jaya"}, v.Company)
	assert.Equal(t, int64(4), v.AvailableQuota)
}

func TestToView_PrefersStoredSlug(t *testing.T) {
	v := ToView(Record{ID: "x", Title: sp("Anything"), SEOSlug: sp("lowongan-anything-jakarta")})
	assert.Equal(t, "lowongan-anything-jakarta", v.Slug)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefgh", 5))

	long := strings.Repeat("é", 400)
	out := Truncate(long, 300)
	assert.Equal(t, strings.Repeat("é", 300)+"...", out)
	assert.Equal(t, out, Truncate(long, 300))
}

func TestToView_Summary(t *testing.T) {
	desc := strings.Repeat("x", 301)
	v := ToView(Record{ID: "x", Description: sp(desc)})
	assert.Equal(t, desc, v.Description)
	assert.Equal(t, strings.Repeat("x", 300)+"...", v.Summary)
}

func TestFlag_Scan(t *testing.T) {
	cases := []struct {
		src  any
		want bool
	}{
		{nil, false},
		{true, true},
		{int64(0), false},
		{int64(1), true},
		{"1", true},
		{"0", false},
		{"true", true},
		{[]byte("t"), true},
		{[]byte("0"), false},
		{"yes", true},
		{"", false},
		{"nope", false},
	}
	for _, c := range cases {
		var f Flag
		require.NoError(t, f.Scan(c.src))
		assert.Equal(t, c.want, bool(f), "src %#v", c.src)
	}

	var f Flag
	assert.Error(t, f.Scan(time.Now()))
}

func TestRecord_ScanTargets(t *testing.T) {
	var r Record
	targets, err := r.ScanTargets([]string{"id", "title", "is_remote"})
	require.NoError(t, err)
	require.Len(t, targets, 3)

	*(targets[0].(*string)) = "job-9"
	require.NoError(t, targets[2].(*Flag).Scan(int64(1)))
	assert.Equal(t, "job-9", r.ID)
	assert.True(t, bool(r.IsRemote))

	_, err = r.ScanTargets([]string{"id", "nope"})
	assert.Error(t, err)

	_, err = r.ScanTargets(Columns)
	assert.NoError(t, err)
}

func TestEnums(t *testing.T) {
	assert.True(t, IsEmploymentType("internship"))
	assert.False(t, IsEmploymentType("gig"))
	assert.True(t, IsExperienceLevel("mid-level"))
	assert.Equal(t, "FULL_TIME", SchemaEmploymentType("Full-time"))
	assert.Equal(t, "PART_TIME", SchemaEmploymentType("part_time"))
	assert.Equal(t, "CONTRACTOR", SchemaEmploymentType("contract"))
	assert.Equal(t, "MONTH", SchemaSalaryUnit(""))
	assert.Equal(t, "Magang", EmploymentLabel("internship"))
	assert.Equal(t, "Shift", EmploymentLabel("Shift"))
}
