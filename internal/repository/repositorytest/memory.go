// Package repositorytest provides an in-memory JobRepository that evaluates
// query plans against a fixed set of records.
package repositorytest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"megawe/internal/domain/job"
	"megawe/internal/repository"
	"megawe/internal/search"
)

// MemoryJobs understands every condition search.Build emits. Results are
// ordered by posted_at descending, then id; other sort keys are ignored.
type MemoryJobs struct {
	mu      sync.Mutex
	Records []job.Record
	Now     func() time.Time
	Err     error

	Plans []search.QueryPlan
}

var _ repository.JobRepository = (*MemoryJobs)(nil)

func NewMemoryJobs(recs ...job.Record) *MemoryJobs {
	return &MemoryJobs{Records: recs}
}

func (m *MemoryJobs) Search(_ context.Context, plan search.QueryPlan, _ []string) ([]job.Record, error) {
	matched, err := m.match(plan)
	if err != nil {
		return nil, err
	}
	if plan.Offset >= len(matched) {
		return []job.Record{}, nil
	}
	end := plan.Offset + plan.Limit
	if plan.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[plan.Offset:end], nil
}

func (m *MemoryJobs) Count(_ context.Context, plan search.QueryPlan) (int, error) {
	matched, err := m.match(plan)
	return len(matched), err
}

func (m *MemoryJobs) FindActiveByID(_ context.Context, id string) (job.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return job.Record{}, m.Err
	}
	id = strings.TrimSpace(id)
	for _, r := range m.Records {
		if r.ID == id && bool(r.IsActive) {
			return r, nil
		}
	}
	return job.Record{}, repository.ErrJobNotFound
}

func (m *MemoryJobs) ListByEmployer(_ context.Context, employerID string, limit int) ([]job.Record, error) {
	return m.list(limit, func(r job.Record) bool { return val(r.EmployerID) == employerID })
}

func (m *MemoryJobs) ListByLocation(_ context.Context, location string, limit int) ([]job.Record, error) {
	return m.list(limit, func(r job.Record) bool { return strings.EqualFold(val(r.Location), location) })
}

func (m *MemoryJobs) list(limit int, keep func(job.Record) bool) ([]job.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []job.Record{}
	for _, r := range m.Records {
		if bool(r.IsActive) && m.live(r) && keep(r) {
			out = append(out, r)
		}
	}
	m.order(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryJobs) match(plan search.QueryPlan) ([]job.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Plans = append(m.Plans, plan)
	if m.Err != nil {
		return nil, m.Err
	}

	preds := make([]func(job.Record) bool, 0, len(plan.Conditions))
	args := plan.Args
	for _, cond := range plan.Conditions {
		n := strings.Count(cond, "?")
		if n > len(args) {
			return nil, fmt.Errorf("repositorytest: %q needs %d binds, %d left", cond, n, len(args))
		}
		p, err := m.predicate(cond, args[:n])
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
		args = args[n:]
	}
	if len(args) != 0 {
		return nil, fmt.Errorf("repositorytest: %d unused binds", len(args))
	}

	out := []job.Record{}
	for _, r := range m.Records {
		ok := true
		for _, p := range preds {
			if !p(r) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	m.order(out)
	return out, nil
}

func (m *MemoryJobs) predicate(cond string, args []any) (func(job.Record) bool, error) {
	switch {
	case cond == search.ActiveCondition:
		return func(r job.Record) bool { return bool(r.IsActive) }, nil
	case cond == search.ExpiryCondition:
		return m.live, nil
	case cond == "is_remote = true":
		return func(r job.Record) bool { return bool(r.IsRemote) }, nil
	case strings.HasPrefix(cond, "(title ILIKE"):
		needle := unwild(args[0])
		return func(r job.Record) bool {
			for _, f := range []*string{r.Title, r.Description, r.Company, r.Skills, r.Tags} {
				if contains(val(f), needle) {
					return true
				}
			}
			return false
		}, nil
	case cond == "location ILIKE ?":
		needle := unwild(args[0])
		return func(r job.Record) bool { return contains(val(r.Location), needle) }, nil
	case cond == "employer_id = ?":
		return func(r job.Record) bool { return val(r.EmployerID) == args[0] }, nil
	case cond == "category = ?":
		return func(r job.Record) bool { return val(r.Category) == args[0] }, nil
	case cond == "experience_level = ?":
		return func(r job.Record) bool { return val(r.ExperienceLevel) == args[0] }, nil
	case strings.HasPrefix(cond, "employment_type IN"):
		return func(r job.Record) bool {
			for _, a := range args {
				if val(r.EmploymentType) == a {
					return true
				}
			}
			return false
		}, nil
	case cond == "salary_min >= ?":
		return func(r job.Record) bool { return r.SalaryMin != nil && *r.SalaryMin >= args[0].(int64) }, nil
	case cond == "salary_max <= ?":
		return func(r job.Record) bool { return r.SalaryMax != nil && *r.SalaryMax <= args[0].(int64) }, nil
	}
	return nil, fmt.Errorf("repositorytest: unsupported condition %q", cond)
}

func (m *MemoryJobs) live(r job.Record) bool {
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	return r.ExpiresAt == nil || r.ExpiresAt.After(now)
}

func (m *MemoryJobs) order(rs []job.Record) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := rs[i].PostedAt, rs[j].PostedAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return rs[i].ID < rs[j].ID
	})
}

var unescaper = strings.NewReplacer(`\\`, `\`, `\%`, `%`, `\_`, `_`)

func unwild(a any) string {
	s, _ := a.(string)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "%"), "%")
	return unescaper.Replace(s)
}

func contains(hay, needle string) bool {
	return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
}

func val(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Str returns a pointer to s, for building records.
func Str(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int64) *int64 { return &n }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }
