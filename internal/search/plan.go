package search

import (
	"strings"
)

// Conditions present on every plan, in this order.
const (
	ActiveCondition = "is_active = true"
	ExpiryCondition = "(expires_at IS NULL OR expires_at > NOW())"
)

// QueryColumns are the columns matched by the free-text query.
var QueryColumns = []string{"title", "description", "company", "skills", "tags"}

// QueryPlan is the condition/bind/order/limit artifact for one request.
// Args line up with the placeholders of Conditions; OrderArgs with OrderBy.
type QueryPlan struct {
	Conditions []string
	Args       []any
	OrderBy    []SortTerm
	OrderArgs  []any
	Limit      int
	Offset     int
}

// Build validates f and derives its plan.
func Build(f FilterSpec) (QueryPlan, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return QueryPlan{}, err
	}

	p := basePlan()

	if f.Query != "" {
		w := wildcard(f.Query)
		parts := make([]string, len(QueryColumns))
		for i, col := range QueryColumns {
			parts[i] = col + " ILIKE ?"
		}
		p.where("("+strings.Join(parts, " OR ")+")", w, w, w, w, w)
	}
	if f.Location != "" {
		p.where("location ILIKE ?", wildcard(f.Location))
	}
	if f.CompanyID != "" {
		p.where("employer_id = ?", f.CompanyID)
	}
	if f.Category != "" {
		p.where("category = ?", f.Category)
	}
	if f.ExperienceLevel != "" {
		p.where("experience_level = ?", f.ExperienceLevel)
	}
	if len(f.EmploymentTypes) > 0 {
		args := make([]any, len(f.EmploymentTypes))
		for i, t := range f.EmploymentTypes {
			args[i] = t
		}
		p.where("employment_type IN ("+placeholders(len(args))+")", args...)
	}
	if f.Remote {
		p.where("is_remote = true")
	}
	if f.SalaryMin > 0 {
		p.where("salary_min >= ?", f.SalaryMin)
	}
	if f.SalaryMax > 0 {
		p.where("salary_max <= ?", f.SalaryMax)
	}

	p.order(resolveSort(f.SortBy, f.SortOrder, f.Query))
	p.Limit = f.Limit
	p.Offset = f.Offset()
	return p, nil
}

// BuildFeatured plans the featured listing: featured rows first, then by
// priority and recency.
func BuildFeatured(f FeaturedSpec) (QueryPlan, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return QueryPlan{}, err
	}

	p := basePlan()
	p.order([]SortTerm{
		{Expr: "featured", Desc: true},
		{Expr: "priority", Desc: true, NullsLast: true},
		dateTieBreak,
		idTieBreak,
	})
	p.Limit = f.Limit
	p.Offset = f.Offset()
	return p, nil
}

func basePlan() QueryPlan {
	return QueryPlan{
		Conditions: []string{ActiveCondition, ExpiryCondition},
		Args:       []any{},
		OrderArgs:  []any{},
	}
}

func (p *QueryPlan) where(cond string, args ...any) {
	p.Conditions = append(p.Conditions, cond)
	p.Args = append(p.Args, args...)
}

func (p *QueryPlan) order(terms []SortTerm) {
	p.OrderBy = terms
	for _, t := range terms {
		p.OrderArgs = append(p.OrderArgs, t.Args...)
	}
}

// Where renders the conditions joined with AND, without the keyword.
func (p QueryPlan) Where() string {
	return strings.Join(p.Conditions, " AND ")
}

// OrderClause renders the ORDER BY terms, without the keyword.
func (p QueryPlan) OrderClause() string {
	parts := make([]string, len(p.OrderBy))
	for i, t := range p.OrderBy {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// SelectSQL renders the page query over table. Binds are AllArgs.
func (p QueryPlan) SelectSQL(table string, columns []string) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)
	b.WriteString(" WHERE ")
	b.WriteString(p.Where())
	if len(p.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(p.OrderClause())
	}
	b.WriteString(" LIMIT ? OFFSET ?")
	return b.String()
}

// AllArgs returns WHERE binds, then ORDER BY binds, then limit and offset.
func (p QueryPlan) AllArgs() []any {
	out := make([]any, 0, len(p.Args)+len(p.OrderArgs)+2)
	out = append(out, p.Args...)
	out = append(out, p.OrderArgs...)
	return append(out, p.Limit, p.Offset)
}

// CountArgs returns the binds of CountSQL.
func (p QueryPlan) CountArgs() []any {
	out := make([]any, len(p.Args))
	copy(out, p.Args)
	return out
}

// CountSQL renders the total-count query over table. Binds are CountArgs.
func (p QueryPlan) CountSQL(table string) string {
	return "SELECT COUNT(*) FROM " + table + " WHERE " + p.Where()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// wildcard wraps s for a substring ILIKE match with its own wildcards escaped.
func wildcard(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
