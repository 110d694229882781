package search

import "strings"

// SortTerm is one ORDER BY entry. Directional terms follow the requested sort
// order; the rest keep Desc as written.
type SortTerm struct {
	Expr        string
	Args        []any
	Desc        bool
	Directional bool
	NullsLast   bool
}

func (t SortTerm) String() string {
	var b strings.Builder
	b.WriteString(t.Expr)
	if t.Desc {
		b.WriteString(" DESC")
	} else {
		b.WriteString(" ASC")
	}
	if t.NullsLast {
		b.WriteString(" NULLS LAST")
	}
	return b.String()
}

const (
	postedAtColumn = "posted_at"
	relevanceRank  = "CASE WHEN title ILIKE ? THEN 1 WHEN company ILIKE ? THEN 2 WHEN description ILIKE ? THEN 3 ELSE 4 END"
)

var dateTieBreak = SortTerm{Expr: postedAtColumn, Desc: true, NullsLast: true}

// idTieBreak keeps page boundaries stable between requests.
var idTieBreak = SortTerm{Expr: "id"}

// sortTable maps a sort key to its primary terms. Relevance is resolved in
// resolveSort because it depends on the query.
var sortTable = map[string][]SortTerm{
	SortSalary:   {{Expr: "salary_min", Desc: true, Directional: true, NullsLast: true}},
	SortCompany:  {{Expr: "company", Directional: true}},
	SortPostedAt: {{Expr: postedAtColumn, Desc: true, Directional: true, NullsLast: true}},
	SortDate:     {{Expr: postedAtColumn, Desc: true, Directional: true, NullsLast: true}},
}

// resolveSort returns the ORDER BY terms for key and order. An empty order
// keeps each key's natural direction.
func resolveSort(key, order, query string) []SortTerm {
	var primary []SortTerm
	switch {
	case key == SortRelevance && query != "":
		w := wildcard(query)
		primary = []SortTerm{{Expr: relevanceRank, Args: []any{w, w, w}}}
	case key == SortRelevance:
		primary = sortTable[SortDate]
	default:
		primary = sortTable[key]
		if primary == nil {
			primary = sortTable[SortDate]
		}
	}

	terms := make([]SortTerm, 0, len(primary)+2)
	for _, t := range primary {
		if t.Directional && order != "" {
			t.Desc = order == OrderDesc
		}
		terms = append(terms, t)
	}
	if !containsExpr(terms, postedAtColumn) {
		terms = append(terms, dateTieBreak)
	}
	return append(terms, idTieBreak)
}

func containsExpr(terms []SortTerm, expr string) bool {
	for _, t := range terms {
		if t.Expr == expr {
			return true
		}
	}
	return false
}
