package database

import (
	"fmt"
	"strings"
)

// Predicate decides whether a perfume belongs to a result set.
type Predicate func(p *Perfume) bool

// Filter is the storage independent description of a catalog query.
// Empty fields do not filter.
type Filter struct {
	Search   string
	Category string
}

// NewFilter trims both inputs so that blank values mean "no filter".
func NewFilter(search, category string) Filter {
	return Filter{
		Search:   strings.TrimSpace(search),
		Category: strings.TrimSpace(category),
	}
}

// SearchPredicate matches a case-insensitive substring of name, brand or description.
func SearchPredicate(term string) Predicate {
	if term == "" {
		return matchAll
	}
	needle := strings.ToLower(term)
	return func(p *Perfume) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Brand), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle)
	}
}

// CategoryPredicate matches the category exactly.
func CategoryPredicate(category string) Predicate {
	if category == "" {
		return matchAll
	}
	return func(p *Perfume) bool {
		return p.Category == category
	}
}

// And combines predicates with logical AND.
func And(predicates ...Predicate) Predicate {
	return func(p *Perfume) bool {
		for _, predicate := range predicates {
			if !predicate(p) {
				return false
			}
		}
		return true
	}
}

func matchAll(*Perfume) bool { return true }

// Predicate composes the search and category predicates of the filter.
func (f Filter) Predicate() Predicate {
	return And(SearchPredicate(f.Search), CategoryPredicate(f.Category))
}

// Matches evaluates the filter against a single perfume.
func (f Filter) Matches(p *Perfume) bool {
	return f.Predicate()(p)
}

// sqlDialect renders the dialect specific parts of a filter.
type sqlDialect struct {
	// placeholder returns the n-th (1-based) bind parameter.
	placeholder func(n int) string
	// contains renders "column contains lower-cased parameter".
	contains func(column, param string) string
}

var sqliteDialect = sqlDialect{
	placeholder: func(int) string { return "?" },
	contains: func(column, param string) string {
		return fmt.Sprintf("instr(%[1]s(%[2]s), %[1]s(%[3]s)) > 0", unicodeLowerFunction, column, param)
	},
}

var postgresDialect = sqlDialect{
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	contains: func(column, param string) string {
		return fmt.Sprintf("strpos(lower(%s), lower(%s)) > 0", column, param)
	},
}

// whereClause translates the filter into a WHERE clause (including the keyword) and its arguments.
// The first placeholder index used is firstArg.
func (f Filter) whereClause(dialect sqlDialect, firstArg int) (string, []any) {
	var conditions []string
	var args []any
	n := firstArg

	if f.Search != "" {
		var ors []string
		for _, column := range []string{"name", "brand", "description"} {
			ors = append(ors, dialect.contains(column, dialect.placeholder(n)))
			args = append(args, f.Search)
			n++
		}
		conditions = append(conditions, "("+strings.Join(ors, " OR ")+")")
	}
	if f.Category != "" {
		conditions = append(conditions, "category = "+dialect.placeholder(n))
		args = append(args, f.Category)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
