package database

import (
	"reflect"
	"testing"
)

func TestNewFilter_TrimsInputs(t *testing.T) {
	f := NewFilter("  rose ", "\tFloral\n")
	if f.Search != "rose" {
		t.Errorf("expected search %q, got %q", "rose", f.Search)
	}
	if f.Category != "Floral" {
		t.Errorf("expected category %q, got %q", "Floral", f.Category)
	}

	blank := NewFilter("   ", " ")
	if blank.Search != "" || blank.Category != "" {
		t.Errorf("expected blank filter, got %+v", blank)
	}
}

func TestFilter_Matches(t *testing.T) {
	p := &Perfume{
		Name:        "Chanel No. 5",
		Brand:       "Chanel",
		Description: "A timeless floral aldehyde",
		Category:    "Floral",
	}

	tests := []struct {
		name     string
		filter   Filter
		expected bool
	}{
		{name: "empty filter matches everything", filter: Filter{}, expected: true},
		{name: "search in name", filter: Filter{Search: "no. 5"}, expected: true},
		{name: "search in brand ignores case", filter: Filter{Search: "CHANEL"}, expected: true},
		{name: "search in description", filter: Filter{Search: "aldehyde"}, expected: true},
		{name: "search misses", filter: Filter{Search: "vanilla"}, expected: false},
		{name: "category exact", filter: Filter{Category: "Floral"}, expected: true},
		{name: "category differs in case", filter: Filter{Category: "floral"}, expected: false},
		{name: "category is not a substring match", filter: Filter{Category: "Flo"}, expected: false},
		{name: "both match", filter: Filter{Search: "timeless", Category: "Floral"}, expected: true},
		{name: "search matches category does not", filter: Filter{Search: "timeless", Category: "Woody"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(p); got != tt.expected {
				t.Errorf("Matches() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestAnd(t *testing.T) {
	yes := func(*Perfume) bool { return true }
	no := func(*Perfume) bool { return false }

	if !And()(&Perfume{}) {
		t.Errorf("expected empty And to match")
	}
	if !And(yes, yes)(&Perfume{}) {
		t.Errorf("expected And(yes, yes) to match")
	}
	if And(yes, no)(&Perfume{}) {
		t.Errorf("expected And(yes, no) not to match")
	}
}

func TestFilter_WhereClause(t *testing.T) {
	tests := []struct {
		name          string
		filter        Filter
		dialect       sqlDialect
		expectedWhere string
		expectedArgs  []any
	}{
		{
			name:          "empty filter",
			filter:        Filter{},
			dialect:       sqliteDialect,
			expectedWhere: "",
			expectedArgs:  nil,
		},
		{
			name:          "sqlite category only",
			filter:        Filter{Category: "Fresh"},
			dialect:       sqliteDialect,
			expectedWhere: " WHERE category = ?",
			expectedArgs:  []any{"Fresh"},
		},
		{
			name:    "sqlite search and category",
			filter:  Filter{Search: "rose", Category: "Floral"},
			dialect: sqliteDialect,
			expectedWhere: " WHERE (instr(unicode_lower(name), unicode_lower(?)) > 0 OR " +
				"instr(unicode_lower(brand), unicode_lower(?)) > 0 OR " +
				"instr(unicode_lower(description), unicode_lower(?)) > 0) AND category = ?",
			expectedArgs: []any{"rose", "rose", "rose", "Floral"},
		},
		{
			name:    "postgres numbers placeholders",
			filter:  Filter{Search: "rose", Category: "Floral"},
			dialect: postgresDialect,
			expectedWhere: " WHERE (strpos(lower(name), lower($1)) > 0 OR strpos(lower(brand), lower($2)) > 0 OR " +
				"strpos(lower(description), lower($3)) > 0) AND category = $4",
			expectedArgs: []any{"rose", "rose", "rose", "Floral"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.whereClause(tt.dialect, 1)
			if where != tt.expectedWhere {
				t.Errorf("where:\n got  %q\n want %q", where, tt.expectedWhere)
			}
			if !reflect.DeepEqual(args, tt.expectedArgs) {
				t.Errorf("args: got %v, want %v", args, tt.expectedArgs)
			}
		})
	}
}
