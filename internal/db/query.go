package db

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Filter is a single column = value equality term.
type Filter struct {
	Column string
	Value  string
}

// Filters is an ordered set of equality terms keyed by column.
type Filters []Filter

// Set records value for column. Setting a column twice keeps its original
// position and replaces the value.
func (f *Filters) Set(column, value string) {
	for i := range *f {
		if (*f)[i].Column == column {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Filter{Column: column, Value: value})
}

// Exclusion omits rows whose Column matches any of Values.
type Exclusion struct {
	Column string
	Values []string
}

// Active reports whether the exclusion contributes a predicate.
func (e *Exclusion) Active() bool {
	return e != nil && e.Column != "" && len(e.Values) > 0
}

// Query is a SELECT * over one table with optional filters and exclusion.
type Query struct {
	Table     string
	Filters   Filters
	Exclusion *Exclusion
}

// Dialect captures the per-backend differences in query text.
type Dialect struct {
	// Schema qualifies the table name when set.
	Schema      string
	placeholder func(n int) string
}

var (
	PostgresDialect = Dialect{Schema: "public", placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}
	SQLiteDialect   = Dialect{placeholder: func(int) string { return "?" }}
)

// QuoteIdentifier double-quotes each part and joins them with dots.
func QuoteIdentifier(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

func (d Dialect) table(name string) string {
	if d.Schema != "" {
		return QuoteIdentifier(d.Schema, name)
	}
	return QuoteIdentifier(name)
}

// Build renders the statement for d. Identifiers are quoted and every value
// is returned as a bound argument.
func (q *Query) Build(d Dialect) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	next := func(v string) string {
		args = append(args, v)
		return d.placeholder(len(args))
	}

	for _, f := range q.Filters {
		conditions = append(conditions, QuoteIdentifier(f.Column)+" = "+next(f.Value))
	}

	if q.Exclusion.Active() {
		placeholders := make([]string, len(q.Exclusion.Values))
		for i, v := range q.Exclusion.Values {
			placeholders[i] = next(v)
		}
		conditions = append(conditions, QuoteIdentifier(q.Exclusion.Column)+" NOT IN ("+strings.Join(placeholders, ", ")+")")
	}

	sql := "SELECT * FROM " + d.table(q.Table)
	if len(conditions) > 0 {
		sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	return sql, args
}

// Predicate renders the WHERE clause with values inlined as quoted literals,
// for display only. It returns "" when there is nothing to filter on.
func (q *Query) Predicate() string {
	var conditions []string
	for _, f := range q.Filters {
		conditions = append(conditions, f.Column+" = "+quoteLiteral(f.Value))
	}
	if q.Exclusion.Active() {
		quoted := make([]string, len(q.Exclusion.Values))
		for i, v := range q.Exclusion.Values {
			quoted[i] = quoteLiteral(v)
		}
		conditions = append(conditions, q.Exclusion.Column+" NOT IN ("+strings.Join(quoted, ", ")+")")
	}
	return strings.Join(conditions, " AND ")
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
