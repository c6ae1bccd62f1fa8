// Package dbstrings renders SQL text fragments — quoted identifiers,
// parameter placeholders, assignment and predicate lists, ORDER BY clauses —
// from column metadata. Identifiers are never taken from untrusted input;
// callers validate names against their declared column set before rendering.
package dbstrings

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL flavor fragments are rendered for.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// QuoteIdent quotes a table or column name for the dialect.
func QuoteIdent(name string, dialect Dialect) string {
	switch dialect {
	case DialectMySQL:
		return "`" + name + "`"
	default: // postgres and sqlite use double quotes
		return `"` + name + `"`
	}
}

// Placeholder returns the parameter placeholder for the given 1-based index.
func Placeholder(index int, dialect Dialect) string {
	switch dialect {
	case DialectPostgres:
		return fmt.Sprintf("$%d", index)
	default: // mysql and sqlite use ?
		return "?"
	}
}

// Placeholders returns a comma-separated list of n placeholders starting at
// the 1-based index start.
func Placeholders(n, start int, dialect Dialect) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Placeholder(start+i, dialect))
	}
	return b.String()
}

// IdentList returns a comma-separated list of quoted identifiers.
func IdentList(names []string, dialect Dialect) string {
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(QuoteIdent(name, dialect))
	}
	return b.String()
}

// AssignList returns `"c1" = ?, "c2" = ?` style SET fragments. Placeholder
// numbering begins at the 1-based index start so the fragment composes with
// dialects that use positional placeholders.
func AssignList(columns []string, start int, dialect Dialect) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(QuoteIdent(col, dialect))
		b.WriteString(" = ")
		b.WriteString(Placeholder(start+i, dialect))
	}
	return b.String()
}

// PredicateList returns `"c1" = ? AND "c2" = ?` style WHERE fragments, one
// equality predicate per column, conjoined. Placeholder numbering begins at
// the 1-based index start.
func PredicateList(columns []string, start int, dialect Dialect) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(QuoteIdent(col, dialect))
		b.WriteString(" = ")
		b.WriteString(Placeholder(start+i, dialect))
	}
	return b.String()
}

// OrderClause renders an ORDER BY clause body from a list of column names.
// A leading '-' on a name sorts that column descending. Text comparison is
// case-insensitive: COLLATE NOCASE on sqlite, a LOWER() wrap elsewhere.
// Names must already be validated against the caller's declared columns —
// they are rendered as identifiers, not bound as parameters.
func OrderClause(order []string, dialect Dialect) string {
	var b strings.Builder
	for i, name := range order {
		if i > 0 {
			b.WriteString(", ")
		}
		desc := strings.HasPrefix(name, "-")
		if desc {
			name = name[1:]
		}
		switch dialect {
		case DialectSQLite:
			b.WriteString(QuoteIdent(name, dialect))
			b.WriteString(" COLLATE NOCASE")
		default:
			b.WriteString("LOWER(")
			b.WriteString(QuoteIdent(name, dialect))
			b.WriteString(")")
		}
		if desc {
			b.WriteString(" DESC")
		}
	}
	return b.String()
}
