// Package record implements a metadata-driven record mapper. A concrete
// entity supplies three pieces of metadata — table name, column list, and
// default ordering — and the engine derives working fetch, filter, list,
// save, and delete operations from them, with no per-entity SQL.
//
// Every entity's primary key column is named "pk" and is never part of the
// declared column list; the engine appends it implicitly. Column and table
// names come only from metadata fixed at definition time, so they can be
// rendered as identifiers; all values are bound as parameters.
package record

import (
	"fmt"

	"github.com/markbook/markbook/db"
)

// PKColumn is the uniform primary key column name across all entities.
const PKColumn = "pk"

// Meta describes one entity's table. It is fixed at definition time and
// shared by every record of the entity; engine operations take it by
// reference rather than reading it off a type hierarchy.
type Meta struct {
	// Table is the table name.
	Table string
	// Columns lists the mapped column names, excluding the primary key.
	Columns []string
	// Order is the default sort for All, column names optionally prefixed
	// with '-' for descending.
	Order []string
}

// HasColumn reports whether name is a declared column or the primary key.
func (m *Meta) HasColumn(name string) bool {
	if name == PKColumn {
		return true
	}
	for _, col := range m.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// checkOrder validates that every order entry, minus any '-' prefix, names a
// declared column or the primary key. Order entries are rendered as SQL
// identifiers, not bound as parameters, so they must never come from
// untrusted input.
func (m *Meta) checkOrder(order []string) error {
	for _, name := range order {
		col := name
		if len(col) > 0 && col[0] == '-' {
			col = col[1:]
		}
		if !m.HasColumn(col) {
			return InvalidQueryf("%s: order references undeclared column %q", m.Table, col)
		}
	}
	return nil
}

// Record is one row of an entity, materialized in memory. A record is either
// bound — it corresponds to an existing stored row and carries its primary
// key — or unbound: new, or detached by a delete.
type Record struct {
	meta   *Meta
	pk     int64
	hasPK  bool
	fields map[string]any
	inDB   bool
}

// New creates an unbound record with the given field values. Keys must be
// declared columns or "pk"; anything else is a validation error. Declared
// columns absent from fields start as nil.
func New(meta *Meta, fields map[string]any) (*Record, error) {
	for name := range fields {
		if !meta.HasColumn(name) {
			return nil, Validationf("%s was given a value for column %q it does not know about", meta.Table, name)
		}
	}

	r := &Record{meta: meta, fields: make(map[string]any, len(meta.Columns))}
	for _, col := range meta.Columns {
		r.fields[col] = fields[col]
	}
	if v, ok := fields[PKColumn]; ok && v != nil {
		pk, ok := toInt64(v)
		if !ok {
			return nil, Validationf("%s: pk must be an integer, got %T", meta.Table, v)
		}
		r.pk = pk
		r.hasPK = true
	}
	return r, nil
}

// fromRow materializes a bound record from a fetched row.
func fromRow(meta *Meta, row db.Row) (*Record, error) {
	fields := make(map[string]any, len(row))
	for name, v := range row {
		fields[name] = v
	}
	r, err := New(meta, fields)
	if err != nil {
		return nil, err
	}
	r.inDB = true
	return r, nil
}

// Meta returns the entity metadata the record was created with.
func (r *Record) Meta() *Meta { return r.meta }

// PK returns the primary key and whether one is assigned. Unbound records
// that were never saved have none.
func (r *Record) PK() (int64, bool) {
	return r.pk, r.hasPK
}

// InDB reports whether the record corresponds to an existing stored row.
func (r *Record) InDB() bool { return r.inDB }

// Field returns the current value of a declared column.
func (r *Record) Field(column string) (any, error) {
	if column == PKColumn {
		if !r.hasPK {
			return nil, nil
		}
		return r.pk, nil
	}
	if !r.meta.HasColumn(column) {
		return nil, Validationf("%s has no column %q", r.meta.Table, column)
	}
	return r.fields[column], nil
}

// SetField assigns a new value to a declared column. The change is in-memory
// until the next Save.
func (r *Record) SetField(column string, value any) error {
	if column == PKColumn || !r.meta.HasColumn(column) {
		return Validationf("%s has no assignable column %q", r.meta.Table, column)
	}
	r.fields[column] = value
	return nil
}

// Text returns a column value as a string, or "" when it is null or not
// text. Convenience for derived accessors.
func (r *Record) Text(column string) string {
	s, _ := r.fields[column].(string)
	return s
}

// Int returns a column value as an int64, or 0 when it is null or not an
// integer.
func (r *Record) Int(column string) int64 {
	v, _ := toInt64(r.fields[column])
	return v
}

// String renders the record as "<table: pk>".
func (r *Record) String() string {
	if !r.hasPK {
		return fmt.Sprintf("<%s: unsaved>", r.meta.Table)
	}
	return fmt.Sprintf("<%s: %d>", r.meta.Table, r.pk)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}
