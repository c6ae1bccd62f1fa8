package record

import (
	"context"
	"sort"
	"strings"

	"github.com/markbook/markbook/db"
	"github.com/markbook/markbook/dbstrings"
)

// Get fetches the single row with the given primary key and materializes a
// bound record from it. A missing row is a not-found error, never a
// half-initialized record.
func Get(ctx context.Context, g *db.DB, meta *Meta, pk int64) (*Record, error) {
	dialect := g.Dialect()

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(dbstrings.QuoteIdent(meta.Table, dialect))
	b.WriteString(" WHERE ")
	b.WriteString(dbstrings.QuoteIdent(PKColumn, dialect))
	b.WriteString(" = ")
	b.WriteString(dbstrings.Placeholder(1, dialect))
	b.WriteString(" LIMIT 1")

	row, err := g.QueryRow(ctx, b.String(), pk)
	if err != nil {
		return nil, StoreWrap("get failed", err)
	}
	if row == nil {
		return nil, NotFoundf("no %s row with pk %d", meta.Table, pk)
	}
	return fromRow(meta, row)
}

// Where fetches every row matching the conjunction of the given exact-match
// criteria, one equality predicate per entry, all values bound as
// parameters. Criteria keys are traversed in sorted order so the generated
// statement is deterministic. Row order is whatever the store returns.
//
// Empty criteria would degenerate to an unfiltered table scan and are
// rejected as an invalid query; use All for that.
func Where(ctx context.Context, g *db.DB, meta *Meta, criteria map[string]any) ([]*Record, error) {
	if len(criteria) == 0 {
		return nil, InvalidQueryf("%s: where requires at least one criterion", meta.Table)
	}

	columns := make([]string, 0, len(criteria))
	for name := range criteria {
		if !meta.HasColumn(name) {
			return nil, InvalidQueryf("%s: where references undeclared column %q", meta.Table, name)
		}
		columns = append(columns, name)
	}
	sort.Strings(columns)

	values := make([]any, len(columns))
	for i, name := range columns {
		values[i] = criteria[name]
	}

	dialect := g.Dialect()
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(dbstrings.QuoteIdent(meta.Table, dialect))
	b.WriteString(" WHERE ")
	b.WriteString(dbstrings.PredicateList(columns, 1, dialect))

	rows, err := g.Query(ctx, b.String(), values...)
	if err != nil {
		return nil, StoreWrap("where failed", err)
	}
	return fromRows(meta, rows)
}

// All fetches every row of the entity's table. With a nil order the entity's
// default order applies; with neither, row order is store-dependent. Order
// names are restricted to the entity's declared columns plus the primary key
// because they are rendered as identifiers.
func All(ctx context.Context, g *db.DB, meta *Meta, order []string) ([]*Record, error) {
	if order == nil {
		order = meta.Order
	}
	if err := meta.checkOrder(order); err != nil {
		return nil, err
	}

	dialect := g.Dialect()
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(dbstrings.QuoteIdent(meta.Table, dialect))
	if len(order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(dbstrings.OrderClause(order, dialect))
	}

	rows, err := g.Query(ctx, b.String())
	if err != nil {
		return nil, StoreWrap("all failed", err)
	}
	return fromRows(meta, rows)
}

// Save writes the record back to the store. An unbound record is inserted
// and receives the store-assigned primary key; a bound record's row is
// updated in place. A bound record whose row no longer exists (for example
// after a concurrent delete) fails with a not-found error and keeps its
// state unchanged.
//
// Saves join the gateway's pending transaction; nothing is durable until the
// caller commits or closes the gateway.
func (r *Record) Save(ctx context.Context, g *db.DB) error {
	if r.inDB {
		return r.update(ctx, g)
	}
	return r.insert(ctx, g)
}

// insert builds INSERT INTO t (c1, ...) VALUES (?, ...). One ordered
// traversal of the column list drives the column list, the placeholder list,
// and the bound values, so the three can never disagree positionally.
func (r *Record) insert(ctx context.Context, g *db.DB) error {
	dialect := g.Dialect()
	columns := r.meta.Columns

	values := make([]any, len(columns))
	for i, col := range columns {
		values[i] = r.fields[col]
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(dbstrings.QuoteIdent(r.meta.Table, dialect))
	b.WriteString(" (")
	b.WriteString(dbstrings.IdentList(columns, dialect))
	b.WriteString(") VALUES (")
	b.WriteString(dbstrings.Placeholders(len(columns), 1, dialect))
	b.WriteString(")")

	res, err := g.Exec(ctx, b.String(), values...)
	if err != nil {
		return StoreWrap("insert failed", err)
	}

	r.pk = res.LastInsertID
	r.hasPK = true
	r.inDB = true
	return nil
}

// update builds UPDATE t SET c1 = ?, ... WHERE pk = ?, with the same ordered
// traversal driving assignments and values.
func (r *Record) update(ctx context.Context, g *db.DB) error {
	dialect := g.Dialect()
	columns := r.meta.Columns

	values := make([]any, 0, len(columns)+1)
	for _, col := range columns {
		values = append(values, r.fields[col])
	}
	values = append(values, r.pk)

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(dbstrings.QuoteIdent(r.meta.Table, dialect))
	b.WriteString(" SET ")
	b.WriteString(dbstrings.AssignList(columns, 1, dialect))
	b.WriteString(" WHERE ")
	b.WriteString(dbstrings.QuoteIdent(PKColumn, dialect))
	b.WriteString(" = ")
	b.WriteString(dbstrings.Placeholder(len(columns)+1, dialect))

	res, err := g.Exec(ctx, b.String(), values...)
	if err != nil {
		return StoreWrap("update failed", err)
	}
	if res.RowsAffected == 0 {
		return NotFoundf("no %s row with pk %d to update", r.meta.Table, r.pk)
	}
	return nil
}

// Delete removes the record's row and detaches the record: the primary key
// is cleared and the record becomes unbound. Deleting an already-unbound
// record is a no-op, so Delete is idempotent by construction.
func (r *Record) Delete(ctx context.Context, g *db.DB) error {
	if !r.inDB {
		return nil
	}

	dialect := g.Dialect()
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(dbstrings.QuoteIdent(r.meta.Table, dialect))
	b.WriteString(" WHERE ")
	b.WriteString(dbstrings.QuoteIdent(PKColumn, dialect))
	b.WriteString(" = ")
	b.WriteString(dbstrings.Placeholder(1, dialect))

	if _, err := g.Exec(ctx, b.String(), r.pk); err != nil {
		return StoreWrap("delete failed", err)
	}

	r.pk = 0
	r.hasPK = false
	r.inDB = false
	return nil
}

func fromRows(meta *Meta, rows []db.Row) ([]*Record, error) {
	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		r, err := fromRow(meta, row)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
