package record

import (
	"context"
	"testing"

	"github.com/markbook/markbook/db"
)

var bookMeta = &Meta{
	Table:   "book",
	Columns: []string{"title", "author", "points"},
	Order:   []string{"title", "pk"},
}

func openEngineDB(t *testing.T) *db.DB {
	t.Helper()
	g, err := db.Open(context.Background(), ":memory:", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { g.Close() })

	schema := `CREATE TABLE book (
		pk INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		author TEXT,
		points INTEGER
	)`
	if _, err := g.ExecCommit(context.Background(), schema); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return g
}

func mustNew(t *testing.T, meta *Meta, fields map[string]any) *Record {
	t.Helper()
	r, err := New(meta, fields)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestSaveInsertThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	r := mustNew(t, bookMeta, map[string]any{
		"title":  "On Computable Numbers",
		"author": "Alan Turing",
		"points": 100,
	})
	if err := r.Save(ctx, g); err != nil {
		t.Fatalf("save: %v", err)
	}

	pk, ok := r.PK()
	if !ok {
		t.Fatal("saved record has no pk")
	}
	if !r.InDB() {
		t.Error("saved record must be bound")
	}

	fetched, err := Get(ctx, g, bookMeta, pk)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !fetched.InDB() {
		t.Error("fetched record must be bound")
	}
	if got := fetched.Text("title"); got != "On Computable Numbers" {
		t.Errorf("title = %q, want %q", got, "On Computable Numbers")
	}
	if got := fetched.Text("author"); got != "Alan Turing" {
		t.Errorf("author = %q, want %q", got, "Alan Turing")
	}
	if got := fetched.Int("points"); got != 100 {
		t.Errorf("points = %d, want 100", got)
	}
}

func TestGetMissingRowIsNotFound(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	_, err := Get(ctx, g, bookMeta, 12345)
	if !IsNotFound(err) {
		t.Errorf("Get on missing pk: got %v, want not-found error", err)
	}
}

func TestInsertsAssignFreshPKs(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	seen := make(map[int64]bool)
	for i := 0; i < 3; i++ {
		r := mustNew(t, bookMeta, map[string]any{"title": "t", "author": "a", "points": i})
		if err := r.Save(ctx, g); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		pk, _ := r.PK()
		if seen[pk] {
			t.Errorf("pk %d assigned twice", pk)
		}
		seen[pk] = true
	}
}

func TestUpdateThenFetchReflectsNewValues(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	r := mustNew(t, bookMeta, map[string]any{"title": "Draft", "author": "Anon", "points": 0})
	if err := r.Save(ctx, g); err != nil {
		t.Fatalf("insert: %v", err)
	}
	pk, _ := r.PK()

	if err := r.SetField("title", "Final"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := r.Save(ctx, g); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !r.InDB() {
		t.Error("update must not unbind the record")
	}
	if newPK, _ := r.PK(); newPK != pk {
		t.Errorf("update changed pk from %d to %d", pk, newPK)
	}

	fetched, err := Get(ctx, g, bookMeta, pk)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := fetched.Text("title"); got != "Final" {
		t.Errorf("title after update = %q, want %q", got, "Final")
	}
}

func TestUpdateOfVanishedRowIsNotFound(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	r := mustNew(t, bookMeta, map[string]any{"title": "Ghost", "author": "x", "points": 1})
	if err := r.Save(ctx, g); err != nil {
		t.Fatalf("insert: %v", err)
	}
	pk, _ := r.PK()

	// Simulate a concurrent delete behind the record's back.
	if _, err := g.Exec(ctx, `DELETE FROM "book" WHERE "pk" = ?`, pk); err != nil {
		t.Fatalf("raw delete: %v", err)
	}

	err := r.Save(ctx, g)
	if !IsNotFound(err) {
		t.Errorf("update of vanished row: got %v, want not-found error", err)
	}
	// State is unchanged: still bound, pk untouched, so the caller decides.
	if !r.InDB() {
		t.Error("failed update must not change the bound flag")
	}
	if got, _ := r.PK(); got != pk {
		t.Errorf("failed update changed pk from %d to %d", pk, got)
	}
}

func TestDeleteDetachesAndGetFails(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	r := mustNew(t, bookMeta, map[string]any{"title": "Doomed", "author": "x", "points": 1})
	if err := r.Save(ctx, g); err != nil {
		t.Fatalf("insert: %v", err)
	}
	pk, _ := r.PK()

	if err := r.Delete(ctx, g); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if r.InDB() {
		t.Error("deleted record must be unbound")
	}
	if _, ok := r.PK(); ok {
		t.Error("deleted record must have no pk")
	}

	if _, err := Get(ctx, g, bookMeta, pk); !IsNotFound(err) {
		t.Errorf("get after delete: got %v, want not-found error", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	r := mustNew(t, bookMeta, map[string]any{"title": "Once", "author": "x", "points": 1})
	if err := r.Save(ctx, g); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := r.Delete(ctx, g); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	// Second delete is a guard-level no-op: no error, no statement.
	if err := r.Delete(ctx, g); err != nil {
		t.Errorf("second delete: got %v, want nil", err)
	}
}

func TestDeleteOnNeverSavedRecordIsNoOp(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	r := mustNew(t, bookMeta, map[string]any{"title": "Never", "author": "x", "points": 1})
	if err := r.Delete(ctx, g); err != nil {
		t.Errorf("delete on unsaved record: got %v, want nil", err)
	}
}

func TestWhereConjunction(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	rows := []map[string]any{
		{"title": "A", "author": "Knuth", "points": 10},
		{"title": "B", "author": "Knuth", "points": 20},
		{"title": "C", "author": "Dijkstra", "points": 10},
	}
	for _, fields := range rows {
		if err := mustNew(t, bookMeta, fields).Save(ctx, g); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	matches, err := Where(ctx, g, bookMeta, map[string]any{"author": "Knuth", "points": 10})
	if err != nil {
		t.Fatalf("where: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if got := matches[0].Text("title"); got != "A" {
		t.Errorf("matched title = %q, want %q", got, "A")
	}
	if !matches[0].InDB() {
		t.Error("where results must be bound")
	}
}

func TestWhereNoCriteriaIsInvalid(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	if _, err := Where(ctx, g, bookMeta, nil); !IsInvalidQuery(err) {
		t.Errorf("where with nil criteria: got %v, want invalid query error", err)
	}
	if _, err := Where(ctx, g, bookMeta, map[string]any{}); !IsInvalidQuery(err) {
		t.Errorf("where with empty criteria: got %v, want invalid query error", err)
	}
}

func TestWhereUndeclaredColumnIsInvalid(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	_, err := Where(ctx, g, bookMeta, map[string]any{"publisher": "x"})
	if !IsInvalidQuery(err) {
		t.Errorf("where with undeclared column: got %v, want invalid query error", err)
	}
}

func TestAllDefaultOrder(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	for _, title := range []string{"zebra", "Apple", "mango"} {
		if err := mustNew(t, bookMeta, map[string]any{"title": title, "author": "x", "points": 0}).Save(ctx, g); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := All(ctx, g, bookMeta, nil)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	got := make([]string, len(all))
	for i, r := range all {
		got[i] = r.Text("title")
	}
	// Default order is by title, case-insensitively.
	want := []string{"Apple", "mango", "zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("all() order = %v, want %v", got, want)
		}
	}
}

func TestAllExplicitDescendingOrder(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	for i, title := range []string{"low", "high", "mid"} {
		points := []int{1, 99, 50}[i]
		if err := mustNew(t, bookMeta, map[string]any{"title": title, "author": "x", "points": points}).Save(ctx, g); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := All(ctx, g, bookMeta, []string{"-points"})
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	var got []int64
	for _, r := range all {
		got = append(got, r.Int("points"))
	}
	for i := 1; i < len(got); i++ {
		if got[i] > got[i-1] {
			t.Fatalf("points not descending: %v", got)
		}
	}
}

func TestAllUndeclaredOrderIsInvalid(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	_, err := All(ctx, g, bookMeta, []string{"publisher"})
	if !IsInvalidQuery(err) {
		t.Errorf("all with undeclared order: got %v, want invalid query error", err)
	}
}

func TestConstraintViolationSurfacesAsStoreError(t *testing.T) {
	ctx := context.Background()
	g := openEngineDB(t)

	schema := `CREATE TABLE chapter (
		pk INTEGER PRIMARY KEY AUTOINCREMENT,
		book_pk INTEGER NOT NULL,
		FOREIGN KEY (book_pk) REFERENCES book (pk)
	)`
	if _, err := g.ExecCommit(ctx, schema); err != nil {
		t.Fatalf("create table: %v", err)
	}

	chapterMeta := &Meta{Table: "chapter", Columns: []string{"book_pk"}}
	r := mustNew(t, chapterMeta, map[string]any{"book_pk": 4242})
	err := r.Save(ctx, g)
	if !IsStore(err) {
		t.Errorf("fk violation on insert: got %v, want store error", err)
	}
	if r.InDB() {
		t.Error("failed insert must leave the record unbound")
	}
}
