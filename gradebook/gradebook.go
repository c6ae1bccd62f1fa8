// Package gradebook declares the gradebook entities — Student, Assignment,
// Grade — as record metadata plus a few derived accessors. The entities
// contain no SQL of their own; every operation comes from the record engine.
package gradebook

import (
	"context"
	_ "embed"
	"strings"

	"github.com/markbook/markbook/db"
	"github.com/markbook/markbook/record"
)

//go:embed schema.sql
var schemaSQL string

//go:embed testdata.sql
var testdataSQL string

// StudentMeta describes the student table.
var StudentMeta = &record.Meta{
	Table:   "student",
	Columns: []string{"first_name", "last_name", "alias"},
	Order:   []string{"first_name", "last_name", "pk"},
}

// AssignmentMeta describes the assignment table. Newest due date first.
var AssignmentMeta = &record.Meta{
	Table:   "assignment",
	Columns: []string{"name", "due_date", "points"},
	Order:   []string{"-due_date", "name", "pk"},
}

// GradeMeta describes the grade table.
var GradeMeta = &record.Meta{
	Table:   "grade",
	Columns: []string{"student_pk", "assignment_pk", "points", "comment"},
	Order:   []string{"pk"},
}

// Bootstrap creates the gradebook schema and loads the seed data. Run it
// once against a fresh store; the engine assumes an already-migrated store.
func Bootstrap(ctx context.Context, g *db.DB) error {
	if err := g.ExecScript(ctx, schemaSQL); err != nil {
		return err
	}
	return g.ExecScript(ctx, testdataSQL)
}

// Student is one row of the student table.
type Student struct {
	*record.Record
}

// NewStudent creates an unsaved student from column values.
func NewStudent(fields map[string]any) (*Student, error) {
	r, err := record.New(StudentMeta, fields)
	if err != nil {
		return nil, err
	}
	return &Student{r}, nil
}

// GetStudent fetches one student by primary key.
func GetStudent(ctx context.Context, g *db.DB, pk int64) (*Student, error) {
	r, err := record.Get(ctx, g, StudentMeta, pk)
	if err != nil {
		return nil, err
	}
	return &Student{r}, nil
}

// Students lists every student, using the default name ordering when order
// is nil.
func Students(ctx context.Context, g *db.DB, order []string) ([]*Student, error) {
	rs, err := record.All(ctx, g, StudentMeta, order)
	if err != nil {
		return nil, err
	}
	students := make([]*Student, len(rs))
	for i, r := range rs {
		students[i] = &Student{r}
	}
	return students, nil
}

// FullName returns the student's first and last name joined, trimmed when
// either part is empty.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.Text("first_name") + " " + s.Text("last_name"))
}

// Grades returns the student's grades, found by filtering the grade table on
// this student's primary key.
func (s *Student) Grades(ctx context.Context, g *db.DB) ([]*Grade, error) {
	pk, ok := s.PK()
	if !ok {
		return nil, record.InvalidQueryf("student is unsaved and has no grades")
	}
	return gradesWhere(ctx, g, map[string]any{"student_pk": pk})
}

// Assignment is one row of the assignment table.
type Assignment struct {
	*record.Record
}

// NewAssignment creates an unsaved assignment from column values.
func NewAssignment(fields map[string]any) (*Assignment, error) {
	r, err := record.New(AssignmentMeta, fields)
	if err != nil {
		return nil, err
	}
	return &Assignment{r}, nil
}

// GetAssignment fetches one assignment by primary key.
func GetAssignment(ctx context.Context, g *db.DB, pk int64) (*Assignment, error) {
	r, err := record.Get(ctx, g, AssignmentMeta, pk)
	if err != nil {
		return nil, err
	}
	return &Assignment{r}, nil
}

// Assignments lists every assignment, newest due date first by default.
func Assignments(ctx context.Context, g *db.DB, order []string) ([]*Assignment, error) {
	rs, err := record.All(ctx, g, AssignmentMeta, order)
	if err != nil {
		return nil, err
	}
	assignments := make([]*Assignment, len(rs))
	for i, r := range rs {
		assignments[i] = &Assignment{r}
	}
	return assignments, nil
}

// Grades returns every grade recorded against this assignment.
func (a *Assignment) Grades(ctx context.Context, g *db.DB) ([]*Grade, error) {
	pk, ok := a.PK()
	if !ok {
		return nil, record.InvalidQueryf("assignment is unsaved and has no grades")
	}
	return gradesWhere(ctx, g, map[string]any{"assignment_pk": pk})
}

// Grade is one row of the grade table. The table metadata alone is enough
// for the engine to give it working operations.
type Grade struct {
	*record.Record
}

// NewGrade creates an unsaved grade from column values.
func NewGrade(fields map[string]any) (*Grade, error) {
	r, err := record.New(GradeMeta, fields)
	if err != nil {
		return nil, err
	}
	return &Grade{r}, nil
}

// GetGrade fetches one grade by primary key.
func GetGrade(ctx context.Context, g *db.DB, pk int64) (*Grade, error) {
	r, err := record.Get(ctx, g, GradeMeta, pk)
	if err != nil {
		return nil, err
	}
	return &Grade{r}, nil
}

// GradesWhere filters the grade table on exact-match criteria.
func GradesWhere(ctx context.Context, g *db.DB, criteria map[string]any) ([]*Grade, error) {
	return gradesWhere(ctx, g, criteria)
}

func gradesWhere(ctx context.Context, g *db.DB, criteria map[string]any) ([]*Grade, error) {
	rs, err := record.Where(ctx, g, GradeMeta, criteria)
	if err != nil {
		return nil, err
	}
	grades := make([]*Grade, len(rs))
	for i, r := range rs {
		grades[i] = &Grade{r}
	}
	return grades, nil
}
