package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/markbook/markbook/db"
	"github.com/markbook/markbook/gradebook"
)

// withGateway opens the store, runs fn, and closes the gateway, committing
// any writes fn left pending.
func withGateway(opts options, fn func(ctx context.Context, g *db.DB) error) error {
	ctx := context.Background()
	g, err := db.Open(ctx, storeURL(opts), logger(opts))
	if err != nil {
		return err
	}

	runErr := fn(ctx, g)
	if closeErr := g.Close(); runErr == nil {
		runErr = closeErr
	}
	return runErr
}

func initCmd(opts options) error {
	return withGateway(opts, func(ctx context.Context, g *db.DB) error {
		if err := gradebook.Bootstrap(ctx, g); err != nil {
			return err
		}
		fmt.Printf("initialized gradebook at %s\n", storeURL(opts))
		return nil
	})
}

func studentsCmd(opts options) error {
	return withGateway(opts, func(ctx context.Context, g *db.DB) error {
		students, err := gradebook.Students(ctx, g, nil)
		if err != nil {
			return err
		}
		for _, s := range students {
			pk, _ := s.PK()
			alias := s.Text("alias")
			if alias != "" {
				alias = " (" + alias + ")"
			}
			fmt.Printf("%3d  %s%s\n", pk, s.FullName(), alias)
		}
		return nil
	})
}

func assignmentsCmd(opts options) error {
	return withGateway(opts, func(ctx context.Context, g *db.DB) error {
		assignments, err := gradebook.Assignments(ctx, g, nil)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			pk, _ := a.PK()
			fmt.Printf("%3d  %-30s due %s  %d points\n",
				pk, a.Text("name"), a.Text("due_date"), a.Int("points"))
		}
		return nil
	})
}

func gradesCmd(opts options, studentArg string) error {
	pk, err := strconv.ParseInt(studentArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid student pk %q", studentArg)
	}

	return withGateway(opts, func(ctx context.Context, g *db.DB) error {
		student, err := gradebook.GetStudent(ctx, g, pk)
		if err != nil {
			return err
		}
		grades, err := student.Grades(ctx, g)
		if err != nil {
			return err
		}

		fmt.Printf("grades for %s:\n", student.FullName())
		for _, grade := range grades {
			assignment, err := gradebook.GetAssignment(ctx, g, grade.Int("assignment_pk"))
			if err != nil {
				return err
			}
			comment := grade.Text("comment")
			if comment != "" {
				comment = "  # " + comment
			}
			fmt.Printf("  %-30s %d/%d%s\n",
				assignment.Text("name"), grade.Int("points"), assignment.Int("points"), comment)
		}
		return nil
	})
}
