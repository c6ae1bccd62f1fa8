package main

import (
	"fmt"
	"os"
)

const usage = `markbook - a metadata-driven gradebook record mapper

Usage:
  markbook [options] <command> [arguments]

Commands:
  init                 Create the store and load the gradebook schema and seed data
  students             List students in default name order
  assignments          List assignments, newest due date first
  grades <student-pk>  List one student's grades

Options:
  -db <url>     Store URL (default: markbook.ini [db] url, then gradebook.db)
  -v            Log every executed statement
  -h, --help    Show this help message
`

func main() {
	opts, args := parseArgs(os.Args[1:])

	if len(args) == 0 {
		fmt.Print(usage)
		os.Exit(0)
	}

	var err error
	switch cmd := args[0]; cmd {
	case "-h", "--help", "help":
		fmt.Print(usage)

	case "init":
		err = initCmd(opts)

	case "students":
		err = studentsCmd(opts)

	case "assignments":
		err = assignmentsCmd(opts)

	case "grades":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "error: 'markbook grades' requires a student pk")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: markbook grades <student-pk>")
			os.Exit(1)
		}
		err = gradesCmd(opts, args[1])

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command: %s\n", cmd)
		fmt.Fprintln(os.Stderr, "Run 'markbook --help' for usage.")
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	storeURL string // from -db; empty means "consult markbook.ini"
	verbose  bool
}

// parseArgs splits leading options from the command and its arguments.
func parseArgs(argv []string) (options, []string) {
	var opts options
	var args []string

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "-db":
			if i+1 < len(argv) {
				opts.storeURL = argv[i+1]
				i++
			}
		case "-v":
			opts.verbose = true
		default:
			args = append(args, argv[i:]...)
			return opts, args
		}
	}
	return opts, args
}
