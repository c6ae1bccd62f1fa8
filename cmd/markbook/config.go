package main

import (
	"log/slog"
	"os"

	"github.com/markbook/markbook/inifile"
	"github.com/markbook/markbook/logging"
)

const (
	// ConfigFile is looked up in the working directory.
	ConfigFile = "markbook.ini"
	// DefaultStoreURL is used when neither -db nor markbook.ini names one.
	DefaultStoreURL = "gradebook.db"
)

// storeURL resolves the store location: the -db flag wins, then the [db]
// section of markbook.ini, then the default database file.
func storeURL(opts options) string {
	if opts.storeURL != "" {
		return opts.storeURL
	}
	if _, err := os.Stat(ConfigFile); err == nil {
		if ini, err := inifile.ParseFile(ConfigFile); err == nil {
			if url := ini.Get("db", "url"); url != "" {
				return url
			}
		}
	}
	return DefaultStoreURL
}

// logger returns the statement logger for the run: the pretty dev logger
// with -v, otherwise nothing.
func logger(opts options) *slog.Logger {
	if opts.verbose {
		return logging.DevLogger
	}
	return logging.Discard
}
