// Package inifile parses the small INI files markbook uses for
// configuration. Only sections, key=value pairs, and #/; comments are
// supported; that is all a markbook.ini ever contains.
package inifile

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// File is a parsed INI file.
type File struct {
	Sections []Section
}

// Section is a named section with its key-value pairs in file order.
type Section struct {
	Name   string
	Values []KeyValue
}

// KeyValue is one key=value pair.
type KeyValue struct {
	Key   string
	Value string
}

// Parse reads an INI file from the given reader. Keys and section names are
// lowercased; lines before the first section header are ignored.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	var current *Section

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.ToLower(strings.Trim(line, "[]"))
			f.Sections = append(f.Sections, Section{Name: name})
			current = &f.Sections[len(f.Sections)-1]
			continue
		}

		if current == nil {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		current.Values = append(current.Values, KeyValue{
			Key:   strings.ToLower(strings.TrimSpace(key)),
			Value: strings.TrimSpace(value),
		})
	}

	return f, scanner.Err()
}

// ParseFile reads and parses an INI file from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Get returns the last value for a key in a section, or "" when the section
// or key is absent.
func (f *File) Get(section, key string) string {
	section = strings.ToLower(section)
	key = strings.ToLower(key)

	value := ""
	for i := range f.Sections {
		if f.Sections[i].Name != section {
			continue
		}
		for _, kv := range f.Sections[i].Values {
			if kv.Key == key {
				value = kv.Value
			}
		}
	}
	return value
}
