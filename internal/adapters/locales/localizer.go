// Package locales serves the bot's string tables from embedded YAML files,
// one file per language named <code>.yaml.
package locales

import (
	"RelayBot/internal/core/ports"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed *.yaml
var embedded embed.FS

// Localizer is an immutable set of string tables.
type Localizer struct {
	tables map[string]map[string]string
}

var _ ports.Localizer = (*Localizer)(nil)

// Load reads the tables compiled into the binary.
func Load() (*Localizer, error) {
	return LoadFS(embedded)
}

// LoadFS reads every *.yaml file at the root of fsys.
func LoadFS(fsys fs.FS) (*Localizer, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}

	l := &Localizer{tables: make(map[string]map[string]string, len(files))}
	for _, name := range files {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		code := strings.TrimSuffix(path.Base(name), path.Ext(name))
		l.tables[code] = table
	}
	return l, nil
}

func (l *Localizer) Lookup(lang, key string) (string, bool) {
	table, ok := l.tables[lang]
	if !ok {
		return "", false
	}
	s, ok := table[key]
	return s, ok
}

// Languages returns the language codes in sorted order.
func (l *Localizer) Languages() []string {
	codes := make([]string, 0, len(l.tables))
	for code := range l.tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Has reports whether lang has a table.
func (l *Localizer) Has(lang string) bool {
	_, ok := l.tables[lang]
	return ok
}
