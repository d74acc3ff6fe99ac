// Package importer reads athlete rosters from CSV text and XLSX workbooks.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/trackmeet/internal/domain/model"
)

// Column names recognized in the header row.
const (
	ColumnName       = "name"
	ColumnTier       = "tier"
	ColumnBestEvents = "bestevents"
)

// Parser turns a roster document into athletes with fresh ids. On any
// error no athletes are returned.
type Parser interface {
	Parse(r io.Reader) ([]model.Athlete, error)
}

// Option configures a parser.
type Option func(*config)

type config struct {
	newID func() string
}

// WithIDGenerator overrides how athlete ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func newConfig(opts []Option) config {
	c := config{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ForFile picks a parser from a file name or media type.
func ForFile(name string, opts ...Option) (Parser, error) {
	switch strings.ToLower(name) {
	case "text/csv", "text/plain":
		return NewCSVParser(opts...), nil
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return NewXLSXParser(opts...), nil
	}
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt":
		return NewCSVParser(opts...), nil
	case ".xlsx":
		return NewXLSXParser(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
}

type columns struct {
	name, tier, bestEvents int
}

func findColumns(header []string) (columns, error) {
	c := columns{name: -1, tier: -1, bestEvents: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case ColumnName:
			c.name = i
		case ColumnTier:
			c.tier = i
		case ColumnBestEvents:
			c.bestEvents = i
		}
	}
	if c.name < 0 || c.tier < 0 {
		return c, ErrMissingColumns
	}
	return c, nil
}

// buildAthletes converts data rows. lines holds the 1-based source line of
// each row for error messages. When bestEvents is the last column, extra
// unquoted fields are folded back into it, so "Jo,High,100m,200m" keeps
// both events.
func buildAthletes(cfg config, cols columns, width int, rows [][]string, lines []int) ([]model.Athlete, error) {
	out := make([]model.Athlete, 0, len(rows))
	for i, row := range rows {
		line := lines[i]
		if blank(row) {
			continue
		}

		name := cell(row, cols.name)
		tier, err := model.ParseTier(cell(row, cols.tier))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: unknown tier %q", ErrInvalidRow, line, cell(row, cols.tier))
		}

		best := cell(row, cols.bestEvents)
		if cols.bestEvents == width-1 && len(row) > width {
			best = strings.Join(trimAll(row[cols.bestEvents:]), ",")
		}

		a, err := model.NewAthlete(cfg.newID(), name, tier, best)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: missing name", ErrInvalidRow, line)
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, ErrEmptyInput
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
