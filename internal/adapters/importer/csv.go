package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/okian/trackmeet/internal/domain/model"
)

// CSVParser reads comma separated rosters with a header row.
type CSVParser struct {
	cfg config
}

// NewCSVParser creates a CSV parser.
func NewCSVParser(opts ...Option) *CSVParser {
	return &CSVParser{cfg: newConfig(opts)}
}

// Parse reads every row of r. Blank lines are skipped.
func (p *CSVParser) Parse(r io.Reader) ([]model.Athlete, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		header []string
		rows   [][]string
		lines  []int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRow, err)
		}
		if header == nil {
			header = record
			continue
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}
	if header == nil {
		return nil, ErrEmptyInput
	}

	cols, err := findColumns(header)
	if err != nil {
		return nil, err
	}
	return buildAthletes(p.cfg, cols, len(header), rows, lines)
}

// ParseCSV parses CSV text with the default options.
func ParseCSV(text string, opts ...Option) ([]model.Athlete, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	return NewCSVParser(opts...).Parse(strings.NewReader(text))
}
