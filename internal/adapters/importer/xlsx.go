package importer

import (
	"fmt"
	"io"

	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// XLSXParser reads a roster from the first sheet of a workbook.
type XLSXParser struct {
	cfg config
}

// NewXLSXParser creates an XLSX parser.
func NewXLSXParser(opts ...Option) *XLSXParser {
	return &XLSXParser{cfg: newConfig(opts)}
}

// Parse reads the first sheet of the workbook in r. The first non-blank
// row is the header.
func (p *XLSXParser) Parse(r io.Reader) ([]model.Athlete, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck // read only

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	start := 0
	for start < len(all) && blank(all[start]) {
		start++
	}
	if start == len(all) {
		return nil, ErrEmptyInput
	}

	cols, err := findColumns(all[start])
	if err != nil {
		return nil, err
	}
	rows := all[start+1:]
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = start + i + 2
	}
	return buildAthletes(p.cfg, cols, len(all[start]), rows, lines)
}
