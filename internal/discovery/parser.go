package discovery

import (
	"fmt"
	"io"
	"os"
	"strings"

	"tat/internal/config"
	"tat/internal/domain"
)

const (
	quote     = '"'
	delimiter = ','
)

// Parser parses case tables into test cases
type Parser struct {
	columns     config.Columns
	minColumns  int
	headerLabel string
}

// NewParser creates a new Parser using the configured column mapping
func NewParser(cfg *config.Config) *Parser {
	return &Parser{
		columns:     cfg.Columns,
		minColumns:  cfg.MinColumns,
		headerLabel: cfg.HeaderLabel,
	}
}

// Load reads the case table at path.
// A table without data rows yields an empty slice, not an error.
func (p *Parser) Load(path string) ([]domain.TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ParseRows(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing file %s: %w", path, err)
	}

	cases := make([]domain.TestCase, 0, len(rows))
	for _, row := range rows {
		if !p.accept(row) {
			continue
		}
		cases = append(cases, p.toCase(row))
	}
	return cases, nil
}

// LoadAll loads every table in order and concatenates the cases
func (p *Parser) LoadAll(paths []string) ([]domain.TestCase, error) {
	var all []domain.TestCase
	for _, path := range paths {
		cases, err := p.Load(path)
		if err != nil {
			return nil, err
		}
		all = append(all, cases...)
	}
	return all, nil
}

// accept skips the header and short rows
func (p *Parser) accept(row []string) bool {
	return len(row) > p.minColumns && row[0] != p.headerLabel
}

func (p *Parser) toCase(row []string) domain.TestCase {
	return domain.TestCase{
		ID:       column(row, p.columns.ID),
		Scenario: column(row, p.columns.Scenario),
		Input:    column(row, p.columns.Input),
		Expected: column(row, p.columns.Expected),
		Category: column(row, p.columns.Category),
	}
}

func column(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParseRows splits delimited text into rows of trimmed fields.
//
// Quoted fields may hold delimiters, raw line terminators and escaped quotes ("").
// A quote that is never closed absorbs the rest of the input into one field.
func ParseRows(r io.Reader) ([][]string, error) {
	return parseRows(r, true)
}

// ParseRowsRaw is ParseRows without field trimming
func ParseRowsRaw(r io.Reader) ([][]string, error) {
	return parseRows(r, false)
}

func parseRows(r io.Reader, trim bool) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	content := []rune(string(data))

	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		value := field.String()
		if trim {
			value = strings.TrimSpace(value)
		}
		row = append(row, value)
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(content); i++ {
		ch := content[i]

		switch {
		case ch == quote:
			if inQuotes && i+1 < len(content) && content[i+1] == quote {
				field.WriteRune(quote)
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == delimiter && !inQuotes:
			endField()
		case (ch == '\r' || ch == '\n') && !inQuotes:
			if ch == '\r' && i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			endRow()
		default:
			field.WriteRune(ch)
		}
	}

	// Last row without a trailing newline
	if len(row) > 0 || field.Len() > 0 {
		endRow()
	}

	return rows, nil
}
