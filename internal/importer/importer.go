// Package importer reads uploaded spreadsheets. Request files become parser
// tables; provider price lists become catalog products.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Angeloac12/siigo-cotizador/internal/parser"
)

var (
	// ErrUnsupportedFormat is returned for extensions other than .xlsx and .csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMissingColumns is returned when a price list lacks code and name columns.
	ErrMissingColumns = errors.New("price list needs code and name columns")
)

// ReadTable reads an uploaded request file into a raw table. The first row is
// treated as the header row; interpretation is left to the table parser.
func ReadTable(r io.Reader, filename string) (*parser.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func readXLSX(r io.Reader) (*parser.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &parser.Table{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return tableFromRows(rows), nil
}

func readCSV(r io.Reader) (*parser.Table, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(buf)))
	reader.Comma = sniffDelimiter(string(buf))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return tableFromRows(rows), nil
}

// sniffDelimiter picks semicolon over comma when the first line favors it.
// Spanish-locale exports commonly use semicolons.
func sniffDelimiter(content string) rune {
	line := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func tableFromRows(rows [][]string) *parser.Table {
	if len(rows) == 0 {
		return &parser.Table{}
	}
	return &parser.Table{
		Headers: rows[0],
		Rows:    rows[1:],
	}
}
