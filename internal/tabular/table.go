// Package tabular turns uploaded CSV and XLSX files into normalized tables.
package tabular

import (
	"commute-route-service/internal/domain"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"
)

// Table is a header plus data rows. Every row has exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// NormalizeColumn trims, lowercases and replaces spaces with underscores,
// so "Employee Number " and "employee_number" name the same column.
func NormalizeColumn(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// Read decodes an upload by its file extension. Anything other than .csv or
// .xlsx is rejected with domain.ErrUnsupportedFileType before reading r.
func Read(filename string, r io.Reader) (Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return Table{}, fmt.Errorf("read table %q: %w", filename, domain.ErrUnsupportedFileType)
	}
}

func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w: %v", domain.ErrMalformedTable, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}

	return newTable(records)
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("read xlsx: %w: %v", domain.ErrMalformedTable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("read xlsx: %w: workbook has no sheets", domain.ErrMalformedTable)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read xlsx sheet %q: %w: %v", sheets[0], domain.ErrMalformedTable, err)
	}

	return newTable(rows)
}

// newTable normalizes the header, pads short rows and drops blank ones.
func newTable(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, fmt.Errorf("%w: no header row", domain.ErrMalformedTable)
	}

	header := make([]string, len(records[0]))
	seen := make(map[string]int, len(header))
	for i, h := range records[0] {
		name := NormalizeColumn(h)
		if name == "" {
			name = "unnamed_" + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		header[i] = name
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (t Table) Has(column string) bool {
	for _, h := range t.Header {
		if h == column {
			return true
		}
	}
	return false
}

// Require returns a *domain.MissingColumnError naming the first absent column.
func (t Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.Has(c) {
			return &domain.MissingColumnError{Name: c}
		}
	}
	return nil
}

// Decode stores the rows into v, a pointer to a slice of structs with csv tags
// naming normalized columns. Columns without a matching field are ignored.
func (t Table) Decode(v any) error {
	dec, err := csvutil.NewDecoder(&rowReader{rows: t.Rows}, t.Header...)
	if err != nil {
		return fmt.Errorf("decode table: %w", err)
	}

	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode table: %w: %v", domain.ErrMalformedTable, err)
	}
	return nil
}

// rowReader feeds already-parsed rows to csvutil.
type rowReader struct {
	rows [][]string
	next int
}

func (r *rowReader) Read() ([]string, error) {
	if r.next >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.next]
	r.next++
	return row, nil
}
