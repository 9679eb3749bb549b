// Package table implements the in-memory model for a per-date candidate
// table: an ordered header row followed by data rows, serialized as CSV.
//
// The header acts as a schema registry. Columns are only ever appended, so a
// name resolves to the same index for the life of the table, and annotation
// columns added after creation never disturb the original data columns.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
)

// ErrEmptyHeader reports a table whose header row is missing or blank.
var ErrEmptyHeader = errors.New("table has no header row")

// Table holds an ordered header plus data rows.
//
// Rows are addressed 0-based here; the 1-based row numbering used at the
// review API boundary is the caller's concern. Not safe for concurrent
// mutation; the review store serializes writers.
type Table struct {
	headers []string
	index   map[string]int // header name -> column index
	rows    [][]string
}

// New builds a table from a header row. Returns [ErrEmptyHeader] if headers
// is empty.
func New(headers []string) (*Table, error) {
	if len(headers) == 0 {
		return nil, ErrEmptyHeader
	}

	t := &Table{
		headers: slices.Clone(headers),
		index:   make(map[string]int, len(headers)),
	}

	for i, h := range headers {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	return t, nil
}

// ReadCSV parses a complete CSV document into a table. The first record is
// the header; ragged data rows are tolerated (shorter rows read as empty
// cells, see [Table.Cell]).
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	if len(records) == 0 || len(records[0]) == 0 {
		return nil, ErrEmptyHeader
	}

	t, err := New(records[0])
	if err != nil {
		return nil, err
	}

	t.rows = records[1:]

	return t, nil
}

// ReadCSVBytes parses an in-memory CSV document. See [ReadCSV].
func ReadCSVBytes(data []byte) (*Table, error) {
	return ReadCSV(bytes.NewReader(data))
}

// WriteCSV serializes the table. Every row is padded to the current header
// width so the output is rectangular even after columns were appended.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	width := len(t.headers)

	for i, row := range t.rows {
		padded := row
		if len(row) < width {
			padded = make([]string, width)
			copy(padded, row)
		}

		if err := cw.Write(padded); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// EncodeCSV serializes the table to a byte slice. See [Table.WriteCSV].
func (t *Table) EncodeCSV() ([]byte, error) {
	var buf bytes.Buffer

	err := t.WriteCSV(&buf)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Headers returns a copy of the header row.
func (t *Table) Headers() []string {
	return slices.Clone(t.headers)
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	idx, ok := t.index[name]
	if !ok {
		return -1
	}

	return idx
}

// EnsureColumn returns the index of the named column, appending a new one at
// the next free index if it does not exist yet. Idempotent: a second call
// with the same name returns the same index and creates nothing.
func (t *Table) EnsureColumn(name string) int {
	if idx, ok := t.index[name]; ok {
		return idx
	}

	idx := len(t.headers)
	t.headers = append(t.headers, name)
	t.index[name] = idx

	return idx
}

// RowCount returns the number of data rows (header excluded).
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Row returns a copy of the data row at index (0-based), padded to header
// width. Returns nil if index is out of range.
func (t *Table) Row(index int) []string {
	if index < 0 || index >= len(t.rows) {
		return nil
	}

	row := make([]string, len(t.headers))
	copy(row, t.rows[index])

	return row
}

// Cell returns the value at (row, col), both 0-based. Cells beyond a ragged
// row's width, or out-of-range coordinates, read as "".
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.rows) || col < 0 {
		return ""
	}

	r := t.rows[row]
	if col >= len(r) {
		return ""
	}

	return r[col]
}

// SetCell stores val at (row, col), padding the row with empty cells if it
// is shorter than col+1. Row must be in range; columns must already exist in
// the header.
func (t *Table) SetCell(row, col int, val string) error {
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("row %d out of range (have %d rows)", row, len(t.rows))
	}

	if col < 0 || col >= len(t.headers) {
		return fmt.Errorf("column %d out of range (have %d columns)", col, len(t.headers))
	}

	if col >= len(t.rows[row]) {
		grown := make([]string, col+1)
		copy(grown, t.rows[row])
		t.rows[row] = grown
	}

	t.rows[row][col] = val

	return nil
}

// AppendRow adds a data row at the next index. The row is cloned; it may be
// shorter than the header (missing cells read as "").
func (t *Table) AppendRow(row []string) {
	t.rows = append(t.rows, slices.Clone(row))
}
