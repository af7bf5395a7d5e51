// Package tabular reads the CSV and spreadsheet exports into string frames and
// coerces their cells into typed values.
package tabular

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andresuchdata/tabloide-insight/internal/schema"
)

// Frame is a header plus string rows. Rows shorter than the header read as
// empty cells.
type Frame struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

func NewFrame(header []string, rows [][]string) *Frame {
	f := &Frame{Header: header, Rows: rows}
	f.reindex()
	return f
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.Header))
	for i, h := range f.Header {
		f.index[h] = i
	}
}

func (f *Frame) Len() int { return len(f.Rows) }

// Col returns the position of a column, or -1.
func (f *Frame) Col(name string) int {
	if i, ok := f.index[name]; ok {
		return i
	}
	return -1
}

// Get returns the cell at row i for the named column.
func (f *Frame) Get(i int, name string) string {
	c := f.Col(name)
	if c < 0 || i < 0 || i >= len(f.Rows) {
		return ""
	}
	row := f.Rows[i]
	if c >= len(row) {
		return ""
	}
	return row[c]
}

// Select keeps only the table's columns, in table order. Any missing column
// is an error naming all of them.
func (f *Frame) Select(t schema.Table) (*Frame, error) {
	if missing := t.Missing(f.Header); len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing columns %s", t.Name, strings.Join(missing, ", "))
	}

	pos := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		pos[i] = f.index[c]
	}

	rows := make([][]string, 0, len(f.Rows))
	for _, row := range f.Rows {
		out := make([]string, len(pos))
		for i, p := range pos {
			if p < len(row) {
				out[i] = row[p]
			}
		}
		rows = append(rows, out)
	}
	return NewFrame(append([]string{}, t.Columns...), rows), nil
}

// dedupeHeader renames repeated names the way spreadsheet tools do: the
// first keeps its name, later ones become "X.1", "X.2" and so on.
func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}

	for i, h := range header {
		n, dup := seen[h]
		seen[h] = n + 1
		if !dup {
			out[i] = h
			continue
		}
		name := h + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			name = h + "." + strconv.Itoa(n)
		}
		seen[h] = n + 1
		taken[name] = true
		out[i] = name
	}
	return out
}
