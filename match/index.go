package match

import (
	"fmt"
	"strconv"

	"github.com/happyhackingspace/govdocs/internal/textutil"
)

// FirstRowNumber is the row number of the first content row. Row 1 is the header.
const FirstRowNumber = 2

// Entry is one weeding-set row.
type Entry struct {
	RowNumber int
	Values    []string
}

// Index is the in-memory load of a weeding set. It is read-only once built.
type Index struct {
	Header []string
	Column int // position of the SuDoc number column in Header

	entries []Entry
	byRow   map[int]int       // row number -> position in entries
	numbers map[string]string // normalized number -> comma-joined row numbers
}

// BuildIndex indexes rows under header, keying each row by the normalized
// value of the column named column. Rows are numbered from FirstRowNumber in
// the order given. Every row is kept, including rows that share a number.
func BuildIndex(header []string, rows [][]string, column string) (*Index, error) {
	col := textutil.IndexOf(header, column)
	if col < 0 {
		return nil, fmt.Errorf("%w: column %q not found in header %q", ErrSchema, column, header)
	}

	idx := &Index{
		Header:  header,
		Column:  col,
		entries: make([]Entry, 0, len(rows)),
		byRow:   make(map[int]int, len(rows)),
		numbers: make(map[string]string, len(rows)),
	}

	for i, row := range rows {
		rowNumber := FirstRowNumber + i
		raw, ok := textutil.Column(row, col)
		if !ok {
			return nil, fmt.Errorf("%w: row %d has %d columns, %q is column %d",
				ErrSchema, rowNumber, len(row), column, col+1)
		}
		number := Normalize(raw)

		idx.byRow[rowNumber] = len(idx.entries)
		idx.entries = append(idx.entries, Entry{RowNumber: rowNumber, Values: row})
		idx.numbers[number] = textutil.AppendList(idx.numbers[number], strconv.Itoa(rowNumber))
	}

	return idx, nil
}

// Len returns the number of indexed rows.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns the indexed rows in file order.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Row returns the raw row with the given row number.
func (idx *Index) Row(rowNumber int) ([]string, bool) {
	i, ok := idx.byRow[rowNumber]
	if !ok {
		return nil, false
	}
	return idx.entries[i].Values, true
}

// Contains reports whether a normalized number is in the weeding set.
func (idx *Index) Contains(number string) bool {
	_, ok := idx.numbers[number]
	return ok
}

// RowNumbers returns the comma-joined row numbers recorded for a normalized
// number, in file order.
func (idx *Index) RowNumbers(number string) (string, bool) {
	list, ok := idx.numbers[number]
	return list, ok
}

// Numbers returns the number of distinct normalized SuDoc numbers.
func (idx *Index) Numbers() int {
	return len(idx.numbers)
}

// ParseRowNumbers parses the comma-joined row numbers stored for number.
func (idx *Index) ParseRowNumbers(number string) ([]int, error) {
	list, ok := idx.numbers[number]
	if !ok {
		return nil, fmt.Errorf("%w: SuDoc number %q is not in the weeding set", ErrLookup, number)
	}
	parts := textutil.SplitList(list)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: row number %q for %q: %v", ErrFormat, p, number, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Duplicates returns every normalized number shared by more than one row,
// mapped to its comma-joined row numbers.
func (idx *Index) Duplicates() map[string]string {
	out := make(map[string]string)
	for number, list := range idx.numbers {
		if len(textutil.SplitList(list)) > 1 {
			out[number] = list
		}
	}
	return out
}
