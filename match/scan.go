package match

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/happyhackingspace/govdocs/internal/textutil"
)

// NoHeaderRow disables header capture for a reference document.
const NoHeaderRow = -1

// Defaults for FDLP disposal list exports.
const (
	DefaultSkipRows           = 1
	DefaultSudocColumn        = 2
	DefaultClassificationType = "SuDoc"
	DefaultTypeColumn         = 1
	DefaultHeaderRow          = 0
)

// ReferenceDoc describes the layout of one FDLP reference document.
// Row and column indexes are 0-based.
type ReferenceDoc struct {
	Path string

	// SkipRows is the number of leading rows that never hold content.
	SkipRows int

	// SudocColumn holds the SuDoc number.
	SudocColumn int

	// ClassificationType, when non-empty, restricts matching to rows whose
	// TypeColumn value equals it exactly.
	ClassificationType string
	TypeColumn         int

	// HeaderRow is captured as the document header and never matched.
	// NoHeaderRow means the document has no header.
	HeaderRow int
}

// DefaultReferenceDoc returns the layout of a standard FDLP export at path.
func DefaultReferenceDoc(path string) ReferenceDoc {
	return ReferenceDoc{
		Path:               path,
		SkipRows:           DefaultSkipRows,
		SudocColumn:        DefaultSudocColumn,
		ClassificationType: DefaultClassificationType,
		TypeColumn:         DefaultTypeColumn,
		HeaderRow:          DefaultHeaderRow,
	}
}

// Row is a reference-document row with its 0-based position in the file.
type Row struct {
	Number int
	Values []string
}

// DocumentMatches holds what one reference document contributed to a run.
type DocumentMatches struct {
	Doc    ReferenceDoc
	Header []string // nil when the document has no header row

	// RowsOfInterest are the rows whose SuDoc number is in the weeding set,
	// in file order.
	RowsOfInterest []Row

	Scanned  int // rows read, header included
	Skipped  int // leading rows discarded
	Filtered int // rows rejected by the classification type filter
}

// Matches accumulates results across every document scanned in one run.
type Matches struct {
	Documents []*DocumentMatches

	// RowNumbers is the set of weeding-set row numbers implicated by any match.
	RowNumbers map[int]struct{}
}

// NewMatches returns an empty accumulator.
func NewMatches() *Matches {
	return &Matches{RowNumbers: make(map[int]struct{})}
}

// Matched reports whether a weeding-set row number was implicated by a match.
func (m *Matches) Matched(rowNumber int) bool {
	_, ok := m.RowNumbers[rowNumber]
	return ok
}

// SortedRowNumbers returns RowNumbers in ascending order.
func (m *Matches) SortedRowNumbers() []int {
	out := make([]int, 0, len(m.RowNumbers))
	for n := range m.RowNumbers {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Scan walks rows of the reference document doc and records every row whose
// normalized SuDoc number is in idx. Results are added to acc; earlier
// documents in acc are left as they are.
func Scan(doc ReferenceDoc, rows [][]string, idx *Index, acc *Matches) error {
	dm := &DocumentMatches{Doc: doc}
	acc.Documents = append(acc.Documents, dm)

	for i, row := range rows {
		dm.Scanned++

		if doc.HeaderRow != NoHeaderRow && i == doc.HeaderRow {
			dm.Header = row
			continue
		}
		if i < doc.SkipRows {
			dm.Skipped++
			continue
		}

		if doc.ClassificationType != "" {
			kind, ok := textutil.Column(row, doc.TypeColumn)
			if !ok {
				return shortRow(doc, i, row, doc.TypeColumn)
			}
			if kind != doc.ClassificationType {
				dm.Filtered++
				continue
			}
		}

		raw, ok := textutil.Column(row, doc.SudocColumn)
		if !ok {
			return shortRow(doc, i, row, doc.SudocColumn)
		}
		number := Normalize(raw)
		if !idx.Contains(number) {
			continue
		}

		rowNumbers, err := idx.ParseRowNumbers(number)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", doc.Path, i, err)
		}
		dm.RowsOfInterest = append(dm.RowsOfInterest, Row{Number: i, Values: row})
		for _, n := range rowNumbers {
			acc.RowNumbers[n] = struct{}{}
		}
	}

	slog.Debug("Reference document scanned",
		"path", doc.Path,
		"rows", dm.Scanned,
		"skipped", dm.Skipped,
		"filtered", dm.Filtered,
		"matches", len(dm.RowsOfInterest),
	)
	return nil
}

func shortRow(doc ReferenceDoc, i int, row []string, col int) error {
	return fmt.Errorf("%w: %s row %d has %d columns, need column index %d",
		ErrSchema, doc.Path, i, len(row), col)
}

// Partition splits the weeding set into rows implicated by rowNumbers and
// the rest. Both partitions keep file order and together hold every row once.
func Partition(idx *Index, rowNumbers map[int]struct{}) (matched, notMatched [][]string) {
	for _, e := range idx.Entries() {
		if _, ok := rowNumbers[e.RowNumber]; ok {
			matched = append(matched, e.Values)
		} else {
			notMatched = append(notMatched, e.Values)
		}
	}
	return matched, notMatched
}
