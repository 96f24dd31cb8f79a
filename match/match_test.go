package match

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weedingHeader = []string{"Document Number", "Title"}

func sampleIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := BuildIndex(weedingHeader, [][]string{
		{"A 123", "X"},
		{"A123", "Y"},
		{"Y 4.2:L 44", "Z"},
	}, "Document Number")
	require.NoError(t, err)
	return idx
}

func TestNormalize(t *testing.T) {
	inputs := []string{"A 123", " A  1 2 3 ", "", "   ", "Pr 43.8:C 73", "a\tb c"}
	for _, s := range inputs {
		n := Normalize(s)
		assert.NotContains(t, n, " ", "Normalize(%q)", s)
		assert.Equal(t, n, Normalize(n), "Normalize must be idempotent for %q", s)
	}
	assert.Equal(t, "A123", Normalize("A 123"))
	assert.Equal(t, "a\tbc", Normalize("a\tb c"))
	assert.Equal(t, "y4.2:L44", Normalize("y 4.2:L 44"), "case must be preserved")
}

func TestBuildIndex(t *testing.T) {
	idx := sampleIndex(t)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 2, idx.Numbers())
	assert.Equal(t, 0, idx.Column)

	list, ok := idx.RowNumbers("A123")
	require.True(t, ok)
	assert.Equal(t, "2,3", list)

	list, ok = idx.RowNumbers("Y4.2:L44")
	require.True(t, ok)
	assert.Equal(t, "4", list)

	row, ok := idx.Row(3)
	require.True(t, ok)
	assert.Equal(t, []string{"A123", "Y"}, row)

	_, ok = idx.Row(1)
	assert.False(t, ok, "row 1 is the header")

	var numbers []int
	for _, e := range idx.Entries() {
		numbers = append(numbers, e.RowNumber)
	}
	assert.Equal(t, []int{2, 3, 4}, numbers)
}

func TestBuildIndexColumnByName(t *testing.T) {
	idx, err := BuildIndex([]string{"Title", "Call No"}, [][]string{{"X", "A 1"}}, "Call No")
	require.NoError(t, err)
	assert.True(t, idx.Contains("A1"))
	assert.Equal(t, 1, idx.Column)
}

func TestBuildIndexMissingColumn(t *testing.T) {
	_, err := BuildIndex([]string{"Title"}, [][]string{{"X"}}, "Document Number")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestBuildIndexShortRow(t *testing.T) {
	_, err := BuildIndex([]string{"Title", "Document Number"}, [][]string{{"X"}}, "Document Number")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestDuplicates(t *testing.T) {
	idx := sampleIndex(t)
	assert.Equal(t, map[string]string{"A123": "2,3"}, idx.Duplicates())
}

func TestParseRowNumbersBadFragment(t *testing.T) {
	idx := sampleIndex(t)
	idx.numbers["A123"] = "2,x"
	_, err := idx.ParseRowNumbers("A123")
	assert.ErrorIs(t, err, ErrFormat)

	_, err = idx.ParseRowNumbers("missing")
	assert.ErrorIs(t, err, ErrLookup)
}

func fdlpRows() [][]string {
	return [][]string{
		{"Title", "Class Type", "Class Number"},
		{"Doc one", "SuDoc", "A 123"},
		{"Doc two", "LC", "A 123"},
		{"Doc three", "SuDoc", "B 9"},
		{"Doc four", "SuDoc", "Y4.2:L44"},
	}
}

func TestScanRecordsRowsOfInterest(t *testing.T) {
	idx := sampleIndex(t)
	acc := NewMatches()

	require.NoError(t, Scan(DefaultReferenceDoc("fdlp.csv"), fdlpRows(), idx, acc))
	require.Len(t, acc.Documents, 1)

	dm := acc.Documents[0]
	assert.Equal(t, []string{"Title", "Class Type", "Class Number"}, dm.Header)
	require.Len(t, dm.RowsOfInterest, 2)
	assert.Equal(t, 1, dm.RowsOfInterest[0].Number)
	assert.Equal(t, 4, dm.RowsOfInterest[1].Number)
	assert.Equal(t, 5, dm.Scanned)
	assert.Equal(t, 1, dm.Filtered)
	assert.Equal(t, 0, dm.Skipped, "the header row is not counted as skipped")

	assert.Equal(t, []int{2, 3, 4}, acc.SortedRowNumbers())

	matched, notMatched := Partition(idx, acc.RowNumbers)
	assert.Len(t, matched, 3)
	assert.Empty(t, notMatched)
}

func TestScanTypeFilterRejectsMatchingNumber(t *testing.T) {
	idx := sampleIndex(t)
	acc := NewMatches()
	rows := [][]string{
		{"Title", "Class Type", "Class Number"},
		{"Doc two", "LC", "A 123"},
	}

	require.NoError(t, Scan(DefaultReferenceDoc("fdlp.csv"), rows, idx, acc))
	assert.Empty(t, acc.Documents[0].RowsOfInterest)
	assert.Empty(t, acc.RowNumbers)
}

func TestScanWithoutTypeFilter(t *testing.T) {
	idx := sampleIndex(t)
	acc := NewMatches()
	doc := DefaultReferenceDoc("fdlp.csv")
	doc.ClassificationType = ""

	require.NoError(t, Scan(doc, fdlpRows(), idx, acc))
	assert.Len(t, acc.Documents[0].RowsOfInterest, 3)
}

func TestScanNoHeaderAndSkipRows(t *testing.T) {
	idx := sampleIndex(t)
	acc := NewMatches()
	doc := ReferenceDoc{
		Path:        "legacy.csv",
		SkipRows:    2,
		SudocColumn: 0,
		HeaderRow:   NoHeaderRow,
	}
	rows := [][]string{
		{"FDLP offers", ""},
		{"", ""},
		{"A 123", "1990"},
		{"Z 1", "1991"},
	}

	require.NoError(t, Scan(doc, rows, idx, acc))
	dm := acc.Documents[0]
	assert.Nil(t, dm.Header)
	assert.Equal(t, 2, dm.Skipped)
	require.Len(t, dm.RowsOfInterest, 1)
	assert.Equal(t, 2, dm.RowsOfInterest[0].Number)
	assert.Equal(t, []int{2, 3}, acc.SortedRowNumbers())
}

func TestScanHeaderInsideSkippedRegion(t *testing.T) {
	idx := sampleIndex(t)
	acc := NewMatches()
	doc := DefaultReferenceDoc("offset.csv")
	doc.SkipRows = 3
	doc.HeaderRow = 1
	rows := [][]string{
		{"Report generated", "", ""},
		{"Title", "Class Type", "Class Number"},
		{"", "", ""},
		{"Doc", "SuDoc", "A123"},
	}

	require.NoError(t, Scan(doc, rows, idx, acc))
	dm := acc.Documents[0]
	assert.Equal(t, rows[1], dm.Header)
	assert.Equal(t, 2, dm.Skipped)
	require.Len(t, dm.RowsOfInterest, 1)
	assert.Equal(t, 3, dm.RowsOfInterest[0].Number)
}

func TestScanIsCumulative(t *testing.T) {
	idx := sampleIndex(t)
	acc := NewMatches()

	first := [][]string{{"T", "K", "N"}, {"a", "SuDoc", "A123"}}
	second := [][]string{{"T", "K", "N"}, {"b", "SuDoc", "Y 4.2:L 44"}}

	require.NoError(t, Scan(DefaultReferenceDoc("one.csv"), first, idx, acc))
	require.NoError(t, Scan(DefaultReferenceDoc("two.csv"), second, idx, acc))

	require.Len(t, acc.Documents, 2)
	assert.Len(t, acc.Documents[0].RowsOfInterest, 1)
	assert.Len(t, acc.Documents[1].RowsOfInterest, 1)
	assert.Equal(t, []int{2, 3, 4}, acc.SortedRowNumbers())
	assert.True(t, acc.Matched(4))
	assert.False(t, acc.Matched(5))
}

func TestScanShortRow(t *testing.T) {
	idx := sampleIndex(t)
	acc := NewMatches()
	rows := [][]string{{"T", "K", "N"}, {"a", "SuDoc"}}

	err := Scan(DefaultReferenceDoc("short.csv"), rows, idx, acc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
	assert.True(t, strings.Contains(err.Error(), "short.csv"))
}

func TestScanCorruptIndex(t *testing.T) {
	idx := sampleIndex(t)
	idx.numbers["A123"] = "2,three"
	err := Scan(DefaultReferenceDoc("fdlp.csv"), fdlpRows(), idx, NewMatches())
	assert.ErrorIs(t, err, ErrFormat)
}

func TestPartitionTotalAndExclusive(t *testing.T) {
	rows := make([][]string, 0, 20)
	for i := 0; i < 20; i++ {
		rows = append(rows, []string{"N " + string(rune('A'+i)), "t"})
	}
	idx, err := BuildIndex(weedingHeader, rows, "Document Number")
	require.NoError(t, err)

	picked := map[int]struct{}{2: {}, 7: {}, 21: {}}
	matched, notMatched := Partition(idx, picked)

	assert.Len(t, matched, 3)
	assert.Len(t, notMatched, 17)
	assert.Equal(t, idx.Len(), len(matched)+len(notMatched))
	assert.Equal(t, rows[0], matched[0])
	assert.Equal(t, rows[5], matched[1])
	assert.Equal(t, rows[19], matched[2])
	assert.Equal(t, rows[1], notMatched[0])
}
