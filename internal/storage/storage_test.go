package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/govdocs/internal/csvio"
	"github.com/happyhackingspace/govdocs/match"
)

var header = []string{"Document Number", "Title"}

func makeRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("A %d", i), fmt.Sprintf("Title %d", i)}
	}
	return rows
}

func TestChunk(t *testing.T) {
	chunks, err := Chunk(makeRows(600), 249)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 249)
	assert.Len(t, chunks[1], 249)
	assert.Len(t, chunks[2], 102)

	chunks, err = Chunk(makeRows(498), 249)
	require.NoError(t, err)
	assert.Len(t, chunks, 2, "an exact multiple must not produce an empty trailing chunk")

	chunks, err = Chunk(nil, 249)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	_, err = Chunk(makeRows(3), 0)
	assert.Error(t, err)
}

func TestWriteNotMatchedChunks(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir, DefaultLayout())
	rows := makeRows(600)

	paths, err := s.WriteNotMatched(header, rows)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	wantNames := []string{"rows_not_matched_1.csv", "rows_not_matched_2.csv", "rows_not_matched_3.csv"}
	wantData := []int{249, 249, 102}

	var concatenated [][]string
	for i, p := range paths {
		assert.Equal(t, filepath.Join(dir, "not_matched", wantNames[i]), p)

		got, err := csvio.Read(p, "")
		require.NoError(t, err)
		assert.Equal(t, header, got[0], "every chunk starts with the header")
		assert.Len(t, got, wantData[i]+1)
		concatenated = append(concatenated, got[1:]...)
	}
	assert.Equal(t, rows, concatenated, "chunks must reproduce the original order")
}

func TestWriteNotMatchedCustomLayout(t *testing.T) {
	dir := t.TempDir()
	layout := DefaultLayout()
	layout.MaxRows = 3
	layout.ChunkPrefix = "discard_"
	layout.ChunkStart = 5
	layout.NotMatchedDir = "weed"

	paths, err := NewStorage(dir, layout).WriteNotMatched(header, makeRows(5))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "weed", "discard_5.csv"),
		filepath.Join(dir, "weed", "discard_6.csv"),
		filepath.Join(dir, "weed", "discard_7.csv"),
	}, paths)

	last, err := csvio.Read(paths[2], "")
	require.NoError(t, err)
	assert.Len(t, last, 2)
}

func TestWriteNotMatchedEmpty(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewStorage(dir, DefaultLayout()).WriteNotMatched(header, nil)
	require.NoError(t, err)
	assert.Empty(t, paths)

	_, err = os.Stat(filepath.Join(dir, "not_matched"))
	assert.True(t, os.IsNotExist(err), "no directory is created for an empty partition")
}

func TestWriteNotMatchedRejectsTinyChunks(t *testing.T) {
	layout := DefaultLayout()
	layout.MaxRows = 1
	_, err := NewStorage(t.TempDir(), layout).WriteNotMatched(header, makeRows(2))
	assert.Error(t, err)
}

func TestWriteMatched(t *testing.T) {
	dir := t.TempDir()
	rows := makeRows(3)
	path, err := NewStorage(dir, DefaultLayout()).WriteMatched(header, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rows_matched.csv"), path)

	got, err := csvio.Read(path, "")
	require.NoError(t, err)
	assert.Equal(t, append([][]string{header}, rows...), got)
}

func scannedDocument(t *testing.T) (*match.DocumentMatches, *match.Index) {
	t.Helper()
	idx, err := match.BuildIndex(header, [][]string{{"A 123", "X"}, {"A123", "Y"}, {"B 2", "Z"}}, "Document Number")
	require.NoError(t, err)

	acc := match.NewMatches()
	rows := [][]string{
		{"Title", "Class Type", "Class Number"},
		{"First", "SuDoc", "A 123"},
		{"Second", "SuDoc", "B2"},
		{"Third", "SuDoc", "C 3"},
	}
	require.NoError(t, match.Scan(match.DefaultReferenceDoc("/in/fdlp offers.csv"), rows, idx, acc))
	return acc.Documents[0], idx
}

func TestMatchesRows(t *testing.T) {
	dm, idx := scannedDocument(t)

	rows, err := MatchesRows(dm, idx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Title", "Class Type", "Class Number", "FDLP Row", "SCU Row(s)"},
		{"First", "SuDoc", "A 123", "1", "2,3"},
		{"Second", "SuDoc", "B2", "2", "4"},
	}, rows)
}

func TestMatchesRowsWithoutHeader(t *testing.T) {
	dm, idx := scannedDocument(t)
	dm.Header = nil

	rows, err := MatchesRows(dm, idx)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", "FDLP Row", "SCU Row(s)"}, rows[0])
}

func TestMatchesRowsLookupError(t *testing.T) {
	dm, idx := scannedDocument(t)
	dm.RowsOfInterest = append(dm.RowsOfInterest, match.Row{Number: 9, Values: []string{"x", "SuDoc", "Z 9"}})

	_, err := MatchesRows(dm, idx)
	assert.ErrorIs(t, err, match.ErrLookup)
}

func TestWriteMatchesFileName(t *testing.T) {
	dm, idx := scannedDocument(t)
	dir := t.TempDir()

	rows, err := MatchesRows(dm, idx)
	require.NoError(t, err)
	path, err := NewStorage(dir, DefaultLayout()).WriteMatches(dm.Doc, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "matched_fdlp offers.csv"), path)

	got, err := csvio.Read(path, "")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestSummaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2024, 1, 24, 9, 0, 0, 0, time.UTC)
	sum := &Summary{
		RunID:      "run-1",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		WeedingSet: WeedingSetSummary{Path: "scu.csv", Column: "Document Number", Rows: 3, Numbers: 2, Matched: 2, NotMatched: 1},
		Documents:  []DocumentSummary{{Path: "fdlp.csv", Rows: 4, Matches: 1, Output: "matched_fdlp.csv"}},
		Files:      []string{"rows_matched.csv"},
	}

	path, err := NewStorage(dir, DefaultLayout()).WriteSummary(sum)
	require.NoError(t, err)

	got, err := ReadSummary(path)
	require.NoError(t, err)
	assert.Equal(t, sum.RunID, got.RunID)
	assert.True(t, sum.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, sum.WeedingSet, got.WeedingSet)
	assert.Equal(t, sum.Documents, got.Documents)
}
