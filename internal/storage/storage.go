// Package storage writes match results into an output folder.
package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/happyhackingspace/govdocs/internal/csvio"
	"github.com/happyhackingspace/govdocs/internal/textutil"
	"github.com/happyhackingspace/govdocs/match"
)

// Columns appended to every row of a matches file.
const (
	ReferenceRowColumn = "FDLP Row"
	WeedingRowsColumn  = "SCU Row(s)"
)

// Layout names the files written into the output folder.
type Layout struct {
	MatchedFile   string // weeding-set rows that matched
	NotMatchedDir string // subfolder for the chunked not-matched files
	ChunkPrefix   string
	ChunkStart    int
	MaxRows       int // rows per chunk file, header included
}

// DefaultLayout returns the standard output layout.
func DefaultLayout() Layout {
	return Layout{
		MatchedFile:   "rows_matched.csv",
		NotMatchedDir: "not_matched",
		ChunkPrefix:   "rows_not_matched_",
		ChunkStart:    1,
		MaxRows:       250,
	}
}

// Storage wraps the output folder.
type Storage struct {
	Folder string
	Layout Layout
}

// NewStorage creates a Storage for the given output folder.
func NewStorage(folder string, layout Layout) *Storage {
	return &Storage{Folder: folder, Layout: layout}
}

// MatchesFileName returns the name of the matches file for a reference document.
func MatchesFileName(doc match.ReferenceDoc) string {
	return "matched_" + filepath.Base(doc.Path)
}

// WriteMatches writes the matches file of doc, as built by MatchesRows, and
// returns the path written.
func (s *Storage) WriteMatches(doc match.ReferenceDoc, rows [][]string) (string, error) {
	path := filepath.Join(s.Folder, MatchesFileName(doc))
	if err := csvio.Write(path, rows); err != nil {
		return "", err
	}
	slog.Debug("Matches written", "path", path, "rows", len(rows)-1)
	return path, nil
}

// MatchesRows builds the content of a matches file, header first. Each row of
// interest is followed by its row number in the document and the weeding-set
// row numbers it matched.
func MatchesRows(dm *match.DocumentMatches, idx *match.Index) ([][]string, error) {
	out := make([][]string, 0, len(dm.RowsOfInterest)+1)
	out = append(out, matchesHeader(dm))

	for _, r := range dm.RowsOfInterest {
		raw, ok := textutil.Column(r.Values, dm.Doc.SudocColumn)
		if !ok {
			return nil, fmt.Errorf("%w: %s row %d lost its SuDoc column", match.ErrLookup, dm.Doc.Path, r.Number)
		}
		number := match.Normalize(raw)
		weedingRows, ok := idx.RowNumbers(number)
		if !ok {
			return nil, fmt.Errorf("%w: %s row %d: SuDoc number %q is not in the weeding set",
				match.ErrLookup, dm.Doc.Path, r.Number, number)
		}

		row := make([]string, 0, len(r.Values)+2)
		row = append(row, r.Values...)
		row = append(row, strconv.Itoa(r.Number), weedingRows)
		out = append(out, row)
	}
	return out, nil
}

// matchesHeader extends the captured header with the provenance columns.
// Documents without a header get blank cells as wide as their widest row.
func matchesHeader(dm *match.DocumentMatches) []string {
	if dm.Header != nil {
		h := make([]string, 0, len(dm.Header)+2)
		h = append(h, dm.Header...)
		return append(h, ReferenceRowColumn, WeedingRowsColumn)
	}
	width := 0
	for _, r := range dm.RowsOfInterest {
		width = max(width, len(r.Values))
	}
	h := make([]string, width, width+2)
	return append(h, ReferenceRowColumn, WeedingRowsColumn)
}

// WriteMatched writes the matched weeding-set rows under header as a single file.
func (s *Storage) WriteMatched(header []string, rows [][]string) (string, error) {
	path := filepath.Join(s.Folder, s.Layout.MatchedFile)
	out := make([][]string, 0, len(rows)+1)
	out = append(out, header)
	out = append(out, rows...)
	if err := csvio.Write(path, out); err != nil {
		return "", err
	}
	slog.Debug("Matched rows written", "path", path, "rows", len(rows))
	return path, nil
}

// WriteNotMatched splits rows into chunk files of at most Layout.MaxRows rows,
// each starting with header. Nothing is written when rows is empty.
func (s *Storage) WriteNotMatched(header []string, rows [][]string) ([]string, error) {
	chunks, err := Chunk(rows, s.Layout.MaxRows-1)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.Folder, s.Layout.NotMatchedDir)
	paths := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		name := fmt.Sprintf("%s%d.csv", s.Layout.ChunkPrefix, s.Layout.ChunkStart+i)
		path := filepath.Join(dir, name)

		out := make([][]string, 0, len(chunk)+1)
		out = append(out, header)
		out = append(out, chunk...)
		if err := csvio.Write(path, out); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	slog.Debug("Not matched rows written", "dir", dir, "rows", len(rows), "files", len(paths))
	return paths, nil
}

// Chunk splits rows into consecutive slices of size rows; the last may be shorter.
func Chunk(rows [][]string, size int) ([][][]string, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size must hold at least one data row, got %d", size)
	}
	var chunks [][][]string
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		chunks = append(chunks, rows[start:end])
	}
	return chunks, nil
}
