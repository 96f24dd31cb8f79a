// Package govdocs cross-references a library's weeding set against FDLP
// reference documents by SuDoc number.
//
// It finds, for every weeding-set row, whether its SuDoc number appears in at
// least one reference document, then writes the matching reference rows, the
// matched weeding-set rows and the not matched weeding-set rows as CSV.
//
//	res, _ := govdocs.Run(&govdocs.Config{
//	    WeedingSet:   "SantaClara20240124.csv",
//	    NumberColumn: govdocs.DefaultNumberColumn,
//	    Documents:    []match.ReferenceDoc{match.DefaultReferenceDoc("offers.csv")},
//	    OutputDir:    "output",
//	    Layout:       govdocs.DefaultLayout(),
//	})
//	fmt.Println(len(res.Matched)) // weeding-set rows found in the offers
package govdocs

import (
	"fmt"
	"strings"

	"github.com/happyhackingspace/govdocs/internal/csvio"
	"github.com/happyhackingspace/govdocs/internal/storage"
	"github.com/happyhackingspace/govdocs/match"
)

// DefaultNumberColumn is the weeding-set header holding SuDoc numbers.
const DefaultNumberColumn = "Document Number"

// Layout names the files written into the output directory.
type Layout = storage.Layout

// DefaultLayout returns 250-row not matched chunks named rows_not_matched_<n>.csv
// starting at 1, under not_matched/, and a rows_matched.csv file.
func DefaultLayout() Layout {
	return storage.DefaultLayout()
}

// Config holds everything one run needs.
type Config struct {
	WeedingSet   string
	NumberColumn string
	Documents    []match.ReferenceDoc
	OutputDir    string
	Encoding     string // input character set; empty means UTF-8
	Layout       Layout
}

// Validate checks that the configuration is usable.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.WeedingSet == "" {
		errs = append(errs, "a weeding set file is required (--weeding)")
	}
	if c.NumberColumn == "" {
		errs = append(errs, "the SuDoc number column name must not be empty")
	}
	if len(c.Documents) == 0 {
		errs = append(errs, "at least one reference document is required (--fdlp or --manifest)")
	}
	if c.OutputDir == "" {
		errs = append(errs, "an output directory is required (--out)")
	}
	if c.Layout.MaxRows < 2 {
		errs = append(errs, fmt.Sprintf("max rows (%d) must be at least 2: a header and one data row", c.Layout.MaxRows))
	}
	if c.Layout.ChunkStart < 0 {
		errs = append(errs, fmt.Sprintf("chunk start (%d) must be non-negative", c.Layout.ChunkStart))
	}
	if c.Layout.MatchedFile == "" {
		errs = append(errs, "the matched file name must not be empty")
	}
	if _, err := csvio.LookupEncoding(c.Encoding); err != nil {
		errs = append(errs, err.Error())
	}

	seen := make(map[string]string, len(c.Documents))
	for _, d := range c.Documents {
		if d.SkipRows < 0 || d.SudocColumn < 0 || d.TypeColumn < 0 {
			errs = append(errs, fmt.Sprintf("%s: row and column indexes must be non-negative", d.Path))
		}
		if d.HeaderRow < match.NoHeaderRow {
			errs = append(errs, fmt.Sprintf("%s: header row (%d) must be -1 (none) or an index", d.Path, d.HeaderRow))
		}
		name := storage.MatchesFileName(d)
		if prev, ok := seen[name]; ok {
			errs = append(errs, fmt.Sprintf("%s and %s would both be written to %s", prev, d.Path, name))
		}
		seen[name] = d.Path
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LoadWeedingSet reads the weeding set at path and indexes it by the column
// named column. The first row must be the header.
func LoadWeedingSet(path, column, enc string) (*match.Index, error) {
	rows, err := csvio.Read(path, enc)
	if err != nil {
		return nil, fmt.Errorf("govdocs: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("govdocs: %w: %s is empty, expected a header row", match.ErrSchema, path)
	}
	idx, err := match.BuildIndex(rows[0], rows[1:], column)
	if err != nil {
		return nil, fmt.Errorf("govdocs: %s: %w", path, err)
	}
	return idx, nil
}
