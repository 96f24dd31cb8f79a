// Package match cross-references SuDoc classification numbers between a
// weeding set and one or more FDLP reference documents.
//
// The weeding set is loaded once into an Index. Each reference document is
// then scanned against it, accumulating Matches, and finally the weeding set
// is split into matched and not matched rows:
//
//	idx, _ := match.BuildIndex(header, rows, "Document Number")
//	acc := match.NewMatches()
//	for _, doc := range docs {
//	    _ = match.Scan(doc, docRows[doc.Path], idx, acc)
//	}
//	matched, notMatched := match.Partition(idx, acc.RowNumbers)
package match

import (
	"errors"

	"github.com/happyhackingspace/govdocs/internal/textutil"
)

var (
	// ErrSchema reports a missing column name or a row too short for a
	// configured column index.
	ErrSchema = errors.New("schema error")

	// ErrFormat reports a stored row number that does not parse as an integer.
	ErrFormat = errors.New("format error")

	// ErrLookup reports a matched SuDoc number that is missing from the index.
	ErrLookup = errors.New("lookup error")
)

// Normalize returns the comparison form of a SuDoc number: the raw value with
// every space removed. No other transformation is applied.
func Normalize(raw string) string {
	return textutil.StripSpaces(raw)
}
