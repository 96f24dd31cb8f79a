package govdocs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/happyhackingspace/govdocs/internal/csvio"
	"github.com/happyhackingspace/govdocs/internal/storage"
	"github.com/happyhackingspace/govdocs/internal/textutil"
	"github.com/happyhackingspace/govdocs/match"
)

// Result holds the outcome of a run.
type Result struct {
	RunID      string
	Index      *match.Index
	Matches    *match.Matches
	Matched    [][]string // weeding-set rows found in a reference document
	NotMatched [][]string
	Files      []string // every file written, summary last
}

// Run loads the weeding set and every reference document, matches them and
// writes the results into cfg.OutputDir. Nothing is written unless loading
// and matching succeed for every document.
func Run(cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("govdocs: %w", err)
	}

	started := time.Now().UTC()
	res := &Result{RunID: uuid.NewString()}
	log := slog.With("run_id", res.RunID)
	log.Info("Run started", "weeding_set", cfg.WeedingSet, "documents", len(cfg.Documents))

	idx, err := LoadWeedingSet(cfg.WeedingSet, cfg.NumberColumn, cfg.Encoding)
	if err != nil {
		return nil, err
	}
	res.Index = idx
	log.Debug("Weeding set indexed", "rows", idx.Len(), "numbers", idx.Numbers())

	docRows := make([][][]string, len(cfg.Documents))
	for i, doc := range cfg.Documents {
		rows, err := csvio.Read(doc.Path, cfg.Encoding)
		if err != nil {
			return nil, fmt.Errorf("govdocs: %w", err)
		}
		docRows[i] = rows
	}

	res.Matches = match.NewMatches()
	for i, doc := range cfg.Documents {
		if err := match.Scan(doc, docRows[i], idx, res.Matches); err != nil {
			return nil, fmt.Errorf("govdocs: %w", err)
		}
	}
	res.Matched, res.NotMatched = match.Partition(idx, res.Matches.RowNumbers)
	log.Debug("Weeding set partitioned", "matched_rows", textutil.JoinInts(res.Matches.SortedRowNumbers()))

	matchesRows := make([][][]string, len(res.Matches.Documents))
	for i, dm := range res.Matches.Documents {
		rows, err := storage.MatchesRows(dm, idx)
		if err != nil {
			return nil, fmt.Errorf("govdocs: %w", err)
		}
		matchesRows[i] = rows
	}

	store := storage.NewStorage(cfg.OutputDir, cfg.Layout)
	sum := &storage.Summary{
		RunID:     res.RunID,
		StartedAt: started,
		WeedingSet: storage.WeedingSetSummary{
			Path:       cfg.WeedingSet,
			Column:     cfg.NumberColumn,
			Rows:       idx.Len(),
			Numbers:    idx.Numbers(),
			Matched:    len(res.Matched),
			NotMatched: len(res.NotMatched),
		},
	}

	for i, dm := range res.Matches.Documents {
		path, err := store.WriteMatches(dm.Doc, matchesRows[i])
		if err != nil {
			return nil, fmt.Errorf("govdocs: %w", err)
		}
		res.Files = append(res.Files, path)
		sum.Documents = append(sum.Documents, storage.DocumentSummary{
			Path:     dm.Doc.Path,
			Rows:     dm.Scanned,
			Skipped:  dm.Skipped,
			Filtered: dm.Filtered,
			Matches:  len(dm.RowsOfInterest),
			Output:   path,
		})
	}

	path, err := store.WriteMatched(idx.Header, res.Matched)
	if err != nil {
		return nil, fmt.Errorf("govdocs: %w", err)
	}
	res.Files = append(res.Files, path)

	chunks, err := store.WriteNotMatched(idx.Header, res.NotMatched)
	if err != nil {
		return nil, fmt.Errorf("govdocs: %w", err)
	}
	res.Files = append(res.Files, chunks...)

	sum.Files = res.Files
	sum.FinishedAt = time.Now().UTC()
	path, err = store.WriteSummary(sum)
	if err != nil {
		return nil, fmt.Errorf("govdocs: %w", err)
	}
	res.Files = append(res.Files, path)

	log.Info("Run finished",
		"matched", len(res.Matched),
		"not_matched", len(res.NotMatched),
		"files", len(res.Files),
		"duration", time.Since(started),
	)
	return res, nil
}
