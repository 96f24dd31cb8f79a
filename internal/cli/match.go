package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/happyhackingspace/govdocs"
	"github.com/happyhackingspace/govdocs/internal/config"
	"github.com/happyhackingspace/govdocs/internal/csvio"
	"github.com/happyhackingspace/govdocs/internal/storage"
	"github.com/happyhackingspace/govdocs/match"
)

func (c *CLI) newMatchCommand() *cobra.Command {
	var configFile string
	var summary bool

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Find weeding-set rows whose SuDoc number appears in FDLP reference documents",
		Args:  cobra.NoArgs,
		Example: `  # Match one offers list against the weeding set
  govdocs match --fdlp offers.csv --weeding SantaClara20240124.csv

  # Several reference documents, 100-row not matched chunks
  govdocs match --fdlp offers.csv --fdlp needs.csv --scu scu.csv --out results --max-rows 100

  # Reference documents with their own layout
  govdocs match --manifest references.yaml --weeding scu.csv

  # Legacy export: SuDoc in the first column, no type column, two junk rows
  govdocs match --fdlp legacy.csv --weeding scu.csv --skip-rows 2 --sudoc-column 0 --type "" --header-row -1

  # Per-document table after the count
  govdocs match --fdlp offers.csv --weeding scu.csv --summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.New(configFile)
			if err != nil {
				return err
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := govdocs.Run(cfg)
			if err != nil {
				return err
			}
			slog.Debug("Match completed", "duration", time.Since(start), "files", len(res.Files))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d matches.\n", len(res.Matched))
			if summary {
				return printMatchSummary(out, cfg, res)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "scu" {
			name = config.KeyWeedingSet
		}
		return pflag.NormalizedName(name)
	})

	layout := govdocs.DefaultLayout()
	flags.StringVar(&configFile, config.KeyConfig, "", "Config file (default is ./.govdocs.yaml or ~/.govdocs.yaml)")
	flags.BoolVar(&summary, "summary", false, "Print a per-document table after the match count")
	flags.StringArray(config.KeyReferences, nil, "FDLP reference document (repeatable)")
	flags.String(config.KeyManifest, "", "YAML manifest of reference documents with per-document layout")
	flags.String(config.KeyWeedingSet, "", "Weeding set CSV (alias --scu)")
	flags.String(config.KeyNumberColumn, govdocs.DefaultNumberColumn, "Weeding set column holding SuDoc numbers")
	flags.StringP(config.KeyOutputDir, "o", "output", "Output directory")
	flags.String(config.KeyEncoding, csvio.DefaultEncoding, "Input character set (utf-8, windows-1252, iso-8859-1, ...)")
	flags.Int(config.KeyMaxRows, layout.MaxRows, "Maximum rows per not matched file, header included")
	flags.String(config.KeyChunkPrefix, layout.ChunkPrefix, "File name prefix of not matched chunks")
	flags.Int(config.KeyChunkStart, layout.ChunkStart, "Index of the first not matched chunk")
	flags.String(config.KeyMatchedFile, layout.MatchedFile, "File name of the matched weeding-set rows")
	flags.String(config.KeyNotMatchedDir, layout.NotMatchedDir, "Subdirectory of the not matched chunks")
	flags.Int(config.KeySkipRows, match.DefaultSkipRows, "Leading rows to skip in each --fdlp document")
	flags.Int(config.KeySudocColumn, match.DefaultSudocColumn, "Column index of the SuDoc number in each --fdlp document")
	flags.String(config.KeyType, match.DefaultClassificationType, "Required classification type; empty disables the filter")
	flags.Int(config.KeyTypeColumn, match.DefaultTypeColumn, "Column index of the classification type")
	flags.Int(config.KeyHeaderRow, match.DefaultHeaderRow, "Row index of the header; -1 for none")
	return cmd
}

func printMatchSummary(w io.Writer, cfg *govdocs.Config, res *govdocs.Result) error {
	rows := make([][]string, 0, len(res.Matches.Documents))
	for _, dm := range res.Matches.Documents {
		rows = append(rows, []string{
			filepath.Base(dm.Doc.Path),
			strconv.Itoa(dm.Scanned),
			strconv.Itoa(dm.Skipped),
			strconv.Itoa(dm.Filtered),
			strconv.Itoa(len(dm.RowsOfInterest)),
			filepath.Join(cfg.OutputDir, storage.MatchesFileName(dm.Doc)),
		})
	}
	if err := renderTable(w, []string{"Document", "Rows", "Skipped", "Filtered", "Matches", "Output"}, rows, 1, 2, 3, 4); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d weeding-set rows matched, %d not matched.\n",
		len(res.Matched), res.Index.Len(), len(res.NotMatched))
	return err
}
