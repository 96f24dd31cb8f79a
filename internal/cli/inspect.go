package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/govdocs"
	"github.com/happyhackingspace/govdocs/internal/csvio"
	"github.com/happyhackingspace/govdocs/internal/textutil"
)

func (c *CLI) newInspectCommand() *cobra.Command {
	var column string
	var encoding string

	cmd := &cobra.Command{
		Use:     "inspect <weeding-set.csv>",
		Short:   "Show the SuDoc numbers of a weeding set and those shared by several rows",
		Args:    cobra.ExactArgs(1),
		Example: `  govdocs inspect SantaClara20240124.csv --number-column "Document Number"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := govdocs.LoadWeedingSet(args[0], column, encoding)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rows: %d\n", idx.Len())
			fmt.Fprintf(out, "Distinct SuDoc numbers: %d\n", idx.Numbers())

			dups := idx.Duplicates()
			if len(dups) == 0 {
				fmt.Fprintln(out, "No SuDoc number is shared by more than one row.")
				return nil
			}

			numbers := make([]string, 0, len(dups))
			for number := range dups {
				numbers = append(numbers, number)
			}
			sort.Strings(numbers)

			rows := make([][]string, 0, len(numbers))
			for _, number := range numbers {
				rows = append(rows, []string{
					number,
					strconv.Itoa(len(textutil.SplitList(dups[number]))),
					dups[number],
				})
			}
			return renderTable(out, []string{"SuDoc", "Count", "Rows"}, rows, 1)
		},
	}

	cmd.Flags().StringVar(&column, "number-column", govdocs.DefaultNumberColumn, "Column holding SuDoc numbers")
	cmd.Flags().StringVar(&encoding, "encoding", csvio.DefaultEncoding, "Input character set")
	return cmd
}
