package cmd

import (
	"fmt"
	"strings"

	"github.com/habiliai/memorymap/memory"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	params := &struct {
		NResults  int
		StartDate string
		EndDate   string
	}{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search memories by meaning, optionally within a date range",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMemoryMap(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			query := strings.Join(args, " ")

			var result *memory.SearchResult
			if params.StartDate != "" || params.EndDate != "" {
				result, err = m.SearchByDate(cmd.Context(), query, params.StartDate, params.EndDate, params.NResults)
			} else {
				result, err = m.Search(cmd.Context(), query, params.NResults)
			}
			if err != nil {
				return err
			}

			if result.Count == 0 {
				fmt.Printf("No memories found for %q\n", query)
				return nil
			}

			fmt.Printf("Found %d memories for %q:\n", result.Count, query)
			for _, record := range result.Memories {
				printRecord(record)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&params.NResults, "n-results", "n", 5, "number of results")
	cmd.Flags().StringVar(&params.StartDate, "from", "", "start date (e.g. 2024-03-01 or 'March 1, 2024')")
	cmd.Flags().StringVar(&params.EndDate, "to", "", "end date, inclusive")

	return cmd
}

func printRecord(record memory.Record) {
	date := "undated"
	if record.Timestamp != nil {
		date = record.Timestamp.Format("2006-01-02")
	}

	content := record.Content
	if len(content) > 120 {
		content = content[:120] + "..."
	}
	fmt.Printf("  [%s] (%s, %.3f) %s\n", date, record.Modality, record.Score, content)
}
