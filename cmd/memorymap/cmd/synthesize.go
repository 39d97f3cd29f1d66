package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSynthesizeCmd() *cobra.Command {
	params := &struct {
		NResults  int
		StartDate string
		EndDate   string
		Narrative bool
	}{}

	cmd := &cobra.Command{
		Use:   "synthesize <query>",
		Short: "Build a chronological timeline of memories about a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMemoryMap(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			query := strings.Join(args, " ")

			result, err := m.Synthesize(cmd.Context(), query, params.StartDate, params.EndDate, params.NResults)
			if err != nil {
				return err
			}

			if result.Counts.Total == 0 {
				fmt.Printf("No memories found for %q\n", query)
				return nil
			}

			fmt.Printf("Timeline for %q (%d text, %d image):\n", query, result.Counts.Text, result.Counts.Image)
			for _, record := range result.Timeline {
				printRecord(record)
			}

			if params.Narrative {
				narrative, err := m.Narrate(cmd.Context(), result)
				if err != nil {
					return err
				}
				fmt.Printf("\n%s\n", narrative)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&params.NResults, "n-results", "n", 10, "max results per memory type")
	cmd.Flags().StringVar(&params.StartDate, "from", "", "start date")
	cmd.Flags().StringVar(&params.EndDate, "to", "", "end date, inclusive")
	cmd.Flags().BoolVar(&params.Narrative, "narrative", false, "also generate a prose narrative (needs ANTHROPIC_API_KEY)")

	return cmd
}
