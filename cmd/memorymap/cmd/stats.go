package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show memory counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMemoryMap(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			stats, err := m.Stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Total memories: %d\n", stats.Total)
			fmt.Printf("  text:  %d\n", stats.Text)
			fmt.Printf("  image: %d\n", stats.Image)
			return nil
		},
	}
}
