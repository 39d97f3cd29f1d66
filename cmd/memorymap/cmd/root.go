package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/habiliai/memorymap"
	"github.com/habiliai/memorymap/config"
	"github.com/spf13/cobra"
)

var configFile string

func Execute(ctx context.Context) error {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memorymap",
		Short: "Personal semantic memory store",
		Long: "memorymap saves text and image memories, searches them by meaning " +
			"and date, and synthesizes them into chronological timelines.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to memorymap.yaml")

	cmd.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newAddCmd(),
		newSearchCmd(),
		newSynthesizeCmd(),
		newStatsCmd(),
	)

	return cmd
}

// openMemoryMap builds the MemoryMap from defaults, the optional config
// file, and environment variables, in that override order.
func openMemoryMap(ctx context.Context) (*memorymap.MemoryMap, error) {
	var opts []memorymap.Option

	if configFile != "" {
		fileConfig, err := config.LoadFile(configFile)
		if err != nil {
			return nil, err
		}
		if fileConfig.Log != nil {
			opts = append(opts, memorymap.WithLogConfig(fileConfig.Log))
		}
		if fileConfig.Store != nil {
			opts = append(opts, memorymap.WithStoreConfig(fileConfig.Store))
		}
		if fileConfig.Embedder != nil && fileConfig.Embedder.Provider != "" {
			opts = append(opts, memorymap.WithEmbedderProvider(fileConfig.Embedder.Provider))
		}
		if fileConfig.Synthesis != nil {
			opts = append(opts, memorymap.WithSynthesisConfig(fileConfig.Synthesis))
		}
	}

	return memorymap.NewMemoryMap(ctx, opts...)
}
