package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/habiliai/memorymap/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	params := &struct {
		Host string
		Port int
	}{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			m, err := openMemoryMap(ctx)
			if err != nil {
				return err
			}
			defer m.Close()

			server := httpapi.NewServer(m.Logger(), m.GetMemoryService(), m.GetNarrator())
			return server.Serve(ctx, fmt.Sprintf("%s:%d", params.Host, params.Port))
		},
	}

	cmd.Flags().StringVar(&params.Host, "host", "127.0.0.1", "host to bind")
	cmd.Flags().IntVarP(&params.Port, "port", "p", 8060, "port to listen on")

	return cmd
}
