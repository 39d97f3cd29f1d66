package cmd

import (
	"github.com/habiliai/memorymap/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Long: "Exposes memory tools over the Model Context Protocol so agents " +
			"can save and recall memories. Intended to be launched by an MCP client.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMemoryMap(cmd.Context())
			if err != nil {
				return err
			}
			defer m.Close()

			return mcpserver.NewServer(m.Logger(), m.GetMemoryService()).ServeStdio()
		},
	}
}
