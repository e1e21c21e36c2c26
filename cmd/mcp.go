package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/webresearch/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the research capabilities as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := researchApp()
		if err != nil {
			return err
		}
		return mcpserver.Run(ctx, mcpserver.New(a.registry, version))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
