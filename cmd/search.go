package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/webresearch/internal/capability"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the web and list the top results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		a, err := researchApp()
		if err != nil {
			return err
		}

		results, err := a.search.Search(cmd.Context(), query)
		if err != nil {
			return userError("search failed", err)
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, capability.FormatResults(query, results), results)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
