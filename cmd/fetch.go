package main

import (
	"github.com/spf13/cobra"
)

var fetchFocus string

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a page and print a focused summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := researchApp()
		if err != nil {
			return err
		}

		sum, err := a.summarizer.FetchAndSummarize(cmd.Context(), args[0], fetchFocus)
		if err != nil {
			return userError("fetch failed", err)
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, sum.Render(), sum)
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchFocus, "focus", "", "what to focus on when summarizing")
	rootCmd.AddCommand(fetchCmd)
}
