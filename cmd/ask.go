package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Research a question and print the best-supported answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		question := strings.Join(args, " ")
		a, err := researchApp()
		if err != nil {
			return err
		}

		ans, err := a.research.Answer(ctx, question)
		if err != nil {
			return userError("ask failed", err)
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, ans.Message(), ans)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
