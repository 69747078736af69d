package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

var rootCmd = &cobra.Command{
	Use:   "orgclock",
	Short: "Export clocked work intervals from outline documents as CSV",
	Long: `orgclock flattens hierarchical outline documents (org, markdown, html,
docx) into a CSV table of clock entries. Each row carries the enclosing
headline, its full ancestor path, and the tags, category, and effort it
inherits from that ancestry.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
