package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"orgclock/internal/csvout"
	"orgclock/internal/pipeline"
)

var (
	exportOutput    string
	exportSeparator string
	exportHeader    string
	exportSkipCheck bool
)

var exportCmd = &cobra.Command{
	Use:   "export [files...]",
	Short: "Export clock entries from documents to CSV",
	Long: `Parse each document, flatten its clock entries, and write one CSV
table with the records of all documents concatenated in argument order.

With no arguments the source list comes from the ORGCLOCK_FILES
environment variable (whitespace-separated).

Examples:
  orgclock export work.org                 # CSV to stdout
  orgclock export -o clocks.csv *.org      # CSV to a file
  orgclock export --separator " > " a.org  # custom parents joiner`,
	Args: cobra.ArbitraryArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().StringVar(&exportSeparator, "separator", "", "Separator joining the parents path")
	exportCmd.Flags().StringVar(&exportHeader, "header", "", "Header line text")
	exportCmd.Flags().BoolVar(&exportSkipCheck, "skip-check", false, "Skip the existence pre-check on source files")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = strings.Fields(os.Getenv("ORGCLOCK_FILES"))
	}
	if len(args) == 0 {
		return fmt.Errorf("no source files: pass paths as arguments or set ORGCLOCK_FILES")
	}

	opts := pipeline.ExportOptions{
		SkipCheck: exportSkipCheck,
		CSV: csvout.Options{
			Header:    exportHeader,
			Separator: exportSeparator,
		},
	}

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	return pipeline.WriteCSV(out, args, opts)
}
