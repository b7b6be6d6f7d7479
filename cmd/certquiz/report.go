package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certquiz/internal/bootstrap"
	"github.com/at-ishikawa/certquiz/internal/cli"
	"github.com/at-ishikawa/certquiz/internal/session"
)

func newReportCommand() *cobra.Command {
	reportCommand := &cobra.Command{
		Use:   "report",
		Short: "Export session reports",
	}

	reportCommand.AddCommand(newReportExportCommand())
	return reportCommand
}

func newReportExportCommand() *cobra.Command {
	var generatePDF bool

	command := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Write the results of a session as markdown, optionally converted to PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEngine(cmd, func(ctx context.Context, engine *bootstrap.Engine, printer *cli.Printer) error {
				results, ok := engine.Statistics.SessionResults(ctx, args[0])
				if !ok {
					return fmt.Errorf("session %s: %w", args[0], session.ErrNotFound)
				}
				markdownPath, pdfPath, err := engine.Reports.Export(results, generatePDF)
				if err != nil {
					return fmt.Errorf("Reports.Export() > %w", err)
				}
				printer.Printf("Report written to %s\n", markdownPath)
				if pdfPath != "" {
					printer.Printf("PDF written to %s\n", pdfPath)
				}
				return nil
			})
		},
	}

	command.Flags().BoolVar(&generatePDF, "pdf", false, "Also convert the report to PDF")
	return command
}
