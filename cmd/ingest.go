package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2492dfd/stockLog-final/logger"
)

var ingestUser string

var ingestCMD = &cobra.Command{
	Use:   "ingest [file-or-directory]",
	Short: "Import trade logs from a CSV file or a directory of CSV files",
	Long: `Import broker CSV exports for one user. A directory is processed with
parallel goroutines, one transaction per file. Rows missing a stock name,
quantity, price or valid date are skipped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer shutdown(context.Background())

		path := args[0]
		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			logger.Info(ctx, "Starting parallel ingestion", "dir", path, "user_id", ingestUser)
			report, err := a.importer.ProcessDirectory(ctx, path, ingestUser)
			if err != nil {
				return fmt.Errorf("failed to process directory: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "files: %d (failed %d), imported: %d, skipped: %d\n",
				report.Files, report.Failed, report.Imported, report.Skipped)
			return nil
		}

		report, err := a.importer.ProcessFile(ctx, path, ingestUser)
		if err != nil {
			return fmt.Errorf("failed to process file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported: %d, skipped: %d %v\n", report.Imported, report.Skipped, report.SkippedLines)
		return nil
	},
}

func init() {
	ingestCMD.Flags().StringVarP(&ingestUser, "user", "u", "", "owner of the imported trade logs")
	ingestCMD.MarkFlagRequired("user")
}
