package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	summaryUser  string
	summaryYear  int
	summaryMonth int
)

var summaryCMD = &cobra.Command{
	Use:   "summary",
	Short: "Print realized P/L for a month or a year",
	Long: `Print the total realized profit, average rate of return and trade count
for a user. Without --month the whole year is summarized and the monthly
breakdown is printed as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer shutdown(context.Background())

		out := map[string]any{}
		if summaryMonth != 0 {
			sum, err := a.aggregator.MonthlySummary(ctx, summaryUser, summaryYear, summaryMonth)
			if err != nil {
				return err
			}
			out["summary"] = sum
		} else {
			sum, err := a.aggregator.YearlySummary(ctx, summaryUser, summaryYear)
			if err != nil {
				return err
			}
			months, err := a.aggregator.MonthlyBreakdown(ctx, summaryUser, summaryYear)
			if err != nil {
				return err
			}
			out["summary"] = sum
			out["months"] = months
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		return nil
	},
}

func init() {
	summaryCMD.Flags().StringVarP(&summaryUser, "user", "u", "", "user id")
	summaryCMD.Flags().IntVarP(&summaryYear, "year", "y", 0, "year to summarize")
	summaryCMD.Flags().IntVarP(&summaryMonth, "month", "m", 0, "month (1-12); omit for the whole year")
	summaryCMD.MarkFlagRequired("user")
	summaryCMD.MarkFlagRequired("year")
}
