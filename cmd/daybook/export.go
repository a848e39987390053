package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Spok95/daybook/internal/domain/reports"
)

var (
	exportMonth string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one month of books as an xlsx report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if exportMonth == "" {
			exportMonth = time.Now().In(a.loc).Format("2006-01")
		}
		t, err := time.Parse("2006-01", exportMonth)
		if err != nil {
			return fmt.Errorf("--month must look like 2026-08: %w", err)
		}
		out := exportOut
		if out == "" {
			out = fmt.Sprintf("daybook-%s.xlsx", exportMonth)
		}

		recs, err := a.repo.GetAll(ctx, false)
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := reports.WriteMonthlyXLSX(f, recs, t.Year(), t.Month()); err != nil {
			return err
		}
		a.log.Info("report written", "month", exportMonth, "file", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "month to export (YYYY-MM, default current)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default daybook-<month>.xlsx)")
}
