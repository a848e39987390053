package reports

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/daybook/internal/domain/records"
)

// WriteMonthlyXLSX writes one month of books as a spreadsheet: a row per
// record (oldest first) with the derived figures and a running balance,
// plus a totals row. Records outside the month are skipped.
func WriteMonthlyXLSX(w io.Writer, recs []records.DailyRecord, year int, month time.Month) error {
	var monthRecs []records.DailyRecord
	for _, r := range recs {
		if InMonth(r, year, month) {
			monthRecs = append(monthRecs, r)
		}
	}
	sort.SliceStable(monthRecs, func(i, j int) bool {
		return monthRecs[i].Date < monthRecs[j].Date
	})

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"date",
		"production_cost",
		"expenses_purchases",
		"income",
		"cash",
		"profit",
		"loss",
		"running_balance",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("reports: write header: %w", err)
	}

	row := 2
	var balance float64
	for _, r := range monthRecs {
		balance += TotalIncome(r)
		for _, li := range append(append([]records.LineItem{}, r.DailyExpenseList...), r.TodayPurchases...) {
			if li.IsPaid() {
				balance -= li.Amount
			}
		}
		pl := DailyProfitLoss(r)
		excelRow := []interface{}{
			r.Date,
			ProductionCost(r),
			TotalExpense(r),
			TotalIncome(r),
			CashTotal(r),
			pl.Profit,
			pl.Loss,
			balance,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("reports: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return fmt.Errorf("reports: write row: %w", err)
		}
		row++
	}

	total := []interface{}{
		"month_balance", "", "", "", "", "", "", MonthlyBalance(recs, year, month),
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("reports: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &total); err != nil {
		return fmt.Errorf("reports: write totals: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("reports: write xlsx: %w", err)
	}
	return nil
}
