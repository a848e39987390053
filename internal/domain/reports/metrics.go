// Package reports holds the derived figures: pure functions over records,
// plus the monthly xlsx export built on them.
package reports

import (
	"time"

	"github.com/Spok95/daybook/internal/domain/records"
)

// ProductionCost sums the production line items.
func ProductionCost(r records.DailyRecord) float64 {
	var total float64
	for _, li := range r.Production {
		total += li.Amount
	}
	return total
}

// TotalExpense sums expense and purchase line items. Production cost is
// intentionally not part of this total.
func TotalExpense(r records.DailyRecord) float64 {
	var total float64
	for _, li := range r.DailyExpenseList {
		total += li.Amount
	}
	for _, li := range r.TodayPurchases {
		total += li.Amount
	}
	return total
}

// TotalIncome sums the traceable channels: gpay, paytm, drawer and
// outside orders. Cash is excluded here; it feeds CashTotal instead.
func TotalIncome(r records.DailyRecord) float64 {
	c := r.DailyIncomeAmount
	return c.Gpay + c.Paytm + c.OnDrawer + c.OnOutsideOrder
}

// CashTotal is the offline tally the cash channel feeds.
func CashTotal(r records.DailyRecord) float64 {
	return r.DailyIncomeAmount.Cash
}

// DailyProfitLoss computes the day's outcome from income minus expense.
// Exactly one side is positive, or both are zero on a break-even day.
func DailyProfitLoss(r records.DailyRecord) records.ProfitLoss {
	diff := TotalIncome(r) - TotalExpense(r)
	if diff >= 0 {
		return records.ProfitLoss{Profit: diff}
	}
	return records.ProfitLoss{Loss: -diff}
}

// InMonth reports whether the record's date falls in the given month.
func InMonth(r records.DailyRecord, year int, month time.Month) bool {
	d, err := time.Parse(records.DateLayout, r.Date)
	if err != nil {
		return false
	}
	return d.Year() == year && d.Month() == month
}

// MonthlyBalance runs the month's ledger from zero on the 1st: every
// record credits its traceable income and debits its paid expense and
// purchase items. A line item without a paid flag counts as paid, for
// records written before the flag existed.
func MonthlyBalance(recs []records.DailyRecord, year int, month time.Month) float64 {
	var balance float64
	for _, r := range recs {
		if !InMonth(r, year, month) {
			continue
		}
		balance += TotalIncome(r)
		for _, li := range r.DailyExpenseList {
			if li.IsPaid() {
				balance -= li.Amount
			}
		}
		for _, li := range r.TodayPurchases {
			if li.IsPaid() {
				balance -= li.Amount
			}
		}
	}
	return balance
}
