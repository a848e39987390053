package records

import (
	"context"
	"strconv"
	"time"
)

// Demo fixtures for a fresh install. Three canned day shapes rotate while
// the seeder walks backward one day at a time from the oldest existing
// record (or from today when the book is empty) until the collection
// reaches the configured target. Seeding runs at most once per install:
// a collection at or above target is never touched again.

type seedPattern struct {
	production []LineItem
	expenses   []LineItem
	purchases  []LineItem
	income     IncomeChannels
	profit     ProfitLoss
}

var seedPatterns = []seedPattern{
	{
		production: []LineItem{
			{Name: "Bread", Quantity: 60, UnitRate: 12, Amount: 720},
			{Name: "Bun", Quantity: 80, UnitRate: 5, Amount: 400},
		},
		expenses: []LineItem{
			{Name: "Flour", Quantity: 25, UnitRate: 32, Amount: 800},
			{Name: "Fuel", Quantity: 1, UnitRate: 350, Amount: 350},
		},
		purchases: []LineItem{
			{Name: "Milk", Quantity: 10, UnitRate: 55, Amount: 550},
		},
		income: IncomeChannels{Gpay: 1400, Paytm: 600, Cash: 900, OnDrawer: 250, OnOutsideOrder: 150},
		profit: ProfitLoss{Profit: 700},
	},
	{
		production: []LineItem{
			{Name: "Cake", Quantity: 6, UnitRate: 180, Amount: 1080},
			{Name: "Rusk", Quantity: 40, UnitRate: 8, Amount: 320},
		},
		expenses: []LineItem{
			{Name: "Sugar", Quantity: 15, UnitRate: 42, Amount: 630},
			{Name: "Ghee", Quantity: 2, UnitRate: 480, Amount: 960},
		},
		purchases: []LineItem{
			{Name: "Eggs", Quantity: 90, UnitRate: 6, Amount: 540},
			{Name: "Packing Material", Quantity: 1, UnitRate: 200, Amount: 200},
		},
		income: IncomeChannels{Gpay: 1100, Paytm: 850, Cash: 700, OnDrawer: 300, OnOutsideOrder: 400},
		profit: ProfitLoss{Profit: 320},
	},
	{
		production: []LineItem{
			{Name: "Cream Roll", Quantity: 50, UnitRate: 10, Amount: 500},
		},
		expenses: []LineItem{
			{Name: "Flour", Quantity: 20, UnitRate: 32, Amount: 640},
			{Name: "Yeast", Quantity: 2, UnitRate: 90, Amount: 180},
			{Name: "Electricity", Quantity: 1, UnitRate: 500, Amount: 500},
		},
		purchases: []LineItem{
			{Name: "Butter", Quantity: 4, UnitRate: 240, Amount: 960},
		},
		income: IncomeChannels{Gpay: 600, Paytm: 450, Cash: 500, OnDrawer: 150, OnOutsideOrder: 100},
		profit: ProfitLoss{Loss: 1080},
	},
}

// oldestDate finds the earliest parseable record date. Falls back to
// today when the collection is empty or dates are unusable.
func (r *Repo) oldestDate(today time.Time) time.Time {
	oldest := today
	found := false
	for _, rec := range r.items {
		d, err := time.Parse(DateLayout, rec.Date)
		if err != nil {
			continue
		}
		if !found || d.Before(oldest) {
			oldest = d
			found = true
		}
	}
	if !found {
		// one past today so the first seeded day lands on today
		return today.AddDate(0, 0, 1)
	}
	return oldest
}

// seedDemoData appends synthetic historical days until the collection
// (active and deleted alike) reaches the target, then persists once.
// Callers must hold the lock.
func (r *Repo) seedDemoData(ctx context.Context) error {
	now := r.now()
	day := r.oldestDate(now)
	id := 0
	for _, rec := range r.items {
		if n, err := strconv.Atoi(rec.ID); err == nil && n > id {
			id = n
		}
	}
	for i := 0; len(r.items) < r.seedTarget; i++ {
		day = day.AddDate(0, 0, -1)
		p := seedPatterns[i%len(seedPatterns)]
		id++
		rec := DailyRecord{
			ID:                strconv.Itoa(id),
			Date:              day.Format(DateLayout),
			Production:        cloneItems(p.production),
			DailyExpenseList:  cloneItems(p.expenses),
			TodayPurchases:    cloneItems(p.purchases),
			DailyIncomeAmount: p.income,
			DailyProfit:       p.profit,
			Notes:             "demo entry",
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		r.items = append(r.items, rec)
	}
	return r.persist(ctx)
}
