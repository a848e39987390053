package records

import "time"

// DateLayout is the calendar-day format used everywhere in the store.
// Dates are kept as plain strings so records survive JSON round trips
// without timezone drift.
const DateLayout = "2006-01-02"

// LineItem is one row of a production, expense or purchase list. Amount is
// quantity×unitRate as entered by the caller; the repository stores it as-is
// and never recomputes it. Paid is a pointer because older records predate
// the flag: missing means paid.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	UnitRate float64 `json:"unitRate,omitempty"`
	Amount   float64 `json:"amount"`
	Paid     *bool   `json:"paid,omitempty"`
}

// IsPaid treats a missing flag as paid, for records created before the
// flag existed.
func (li LineItem) IsPaid() bool { return li.Paid == nil || *li.Paid }

type IncomeItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// IncomeChannels is the fixed set of money channels tallied per day.
// Cash is tracked but deliberately excluded from the traceable income
// total; it feeds the separate offline tally.
type IncomeChannels struct {
	Gpay           float64 `json:"gpay"`
	Paytm          float64 `json:"paytm"`
	Cash           float64 `json:"cash"`
	OnDrawer       float64 `json:"onDrawer"`
	OnOutsideOrder float64 `json:"onOutsideOrder"`
}

// ProfitLoss holds the day's outcome. At most one side is non-zero.
type ProfitLoss struct {
	Profit float64 `json:"profit"`
	Loss   float64 `json:"loss"`
}

// DailyRecord is one business day. IDs are numeric strings assigned by the
// repository; multiple records may share a date (consumers treat the most
// recent as "today's").
type DailyRecord struct {
	ID                 string         `json:"id"`
	Date               string         `json:"date"`
	Production         []LineItem     `json:"production"`
	DailyExpenseList   []LineItem     `json:"dailyExpenseList"`
	TodayPurchases     []LineItem     `json:"todayPurchases"`
	IncomeItems        []IncomeItem   `json:"incomeItems"`
	DailyIncomeAmount  IncomeChannels `json:"dailyIncomeAmount"`
	ExpectedIncome     float64        `json:"expectedIncome"`
	Chains             float64        `json:"chains"`
	BackMoneyInBag     float64        `json:"backMoneyInBag"`
	WasteMaterialNotes string         `json:"wasteMaterialNotes"`
	Notes              string         `json:"notes"`
	DailyProfit        ProfitLoss     `json:"dailyProfit"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	IsDeleted          bool           `json:"isDeleted,omitempty"`
	DeletedAt          *time.Time     `json:"deletedAt,omitempty"`
}

func cloneItems(in []LineItem) []LineItem {
	if in == nil {
		return nil
	}
	out := make([]LineItem, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Paid != nil {
			p := *out[i].Paid
			out[i].Paid = &p
		}
	}
	return out
}

// Clone returns a copy that shares no mutable state with the original.
func (r DailyRecord) Clone() DailyRecord {
	out := r
	out.Production = cloneItems(r.Production)
	out.DailyExpenseList = cloneItems(r.DailyExpenseList)
	out.TodayPurchases = cloneItems(r.TodayPurchases)
	if r.IncomeItems != nil {
		out.IncomeItems = make([]IncomeItem, len(r.IncomeItems))
		copy(out.IncomeItems, r.IncomeItems)
	}
	if r.DeletedAt != nil {
		t := *r.DeletedAt
		out.DeletedAt = &t
	}
	return out
}
