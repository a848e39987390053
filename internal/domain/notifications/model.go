package notifications

import "time"

const (
	TypeReminder = "reminder"

	// CategoryDailyEntry groups the "no entry for today yet" reminders.
	CategoryDailyEntry = "daily-entry"
)

// Notification is one in-app list entry. Identity is the ID string;
// generated notifications use stable ids (a pure function of category,
// time slot and date) so regeneration updates in place instead of
// duplicating.
type Notification struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Category    string            `json:"category"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Timestamp   time.Time         `json:"timestamp"`
	IsRead      bool              `json:"isRead"`
	ActionRoute string            `json:"actionRoute,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (n Notification) clone() Notification {
	out := n
	if n.Metadata != nil {
		out.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
