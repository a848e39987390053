// Package notifications derives the in-app reminder list from the current
// record snapshot. Generation is declarative: every run recomputes the
// desired set and merges it into the persisted one by stable id, so
// re-running never duplicates a reminder and never resurrects one the
// owner already read.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Spok95/daybook/internal/domain/records"
	"github.com/Spok95/daybook/internal/infra/kv"
	"github.com/Spok95/daybook/internal/infra/metrics"
)

// StorageKey is the blob key holding the persisted notification list.
const StorageKey = "notifications"

const (
	retention = 7 * 24 * time.Hour
	maxKept   = 100

	reminderIDPrefix = "daily-reminder-"
)

// checkpoints are the times of day after which a missing entry for today
// earns a reminder. Each slot gets its own notification, so the list
// grows as the day goes on.
var checkpoints = []string{"08:00", "12:00", "16:00", "19:00", "21:00"}

// ReminderID builds the stable id for one checkpoint on one day, e.g.
// "daily-reminder-16:00-2026-08-30".
func ReminderID(slot, date string) string {
	return reminderIDPrefix + slot + "-" + date
}

type Engine struct {
	store   kv.Store
	records *records.Repo
	loc     *time.Location
	now     func() time.Time

	mu     sync.Mutex
	loaded bool
	items  []Notification
}

type EngineOptions struct {
	Location *time.Location
	Now      func() time.Time
}

func NewEngine(store kv.Store, repo *records.Repo, opts EngineOptions) *Engine {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{store: store, records: repo, loc: opts.Location, now: opts.Now}
}

func (e *Engine) ensure(ctx context.Context) error {
	if e.loaded {
		return nil
	}
	raw, ok, err := e.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("notifications: load: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &e.items); err != nil {
			return fmt.Errorf("notifications: decode: %w", err)
		}
	}
	e.loaded = true
	return nil
}

func (e *Engine) persist(ctx context.Context) error {
	b, err := json.Marshal(e.items)
	if err != nil {
		return fmt.Errorf("notifications: encode: %w", err)
	}
	return e.store.Set(ctx, StorageKey, string(b))
}

// addOrUpdate merges one desired notification by id. Content fields are
// overwritten; the original Timestamp and IsRead survive, which is what
// keeps regeneration idempotent.
func (e *Engine) addOrUpdate(n Notification) {
	for i := range e.items {
		if e.items[i].ID == n.ID {
			n.Timestamp = e.items[i].Timestamp
			n.IsRead = e.items[i].IsRead
			e.items[i] = n
			return
		}
	}
	e.items = append([]Notification{n}, e.items...)
}

func slotTime(slot string, day time.Time) time.Time {
	t, _ := time.Parse("15:04", slot)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}

// Generate recomputes the notification set from the current records.
// Rules: empty book clears everything; entries older than 7 days are
// pruned; a day without a record earns one reminder per passed
// checkpoint; a recorded day loses all its daily reminders; at most 100
// notifications are kept, oldest evicted first.
func (e *Engine) Generate(ctx context.Context) error {
	recs, err := e.records.GetAll(ctx, false)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensure(ctx); err != nil {
		return err
	}
	metrics.NotificationRuns.Inc()

	if len(recs) == 0 {
		e.items = nil
		return e.persist(ctx)
	}

	now := e.now().In(e.loc)
	today := now.Format(records.DateLayout)

	kept := e.items[:0:0]
	for _, n := range e.items {
		if now.Sub(n.Timestamp) <= retention {
			kept = append(kept, n)
		}
	}
	e.items = kept

	hasToday := false
	for _, rec := range recs {
		if rec.Date == today {
			hasToday = true
			break
		}
	}

	if hasToday {
		kept := e.items[:0:0]
		for _, n := range e.items {
			if !strings.HasPrefix(n.ID, reminderIDPrefix) {
				kept = append(kept, n)
			}
		}
		e.items = kept
	} else {
		for _, slot := range checkpoints {
			if now.Before(slotTime(slot, now)) {
				continue
			}
			e.addOrUpdate(Notification{
				ID:          ReminderID(slot, today),
				Type:        TypeReminder,
				Category:    CategoryDailyEntry,
				Title:       "Daily entry pending",
				Message:     fmt.Sprintf("No record for %s yet (%s check).", today, slot),
				Timestamp:   now,
				ActionRoute: "/record/new",
				Metadata:    map[string]string{"date": today, "slot": slot},
			})
		}
	}

	for len(e.items) > maxKept {
		oldest := 0
		for i := range e.items {
			if e.items[i].Timestamp.Before(e.items[oldest].Timestamp) {
				oldest = i
			}
		}
		e.items = append(e.items[:oldest], e.items[oldest+1:]...)
	}

	return e.persist(ctx)
}

func (e *Engine) GetAll(ctx context.Context) ([]Notification, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensure(ctx); err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(e.items))
	for _, n := range e.items {
		out = append(out, n.clone())
	}
	return out, nil
}

func (e *Engine) UnreadCount(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensure(ctx); err != nil {
		return 0, err
	}
	count := 0
	for _, n := range e.items {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkRead flags one notification read. Unknown ids are a silent no-op.
func (e *Engine) MarkRead(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensure(ctx); err != nil {
		return err
	}
	for i := range e.items {
		if e.items[i].ID == id {
			if e.items[i].IsRead {
				return nil
			}
			e.items[i].IsRead = true
			return e.persist(ctx)
		}
	}
	return nil
}

func (e *Engine) MarkAllRead(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensure(ctx); err != nil {
		return err
	}
	changed := false
	for i := range e.items {
		if !e.items[i].IsRead {
			e.items[i].IsRead = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return e.persist(ctx)
}

func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensure(ctx); err != nil {
		return err
	}
	for i := range e.items {
		if e.items[i].ID == id {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return e.persist(ctx)
		}
	}
	return nil
}

func (e *Engine) DeleteAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensure(ctx); err != nil {
		return err
	}
	e.items = nil
	return e.persist(ctx)
}

// DeleteRead drops every notification already marked read.
func (e *Engine) DeleteRead(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensure(ctx); err != nil {
		return err
	}
	kept := e.items[:0:0]
	for _, n := range e.items {
		if !n.IsRead {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(e.items) {
		return nil
	}
	e.items = kept
	return e.persist(ctx)
}
