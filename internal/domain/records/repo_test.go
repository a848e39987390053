package records

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Spok95/daybook/internal/infra/kv"
)

var testNow = time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T, store *kv.Memory, opts Options) *Repo {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	return New(store, opts)
}

func mustSave(t *testing.T, r *Repo, rec DailyRecord) DailyRecord {
	t.Helper()
	saved, err := r.Save(context.Background(), rec)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	return saved
}

func TestSaveAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, kv.NewMemory(), Options{})

	first := mustSave(t, r, DailyRecord{Date: "2026-08-29"})
	second := mustSave(t, r, DailyRecord{Date: "2026-08-30"})

	if first.ID != "1" || second.ID != "2" {
		t.Fatalf("expected ids 1,2 got %q,%q", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() || first.UpdatedAt.IsZero() {
		t.Fatalf("expected repository-stamped timestamps")
	}

	all, err := r.GetAll(ctx, false)
	if err != nil {
		t.Fatalf("getAll: %v", err)
	}
	if len(all) != 2 || all[0].ID != "2" {
		t.Fatalf("expected newest first, got %+v", all)
	}
}

func TestReconcileRenumbersAll(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	broken := []DailyRecord{
		{ID: "7", Date: "2026-08-30"},
		{ID: "7", Date: "2026-08-29"},
		{Date: "2026-08-28"},
	}
	b, _ := json.Marshal(broken)
	if err := store.Set(ctx, StorageKey, string(b)); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	r := newTestRepo(t, store, Options{})
	all, err := r.GetAll(ctx, true)
	if err != nil {
		t.Fatalf("getAll: %v", err)
	}
	for i, rec := range all {
		want := []string{"1", "2", "3"}[i]
		if rec.ID != want {
			t.Fatalf("record %d: expected id %q got %q", i, want, rec.ID)
		}
	}
}

func TestReconcileLeavesHealthyIDsAlone(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	healthy := []DailyRecord{{ID: "5", Date: "2026-08-30"}, {ID: "2", Date: "2026-08-29"}}
	b, _ := json.Marshal(healthy)
	_ = store.Set(ctx, StorageKey, string(b))
	writes := store.SetCalls()

	r := newTestRepo(t, store, Options{})
	all, err := r.GetAll(ctx, true)
	if err != nil {
		t.Fatalf("getAll: %v", err)
	}
	if all[0].ID != "5" || all[1].ID != "2" {
		t.Fatalf("ids rewritten: %+v", all)
	}
	if store.SetCalls() != writes {
		t.Fatalf("reconciliation persisted with nothing broken")
	}
}

func TestSeedingReachesTargetAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	r := newTestRepo(t, store, Options{SeedEnabled: true, SeedTarget: 5})
	all, err := r.GetAll(ctx, true)
	if err != nil {
		t.Fatalf("getAll: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 seeded records, got %d", len(all))
	}
	if all[0].Date != testNow.Format(DateLayout) {
		t.Fatalf("first seeded day should be today, got %s", all[0].Date)
	}

	writes := store.SetCalls()
	r2 := newTestRepo(t, store, Options{SeedEnabled: true, SeedTarget: 5})
	again, err := r2.GetAll(ctx, true)
	if err != nil {
		t.Fatalf("getAll: %v", err)
	}
	if len(again) != 5 {
		t.Fatalf("reseeded past target: %d", len(again))
	}
	if store.SetCalls() != writes {
		t.Fatalf("startup at target wrote to the store")
	}
}

func TestSeedingWalksBackFromOldestRecord(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	existing := []DailyRecord{{ID: "1", Date: "2026-08-20"}}
	b, _ := json.Marshal(existing)
	_ = store.Set(ctx, StorageKey, string(b))

	r := newTestRepo(t, store, Options{SeedEnabled: true, SeedTarget: 3})
	all, err := r.GetAll(ctx, true)
	if err != nil {
		t.Fatalf("getAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	dates := map[string]bool{}
	for _, rec := range all {
		dates[rec.Date] = true
	}
	if !dates["2026-08-19"] || !dates["2026-08-18"] {
		t.Fatalf("expected seeded days before the oldest record, got %v", dates)
	}
}

func TestSeedingDisabled(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, kv.NewMemory(), Options{SeedEnabled: false})
	all, err := r.GetAll(ctx, true)
	if err != nil {
		t.Fatalf("getAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("seeding ran while disabled: %d records", len(all))
	}
}

func TestSoftDeleteRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, kv.NewMemory(), Options{})
	orig := mustSave(t, r, DailyRecord{
		Date:       "2026-08-30",
		Production: []LineItem{{Name: "Bread", Quantity: 10, UnitRate: 12, Amount: 120}},
		Notes:      "busy day",
	})

	if err := r.SoftDelete(ctx, orig.ID); err != nil {
		t.Fatalf("softDelete: %v", err)
	}
	if visible, _ := r.GetAll(ctx, false); len(visible) != 0 {
		t.Fatalf("soft-deleted record still listed")
	}
	hidden, err := r.GetByID(ctx, orig.ID)
	if err != nil || hidden == nil {
		t.Fatalf("soft-deleted record not retrievable: %v", err)
	}
	if !hidden.IsDeleted || hidden.DeletedAt == nil {
		t.Fatalf("missing delete markers: %+v", hidden)
	}

	if err := r.Restore(ctx, orig.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	back, err := r.GetByID(ctx, orig.ID)
	if err != nil || back == nil {
		t.Fatalf("restored record missing: %v", err)
	}
	if back.IsDeleted || back.DeletedAt != nil {
		t.Fatalf("restore left delete markers: %+v", back)
	}
	if back.Notes != orig.Notes || len(back.Production) != 1 || back.Production[0].Amount != 120 {
		t.Fatalf("restore changed the record: %+v", back)
	}
}

func TestPermanentDeleteIsTerminal(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, kv.NewMemory(), Options{})
	rec := mustSave(t, r, DailyRecord{Date: "2026-08-30"})

	if err := r.PermanentlyDelete(ctx, rec.ID); err != nil {
		t.Fatalf("permanentlyDelete: %v", err)
	}
	got, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("getByID: %v", err)
	}
	if got != nil {
		t.Fatalf("purged record still present: %+v", got)
	}
	if err := r.Restore(ctx, rec.ID); err != nil {
		t.Fatalf("restore after purge should be a no-op, got %v", err)
	}
	if all, _ := r.GetAll(ctx, true); len(all) != 0 {
		t.Fatalf("purged record resurrected")
	}
}

func TestBulkSoftDeletePersistsOnce(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	r := newTestRepo(t, store, Options{})
	a := mustSave(t, r, DailyRecord{Date: "2026-08-28"})
	b := mustSave(t, r, DailyRecord{Date: "2026-08-29"})
	c := mustSave(t, r, DailyRecord{Date: "2026-08-30"})

	writes := store.SetCalls()
	count, err := r.BulkSoftDelete(ctx, []string{a.ID, b.ID, c.ID, "missing"})
	if err != nil {
		t.Fatalf("bulkSoftDelete: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 deleted, got %d", count)
	}
	if got := store.SetCalls() - writes; got != 1 {
		t.Fatalf("expected exactly 1 persist, got %d", got)
	}
	if visible, _ := r.GetAll(ctx, false); len(visible) != 0 {
		t.Fatalf("bulk delete missed records")
	}
}

func TestUpdateMissingIsSilentNoop(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	r := newTestRepo(t, store, Options{})
	mustSave(t, r, DailyRecord{Date: "2026-08-30"})

	writes := store.SetCalls()
	if err := r.Update(ctx, DailyRecord{ID: "404", Notes: "ghost"}); err != nil {
		t.Fatalf("update of missing id should not error: %v", err)
	}
	if store.SetCalls() != writes {
		t.Fatalf("no-op update persisted")
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, kv.NewMemory(), Options{})
	rec := mustSave(t, r, DailyRecord{Date: "2026-08-30", Notes: "before"})

	rec.Notes = "after"
	if err := r.Update(ctx, rec); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := r.GetByID(ctx, rec.ID)
	if got == nil || got.Notes != "after" {
		t.Fatalf("update did not stick: %+v", got)
	}
}

func TestClearAllWipesSiblingKeys(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	_ = store.Set(ctx, "notifications", `[{"id":"x"}]`)
	r := newTestRepo(t, store, Options{})
	mustSave(t, r, DailyRecord{Date: "2026-08-30"})

	if err := r.ClearAll(ctx); err != nil {
		t.Fatalf("clearAll: %v", err)
	}
	if all, _ := r.GetAll(ctx, true); len(all) != 0 {
		t.Fatalf("records survived clearAll")
	}
	if keys := store.Keys(); len(keys) != 0 {
		t.Fatalf("sibling keys survived clearAll: %v", keys)
	}
}

func TestGetAllReturnsDefensiveCopies(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, kv.NewMemory(), Options{})
	mustSave(t, r, DailyRecord{
		Date:       "2026-08-30",
		Production: []LineItem{{Name: "Bread", Amount: 120}},
	})

	all, _ := r.GetAll(ctx, false)
	all[0].Production[0].Amount = 9999

	again, _ := r.GetAll(ctx, false)
	if again[0].Production[0].Amount != 120 {
		t.Fatalf("caller mutation leaked into the repository")
	}
}

func TestStorageErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	r := newTestRepo(t, store, Options{})
	mustSave(t, r, DailyRecord{Date: "2026-08-30"})

	store.FailNext = context.DeadlineExceeded
	if _, err := r.Save(ctx, DailyRecord{Date: "2026-08-30"}); err == nil {
		t.Fatalf("expected storage error to propagate")
	}
}

func TestOnChangeFires(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t, kv.NewMemory(), Options{})

	var events []Event
	r.OnChange(func(ev Event) { events = append(events, ev) })

	rec := mustSave(t, r, DailyRecord{Date: "2026-08-30"})
	_ = r.SoftDelete(ctx, rec.ID)

	if len(events) != 2 || events[0].Op != OpSave || events[1].Op != OpSoftDelete {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].ID != rec.ID {
		t.Fatalf("event missing record id: %+v", events[0])
	}
}
