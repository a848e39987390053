package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Spok95/daybook/internal/infra/kv"
)

// StorageKey is the blob key holding the whole record collection.
const StorageKey = "daily_records"

// Op identifies what a change event was about.
type Op string

const (
	OpSave           Op = "save"
	OpUpdate         Op = "update"
	OpSoftDelete     Op = "soft_delete"
	OpRestore        Op = "restore"
	OpPurge          Op = "purge"
	OpBulkSoftDelete Op = "bulk_soft_delete"
	OpClear          Op = "clear"
)

// Event is delivered to OnChange listeners after a successful persist.
type Event struct {
	Op Op
	ID string // empty for bulk/clear
}

// Options tunes startup behavior. The demo seeding exists so a fresh
// install has something to show; disable it for real books.
type Options struct {
	SeedEnabled bool
	SeedTarget  int
	Now         func() time.Time
}

// Repo owns the daily-record collection. All state lives behind the
// mutex; every mutation rewrites the whole blob. Collections stay small
// (tens of records) so that trade-off is fine.
type Repo struct {
	store kv.Store
	now   func() time.Time

	seedEnabled bool
	seedTarget  int

	mu        sync.Mutex
	loaded    bool
	items     []DailyRecord
	listeners []func(Event)
}

func New(store kv.Store, opts Options) *Repo {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SeedTarget <= 0 {
		opts.SeedTarget = 33
	}
	return &Repo{
		store:       store,
		now:         opts.Now,
		seedEnabled: opts.SeedEnabled,
		seedTarget:  opts.SeedTarget,
	}
}

// OnChange registers a listener called after every successful persist.
// Listeners run outside the repository lock and may call back into it.
func (r *Repo) OnChange(fn func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Repo) emit(ev Event) {
	r.mu.Lock()
	ls := make([]func(Event), len(r.listeners))
	copy(ls, r.listeners)
	r.mu.Unlock()
	for _, fn := range ls {
		fn(ev)
	}
}

// ensure loads, repairs and seeds the collection exactly once. Callers
// must hold the lock.
func (r *Repo) ensure(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	raw, ok, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("records: load: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &r.items); err != nil {
			return fmt.Errorf("records: decode: %w", err)
		}
	}
	if err := r.reconcileIDs(ctx); err != nil {
		return err
	}
	if r.seedEnabled && len(r.items) < r.seedTarget {
		if err := r.seedDemoData(ctx); err != nil {
			return err
		}
	}
	r.loaded = true
	return nil
}

// reconcileIDs repairs duplicate or missing ids. The repair renumbers
// every record from "1" in current array order, not just the broken
// ones: consumers rely on id order matching recency order.
func (r *Repo) reconcileIDs(ctx context.Context) error {
	seen := make(map[string]bool, len(r.items))
	broken := false
	for _, rec := range r.items {
		if rec.ID == "" || seen[rec.ID] {
			broken = true
			break
		}
		seen[rec.ID] = true
	}
	if !broken {
		return nil
	}
	for i := range r.items {
		r.items[i].ID = strconv.Itoa(i + 1)
	}
	return r.persist(ctx)
}

func (r *Repo) persist(ctx context.Context) error {
	b, err := json.Marshal(r.items)
	if err != nil {
		return fmt.Errorf("records: encode: %w", err)
	}
	return r.store.Set(ctx, StorageKey, string(b))
}

func (r *Repo) nextID() string {
	max := 0
	for _, rec := range r.items {
		if n, err := strconv.Atoi(rec.ID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

func (r *Repo) indexOf(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

// GetAll returns a defensive copy, newest first. Soft-deleted records are
// excluded unless includeDeleted is set.
func (r *Repo) GetAll(ctx context.Context, includeDeleted bool) ([]DailyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	out := make([]DailyRecord, 0, len(r.items))
	for _, rec := range r.items {
		if !includeDeleted && rec.IsDeleted {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out, nil
}

// GetByID returns the record or nil when unknown.
func (r *Repo) GetByID(ctx context.Context, id string) (*DailyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	rec := r.items[i].Clone()
	return &rec, nil
}

// Save inserts a record at the front. A record without an id gets
// max(numeric ids)+1 and a CreatedAt stamp; UpdatedAt is always stamped.
func (r *Repo) Save(ctx context.Context, rec DailyRecord) (DailyRecord, error) {
	r.mu.Lock()
	if err := r.ensure(ctx); err != nil {
		r.mu.Unlock()
		return DailyRecord{}, err
	}
	now := r.now()
	if rec.ID == "" {
		rec.ID = r.nextID()
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	r.items = append([]DailyRecord{rec.Clone()}, r.items...)
	if err := r.persist(ctx); err != nil {
		r.mu.Unlock()
		return DailyRecord{}, err
	}
	r.mu.Unlock()
	r.emit(Event{Op: OpSave, ID: rec.ID})
	return rec, nil
}

// Update replaces the record with the same id in place. An unknown id is
// a silent no-op: callers are expected to have checked existence.
func (r *Repo) Update(ctx context.Context, rec DailyRecord) error {
	r.mu.Lock()
	if err := r.ensure(ctx); err != nil {
		r.mu.Unlock()
		return err
	}
	i := r.indexOf(rec.ID)
	if i < 0 {
		r.mu.Unlock()
		return nil
	}
	rec.UpdatedAt = r.now()
	r.items[i] = rec.Clone()
	if err := r.persist(ctx); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()
	r.emit(Event{Op: OpUpdate, ID: rec.ID})
	return nil
}

// SoftDelete marks the record deleted; it stays retrievable with
// includeDeleted until purged.
func (r *Repo) SoftDelete(ctx context.Context, id string) error {
	return r.transition(ctx, id, OpSoftDelete)
}

// Restore brings a soft-deleted record back to active.
func (r *Repo) Restore(ctx context.Context, id string) error {
	return r.transition(ctx, id, OpRestore)
}

func (r *Repo) transition(ctx context.Context, id string, op Op) error {
	r.mu.Lock()
	if err := r.ensure(ctx); err != nil {
		r.mu.Unlock()
		return err
	}
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return nil
	}
	now := r.now()
	switch op {
	case OpSoftDelete:
		r.items[i].IsDeleted = true
		r.items[i].DeletedAt = &now
	case OpRestore:
		r.items[i].IsDeleted = false
		r.items[i].DeletedAt = nil
	}
	r.items[i].UpdatedAt = now
	if err := r.persist(ctx); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()
	r.emit(Event{Op: op, ID: id})
	return nil
}

// PermanentlyDelete removes the record from storage. Terminal: the id is
// gone and Restore becomes a no-op.
func (r *Repo) PermanentlyDelete(ctx context.Context, id string) error {
	r.mu.Lock()
	if err := r.ensure(ctx); err != nil {
		r.mu.Unlock()
		return err
	}
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return nil
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	if err := r.persist(ctx); err != nil {
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()
	r.emit(Event{Op: OpPurge, ID: id})
	return nil
}

// BulkSoftDelete soft-deletes every matching id in one pass and one
// persist call, regardless of how many ids matched.
func (r *Repo) BulkSoftDelete(ctx context.Context, ids []string) (int, error) {
	r.mu.Lock()
	if err := r.ensure(ctx); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	now := r.now()
	count := 0
	for i := range r.items {
		if !want[r.items[i].ID] {
			continue
		}
		r.items[i].IsDeleted = true
		r.items[i].DeletedAt = &now
		r.items[i].UpdatedAt = now
		count++
	}
	if count == 0 {
		r.mu.Unlock()
		return 0, nil
	}
	if err := r.persist(ctx); err != nil {
		r.mu.Unlock()
		return 0, err
	}
	r.mu.Unlock()
	r.emit(Event{Op: OpBulkSoftDelete})
	return count, nil
}

// ClearAll wipes the entire backing store, sibling keys included (the
// notification blob and pick lists reset too), and empties the cache.
func (r *Repo) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	if err := r.store.Clear(ctx); err != nil {
		r.mu.Unlock()
		return err
	}
	r.items = nil
	r.loaded = true
	r.mu.Unlock()
	r.emit(Event{Op: OpClear})
	return nil
}
