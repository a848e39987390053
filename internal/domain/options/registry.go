// Package options holds the small "pick list" registries the entry forms
// feed from: production items, expense items, purchase items, income
// sources and waste materials. All five share one implementation,
// parameterized by storage key and seed list, with the same soft-delete
// lifecycle as daily records.
package options

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Spok95/daybook/internal/infra/kv"
)

// Option is one pick-list entry. Names are unique case-insensitively
// among active entries of a registry.
type Option struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IsDeleted bool       `json:"isDeleted,omitempty"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

type Registry struct {
	store kv.Store
	key   string
	seed  []string
	now   func() time.Time

	mu     sync.Mutex
	loaded bool
	items  []Option
}

func NewRegistry(store kv.Store, key string, seed []string) *Registry {
	return &Registry{store: store, key: key, seed: seed, now: time.Now}
}

// The five registries of the bookkeeping app, with their fixed storage
// keys and default seed lists.

func NewProductionItems(s kv.Store) *Registry {
	return NewRegistry(s, "production_items_list",
		[]string{"Bread", "Bun", "Rusk", "Cake", "Cream Roll"})
}

func NewExpenseItems(s kv.Store) *Registry {
	return NewRegistry(s, "expense_items_list",
		[]string{"Flour", "Sugar", "Ghee", "Yeast", "Fuel", "Electricity"})
}

func NewPurchaseItems(s kv.Store) *Registry {
	return NewRegistry(s, "purchase_items_list",
		[]string{"Milk", "Eggs", "Butter", "Packing Material"})
}

func NewIncomeItems(s kv.Store) *Registry {
	return NewRegistry(s, "income_items_list",
		[]string{"Counter Sale", "Online Order", "Wholesale"})
}

func NewWasteMaterialItems(s kv.Store) *Registry {
	return NewRegistry(s, "waste_material_items_list",
		[]string{"Burnt Batch", "Stale Return", "Damaged Packing"})
}

// ensure loads the list once. An empty store gets the seed list; a loaded
// list with missing ids gets them generated and persisted, a one-time
// repair for lists written before ids existed.
func (g *Registry) ensure(ctx context.Context) error {
	if g.loaded {
		return nil
	}
	raw, ok, err := g.store.Get(ctx, g.key)
	if err != nil {
		return fmt.Errorf("options %s: load: %w", g.key, err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &g.items); err != nil {
			return fmt.Errorf("options %s: decode: %w", g.key, err)
		}
	}
	if len(g.items) == 0 {
		for i, name := range g.seed {
			g.items = append(g.items, Option{ID: strconv.Itoa(i + 1), Name: name})
		}
		if err := g.persist(ctx); err != nil {
			return err
		}
	} else {
		repaired := false
		for i := range g.items {
			if g.items[i].ID == "" {
				g.items[i].ID = g.nextID()
				repaired = true
			}
		}
		if repaired {
			if err := g.persist(ctx); err != nil {
				return err
			}
		}
	}
	g.loaded = true
	return nil
}

func (g *Registry) persist(ctx context.Context) error {
	b, err := json.Marshal(g.items)
	if err != nil {
		return fmt.Errorf("options %s: encode: %w", g.key, err)
	}
	return g.store.Set(ctx, g.key, string(b))
}

func (g *Registry) nextID() string {
	max := 0
	for _, it := range g.items {
		if n, err := strconv.Atoi(it.ID); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

func (g *Registry) GetAll(ctx context.Context, includeDeleted bool) ([]Option, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensure(ctx); err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(g.items))
	for _, it := range g.items {
		if !includeDeleted && it.IsDeleted {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// Add appends a new active entry. The name is trimmed and checked
// case-insensitively against active entries only; a duplicate is a
// silent no-op, and re-adding a name that exists only soft-deleted
// creates a fresh entry rather than resurrecting the old one.
func (g *Registry) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensure(ctx); err != nil {
		return err
	}
	for _, it := range g.items {
		if !it.IsDeleted && strings.EqualFold(it.Name, name) {
			return nil
		}
	}
	g.items = append(g.items, Option{ID: g.nextID(), Name: name})
	return g.persist(ctx)
}

// Rename changes the first entry whose current name matches exactly.
func (g *Registry) Rename(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensure(ctx); err != nil {
		return err
	}
	for i := range g.items {
		if g.items[i].Name == oldName {
			g.items[i].Name = newName
			return g.persist(ctx)
		}
	}
	return nil
}

func (g *Registry) SoftDelete(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensure(ctx); err != nil {
		return err
	}
	for i := range g.items {
		if g.items[i].Name == name && !g.items[i].IsDeleted {
			now := g.now()
			g.items[i].IsDeleted = true
			g.items[i].DeletedAt = &now
			return g.persist(ctx)
		}
	}
	return nil
}

func (g *Registry) Restore(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensure(ctx); err != nil {
		return err
	}
	for i := range g.items {
		if g.items[i].Name == name && g.items[i].IsDeleted {
			g.items[i].IsDeleted = false
			g.items[i].DeletedAt = nil
			return g.persist(ctx)
		}
	}
	return nil
}

func (g *Registry) PermanentlyDelete(ctx context.Context, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.ensure(ctx); err != nil {
		return err
	}
	for i := range g.items {
		if g.items[i].Name == name {
			g.items = append(g.items[:i], g.items[i+1:]...)
			return g.persist(ctx)
		}
	}
	return nil
}
