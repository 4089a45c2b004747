// Package inventory implements the record store and ABC classifier.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmacedo/abcstock/internal/common"
	"github.com/jmacedo/abcstock/internal/model"
	"github.com/jmacedo/abcstock/internal/service"
)

// Store holds the in-memory item collection and coordinates every mutation
// with a validate-then-persist-or-rollback discipline. It is built for a
// single caller: operations run to completion one at a time, and no internal
// locking is provided.
type Store struct {
	storage service.Storage
	items   []*model.Item
}

// NewStore creates an empty store backed by the given storage collaborator.
// Call Load to pull in previously persisted items.
func NewStore(storage service.Storage) *Store {
	return &Store{storage: storage}
}

// Load replaces the collection with the persisted items. The storage layer
// has already dropped anything that fails validation.
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.storage.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	s.items = make([]*model.Item, 0, len(loaded))
	for i := range loaded {
		item := loaded[i]
		s.items = append(s.items, &item)
	}

	slog.Debug("loaded inventory", "count", len(s.items))
	return nil
}

// Len returns the number of items in the collection.
func (s *Store) Len() int {
	return len(s.items)
}

// Add appends a new item to the collection. The whole collection is
// re-validated and persisted before classification runs; any failure rolls
// the append back.
func (s *Store) Add(ctx context.Context, item *model.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if existing := s.find(item.Code); existing != nil {
		return &common.DuplicateCodeError{Code: item.Code}
	}

	s.items = append(s.items, item)

	if err := s.validateAll(); err != nil {
		s.items = s.items[:len(s.items)-1]
		return err
	}
	if err := s.persist(ctx); err != nil {
		s.items = s.items[:len(s.items)-1]
		return err
	}

	s.ClassifyAll()
	slog.Debug("added item", "code", item.Code)
	return nil
}

// Find looks up an item by code, case-insensitively. A blank code is treated
// as not found without performing a lookup. The returned item is a copy.
func (s *Store) Find(code string) (model.Item, bool) {
	if strings.TrimSpace(code) == "" {
		return model.Item{}, false
	}
	if item := s.find(code); item != nil {
		return *item, true
	}
	return model.Item{}, false
}

// ListAll returns a defensive copy of the full collection in insertion order.
func (s *Store) ListAll() []model.Item {
	out := make([]model.Item, len(s.items))
	for i, item := range s.items {
		out[i] = *item
	}
	return out
}

// ItemUpdate carries the mutable field values applied by Update.
type ItemUpdate struct {
	Name          string
	MovesPerMonth int
	UnitPrice     float64
}

// Update applies new field values onto an existing item. On a validation or
// persistence failure the original field values are restored; the item is
// never dropped. Reclassification runs only when the value metric inputs
// actually changed, since a name edit cannot move any tier boundary.
func (s *Store) Update(ctx context.Context, code string, changes ItemUpdate) error {
	item := s.find(code)
	if item == nil {
		return &common.NotFoundError{Code: strings.ToUpper(strings.TrimSpace(code))}
	}

	prevName := item.Name
	prevMoves := item.MovesPerMonth
	prevPrice := item.UnitPrice

	item.Name = changes.Name
	item.MovesPerMonth = changes.MovesPerMonth
	item.UnitPrice = changes.UnitPrice

	restore := func() {
		item.Name = prevName
		item.MovesPerMonth = prevMoves
		item.UnitPrice = prevPrice
	}

	if err := s.validateAll(); err != nil {
		restore()
		return err
	}
	if err := s.persist(ctx); err != nil {
		restore()
		return err
	}

	if item.MovesPerMonth != prevMoves || item.UnitPrice != prevPrice {
		s.ClassifyAll()
	}

	slog.Debug("updated item", "code", item.Code)
	return nil
}

// Remove deletes the item with the given code and reports whether anything
// was removed. A blank or unknown code returns false without error.
func (s *Store) Remove(ctx context.Context, code string) (bool, error) {
	if strings.TrimSpace(code) == "" {
		return false, nil
	}

	idx := -1
	for i, item := range s.items {
		if strings.EqualFold(item.Code, code) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	prev := s.items
	rest := make([]*model.Item, 0, len(s.items)-1)
	rest = append(rest, s.items[:idx]...)
	rest = append(rest, s.items[idx+1:]...)
	s.items = rest

	// Removing an item cannot invalidate the survivors, but the pre-commit
	// gate runs anyway so the collection invariant never depends on that
	// reasoning staying true.
	if err := s.validateAll(); err != nil {
		s.items = prev
		return false, err
	}
	if err := s.persist(ctx); err != nil {
		s.items = prev
		return false, err
	}

	s.ClassifyAll()
	slog.Debug("removed item", "code", prev[idx].Code)
	return true, nil
}

// find returns the live item with the given code, or nil. Comparison is
// case-insensitive; stored codes are already uppercased.
func (s *Store) find(code string) *model.Item {
	for _, item := range s.items {
		if strings.EqualFold(item.Code, code) {
			return item
		}
	}
	return nil
}

// validateAll re-validates every item, short-circuiting on the first
// failure. It is the pre-commit gate for every mutating operation: the
// collection is always fully valid between operations.
func (s *Store) validateAll() error {
	for _, item := range s.items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// persist writes the current collection through the storage collaborator.
// Callers roll back their in-memory mutation when this fails.
func (s *Store) persist(ctx context.Context) error {
	if err := s.storage.SaveAll(ctx, s.ListAll()); err != nil {
		return fmt.Errorf("failed to persist items: %w", err)
	}
	return nil
}
