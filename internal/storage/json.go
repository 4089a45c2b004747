// Package storage provides the persistence layer for the inventory catalog.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmacedo/abcstock/internal/model"
)

// itemRecord is the persisted representation of an item. TotalValue is never
// part of the schema; it is always recomputed.
type itemRecord struct {
	Code                  string      `json:"code"`
	Name                  string      `json:"name"`
	MovesPerMonth         int         `json:"movesPerMonth"`
	UnitPrice             float64     `json:"unitPrice"`
	AccumulatedPercentage float64     `json:"accumulatedPercentage"`
	Classification        model.Class `json:"classification"`
}

func toRecord(item model.Item) itemRecord {
	return itemRecord{
		Code:                  item.Code,
		Name:                  item.Name,
		MovesPerMonth:         item.MovesPerMonth,
		UnitPrice:             item.UnitPrice,
		AccumulatedPercentage: item.AccumulatedPercentage,
		Classification:        item.Classification,
	}
}

func (r itemRecord) toItem() model.Item {
	return model.Item{
		Code:                  r.Code,
		Name:                  r.Name,
		MovesPerMonth:         r.MovesPerMonth,
		UnitPrice:             r.UnitPrice,
		AccumulatedPercentage: r.AccumulatedPercentage,
		Classification:        r.Classification,
	}
}

// JSONStorage persists the collection as a single JSON array on disk.
type JSONStorage struct {
	path string
}

// NewJSONStorage creates a JSON file storage instance, ensuring the parent
// directory exists.
func NewJSONStorage(path string) (*JSONStorage, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &JSONStorage{path: path}, nil
}

// LoadAll reads the persisted collection. A missing, empty, or corrupt file
// yields an empty collection with a diagnostic, never an error. Items that
// fail validation are dropped and logged individually.
func (s *JSONStorage) LoadAll(ctx context.Context) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no inventory file yet", "path", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []itemRecord
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("inventory file is corrupt, starting empty", "path", s.path, "error", err)
		return nil, nil
	}

	return filterValid(recordsToItems(records)), nil
}

// SaveAll overwrites the persisted collection. The write goes to a temporary
// file in the same directory first and is renamed into place, so a failure
// mid-write never leaves a truncated inventory file behind.
func (s *JSONStorage) SaveAll(ctx context.Context, items []model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if items == nil {
		items = []model.Item{}
	}

	records := make([]itemRecord, len(items))
	for i, item := range items {
		records[i] = toRecord(item)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".inventory-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write inventory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace inventory file: %w", err)
	}

	slog.Debug("saved inventory", "path", s.path, "count", len(items))
	return nil
}

// Close is a no-op; the file is not held open between operations.
func (s *JSONStorage) Close() error {
	return nil
}

func recordsToItems(records []itemRecord) []model.Item {
	items := make([]model.Item, len(records))
	for i, r := range records {
		items[i] = r.toItem()
	}
	return items
}

// filterValid drops items that fail validation, logging each one. Load never
// aborts on a bad record; the caller just sees fewer items.
func filterValid(items []model.Item) []model.Item {
	valid := make([]model.Item, 0, len(items))
	dropped := 0
	for _, item := range items {
		if err := item.Validate(); err != nil {
			slog.Warn("dropping invalid persisted item", "code", item.Code, "error", err)
			dropped++
			continue
		}
		valid = append(valid, item)
	}
	if dropped > 0 {
		slog.Info("dropped invalid items during load", "dropped", dropped, "kept", len(valid))
	}
	return valid
}
