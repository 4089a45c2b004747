// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"

	"github.com/jmacedo/abcstock/internal/common"
)

// Class is an ABC inventory tier assigned by cumulative share of total value.
type Class string

// Classification tiers, highest value share first.
const (
	ClassA Class = "A"
	ClassB Class = "B"
	ClassC Class = "C"
)

// Item represents a single inventory record.
//
// AccumulatedPercentage and Classification are derived by the store's
// classification pass; they are persisted so a fresh load can display the
// last computed tiers without reclassifying.
type Item struct {
	Code                  string
	Name                  string
	MovesPerMonth         int
	UnitPrice             float64
	AccumulatedPercentage float64
	Classification        Class
}

// NewItem creates a validated item. The code is normalized to uppercase.
func NewItem(code, name string, movesPerMonth int, unitPrice float64) (*Item, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name = strings.TrimSpace(name)

	if code == "" {
		return nil, common.NewValidationError("code", "must not be empty")
	}
	if name == "" {
		return nil, common.NewValidationError("name", "must not be empty")
	}
	if movesPerMonth < 0 {
		return nil, common.NewValidationError("movesPerMonth", fmt.Sprintf("must not be negative, got %d", movesPerMonth))
	}
	if unitPrice < 0 {
		return nil, common.NewValidationError("unitPrice", fmt.Sprintf("must not be negative, got %.2f", unitPrice))
	}

	return &Item{
		Code:          code,
		Name:          name,
		MovesPerMonth: movesPerMonth,
		UnitPrice:     unitPrice,
	}, nil
}

// NewStaticItem creates an item with no movement history yet.
func NewStaticItem(code, name string, unitPrice float64) (*Item, error) {
	return NewItem(code, name, 0, unitPrice)
}

// TotalValue is the ranking metric driving classification: monthly movement
// frequency times unit price. Always computed on read, never cached.
func (i *Item) TotalValue() float64 {
	return float64(i.MovesPerMonth) * i.UnitPrice
}

// Validate re-checks every field invariant. Used after loading from storage,
// where fields may have been edited out-of-band and bypass constructor
// validation, and as the pre-commit gate for every store mutation.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Code) == "" {
		return common.NewIntegrityError(i.Code, "code is empty")
	}
	if strings.TrimSpace(i.Name) == "" {
		return common.NewIntegrityError(i.Code, "name is empty")
	}
	if i.MovesPerMonth < 0 {
		return common.NewIntegrityError(i.Code, fmt.Sprintf("negative movement count %d", i.MovesPerMonth))
	}
	if i.UnitPrice < 0 {
		return common.NewIntegrityError(i.Code, fmt.Sprintf("negative unit price %.2f", i.UnitPrice))
	}
	if i.MovesPerMonth == 0 && i.UnitPrice == 0 {
		return common.NewIntegrityError(i.Code, "both movement count and unit price are zero")
	}
	return nil
}
