// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/jmacedo/abcstock/internal/model"
)

// Storage defines the contract for our persistence layer. It is the only
// boundary the record store depends on.
type Storage interface {
	// LoadAll returns every persisted item that passes validation. Items
	// failing validation are dropped with a logged diagnostic. Missing,
	// empty, or corrupt backing storage yields an empty slice, not an error.
	LoadAll(ctx context.Context) ([]model.Item, error)

	// SaveAll overwrites the persisted representation with the exact
	// current collection, preserving its order.
	SaveAll(ctx context.Context, items []model.Item) error

	Close() error
}

// Prompter collects item field values from the user. Implemented by the CLI;
// defined here so commands can be tested against a scripted implementation.
type Prompter interface {
	PromptString(label string) (string, error)
	PromptInt(label string) (int, error)
	PromptFloat(label string) (float64, error)
}
