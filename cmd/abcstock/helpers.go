package main

import (
	"context"
	"fmt"

	"github.com/jmacedo/abcstock/internal/config"
	"github.com/jmacedo/abcstock/internal/inventory"
	"github.com/jmacedo/abcstock/internal/service"
	"github.com/jmacedo/abcstock/internal/storage"
	"github.com/spf13/viper"
)

// initStorage builds the configured storage backend with proper path
// expansion. Backends: "json" (default) and "sqlite".
func initStorage(ctx context.Context) (service.Storage, error) {
	backend := viper.GetString("storage.backend")
	if backend == "" {
		backend = "json"
	}

	path := viper.GetString("storage.path")

	switch backend {
	case "json":
		if path == "" {
			path = "$HOME/.local/share/abcstock/inventory.json"
		}
		return storage.NewJSONStorage(config.ExpandPath(path))
	case "sqlite":
		if path == "" {
			path = "$HOME/.local/share/abcstock/inventory.db"
		}
		store, err := storage.NewSQLiteStorage(config.ExpandPath(path))
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// initStore opens storage and loads the persisted collection into a store.
// The caller owns closing the returned storage.
func initStore(ctx context.Context) (*inventory.Store, service.Storage, error) {
	stg, err := initStorage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	store := inventory.NewStore(stg)
	if err := store.Load(ctx); err != nil {
		_ = stg.Close()
		return nil, nil, err
	}

	return store, stg, nil
}
