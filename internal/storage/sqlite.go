package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmacedo/abcstock/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// LoadAll returns every persisted item in collection order, dropping rows
// that fail validation with a logged diagnostic.
func (s *SQLiteStorage) LoadAll(ctx context.Context) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT code, name, moves_per_month, unit_price, accumulated_percentage, classification
		FROM items
		ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var class string
		if err := rows.Scan(&item.Code, &item.Name, &item.MovesPerMonth,
			&item.UnitPrice, &item.AccumulatedPercentage, &class); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Classification = model.Class(class)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	slog.Debug("retrieved items", "count", len(items))
	return filterValid(items), nil
}

// SaveAll replaces the persisted collection inside a single transaction, so
// a failed write never leaves a partial inventory behind.
func (s *SQLiteStorage) SaveAll(ctx context.Context, items []model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	insert := `
		INSERT INTO items (position, code, name, moves_per_month, unit_price, accumulated_percentage, classification)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	for i, item := range items {
		if _, err := tx.ExecContext(ctx, insert, i, item.Code, item.Name,
			item.MovesPerMonth, item.UnitPrice, item.AccumulatedPercentage,
			string(item.Classification)); err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}

	slog.Debug("saved items", "count", len(items))
	return nil
}
