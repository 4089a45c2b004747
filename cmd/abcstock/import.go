package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/jmacedo/abcstock/internal/common"
	"github.com/jmacedo/abcstock/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk-load items from a CSV file",
		Long: `Import items from a CSV file with rows of the form:

  code,name,movesPerMonth,unitPrice

Rows that fail validation or duplicate an existing code are skipped and
reported; the rest are added and the catalog is reclassified.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, stg, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(stg)

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("failed to close import file", "error", closeErr)
		}
	}()

	reader := csv.NewReader(file)
	// Let parseImportRow report short rows instead of failing the whole file.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		fmt.Println("Nothing to import.") //nolint:forbidigo // User-facing output
		return nil
	}

	bar := progressbar.NewOptions(len(rows),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing items..."),
	)

	imported, skipped := 0, 0
	for i, row := range rows {
		_ = bar.Add(1)

		item, rowErr := parseImportRow(row)
		if rowErr != nil {
			slog.Warn("skipping row", "row", i+1, "error", rowErr)
			skipped++
			continue
		}

		if addErr := store.Add(ctx, item); addErr != nil {
			var dup *common.DuplicateCodeError
			var integrity *common.IntegrityError
			if errors.As(addErr, &dup) || errors.As(addErr, &integrity) {
				slog.Warn("skipping row", "row", i+1, "code", item.Code, "error", addErr)
				skipped++
				continue
			}
			return addErr
		}
		imported++
	}

	fmt.Fprintln(os.Stderr)
	fmt.Printf("Imported %d item(s), skipped %d.\n", imported, skipped) //nolint:forbidigo // User-facing output
	return nil
}

// parseImportRow converts one CSV row into a validated item. A header row
// fails integer parsing and gets skipped like any other bad row.
func parseImportRow(row []string) (*model.Item, error) {
	if len(row) != 4 {
		return nil, fmt.Errorf("expected 4 columns, got %d", len(row))
	}

	moves, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, fmt.Errorf("bad movement count %q: %w", row[2], err)
	}
	price, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return nil, fmt.Errorf("bad unit price %q: %w", row[3], err)
	}

	return model.NewItem(row[0], row[1], moves, price)
}
