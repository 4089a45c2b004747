package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Reclassify the whole catalog",
		Long: `Force a full ABC classification pass and persist the result. Useful
after editing the backing store out-of-band; normal mutations already
reclassify on their own.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, stg, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(stg)

			if store.Len() == 0 {
				fmt.Println("Nothing to classify.") //nolint:forbidigo // User-facing output
				return nil
			}

			store.ClassifyAll()
			if err := stg.SaveAll(ctx, store.ListAll()); err != nil {
				return fmt.Errorf("failed to persist classification: %w", err)
			}

			printItems(store.ListAll())
			return nil
		},
	}
}
