package seed

import (
	"context"
	"fmt"

	"cinefile/internal/store"
	"cinefile/pkg/types"
)

// SyncGenres makes the genres lookup table mirror types.Genres:
// - Inserts genres that don't exist
// - Updates labels, columns and display order that have changed
// - Deletes genres from DB that aren't in the table
func SyncGenres(ctx context.Context, repo *store.GenreRepository) error {
	records := GenreRecords()

	seedKeys := make(map[string]bool, len(records))
	for _, g := range records {
		seedKeys[g.Key] = true
	}

	existing, err := repo.AllGenres(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch existing genres: %w", err)
	}
	fmt.Printf("  Database contains %d genres\n", len(existing))

	deletedCount := 0
	for _, g := range existing {
		if seedKeys[g.Key] {
			continue
		}
		fmt.Printf("  Deleting genre: %s\n", g.Key)
		if err := repo.DeleteGenre(ctx, g.Key); err != nil {
			return fmt.Errorf("failed to delete genre %s: %w", g.Key, err)
		}
		deletedCount++
	}

	for i := range records {
		if err := repo.UpsertGenre(ctx, &records[i]); err != nil {
			return fmt.Errorf("failed to upsert genre %s: %w", records[i].Key, err)
		}
	}

	fmt.Printf("\nGenre sync complete: %d upserted, %d deleted\n", len(records), deletedCount)
	return nil
}

// GenreRecords converts the genre table into lookup rows, 1-based display order.
func GenreRecords() []types.GenreRecord {
	out := make([]types.GenreRecord, len(types.Genres))
	for i, g := range types.Genres {
		out[i] = types.GenreRecord{
			Key:          string(g.Key),
			Label:        g.Label,
			ColumnName:   g.Column,
			DisplayOrder: i + 1,
		}
	}
	return out
}
