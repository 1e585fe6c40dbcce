package store

import (
	"context"
	"fmt"
	"time"

	"cinefile/internal/utils"
	"cinefile/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const genreTableName = "genres"

var genreRecordColumns = utils.StructTagValues(types.GenreRecord{})

// GenreRepository manages the genres lookup table, a copy of types.Genres kept
// in the database so the genre columns of movies_titles can be labelled in SQL.
type GenreRepository struct {
	pool *pgxpool.Pool
}

func NewGenreRepository(pool *pgxpool.Pool) *GenreRepository {
	return &GenreRepository{pool: pool}
}

func (r *GenreRepository) AllGenres(ctx context.Context) ([]*types.GenreRecord, error) {
	query, args, err := psql().
		Select(genreRecordColumns...).
		From(genreTableName).
		OrderBy("display_order ASC", "key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate genres query: %w", err)
	}

	var genres []*types.GenreRecord
	err = pgxscan.Select(ctx, r.pool, &genres, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genres: %w", err)
	}

	return genres, nil
}

func (r *GenreRepository) UpsertGenre(ctx context.Context, genre *types.GenreRecord) error {
	if genre.CreatedAt.IsZero() {
		genre.CreatedAt = time.Now()
	}

	genreMap := utils.StructToMap(genre)

	updateMap := make(map[string]interface{})
	for k, v := range genreMap {
		if k != "key" && k != "created_at" {
			updateMap[k] = v
		}
	}

	query, args, err := psql().
		Insert(genreTableName).
		SetMap(genreMap).
		Suffix("ON CONFLICT (key) DO UPDATE SET " + buildUpdateClause(updateMap)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert genre: %w", err)
	}

	return nil
}

func (r *GenreRepository) DeleteGenre(ctx context.Context, key string) error {
	query, args, err := psql().
		Delete(genreTableName).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrGenreNotFound
	}

	return nil
}
