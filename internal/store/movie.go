package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cinefile/internal/utils"
	"cinefile/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const movieTableName = "movies_titles"

var movieColumns = utils.StructTagValues(types.Movie{})

// genreColumns follows the order of types.Genres.
var genreColumns = func() []string {
	out := make([]string, len(types.Genres))
	for i, g := range types.Genres {
		out[i] = g.Column
	}
	return out
}()

type MovieFilter struct {
	Search string
	Type   string
	Genre  types.Genre
	Limit  uint64
	Offset uint64
}

// MovieRepository stores movies in the flat movies_titles table, one column
// per genre flag.
type MovieRepository struct {
	pool *pgxpool.Pool
}

func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

func (r *MovieRepository) Movie(ctx context.Context, showID string) (*types.Movie, error) {
	query, args, err := psql().
		Select(append(append([]string{}, movieColumns...), genreColumns...)...).
		From(movieTableName).
		Where(sq.Eq{"show_id": showID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate movie query: %w", err)
	}

	var row map[string]any
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to fetch movie %s: %w", showID, err)
	}

	return movieFromRow(row)
}

func (r *MovieRepository) Movies(ctx context.Context, filter MovieFilter) ([]*types.Movie, error) {
	query, args, err := moviesQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate movies query: %w", err)
	}

	var rows []map[string]any
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movies: %w", err)
	}

	movies := make([]*types.Movie, 0, len(rows))
	for _, row := range rows {
		movie, err := movieFromRow(row)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	return movies, nil
}

func moviesQuery(filter MovieFilter) sq.SelectBuilder {
	builder := psql().
		Select(append(append([]string{}, movieColumns...), genreColumns...)...).
		From(movieTableName).
		OrderBy("title ASC", "show_id ASC")

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"director": pattern},
			sq.ILike{"cast_members": pattern},
		})
	}

	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"type": filter.Type})
	}

	if filter.Genre != "" {
		if opt, ok := types.LookupGenre(string(filter.Genre)); ok {
			builder = builder.Where(sq.Eq{opt.Column: 1})
		}
	}

	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	return builder
}

// CreateMovie inserts movie, assigning a NanoID show id when it has none.
func (r *MovieRepository) CreateMovie(ctx context.Context, movie *types.Movie) error {
	if !movie.HasShowID() {
		movie.ShowID = utils.StringPtr(utils.NanoID())
	}

	query, args, err := psql().Insert(movieTableName).SetMap(movieSetMap(movie)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert movie query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create movie")
}

// UpdateMovie overwrites the row identified by showID with movie. The show id
// column itself is never rewritten.
func (r *MovieRepository) UpdateMovie(ctx context.Context, showID string, movie *types.Movie) error {
	setMap := movieSetMap(movie)
	delete(setMap, "show_id")

	query, args, err := psql().Update(movieTableName).SetMap(setMap).Where(sq.Eq{"show_id": showID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update movie query for movie %s: %w", showID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update movie %s: %w", showID, err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrMovieNotFound
	}

	return nil
}

func (r *MovieRepository) UpsertMovie(ctx context.Context, movie *types.Movie) error {
	setMap := movieSetMap(movie)

	updateMap := make(map[string]interface{}, len(setMap))
	for k, v := range setMap {
		if k != "show_id" {
			updateMap[k] = v
		}
	}

	query, args, err := psql().
		Insert(movieTableName).
		SetMap(setMap).
		Suffix("ON CONFLICT (show_id) DO UPDATE SET " + buildUpdateClause(updateMap)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert movie query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert movie")
}

func (r *MovieRepository) DeleteMovie(ctx context.Context, showID string) error {
	query, args, err := psql().Delete(movieTableName).Where(sq.Eq{"show_id": showID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete movie query for movie %s: %w", showID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete movie")
}

// movieSetMap flattens movie into column values. Genre flags absent from the
// record are left out so their columns keep whatever the row holds.
func movieSetMap(movie *types.Movie) map[string]interface{} {
	out := utils.StructToMap(movie)
	for _, g := range types.Genres {
		if v, ok := movie.Genres[g.Key]; ok {
			out[g.Column] = v
		}
	}
	return out
}

func movieFromRow(row map[string]any) (*types.Movie, error) {
	movie := &types.Movie{Genres: make(types.GenreFlags)}

	var err error
	str := func(col string) *string {
		v, ok := row[col]
		if !ok || v == nil {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			err = fmt.Errorf("column %s: unexpected type %T", col, v)
			return nil
		}
		return &s
	}

	movie.ShowID = str("show_id")
	movie.Type = str("type")
	movie.Title = str("title")
	movie.Director = str("director")
	movie.Cast = str("cast_members")
	movie.Country = str("country")
	movie.Rating = str("rating")
	movie.Duration = str("duration")
	movie.Description = str("description")
	if err != nil {
		return nil, err
	}

	year, ok, err := intValue(row["release_year"])
	if err != nil {
		return nil, fmt.Errorf("column release_year: %w", err)
	}
	if ok {
		movie.ReleaseYear = &year
	}

	for _, g := range types.Genres {
		flag, ok, err := intValue(row[g.Column])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", g.Column, err)
		}
		if ok {
			movie.Genres[g.Key] = flag
		}
	}

	return movie, nil
}

func intValue(v any) (int, bool, error) {
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case int:
		return n, true, nil
	case int16:
		return int(n), true, nil
	case int32:
		return int(n), true, nil
	case int64:
		return int(n), true, nil
	case bool:
		if n {
			return 1, true, nil
		}
		return 0, true, nil
	}
	return 0, false, fmt.Errorf("unexpected type %T", v)
}

// buildUpdateClause creates the SET clause for ON CONFLICT DO UPDATE
// e.g., "title = EXCLUDED.title, rating = EXCLUDED.rating, ..."
func buildUpdateClause(fields map[string]interface{}) string {
	keys := make([]string, 0, len(fields))
	for field := range fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, field := range keys {
		parts[i] = fmt.Sprintf("%s = EXCLUDED.%s", field, field)
	}
	return strings.Join(parts, ", ")
}
