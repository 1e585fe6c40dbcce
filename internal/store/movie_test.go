package store

import (
	"strings"
	"testing"

	"cinefile/internal/utils"
	"cinefile/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoviesQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    MovieFilter
		wantWhere string
		wantArgs  []interface{}
		wantTail  string
	}{
		{
			name:     "no filter",
			filter:   MovieFilter{},
			wantTail: "ORDER BY title ASC, show_id ASC",
		},
		{
			name:      "search and type",
			filter:    MovieFilter{Search: " heat ", Type: types.MovieTypeMovie},
			wantWhere: "WHERE (title ILIKE $1 OR director ILIKE $2 OR cast_members ILIKE $3) AND type = $4",
			wantArgs:  []interface{}{"%heat%", "%heat%", "%heat%", types.MovieTypeMovie},
		},
		{
			name:      "genre uses its column",
			filter:    MovieFilter{Genre: types.GenreHorrorMovies},
			wantWhere: "WHERE horror_movies = $1",
			wantArgs:  []interface{}{1},
		},
		{
			name:     "unknown genre is ignored",
			filter:   MovieFilter{Genre: "westerns", Limit: 20, Offset: 40},
			wantTail: "LIMIT 20 OFFSET 40",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := moviesQuery(tt.filter).ToSql()
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(query, "SELECT show_id, type, title"), query)
			assert.Contains(t, query, "FROM movies_titles")
			if tt.wantWhere != "" {
				assert.Contains(t, query, tt.wantWhere)
			} else {
				assert.NotContains(t, query, "WHERE")
			}
			if tt.wantTail != "" {
				assert.True(t, strings.HasSuffix(query, tt.wantTail), query)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestMovieSetMap(t *testing.T) {
	movie := &types.Movie{
		ShowID: utils.StringPtr("s7"),
		Title:  utils.StringPtr("Alien"),
		Genres: types.GenreFlags{types.GenreHorrorMovies: 1, types.GenreAction: 0},
	}

	got := movieSetMap(movie)

	assert.Equal(t, movie.Title, got["title"])
	assert.Nil(t, got["director"])
	assert.Equal(t, 1, got["horror_movies"])
	assert.Equal(t, 0, got["action"])
	_, ok := got["thrillers"]
	assert.False(t, ok, "absent flags must not be written")
	_, ok = got["Genres"]
	assert.False(t, ok)
}

func TestMovieFromRow(t *testing.T) {
	row := map[string]any{
		"show_id":       "s7",
		"type":          "Movie",
		"title":         "Alien",
		"director":      nil,
		"release_year":  int32(1979),
		"horror_movies": int16(1),
		"thrillers":     int16(0),
		"action":        nil,
	}

	movie, err := movieFromRow(row)
	require.NoError(t, err)

	assert.Equal(t, "s7", *movie.ShowID)
	assert.Equal(t, "Alien", *movie.Title)
	assert.Nil(t, movie.Director)
	require.NotNil(t, movie.ReleaseYear)
	assert.Equal(t, 1979, *movie.ReleaseYear)
	assert.Equal(t, types.GenreFlags{types.GenreHorrorMovies: 1, types.GenreThrillers: 0}, movie.Genres)
	assert.Equal(t, types.GenreHorrorMovies, movie.Genres.Active())
}

func TestMovieFromRowRejectsUnexpectedTypes(t *testing.T) {
	_, err := movieFromRow(map[string]any{"title": 12})
	assert.Error(t, err)

	_, err = movieFromRow(map[string]any{"dramas": "yes"})
	assert.Error(t, err)
}

func TestBuildUpdateClause(t *testing.T) {
	got := buildUpdateClause(map[string]interface{}{"title": 1, "rating": 2})
	assert.Equal(t, "rating = EXCLUDED.rating, title = EXCLUDED.title", got)
}
