package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"cinefile/internal/store"
	"cinefile/internal/utils"
	"cinefile/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type updateCall struct {
	showID string
	movie  *types.Movie
}

type fakeMovieStore struct {
	mu         sync.Mutex
	movies     map[string]*types.Movie
	updates    []updateCall
	updateErr  error
	lastFilter store.MovieFilter
}

func newFakeMovieStore(movies ...*types.Movie) *fakeMovieStore {
	f := &fakeMovieStore{movies: make(map[string]*types.Movie)}
	for _, m := range movies {
		f.movies[*m.ShowID] = m
	}
	return f
}

func (f *fakeMovieStore) Movie(ctx context.Context, showID string) (*types.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.movies[showID]
	if !ok {
		return nil, types.ErrMovieNotFound
	}
	return m.Clone(), nil
}

func (f *fakeMovieStore) Movies(ctx context.Context, filter store.MovieFilter) ([]*types.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastFilter = filter
	out := make([]*types.Movie, 0, len(f.movies))
	for _, m := range f.movies {
		out = append(out, m.Clone())
	}
	return out, nil
}

func (f *fakeMovieStore) UpdateMovie(ctx context.Context, showID string, movie *types.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates = append(f.updates, updateCall{showID: showID, movie: movie})
	return f.updateErr
}

func alien() *types.Movie {
	return &types.Movie{
		ShowID:      utils.StringPtr("s7"),
		Type:        utils.StringPtr(types.MovieTypeMovie),
		Title:       utils.StringPtr("Alien"),
		Director:    utils.StringPtr("Ridley Scott"),
		Cast:        utils.StringPtr("Sigourney Weaver, Tom Skerritt"),
		Country:     utils.StringPtr("United States"),
		ReleaseYear: utils.IntPtr(1979),
		Rating:      utils.StringPtr("R"),
		Duration:    utils.StringPtr("117 min"),
		Description: utils.StringPtr("The crew of a commercial spacecraft encounters a deadly lifeform."),
		Genres:      types.GenreFlags{types.GenreHorrorMovies: 1},
	}
}

func newTestService(t *testing.T, movies MovieStore) *Service {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc, err := New(&types.Config{UpdateTimeoutSec: 5}, logger, movies, nil, nil, "")
	require.NoError(t, err)
	return svc
}

func editForm(overrides map[string]string) url.Values {
	form := url.Values{
		"title":       {"Alien: Director's Cut"},
		"director":    {"Ridley Scott"},
		"releaseYear": {"2003"},
		"duration":    {"116 min"},
		"type":        {types.MovieTypeMovie},
		"description": {"The crew of a commercial spacecraft encounters a deadly lifeform."},
		"cast":        {"Sigourney Weaver"},
		"country":     {"United Kingdom"},
		"rating":      {"R"},
		"genre":       {string(types.GenreThrillers)},
	}
	for k, v := range overrides {
		form.Set(k, v)
	}
	return form
}

func postForm(svc *Service, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresAuthCollaborators(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	_, err := New(&types.Config{CognitoIssuerURL: "https://issuer.example"}, logger, newFakeMovieStore(), nil, nil, "")
	assert.Error(t, err)
}

func TestHealthAndHome(t *testing.T) {
	svc := newTestService(t, newFakeMovieStore())

	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))
}

func TestStripTrailingSlash(t *testing.T) {
	svc := newTestService(t, newFakeMovieStore())

	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/?q=heat", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/movies?q=heat", rec.Header().Get("Location"))
}

func TestLoginRedirectsWhenAuthDisabled(t *testing.T) {
	svc := newTestService(t, newFakeMovieStore())

	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))
}

func TestGetMovies(t *testing.T) {
	fake := newFakeMovieStore(alien())
	svc := newTestService(t, fake)

	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies?q=+alien+&genre=horrorMovies", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Alien")
	assert.Contains(t, body, "Horror Movies")
	assert.Contains(t, body, `href="/movies/s7/edit"`)

	assert.Equal(t, "alien", fake.lastFilter.Search)
	assert.Equal(t, types.GenreHorrorMovies, fake.lastFilter.Genre)
	assert.Equal(t, uint64(moviesPageSize), fake.lastFilter.Limit)
}

func TestGetMovieEdit(t *testing.T) {
	svc := newTestService(t, newFakeMovieStore(alien()))

	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/s7/edit", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Alien"`)
	assert.Contains(t, body, `value="1979"`)
	assert.Contains(t, body, `<option value="horrorMovies" selected>`)
	assert.Contains(t, body, `action="/movies/s7/cancel"`)
}

func TestGetMovieEditUnknownMovie(t *testing.T) {
	svc := newTestService(t, newFakeMovieStore())

	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies/s404/edit", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))

	list := httptest.NewRequest(http.MethodGet, "/movies", nil)
	for _, c := range rec.Result().Cookies() {
		list.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	svc.ServeHTTP(rec, list)
	assert.Contains(t, rec.Body.String(), "No movie with show id s404.")
}

func TestPostMovieEditSaves(t *testing.T) {
	fake := newFakeMovieStore(alien())
	svc := newTestService(t, fake)

	rec := postForm(svc, "/movies/s7/edit", editForm(nil))

	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/movies", rec.Header().Get("Location"))

	require.Len(t, fake.updates, 1)
	call := fake.updates[0]
	assert.Equal(t, "s7", call.showID)
	assert.Equal(t, "Alien: Director's Cut", *call.movie.Title)
	assert.Equal(t, 2003, *call.movie.ReleaseYear)
	assert.Equal(t, "United Kingdom", *call.movie.Country)
	assert.Equal(t, types.GenreThrillers, call.movie.Genres.Active())
	assert.Equal(t, 1, call.movie.Genres.SetCount())
	assert.Len(t, call.movie.Genres, len(types.Genres))

	list := httptest.NewRequest(http.MethodGet, "/movies", nil)
	for _, c := range rec.Result().Cookies() {
		list.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	svc.ServeHTTP(rec, list)
	assert.Contains(t, rec.Body.String(), "Saved changes to Alien: Director&#39;s Cut.")
}

func TestPostMovieEditValidation(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		wantMsg  string
	}{
		{name: "missing title", override: map[string]string{"title": ""}, wantMsg: "title is required"},
		{name: "non numeric year", override: map[string]string{"releaseYear": "soon"}, wantMsg: "release year must be a number"},
		{name: "unknown genre", override: map[string]string{"genre": "westerns"}, wantMsg: "genre is not a known genre"},
		{name: "no genre", override: map[string]string{"genre": ""}, wantMsg: "genre is required"},
		{name: "unknown rating", override: map[string]string{"rating": "XXX"}, wantMsg: "rating is not a known rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeMovieStore(alien())
			svc := newTestService(t, fake)

			rec := postForm(svc, "/movies/s7/edit", editForm(tt.override))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.Empty(t, fake.updates)
		})
	}
}

func TestPostMovieEditSubmitFailures(t *testing.T) {
	tests := []struct {
		name       string
		updateErr  error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "persistence failure",
			updateErr:  errors.New("connection reset by peer"),
			wantStatus: http.StatusBadGateway,
			wantMsg:    "Could not save changes. Please try again.",
		},
		{
			name:       "row vanished",
			updateErr:  types.ErrMovieNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "This movie no longer exists.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeMovieStore(alien())
			fake.updateErr = tt.updateErr
			svc := newTestService(t, fake)

			rec := postForm(svc, "/movies/s7/edit", editForm(nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, tt.wantMsg)
			assert.Contains(t, body, `value="Alien: Director&#39;s Cut"`, "the draft is kept for another try")
			assert.Len(t, fake.updates, 1)
		})
	}
}

func TestPostMovieCancel(t *testing.T) {
	fake := newFakeMovieStore(alien())
	svc := newTestService(t, fake)

	rec := postForm(svc, "/movies/s7/cancel", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/movies", rec.Header().Get("Location"))
	assert.Empty(t, fake.updates)
}

func TestAPIGetMovie(t *testing.T) {
	svc := newTestService(t, newFakeMovieStore(alien()))

	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies/s7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "s7", got["showId"])
	assert.Equal(t, "Alien", got["title"])
	assert.Equal(t, float64(1), got["horrorMovies"])

	rec = httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies/s404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIPutMovie(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        string
		updateErr   error
		wantStatus  int
		wantUpdates int
	}{
		{
			name:        "saved",
			path:        "/api/movies/s7",
			body:        `{"title":"Alien","releaseYear":1979,"dramas":1}`,
			wantStatus:  http.StatusNoContent,
			wantUpdates: 1,
		},
		{
			name:       "body show id mismatch",
			path:       "/api/movies/s7",
			body:       `{"showId":"s8","title":"Alien"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			path:       "/api/movies/s7",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "persistence failure",
			path:        "/api/movies/s7",
			body:        `{"title":"Alien"}`,
			updateErr:   errors.New("timeout"),
			wantStatus:  http.StatusBadGateway,
			wantUpdates: 1,
		},
		{
			name:        "not found",
			path:        "/api/movies/s7",
			body:        `{"title":"Alien"}`,
			updateErr:   types.ErrMovieNotFound,
			wantStatus:  http.StatusNotFound,
			wantUpdates: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeMovieStore(alien())
			fake.updateErr = tt.updateErr
			svc := newTestService(t, fake)

			req := httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			svc.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Len(t, fake.updates, tt.wantUpdates)
		})
	}
}

func TestAPIPutMovieFillsMissingFlags(t *testing.T) {
	fake := newFakeMovieStore(alien())
	svc := newTestService(t, fake)

	req := httptest.NewRequest(http.MethodPut, "/api/movies/s7", strings.NewReader(`{"title":"Alien","dramas":1}`))
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, fake.updates, 1)

	saved := fake.updates[0].movie
	assert.Equal(t, "s7", *saved.ShowID)
	assert.Len(t, saved.Genres, len(types.Genres))
	assert.Equal(t, types.GenreDramas, saved.Genres.Active())
	assert.Equal(t, 0, saved.Genres[types.GenreHorrorMovies])
}
