package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cinefile/internal/editor"
	"cinefile/internal/store"
	"cinefile/internal/utils"
	"cinefile/pkg/types"

	"github.com/sirupsen/logrus"
)

const moviesPageSize = 100

func (s *Service) handleGetMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filters := types.MovieListFilters{
		Search: strings.TrimSpace(query.Get("q")),
		Type:   strings.TrimSpace(query.Get("type")),
		Genre:  strings.TrimSpace(query.Get("genre")),
	}

	movies, err := s.movies.Movies(ctx, store.MovieFilter{
		Search: filters.Search,
		Type:   filters.Type,
		Genre:  types.Genre(filters.Genre),
		Limit:  moviesPageSize,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to list movies")
		s.internalServerError(w)
		return
	}

	f := s.takeFlash(w, r)

	data := &types.MoviesPageData{
		BasePageData: types.BasePageData{Title: "Movies"},
		Notice:       f.Notice,
		Error:        f.Error,
		Movies:       make([]types.MovieListRow, 0, len(movies)),
		Filters:      filters,
		Genres:       types.Genres,
		MovieTypes:   types.MovieTypes,
	}

	for _, m := range movies {
		data.Movies = append(data.Movies, movieListRow(m))
	}

	if err := s.renderTemplate(w, r, "page.movies", data); err != nil {
		s.logger.WithError(err).Error("failed to render movies page")
		s.internalServerError(w)
		return
	}
}

func movieListRow(m *types.Movie) types.MovieListRow {
	row := types.MovieListRow{
		ShowID: utils.PtrString(m.ShowID),
		Title:  utils.PtrString(m.Title),
		Type:   utils.PtrString(m.Type),
		Rating: utils.PtrString(m.Rating),
		Genre:  m.Genres.Active(),

		ReleaseYear: utils.PtrIntString(m.ReleaseYear),
	}
	row.MultiGenre = m.Genres.SetCount() > 1
	return row
}

func (s *Service) handleGetMovieEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	showID := r.PathValue("showID")

	movie, ok := s.loadMovie(w, r, showID)
	if !ok {
		return
	}

	session := editor.New(movie, s.movies, editor.WithLogger(s.requestLogger(ctx, showID)))

	data := editPageData(showID, session, nil, "")
	if err := s.renderTemplate(w, r, "page.movie.edit", data); err != nil {
		s.logger.WithError(err).Error("failed to render movie edit page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostMovieEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	showID := r.PathValue("showID")
	logger := s.requestLogger(ctx, showID)

	movie, ok := s.loadMovie(w, r, showID)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		logger.WithError(err).Error("failed to parse form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var form = new(types.MovieForm)
	if err := decoder.Decode(form, r.Form); err != nil {
		logger.WithError(err).Error("failed to decode form onto movie form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var session *editor.Session
	session = editor.New(movie, s.movies,
		editor.WithLogger(logger),
		editor.OnSuccess(func() {
			title := utils.PtrStringOr(session.Draft().Title, showID)
			s.redirectWithNotice(w, r, "/movies", fmt.Sprintf("Saved changes to %s.", title))
		}),
	)

	errs := make(map[string]string)
	for _, fv := range form.Values() {
		if err := session.SetField(fv.Key, fv.Value); err != nil {
			errs[fv.Key] = inputErrorMessage(fv.Key, err)
		}
	}
	if form.Genre != nil {
		if err := session.SetGenre(strings.TrimSpace(*form.Genre)); err != nil {
			errs["genre"] = "genre is not a known genre"
		}
	}

	if len(errs) == 0 {
		for field, msg := range fieldErrors(newMovieInput(session.Draft(), session.ActiveGenre()).Validate()) {
			errs[field] = msg
		}
	}

	if len(errs) > 0 {
		logger.WithField("field_errors", errs).Info("validation errors during movie edit")
		s.renderEdit(w, r, http.StatusUnprocessableEntity, editPageData(showID, session, errs, "Please fix the highlighted fields."))
		return
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.updateTimeout())
	defer cancel()

	if err := session.Submit(submitCtx); err != nil {
		status, msg := submitErrorResponse(err)
		s.renderEdit(w, r, status, editPageData(showID, session, nil, msg))
	}
}

func (s *Service) handlePostMovieCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	showID := r.PathValue("showID")

	session := editor.New(&types.Movie{ShowID: &showID}, s.movies,
		editor.WithLogger(s.requestLogger(ctx, showID)),
		editor.OnCancel(func() {
			http.Redirect(w, r, "/movies", http.StatusSeeOther)
		}),
	)
	session.Cancel()
}

func (s *Service) loadMovie(w http.ResponseWriter, r *http.Request, showID string) (*types.Movie, bool) {
	movie, err := s.movies.Movie(r.Context(), showID)
	if err != nil {
		if errors.Is(err, types.ErrMovieNotFound) {
			s.redirectWithError(w, r, "/movies", fmt.Sprintf("No movie with show id %s.", showID))
			return nil, false
		}
		s.logger.WithError(err).WithField("show_id", showID).Error("failed to fetch movie")
		s.internalServerError(w)
		return nil, false
	}
	return movie, true
}

func (s *Service) renderEdit(w http.ResponseWriter, r *http.Request, status int, data *types.MovieEditPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderTemplate(w, r, "page.movie.edit", data); err != nil {
		s.logger.WithError(err).Error("failed to render movie edit page")
	}
}

func (s *Service) requestLogger(ctx context.Context, showID string) logrus.FieldLogger {
	fields := logrus.Fields{"show_id": showID}
	if userID, err := s.userIDFromContext(ctx); err == nil {
		fields["user_id"] = userID
	}
	return s.logger.WithFields(fields)
}

func (s *Service) updateTimeout() time.Duration {
	if s.config.UpdateTimeoutSec == 0 {
		return 5 * time.Second
	}
	return time.Duration(s.config.UpdateTimeoutSec) * time.Second
}

func editPageData(showID string, session *editor.Session, errs map[string]string, msg string) *types.MovieEditPageData {
	draft := session.Draft()

	data := &types.MovieEditPageData{
		BasePageData: types.BasePageData{Title: "Edit Movie"},
		ShowID:       showID,
		Fields:       make([]types.FormField, 0, len(types.MovieFields)),
		Genres:       types.Genres,
		ActiveGenre:  session.ActiveGenre(),
		GenreError:   errs["genre"],
		Error:        msg,
	}

	for _, f := range types.MovieFields {
		field := types.FormField{
			Key:      f.Key,
			Label:    f.Label,
			Input:    "text",
			Required: f.Required,
			Error:    errs[f.Key],
		}

		switch {
		case f.Numeric:
			field.Input = "number"
			field.Value = utils.PtrIntString(draft.ReleaseYear)
		default:
			field.Value = utils.PtrString(*draft.TextField(f.Key))
		}

		switch f.Key {
		case types.FieldType:
			field.Input = "select"
			field.Options = types.MovieTypes
		case types.FieldRating:
			field.Input = "select"
			field.Options = types.Ratings
		}

		data.Fields = append(data.Fields, field)
	}

	return data
}

func inputErrorMessage(key string, err error) string {
	if errors.Is(err, editor.ErrInvalidNumber) {
		return "release year must be a number"
	}
	return fmt.Sprintf("%s could not be updated", key)
}

func submitErrorResponse(err error) (int, string) {
	var perr *editor.PersistenceError
	switch {
	case errors.Is(err, editor.ErrMissingIdentifier):
		return http.StatusBadRequest, "This movie has no show id and cannot be saved."
	case errors.Is(err, editor.ErrSubmitInFlight):
		return http.StatusConflict, "A save for this movie is already in progress."
	case errors.Is(err, types.ErrMovieNotFound):
		return http.StatusNotFound, "This movie no longer exists."
	case errors.As(err, &perr):
		return http.StatusBadGateway, "Could not save changes. Please try again."
	}
	return http.StatusInternalServerError, "Could not save changes."
}
