package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cinefile/internal/editor"
	"cinefile/pkg/types"
)

const maxMovieBodyBytes = 1 << 20

func (s *Service) handleAPIGetMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	showID := r.PathValue("showID")

	movie, err := s.movies.Movie(ctx, showID)
	if err != nil {
		if errors.Is(err, types.ErrMovieNotFound) {
			s.writeJSONError(w, http.StatusNotFound, "movie not found")
			return
		}
		s.logger.WithError(err).WithField("show_id", showID).Error("failed to fetch movie")
		s.writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, movie)
}

// handleAPIPutMovie accepts a full flat movie record and saves it through an
// edit session. Genre flags missing from the body are stored as 0.
func (s *Service) handleAPIPutMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	showID := r.PathValue("showID")
	logger := s.requestLogger(ctx, showID)

	var movie types.Movie
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMovieBodyBytes)).Decode(&movie); err != nil {
		logger.WithError(err).Info("failed to decode movie body")
		s.writeJSONError(w, http.StatusBadRequest, "invalid movie payload")
		return
	}

	if movie.ShowID == nil {
		movie.ShowID = &showID
	} else if *movie.ShowID != showID {
		s.writeJSONError(w, http.StatusBadRequest, "showId in body does not match the url")
		return
	}

	session := editor.New(&movie, s.movies,
		editor.WithLogger(logger),
		editor.OnSuccess(func() {
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	submitCtx, cancel := context.WithTimeout(ctx, s.updateTimeout())
	defer cancel()

	if err := session.Submit(submitCtx); err != nil {
		status, msg := submitErrorResponse(err)
		s.writeJSONError(w, status, msg)
	}
}
