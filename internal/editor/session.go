// Package editor holds the edit session for a single movie record: it seeds a
// draft from a snapshot, applies field input, derives the active genre and
// hands the draft to an Updater on submit.
package editor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"cinefile/pkg/types"

	"github.com/sirupsen/logrus"
)

// Updater persists an edited record.
type Updater interface {
	UpdateMovie(ctx context.Context, showID string, movie *types.Movie) error
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(ctx context.Context, showID string, movie *types.Movie) error

func (f UpdaterFunc) UpdateMovie(ctx context.Context, showID string, movie *types.Movie) error {
	return f(ctx, showID, movie)
}

type State int32

const (
	StateEditing State = iota
	StateSubmitting
	StateSaved
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSaved:
		return "saved"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

type Option func(*Session)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func OnSuccess(fn func()) Option {
	return func(s *Session) { s.onSuccess = fn }
}

func OnCancel(fn func()) Option {
	return func(s *Session) { s.onCancel = fn }
}

type Session struct {
	updater   Updater
	logger    logrus.FieldLogger
	onSuccess func()
	onCancel  func()

	mu    sync.RWMutex
	draft *types.Movie
	err   error

	state atomic.Int32
}

// New starts an edit session seeded from movie. The snapshot is copied and
// every genre flag missing from it is set to 0.
func New(movie *types.Movie, updater Updater, opts ...Option) *Session {
	draft := movie.Clone()
	if draft == nil {
		draft = new(types.Movie)
	}
	draft.Genres = draft.Genres.WithDefaults()

	s := &Session{
		updater: updater,
		logger:  logrus.StandardLogger(),
		draft:   draft,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() *types.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone()
}

func (s *Session) State() State {
	return State(s.state.Load())
}

// Err returns the error of the last failed operation, or nil.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// SetField applies raw input to the scalar field named key. The release year
// is parsed as an integer, with an empty value clearing it; every other field
// stores raw as given. On error the draft is left as it was.
func (s *Session) SetField(key, raw string) error {
	if err := s.editable(); err != nil {
		return err
	}

	field, ok := types.LookupMovieField(key)
	if !ok {
		return s.fail(fmt.Errorf("%w: %q", ErrUnknownField, key))
	}

	var year *int
	if field.Numeric {
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			n, err := strconv.Atoi(trimmed)
			if err != nil {
				return s.fail(fmt.Errorf("%w: %s=%q", ErrInvalidNumber, key, raw))
			}
			year = &n
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.draft
	if field.Numeric {
		next.ReleaseYear = year
	} else {
		value := raw
		*next.TextField(key) = &value
	}

	s.draft = &next
	s.err = nil
	return nil
}

// SetGenre replaces the genre flags with a set where only key is 1. An empty
// key clears every flag.
func (s *Session) SetGenre(key string) error {
	if err := s.editable(); err != nil {
		return err
	}

	var genre types.Genre
	if key != "" {
		opt, ok := types.LookupGenre(key)
		if !ok {
			return s.fail(fmt.Errorf("%w: %q", ErrUnknownGenre, key))
		}
		genre = opt.Key
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.draft
	next.Genres = types.FlagsFor(genre)
	s.draft = &next
	s.err = nil
	return nil
}

// ActiveGenre returns the first genre in table order flagged 1 in the draft.
// Records with several flags set surface only the first.
func (s *Session) ActiveGenre() types.Genre {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Genres.Active()
}

// Submit hands the draft to the updater. Exactly one update call is made per
// accepted submit; overlapping submits are rejected with ErrSubmitInFlight.
// While the update runs the draft is frozen and Cancel has no effect. On
// success the session closes and the success callback runs once.
func (s *Session) Submit(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateEditing), int32(StateSubmitting)) {
		if s.State() == StateSubmitting {
			return ErrSubmitInFlight
		}
		return ErrSessionClosed
	}

	draft := s.Draft()
	if !draft.HasShowID() {
		s.logger.Error("show id is missing or invalid")
		s.state.Store(int32(StateEditing))
		return s.fail(ErrMissingIdentifier)
	}

	showID := *draft.ShowID
	logger := s.logger.WithField("show_id", showID)

	if uerr := s.update(ctx, showID, draft); uerr != nil {
		logger.WithError(uerr).Error("failed to update movie")
		s.state.Store(int32(StateEditing))
		return s.fail(&PersistenceError{ShowID: showID, Err: uerr})
	}

	s.state.Store(int32(StateSaved))
	s.setErr(nil)
	logger.Debug("movie updated")

	if s.onSuccess != nil {
		s.onSuccess()
	}

	return nil
}

// Cancel closes the session and runs the cancel callback. The draft and the
// updater are not touched. It does nothing once the session is closed or
// while a submit is in flight.
func (s *Session) Cancel() {
	if !s.state.CompareAndSwap(int32(StateEditing), int32(StateCancelled)) {
		return
	}

	if s.onCancel != nil {
		s.onCancel()
	}
}

// update calls the updater, turning a panic into an error so nothing escapes
// Submit.
func (s *Session) update(ctx context.Context, showID string, draft *types.Movie) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("update panicked: %v", r)
		}
	}()

	if s.updater == nil {
		return fmt.Errorf("no updater configured")
	}

	return s.updater.UpdateMovie(ctx, showID, draft)
}

func (s *Session) editable() error {
	switch s.State() {
	case StateEditing:
		return nil
	case StateSubmitting:
		return ErrSubmitInFlight
	}
	return ErrSessionClosed
}

func (s *Session) fail(err error) error {
	s.setErr(err)
	return err
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
