package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"cinefile/internal"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth sends visitors without a valid access token to the login page,
// remembering where they were headed.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := s.authenticate(r)
		if !ok {
			s.setRedirectCookie(w, r.URL.Path, time.Minute*5)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAPIAuth is RequireAuth for JSON clients: it answers 401 instead of
// redirecting.
func (s *Service) RequireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := s.authenticate(r)
		if !ok {
			s.writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate verifies the access token cookie against the cached JWKS and
// returns a context carrying the user. With auth disabled every request
// passes as an anonymous admin.
func (s *Service) authenticate(r *http.Request) (context.Context, bool) {
	ctx := r.Context()

	if !s.config.AuthEnabled() {
		return context.WithValue(ctx, contextKeyUserID, "anonymous"), true
	}

	cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err != nil {
		s.logger.WithError(err).Debug("no access token cookie found")
		return ctx, false
	}

	var accessToken string
	err = s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to decrypt access token")
		return ctx, false
	}

	set, err := s.jwksCache.Lookup(ctx, s.jwksURL)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch JWKS")
		return ctx, false
	}

	token, err := jwt.Parse(
		[]byte(accessToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		s.logger.WithError(err).Error("failed to parse JWT")
		return ctx, false
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		s.logger.Error("no user ID in JWT subject claim")
		return ctx, false
	}

	// email is optional
	var email string
	if err := token.Get("email", &email); err != nil {
		s.logger.WithError(err).Debug("no email claim in JWT")
	}

	ctx = context.WithValue(ctx, contextKeyUserID, userID)
	if email != "" {
		ctx = context.WithValue(ctx, contextKeyEmail, email)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"email":   email,
	}).Debug("authenticated user")

	return ctx, true
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
