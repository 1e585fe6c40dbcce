package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"cinefile/internal/editor"
	"cinefile/internal/store"
	"cinefile/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

// MovieStore is the catalog the handlers read from and edit sessions write to.
type MovieStore interface {
	editor.Updater
	Movie(ctx context.Context, showID string) (*types.Movie, error)
	Movies(ctx context.Context, filter store.MovieFilter) ([]*types.Movie, error)
}

// AuthClient is the part of the Cognito API used for login.
type AuthClient interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	movies    MovieStore
	templates *template.Template

	authClient AuthClient
	cookie     *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	movies MovieStore,
	authClient AuthClient,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, blockKey, err := cookieKeys(config)
	if err != nil {
		return nil, err
	}
	if config.CookieHashKey == "" {
		logger.Warn("COOKIE_HASH_KEY not set, using a random key; cookies will not survive a restart")
	}

	s := &Service{
		logger:     logger,
		config:     config,
		movies:     movies,
		authClient: authClient,
		cookie:     securecookie.New(hashKey, blockKey),

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	if config.AuthEnabled() && (authClient == nil || jwkCache == nil) {
		return nil, fmt.Errorf("auth is enabled but no cognito client or jwk cache was provided")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	// trailing slashes are stripped before routing
	s.handler = s.StripTrailingSlash(mux)
	s.server.Handler = s.handler

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/movies", s.handleGetMovies, http.MethodGet)
		r.HandleFunc("/movies/:showID/edit", s.handleGetMovieEdit, http.MethodGet)
		r.HandleFunc("/movies/:showID/edit", s.handlePostMovieEdit, http.MethodPost)
		r.HandleFunc("/movies/:showID/cancel", s.handlePostMovieCancel, http.MethodPost)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAPIAuth)

		r.HandleFunc("/api/movies/:showID", s.handleAPIGetMovie, http.MethodGet)
		r.HandleFunc("/api/movies/:showID", s.handleAPIPutMovie, http.MethodPut)
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func cookieKeys(config *types.Config) ([]byte, []byte, error) {
	var hashKey, blockKey []byte

	if config.CookieHashKey != "" {
		key, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
		if err != nil {
			return nil, nil, fmt.Errorf("decode cookie hash key: %w", err)
		}
		hashKey = key
	} else {
		hashKey = securecookie.GenerateRandomKey(32)
	}

	if config.CookieBlockKey != "" {
		key, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
		if err != nil {
			return nil, nil, fmt.Errorf("decode cookie block key: %w", err)
		}
		blockKey = key
	}

	return hashKey, blockKey, nil
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"genreLabel": func(g types.Genre) string {
			return g.Label()
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
