// Package server assembles the HTTP surface: Connect services, the REST
// side routes, health and metrics endpoints and the static web app.
package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/expensegenie/internal/auth"
	"github.com/mmynk/expensegenie/internal/cache"
	"github.com/mmynk/expensegenie/internal/metrics"
	"github.com/mmynk/expensegenie/internal/middleware"
	"github.com/mmynk/expensegenie/internal/service"
	"github.com/mmynk/expensegenie/internal/storage"
	"github.com/mmynk/expensegenie/pkg/api/apiconnect"
)

// Options configures the server.
type Options struct {
	Store   storage.Store
	Cache   cache.Cache
	Metrics *metrics.Metrics
	JWT     *auth.JWTManager

	// Google may be nil when Google sign-in is disabled.
	Google *auth.GoogleAuthenticator

	DefaultCurrency string
	AllowedOrigins  []string

	// StaticPath is the directory of the web app. Empty disables it.
	StaticPath string
}

// Server routes every request of the application.
type Server struct {
	router *mux.Router
	opts   Options

	auth         *service.AuthService
	participants *service.ParticipantService
	sessions     *service.SessionService
	briefs       *service.BriefService
}

// New builds the services and registers all routes.
func New(opts Options) *Server {
	s := &Server{
		router: mux.NewRouter(),
		opts:   opts,
		auth: service.NewAuthService(
			auth.NewPasswordAuthenticator(opts.Store),
			opts.Google,
			opts.Store,
			opts.JWT,
			slog.Default().With("component", "auth"),
		),
		participants: service.NewParticipantService(opts.Store),
		sessions:     service.NewSessionService(opts.Store, opts.Cache, opts.Metrics, opts.DefaultCurrency),
		briefs:       service.NewBriefService(opts.Store),
	}
	s.setupRoutes()
	return s
}

func (s *Server) interceptors(authInterceptors ...connect.Interceptor) connect.HandlerOption {
	chain := []connect.Interceptor{s.opts.Metrics.Interceptor()}
	chain = append(chain, authInterceptors...)
	chain = append(chain, middleware.LoggingInterceptor())
	return connect.WithInterceptors(chain...)
}

func (s *Server) setupRoutes() {
	jwt := s.opts.JWT

	// Connect services
	optional := s.interceptors(middleware.OptionalAuth(jwt))
	required := s.interceptors(middleware.RequireAuth(jwt))
	admin := s.interceptors(middleware.OptionalAuth(jwt), middleware.RequireAdmin(service.AdminProcedures...))

	s.mount(apiconnect.NewAuthServiceHandler(s.auth, optional))
	s.mount(apiconnect.NewParticipantServiceHandler(s.participants, required))
	s.mount(apiconnect.NewSessionServiceHandler(s.sessions, required))
	s.mount(apiconnect.NewBriefServiceHandler(s.briefs, admin))

	// Google redirect flow
	s.router.HandleFunc("/auth/google/login", s.auth.GoogleLogin).Methods(http.MethodGet)
	s.router.HandleFunc("/auth/google/callback", s.auth.GoogleCallback).Methods(http.MethodGet)

	// Downloads
	adminAPI := s.router.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(middleware.HTTPAuth(jwt, true))
	adminAPI.HandleFunc("/briefs/export", s.briefs.ExportBriefs).Methods(http.MethodGet)

	userAPI := s.router.PathPrefix("/api").Subrouter()
	userAPI.Use(middleware.HTTPAuth(jwt, false))
	userAPI.HandleFunc("/sessions/{id}/export", s.sessions.ExportSession).Methods(http.MethodGet)

	// Operations
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.opts.Metrics != nil {
		s.router.Handle("/metrics", s.opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	if s.opts.StaticPath != "" {
		s.router.PathPrefix("/").Handler(staticHandler(s.opts.StaticPath)).Methods(http.MethodGet, http.MethodHead)
	}
}

func (s *Server) mount(path string, handler http.Handler) {
	s.router.PathPrefix(path).Handler(handler)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.opts.Store.Ping(r.Context()); err != nil {
		slog.Error("Health check failed", "error", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// Handler returns the root handler with CORS, request logging and HTTP/2
// cleartext support (required for Connect over plain HTTP).
func (s *Server) Handler() http.Handler {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Content-Disposition", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
	})
	return h2c.NewHandler(middleware.HTTPLogging(c.Handler(s.router)), &http2.Server{})
}

// staticHandler serves the web app, falling back to index.html for paths
// that are not files.
func staticHandler(root string) http.Handler {
	dir, err := filepath.Abs(root)
	if err != nil {
		dir = root
	}
	slog.Info("Serving static files", "path", dir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" || strings.HasSuffix(urlPath, "/") {
			urlPath += "index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean("/"+urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}
