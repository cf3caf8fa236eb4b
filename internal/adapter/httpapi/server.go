// Package httpapi serves read-only journal views over HTTP: CSV and Excel export,
// history and chart series.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/simaogato/wealthlog-backend/internal/domain"
	"github.com/simaogato/wealthlog-backend/internal/usecase/report"
	"github.com/simaogato/wealthlog-backend/internal/usecase/stats"
)

// Reader is the read side the HTTP API needs
type Reader interface {
	History(ctx context.Context, bounds domain.Range, class *domain.InstrumentClass) ([]report.Row, error)
	Chart(ctx context.Context, bounds domain.Range, group domain.Period) ([]report.ChartPoint, error)
	PeriodStats(ctx context.Context, bounds domain.Range, opts stats.Options) (*stats.Summary, error)
	AvailablePeriods(ctx context.Context) (stats.Periods, error)
}

// Config holds server configuration
type Config struct {
	Port     int
	APIToken string
	DevMode  bool
	Log      zerolog.Logger
	Reader   Reader
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	reader Reader
	token  string
	port   int
	log    zerolog.Logger
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		reader: cfg.Reader,
		token:  cfg.APIToken,
		port:   cfg.Port,
		log:    cfg.Log.With().Str("component", "http").Logger(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.requireToken)

		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)
		r.Get("/history", s.handleHistory)
		r.Get("/chart", s.handleChart)
		r.Get("/stats", s.handleStats)
		r.Get("/periods", s.handlePeriods)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// requireToken accepts "Authorization: Bearer <token>" or a token query parameter
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.token {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
