// Package web serves the upload form, results page and JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Veraticus/defect-triage/internal/categorize"
	"github.com/Veraticus/defect-triage/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// DefaultMaxUploadBytes caps multipart uploads.
	DefaultMaxUploadBytes = 16 << 20
	// DefaultSessionCapacity bounds the number of sessions holding a result.
	DefaultSessionCapacity = 128

	maxJSONBytes    = 4 << 20
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Logger          *slog.Logger
	Now             func() time.Time
	Version         string
	MaxUploadBytes  int64
	SessionCapacity int
}

// Server handles HTTP requests for categorizing defect files.
type Server struct {
	pipeline  *pipeline.Pipeline
	explainer categorize.Assigner
	store     *Store
	templates *template.Template
	logger    *slog.Logger
	now       func() time.Time
	version   string
	maxUpload int64
}

// New creates a server. The pipeline categorizes uploaded datasets and the
// explainer answers single-text API calls.
func New(p *pipeline.Pipeline, explainer categorize.Assigner, opts Options) (*Server, error) {
	if p == nil || explainer == nil {
		return nil, errors.New("web: pipeline and explainer are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.SessionCapacity <= 0 {
		opts.SessionCapacity = DefaultSessionCapacity
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	store, err := NewStore(opts.SessionCapacity)
	if err != nil {
		return nil, err
	}

	return &Server{
		pipeline:  p,
		explainer: explainer,
		store:     store,
		templates: tmpl,
		logger:    opts.Logger,
		now:       opts.Now,
		version:   opts.Version,
		maxUpload: opts.MaxUploadBytes,
	}, nil
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /results", s.handleResults)
	mux.HandleFunc("GET /download", s.handleDownload)
	mux.HandleFunc("POST /api/categorize", s.handleAPICategorize)
	mux.HandleFunc("POST /api/process", s.handleAPIProcess)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.logRequest(mux)
}

// ListenAndServe listens on addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown failed: %w", err)
	}
	<-errCh
	s.logger.Info("web server stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
