// Package server implements the poster preview HTTP server.
//
// The server exposes the rendered artifacts of one poster configuration:
//
//	GET /healthz      liveness probe
//	GET /poster.svg   vector poster
//	GET /poster.png   raster poster
//	GET /thumb.png    downscaled preview
//	GET /meta.json    resolved run parameters
//
// Artifact responses carry a strong ETag derived from the response bytes, so
// unchanged posters answer conditional requests with 304. A ?precision=N
// query overrides the configured precision; ?refresh=1 bypasses cache reads.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkoster/pibauhaus/pkg/cache"
	pberrors "github.com/mkoster/pibauhaus/pkg/errors"
	"github.com/mkoster/pibauhaus/pkg/observability"
	"github.com/mkoster/pibauhaus/pkg/pipeline"
	"github.com/mkoster/pibauhaus/pkg/poster"
)

// Server serves rendered poster artifacts over HTTP.
type Server struct {
	cfg    Config
	poster poster.Config
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around a pipeline runner. The poster config is fixed
// for the server's lifetime; per-request query parameters can only narrow it.
func New(cfg Config, posterCfg poster.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, poster: posterCfg, runner: runner, logger: logger}
}

// Handler builds the chi router with middleware and all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/poster.svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/poster.png", s.handleArtifact(pipeline.FormatPNG, "image/png"))
	r.Get("/thumb.png", s.handleThumb)
	r.Get("/meta.json", s.handleMeta)

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "cache", s.cfg.CacheBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleArtifact serves one rendered format.
func (s *Server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.execute(r, pipeline.Options{Formats: []string{format}})
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeArtifact(w, r, result, result.Artifacts[format], contentType)
	}
}

func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	result, err := s.execute(r, pipeline.Options{
		Formats:   []string{pipeline.FormatPNG},
		Thumbnail: true,
		ThumbEdge: s.cfg.ThumbEdge,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeArtifact(w, r, result, result.Artifacts[pipeline.ThumbKey], "image/png")
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	result, err := s.execute(r, pipeline.Options{Formats: []string{pipeline.FormatJSON}})
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := json.MarshalIndent(result.Meta, "", "  ")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeArtifact(w, r, result, append(data, '\n'), "application/json")
}

// execute runs the pipeline with the server's poster config plus any
// per-request overrides from the query string.
func (s *Server) execute(r *http.Request, opts pipeline.Options) (*pipeline.Result, error) {
	cfg := s.poster

	if raw := r.URL.Query().Get("precision"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, pberrors.New(pberrors.ErrCodeInvalidPrecision, "precision %q is not an integer", raw)
		}
		if err := pberrors.ValidatePrecision(n); err != nil {
			return nil, err
		}
		cfg.Precision = n
	}
	if raw := r.URL.Query().Get("refresh"); raw == "1" || raw == "true" {
		opts.Refresh = true
	}

	opts.Config = cfg
	opts.Logger = s.logger
	return s.runner.Execute(r.Context(), opts)
}

// writeArtifact sends artifact bytes with caching headers, answering
// conditional requests with 304 when the ETag matches.
func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, result *pipeline.Result, data []byte, contentType string) {
	etag := `"` + cache.Hash(data) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("X-Run-Id", result.RunID)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// writeError maps structured error codes to HTTP statuses and emits a JSON
// body with the user-facing message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := pberrors.GetCode(err)
	switch code {
	case pberrors.ErrCodeInvalidConfig, pberrors.ErrCodeInvalidFormat,
		pberrors.ErrCodeInvalidPrecision, pberrors.ErrCodeInvalidDigit,
		pberrors.ErrCodeOutOfRange:
		status = http.StatusBadRequest
	case pberrors.ErrCodeNotFound, pberrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	if errors.Is(err, context.Canceled) {
		status = 499 // client closed request
	}

	s.logger.Error("request failed", "code", code, "err", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    string(code),
			"message": pberrors.UserMessage(err),
		},
	})
}

// logRequests reports each request to the logger and the observability hook.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", elapsed)
		observability.Serve().OnRequest(r.Method, r.URL.Path, ww.Status(), elapsed)
	})
}
