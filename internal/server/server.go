// Package server exposes the render pipeline over HTTP.
//
// # Endpoints
//
//	POST /render   JSON request body, responds with the artifact
//	POST /bounds   same body, responds with the document metadata as JSON
//	GET  /healthz  liveness and build version
//
// Requests carry geometry inline (WKT or GeoJSON); the server never reads
// files. Every response has an X-Request-ID header, taken from the request
// when it holds a valid UUID and generated otherwise.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/geosvg/pkg/buildinfo"
	"github.com/matzehuels/geosvg/pkg/config"
	"github.com/matzehuels/geosvg/pkg/errors"
	"github.com/matzehuels/geosvg/pkg/observability"
	"github.com/matzehuels/geosvg/pkg/pipeline"
)

const (
	// HeaderRequestID is the response header carrying the request's UUID.
	HeaderRequestID = "X-Request-ID"

	// HeaderSVGHash carries the content hash of the rendered SVG.
	HeaderSVGHash = "X-SVG-Hash"

	// DefaultMaxBody bounds request bodies.
	DefaultMaxBody = 8 << 20

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second

	shutdownTimeout = 10 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// Options configures a Server.
type Options struct {
	MaxBody int64
	Timeout time.Duration
}

// Server handles render requests with one shared Runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a server around runner. Zero options take their defaults.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	r.Post("/bounds", s.handleBounds)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// =============================================================================
// Middleware
// =============================================================================

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// logRequests writes one log line per request and fires the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d)
	})
}

// =============================================================================
// Handlers
// =============================================================================

// RenderRequest is the JSON body of /render and /bounds. Either the
// top-level sources or Layers is used, never both.
type RenderRequest struct {
	WKT     string             `json:"wkt,omitempty"`
	GeoJSON json.RawMessage    `json:"geojson,omitempty"`
	Layers  []LayerRequest     `json:"layers,omitempty"`
	Style   config.StyleConfig `json:"style"`
	Format  string             `json:"format,omitempty"`
	Width   string             `json:"width,omitempty"`
	Height  string             `json:"height,omitempty"`
	Margin  float32            `json:"margin,omitempty"`
	Scale   float64            `json:"scale,omitempty"`
	Refresh bool               `json:"refresh,omitempty"`
}

// LayerRequest is one inline layer.
type LayerRequest struct {
	Name    string             `json:"name,omitempty"`
	WKT     string             `json:"wkt,omitempty"`
	GeoJSON json.RawMessage    `json:"geojson,omitempty"`
	Style   config.StyleConfig `json:"style"`
}

// Options converts the request into pipeline options.
func (req RenderRequest) Options() (pipeline.Options, error) {
	format := req.Format
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		WKT:     req.WKT,
		GeoJSON: geoJSONString(req.GeoJSON),
		Style:   req.Style,
		Width:   req.Width,
		Height:  req.Height,
		Margin:  req.Margin,
		Formats: []string{format},
		Scale:   req.Scale,
		Refresh: req.Refresh,
	}
	if len(req.Layers) > 0 {
		if opts.WKT != "" || opts.GeoJSON != "" {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "give either top-level wkt/geojson or layers, not both")
		}
		for _, l := range req.Layers {
			opts.Layers = append(opts.Layers, config.Layer{
				Name:    l.Name,
				WKT:     l.WKT,
				GeoJSON: geoJSONString(l.GeoJSON),
				Style:   l.Style,
			})
		}
	}
	return opts, nil
}

// geoJSONString accepts GeoJSON either as an embedded object or as a JSON
// string holding the document.
func geoJSONString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set(HeaderSVGHash, result.SVGHash)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	opts, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	meta, err := s.runner.Bounds(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// decode reads a RenderRequest. Unknown fields are rejected, which also
// keeps clients from naming server-side files.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	var req RenderRequest
	if err := dec.Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if stderrors.As(err, &tooBig) {
			return pipeline.Options{}, errTooLarge
		}
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return req.Options()
}

// =============================================================================
// Responses
// =============================================================================

var errTooLarge = stderrors.New("request body too large")

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case stderrors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", middleware.GetReqID(r.Context()), "err", err)
	} else {
		s.logger.Debug("request rejected", "id", middleware.GetReqID(r.Context()), "err", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:     err.Error(),
		Code:      string(errors.GetCode(err)),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
