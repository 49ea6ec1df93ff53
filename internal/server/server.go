// Package server implements `orca serve`, an HTTP front end to the pipeline.
//
// # Endpoints
//
//	GET  /healthz              liveness, always {"status":"ok"}
//	GET  /fonts                bundled fonts as JSON
//	POST /render?format=png    render the request body
//
// The body of a render request is program text, or a flat tree JSON
// document when the Content-Type is application/json. Query parameters
// override the server defaults: format, measure, font, size, indent_mode,
// indent_pad, line_step, width, height, margin, scale, bounds, edges,
// detailed.
//
// Errors are returned as {"code": "...", "error": "..."} with status 400
// for invalid input, 422 when a font cannot draw the input, and 500
// otherwise.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/orca/pkg/errors"
	"github.com/matzehuels/orca/pkg/fonts"
	orcaio "github.com/matzehuels/orca/pkg/io"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/observability"
	"github.com/matzehuels/orca/pkg/pipeline"
)

// DefaultMaxBody bounds a request body.
const DefaultMaxBody = 1 << 20

// Response headers set on every rendered artifact.
const (
	HeaderRunID = "X-Orca-Run-Id"
	HeaderCache = "X-Orca-Cache"
)

// Options configures a Server.
type Options struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// Defaults seeds every render request before query overrides.
	// Input fields are ignored.
	Defaults pipeline.Options

	MaxBody int64
}

// Server serves render requests through one shared pipeline.Runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	maxBody  int64
	router   chi.Router
}

// New builds the router.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		logger:   opts.Logger,
		defaults: opts.Defaults,
		maxBody:  opts.MaxBody,
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBody
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/fonts", s.handleFonts)
	r.Post("/render", s.handleRender)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("Listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type fontInfo struct {
	Name    string `json:"name"`
	Family  string `json:"family"`
	Format  string `json:"format"`
	Mono    bool   `json:"mono"`
	Default bool   `json:"default,omitempty"`
}

func (s *Server) handleFonts(w http.ResponseWriter, _ *http.Request) {
	var out []fontInfo
	for _, name := range fonts.Names() {
		f, err := fonts.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, fontInfo{
			Name:    f.Name,
			Family:  f.Family,
			Format:  string(f.Format),
			Mono:    f.Mono,
			Default: f.Name == fonts.Default,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.renderOptions(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set(HeaderRunID, res.ID)
	w.Header().Set(HeaderCache, cacheHeader(res.CacheInfo))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[format])
}

// renderOptions reads the body and query of a render request.
func (s *Server) renderOptions(w http.ResponseWriter, r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Source, opts.Path, opts.Seed, opts.Tree, opts.Tokens = "", "", nil, nil, nil
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if isJSON(r.Header.Get("Content-Type")) {
		t, tokens, err := orcaio.ReadTree(body)
		if err != nil {
			return opts, err
		}
		opts.Tree, opts.Tokens = t, tokens
	} else {
		data, err := io.ReadAll(body)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
		}
		if err := errors.ValidateSource(string(data)); err != nil {
			return opts, err
		}
		opts.Source = string(data)
	}

	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		return opts, err
	}
	return opts, nil
}

// applyQuery overrides opts with query parameters.
func applyQuery(opts *pipeline.Options, q map[string][]string) error {
	get := func(k string) (string, bool) {
		v, ok := q[k]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	}

	format, ok := get("format")
	if !ok {
		format = pipeline.FormatPNG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}
	opts.Formats = []string{format}
	if opts.Steps == (layout.Steps{}) {
		opts.Steps = layout.DefaultSteps()
	}

	if v, ok := get("measure"); ok {
		opts.Measure = v
	}
	if v, ok := get("font"); ok {
		opts.Font = v
	}
	if v, ok := get("indent_mode"); ok {
		mode, err := layout.ParseIndentMode(v)
		if err != nil {
			return err
		}
		opts.Steps.Mode = mode
	}

	if v, ok := get("size"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "size: not a number: %q", v)
		}
		opts.Size = f
	}

	ints := map[string]*int{
		"indent_pad": &opts.Steps.Pad,
		"line_step":  &opts.Steps.Line,
		"width":      &opts.Width,
		"height":     &opts.Height,
		"margin":     &opts.Margin,
		"scale":      &opts.Scale,
	}
	for k, dst := range ints {
		if v, ok := get(k); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "%s: not an integer: %q", k, v)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{"bounds": &opts.Bounds, "edges": &opts.Edges, "detailed": &opts.Detailed}
	for k, dst := range bools {
		if v, ok := get(k); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "%s: not a boolean: %q", k, v)
			}
			*dst = b
		}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Render failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}

func statusOf(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeEmptyTree, errors.ErrCodeInvalidSource,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig, errors.ErrCodeFontNotFound:
		return http.StatusBadRequest
	case errors.ErrCodeRender, errors.ErrCodeFont:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// logRequests logs every request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		defer func() {
			d := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
			s.logger.Info("Request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", d.Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}

func cacheHeader(ci pipeline.CacheInfo) string {
	state := func(hit bool) string {
		if hit {
			return "hit"
		}
		return "miss"
	}
	return "layout=" + state(ci.LayoutHit) + ", render=" + state(ci.RenderHit)
}

func isJSON(contentType string) bool {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mt), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
