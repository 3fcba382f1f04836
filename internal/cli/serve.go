package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hydrograph/pkg/annotate"
	"github.com/matzehuels/hydrograph/pkg/errors"
	"github.com/matzehuels/hydrograph/pkg/observability"
	"github.com/matzehuels/hydrograph/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown of the preview server.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, an HTTP preview of one network.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		f       styleFlags
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [network.json]",
		Short: "Serve live renderings of a network over HTTP",
		Long: `Serve live renderings of a network over HTTP.

Routes:
  /healthz      liveness probe
  /graph.dot    annotated DOT source
  /graph.svg    rendered graph
  /graph.png    rendered graph
  /legend.png   color bar

Query parameters time, layout and colorby override the command flags,
e.g. /graph.svg?time=6&layout=neato&colorby=head.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}
			return c.runServe(cmd.Context(), args[0], c.options(cmd, &f), f.results, addr, noCache)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, opts pipeline.Options, resultsPath, addr string, noCache bool) error {
	in, err := loadInputs(ctx, input, resultsPath)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newPreviewServer(in, runner, opts, c.Logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Serving %s on %s", StyleHighlight.Render(in.net.Name), StyleLink.Render("http://"+displayAddr(addr)+"/graph.svg"))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		printInfo("Server stopped")
		return nil
	}
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// previewServer renders the loaded network on request.
type previewServer struct {
	in     *inputs
	runner *pipeline.Runner
	base   pipeline.Options
	log    *log.Logger
}

func newPreviewServer(in *inputs, runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) *previewServer {
	return &previewServer{in: in, runner: runner, base: base, log: logger}
}

func (s *previewServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/graph.{format}", s.handleGraph)
	r.Get("/legend.png", s.handleLegend)
	return r
}

type ctxRequestID struct{}

// requestID tags each request with a UUID, honoring an incoming
// X-Request-ID header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxRequestID{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID{}).(string)
	return id
}

func (s *previewServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := requestIDFrom(r.Context())
		observability.HTTP().OnRequest(r.Context(), id, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		observability.HTTP().OnResponse(r.Context(), id, r.Method, r.URL.Path, ww.Status(), time.Since(start))
		s.log.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "duration", time.Since(start))
	})
}

func (s *previewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"network": s.in.net.Name,
		"results": s.in.res != nil,
	})
}

var graphContentTypes = map[string]string{
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
}

func (s *previewServer) handleGraph(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	contentType, ok := graphContentTypes[format]
	if !ok {
		s.writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no graph format %q", format))
		return
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), s.in.net, s.in.res, opts)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if result.FellBack {
		w.Header().Set("X-Layout-Fallback", result.Layout)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	_, _ = w.Write(result.Artifacts[format])
}

func (s *previewServer) handleLegend(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	g, err := annotate.Build(s.in.net, s.in.res, opts.AnnotateOptions())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	bar, hit, err := s.runner.LegendWithCacheInfo(r.Context(), g.Legend, opts)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Cache", cacheStatus(hit))
	_, _ = w.Write(bar)
}

// requestOptions applies the time, layout and colorby query parameters.
func (s *previewServer) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.base
	q := r.URL.Query()
	if v := q.Get("time"); v != "" {
		t, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "time must be an integer hour, got %q", v)
		}
		opts.Time = t
	}
	if v := q.Get("layout"); v != "" {
		opts.Layout = v
	}
	if v := q.Get("colorby"); v != "" {
		opts.ColorBy = v
	}
	return opts, opts.ValidateAndSetDefaults()
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

func (s *previewServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", "error", err)
	}
}

func (s *previewServer) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]string{"error": code, "message": message})
}

// writeErr maps coded errors to HTTP statuses.
func (s *previewServer) writeErr(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	switch {
	case errors.IsInvalid(err):
		s.writeError(w, http.StatusBadRequest, string(code), errors.UserMessage(err))
	case errors.IsNotFound(err):
		s.writeError(w, http.StatusNotFound, string(code), errors.UserMessage(err))
	default:
		s.log.Error("render failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, string(errors.ErrCodeInternal), "render failed")
	}
}
