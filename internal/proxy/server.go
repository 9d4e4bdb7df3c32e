// Package proxy serves the browser front end and relays its Notion and
// Gemini calls, which cannot be made from the page because of CORS.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"notionpost/internal/formatter"
	"notionpost/internal/generator"
	"notionpost/internal/notion"
	"notionpost/internal/preview"
)

// GeneratorFactory builds a generator for a single request.
type GeneratorFactory func(ctx context.Context, s generator.Settings) (generator.Generator, error)

type Options struct {
	NotionBaseURL string
	NotionVersion string
	StaticDir     string
	HTTPClient    *http.Client
	NewGenerator  GeneratorFactory
	Logger        *zap.Logger
}

type Server struct {
	notionBase    string
	notionVersion string
	http          *http.Client
	newGenerator  GeneratorFactory
	static        http.Handler
	logger        *zap.Logger
}

func New(opts Options) *Server {
	s := &Server{
		notionBase:    strings.TrimRight(opts.NotionBaseURL, "/"),
		notionVersion: opts.NotionVersion,
		http:          opts.HTTPClient,
		newGenerator:  opts.NewGenerator,
		logger:        opts.Logger,
	}
	if s.notionBase == "" {
		s.notionBase = notion.DefaultBaseURL
	}
	if s.notionVersion == "" {
		s.notionVersion = notion.DefaultVersion
	}
	if s.http == nil {
		s.http = &http.Client{Timeout: 60 * time.Second}
	}
	if s.newGenerator == nil {
		s.newGenerator = generator.New
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if opts.StaticDir != "" {
		s.static = http.FileServer(http.Dir(opts.StaticDir))
	}
	return s
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/notion/", s.handleNotionPassthrough)
	mux.HandleFunc("/api/functions/notion-api", s.handleNotionFunction)
	mux.HandleFunc("/api/functions/gemini-api", s.handleGeminiFunction)
	mux.HandleFunc("/api/preview", s.handlePreview)
	mux.Handle("/", s.staticHandler())
	return corsMiddleware(s.logMiddleware(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.static == nil || strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		s.static.ServeHTTP(w, r)
	})
}

type previewReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Format  string `json:"format"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req previewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := preview.Build(req.Title, req.Content, formatter.ParseFormat(req.Format))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Notion-Version")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
