// Package webui serves the HTML front end. It holds no state of its
// own: every page is rendered from data fetched over the record API,
// and backend outages degrade to an error banner instead of a crash.
package webui

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finledger/internal/client"
	"finledger/internal/core"
	"finledger/web"
)

// Backend is the slice of the record API the UI needs. *client.Client
// satisfies it; tests swap in a fake.
type Backend interface {
	List(ctx context.Context, f core.Filter, skip, limit int) (client.ItemList, error)
	Get(ctx context.Context, id int64) (core.Record, error)
	Create(ctx context.Context, item client.CreateItem) (core.Record, error)
	Update(ctx context.Context, id int64, item client.UpdateItem) (core.Record, error)
	Delete(ctx context.Context, id int64) error
}

type Server struct {
	http.Server

	backend      Backend
	templates    *template.Template
	shutdownOnce sync.Once
}

// NewServer builds the UI server with its routes and parsed templates.
func NewServer(addr string, backend Backend) (*Server, error) {
	tmpl, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      withRequestLogging(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		backend:   backend,
		templates: tmpl,
	}

	mux.Handle("GET /static/", http.FileServerFS(web.StaticFS))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /create", s.handleCreateForm)
	mux.HandleFunc("POST /create", s.handleCreateSubmit)
	mux.HandleFunc("GET /edit/{id}", s.handleEditForm)
	mux.HandleFunc("POST /edit/{id}", s.handleEditSubmit)
	mux.HandleFunc("POST /delete/{id}", s.handleDelete)

	return s, nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// withRequestLogging logs one line per completed request.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		slog.InfoContext(r.Context(), "request complete",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
