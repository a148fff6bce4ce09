package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/curtain"
	"github.com/aretw0/curtain/internal/logging"
	"github.com/aretw0/curtain/internal/presentation/graph"
	"github.com/aretw0/curtain/internal/runtime"
	"github.com/aretw0/curtain/internal/site"
	"github.com/aretw0/curtain/pkg/domain"
	"github.com/aretw0/curtain/pkg/ports"
	"github.com/aretw0/curtain/pkg/world"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Site is the part of a simulated site the server drives.
type Site interface {
	Navigate(ctx context.Context, path string) (*runtime.Cycle, error)
	Wait(ctx context.Context) error
	Displayed() *site.Page
	Status() domain.Status
	Watch(ctx context.Context) <-chan domain.Status
	Running() []string
	Registrations() int
	Paths() []string
	Journal() ports.Journal
	MetricsHandler() http.Handler
	Project(r world.Rect) world.Placement
}

// Server serves the control API for one site.
type Server struct {
	Site   Site
	Logger *slog.Logger
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Status        domain.Status `json:"status"`
	Path          string        `json:"path"`
	Registrations int           `json:"registrations"`
	Running       []string      `json:"running"`
}

// NavigateRequest is the body of POST /navigate.
type NavigateRequest struct {
	Path string `json:"path"`
	// Wait holds the response until the page is displayed.
	Wait bool `json:"wait,omitempty"`
}

// CycleResponse describes the cycle a navigation started or joined.
// Queued is set when a waiting navigation was issued during a cycle headed
// elsewhere; From and To then describe the queued navigation.
type CycleResponse struct {
	From          string     `json:"from"`
	To            string     `json:"to"`
	Registrations int        `json:"registrations"`
	Done          bool       `json:"done"`
	Queued        bool       `json:"queued,omitempty"`
	Page          *site.Page `json:"page,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s Site, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	server := &Server{Site: s, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", server.Health)
	r.Get("/info", server.Info)
	r.Get("/status", server.GetStatus)
	r.Get("/page", server.GetPage)
	r.Get("/pages", server.ListPages)
	r.Post("/navigate", server.Navigate)
	r.Get("/journal", server.GetJournal)
	r.Get("/events", server.SubscribeEvents)
	r.Get("/graph", server.GetGraph)
	r.Post("/project", server.Project)
	if h := s.MetricsHandler(); h != nil {
		r.Method(http.MethodGet, "/metrics", h)
	}
	return r
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "curtain-http",
		"version": curtain.Version,
	})
}

// GetStatus handles GET /status.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status:        s.Site.Status(),
		Registrations: s.Site.Registrations(),
		Running:       s.Site.Running(),
	}
	if p := s.Site.Displayed(); p != nil {
		resp.Path = p.Path
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetPage handles GET /page: the page currently on screen.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Site.Displayed())
}

// ListPages handles GET /pages.
func (s *Server) ListPages(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Site.Paths())
}

// Navigate handles POST /navigate. It answers 202 as soon as the cycle is
// started, or 200 once the page is displayed when the request asks to wait.
func (s *Server) Navigate(w http.ResponseWriter, r *http.Request) {
	var body NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cycle, err := s.Site.Navigate(r.Context(), body.Path)
	if err != nil {
		if errors.Is(err, site.ErrPageNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Navigate error: %v", err), http.StatusInternalServerError)
		return
	}

	resp := CycleResponse{
		From:          cycle.From(),
		To:            cycle.To(),
		Registrations: cycle.Registrations(),
	}

	if !body.Wait {
		select {
		case <-cycle.Done():
			resp.Done = true
		default:
		}
		s.writeJSON(w, http.StatusAccepted, resp)
		return
	}

	// A navigation issued during a cycle gets that cycle back. It is
	// displayed by a chained cycle once the running one swaps.
	if cycle.To() != body.Path {
		resp = CycleResponse{From: cycle.To(), To: body.Path, Queued: true}
	}

	err = cycle.Wait(r.Context())
	if err == nil {
		err = s.Site.Wait(r.Context())
	}
	if err != nil {
		resp.Error = err.Error()
		var cbErr *domain.CallbackError
		if errors.As(err, &cbErr) {
			s.writeJSON(w, http.StatusConflict, resp)
			return
		}
		s.writeJSON(w, http.StatusGatewayTimeout, resp)
		return
	}
	resp.Done = true
	resp.Page = s.Site.Displayed()
	s.writeJSON(w, http.StatusOK, resp)
}

// GetJournal handles GET /journal?n=.
func (s *Server) GetJournal(w http.ResponseWriter, r *http.Request) {
	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			http.Error(w, "n must be a non-negative integer", http.StatusBadRequest)
			return
		}
		n = v
	}

	entries, err := s.Site.Journal().Recent(r.Context(), n)
	if err != nil {
		http.Error(w, fmt.Sprintf("Journal error: %v", err), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []ports.JournalEntry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// GetGraph handles GET /graph: a Mermaid flowchart of the pages and the
// navigations recorded in the journal.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Site.Journal().Recent(r.Context(), 0)
	if err != nil {
		http.Error(w, fmt.Sprintf("Journal error: %v", err), http.StatusInternalServerError)
		return
	}

	var overlay *graph.Overlay
	if p := s.Site.Displayed(); p != nil {
		overlay = &graph.Overlay{Current: p.Path}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.Site.Paths(), entries, overlay))
}

// Project handles POST /project: a screen rectangle in, a world placement out.
func (s *Server) Project(w http.ResponseWriter, r *http.Request) {
	var rect struct {
		Left   float32 `json:"left"`
		Top    float32 `json:"top"`
		Width  float32 `json:"width"`
		Height float32 `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&rect); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p := s.Site.Project(world.Rect{Left: rect.Left, Top: rect.Top, Width: rect.Width, Height: rect.Height})
	s.writeJSON(w, http.StatusOK, map[string]any{
		"size":     map[string]float32{"width": p.Size.Width, "height": p.Size.Height},
		"position": map[string]float32{"x": p.Position.X, "y": p.Position.Y},
	})
}

// SubscribeEvents handles GET /events (SSE). Every status change is sent as
// one event; the first event carries the current status.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := s.Site.Watch(r.Context())

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case status, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: status\ndata: %s\n\n", status)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("response encode failed", "err", err)
	}
}
