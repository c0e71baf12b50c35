package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/store"
	"github.com/samber/lo"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	tagline         = "Pick your favourite episodes"
	shutdownTimeout = 5 * time.Second
)

// Server is the web presentation layer over a [store.Container].
type Server struct {
	addr     string
	store    store.Container
	logger   *log.Logger
	router   *BasicRouter
	loadOnce sync.Once
	loadCtx  context.Context
}

// episodeView is an episode as rendered by the page templates and JSON API.
type episodeView struct {
	models.Episode
	Favourite bool `json:"favourite"`
}

type pageData struct {
	Title          string
	Tagline        string
	Active         string
	Path           string
	Query          string
	FavouriteCount int
	Loading        bool
	Err            error
	Episodes       []episodeView
}

// New creates a [Server] listening on addr once started.
func New(addr string, st store.Container, logger *log.Logger) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	s := &Server{
		addr:    addr,
		store:   st,
		logger:  shared.WithLogger(logger, "component", "server"),
		router:  NewBasicRouter(),
		loadCtx: context.Background(),
	}

	s.router.Use(Recover(s.logger), Logging(s.logger))
	s.router.Handle(http.MethodGet, "/{$}", http.HandlerFunc(s.handleHome))
	s.router.Handle(http.MethodGet, "/faves", http.HandlerFunc(s.handleFaves))
	s.router.Handle(http.MethodPost, "/favourites/{id}", http.HandlerFunc(s.handleToggle))
	s.router.Handle(http.MethodPost, "/retry", http.HandlerFunc(s.handleRetry))
	s.router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(s.handleHealth))
	s.router.Handler(&apiHandler{store: st})
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe listens on the configured address and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("%w: listen on %s: %v", shared.ErrNetwork, s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve starts the one-time episode load and serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.startLoad(ctx)

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Infof("serving web UI at http://%v", ln.Addr())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err, ok := <-serverErrors:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// startLoad runs the initial load exactly once, bound to the server lifetime.
func (s *Server) startLoad(ctx context.Context) {
	s.loadOnce.Do(func() {
		s.loadCtx = ctx
		go s.load(ctx)
	})
}

func (s *Server) load(ctx context.Context) {
	if err := s.store.Load(ctx); err != nil {
		s.logger.Error("episode load failed", "error", err)
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	s.render(w, "home", "/", query, store.SearchEpisodes(s.store.Episodes(), query))
}

func (s *Server) handleFaves(w http.ResponseWriter, r *http.Request) {
	s.render(w, "faves", "/faves", "", s.store.Favourites())
}

func (s *Server) render(w http.ResponseWriter, active, path, query string, episodes []models.Episode) {
	snap := s.store.Snapshot()
	data := pageData{
		Title:          lo.Ternary(snap.Title == "", "tvx", snap.Title),
		Tagline:        tagline,
		Active:         active,
		Path:           path,
		Query:          query,
		FavouriteCount: len(snap.Favourites),
		Loading:        snap.Status == store.StatusLoading,
		Err:            snap.Err,
		Episodes:       toViews(episodes, snap.Favourites),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("failed to render page", "page", active, "error", err)
	}
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid episode id", http.StatusBadRequest)
		return
	}

	episode, ok := s.store.Episode(id)
	if !ok {
		http.Error(w, fmt.Sprintf("%v: %d", shared.ErrEpisodeNotFound, id), http.StatusNotFound)
		return
	}

	favourite := s.store.Toggle(episode)
	s.logger.Debug("toggled favourite", "id", id, "favourite", favourite)

	http.Redirect(w, r, redirectTarget(r.FormValue("next")), http.StatusSeeOther)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	if s.store.Status() == store.StatusFailed {
		s.logger.Info("retrying episode load")
		s.load(s.loadCtx)
	}
	http.Redirect(w, r, redirectTarget(r.FormValue("next")), http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "load": s.store.Status().String()})
}

// redirectTarget keeps redirects on this site's two pages.
func redirectTarget(next string) string {
	if next == "/faves" {
		return next
	}
	return "/"
}

func toViews(episodes, favourites []models.Episode) []episodeView {
	return lo.Map(episodes, func(ep models.Episode, _ int) episodeView {
		return episodeView{
			Episode:   ep,
			Favourite: store.ContainsEpisode(favourites, ep.ID),
		}
	})
}

// apiHandler serves the JSON views of the store.
type apiHandler struct {
	store store.Container
}

func (h *apiHandler) Routes() []string {
	return []string{"/api/episodes", "/api/favourites"}
}

func (h *apiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := h.store.Snapshot()
	if snap.Status == store.StatusFailed {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": snap.Err.Error()})
		return
	}

	episodes := snap.Episodes
	if r.URL.Path == "/api/favourites" {
		episodes = snap.Favourites
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"title":    snap.Title,
		"status":   snap.Status.String(),
		"count":    len(episodes),
		"episodes": toViews(episodes, snap.Favourites),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
