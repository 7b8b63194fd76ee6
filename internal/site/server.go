package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-logr/logr"

	"github.com/ziadkadry99/navtree/internal/navindex"
	"github.com/ziadkadry99/navtree/internal/navtree"
)

// ServerConfig holds preview server configuration.
type ServerConfig struct {
	Port     int
	AllowAll bool // allow all CORS origins
	Open     bool // open a browser once listening
}

// Server serves a documentation output directory together with a small
// JSON API over its navigation index.
type Server struct {
	cfg        ServerConfig
	site       *Site
	index      *navindex.Set
	log        logr.Logger
	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a server for a loaded site. Sites without shard files
// are indexed in memory.
func NewServer(cfg ServerConfig, site *Site, log logr.Logger) *Server {
	s := &Server{
		cfg:   cfg,
		site:  site,
		index: site.Index,
		log:   log.WithName("server"),
	}
	if s.index == nil {
		s.index = navindex.Build(site.Tree, 0)
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/navtree", s.handleTree)
		r.Get("/lookup", s.handleLookup)
	})

	// Static files (must be registered after API routes).
	r.Handle("/*", http.FileServer(http.Dir(s.site.Dir)))

	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// treeResponse is the JSON body of /api/navtree.
type treeResponse struct {
	Tree     []*navtree.Node  `json:"tree"`
	Index    navtree.Index    `json:"index"`
	Messages navtree.Messages `json:"messages"`
	Pages    int              `json:"pages"`
	Missing  []string         `json:"missing,omitempty"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree := s.site.Tree
	if r.URL.Query().Get("resolve") == "false" {
		tree = s.site.Bundle.Tree
	}
	writeJSON(w, http.StatusOK, treeResponse{
		Tree:     tree,
		Index:    s.site.Bundle.Index,
		Messages: s.site.Bundle.Messages,
		Pages:    s.index.Len(),
		Missing:  s.site.Missing(),
	})
}

// lookupResponse is the JSON body of /api/lookup.
type lookupResponse struct {
	URL        string       `json:"url"`
	Path       navtree.Path `json:"path"`
	Breadcrumb []string     `json:"breadcrumb"`
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}

	path, err := s.index.Lookup(url)
	if errors.Is(err, navindex.ErrNotIndexed) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, lookupResponse{
		URL:        url,
		Path:       path,
		Breadcrumb: Breadcrumb(s.site.Tree, path),
	})
}

// Breadcrumb returns the labels along an index path, stopping early if
// the path leaves the tree.
func Breadcrumb(tree []*navtree.Node, path navtree.Path) []string {
	labels := []string{}
	for _, n := range navindex.Trail(tree, path) {
		labels = append(labels, n.Label)
	}
	return labels
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Start listens on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d", s.cfg.Port)
	if s.cfg.Open {
		go openBrowser(url)
	}
	s.log.Info("serving navigation index", "dir", s.site.Dir, "url", url)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
