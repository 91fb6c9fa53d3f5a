package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"
	"time"

	"podshelf/internal/feed"
	"podshelf/internal/web"
)

// IndexProvider hands out the current folder index. The serve command swaps
// in a fresh index after filesystem changes, so handlers always fetch it per
// request instead of holding one.
type IndexProvider interface {
	Index() *feed.FolderIndex
}

// Config wires the HTTP front end. Exactly one of Channel (single-feed mode)
// or Index (folder-feeds mode) must be set.
type Config struct {
	// Root is the scan root, served as static files under /static/.
	Root     string
	Channel  *feed.Channel
	Index    IndexProvider
	Renderer *web.Renderer
}

type handler struct {
	root     string
	channel  *feed.Channel
	index    IndexProvider
	renderer *web.Renderer
	logger   *log.Logger
}

// New creates the HTTP handler exposing the feed, the web pages and the
// audio files.
func New(cfg Config, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}

	cleanRoot := filepath.Clean(cfg.Root)
	absRoot, err := filepath.Abs(cleanRoot)
	if err != nil {
		logger.Printf("warning: unable to resolve absolute scan root %q: %v", cfg.Root, err)
		absRoot = cleanRoot
	}

	h := &handler{
		root:     absRoot,
		channel:  cfg.Channel,
		index:    cfg.Index,
		renderer: cfg.Renderer,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/static/", h.handleStatic)

	if cfg.Index != nil {
		mux.HandleFunc("/web", h.handleFolderIndex)
		mux.HandleFunc("/web/", h.handleFolderPage)
		mux.HandleFunc("/feed/", h.handleFolderFeed)
	} else {
		mux.HandleFunc("/", h.handleRoot)
		mux.HandleFunc("/feed", h.handleFeed)
		mux.HandleFunc("/web", h.handlePage)
	}

	return logRequests(mux, logger)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleRoot serves the feed at "/" in single-feed mode; anything else under
// the catch-all pattern is unknown.
func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.handleFeed(w, r)
}

func (h *handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.writeFeed(w, h.channel)
}

func (h *handler) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	h.writePage(w, h.channel, "")
}

func (h *handler) handleFolderIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	data, err := h.index.Index().RenderIndex(h.renderer)
	if err != nil {
		h.logger.Printf("failed to render folder index: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		h.logger.Printf("failed to write folder index: %v", err)
	}
}

func (h *handler) handleFolderFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	channel := h.folderChannel(strings.TrimPrefix(r.URL.Path, "/feed/"))
	if channel == nil {
		http.NotFound(w, r)
		return
	}
	h.writeFeed(w, channel)
}

func (h *handler) handleFolderPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	channel := h.folderChannel(strings.TrimPrefix(r.URL.Path, "/web/"))
	if channel == nil {
		http.NotFound(w, r)
		return
	}
	h.writePage(w, channel, "/web")
}

func (h *handler) folderChannel(name string) *feed.Channel {
	if name == "" {
		return nil
	}
	return h.index.Index().Channel(name)
}

func (h *handler) writeFeed(w http.ResponseWriter, channel *feed.Channel) {
	data, err := channel.RenderFeed()
	if err != nil {
		h.logger.Printf("failed to render feed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		h.logger.Printf("failed to write feed: %v", err)
	}
}

func (h *handler) writePage(w http.ResponseWriter, channel *feed.Channel, indexURL string) {
	data, err := channel.RenderPage(h.renderer, indexURL)
	if err != nil {
		h.logger.Printf("failed to render page: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		h.logger.Printf("failed to write page: %v", err)
	}
}

func (h *handler) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rel := strings.TrimPrefix(r.URL.Path, "/static/")
	rel = pathpkg.Clean(rel)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." {
		http.NotFound(w, r)
		return
	}

	target := filepath.Join(h.root, filepath.FromSlash(rel))
	resolved, err := filepath.Abs(target)
	if err != nil {
		h.logger.Printf("failed to resolve static path %s: %v", target, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if !pathWithinRoot(h.root, resolved) {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		h.logger.Printf("failed to stat static file %s: %v", resolved, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, resolved)
}

func pathWithinRoot(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return rel != ".." && !strings.HasPrefix(rel, "../")
}

type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

func logRequests(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		duration := time.Since(start)
		logger.Printf("%s %s -> %d (%dB) in %s", r.Method, r.URL.Path, sw.status, sw.size, duration)
	})
}
