// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

// Package server serves the rendered function page over HTTP and optionally
// rebuilds it when source files change.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"cdr.dev/slog"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/woozymasta/pgfuncdoc"
)

const (
	// ReloadPath is the server-sent events endpoint used by the page in watch mode.
	ReloadPath = "/__reload"

	debounceDelay   = 100 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// ErrNoPage is returned by Serve when the initial build fails.
var ErrNoPage = errors.New("initial page build failed")

// Page is one rendered state served by the server.
type Page struct {
	HTML    string
	Catalog *pgfuncdoc.Catalog
}

// BuildFunc renders the page. It is called once at start and after each
// debounced change of a watched file.
type BuildFunc func(ctx context.Context) (Page, error)

// Options configures Server.
type Options struct {
	// Addr is the listen address; port 0 picks a free port.
	Addr string
	// Build renders the page.
	Build BuildFunc
	// Watch lists files whose change triggers a rebuild; empty disables watching.
	Watch []string
	// Logger receives request and rebuild logs.
	Logger slog.Logger
	// OnListen is called with the page URL once the listener is open.
	OnListen func(url string)
}

// Server serves the last successfully built page.
type Server struct {
	opt      Options
	log      slog.Logger
	notifier *notifier

	// buildMu serializes builds so the last started build is the last swapped in.
	buildMu sync.Mutex

	mu       sync.RWMutex
	page     Page
	pageJSON []byte
}

// New creates a server; call Rebuild or Serve to build the first page.
func New(opt Options) *Server {
	return &Server{
		opt:      opt,
		log:      opt.Logger.Named("server"),
		notifier: newNotifier(),
	}
}

// Watching reports whether live reload is enabled.
func (s *Server) Watching() bool {
	return len(s.opt.Watch) > 0
}

// Rebuild renders a new page and swaps it in.
// On error the previous page stays served. Concurrent calls run one at a time.
func (s *Server) Rebuild(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	page, err := s.opt.Build(ctx)
	if err != nil {
		return err
	}

	var catalogJSON []byte
	if page.Catalog != nil {
		catalogJSON, err = json.MarshalIndent(page.Catalog, "", "  ")
		if err != nil {
			return fmt.Errorf("encode catalog: %w", err)
		}
	}

	s.mu.Lock()
	s.page = page
	s.pageJSON = catalogJSON
	s.mu.Unlock()
	return nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		s.requestLogger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/", s.handlePage)
	r.Get("/index.html", s.handlePage)
	r.Get("/catalog.json", s.handleCatalog)
	r.Get("/healthz", s.handleHealth)
	if s.Watching() {
		r.Get(ReloadPath, s.handleReload)
	}

	return r
}

// Serve builds the first page and serves until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Rebuild(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNoPage, err)
	}

	var watcher *fsnotify.Watcher
	if s.Watching() {
		var err error
		watcher, err = s.newWatcher()
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()
	}

	ln, err := net.Listen("tcp", s.opt.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opt.Addr, err)
	}

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	url := "http://" + ln.Addr().String() + "/"
	s.log.Info(ctx, "serving page", slog.F("url", url), slog.F("watch", s.Watching()))
	if s.opt.OnListen != nil {
		s.opt.OnListen(url)
	}

	if watcher != nil {
		eg.Go(func() error {
			s.watchLoop(egctx, watcher)
			return nil
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.log.Debug(ctx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// handlePage serves the current page.
func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	html := s.page.HTML
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	_, _ = w.Write([]byte(html))
}

// handleCatalog serves the catalog the current page was built from.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data := s.pageJSON
	s.mu.RUnlock()

	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleReload streams "reload" events after each page swap.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(ch)

	_, _ = fmt.Fprint(w, "data: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			_, _ = fmt.Fprint(w, "data: reload\n\n")
			flusher.Flush()
		}
	}
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Debug(r.Context(), "request",
			slog.F("method", r.Method),
			slog.F("path", r.URL.Path),
			slog.F("status", ww.Status()),
			slog.F("bytes", ww.BytesWritten()),
			slog.F("duration", time.Since(start)),
		)
	})
}

// newWatcher watches the parent directories of watched files, so files
// replaced by rename still produce events.
func (s *Server) newWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dirs := make(map[string]struct{})
	for _, file := range s.watchedFiles() {
		dirs[filepath.Dir(file)] = struct{}{}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	return watcher, nil
}

// watchedFiles returns cleaned absolute paths of watched files.
func (s *Server) watchedFiles() []string {
	files := make([]string, 0, len(s.opt.Watch))
	for _, file := range s.opt.Watch {
		abs, err := filepath.Abs(file)
		if err != nil {
			abs = file
		}

		files = append(files, filepath.Clean(abs))
	}

	return files
}

// watchLoop rebuilds once per burst of changes to watched files.
func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	watched := make(map[string]struct{})
	for _, file := range s.watchedFiles() {
		watched[file] = struct{}{}
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			name, err := filepath.Abs(event.Name)
			if err != nil {
				name = event.Name
			}

			if _, ok := watched[filepath.Clean(name)]; !ok {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			changed := event.Name
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.reload(ctx, changed)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			s.log.Error(ctx, "watcher error", slog.Error(err))
		}
	}
}

// reload rebuilds the page and notifies live reload subscribers on success.
func (s *Server) reload(ctx context.Context, changed string) {
	if ctx.Err() != nil {
		return
	}

	s.log.Debug(ctx, "change detected", slog.F("file", changed))
	if err := s.Rebuild(ctx); err != nil {
		s.log.Error(ctx, "rebuild failed, keeping previous page", slog.Error(err))
		return
	}

	s.log.Info(ctx, "page rebuilt", slog.F("subscribers", s.notifier.Len()))
	s.notifier.Broadcast()
}
