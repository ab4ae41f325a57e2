package preview

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blogsmith/blogsmith/internal/config"
	blogerrors "github.com/blogsmith/blogsmith/internal/foundation/errors"
	"github.com/blogsmith/blogsmith/internal/logfields"
)

// debounceDelay batches rapid editor saves into one rebuild.
const debounceDelay = 300 * time.Millisecond

// RebuildFunc regenerates the site into the output directory.
type RebuildFunc func(ctx context.Context) error

// Server serves the output directory over HTTP and rebuilds the site when
// content or static files change.
type Server struct {
	cfg     *config.Config
	repoDir string
	port    int
	rebuild RebuildFunc
}

// NewServer creates a preview server rooted at repoDir.
func NewServer(cfg *config.Config, repoDir string, port int, rebuild RebuildFunc) *Server {
	return &Server{cfg: cfg, repoDir: repoDir, port: port, rebuild: rebuild}
}

// Run builds the site, serves it, and watches for changes until ctx is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	// A failing initial build still starts the server; the next save can
	// fix the content and trigger a successful rebuild.
	if err := s.rebuild(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	outDir := filepath.Join(s.repoDir, s.cfg.Output.Directory)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           http.FileServer(http.Dir(outDir)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening",
			logfields.URL(fmt.Sprintf("http://localhost:%d", s.port)),
			logfields.Path(outDir))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	watcher, err := s.setupWatcher()
	if err != nil {
		shutdown(httpServer)
		return err
	}
	defer watcher.Close()

	rebuildReq, trigger, stopDebounce := newDebouncer()
	s.startRebuildWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			stopDebounce()
			shutdown(httpServer)
			return nil
		case err := <-serveErr:
			return blogerrors.WrapError(err, blogerrors.CategoryNetwork, "preview server failed").Build()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(watcher, ev, trigger)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(werr))
		}
	}
}

// setupWatcher watches the posts and static trees recursively.
func (s *Server) setupWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, blogerrors.WrapError(err, blogerrors.CategoryInternal, "failed to create file watcher").Build()
	}

	for _, dir := range []string{s.cfg.Content.PostsDir, s.cfg.Content.StaticDir} {
		root := filepath.Join(s.repoDir, dir)
		if _, statErr := os.Stat(root); statErr != nil {
			continue
		}
		if err := addDirsRecursive(watcher, root); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return watcher, nil
}

func (s *Server) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	// New subdirectories need their own watch.
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// newDebouncer returns a request channel, a trigger that coalesces bursts
// of events into one request, and a stop that cancels any armed timer.
// The channel is never closed: a timer firing during shutdown lands in the
// buffer and is simply never read.
func newDebouncer() (chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceDelay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

// startRebuildWorker rebuilds on request, collapsing requests that arrive
// while a rebuild is already running into a single followup run.
func (s *Server) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-rebuildReq:
				if !ok {
					return
				}
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				slog.Info("Change detected, rebuilding site")
				if err := s.rebuild(ctx); err != nil {
					slog.Warn("Rebuild failed", logfields.Error(err))
				}

				mu.Lock()
				running = false
				if pending {
					pending = false
					mu.Unlock()
					select {
					case rebuildReq <- struct{}{}:
					default:
					}
				} else {
					mu.Unlock()
				}
			}
		}
	}()
}

func shutdown(server *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Preview server shutdown error", logfields.Error(err))
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if werr := w.Add(path); werr != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(werr))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent filters out hidden files and editor temp/swap files so
// they never trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == ".DS_Store" || base == "Thumbs.db"
}
