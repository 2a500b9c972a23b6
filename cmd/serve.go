package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/apandji/pandjico4/internal/config"
	"github.com/apandji/pandjico4/internal/logger"
	"github.com/apandji/pandjico4/internal/store"
)

const debounceDuration = 500 * time.Millisecond

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and watches for changes",
	Long: `The serve command performs an initial build of your site, then starts a local
web server to serve your output directory. It also watches the project data,
markdown, layouts, sidebar shell and static directories and rebuilds the site
when they change.

Besides the site itself it answers:
  GET /api/works           the works list as the page would show it (JSON)
  GET /api/works/fragment  the rendered sidebar fragment
  GET /health`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cmd.Flags().Changed("port") {
			cfg.Port = serverPort
		}
		l := appLogger.With(logger.Scope("serve"))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l.Info("performing initial build")
		if _, err := runBuild(ctx, cfg, false); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		api := newWorksAPI(cfg, l)
		watcher, err := watchSources(ctx, cfg, l, serialize(func() {
			l.Info("rebuilding site due to changes")
			if _, err := runBuild(ctx, cfg, false); err != nil {
				l.Error("rebuild failed", logger.Error(err))
				return
			}
			api.reset()
			l.Info("site rebuilt")
		}))
		if err != nil {
			return err
		}
		defer watcher.Close()

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           newRouter(cfg, api),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		l.Info("serving site",
			slog.String("dir", cfg.OutputDir),
			slog.String("url", fmt.Sprintf("http://localhost:%d", cfg.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	},
}

// watchSources watches every source directory recursively and calls
// rebuild once changes have settled for debounceDuration.
func watchSources(ctx context.Context, cfg config.Config, l *slog.Logger, rebuild func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	go func() {
		var buildTimer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if buildTimer != nil {
					buildTimer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				l.Debug("change detected", slog.String("path", event.Name), slog.String("op", event.Op.String()))

				if event.Has(fsnotify.Create) && isDir(event.Name) {
					if err := watcher.Add(event.Name); err != nil {
						l.Warn("failed to watch new directory", slog.String("path", event.Name), logger.Error(err))
					}
				}

				if buildTimer != nil {
					buildTimer.Stop()
				}
				buildTimer = time.AfterFunc(debounceDuration, rebuild)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.Warn("watcher error", logger.Error(err))
			}
		}
	}()

	for _, root := range watchRoots(cfg) {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			l.Debug("not watching missing directory", slog.String("dir", root))
			continue
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				l.Warn("error walking directory", slog.String("path", path), logger.Error(err))
				return nil
			}
			if d.IsDir() {
				if err := watcher.Add(path); err != nil {
					l.Warn("failed to watch directory", slog.String("path", path), logger.Error(err))
				}
			}
			return nil
		})
		if err != nil {
			l.Warn("error during initial directory walk", slog.String("dir", root), logger.Error(err))
		}
	}
	return watcher, nil
}

// watchRoots lists the source directories; the data and shell files are
// covered by watching their directories.
func watchRoots(cfg config.Config) []string {
	seen := map[string]bool{}
	var roots []string
	for _, dir := range []string{
		cfg.ContentDir,
		cfg.LegacyContentDir,
		cfg.LayoutsDir,
		cfg.StaticDir,
		filepath.Dir(cfg.DataFile),
		filepath.Dir(cfg.ShellFile),
	} {
		if dir == "" || seen[filepath.Clean(dir)] {
			continue
		}
		seen[filepath.Clean(dir)] = true
		roots = append(roots, dir)
	}
	return roots
}

// serialize returns fn guarded so that calls never overlap. A rebuild that
// fires while another is running waits for it to finish.
func serialize(fn func()) func() {
	var mu sync.Mutex
	return func() {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// worksAPI answers works list queries against the published data file.
type worksAPI struct {
	cfg    config.Config
	logger *slog.Logger

	mu    sync.Mutex
	store *store.Store
}

func newWorksAPI(cfg config.Config, l *slog.Logger) *worksAPI {
	a := &worksAPI{cfg: cfg, logger: logger.OrDiscard(l)}
	a.reset()
	return a
}

// reset drops the cached data so the next request reads the rebuilt file.
func (a *worksAPI) reset() {
	published := filepath.Join(a.cfg.OutputDir, filepath.FromSlash(a.cfg.DataFile))
	if filepath.IsAbs(a.cfg.DataFile) {
		published = filepath.Join(a.cfg.OutputDir, store.DefaultDataPath)
	}
	dir, name := filepath.Split(published)
	st := store.New(store.NewDirTransport(dir), store.WithDataPath(name), store.WithLogger(a.logger))

	a.mu.Lock()
	a.store = st
	a.mu.Unlock()
}

func (a *worksAPI) current() *store.Store {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store
}

func queryFromRequest(r *http.Request) worksQuery {
	q := r.URL.Query()
	return worksQuery{
		Path: q.Get("path"),
		Tags: splitTags(q.Get("tags")),
		Sort: q.Get("sort"),
		Dir:  q.Get("dir"),
	}
}

func (a *worksAPI) list(w http.ResponseWriter, r *http.Request) {
	c, err := runWorks(r.Context(), a.current(), nil, a.cfg, queryFromRequest(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (a *worksAPI) fragment(w http.ResponseWriter, r *http.Request) {
	doc, err := loadShell(a.cfg.ShellFile)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("sidebar shell '%s' not found", a.cfg.ShellFile))
		return
	}

	c, err := runWorks(r.Context(), a.current(), doc, a.cfg, queryFromRequest(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.WriteShell(w); err != nil {
		a.logger.Error("failed to write sidebar fragment", logger.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// noCache serves the output directory without caching and without
// directory listings.
func noCache(outputDir string) http.Handler {
	files := http.FileServer(http.Dir(outputDir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(outputDir, filepath.FromSlash(r.URL.Path), "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		files.ServeHTTP(w, r)
	})
}

func newRouter(cfg config.Config, api *worksAPI) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", health)
	r.Route("/api/works", func(r chi.Router) {
		r.Get("/", api.list)
		r.Get("/fragment", api.fragment)
	})
	r.Handle("/*", noCache(cfg.OutputDir))
	return r
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
