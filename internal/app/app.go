// Package app wires together the page builder, the preview server, and the
// optional history store and file watcher. It provides lifecycle management
// for one preview session: start, reload, stop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	fsw "github.com/fontpreview/fontpreview/internal/adapters/fsnotify"
	"github.com/fontpreview/fontpreview/internal/adapters/web"
	"github.com/fontpreview/fontpreview/internal/logging"
	"github.com/fontpreview/fontpreview/internal/ports"
	"github.com/fontpreview/fontpreview/internal/preview"
)

var (
	// ErrNotStarted is returned by Reload before Start or after Stop.
	ErrNotStarted = errors.New("app: preview not started")
	// ErrOffline means a reload lost the address and the previous page could
	// not be served again; nothing is listening until the next successful reload.
	ErrOffline = errors.New("app: preview offline")
)

// Config holds the collaborators and settings for an App.
type Config struct {
	Addr        string        // listen address; port 0 lets the OS choose
	GracePeriod time.Duration // 0 = web.DefaultGracePeriod
	Logger      *slog.Logger  // nil = discard
	History     ports.HistoryStore

	// NewWatcher creates the watcher used in watch mode. nil = fsnotify.
	NewWatcher func() (ports.Watcher, error)
}

// Request describes what to preview.
type Request struct {
	Char     rune
	Families []ports.Family

	// FamiliesFile, when set, is read at every (re)build and its families
	// are appended after Families.
	FamiliesFile string

	// Watch rebuilds the page whenever FamiliesFile changes.
	Watch bool
}

// App is the top-level container for one preview session.
type App struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	req     Request
	server  *web.Server
	addr    string // bound address, reused by reloads
	watcher ports.Watcher
	stopped bool

	// start binds a server; replaced in tests to simulate a lost address.
	start func(srv *web.Server, addr string) error
}

// New creates an App. Nothing is started until Start.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	if cfg.NewWatcher == nil {
		cfg.NewWatcher = func() (ports.Watcher, error) {
			w, err := fsw.NewWatcher()
			if err != nil {
				return nil, err
			}
			return w, nil
		}
	}
	return &App{cfg: cfg, logger: logger, start: (*web.Server).Start}
}

// Start builds the page for req and starts serving it.
func (a *App) Start(req Request) error {
	if req.Watch && req.FamiliesFile == "" {
		return fmt.Errorf("watch mode needs a families file")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return web.ErrStopped
	}
	if a.server != nil {
		return web.ErrAlreadyStarted
	}
	a.req = req

	srv, names, err := a.buildServer()
	if err != nil {
		return err
	}
	if err := a.start(srv, a.cfg.Addr); err != nil {
		return err
	}
	a.server = srv
	a.addr = srv.Addr().String()
	a.record(names)

	if req.Watch {
		w, err := a.cfg.NewWatcher()
		if err == nil {
			err = w.WatchFile(req.FamiliesFile, func(string) {
				err := a.Reload()
				switch {
				case errors.Is(err, ErrOffline):
					a.logger.Error("reload failed, preview is offline", "file", req.FamiliesFile, "err", err)
				case err != nil:
					a.logger.Warn("reload failed, keeping previous page", "file", req.FamiliesFile, "err", err)
				}
			})
		}
		if err != nil {
			if w != nil {
				w.Stop()
			}
			srv.Stop()
			a.server = nil
			return fmt.Errorf("watch %s: %w", req.FamiliesFile, err)
		}
		a.watcher = w
	}
	return nil
}

// buildServer renders the current request into a fresh, unstarted server.
func (a *App) buildServer() (*web.Server, []string, error) {
	families := slices.Clone(a.req.Families)
	if a.req.FamiliesFile != "" {
		fromFile, err := ReadFamiliesFile(a.req.FamiliesFile)
		if err != nil {
			return nil, nil, err
		}
		families = append(families, fromFile...)
	}

	builder := preview.FromFamilies(slices.Values(families))
	doc, err := builder.BuildFor(a.req.Char)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.DefaultName()
	}
	a.logger.Debug("page built", "char", string(a.req.Char), "families", len(names), "bytes", doc.Len())

	srv := web.NewServer(doc, web.Options{Logger: a.logger, GracePeriod: a.cfg.GracePeriod})
	return srv, names, nil
}

// Reload re-reads the families file and swaps in a new server on the same
// address. Each server keeps serving the page it was built with. On a build
// error the running server is left untouched; if the new server cannot bind,
// the previous page is served again and only if that fails too is ErrOffline
// returned.
func (a *App) Reload() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server == nil || a.stopped {
		return ErrNotStarted
	}

	next, names, err := a.buildServer()
	if err != nil {
		return err
	}
	prev := a.server
	if err := prev.Stop(); err != nil {
		a.logger.Warn("stopping previous server", "err", err)
	}
	if err := a.start(next, a.addr); err != nil {
		restored := web.NewServer(prev.Document(), web.Options{Logger: a.logger, GracePeriod: a.cfg.GracePeriod})
		if rerr := a.start(restored, a.addr); rerr != nil {
			return fmt.Errorf("%w: %w", ErrOffline, errors.Join(err, rerr))
		}
		a.server = restored
		return fmt.Errorf("serve rebuilt page: %w", err)
	}
	a.server = next
	a.record(names)
	a.logger.Info("preview reloaded", "url", next.URL(), "families", len(names))
	return nil
}

func (a *App) record(names []string) {
	if a.cfg.History == nil {
		return
	}
	entry := &ports.HistoryEntry{
		Char:     string(a.req.Char),
		Families: names,
		URL:      a.server.URL(),
	}
	if err := a.cfg.History.Record(entry); err != nil {
		a.logger.Warn("recording history", "err", err)
	}
}

// URL returns the address of the running preview.
func (a *App) URL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server == nil {
		return ""
	}
	return a.server.URL()
}

// Server returns the server currently serving the page, or nil.
func (a *App) Server() *web.Server {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.server
}

// Stop ends watch mode and shuts the server down. Idempotent.
func (a *App) Stop() error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}
	a.stopped = true
	w, srv := a.watcher, a.server
	a.mu.Unlock()

	// Stop the watcher outside the lock: its callback may be waiting on it.
	var errs []error
	if w != nil {
		errs = append(errs, w.Stop())
	}
	if srv != nil {
		errs = append(errs, srv.Stop())
	}
	return errors.Join(errs...)
}

// Preview starts req, calls ready with the URL, and serves until ctx is done.
func (a *App) Preview(ctx context.Context, req Request, ready func(url string)) error {
	if err := a.Start(req); err != nil {
		return err
	}
	if ready != nil {
		ready(a.URL())
	}
	<-ctx.Done()
	return a.Stop()
}
