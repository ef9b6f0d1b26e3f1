// Package web serves one pre-rendered preview page over HTTP.
// Every request, whatever its path or method, gets the same page.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/fontpreview/fontpreview/internal/preview"
)

// DefaultGracePeriod bounds how long Stop waits for in-flight responses.
const DefaultGracePeriod = 2 * time.Second

var (
	// ErrAlreadyStarted is returned by Start on a listening server.
	ErrAlreadyStarted = errors.New("web: server already started")
	// ErrStopped is returned by Start once the server has shut down; a
	// Server is never restarted.
	ErrStopped = errors.New("web: server stopped")
)

// BindError reports a listener that could not be opened. The OS cause
// (address in use, permission denied, bad address) is kept for errors.Is.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("listen %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// State is the lifecycle position of a Server.
type State int

const (
	StateCreated State = iota
	StateListening
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options tune a Server. The zero value is usable.
type Options struct {
	Logger      *slog.Logger
	GracePeriod time.Duration
}

// Server serves a single preview.Document. The document is fixed at
// construction, so concurrent handlers share it without locking.
type Server struct {
	doc    preview.Document
	length string
	logger *slog.Logger
	grace  time.Duration

	mu       sync.Mutex
	state    State
	listener net.Listener
	httpSrv  *http.Server
	started  time.Time
	done     chan struct{}
}

// NewServer wraps doc. No socket is opened until Start.
func NewServer(doc preview.Document, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	grace := opts.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Server{
		doc:    doc,
		length: strconv.Itoa(doc.Len()),
		logger: logger,
		grace:  grace,
		done:   make(chan struct{}),
	}
}

// Document returns the page this server was built with.
func (s *Server) Document() preview.Document {
	return s.doc
}

// Start binds addr ("127.0.0.1:0" lets the OS pick a port) and serves in the
// background. Bind failures come back as *BindError.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateListening:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrStopped
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return &BindError{Addr: addr, Err: err}
	}
	s.listener = ln
	s.started = time.Now()
	s.httpSrv = &http.Server{
		Handler:           s,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.state = StateListening

	s.logger.Info("preview server listening", "addr", ln.Addr().String(), "bytes", s.doc.Len())

	go s.serve(s.httpSrv, ln)
	return nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener) {
	defer close(s.done)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("preview server stopped unexpectedly", "err", err)
	}
}

// ServeHTTP writes the document. Routing is deliberately absent.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Content-Type", "text/html")
	h.Set("Content-Length", s.length)
	w.WriteHeader(http.StatusOK)
	if _, err := s.doc.WriteTo(w); err != nil {
		s.logger.Debug("dropping connection", "remote", r.RemoteAddr, "err", err)
	}
}

// Shutdown stops accepting connections and waits for in-flight responses
// until ctx is done, then closes whatever is left. Idempotent.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	prev := s.state
	s.state = StateStopped
	srv := s.httpSrv
	s.mu.Unlock()

	switch prev {
	case StateStopped:
		return nil
	case StateCreated:
		close(s.done)
		return nil
	}

	err := srv.Shutdown(ctx)
	if err != nil {
		s.logger.Warn("grace period elapsed, abandoning in-flight responses", "err", err)
		if cerr := srv.Close(); cerr != nil {
			return cerr
		}
	}
	<-s.done
	s.logger.Info("preview server stopped", "uptime", time.Since(s.started).Round(time.Millisecond))
	return nil
}

// Stop is Shutdown bounded by the configured grace period.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	return s.Shutdown(ctx)
}

// Done is closed once the server is stopped and its accept loop has returned.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound port number, or 0 before Start.
func (s *Server) Port() int {
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

// URL returns the address a browser should open.
// Loopback and wildcard binds are reported as localhost.
func (s *Server) URL() string {
	tcp, ok := s.Addr().(*net.TCPAddr)
	if !ok {
		return ""
	}
	host := "localhost"
	if !tcp.IP.IsLoopback() && !tcp.IP.IsUnspecified() {
		host = tcp.IP.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(tcp.Port))
}
