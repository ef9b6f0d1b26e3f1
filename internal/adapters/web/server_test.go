package web

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/fontpreview/fontpreview/internal/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = "<html>X</html>"

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startTestServer starts a server on an OS-assigned loopback port.
func startTestServer(t *testing.T, page string) *Server {
	t.Helper()
	srv := NewServer(preview.NewDocument(page), Options{Logger: quietLogger(), GracePeriod: time.Second})
	require.NoError(t, srv.Start("127.0.0.1:0"))
	t.Cleanup(func() { srv.Stop() })
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer_ServesDocumentOnAnyPath(t *testing.T) {
	srv := startTestServer(t, testPage)
	assert.Equal(t, StateListening, srv.State())

	for _, path := range []string{"/", "/index.html", "/a/b/c?q=1", "/favicon.ico"} {
		resp, body := get(t, srv.URL()+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "text/html", resp.Header.Get("Content-Type"), path)
		assert.Equal(t, testPage, body, path)
	}
}

func TestServer_IgnoresMethod(t *testing.T) {
	srv := startTestServer(t, testPage)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, "BREW"} {
		req, err := http.NewRequest(method, srv.URL()+"/whatever", strings.NewReader("ignored"))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode, method)
		assert.Equal(t, testPage, string(body), method)
	}
}

func TestServer_ConcurrentRequestsSeeSameContent(t *testing.T) {
	page := "<html>" + strings.Repeat("字", 10000) + "</html>"
	srv := startTestServer(t, page)

	const n = 32
	var wg sync.WaitGroup
	bodies := make([]string, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := http.Get(srv.URL() + "/")
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			bodies[i], errs[i] = string(b), err
		}(i)
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, page, bodies[i])
	}
}

func TestServer_MalformedRequestIsNotFatal(t *testing.T) {
	srv := startTestServer(t, testPage)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	_, err = conn.Write([]byte("this is not http\r\n\r\n"))
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, _ := bufio.NewReader(conn).ReadString('\n')
	conn.Close()
	assert.True(t, line == "" || strings.HasPrefix(line, "HTTP/1.1 400"), "got %q", line)

	resp, body := get(t, srv.URL())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testPage, body)
}

func TestServer_ShutdownTwice(t *testing.T) {
	srv := startTestServer(t, testPage)
	url := srv.URL()

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, StateStopped, srv.State())
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, StateStopped, srv.State())
	require.NoError(t, srv.Stop())

	select {
	case <-srv.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after shutdown")
	}

	_, err := http.Get(url)
	assert.Error(t, err, "listener must be released")
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	srv := NewServer(preview.NewDocument(testPage), Options{Logger: quietLogger()})
	assert.Equal(t, StateCreated, srv.State())
	assert.Empty(t, srv.URL())
	assert.Zero(t, srv.Port())

	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop())
	assert.Equal(t, StateStopped, srv.State())
	assert.ErrorIs(t, srv.Start("127.0.0.1:0"), ErrStopped)
}

func TestServer_StartTwice(t *testing.T) {
	srv := startTestServer(t, testPage)
	assert.ErrorIs(t, srv.Start("127.0.0.1:0"), ErrAlreadyStarted)
}

func TestServer_BindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := NewServer(preview.NewDocument(testPage), Options{Logger: quietLogger()})
	err = srv.Start(ln.Addr().String())
	require.Error(t, err)

	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, ln.Addr().String(), bindErr.Addr)
	assert.ErrorIs(t, err, syscall.EADDRINUSE)
	assert.Equal(t, StateCreated, srv.State())
}

func TestServer_InvalidAddress(t *testing.T) {
	srv := NewServer(preview.NewDocument(testPage), Options{Logger: quietLogger()})
	var bindErr *BindError
	assert.ErrorAs(t, srv.Start("not-an-address"), &bindErr)
}

func TestServer_InFlightResponseCompletes(t *testing.T) {
	page := "<html>" + strings.Repeat("a", 4<<20) + "</html>"
	srv := startTestServer(t, page)

	resp, err := http.Get(srv.URL())
	require.NoError(t, err)
	defer resp.Body.Close()

	stopped := make(chan error, 1)
	go func() { stopped <- srv.Stop() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, len(page), len(body))
	require.NoError(t, <-stopped)
}

func TestServeHTTP_Headers(t *testing.T) {
	srv := NewServer(preview.NewDocument(testPage), Options{Logger: quietLogger()})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deep/path", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Equal(t, "14", rec.Header().Get("Content-Length"))
	assert.Equal(t, testPage, rec.Body.String())
}

func TestServer_URL(t *testing.T) {
	srv := startTestServer(t, testPage)
	assert.NotZero(t, srv.Port())
	assert.True(t, strings.HasPrefix(srv.URL(), "http://localhost:"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "created", StateCreated.String())
	assert.Equal(t, "listening", StateListening.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown", State(42).String())
}
