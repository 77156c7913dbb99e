package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedimport/server/mocks"
)

// testServer creates a server with mocks, unset mock functions panic when called
func testServer(t *testing.T, imp Importer, hist History, queue Queue) *Server {
	t.Helper()
	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return ":8080", 30 * time.Second
		},
	}
	if imp == nil {
		imp = &mocks.ImporterMock{}
	}
	if hist == nil {
		hist = &mocks.HistoryMock{}
	}
	if queue == nil {
		queue = &mocks.QueueMock{}
	}
	return New(cfg, imp, hist, queue, "test", false)
}

func TestServer_New(t *testing.T) {
	srv := New(&mocks.ConfigProviderMock{}, &mocks.ImporterMock{}, &mocks.HistoryMock{}, &mocks.QueueMock{}, "1.0.0", true)
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.True(t, srv.debug)
	assert.NotNil(t, srv.router)
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) {
			return fmt.Sprintf("127.0.0.1:%d", port), 30 * time.Second
		},
	}
	srv := New(cfg, &mocks.ImporterMock{}, &mocks.HistoryMock{}, &mocks.QueueMock{}, "1.0.0", false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.Equal(t, "feedimport", resp.Header.Get("App-Name"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunBadAddress(t *testing.T) {
	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return "bad-address:xyz", time.Second },
	}
	srv := New(cfg, &mocks.ImporterMock{}, &mocks.HistoryMock{}, &mocks.QueueMock{}, "1.0.0", false)
	err := srv.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server error")
}

func TestServer_Routes(t *testing.T) {
	srv := testServer(t, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", http.NoBody)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/import", http.NoBody)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	assert.NotEqual(t, http.StatusOK, w.Code, "import is POST only")
	assert.Empty(t, srv.importer.(*mocks.ImporterMock).EnqueueCalls())
}

func TestRenderError(t *testing.T) {
	w := httptest.NewRecorder()
	renderError(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody), nil, http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"unknown error"}`, w.Body.String())
}
