package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubmitter struct {
	mu   sync.Mutex
	seen []Request
	resp Response
	err  error
}

func (s *recordingSubmitter) Submit(_ context.Context, req Request) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, req)
	return s.resp, s.err
}

func post(t *testing.T, e *echo.Echo, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandlersSubmitRequests(t *testing.T) {
	sub := &recordingSubmitter{resp: Response{Success: true}}
	e := NewServer(sub)

	rec, resp := post(t, e, "/set", `{"name":"aurora","monitor":"DP-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, _ = post(t, e, "/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// The route decides the operation, not the body.
	rec, _ = post(t, e, "/status", `{"op":"shutdown"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, sub.seen, 3)
	assert.Equal(t, Request{Op: OpSet, Name: "aurora", Monitor: "DP-1"}, sub.seen[0])
	assert.Equal(t, OpPing, sub.seen[1].Op)
	assert.Equal(t, OpStatus, sub.seen[2].Op)
}

func TestHandlersRejectBadRequests(t *testing.T) {
	sub := &recordingSubmitter{resp: Response{Success: true}}
	e := NewServer(sub)

	rec, resp := post(t, e, "/set", `{"monitor":"DP-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "name")

	rec, _ = post(t, e, "/install", `{"path":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, sub.seen)
}

func TestHandlersReportOperationFailure(t *testing.T) {
	sub := &recordingSubmitter{resp: Response{Error: `monitor "DP-1" not found`}}
	e := NewServer(sub)

	rec, resp := post(t, e, "/set", `{"name":"aurora","monitor":"DP-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, `monitor "DP-1" not found`, resp.Error)

	sub.err = errors.New("event loop gone")
	rec, resp = post(t, e, "/ping", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "event loop gone", resp.Error)
}

func TestClientOverSocket(t *testing.T) {
	sub := &recordingSubmitter{resp: Response{Success: true, Wallpapers: []string{"aurora"}}}
	path := filepath.Join(t.TempDir(), "ctl.sock")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, path, sub) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	require.Eventually(t, func() bool {
		_, err := send(path, Request{Op: OpPing})
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := send(path, Request{Op: OpList})
	require.NoError(t, err)
	assert.Equal(t, []string{"aurora"}, resp.Wallpapers)

	err = Serve(context.Background(), path, sub)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	sub.mu.Lock()
	sub.resp = Response{Error: "boom"}
	sub.mu.Unlock()
	resp, err = send(path, Request{Op: OpCurrent})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, resp.Success)
}

func TestServeReturnsOnCancel(t *testing.T) {
	sub := &recordingSubmitter{resp: Response{Success: true}}
	path := filepath.Join(t.TempDir(), "ctl.sock")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, path, sub) }()

	require.Eventually(t, func() bool {
		_, err := send(path, Request{Op: OpPing})
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	assert.NoFileExists(t, path)
	_, err := send(path, Request{Op: OpPing})
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}

func TestClientDaemonNotRunning(t *testing.T) {
	_, err := send(filepath.Join(t.TempDir(), "missing.sock"), Request{Op: OpPing})
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}
