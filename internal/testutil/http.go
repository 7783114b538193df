package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/http/requestutil"
)

// Serve executes a request against the provided handler and returns the recorder.
func Serve(h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func ServeRequest(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// ServeAsSession sends a JSON request carrying the session header. An empty
// body sends no body at all.
func ServeAsSession(h http.Handler, sessionID, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(requestutil.HeaderSessionID, sessionID)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return ServeRequest(h, req)
}

// CreateSession opens an anonymous session through POST /sessions and returns its id.
func CreateSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := Serve(h, http.MethodPost, "/sessions", strings.NewReader(`{}`))
	AssertStatus(t, rr, http.StatusCreated)
	var created struct {
		SessionID string `json:"sessionId"`
	}
	DecodeJSON(t, rr, &created)
	if created.SessionID == "" {
		t.Fatalf("expected session id in %s", rr.Body.String())
	}
	return created.SessionID
}

// AssertStatus verifies the response status code.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected status %d, got %d (%s)", want, rr.Code, rr.Body.String())
	}
}

// AssertError checks status and the error field of a JSON error body.
func AssertError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	AssertStatus(t, rr, status)
	var body struct {
		Error string `json:"error"`
	}
	DecodeJSON(t, rr, &body)
	if body.Error != message {
		t.Fatalf("expected error %q, got %q", message, body.Error)
	}
}

// DecodeJSON decodes the recorder body into dest, failing the test on error.
func DecodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dest); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
