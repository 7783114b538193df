package rest

import (
	"net/http"
	"testing"
	"time"
)

func TestNormalizeBaseURL(t *testing.T) {
	if got := normalizeBaseURL(""); got != defaultBaseURL {
		t.Fatalf("expected default, got %q", got)
	}
	if got := normalizeBaseURL(" http://x/api/ "); got != "http://x/api" {
		t.Fatalf("expected trimmed url, got %q", got)
	}
}

func TestResolveHTTPClient(t *testing.T) {
	custom := &http.Client{}
	if got := resolveHTTPClient(custom, time.Second); got != custom {
		t.Fatal("expected custom client to be used")
	}
	c, ok := resolveHTTPClient(nil, 0).(*http.Client)
	if !ok || c.Timeout != defaultHTTPTimeout {
		t.Fatalf("expected default timeout client, got %+v", c)
	}
	c, _ = resolveHTTPClient(nil, 2*time.Second).(*http.Client)
	if c.Timeout != 2*time.Second {
		t.Fatalf("expected configured timeout, got %v", c.Timeout)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"5", 5 * time.Second},
		{"-1", 0},
		{now.Add(10 * time.Second).Format(http.TimeFormat), 10 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.value, now); got != tt.want {
			t.Fatalf("parseRetryAfter(%q): expected %v, got %v", tt.value, tt.want, got)
		}
	}
}
