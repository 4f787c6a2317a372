package update

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, tag string, status int) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/vnd.github+json" {
			t.Errorf("missing accept header")
		}
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/releases/%s"}`, tag, tag)
	}))
	t.Cleanup(srv.Close)
	return &Checker{Client: srv.Client(), URL: srv.URL}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		current string
		want    string
	}{
		{"newer release", "v1.3.0", "1.2.0", "1.3.0"},
		{"same version", "v1.2.0", "v1.2.0", ""},
		{"older release", "v1.1.0", "1.2.0", ""},
		{"patch bump", "1.2.1", "v1.2.0", "1.2.1"},
		{"dev build", "v1.3.0", "dev", ""},
		{"empty tag", "", "1.0.0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := releaseServer(t, tt.tag, http.StatusOK)
			res, err := c.Check(context.Background(), tt.current)
			if err != nil {
				t.Fatalf("Check: %v", err)
			}
			got := ""
			if res != nil {
				got = res.LatestVersion
			}
			if got != tt.want {
				t.Errorf("Check(%q) against %q = %q, want %q", tt.current, tt.tag, got, tt.want)
			}
		})
	}
}

func TestCheckBadStatus(t *testing.T) {
	c := releaseServer(t, "v9.0.0", http.StatusForbidden)
	if _, err := c.Check(context.Background(), "1.0.0"); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestCheckReturnsReleaseURL(t *testing.T) {
	c := releaseServer(t, "v2.0.0", http.StatusOK)
	res, err := c.Check(context.Background(), "1.0.0")
	if err != nil || res == nil {
		t.Fatalf("expected result, got %v, %v", res, err)
	}
	if res.URL != "https://example.com/releases/v2.0.0" {
		t.Errorf("unexpected URL %q", res.URL)
	}
}
