package browser

import (
	"errors"
	"testing"
)

func stubStart(t *testing.T) *[]string {
	t.Helper()
	var got []string
	orig := start
	start = func(name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}
	t.Cleanup(func() { start = orig })
	return &got
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	stubStart(t)

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com/post?id=1", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"", true},
	}

	for _, tt := range tests {
		err := Open(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("Open(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestOpenEmptyLink(t *testing.T) {
	stubStart(t)
	if err := Open(""); !errors.Is(err, ErrNoLink) {
		t.Errorf("expected ErrNoLink, got %v", err)
	}
}

func TestOpenRunsPlatformCommand(t *testing.T) {
	got := stubStart(t)
	if err := Open("https://example.com/a"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(*got) == 0 || (*got)[len(*got)-1] != "https://example.com/a" {
		t.Errorf("expected URL passed to opener, got %v", *got)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
		{"windows", "rundll32"},
	}
	for _, tt := range tests {
		name, args := command(tt.goos, "https://example.com")
		if name != tt.want {
			t.Errorf("command(%s) = %s, want %s", tt.goos, name, tt.want)
		}
		if args[len(args)-1] != "https://example.com" {
			t.Errorf("command(%s): URL should be the last argument, got %v", tt.goos, args)
		}
	}
}
