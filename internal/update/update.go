package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// DefaultURL is the GitHub Releases endpoint for the latest thinkscope build.
const DefaultURL = "https://api.github.com/repos/matheuskafuri/thinkscope/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
	URL           string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

type Checker struct {
	Client  *http.Client
	URL     string
	Timeout time.Duration
}

func NewChecker() *Checker {
	return &Checker{Client: http.DefaultClient, URL: DefaultURL, Timeout: 5 * time.Second}
}

// Check reports a release newer than currentVersion. A nil Result with a nil
// error means the build is up to date or its version is not a release tag.
func (c *Checker) Check(ctx context.Context, currentVersion string) (*Result, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching latest release: unexpected status %s", resp.Status)
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}

	latest := canonical(release.TagName)
	current := canonical(currentVersion)
	if latest == "" || current == "" || semver.Compare(latest, current) <= 0 {
		return nil, nil
	}
	return &Result{LatestVersion: strings.TrimPrefix(latest, "v"), URL: release.HTMLURL}, nil
}

// canonical returns v as a "vX.Y.Z" semver string, or "" when v is not one.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
