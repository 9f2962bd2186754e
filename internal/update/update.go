// Package update implements the update collaborator for the desktop
// shell: checking a remote update service for a newer version and
// downloading and installing the replacement binary.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// checkInterval is how often the background poller re-checks. 4 hours
// matches the shipped release cadence.
var checkInterval = 4 * time.Hour

// httpClient is hooked in tests.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// Info is the outcome of an update check.
type Info struct {
	Available      bool   `json:"available"`
	CurrentVersion string `json:"currentVersion"`
	LatestVersion  string `json:"latestVersion,omitempty"`
	DownloadURL    string `json:"downloadUrl,omitempty"`
	Checksum       string `json:"checksum,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// manifest is the JSON document served by the update service.
type manifest struct {
	Version string `json:"version"`
	Notes   string `json:"notes"`
	PubDate string `json:"pub_date"`
	URL     string `json:"url"`
	SHA256  string `json:"sha256"`
}

// SetCheckInterval overrides the poll interval. Non-positive values are
// ignored and the current interval is kept.
func SetCheckInterval(hours int) {
	if hours > 0 {
		checkInterval = time.Duration(hours) * time.Hour
	}
}

// Interval returns the current poll interval.
func Interval() time.Duration {
	return checkInterval
}

// ExpandEndpoint substitutes the {{target}}, {{arch}} and
// {{current_version}} placeholders in an endpoint template.
func ExpandEndpoint(endpoint, currentVersion string) string {
	r := strings.NewReplacer(
		"{{target}}", runtime.GOOS,
		"{{arch}}", runtime.GOARCH,
		"{{current_version}}", currentVersion,
	)
	return r.Replace(endpoint)
}

// CheckForUpdate queries the update service. A 204 response means the
// service has nothing newer for this target. A 200 response carries a
// manifest; the update is available only if its version is strictly newer
// than currentVersion. installID, when non-empty, is passed along so the
// service can do staged rollouts.
func CheckForUpdate(ctx context.Context, endpoint, currentVersion, installID string) (Info, error) {
	info := Info{CurrentVersion: currentVersion}

	checkURL, err := buildCheckURL(endpoint, currentVersion, installID)
	if err != nil {
		return info, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return info, fmt.Errorf("update check: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return info, fmt.Errorf("update check: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return info, nil
	case http.StatusOK:
		// fall through to manifest decoding
	default:
		return info, fmt.Errorf("update check: unexpected status %d", resp.StatusCode)
	}

	var m manifest
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&m); err != nil {
		return info, fmt.Errorf("update check: decode manifest: %w", err)
	}
	if m.Version == "" {
		return info, fmt.Errorf("update check: manifest missing version")
	}

	info.LatestVersion = m.Version
	if CompareVersions(currentVersion, m.Version) < 0 {
		info.Available = true
		info.DownloadURL = m.URL
		info.Checksum = m.SHA256
		info.Notes = m.Notes
	}
	return info, nil
}

// CheckForUpdateAsync runs CheckForUpdate in its own goroutine and
// delivers the result on the returned channel. Errors are folded into a
// "no update" result; callers that need the error should use
// CheckForUpdate directly.
func CheckForUpdateAsync(endpoint, currentVersion, installID string) <-chan Info {
	ch := make(chan Info, 1)
	go func() {
		info, err := CheckForUpdate(context.Background(), endpoint, currentVersion, installID)
		if err != nil {
			info = Info{CurrentVersion: currentVersion}
		}
		ch <- info
	}()
	return ch
}

func buildCheckURL(endpoint, currentVersion, installID string) (string, error) {
	u, err := url.Parse(ExpandEndpoint(endpoint, currentVersion))
	if err != nil {
		return "", fmt.Errorf("update check: bad endpoint: %w", err)
	}
	if installID != "" {
		q := u.Query()
		q.Set("install_id", installID)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// CompareVersions compares two dotted version strings, returning -1, 0 or
// 1 as v1 is older than, equal to, or newer than v2. A leading "v" is
// ignored and missing components are treated as zero, so "1.0" equals
// "1.0.0". Non-numeric components compare as zero.
func CompareVersions(v1, v2 string) int {
	p1 := versionParts(v1)
	p2 := versionParts(v2)

	n := len(p1)
	if len(p2) > n {
		n = len(p2)
	}

	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(p1) {
			a = p1[i]
		}
		if i < len(p2) {
			b = p2[i]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	// Strip pre-release/build suffixes: "1.2.3-dev" compares as "1.2.3".
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}

	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		parts[i] = n
	}
	return parts
}
