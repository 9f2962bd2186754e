package update

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// executablePath is hooked in tests so installs land in a temp dir
// instead of over the test binary.
var executablePath = os.Executable

// DownloadAndInstall fetches the package named by info, verifies its
// SHA-256 checksum, and swaps it in for the running executable. There is
// no progress reporting and no retry; the new binary takes effect on the
// next launch.
func DownloadAndInstall(ctx context.Context, info Info) error {
	if !info.Available || info.DownloadURL == "" {
		return fmt.Errorf("install: no update available")
	}

	exe, err := executablePath()
	if err != nil {
		return fmt.Errorf("install: locate executable: %w", err)
	}

	// Stage the download next to the target so the final rename stays on
	// one filesystem.
	staged, err := downloadTo(ctx, info.DownloadURL, filepath.Dir(exe))
	if err != nil {
		return err
	}
	defer os.Remove(staged)

	if info.Checksum != "" {
		if err := verifyChecksum(staged, info.Checksum); err != nil {
			return err
		}
	}

	if err := os.Chmod(staged, 0755); err != nil {
		return fmt.Errorf("install: chmod: %w", err)
	}

	// Move the running binary aside first; renaming over a live
	// executable is not portable.
	old := exe + ".old"
	if err := os.Rename(exe, old); err != nil {
		return fmt.Errorf("install: stash current binary: %w", err)
	}
	if err := os.Rename(staged, exe); err != nil {
		// Put the original back so the app still launches.
		_ = os.Rename(old, exe)
		return fmt.Errorf("install: replace binary: %w", err)
	}
	_ = os.Remove(old)

	return nil
}

func downloadTo(ctx context.Context, rawURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("install: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("install: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("install: download: unexpected status %d", resp.StatusCode)
	}

	f, err := os.CreateTemp(dir, ".bolt-gives-update-*")
	if err != nil {
		return "", fmt.Errorf("install: stage download: %w", err)
	}

	_, err = io.Copy(f, resp.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("install: write download: %w", err)
	}
	return f.Name(), nil
}

func verifyChecksum(path, want string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("install: verify: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("install: verify: %w", err)
	}

	got := hex.EncodeToString(h.Sum(nil))
	if got != want {
		return fmt.Errorf("install: checksum mismatch: got %s, want %s", got, want)
	}
	return nil
}
