// Package gitsource keeps skill sources that are cloned from git
// repositories. It handles shallow cloning, pulling updates, and freshness
// tracking so the CLI can nudge users to sync stale sources.
package gitsource

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// freshnessFile is the name of the timestamp marker file. The leading dot
	// keeps it out of source scans.
	freshnessFile = ".skillctl-synced"

	// DefaultMaxAge is the default staleness threshold (7 days).
	DefaultMaxAge = 7 * 24 * time.Hour

	// tmpSuffix is appended to the target dir during atomic clone.
	tmpSuffix = ".tmp"
)

// Clone performs a shallow clone of repoURL into targetDir.
//
// The clone is atomic: it writes to a .tmp directory first, then renames
// on success. On failure the .tmp directory is cleaned up. An existing
// targetDir is an error.
func Clone(repoURL, targetDir string) error {
	if err := ensureGit(); err != nil {
		return err
	}
	if _, err := os.Stat(targetDir); err == nil {
		return fmt.Errorf("%s already exists", targetDir)
	}

	tmpDir := targetDir + tmpSuffix

	// Clean up any leftover tmp dir from a previous failed attempt.
	_ = os.RemoveAll(tmpDir)

	if err := os.MkdirAll(filepath.Dir(tmpDir), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	cmd := exec.Command("git", "clone", "--depth=1", repoURL, tmpDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("cloning %s: %w\n%s", repoURL, err, strings.TrimSpace(string(output)))
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return fmt.Errorf("finalizing clone: %w", err)
	}

	WriteFreshnessMarker(targetDir)
	return nil
}

// Update pulls the latest changes in repoDir. If repoDir is not a git
// checkout yet, it clones repoURL instead.
func Update(repoURL, repoDir string) error {
	if err := ensureGit(); err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(repoDir, ".git")); os.IsNotExist(err) {
		if repoURL == "" {
			return fmt.Errorf("%s is not a git checkout and has no URL", repoDir)
		}
		return Clone(repoURL, repoDir)
	}

	cmd := exec.Command("git", "pull", "--ff-only")
	cmd.Dir = repoDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pulling %s: %w\n%s", repoDir, err, strings.TrimSpace(string(output)))
	}

	WriteFreshnessMarker(repoDir)
	return nil
}

// WriteFreshnessMarker writes the current Unix timestamp to the freshness file.
func WriteFreshnessMarker(repoDir string) {
	markerPath := filepath.Join(repoDir, freshnessFile)
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	_ = os.WriteFile(markerPath, []byte(ts), 0644)
}

// ReadFreshnessMarker reads the timestamp from the freshness file.
// Returns zero time if the file doesn't exist or can't be parsed.
func ReadFreshnessMarker(repoDir string) time.Time {
	data, err := os.ReadFile(filepath.Join(repoDir, freshnessFile))
	if err != nil {
		return time.Time{}
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// IsStale returns true if repoDir was last synced more than maxAge ago.
// Returns true if the freshness marker doesn't exist.
func IsStale(repoDir string, maxAge time.Duration) bool {
	lastUpdated := ReadFreshnessMarker(repoDir)
	if lastUpdated.IsZero() {
		return true
	}
	return time.Since(lastUpdated) > maxAge
}

// DirName derives a checkout directory name from a repository URL,
// e.g. https://github.com/acme/skills.git -> skills.
func DirName(repoURL string) string {
	u := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	u = strings.TrimSuffix(u, ".git")
	if i := strings.LastIndexAny(u, "/:"); i >= 0 {
		u = u[i+1:]
	}
	if u == "" {
		return "source"
	}
	return u
}

// ensureGit checks that git is available on PATH.
func ensureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
