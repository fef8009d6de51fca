package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotSymlink is returned by RemoveSymlink when the entry is a real file or directory.
var ErrNotSymlink = errors.New("not a symlink")

// CreateSymlink creates a symbolic link at link pointing to target.
// The parent directory of link is created when missing.
func CreateSymlink(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(link), err)
	}
	return os.Symlink(target, link)
}

// RemoveSymlink removes path only if it is a symlink. Plain files and
// directories are never touched.
func RemoveSymlink(path string) error {
	ok, err := IsSymlink(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrNotSymlink)
	}
	return os.Remove(path)
}

// ReadSymlinkTarget returns the raw target of a symlink.
func ReadSymlinkTarget(path string) (string, error) {
	return os.Readlink(path)
}

// ResolveLink follows every symlink in path and returns the absolute result.
// Relative link targets resolve against the directory containing the link.
// Broken links return an error.
func ResolveLink(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// IsSymlink reports whether path is itself a symlink (not followed).
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// Exists reports whether any entry, including a broken symlink, exists at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Move renames src to dst, creating dst's parent directory first.
func Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	return os.Rename(src, dst)
}
