package registry

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/skillctl-labs/skillctl/internal/logs"
	"github.com/skillctl-labs/skillctl/internal/manifest"
)

// prunedDirs are dependency caches never descended into during recursive walks.
var prunedDirs = map[string]bool{
	"node_modules": true,
}

// Discover scans every source and returns one RawSkill per definition file,
// deduplicated by canonical source path. When two sources yield the same
// path the later record replaces the earlier one in place.
func Discover(sources []Source) []RawSkill {
	var order []string
	byPath := make(map[string]RawSkill)

	for _, src := range sources {
		for _, rec := range scanSource(src) {
			if _, seen := byPath[rec.SourcePath]; !seen {
				order = append(order, rec.SourcePath)
			}
			byPath[rec.SourcePath] = rec
		}
	}

	result := make([]RawSkill, 0, len(order))
	for _, p := range order {
		result = append(result, byPath[p])
	}
	return result
}

func scanSource(src Source) []RawSkill {
	root := src.Path
	if root == "" {
		return nil
	}
	if _, err := os.Stat(root); err != nil {
		logs.Debug("source %q: %v", src.Name, err)
		return nil
	}
	if src.Recursive {
		return walkRecursive(src)
	}
	return scanChildren(src)
}

// scanChildren looks one level deep: every visible child directory holding a
// definition file is a skill. Symlinked children are followed.
func scanChildren(src Source) []RawSkill {
	entries, err := os.ReadDir(src.Path)
	if err != nil {
		logs.Debug("source %q: reading %s: %v", src.Name, src.Path, err)
		return nil
	}

	var result []RawSkill
	for _, entry := range entries {
		if isHidden(entry.Name()) {
			continue
		}
		dir := filepath.Join(src.Path, entry.Name())
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if rec, ok := readSkill(dir, src.Name); ok {
			result = append(result, rec)
		}
	}
	return result
}

// walkRecursive performs a depth-first walk. Each directory is checked for a
// definition file before its children are visited, and matching does not
// stop the descent, so nested skills are found too.
func walkRecursive(src Source) []RawSkill {
	var result []RawSkill

	// WalkDir does not follow a symlinked root, so start from its resolution.
	root := CanonicalPath(src.Path)
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logs.Debug("source %q: skipping %s: %v", src.Name, path, err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (isHidden(d.Name()) || prunedDirs[d.Name()]) {
			return filepath.SkipDir
		}
		if rec, ok := readSkill(path, src.Name); ok {
			result = append(result, rec)
		}
		return nil
	})

	return result
}

// readSkill builds a RawSkill for dir when it contains a definition file.
// Frontmatter that fails to parse leaves the defaults in place.
func readSkill(dir, sourceName string) (RawSkill, bool) {
	defPath := filepath.Join(dir, manifest.DefinitionFile)
	info, err := os.Stat(defPath)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logs.Debug("checking %s: %v", defPath, err)
		}
		return RawSkill{}, false
	}

	rec := RawSkill{
		Name:       filepath.Base(dir),
		SourcePath: CanonicalPath(dir),
		SourceName: sourceName,
	}

	meta, err := manifest.Parse(defPath)
	if err != nil {
		logs.Debug("%v", err)
		return rec, true
	}
	if meta.Name != "" {
		rec.Name = meta.Name
	}
	rec.Description = meta.Description
	rec.Version = strings.TrimSpace(meta.Version)
	return rec, true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
