package registry

import (
	"os"
	"path/filepath"

	"github.com/skillctl-labs/skillctl/internal/logs"
	"github.com/skillctl-labs/skillctl/internal/platform"
)

// ScanTarget lists the skills physically present at a target: visible
// top-level symlinks and directories, followed by the same under the
// target's .disabled directory. A missing target yields nothing.
func ScanTarget(targetPath string) []InstalledEntry {
	if _, err := os.Stat(targetPath); err != nil {
		return nil
	}

	entries := scanTargetDir(targetPath, targetPath, false)
	disabledDir := filepath.Join(targetPath, DisabledDir)
	if info, err := os.Stat(disabledDir); err == nil && info.IsDir() {
		entries = append(entries, scanTargetDir(targetPath, disabledDir, true)...)
	}
	return entries
}

// ScanTargets scans each target and keys the results by target path.
func ScanTargets(targets []string) map[string][]InstalledEntry {
	result := make(map[string][]InstalledEntry, len(targets))
	for _, t := range targets {
		result[t] = ScanTarget(t)
	}
	return result
}

func scanTargetDir(targetPath, dir string, disabled bool) []InstalledEntry {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		logs.Debug("target %s: reading %s: %v", targetPath, dir, err)
		return nil
	}

	var result []InstalledEntry
	for _, de := range dirEntries {
		if isHidden(de.Name()) {
			continue
		}
		isLink := de.Type()&os.ModeSymlink != 0
		if !isLink && !de.IsDir() {
			continue
		}

		entry := InstalledEntry{
			Name:       de.Name(),
			TargetPath: targetPath,
			Disabled:   disabled,
			IsSymlink:  isLink,
		}
		if isLink {
			resolved, err := platform.ResolveLink(filepath.Join(dir, de.Name()))
			if err != nil {
				logs.Debug("target %s: unresolvable link %s: %v", targetPath, de.Name(), err)
			} else {
				entry.RealPath = resolved
			}
		}
		result = append(result, entry)
	}
	return result
}
