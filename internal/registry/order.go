package registry

import (
	"path/filepath"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a case-insensitive collator that orders digit runs
// numerically ("skill2" before "skill10"). Collators keep internal buffers,
// so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
}

// CompareNames orders two display names the way every listing does.
func CompareNames(a, b string) int {
	return newCollator().CompareString(a, b)
}

// SortSkills orders skills by name, falling back to source path for ties.
func SortSkills(skills []*Skill) {
	c := newCollator()
	sort.SliceStable(skills, func(i, j int) bool {
		if cmp := c.CompareString(skills[i].Name, skills[j].Name); cmp != 0 {
			return cmp < 0
		}
		return skills[i].SourcePath < skills[j].SourcePath
	})
}

// SortStrings orders arbitrary strings (names or canonical paths) with the
// shared comparator, breaking ties bytewise so the order is total.
func SortStrings(values []string) {
	c := newCollator()
	sort.SliceStable(values, func(i, j int) bool {
		if cmp := c.CompareString(values[i], values[j]); cmp != 0 {
			return cmp < 0
		}
		return values[i] < values[j]
	})
}

// CanonicalPath returns the absolute, cleaned, symlink-resolved form of p.
// Paths that cannot be resolved (missing, broken links) fall back to the
// cleaned absolute path so they can still serve as identity keys.
func CanonicalPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
