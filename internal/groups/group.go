package groups

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/skillctl-labs/skillctl/internal/registry"
)

// Group is a named set of skill ids. A skill id is the canonical source
// path of the skill.
type Group struct {
	Name     string   `yaml:"name" json:"name" mapstructure:"name"`
	SkillIDs []string `yaml:"skills" json:"skills" mapstructure:"skills"`
}

// CanonicalName trims s and collapses internal runs of whitespace.
func CanonicalName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Key is the comparison form of a group name: canonical and case-folded.
func Key(s string) string {
	return cases.Fold().String(CanonicalName(s))
}

// canonicalIDs resolves skill ids to canonical paths, then dedupes and
// sorts them. Ids reached through a symlinked directory match the skill's
// source path.
func canonicalIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		id = registry.CanonicalPath(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	registry.SortStrings(out)
	return out
}

// Normalize returns a cleaned copy of groups. Blank names are dropped and
// names that differ only by case or spacing merge into the first one seen,
// keeping its casing and the union of members.
func Normalize(groups []Group) []Group {
	out := make([]Group, 0, len(groups))
	index := make(map[string]int, len(groups))
	for _, g := range groups {
		name := CanonicalName(g.Name)
		if name == "" {
			continue
		}
		k := Key(name)
		if i, ok := index[k]; ok {
			out[i].SkillIDs = append(out[i].SkillIDs, g.SkillIDs...)
			continue
		}
		index[k] = len(out)
		out = append(out, Group{Name: name, SkillIDs: append([]string(nil), g.SkillIDs...)})
	}
	for i := range out {
		out[i].SkillIDs = canonicalIDs(out[i].SkillIDs)
	}
	return out
}

// NormalizeActive maps active names to the canonical casing used in
// groups, dropping unknown names and duplicates. Order is preserved.
// groups must already be normalized.
func NormalizeActive(active []string, groups []Group) []string {
	byKey := make(map[string]string, len(groups))
	for _, g := range groups {
		byKey[Key(g.Name)] = g.Name
	}
	seen := make(map[string]bool, len(active))
	out := make([]string, 0, len(active))
	for _, a := range active {
		k := Key(a)
		name, ok := byKey[k]
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, name)
	}
	return out
}

// RenameActive replaces oldName with newName in an active list, matching
// case-insensitively.
func RenameActive(active []string, oldName, newName string) []string {
	k := Key(oldName)
	out := make([]string, len(active))
	for i, a := range active {
		if Key(a) == k {
			out[i] = CanonicalName(newName)
			continue
		}
		out[i] = a
	}
	return out
}
