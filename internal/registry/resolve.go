package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSkillNotFound is returned when a query matches no discovered skill.
	ErrSkillNotFound = errors.New("skill not found")
	// ErrAmbiguousSkill is returned when a name matches several skills.
	ErrAmbiguousSkill = errors.New("skill name is ambiguous")
)

// Registry ties a set of sources to a set of targets. It holds no state
// between scans; build one per invocation.
type Registry struct {
	Sources []Source
	Targets []string
}

// New returns a Registry over the given sources and ordered targets.
func New(sources []Source, targets []string) *Registry {
	return &Registry{Sources: sources, Targets: targets}
}

// Scan discovers skills, inspects every target and returns the reconciled,
// sorted skill list.
func (r *Registry) Scan() []*Skill {
	raw := Discover(r.Sources)
	entries := ScanTargets(r.Targets)
	skills := Reconcile(raw, r.Targets, entries)
	SortSkills(skills)
	return skills
}

// Find resolves query against skills. A query that looks like a path is
// matched by canonical source path; otherwise exact names win over
// case-insensitive ones. Several matches yield ErrAmbiguousSkill.
func Find(skills []*Skill, query string) (*Skill, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrSkillNotFound)
	}

	if strings.ContainsRune(query, '/') || strings.HasPrefix(query, ".") {
		want := CanonicalPath(query)
		for _, s := range skills {
			if s.SourcePath == want {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, query)
	}

	if m := pick(skills, func(s *Skill) bool { return s.Name == query }); len(m) > 0 {
		return single(m, query)
	}
	m := pick(skills, func(s *Skill) bool { return strings.EqualFold(s.Name, query) })
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, query)
	}
	return single(m, query)
}

func pick(skills []*Skill, keep func(*Skill) bool) []*Skill {
	var out []*Skill
	for _, s := range skills {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func single(matches []*Skill, query string) (*Skill, error) {
	if len(matches) == 1 {
		return matches[0], nil
	}
	paths := make([]string, len(matches))
	for i, s := range matches {
		paths[i] = s.SourcePath
	}
	return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguousSkill, query, strings.Join(paths, ", "))
}
