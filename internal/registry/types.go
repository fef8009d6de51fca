package registry

import "path/filepath"

// DisabledDir is the hidden target subdirectory that parks disabled links.
const DisabledDir = ".disabled"

// Source is a directory tree scanned for skill definitions.
type Source struct {
	Name      string
	Path      string
	Recursive bool   // scan the whole subtree instead of immediate children
	URL       string // informational, e.g. the git remote the tree came from
}

// RawSkill is one definition found by the source scanner.
type RawSkill struct {
	Name        string
	Description string
	Version     string
	SourcePath  string // canonical absolute path of the skill directory
	SourceName  string
}

// InstalledEntry is one symlink or directory found at a target.
type InstalledEntry struct {
	Name       string
	TargetPath string
	RealPath   string // resolved symlink destination; empty when broken or not a symlink
	Disabled   bool   // found under <target>/.disabled/
	IsSymlink  bool
}

// Status is the state of a skill at a single target.
type Status string

const (
	StatusInstalled    Status = "installed"
	StatusDisabled     Status = "disabled"
	StatusNotInstalled Status = "not-installed"
)

// Skill is the reconciled view of one definition across all targets.
type Skill struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Version      string            `json:"version,omitempty"`
	SourcePath   string            `json:"sourcePath"`
	SourceName   string            `json:"sourceName"`
	InstallName  string            `json:"installName,omitempty"`
	Installed    bool              `json:"installed"`
	Disabled     bool              `json:"disabled"`
	TargetStatus map[string]Status `json:"targetStatus"`
}

// LinkName is the entry name used inside targets: the name the skill was
// found linked under, or the base name of its source directory.
func (s *Skill) LinkName() string {
	if s.InstallName != "" {
		return s.InstallName
	}
	return filepath.Base(s.SourcePath)
}

// SetStatus records the status for one target and re-derives the
// aggregate flags.
func (s *Skill) SetStatus(target string, st Status) {
	if s.TargetStatus == nil {
		s.TargetStatus = make(map[string]Status)
	}
	s.TargetStatus[target] = st
	s.Refresh()
}

// Refresh derives Installed and Disabled from TargetStatus.
// Installed holds when any target is installed or disabled; Disabled holds
// when the skill is installed and no target has it enabled.
func (s *Skill) Refresh() {
	anyEnabled, anyMatched := false, false
	for _, st := range s.TargetStatus {
		switch st {
		case StatusInstalled:
			anyEnabled, anyMatched = true, true
		case StatusDisabled:
			anyMatched = true
		}
	}
	s.Installed = anyMatched
	s.Disabled = anyMatched && !anyEnabled
}

// Enabled reports whether the skill is installed and active somewhere.
func (s *Skill) Enabled() bool {
	return s.Installed && !s.Disabled
}
