package linker

import (
	"fmt"
	"path/filepath"

	"github.com/skillctl-labs/skillctl/internal/logs"
	"github.com/skillctl-labs/skillctl/internal/platform"
	"github.com/skillctl-labs/skillctl/internal/registry"
)

// step performs an action at one target.
type step func(s *registry.Skill, target string) (TargetOutcome, error)

// Apply dispatches to the function implementing action.
func Apply(action Action, s *registry.Skill, targets []string) (*Result, error) {
	switch action {
	case ActionInstall:
		return Install(s, targets)
	case ActionUninstall:
		return Uninstall(s, targets)
	case ActionEnable:
		return Enable(s, targets)
	case ActionDisable:
		return Disable(s, targets)
	}
	return nil, fmt.Errorf("unknown action %q", action)
}

// Install links the skill into every target. An existing same-named entry
// is left alone: already-linked when it resolves to the skill, conflict
// otherwise. A parked link under .disabled is moved back instead of
// creating a second one.
func Install(s *registry.Skill, targets []string) (*Result, error) {
	res, err := run(ActionInstall, s, targets, installAt)
	if err != nil {
		return res, err
	}
	for _, t := range targets {
		s.SetStatus(t, registry.StatusInstalled)
	}
	return res, nil
}

// Uninstall removes the skill's links from every target, both active and
// parked. Entries that are not symlinks are kept and links to another
// source are reported as conflicts.
func Uninstall(s *registry.Skill, targets []string) (*Result, error) {
	res, err := run(ActionUninstall, s, targets, uninstallAt)
	if err != nil {
		return res, err
	}
	for _, t := range targets {
		s.SetStatus(t, registry.StatusNotInstalled)
	}
	return res, nil
}

// Disable parks the skill's top-level links under <target>/.disabled. A
// same-named link to another source is a conflict.
func Disable(s *registry.Skill, targets []string) (*Result, error) {
	res, err := run(ActionDisable, s, targets, disableAt)
	if err != nil {
		return res, err
	}
	for _, o := range res.Outcomes {
		if o.Outcome == OutcomeDisabled || s.TargetStatus[o.Target] == registry.StatusInstalled {
			s.SetStatus(o.Target, registry.StatusDisabled)
		}
	}
	return res, nil
}

// Enable moves parked links back to the top level of each target.
func Enable(s *registry.Skill, targets []string) (*Result, error) {
	res, err := run(ActionEnable, s, targets, enableAt)
	if err != nil {
		return res, err
	}
	for _, o := range res.Outcomes {
		if o.Outcome == OutcomeEnabled || s.TargetStatus[o.Target] == registry.StatusDisabled {
			s.SetStatus(o.Target, registry.StatusInstalled)
		}
	}
	return res, nil
}

// Filesystem mutations go through these so tests can inject failures.
var (
	removeLink = platform.RemoveSymlink
	moveEntry  = platform.Move
	createLink = platform.CreateSymlink
)

// run visits every target in order and stops at the first error. A step
// that fails after mutating its target reports the outcome it reached, and
// that outcome is kept in the result.
func run(action Action, s *registry.Skill, targets []string, fn step) (*Result, error) {
	res := &Result{Action: action, Skill: s}
	for _, target := range targets {
		out, err := fn(s, target)
		if err != nil {
			if out.Outcome.mutates() {
				res.Outcomes = append(res.Outcomes, out)
			}
			return res, &ActionError{
				Action:  action,
				Skill:   s.Name,
				Target:  target,
				Partial: res.Changed(),
				Err:     err,
			}
		}
		logs.Debug("%s %s at %s: %s", action, s.Name, target, out.Outcome)
		res.Outcomes = append(res.Outcomes, out)
	}
	return res, nil
}

func paths(s *registry.Skill, target string) (top, parked string) {
	name := s.LinkName()
	return filepath.Join(target, name), filepath.Join(target, registry.DisabledDir, name)
}

// isLink reports whether path is a symlink. A missing entry is not an error.
func isLink(path string) (bool, error) {
	if !platform.Exists(path) {
		return false, nil
	}
	return platform.IsSymlink(path)
}

// linksTo reports whether path is a symlink resolving to the skill's source.
func linksTo(path string, s *registry.Skill) bool {
	resolved, err := platform.ResolveLink(path)
	return err == nil && resolved == s.SourcePath
}

func installAt(s *registry.Skill, target string) (TargetOutcome, error) {
	top, parked := paths(s, target)
	out := TargetOutcome{Target: target}

	if platform.Exists(top) {
		if linksTo(top, s) {
			out.Outcome = OutcomeAlreadyLinked
			return out, nil
		}
		out.Outcome = OutcomeConflict
		out.Detail = top + " exists and is not a link to " + s.SourcePath
		return out, nil
	}

	if link, _ := isLink(parked); link && linksTo(parked, s) {
		if err := moveEntry(parked, top); err != nil {
			return out, fmt.Errorf("restoring %s: %w", parked, err)
		}
		out.Outcome = OutcomeRestored
		return out, nil
	}

	if err := createLink(s.SourcePath, top); err != nil {
		return out, fmt.Errorf("linking %s: %w", top, err)
	}
	out.Outcome = OutcomeLinked
	return out, nil
}

func uninstallAt(s *registry.Skill, target string) (TargetOutcome, error) {
	top, parked := paths(s, target)
	out := TargetOutcome{Target: target, Outcome: OutcomeUnchanged}

	// note records why an entry was left in place unless a link was
	// already removed. Conflicts outrank plain directories.
	note := func(o Outcome, detail string) {
		if out.Outcome == OutcomeRemoved || out.Outcome == OutcomeConflict {
			return
		}
		out.Outcome, out.Detail = o, detail
	}

	for _, p := range []string{top, parked} {
		if !platform.Exists(p) {
			continue
		}
		link, err := platform.IsSymlink(p)
		if err != nil {
			return out, err
		}
		switch {
		case !link:
			note(OutcomeKept, p+" is not a symlink")
		case !linksTo(p, s):
			note(OutcomeConflict, p+" is not a link to "+s.SourcePath)
		default:
			if err := removeLink(p); err != nil {
				return out, fmt.Errorf("removing %s: %w", p, err)
			}
			out.Outcome = OutcomeRemoved
			out.Detail = ""
		}
	}
	return out, nil
}

func disableAt(s *registry.Skill, target string) (TargetOutcome, error) {
	top, parked := paths(s, target)
	out := TargetOutcome{Target: target, Outcome: OutcomeUnchanged}

	link, err := isLink(top)
	if err != nil {
		return out, err
	}
	if !link {
		return out, nil
	}
	if !linksTo(top, s) {
		out.Outcome = OutcomeConflict
		out.Detail = top + " is not a link to " + s.SourcePath
		return out, nil
	}

	if platform.Exists(parked) {
		parkedLink, err := platform.IsSymlink(parked)
		if err != nil {
			return out, err
		}
		if !parkedLink {
			out.Outcome = OutcomeConflict
			out.Detail = parked + " exists and is not a symlink"
			return out, nil
		}
		if err := removeLink(parked); err != nil {
			return out, fmt.Errorf("replacing %s: %w", parked, err)
		}
		out.Outcome = OutcomeRemoved
		out.Detail = "replaced " + parked
	}

	if err := moveEntry(top, parked); err != nil {
		return out, fmt.Errorf("parking %s: %w", top, err)
	}
	out.Outcome = OutcomeDisabled
	out.Detail = ""
	return out, nil
}

func enableAt(s *registry.Skill, target string) (TargetOutcome, error) {
	top, parked := paths(s, target)
	out := TargetOutcome{Target: target, Outcome: OutcomeUnchanged}

	if !platform.Exists(parked) {
		return out, nil
	}
	if link, _ := isLink(parked); !link || !linksTo(parked, s) {
		out.Outcome = OutcomeConflict
		out.Detail = parked + " is not a link to " + s.SourcePath
		return out, nil
	}
	if platform.Exists(top) {
		out.Outcome = OutcomeConflict
		out.Detail = top + " is occupied"
		return out, nil
	}
	if err := moveEntry(parked, top); err != nil {
		return out, fmt.Errorf("restoring %s: %w", parked, err)
	}
	out.Outcome = OutcomeEnabled
	return out, nil
}
