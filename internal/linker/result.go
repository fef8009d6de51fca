package linker

import (
	"fmt"

	"github.com/skillctl-labs/skillctl/internal/registry"
)

// Action names one of the four skill actions.
type Action string

const (
	ActionInstall   Action = "install"
	ActionUninstall Action = "uninstall"
	ActionEnable    Action = "enable"
	ActionDisable   Action = "disable"
)

// ParseAction maps a command word to an Action.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionInstall, ActionUninstall, ActionEnable, ActionDisable:
		return a, true
	}
	return "", false
}

// Outcome describes what an action did at one target.
type Outcome string

const (
	OutcomeLinked        Outcome = "linked"
	OutcomeRestored      Outcome = "restored"
	OutcomeAlreadyLinked Outcome = "already-linked"
	OutcomeConflict      Outcome = "conflict"
	OutcomeRemoved       Outcome = "removed"
	OutcomeKept          Outcome = "kept"
	OutcomeDisabled      Outcome = "disabled"
	OutcomeEnabled       Outcome = "enabled"
	OutcomeUnchanged     Outcome = "unchanged"
)

// mutates reports whether the outcome changed the filesystem.
func (o Outcome) mutates() bool {
	switch o {
	case OutcomeLinked, OutcomeRestored, OutcomeRemoved, OutcomeDisabled, OutcomeEnabled:
		return true
	}
	return false
}

// TargetOutcome is the result of an action at a single target.
type TargetOutcome struct {
	Target  string  `json:"target"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

// Result collects the per-target outcomes of one action.
type Result struct {
	Action   Action          `json:"action"`
	Skill    *registry.Skill `json:"skill"`
	Outcomes []TargetOutcome `json:"outcomes"`
}

// Changed reports whether any target was mutated.
func (r *Result) Changed() bool {
	for _, o := range r.Outcomes {
		if o.Outcome.mutates() {
			return true
		}
	}
	return false
}

// Conflicts returns the outcomes where a foreign entry blocked the action.
func (r *Result) Conflicts() []TargetOutcome {
	var out []TargetOutcome
	for _, o := range r.Outcomes {
		if o.Outcome == OutcomeConflict {
			out = append(out, o)
		}
	}
	return out
}

// ActionError reports the first filesystem failure of an action. Targets
// visited before Target keep whatever changes were made, as does Target
// itself when it failed halfway. Partial is true when any of them was
// mutated.
type ActionError struct {
	Action  Action
	Skill   string
	Target  string
	Partial bool
	Err     error
}

func (e *ActionError) Error() string {
	state := "nothing changed"
	if e.Partial {
		state = "partially changed"
	}
	return fmt.Sprintf("%s %s at %s (%s): %v", e.Action, e.Skill, e.Target, state, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
