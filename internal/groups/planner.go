package groups

import (
	"fmt"

	"github.com/skillctl-labs/skillctl/internal/registry"
)

// TogglePlan is the set of changes needed to switch a group on or off.
type TogglePlan struct {
	ActiveGroups    []string          `json:"activeGroups"`
	ToEnable        []*registry.Skill `json:"toEnable"`
	ToDisable       []*registry.Skill `json:"toDisable"`
	MissingSkillIDs []string          `json:"missingSkillIds"`
}

// PlanToggle computes the effect of switching target on (setActive) or off.
//
// Active groups are exclusive as a whole: once the new active list is known,
// only members of its union may stay enabled. Switching a group on enables
// its disabled members and disables every other enabled skill outside that
// union. Switching it off disables its members unless another active group
// still holds them. Member ids with no discovered skill are reported in
// MissingSkillIDs.
func PlanToggle(skills []*registry.Skill, groups []Group, active []string, target string, setActive bool) (*TogglePlan, error) {
	catalog := Normalize(groups)
	current := NormalizeActive(active, catalog)

	byKey := make(map[string]Group, len(catalog))
	for _, g := range catalog {
		byKey[Key(g.Name)] = g
	}
	tg, ok := byKey[Key(target)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, CanonicalName(target))
	}

	next := make([]string, 0, len(current)+1)
	present := false
	for _, name := range current {
		if Key(name) == Key(tg.Name) {
			present = true
			if !setActive {
				continue
			}
		}
		next = append(next, name)
	}
	if setActive && !present {
		next = append(next, tg.Name)
	}

	allowed := make(map[string]bool)
	for _, name := range next {
		for _, id := range byKey[Key(name)].SkillIDs {
			allowed[id] = true
		}
	}
	members := make(map[string]bool, len(tg.SkillIDs))
	for _, id := range tg.SkillIDs {
		members[id] = true
	}

	plan := &TogglePlan{
		ActiveGroups:    next,
		ToEnable:        []*registry.Skill{},
		ToDisable:       []*registry.Skill{},
		MissingSkillIDs: missing(skills, tg.SkillIDs),
	}
	for _, s := range skills {
		switch {
		case setActive && s.Installed && s.Disabled && members[s.SourcePath]:
			plan.ToEnable = append(plan.ToEnable, s)
		case setActive && s.Enabled() && !allowed[s.SourcePath]:
			plan.ToDisable = append(plan.ToDisable, s)
		case !setActive && s.Enabled() && members[s.SourcePath] && !allowed[s.SourcePath]:
			plan.ToDisable = append(plan.ToDisable, s)
		}
	}
	registry.SortSkills(plan.ToEnable)
	registry.SortSkills(plan.ToDisable)
	return plan, nil
}

// SetPlan is the result of switching to a single exclusive skill set.
type SetPlan struct {
	ToEnable        []*registry.Skill `json:"toEnable"`
	ToDisable       []*registry.Skill `json:"toDisable"`
	MissingSkillIDs []string          `json:"missingSkillIds"`
}

// PlanSkillSet treats ids as the only skills allowed to be enabled: disabled
// members are enabled and every other enabled skill is disabled.
func PlanSkillSet(skills []*registry.Skill, ids []string) *SetPlan {
	ids = canonicalIDs(ids)
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	plan := &SetPlan{
		ToEnable:        []*registry.Skill{},
		ToDisable:       []*registry.Skill{},
		MissingSkillIDs: missing(skills, ids),
	}
	for _, s := range skills {
		switch {
		case set[s.SourcePath] && s.Installed && s.Disabled:
			plan.ToEnable = append(plan.ToEnable, s)
		case !set[s.SourcePath] && s.Enabled():
			plan.ToDisable = append(plan.ToDisable, s)
		}
	}
	registry.SortSkills(plan.ToEnable)
	registry.SortSkills(plan.ToDisable)
	return plan
}

// missing returns the ids with no skill at that source path.
func missing(skills []*registry.Skill, ids []string) []string {
	known := make(map[string]bool, len(skills))
	for _, s := range skills {
		known[s.SourcePath] = true
	}
	out := []string{}
	for _, id := range ids {
		if !known[id] {
			out = append(out, id)
		}
	}
	return out
}
