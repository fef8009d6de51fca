package groups

import (
	"errors"
	"fmt"
)

var (
	// ErrGroupNotFound is returned when a name has no case-insensitive match.
	ErrGroupNotFound = errors.New("group not found")
	// ErrGroupExists is returned when creating or renaming onto a taken name.
	ErrGroupExists = errors.New("group already exists")
)

// Catalog is an editable, normalized collection of groups.
type Catalog struct {
	Groups []Group
}

// NewCatalog returns a catalog over a normalized copy of groups.
func NewCatalog(groups []Group) *Catalog {
	return &Catalog{Groups: Normalize(groups)}
}

func (c *Catalog) index(name string) int {
	k := Key(name)
	for i, g := range c.Groups {
		if Key(g.Name) == k {
			return i
		}
	}
	return -1
}

// Find returns the group matching name case-insensitively.
func (c *Catalog) Find(name string) (Group, error) {
	i := c.index(name)
	if i < 0 {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, CanonicalName(name))
	}
	return c.Groups[i], nil
}

// Create adds an empty group.
func (c *Catalog) Create(name string) (Group, error) {
	name = CanonicalName(name)
	if name == "" {
		return Group{}, errors.New("group name cannot be empty")
	}
	if i := c.index(name); i >= 0 {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupExists, c.Groups[i].Name)
	}
	g := Group{Name: name, SkillIDs: []string{}}
	c.Groups = append(c.Groups, g)
	return g, nil
}

// Delete removes a group and returns it.
func (c *Catalog) Delete(name string) (Group, error) {
	i := c.index(name)
	if i < 0 {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, CanonicalName(name))
	}
	g := c.Groups[i]
	c.Groups = append(c.Groups[:i], c.Groups[i+1:]...)
	return g, nil
}

// Rename changes a group's name. Changing only the casing or spacing of a
// name is allowed.
func (c *Catalog) Rename(oldName, newName string) (Group, error) {
	i := c.index(oldName)
	if i < 0 {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, CanonicalName(oldName))
	}
	newName = CanonicalName(newName)
	if newName == "" {
		return Group{}, errors.New("group name cannot be empty")
	}
	if j := c.index(newName); j >= 0 && j != i {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupExists, c.Groups[j].Name)
	}
	c.Groups[i].Name = newName
	return c.Groups[i], nil
}

// AddSkills adds ids to a group and reports how many were new.
func (c *Catalog) AddSkills(name string, ids ...string) (int, error) {
	i := c.index(name)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrGroupNotFound, CanonicalName(name))
	}
	before := len(c.Groups[i].SkillIDs)
	c.Groups[i].SkillIDs = canonicalIDs(append(c.Groups[i].SkillIDs, ids...))
	return len(c.Groups[i].SkillIDs) - before, nil
}

// RemoveSkills drops ids from a group and reports how many were removed.
func (c *Catalog) RemoveSkills(name string, ids ...string) (int, error) {
	i := c.index(name)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrGroupNotFound, CanonicalName(name))
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range canonicalIDs(ids) {
		drop[id] = true
	}
	kept := c.Groups[i].SkillIDs[:0]
	removed := 0
	for _, id := range c.Groups[i].SkillIDs {
		if drop[id] {
			removed++
			continue
		}
		kept = append(kept, id)
	}
	c.Groups[i].SkillIDs = kept
	return removed, nil
}
