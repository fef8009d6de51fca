package manifest

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefinitionFile is the file whose presence marks a directory as a skill.
const DefinitionFile = "SKILL.md"

// Metadata holds the frontmatter fields the registry consumes.
type Metadata struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`

	// Extras holds any other frontmatter keys (license, allowed-tools, ...).
	Extras map[string]interface{} `yaml:",inline" json:"-"`
}

// SemVer parses Version, tolerating a leading "v". An empty Version
// returns nil without error.
func (m *Metadata) SemVer() (*semver.Version, error) {
	v := strings.TrimSpace(m.Version)
	if v == "" {
		return nil, nil
	}
	return semver.NewVersion(strings.TrimPrefix(v, "v"))
}
