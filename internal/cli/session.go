package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skillctl-labs/skillctl/internal/branding"
	"github.com/skillctl-labs/skillctl/internal/config"
	"github.com/skillctl-labs/skillctl/internal/registry"
)

var errNoTargets = errors.New("no targets configured")

// session is the state one command works on: the settings it may persist
// and a fresh scan of every configured source and target.
type session struct {
	settings *config.Settings
	registry *registry.Registry
	skills   []*registry.Skill
}

func openSession() (*session, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	reg := settings.Registry()
	return &session{settings: settings, registry: reg, skills: reg.Scan()}, nil
}

// targets returns the configured targets or an error with a hint when
// there are none.
func (s *session) targets() ([]string, error) {
	if len(s.registry.Targets) == 0 {
		return nil, fmt.Errorf("%w: run '%s target add <dir>'", errNoTargets, branding.CLIName())
	}
	return s.registry.Targets, nil
}

func (s *session) find(query string) (*registry.Skill, error) {
	return registry.Find(s.skills, query)
}

// rescan refreshes the skill list after actions were applied.
func (s *session) rescan() {
	s.skills = s.registry.Scan()
}

// enabledNames lists the skills currently enabled in at least one target.
func (s *session) enabledNames() string {
	var names []string
	for _, sk := range s.skills {
		if sk.Enabled() {
			names = append(names, sk.Name)
		}
	}
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

func (s *session) save() error {
	return config.SaveSettings(s.settings)
}
