package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/skillctl-labs/skillctl/internal/branding"
	"github.com/skillctl-labs/skillctl/internal/groups"
	"github.com/skillctl-labs/skillctl/internal/logs"
	"github.com/skillctl-labs/skillctl/internal/registry"
)

// SourceEntry is one configured skill source.
type SourceEntry struct {
	Name      string `mapstructure:"name"`
	Path      string `mapstructure:"path"`
	Recursive bool   `mapstructure:"recursive"`
	URL       string `mapstructure:"url"`
}

// LogSettings mirrors logs.Options under the "log" key.
type LogSettings struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Settings is the typed view of config.yaml.
type Settings struct {
	Sources      []SourceEntry  `mapstructure:"sources"`
	Targets      []string       `mapstructure:"targets"`
	Groups       []groups.Group `mapstructure:"groups"`
	ActiveGroups []string       `mapstructure:"active_groups"`
	Log          LogSettings    `mapstructure:"log"`
}

// LoadSettings decodes the loaded configuration. Groups and active groups
// come back normalized.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	s.Groups = groups.Normalize(s.Groups)
	s.ActiveGroups = groups.NormalizeActive(s.ActiveGroups, s.Groups)
	return &s, nil
}

// SaveSettings stores sources, targets, groups and active groups and writes
// the config file. Log settings are left as configured.
func SaveSettings(s *Settings) error {
	sources := make([]map[string]interface{}, 0, len(s.Sources))
	for _, src := range s.Sources {
		m := map[string]interface{}{"name": src.Name, "path": src.Path}
		if src.Recursive {
			m["recursive"] = true
		}
		if src.URL != "" {
			m["url"] = src.URL
		}
		sources = append(sources, m)
	}

	gs := make([]map[string]interface{}, 0, len(s.Groups))
	for _, g := range groups.Normalize(s.Groups) {
		gs = append(gs, map[string]interface{}{"name": g.Name, "skills": g.SkillIDs})
	}

	targets := s.Targets
	if targets == nil {
		targets = []string{}
	}
	active := s.ActiveGroups
	if active == nil {
		active = []string{}
	}

	viper.Set("sources", sources)
	viper.Set("targets", targets)
	viper.Set("groups", gs)
	viper.Set("active_groups", active)
	return write()
}

// ExpandPath expands a leading ~ and resolves relative paths against the
// config directory.
func ExpandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(Dir(), p)
	}
	return filepath.Clean(p)
}

// BuildSources converts entries to registry sources. Entries without a
// path are skipped; a missing name defaults to the directory base name.
func BuildSources(entries []SourceEntry) []registry.Source {
	out := make([]registry.Source, 0, len(entries))
	for _, e := range entries {
		path := ExpandPath(e.Path)
		if path == "" {
			continue
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = filepath.Base(path)
		}
		out = append(out, registry.Source{Name: name, Path: path, Recursive: e.Recursive, URL: e.URL})
	}
	return out
}

// BuildTargets expands target paths, dropping blanks and duplicates while
// keeping the configured order.
func BuildTargets(targets []string) []string {
	seen := make(map[string]bool, len(targets))
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		p := ExpandPath(t)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// LogOptions converts the log settings for logs.Init. A relative log file
// lives in the config directory; file output without a file name writes to
// logs/<cli>.log there.
func (s *Settings) LogOptions() logs.Options {
	file := s.Log.File
	switch {
	case file != "":
		file = ExpandPath(file)
	case s.Log.Output == "file" || s.Log.Output == "both":
		file = filepath.Join(Dir(), "logs", branding.CLIName()+".log")
	}
	return logs.Options{
		Level:      s.Log.Level,
		Format:     s.Log.Format,
		Output:     s.Log.Output,
		File:       file,
		MaxSize:    s.Log.MaxSize,
		MaxBackups: s.Log.MaxBackups,
		MaxAge:     s.Log.MaxAge,
		Compress:   s.Log.Compress,
	}
}

// Registry builds a registry over the configured sources and targets.
func (s *Settings) Registry() *registry.Registry {
	return registry.New(BuildSources(s.Sources), BuildTargets(s.Targets))
}
