//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skillctl-labs/skillctl/internal/registry"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	ConfigDir string   // SKILLCTL_CONFIG_DIR
	LocalDir  string   // non-recursive source
	VendorDir string   // recursive source with nested skills
	Targets   []string // two tool skill folders, not created up front
}

// setupTestEnv creates isolated temp directories and points the config
// directory at them. The env var is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		ConfigDir: filepath.Join(root, "config"),
		LocalDir:  filepath.Join(root, "local"),
		VendorDir: filepath.Join(root, "vendor"),
		Targets: []string{
			filepath.Join(root, "home", ".claude", "skills"),
			filepath.Join(root, "home", ".codex", "skills"),
		},
	}
	t.Setenv("SKILLCTL_CONFIG_DIR", env.ConfigDir)
	return env
}

// setupSkills lays out a realistic mix of sources:
//
//	local/writer, local/coder, local/reviewer
//	vendor/pack/git/commit, vendor/pack/git/review (nested, recursive source)
//	vendor/node_modules/ignored, vendor/.cache/ignored (pruned)
func setupSkills(t *testing.T, env *testEnv) {
	t.Helper()

	for _, name := range []string{"writer", "coder", "reviewer"} {
		writeSkill(t, filepath.Join(env.LocalDir, name), name)
	}
	writeSkill(t, filepath.Join(env.VendorDir, "pack", "git", "commit"), "git-commit")
	writeSkill(t, filepath.Join(env.VendorDir, "pack", "git", "review"), "git-review")
	writeSkill(t, filepath.Join(env.VendorDir, "node_modules", "ignored"), "ignored-module")
	writeSkill(t, filepath.Join(env.VendorDir, ".cache", "ignored"), "ignored-hidden")
}

func (env *testEnv) sources() []registry.Source {
	return []registry.Source{
		{Name: "local", Path: env.LocalDir},
		{Name: "vendor", Path: env.VendorDir, Recursive: true},
	}
}

func (env *testEnv) scan(t *testing.T) map[string]*registry.Skill {
	t.Helper()
	skills := registry.New(env.sources(), env.Targets).Scan()
	byName := make(map[string]*registry.Skill, len(skills))
	for _, s := range skills {
		byName[s.Name] = s
	}
	return byName
}

func writeSkill(t *testing.T, dir, name string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "SKILL.md"), "---\nname: "+name+"\ndescription: The "+name+" skill\nversion: 1.0.0\n---\n# "+name+"\n")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertStatus(t *testing.T, s *registry.Skill, want registry.Status) {
	t.Helper()
	if len(s.TargetStatus) == 0 {
		t.Fatalf("%s has no target statuses", s.Name)
	}
	for target, got := range s.TargetStatus {
		if got != want {
			t.Errorf("%s at %s = %s, want %s", s.Name, target, got, want)
		}
	}
}
