package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skillctl-labs/skillctl/internal/manifest"
)

// writeSkill creates dir/SKILL.md with the given frontmatter body (may be empty).
func writeSkill(t *testing.T, dir, frontmatter string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	content := "# skill\n"
	if frontmatter != "" {
		content = "---\n" + frontmatter + "\n---\n" + content
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.DefinitionFile), []byte(content), 0644); err != nil {
		t.Fatalf("writing SKILL.md: %v", err)
	}
	return CanonicalPath(dir)
}

func mkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	mkdir(t, filepath.Dir(link))
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("symlink %s -> %s: %v", link, target, err)
	}
}

func names(raw []RawSkill) map[string]RawSkill {
	m := make(map[string]RawSkill, len(raw))
	for _, r := range raw {
		m[r.Name] = r
	}
	return m
}
