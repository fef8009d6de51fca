package manifest

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Parse reads a SKILL.md file and returns its frontmatter metadata.
// A file without a frontmatter block yields empty metadata and no error.
func Parse(path string) (*Metadata, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	meta, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing frontmatter %s: %w", path, err)
	}
	return meta, nil
}

// ParseBytes decodes the frontmatter block at the top of a definition file.
func ParseBytes(data []byte) (*Metadata, error) {
	front, _, ok := SplitFrontmatter(string(data))
	if !ok || front == "" {
		return &Metadata{}, nil
	}

	var meta Metadata
	if err := yaml.Unmarshal([]byte(front), &meta); err != nil {
		return nil, err
	}
	meta.Name = strings.TrimSpace(meta.Name)
	meta.Description = strings.TrimSpace(meta.Description)
	return &meta, nil
}

// SplitFrontmatter separates a leading "---" fenced block from the markdown
// body. ok is false when the content has no complete frontmatter block.
func SplitFrontmatter(raw string) (frontmatter string, body string, ok bool) {
	raw = strings.TrimPrefix(raw, "\ufeff")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	if !strings.HasPrefix(raw, "---\n") {
		return "", strings.TrimSpace(raw), false
	}

	lines := strings.Split(raw, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end <= 0 {
		return "", strings.TrimSpace(raw), false
	}

	front := strings.Join(lines[1:end], "\n")
	rest := ""
	if end+1 < len(lines) {
		rest = strings.Join(lines[end+1:], "\n")
	}
	return strings.TrimSpace(front), strings.TrimSpace(rest), true
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
