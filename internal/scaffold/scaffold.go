package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skillctl-labs/skillctl/internal/manifest"
)

//go:embed scaffolds
var scaffoldFS embed.FS

// DefaultTemplate is used when no template set is named.
const DefaultTemplate = "basic"

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Name        string // e.g., "commit-writer"
	Title       string // Derived: "Commit Writer"
	Description string // Human-readable description
	Version     string // Semver, e.g., "0.1.0"
	Year        int    // Current year
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewScaffoldData creates a ScaffoldData with derived fields populated.
func NewScaffoldData(name, description string) *ScaffoldData {
	d := &ScaffoldData{
		Name:        name,
		Description: strings.TrimSpace(description),
		Version:     "0.1.0",
		Year:        time.Now().Year(),
	}
	if d.Description == "" {
		d.Description = fmt.Sprintf("Describe when an agent should use %s", name)
	}
	d.Title = cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
	return d
}

// Templates lists the embedded template set names.
func Templates() []string {
	entries, err := fs.ReadDir(scaffoldFS, "scaffolds")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// Generate renders template set setName into outputDir, which must be empty
// or missing, and validates the resulting SKILL.md. Validation problems are
// returned as warnings.
func Generate(setName string, data *ScaffoldData, outputDir string) (*Result, error) {
	if setName == "" {
		setName = DefaultTemplate
	}
	templatesDir := path.Join("scaffolds", setName)

	// Verify template set exists in embedded FS.
	if _, err := fs.ReadDir(scaffoldFS, templatesDir); err != nil {
		return nil, fmt.Errorf("template set %q not found (available: %s)", setName, strings.Join(Templates(), ", "))
	}

	// Check for existing files to prevent accidental overwrites.
	existingEntries, err := os.ReadDir(outputDir)
	if err == nil && len(existingEntries) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{
		OutputDir: outputDir,
	}

	err = fs.WalkDir(scaffoldFS, templatesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		tmplBytes, err := fs.ReadFile(scaffoldFS, p)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", p, err)
		}

		// Strip .tmpl extension for the output filename.
		rel := strings.TrimSuffix(strings.TrimPrefix(p, templatesDir+"/"), ".tmpl")
		outPath := filepath.Join(outputDir, filepath.FromSlash(rel))

		tmpl, err := template.New(d.Name()).Parse(string(tmplBytes))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", d.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("executing template %s: %w", d.Name(), err)
		}

		mode := os.FileMode(0644)
		if strings.HasSuffix(rel, ".sh") {
			mode = 0755
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
		}
		if err := os.WriteFile(outPath, buf.Bytes(), mode); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Validate the generated definition against the frontmatter schema.
	valResult, valErr := manifest.ValidateFile(filepath.Join(outputDir, manifest.DefinitionFile))
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not validate %s: %v", manifest.DefinitionFile, valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			result.Warnings = append(result.Warnings, msg)
		}
	}

	return result, nil
}
