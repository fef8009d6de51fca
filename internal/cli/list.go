package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"github.com/skillctl-labs/skillctl/internal/registry"
	"github.com/spf13/cobra"
)

var (
	listJSON      bool
	listMatch     string
	listInstalled bool
)

// Status colors share one ANSI code length so tabwriter columns stay aligned.
var (
	installedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	disabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	missingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skills and their state in each target",
	Long: `List every skill found in the configured sources together with its
status in each configured target: installed, disabled or not-installed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only show skills whose name matches a glob (e.g. 'git-*')")
	listCmd.Flags().BoolVar(&listInstalled, "installed", false, "Only show skills installed in at least one target")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}

	skills, err := filterSkills(s.skills, listMatch, listInstalled)
	if err != nil {
		return err
	}

	if listJSON {
		return printJSON(cmd.OutOrStdout(), skills)
	}

	if len(skills) == 0 {
		if len(s.registry.Sources) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No sources configured. Run '%s source add <dir>'.\n", rootCmd.Name())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No skills found.")
		return nil
	}
	return printSkillTable(cmd.OutOrStdout(), skills, s.registry.Targets)
}

// filterSkills applies the --match glob (case-insensitive) and --installed.
func filterSkills(skills []*registry.Skill, pattern string, installedOnly bool) ([]*registry.Skill, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid --match pattern %q", pattern)
	}

	out := make([]*registry.Skill, 0, len(skills))
	for _, sk := range skills {
		if installedOnly && !sk.Installed {
			continue
		}
		if pattern != "" {
			ok, err := doublestar.Match(pattern, strings.ToLower(sk.Name))
			if err != nil {
				return nil, fmt.Errorf("matching %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}
		out = append(out, sk)
	}
	return out, nil
}

func printSkillTable(out io.Writer, skills []*registry.Skill, targets []string) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	header := []string{"NAME", "VERSION", "SOURCE"}
	for _, t := range targets {
		header = append(header, strings.ToUpper(targetLabel(t)))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, sk := range skills {
		version := sk.Version
		if version == "" {
			version = "-"
		}
		row := []string{sk.Name, version, sk.SourceName}
		for _, t := range targets {
			row = append(row, statusCell(sk.TargetStatus[t]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func statusCell(st registry.Status) string {
	switch st {
	case registry.StatusInstalled:
		return installedStyle.Render(string(st))
	case registry.StatusDisabled:
		return disabledStyle.Render(string(st))
	default:
		return missingStyle.Render(string(registry.StatusNotInstalled))
	}
}

// targetLabel shortens a target path to its last two elements,
// e.g. /home/u/.claude/skills -> .claude/skills.
func targetLabel(target string) string {
	parent := filepath.Base(filepath.Dir(target))
	if parent == string(filepath.Separator) || parent == "." {
		return filepath.Base(target)
	}
	return parent + "/" + filepath.Base(target)
}

func printJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
