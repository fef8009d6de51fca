package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/skillctl-labs/skillctl/internal/config"
	"github.com/skillctl-labs/skillctl/internal/manifest"
	"github.com/skillctl-labs/skillctl/internal/registry"
	"github.com/spf13/cobra"
)

var (
	checkSkills   bool
	checkTargets  bool
	checkGroups   bool
	checkManifest string
)

func init() {
	doctorCmd.Flags().BoolVar(&checkSkills, "check-skills", false, "Validate SKILL.md frontmatter of every discovered skill")
	doctorCmd.Flags().BoolVar(&checkTargets, "check-targets", false, "Report broken links and entries blocking installs")
	doctorCmd.Flags().BoolVar(&checkGroups, "check-groups", false, "Report group members missing from every source")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a SKILL.md file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for sources, targets and groups",
	Long:  `Run diagnostic checks on the configured sources, targets and groups.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()

		if checkManifest != "" {
			failures, err := runManifestCheck(w, checkManifest)
			if err != nil {
				return err
			}
			return doctorResult(failures)
		}

		s, err := openSession()
		if err != nil {
			return err
		}

		all := !checkSkills && !checkTargets && !checkGroups
		failures := 0
		if all {
			checkConfig(w, s)
		}
		if all || checkSkills {
			failures += checkSkillFiles(w, s.skills)
		}
		if all || checkTargets {
			checkTargetEntries(w, s)
		}
		if all || checkGroups {
			checkGroupMembers(w, s)
		}
		return doctorResult(failures)
	},
}

func doctorResult(failures int) error {
	if failures > 0 {
		return fmt.Errorf("doctor found %d invalid skill definition(s)", failures)
	}
	return nil
}

func checkConfig(w io.Writer, s *session) {
	fmt.Fprintln(w, "Config check:")
	if _, err := os.Stat(config.FilePath()); err != nil {
		fmt.Fprintf(w, "  [INFO] %s not created yet\n", config.FilePath())
	} else {
		fmt.Fprintf(w, "  [ OK ] %s\n", config.FilePath())
	}

	if len(s.registry.Sources) == 0 {
		fmt.Fprintln(w, "  [WARN] no sources configured")
	}
	for _, src := range s.registry.Sources {
		if info, err := os.Stat(src.Path); err != nil || !info.IsDir() {
			fmt.Fprintf(w, "  [MISS] source %s: %s\n", src.Name, src.Path)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] source %s: %s\n", src.Name, src.Path)
	}

	if len(s.registry.Targets) == 0 {
		fmt.Fprintln(w, "  [WARN] no targets configured")
	}
	for _, t := range s.registry.Targets {
		if _, err := os.Stat(t); err != nil {
			fmt.Fprintf(w, "  [INFO] target %s does not exist yet\n", t)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] target %s\n", t)
	}
}

func checkSkillFiles(w io.Writer, skills []*registry.Skill) int {
	fmt.Fprintln(w, "Skill check:")
	if len(skills) == 0 {
		fmt.Fprintln(w, "  [INFO] no skills discovered")
		return 0
	}
	failures := 0
	for _, sk := range skills {
		result, err := manifest.ValidateFile(filepath.Join(sk.SourcePath, manifest.DefinitionFile))
		if err != nil {
			fmt.Fprintf(w, "  [FAIL] %s: %v\n", sk.Name, err)
			failures++
			continue
		}
		if result.Valid {
			fmt.Fprintf(w, "  [ OK ] %s\n", sk.Name)
			continue
		}
		failures++
		fmt.Fprintf(w, "  [FAIL] %s (%s)\n", sk.Name, sk.SourcePath)
		printIssues(w, result.Issues)
	}
	return failures
}

func printIssues(w io.Writer, issues []manifest.ValidationIssue) {
	for _, issue := range issues {
		path := issue.Path
		if path == "" {
			path = "(root)"
		}
		fmt.Fprintf(w, "         %s: %s\n", path, issue.Message)
	}
}

func checkTargetEntries(w io.Writer, s *session) {
	fmt.Fprintln(w, "Target check:")

	byLinkName := make(map[string]*registry.Skill, len(s.skills))
	known := make(map[string]bool, len(s.skills))
	for _, sk := range s.skills {
		byLinkName[sk.LinkName()] = sk
		known[sk.SourcePath] = true
	}

	entries := registry.ScanTargets(s.registry.Targets)
	for _, t := range s.registry.Targets {
		problems := 0
		for _, e := range entries[t] {
			where := filepath.Join(t, e.Name)
			if e.Disabled {
				where = filepath.Join(t, registry.DisabledDir, e.Name)
			}
			switch {
			case e.IsSymlink && e.RealPath == "":
				fmt.Fprintf(w, "  [WARN] broken link %s\n", where)
				problems++
			case !e.IsSymlink && byLinkName[e.Name] != nil && !e.Disabled:
				fmt.Fprintf(w, "  [WARN] %s is not a link; it blocks installing %s\n", where, byLinkName[e.Name].Name)
				problems++
			case e.IsSymlink && !known[e.RealPath]:
				fmt.Fprintf(w, "  [INFO] %s links outside the configured sources (%s)\n", where, e.RealPath)
			}
		}
		if problems == 0 {
			fmt.Fprintf(w, "  [ OK ] %s\n", t)
		}
	}
}

func checkGroupMembers(w io.Writer, s *session) {
	fmt.Fprintln(w, "Group check:")
	if len(s.settings.Groups) == 0 {
		fmt.Fprintln(w, "  [INFO] no groups defined")
		return
	}
	known := make(map[string]bool, len(s.skills))
	for _, sk := range s.skills {
		known[sk.SourcePath] = true
	}
	for _, g := range s.settings.Groups {
		missing := 0
		for _, id := range g.SkillIDs {
			if !known[id] {
				fmt.Fprintf(w, "  [MISS] %s: %s\n", g.Name, id)
				missing++
			}
		}
		if missing == 0 {
			fmt.Fprintf(w, "  [ OK ] %s (%d skills)\n", g.Name, len(g.SkillIDs))
		}
	}
}

func runManifestCheck(w io.Writer, path string) (int, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, manifest.DefinitionFile)
	}
	result, err := manifest.ValidateFile(path)
	if err != nil {
		return 0, fmt.Errorf("validating %s: %w", path, err)
	}
	if result.Valid {
		fmt.Fprintf(w, "[ OK ] %s is valid\n", path)
		return 0, nil
	}
	fmt.Fprintf(w, "[FAIL] %s\n", path)
	printIssues(w, result.Issues)
	return 1, nil
}
