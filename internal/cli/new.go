package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/skillctl-labs/skillctl/internal/config"
	"github.com/skillctl-labs/skillctl/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	newDir         string
	newTemplate    string
	newDescription string
)

func init() {
	newCmd.Flags().StringVar(&newDir, "dir", "", "Parent directory (defaults to the first configured source)")
	newCmd.Flags().StringVarP(&newTemplate, "template", "t", scaffold.DefaultTemplate,
		"Template set ("+strings.Join(scaffold.Templates(), ", ")+")")
	newCmd.Flags().StringVarP(&newDescription, "description", "d", "", "Description written to the frontmatter")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new skill from a template",
	Long: `Create a new skill directory containing a SKILL.md with valid frontmatter.
The skill is created inside the first configured source unless --dir is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		parent := newDir
		if parent == "" {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			sources := config.BuildSources(settings.Sources)
			if len(sources) == 0 {
				return fmt.Errorf("no sources configured; pass --dir or run '%s source add <dir>'", rootCmd.Name())
			}
			parent = sources[0].Path
		} else {
			abs, err := argPath(parent)
			if err != nil {
				return err
			}
			parent = abs
		}

		data := scaffold.NewScaffoldData(name, newDescription)
		result, err := scaffold.Generate(newTemplate, data, filepath.Join(parent, name))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created %s\n", result.OutputDir)
		for _, f := range result.Files {
			fmt.Fprintf(out, "  %s\n", f)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		return nil
	},
}
