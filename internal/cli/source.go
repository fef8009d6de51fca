package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/skillctl-labs/skillctl/internal/config"
	"github.com/skillctl-labs/skillctl/internal/gitsource"
	"github.com/spf13/cobra"
)

var (
	sourceName      string
	sourceRecursive bool
	sourceURL       string
	sourceGit       string
)

func init() {
	sourceAddCmd.Flags().StringVar(&sourceName, "name", "", "Display name (defaults to the directory name)")
	sourceAddCmd.Flags().BoolVarP(&sourceRecursive, "recursive", "r", false, "Scan the whole tree instead of immediate subdirectories")
	sourceAddCmd.Flags().StringVar(&sourceURL, "url", "", "Where the source came from, e.g. a git remote")
	sourceAddCmd.Flags().StringVar(&sourceGit, "git", "", "Clone this repository and use the checkout as the source")

	sourceCmd.AddCommand(sourceListCmd, sourceAddCmd, sourceRemoveCmd, sourceSyncCmd)
	targetCmd.AddCommand(targetListCmd, targetAddCmd, targetRemoveCmd)
	rootCmd.AddCommand(sourceCmd, targetCmd)
}

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage directories scanned for skills",
	Long:  `Sources are scanned in order; when two sources yield the same skill directory the later one wins.`,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		if len(settings.Sources) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sources configured.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tPATH\tMODE")
		for _, src := range config.BuildSources(settings.Sources) {
			mode := "children"
			if src.Recursive {
				mode = "recursive"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", src.Name, src.Path, mode)
		}
		return w.Flush()
	},
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [dir]",
	Short: "Add a source directory",
	Long: `Add a source directory. With --git the repository is cloned into
~/.skillctl/sources/<name> (or [dir] when given) and can be refreshed with
'source sync'.`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		path, err := sourceAddPath(args)
		if err != nil {
			return err
		}
		for _, src := range config.BuildSources(settings.Sources) {
			if src.Path == path {
				return fmt.Errorf("source %s is already configured", path)
			}
		}
		name := strings.TrimSpace(sourceName)
		if name == "" {
			name = filepath.Base(path)
		}
		url := sourceURL
		if sourceGit != "" {
			url = sourceGit
			fmt.Fprintf(cmd.OutOrStdout(), "Cloning %s...\n", sourceGit)
			if err := gitsource.Clone(sourceGit, path); err != nil {
				return err
			}
		}
		settings.Sources = append(settings.Sources, config.SourceEntry{
			Name: name, Path: path, Recursive: sourceRecursive, URL: url,
		})
		if err := config.SaveSettings(settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added source %s (%s)\n", name, path)
		return nil
	},
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove <name|dir>",
	Short: "Remove a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		path, err := argPath(args[0])
		if err != nil {
			return err
		}
		kept := make([]config.SourceEntry, 0, len(settings.Sources))
		removed := 0
		for _, e := range settings.Sources {
			if e.Name == args[0] || config.ExpandPath(e.Path) == path {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if removed == 0 {
			return fmt.Errorf("no source named %q", args[0])
		}
		settings.Sources = kept
		if err := config.SaveSettings(settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d source(s)\n", removed)
		return nil
	},
}

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage directories skills are linked into",
	Long:  `Targets are tool skill folders such as ~/.claude/skills. Actions visit them in order.`,
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		targets := config.BuildTargets(settings.Targets)
		if len(targets) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No targets configured.")
			return nil
		}
		for _, t := range targets {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

var targetAddCmd = &cobra.Command{
	Use:   "add <dir>",
	Short: "Add a target directory",
	Long:  `Add a target directory. It is created on the first install.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		path, err := argPath(args[0])
		if err != nil {
			return err
		}
		for _, t := range config.BuildTargets(settings.Targets) {
			if t == path {
				return fmt.Errorf("target %s is already configured", path)
			}
		}
		settings.Targets = append(settings.Targets, path)
		if err := config.SaveSettings(settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added target %s\n", path)
		return nil
	},
}

var targetRemoveCmd = &cobra.Command{
	Use:   "remove <dir>",
	Short: "Remove a target",
	Long:  `Remove a target from the configuration. Links already in it are left alone.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		path, err := argPath(args[0])
		if err != nil {
			return err
		}
		kept := make([]string, 0, len(settings.Targets))
		for _, t := range settings.Targets {
			if config.ExpandPath(t) != path {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(settings.Targets) {
			return fmt.Errorf("target %s is not configured", path)
		}
		settings.Targets = kept
		if err := config.SaveSettings(settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed target %s\n", path)
		return nil
	},
}

// sourceAddPath picks the directory for 'source add': the argument, or a
// checkout location under the config dir for --git.
func sourceAddPath(args []string) (string, error) {
	if len(args) == 1 {
		return argPath(args[0])
	}
	if sourceGit == "" {
		return "", fmt.Errorf("a directory is required unless --git is given")
	}
	name := strings.TrimSpace(sourceName)
	if name == "" {
		name = gitsource.DirName(sourceGit)
	}
	return filepath.Join(config.Dir(), "sources", name), nil
}

var sourceSyncCmd = &cobra.Command{
	Use:   "sync [name]",
	Short: "Pull updates for git-backed sources",
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		synced := 0
		for _, src := range config.BuildSources(settings.Sources) {
			if src.URL == "" || (len(args) == 1 && src.Name != args[0]) {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Syncing %s (%s)\n", src.Name, src.URL)
			if err := gitsource.Update(src.URL, src.Path); err != nil {
				return fmt.Errorf("syncing %s: %w", src.Name, err)
			}
			synced++
		}
		if synced == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No git-backed sources to sync.")
		}
		return nil
	},
}

// warnStaleSources prints a hint for git-backed sources not synced recently.
func warnStaleSources(w io.Writer, settings *config.Settings) {
	for _, src := range config.BuildSources(settings.Sources) {
		if src.URL == "" {
			continue
		}
		if _, err := os.Stat(src.Path); err != nil {
			continue
		}
		if gitsource.IsStale(src.Path, gitsource.DefaultMaxAge) {
			fmt.Fprintf(w, "Source %s is more than 7 days old. Run '%s source sync'.\n", src.Name, rootCmd.Name())
		}
	}
}

// argPath resolves a directory given on the command line: ~ expands to the
// home directory and relative paths resolve against the working directory.
func argPath(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "~" || strings.HasPrefix(arg, "~/") {
		return config.ExpandPath(arg), nil
	}
	return filepath.Abs(arg)
}
