package cli

import (
	"fmt"

	"github.com/skillctl-labs/skillctl/internal/branding"
	"github.com/skillctl-labs/skillctl/internal/config"
	"github.com/skillctl-labs/skillctl/internal/logs"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` discovers agent skills in source directories and links them into
the skill folders of your tools. Skills can be enabled, disabled and switched
in groups without copying any files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Assigned here rather than in the literal: warnStaleSources refers to
	// rootCmd, which would otherwise form an initialization cycle.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		config.Load()
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		opts := settings.LogOptions()
		if verbose {
			opts.Level = "debug"
		}
		if err := logs.Init(opts); err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}

		// Skip the stale-source hint for commands that manage sources themselves.
		if p := cmd.Parent(); p == nil || p.Name() != "source" {
			warnStaleSources(cmd.ErrOrStderr(), settings)
		}
		return nil
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
