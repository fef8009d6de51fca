package cli

import (
	"errors"
	"fmt"

	"github.com/skillctl-labs/skillctl/internal/groups"
	"github.com/skillctl-labs/skillctl/internal/registry"
	"github.com/spf13/cobra"
)

var setDryRun bool

func init() {
	setApplyCmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Show the plan without changing anything")
	setCmd.AddCommand(setApplyCmd)
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Switch to an exclusive set of skills",
}

var setApplyCmd = &cobra.Command{
	Use:   "apply <skill>...",
	Short: "Enable exactly the given skills",
	Long: `Enable the given installed skills and disable every other enabled skill.
Active groups are not consulted or changed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}

		var ids, unknown []string
		for _, q := range args {
			sk, err := s.find(q)
			switch {
			case err == nil:
				ids = append(ids, sk.SourcePath)
			case errors.Is(err, registry.ErrSkillNotFound):
				unknown = append(unknown, q)
			default:
				return err
			}
		}

		plan := groups.PlanSkillSet(s.skills, ids)
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		warnMissing(errOut, append(unknown, plan.MissingSkillIDs...))
		printPlan(out, plan.ToEnable, plan.ToDisable)
		if setDryRun || len(plan.ToEnable)+len(plan.ToDisable) == 0 {
			return nil
		}

		targets, err := s.targets()
		if err != nil {
			return err
		}
		if err := applyPlan(out, errOut, targets, plan.ToEnable, plan.ToDisable); err != nil {
			return err
		}
		s.rescan()
		fmt.Fprintf(out, "Applied set of %d skill(s)\n", len(ids))
		fmt.Fprintf(out, "Enabled skills: %s\n", s.enabledNames())
		return nil
	},
}
