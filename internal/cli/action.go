package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/skillctl-labs/skillctl/internal/linker"
	"github.com/skillctl-labs/skillctl/internal/registry"
	"github.com/spf13/cobra"
)

var actionShort = map[linker.Action]string{
	linker.ActionInstall:   "Link a skill into every target",
	linker.ActionUninstall: "Remove a skill's links from every target",
	linker.ActionEnable:    "Re-activate a disabled skill in every target",
	linker.ActionDisable:   "Park a skill's links under .disabled in every target",
}

func init() {
	for _, a := range []linker.Action{linker.ActionInstall, linker.ActionUninstall, linker.ActionEnable, linker.ActionDisable} {
		rootCmd.AddCommand(newActionCmd(a))
	}
}

func newActionCmd(action linker.Action) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <skill>",
		Short: actionShort[action],
		Long: fmt.Sprintf(`Run %s for one skill across all configured targets.

The skill is looked up by name (exact first, then case-insensitive) or by its
source directory path.`, action),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			targets, err := s.targets()
			if err != nil {
				return err
			}
			sk, err := s.find(args[0])
			if err != nil {
				return err
			}
			res, err := linker.Apply(action, sk, targets)
			printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), res)
			return actionFailure(err)
		},
	}
}

// printResult writes one line per target outcome. Conflicts go to errOut.
func printResult(out, errOut io.Writer, res *linker.Result) {
	if res == nil {
		return
	}
	fmt.Fprintf(out, "%s %s\n", res.Action, res.Skill.Name)
	for _, o := range res.Outcomes {
		fmt.Fprintf(out, "  %-15s %s\n", o.Outcome, o.Target)
	}
	for _, c := range res.Conflicts() {
		fmt.Fprintf(errOut, "warning: %s\n", c.Detail)
	}
}

// actionFailure adds a rescan hint to partial failures.
func actionFailure(err error) error {
	var ae *linker.ActionError
	if errors.As(err, &ae) && ae.Partial {
		return fmt.Errorf("%w; run '%s list' to see the resulting state", err, rootCmd.Name())
	}
	return err
}

// applyPlan enables then disables the given skills and stops at the first
// failure.
func applyPlan(out, errOut io.Writer, targets []string, enable, disable []*registry.Skill) error {
	for _, sk := range enable {
		res, err := linker.Enable(sk, targets)
		printResult(out, errOut, res)
		if err != nil {
			return actionFailure(err)
		}
	}
	for _, sk := range disable {
		res, err := linker.Disable(sk, targets)
		printResult(out, errOut, res)
		if err != nil {
			return actionFailure(err)
		}
	}
	return nil
}

func printPlan(out io.Writer, enable, disable []*registry.Skill) {
	if len(enable) == 0 && len(disable) == 0 {
		fmt.Fprintln(out, "Nothing to change.")
	}
	for _, sk := range enable {
		fmt.Fprintf(out, "  + enable  %s\n", sk.Name)
	}
	for _, sk := range disable {
		fmt.Fprintf(out, "  - disable %s\n", sk.Name)
	}
}

func warnMissing(errOut io.Writer, missing []string) {
	for _, id := range missing {
		fmt.Fprintf(errOut, "warning: skill %s not found in any source\n", id)
	}
}
