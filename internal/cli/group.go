package cli

import (
	"fmt"
	"strings"

	"github.com/skillctl-labs/skillctl/internal/groups"
	"github.com/skillctl-labs/skillctl/internal/registry"
	"github.com/spf13/cobra"
)

var (
	groupJSON   bool
	groupDryRun bool
)

func init() {
	groupListCmd.Flags().BoolVar(&groupJSON, "json", false, "Output in JSON format")
	groupOnCmd.Flags().BoolVar(&groupDryRun, "dry-run", false, "Show the plan without changing anything")
	groupOffCmd.Flags().BoolVar(&groupDryRun, "dry-run", false, "Show the plan without changing anything")

	groupCmd.AddCommand(groupListCmd, groupCreateCmd, groupDeleteCmd, groupRenameCmd,
		groupAddCmd, groupRemoveCmd, groupOnCmd, groupOffCmd)
	rootCmd.AddCommand(groupCmd)
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage skill groups",
	Long: `Groups are named sets of skills. Switching a group on enables its members
and disables every enabled skill outside the union of the active groups.
Switching it off disables members no other active group holds.`,
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups and their members",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		if groupJSON {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"groups":       s.settings.Groups,
				"activeGroups": s.settings.ActiveGroups,
			})
		}
		if len(s.settings.Groups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No groups defined.")
			return nil
		}

		active := make(map[string]bool, len(s.settings.ActiveGroups))
		for _, name := range s.settings.ActiveGroups {
			active[groups.Key(name)] = true
		}
		byPath := make(map[string]*registry.Skill, len(s.skills))
		for _, sk := range s.skills {
			byPath[sk.SourcePath] = sk
		}

		out := cmd.OutOrStdout()
		for _, g := range s.settings.Groups {
			marker := " "
			if active[groups.Key(g.Name)] {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s (%d)\n", marker, g.Name, len(g.SkillIDs))
			for _, id := range g.SkillIDs {
				if sk, ok := byPath[id]; ok {
					fmt.Fprintf(out, "    %s\n", sk.Name)
				} else {
					fmt.Fprintf(out, "    %s (missing)\n", id)
				}
			}
		}
		return nil
	},
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCatalog(func(s *session, c *groups.Catalog) (string, error) {
			g, err := c.Create(args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Created group %s", g.Name), nil
		}, cmd)
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a group",
	Long:  `Delete a group. Its member skills are left as they are.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCatalog(func(s *session, c *groups.Catalog) (string, error) {
			g, err := c.Delete(args[0])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted group %s", g.Name), nil
		}, cmd)
	},
}

var groupRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCatalog(func(s *session, c *groups.Catalog) (string, error) {
			g, err := c.Rename(args[0], args[1])
			if err != nil {
				return "", err
			}
			s.settings.ActiveGroups = groups.RenameActive(s.settings.ActiveGroups, args[0], g.Name)
			return fmt.Sprintf("Renamed group to %s", g.Name), nil
		}, cmd)
	},
}

var groupAddCmd = &cobra.Command{
	Use:   "add <group> <skill>...",
	Short: "Add skills to a group",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCatalog(func(s *session, c *groups.Catalog) (string, error) {
			ids := make([]string, 0, len(args)-1)
			for _, q := range args[1:] {
				sk, err := s.find(q)
				if err != nil {
					return "", err
				}
				ids = append(ids, sk.SourcePath)
			}
			n, err := c.AddSkills(args[0], ids...)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Added %d skill(s) to %s", n, groups.CanonicalName(args[0])), nil
		}, cmd)
	},
}

var groupRemoveCmd = &cobra.Command{
	Use:   "remove <group> <skill>...",
	Short: "Remove skills from a group",
	Long: `Remove skills from a group. A skill that no longer exists on disk can be
removed by the source path shown in 'group list'.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editCatalog(func(s *session, c *groups.Catalog) (string, error) {
			ids := make([]string, 0, len(args)-1)
			for _, q := range args[1:] {
				id, err := memberID(s, q)
				if err != nil {
					return "", err
				}
				ids = append(ids, id)
			}
			n, err := c.RemoveSkills(args[0], ids...)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Removed %d skill(s) from %s", n, groups.CanonicalName(args[0])), nil
		}, cmd)
	},
}

var groupOnCmd = &cobra.Command{
	Use:   "on <group>",
	Short: "Activate a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleGroup(cmd, args[0], true)
	},
}

var groupOffCmd = &cobra.Command{
	Use:   "off <group>",
	Short: "Deactivate a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleGroup(cmd, args[0], false)
	},
}

// editCatalog runs edit against the configured groups and saves the result.
func editCatalog(edit func(*session, *groups.Catalog) (string, error), cmd *cobra.Command) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	c := groups.NewCatalog(s.settings.Groups)
	msg, err := edit(s, c)
	if err != nil {
		return err
	}
	s.settings.Groups = c.Groups
	s.settings.ActiveGroups = groups.NormalizeActive(s.settings.ActiveGroups, c.Groups)
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

// memberID resolves q to a skill id, accepting the path of a skill that is
// no longer discovered.
func memberID(s *session, q string) (string, error) {
	sk, err := s.find(q)
	if err == nil {
		return sk.SourcePath, nil
	}
	if strings.ContainsRune(q, '/') {
		return registry.CanonicalPath(q), nil
	}
	return "", err
}

func toggleGroup(cmd *cobra.Command, name string, on bool) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	plan, err := groups.PlanToggle(s.skills, s.settings.Groups, s.settings.ActiveGroups, name, on)
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	warnMissing(errOut, plan.MissingSkillIDs)
	printPlan(out, plan.ToEnable, plan.ToDisable)
	if groupDryRun {
		fmt.Fprintf(out, "Active groups would be: %s\n", activeList(plan.ActiveGroups))
		return nil
	}

	if len(plan.ToEnable)+len(plan.ToDisable) > 0 {
		targets, err := s.targets()
		if err != nil {
			return err
		}
		if err := applyPlan(out, errOut, targets, plan.ToEnable, plan.ToDisable); err != nil {
			return err
		}
		s.rescan()
	}

	s.settings.ActiveGroups = plan.ActiveGroups
	if err := s.save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Active groups: %s\n", activeList(plan.ActiveGroups))
	fmt.Fprintf(out, "Enabled skills: %s\n", s.enabledNames())
	return nil
}

func activeList(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
