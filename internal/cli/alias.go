package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/style"
)

func newAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "alias",
		GroupID: "config",
		Short:   MsgAliasShort,
	}

	cmd.AddCommand(newAliasListCmd())
	cmd.AddCommand(newAliasCreateCmd())
	cmd.AddCommand(newAliasSetActiveCmd())

	return cmd
}

func newAliasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgAliasListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			entries, err := a.aliases().List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, MsgNoAliasGroups)
				return nil
			}

			fmt.Fprintln(out, style.Header("Alias groups"))
			for _, g := range entries {
				line := fmt.Sprintf("%s %s (%d aliases)",
					style.ActiveMarker(g.Active),
					style.GroupStyle.Render(g.Name),
					len(g.Aliases))
				fmt.Fprintln(out, style.Indent(line, 1))
			}
			return nil
		},
	}
}

func newAliasCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <alias>=<expansion>...",
		Short: MsgAliasCreateShort,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := splitAssignments(args[1:])
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			group, err := a.aliases().Create(args[0], parsed)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(),
				style.Successf(MsgAliasCreated, group.Name, len(group.Aliases)))
			return nil
		},
	}
}

func newAliasSetActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-active <name>...",
		Short: MsgAliasSetActiveShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			am := a.aliases()
			if err := am.SetActive(args); err != nil {
				return err
			}
			kind, err := a.shellKind("")
			if err != nil {
				return err
			}
			// The alias script feeds the shell, so regenerate it on
			// every selection change.
			if _, err := am.WriteFragment(kind); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(),
				style.Successf(MsgAliasActiveSet, strings.Join(args, ", ")))
			return nil
		},
	}
}

// splitAssignments parses name=expansion arguments into a map.
func splitAssignments(args []string) (map[string]string, error) {
	parsed := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"expected name=expansion, got %q", arg)
		}
		parsed[name] = value
	}
	return parsed, nil
}
