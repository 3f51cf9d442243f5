package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/groups"
	"github.com/azpdev/zshrcman/pkg/style"
)

// deviceName returns the device recorded in the snapshot. Group and
// alias commands that take --device need one to exist.
func (a *app) deviceName() (string, error) {
	name := a.state.Snapshot().Device.Name
	if name == "" {
		return "", errors.New(errors.ErrInvalidOperation,
			"no device configured; run 'zshrcman init' first")
	}
	return name, nil
}

// deviceScope resolves the --device flag to a scope string: the current
// device name when set, empty for the shared scope.
func (a *app) deviceScope(deviceFlag bool) (string, error) {
	if !deviceFlag {
		return "", nil
	}
	return a.deviceName()
}

func newGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		GroupID: "config",
		Short:   MsgGroupShort,
	}

	cmd.AddCommand(newGroupListCmd())
	cmd.AddCommand(newGroupCreateCmd())
	cmd.AddCommand(newGroupEnableCmd())
	cmd.AddCommand(newGroupDisableCmd())
	cmd.AddCommand(newGroupAddCmd())
	cmd.AddCommand(newGroupRemoveCmd())
	cmd.AddCommand(newGroupInstallCmd())
	cmd.AddCommand(newGroupUninstallCmd())

	return cmd
}

func newGroupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgGroupListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			device := a.state.Snapshot().Device.Name
			entries, err := a.groups().List(device)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, MsgNoGroups)
				return nil
			}

			fmt.Fprintln(out, style.Header("Groups"))
			for _, e := range entries {
				printGroupEntry(out, e)
			}
			return nil
		},
	}
}

func printGroupEntry(out io.Writer, e groups.Entry) {
	line := fmt.Sprintf("%s %s [%s] (%d packages)",
		style.ActiveMarker(e.Enabled),
		style.GroupStyle.Render(e.Name),
		e.InstallerType,
		len(e.Packages))
	if e.Device != "" {
		line += " @" + e.Device
	}
	fmt.Fprintln(out, style.Indent(line, 1))
}

func newGroupCreateCmd() *cobra.Command {
	var installerType string
	var deviceFlag bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: MsgGroupCreateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			device, err := a.deviceScope(deviceFlag)
			if err != nil {
				return err
			}
			def, err := a.groups().Create(args[0], installerType, device)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(),
				style.Successf(MsgGroupCreated, def.Name, def.Installer()))
			return nil
		},
	}

	cmd.Flags().StringVar(&installerType, "installer", "", MsgFlagInstaller)
	cmd.Flags().BoolVar(&deviceFlag, "device", false, MsgFlagDevice)
	return cmd
}

func newGroupEnableCmd() *cobra.Command {
	var deviceFlag bool

	cmd := &cobra.Command{
		Use:   "enable <name>",
		Short: MsgGroupEnableShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			device, err := a.deviceScope(deviceFlag)
			if err != nil {
				return err
			}
			if err := a.groups().Enable(args[0], device); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), style.Successf(MsgGroupEnabled, args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&deviceFlag, "device", false, MsgFlagDevice)
	return cmd
}

func newGroupDisableCmd() *cobra.Command {
	var deviceFlag bool

	cmd := &cobra.Command{
		Use:   "disable <name>",
		Short: MsgGroupDisableShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			device, err := a.deviceScope(deviceFlag)
			if err != nil {
				return err
			}
			if err := a.groups().Disable(args[0], device); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), style.Successf(MsgGroupDisabled, args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&deviceFlag, "device", false, MsgFlagDevice)
	return cmd
}

func newGroupAddCmd() *cobra.Command {
	var deviceFlag bool

	cmd := &cobra.Command{
		Use:   "add <group> <package>...",
		Short: MsgGroupAddShort,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			device, err := a.deviceScope(deviceFlag)
			if err != nil {
				return err
			}
			gm := a.groups()
			out := cmd.OutOrStdout()
			for _, pkg := range args[1:] {
				if err := gm.AddPackage(args[0], pkg, device); err != nil {
					return err
				}
				fmt.Fprint(out, style.Successf(MsgGroupPkgAdded, pkg, args[0]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&deviceFlag, "device", false, MsgFlagDevice)
	return cmd
}

func newGroupRemoveCmd() *cobra.Command {
	var deviceFlag bool

	cmd := &cobra.Command{
		Use:   "remove <group> <package>...",
		Short: MsgGroupRemoveShort,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			device, err := a.deviceScope(deviceFlag)
			if err != nil {
				return err
			}
			gm := a.groups()
			out := cmd.OutOrStdout()
			for _, pkg := range args[1:] {
				if err := gm.RemovePackage(args[0], pkg, device); err != nil {
					return err
				}
				fmt.Fprint(out, style.Successf(MsgGroupPkgRemoved, pkg, args[0]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&deviceFlag, "device", false, MsgFlagDevice)
	return cmd
}

func newGroupInstallCmd() *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "install",
		Short: MsgGroupInstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			outcomes, err := a.groups().Install(cmd.Context(), only)
			printGroupOutcomes(cmd.OutOrStdout(), outcomes, true)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&only, "only", nil, MsgFlagOnly)
	return cmd
}

func newGroupUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: MsgGroupUninstallShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			outcomes, err := a.groups().Uninstall(cmd.Context())
			printGroupOutcomes(cmd.OutOrStdout(), outcomes, false)
			return err
		},
	}
}

// printGroupOutcomes writes one line per group. The aggregate error, if
// any, is left for the caller to return.
func printGroupOutcomes(out io.Writer, outcomes []groups.Outcome, install bool) {
	if len(outcomes) == 0 {
		fmt.Fprintln(out, MsgNoGroupOutcomes)
		return
	}
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			fmt.Fprint(out, style.Warningf(MsgGroupInstallFailed, o.Group, o.Err))
		case install:
			fmt.Fprint(out, style.Successf(MsgGroupInstalled, o.Group, o.Installer, o.Packages))
		default:
			fmt.Fprint(out, style.Successf(MsgGroupUninstalled, o.Group))
		}
	}
}
