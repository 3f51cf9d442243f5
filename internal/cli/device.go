package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/style"
)

func newDeviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "device",
		GroupID: "config",
		Short:   MsgDeviceShort,
	}

	cmd.AddCommand(newDeviceListCmd())
	cmd.AddCommand(newDeviceEnableCmd())
	cmd.AddCommand(newDeviceDisableCmd())

	return cmd
}

func newDeviceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgDeviceListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			device, err := a.deviceName()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			snap := a.state.Snapshot()
			fmt.Fprintln(out, style.Header("Device"))
			fmt.Fprintln(out, style.Indent(style.KeyValue("Name", snap.Device.Name), 1))
			if snap.Device.Branch != "" {
				fmt.Fprintln(out, style.Indent(style.KeyValue("Branch", snap.Device.Branch), 1))
			}
			if snap.Device.OS != "" {
				fmt.Fprintln(out, style.Indent(style.KeyValue("OS", string(snap.Device.OS)), 1))
			}

			entries, err := a.groups().List(device)
			if err != nil {
				return err
			}
			scoped := entries[:0]
			for _, e := range entries {
				if e.Device != "" {
					scoped = append(scoped, e)
				}
			}
			if len(scoped) == 0 {
				fmt.Fprintln(out, style.Indent(MsgNoGroups, 1))
				return nil
			}

			fmt.Fprintln(out, style.Header("Device groups"))
			for _, e := range scoped {
				printGroupEntry(out, e)
			}
			return nil
		},
	}
}

func newDeviceEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <group>",
		Short: MsgDeviceEnableShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			device, err := a.deviceName()
			if err != nil {
				return err
			}
			if err := a.groups().Enable(args[0], device); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(),
				style.Successf(MsgDeviceEnabled, args[0], device))
			return nil
		},
	}
}

func newDeviceDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <group>",
		Short: MsgDeviceDisableShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			device, err := a.deviceName()
			if err != nil {
				return err
			}
			if err := a.groups().Disable(args[0], device); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(),
				style.Successf(MsgDeviceDisabled, args[0], device))
			return nil
		},
	}
}
