package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/environment"
	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/style"
)

func newProfileCmd() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:     "profile",
		Short:   MsgProfileShort,
		GroupID: "core",
	}
	profileCmd.AddCommand(newProfileCreateCmd())
	profileCmd.AddCommand(newProfileDeleteCmd())
	profileCmd.AddCommand(newProfileSwitchCmd())
	profileCmd.AddCommand(newProfileActivateCmd())
	profileCmd.AddCommand(newProfileDeactivateCmd())
	profileCmd.AddCommand(newProfileListCmd())
	profileCmd.AddCommand(newProfileCurrentCmd())
	return profileCmd
}

func newProfileCreateCmd() *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: MsgCreateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if _, err := a.state.CreateProfile(args[0], parent); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), style.Successf(MsgProfileCreated, args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", MsgFlagParent)
	return cmd
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: MsgDeleteShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.state.DeleteProfile(args[0]); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), style.Successf(MsgProfileDeleted, args[0]))
			return nil
		},
	}
}

func newProfileSwitchCmd() *cobra.Command {
	var resume bool
	cmd := &cobra.Command{
		Use:   "switch [name]",
		Short: MsgSwitchShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			kind, err := a.shellKind("")
			if err != nil {
				return err
			}
			orch := a.orchestrator(kind)
			env := environment.CaptureProcessEnv()
			out := cmd.OutOrStdout()

			if resume {
				result, err := orch.Resume(env)
				if err != nil {
					return err
				}
				fmt.Fprint(out, style.Successf(MsgSwitchResumed, result.To))
				return nil
			}

			if len(args) == 0 {
				return errors.New(errors.ErrInvalidInput, "profile name required")
			}
			result, err := orch.Switch(args[0], env)
			if err != nil {
				return err
			}
			if result.From == "" {
				fmt.Fprint(out, style.Successf(MsgSwitchedFirst, result.To))
			} else {
				fmt.Fprint(out, style.Successf(MsgSwitched, result.From, result.To))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&resume, "resume", false, MsgFlagResume)
	return cmd
}

func newProfileActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <name>",
		Short: MsgActivateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			kind, err := a.shellKind("")
			if err != nil {
				return err
			}
			result, err := a.orchestrator(kind).Activate(args[0], environment.CaptureProcessEnv())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), style.Successf(MsgActivated, result.To))
			return nil
		},
	}
}

func newProfileDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: MsgDeactivateShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			kind, err := a.shellKind("")
			if err != nil {
				return err
			}
			name, err := a.orchestrator(kind).DeactivateCurrent(environment.CaptureProcessEnv())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if name == "" {
				fmt.Fprintln(out, MsgNoActiveProfile)
				return nil
			}
			fmt.Fprint(out, style.Successf(MsgDeactivated, name))
			return nil
		},
	}
}

func newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: MsgListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			profiles := a.state.Profiles()
			if len(profiles) == 0 {
				fmt.Fprintln(out, MsgNoProfiles)
				return nil
			}

			active := a.state.ActiveProfile()
			fmt.Fprintln(out, style.Header("Profiles"))
			for _, p := range profiles {
				line := fmt.Sprintf("%s %s (%d packages)",
					style.ActiveMarker(p.Name == active),
					style.ProfileStyle.Render(p.Name),
					len(p.Packages))
				if p.Environment.Active {
					line += " [env active]"
				}
				if p.Parent != "" {
					line += fmt.Sprintf(" parent: %s", p.Parent)
				}
				fmt.Fprintln(out, style.Indent(line, 1))
			}
			return nil
		},
	}
}

func newProfileCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: MsgCurrentShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			name := a.state.ActiveProfile()
			if name == "" {
				fmt.Fprintln(out, MsgNoActiveProfile)
				return nil
			}
			fmt.Fprintf(out, MsgCurrentFormat, style.ProfileStyle.Render(name))
			return nil
		},
	}
}
