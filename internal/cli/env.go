package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/environment"
	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/style"
)

func newEnvCmd() *cobra.Command {
	envCmd := &cobra.Command{
		Use:     "env",
		Short:   MsgEnvShort,
		GroupID: "core",
	}
	envCmd.AddCommand(newEnvRenderCmd())
	envCmd.AddCommand(newEnvWriteCmd())
	return envCmd
}

// resolveProfile picks the profile a command operates on: the flag
// when given, otherwise the active one.
func (a *app) resolveProfile(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	name := a.state.ActiveProfile()
	if name == "" {
		return "", errors.New(errors.ErrNoActiveProfile,
			"no active profile; pass --profile or switch first")
	}
	return name, nil
}

func newEnvRenderCmd() *cobra.Command {
	var (
		shellFlag   string
		profileFlag string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: MsgEnvRenderShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			kind, err := a.shellKind(shellFlag)
			if err != nil {
				return err
			}
			name, err := a.resolveProfile(profileFlag)
			if err != nil {
				return err
			}
			p, err := a.state.Profile(name)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), environment.Render(&p.Environment, kind))
			return nil
		},
	}
	cmd.Flags().StringVar(&shellFlag, "shell", "", MsgFlagShell)
	cmd.Flags().StringVar(&profileFlag, "profile", "", MsgFlagProfile)
	return cmd
}

func newEnvWriteCmd() *cobra.Command {
	var profileFlag string
	cmd := &cobra.Command{
		Use:   "write",
		Short: MsgEnvWriteShort,
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
			name, err := a.resolveProfile(profileFlag)
			if err != nil {
				return err
			}
			p, err := a.state.Profile(name)
			if err != nil {
				return err
			}

			projector := a.projector(kind)
			path, err := projector.WriteScript(name, &p.Environment)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, style.Successf(MsgEnvWritten, path))

			// The active profile's script is what the shell sources, so
			// keep it in step.
			if name == a.state.ActiveProfile() {
				activePath, err := projector.WriteActiveScript(&p.Environment)
				if err != nil {
					return err
				}
				fmt.Fprint(out, style.Successf(MsgEnvWritten, activePath))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&profileFlag, "profile", "", MsgFlagProfile)
	return cmd
}
