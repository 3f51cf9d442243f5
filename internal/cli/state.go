package cli

import (
	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/state"
)

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "state",
		GroupID: "config",
		Short:   MsgStateShort,
	}

	cmd.AddCommand(newStateExportCmd())
	return cmd
}

func newStateExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: MsgExportShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			data, err := a.state.Export(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", state.FormatTOML, MsgFlagFormat)
	return cmd
}
