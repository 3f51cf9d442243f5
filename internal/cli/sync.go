package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/style"
)

func newSyncCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "config",
		Short:   MsgSyncShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			report, err := a.gitsync().Sync(cmd.Context(), message)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Committed {
				fmt.Fprint(out, style.Infof(MsgSyncCommitted))
			}
			if report.Pushed {
				fmt.Fprint(out, style.Infof(MsgSyncPushed))
			}
			fmt.Fprint(out, style.Successf(MsgSyncDone, report.Branch))
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", MsgFlagMessage)
	return cmd
}
