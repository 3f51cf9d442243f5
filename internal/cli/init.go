package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/bootstrap"
	"github.com/azpdev/zshrcman/pkg/style"
)

func newInitCmd() *cobra.Command {
	var (
		remote string
		device string
		branch string
	)

	cmd := &cobra.Command{
		Use:     "init",
		GroupID: "config",
		Short:   MsgInitShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			kind, err := a.shellKind("")
			if err != nil {
				return err
			}
			report, err := a.bootstrap().Init(cmd.Context(), bootstrap.Options{
				RemoteURL: remote,
				Device:    device,
				Branch:    branch,
				Shell:     kind,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Cloned {
				fmt.Fprint(out, style.Infof("Cloned %s", remote))
			}
			if len(report.SeededGroups) > 0 {
				fmt.Fprint(out, style.Infof("Seeded groups: %s",
					strings.Join(report.SeededGroups, ", ")))
			}
			if len(report.SeededAliasGroups) > 0 {
				fmt.Fprint(out, style.Infof("Seeded alias groups: %s",
					strings.Join(report.SeededAliasGroups, ", ")))
			}
			if report.Pushed {
				fmt.Fprint(out, style.Infof(MsgSyncPushed))
			}
			fmt.Fprint(out, style.Successf(MsgInitDone, report.Device, report.Branch))
			fmt.Fprintln(out, style.Indent(style.KeyValue("Data dir", report.DataDir), 1))
			return nil
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", MsgFlagRemote)
	cmd.Flags().StringVar(&device, "device", "", MsgFlagInitDev)
	cmd.Flags().StringVar(&branch, "branch", "", MsgFlagBranch)
	return cmd
}
