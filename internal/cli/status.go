package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/style"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "misc",
		Short:   MsgStatusShort,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			o := a.statusCollector().Collect()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, style.Header("Status"))
			kv := func(key, value string) {
				fmt.Fprintln(out, style.Indent(style.KeyValue(key, value), 1))
			}

			active := o.ActiveProfile
			if active == "" {
				active = "(none)"
			}
			kv("Profile", active)
			kv("Packages", strconv.Itoa(o.PackageCount))
			kv("Groups", joinOrNone(o.EnabledGroups))
			kv("Aliases", joinOrNone(o.ActiveAliasGroups))
			if o.Repository.URL != "" {
				kv("Repository", o.Repository.URL)
			}
			if o.Device.Name != "" {
				kv("Device", fmt.Sprintf("%s (%s)", o.Device.Name, o.Device.Branch))
			}
			if o.LastSync != nil {
				kv("Last sync", o.LastSync.Format(time.RFC3339))
			}
			if o.PendingTransition != "" {
				kv("Pending", fmt.Sprintf("switch to '%s' (run 'zshrcman profile switch --resume')",
					o.PendingTransition))
			}

			if len(o.Profiles) > 0 {
				fmt.Fprintln(out, style.Header("Profiles"))
				for _, p := range o.Profiles {
					line := fmt.Sprintf("%s %s (%d packages)",
						style.ActiveMarker(p.Active),
						style.ProfileStyle.Render(p.Name),
						p.Packages)
					if p.EnvActive {
						line += " [env active]"
					}
					fmt.Fprintln(out, style.Indent(line, 1))
				}
			}

			fmt.Fprintln(out, style.Header("Checks"))
			for _, c := range o.Checks {
				line := fmt.Sprintf("%s %s: %s",
					style.CheckIndicator(string(c.State)), c.Name, c.Message)
				fmt.Fprintln(out, style.Indent(line, 1))
			}
			return nil
		},
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
