package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/style"
	"github.com/azpdev/zshrcman/pkg/types"
)

func newInstallCmd() *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:     "install <package>...",
		Short:   MsgInstallShort,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			parsed, err := types.ParseInstallScope(scope)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, pkg := range args {
				outcome, err := a.state.SmartInstall(pkg, parsed)
				if err != nil {
					return err
				}
				switch {
				case outcome.NewInstall:
					fmt.Fprint(out, style.Successf(MsgInstallRecorded, outcome.Package, outcome.Profile))
				case outcome.Activated:
					fmt.Fprint(out, style.Successf(MsgInstallActivated, outcome.Package, outcome.Profile))
				default:
					fmt.Fprint(out, style.Infof(MsgInstallNoChange, outcome.Package, outcome.Profile))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", string(types.ScopeProfile), MsgFlagScope)
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var strategy string
	cmd := &cobra.Command{
		Use:     "remove <package>...",
		Short:   MsgRemoveShort,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			parsed, err := types.ParseRemovalStrategy(strategy)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, pkg := range args {
				res, err := a.state.HandleRemoval(pkg, parsed)
				if err != nil {
					return err
				}
				switch res.Action {
				case state.ActionUninstalled:
					fmt.Fprint(out, style.Successf(MsgRemoveUninstalled, res.Package))
				case state.ActionDeactivated:
					fmt.Fprint(out, style.Successf(MsgRemoveDeactivated,
						res.Package, res.RemainingRefs, strings.Join(res.InUseBy, ", ")))
				case state.ActionMarkedUnused:
					fmt.Fprint(out, style.Successf(MsgRemoveMarked, res.Package))
				case state.ActionNone:
					fmt.Fprint(out, style.Warningf(MsgRemoveNone, res.Package))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", string(types.StrategySmart), MsgFlagStrategy)
	return cmd
}

func newPackagesCmd() *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:     "packages",
		Short:   MsgPackagesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if profile != "" {
				p, err := a.state.Profile(profile)
				if err != nil {
					return err
				}
				if len(p.Packages) == 0 {
					fmt.Fprintln(out, MsgNoPackages)
					return nil
				}
				fmt.Fprintln(out, style.Header(fmt.Sprintf("Packages for '%s'", p.Name)))
				for _, pkg := range p.Packages {
					fmt.Fprintln(out, style.Indent(style.PackageStyle.Render(pkg), 1))
				}
				return nil
			}

			names := a.state.PackageNames()
			if len(names) == 0 {
				fmt.Fprintln(out, MsgNoPackages)
				return nil
			}
			fmt.Fprintln(out, style.Header("Packages"))
			for _, name := range names {
				record, err := a.state.Record(name)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("%s (%s, used by %d)",
					style.PackageStyle.Render(name), record.Scope, record.UsageCount())
				fmt.Fprintln(out, style.Indent(line, 1))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", MsgFlagProfile)
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "info <package>",
		Short:   MsgInfoShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			record, err := a.state.Record(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, style.Header(args[0]))
			kv := func(key, value string) {
				fmt.Fprintln(out, style.Indent(style.KeyValue(key, value), 1))
			}
			kv("Scope", string(record.Scope))
			kv("Source", string(record.Source))
			kv("Installer", record.Installer)
			if record.Version != "" {
				kv("Version", record.Version)
			}
			if record.Location != "" {
				kv("Location", record.Location)
			}
			kv("Installed", record.InstalledAt.Format(time.RFC3339))
			if len(record.ActiveFor) == 0 {
				kv("Active for", "(none)")
			} else {
				kv("Active for", strings.Join(record.ActiveFor, ", "))
			}
			return nil
		},
	}
}
