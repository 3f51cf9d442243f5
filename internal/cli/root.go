// Package cli builds the zshrcman command tree. Every command
// constructs its managers through the shared app container and returns
// coded errors; the binary's main maps those to exit codes.
package cli

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/azpdev/zshrcman/internal/version"
	"github.com/azpdev/zshrcman/pkg/cobrax/topics"
	"github.com/azpdev/zshrcman/pkg/config"
	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/style"
)

//go:embed docs
var docsFS embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity int
		colorMode string
	)

	rootCmd := &cobra.Command{
		Use:     "zshrcman",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			settings := loadSettingsOrDefault()
			if verbosity == 0 {
				verbosity = settings.Verbosity
			}
			logging.Setup(verbosity)

			mode := colorMode
			if !cmd.Root().PersistentFlags().Changed("color") {
				mode = settings.Color
			}
			style.Configure(mode)

			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", MsgFlagColor)

	// Disable the automatic help command; the topics system installs
	// its own below.
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "PROFILES & PACKAGES:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "config",
		Title: "CONFIGURATION & SYNC:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newPackagesCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newEnvCmd())
	rootCmd.AddCommand(newGroupCmd())
	rootCmd.AddCommand(newDeviceCmd())
	rootCmd.AddCommand(newAliasCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newStateCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if docs, err := fs.Sub(docsFS, "docs"); err == nil {
		_ = topics.Install(rootCmd, docs, topics.Options{
			Renderer: topics.NewGlamourRenderer(),
		})
	}

	return rootCmd
}

// loadSettingsOrDefault backs the pre-run hooks, which cannot fail:
// commands that need settings load them again through newApp and
// surface errors there.
func loadSettingsOrDefault() config.Settings {
	p, err := paths.New("", "")
	if err != nil {
		return config.DefaultSettings()
	}
	s, err := config.LoadSettings(p.SettingsPath())
	if err != nil {
		return config.DefaultSettings()
	}
	return *s
}

// ExitCode maps an error to the process exit code. Input mistakes,
// missing names, configuration problems, persistence failures and
// external tool failures each get a distinct code so scripts can
// branch on them.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch errors.GetErrorCode(err) {
	case errors.ErrInvalidInput, errors.ErrInvalidOperation,
		errors.ErrAlreadyExists, errors.ErrProfileActive, errors.ErrUnsupportedShell:
		return 2
	case errors.ErrNotFound, errors.ErrProfileNotFound,
		errors.ErrPackageNotFound, errors.ErrNoActiveProfile:
		return 3
	case errors.ErrConfigLoad, errors.ErrConfigParse, errors.ErrConfigValid:
		return 4
	case errors.ErrPersistence, errors.ErrIOFailure, errors.ErrFileAccess,
		errors.ErrFileWrite, errors.ErrSymlinkCreate, errors.ErrDirCreate:
		return 5
	case errors.ErrInstallerFailed:
		return 6
	case errors.ErrGitCommand:
		return 7
	default:
		return 1
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "zshrcman version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			helpCmd, _, err := cmd.Root().Find([]string{"help"})
			if err != nil {
				return errors.New(errors.ErrInternal, "help command not found")
			}
			if helpCmd.Run == nil {
				return errors.New(errors.ErrInternal, "help command not found")
			}
			helpCmd.SetOut(cmd.OutOrStdout())
			helpCmd.Run(helpCmd, []string{"topics"})
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     MsgCompletionShort,
		GroupID:   "misc",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
