package cli

import (
	"github.com/azpdev/zshrcman/pkg/aliases"
	"github.com/azpdev/zshrcman/pkg/bootstrap"
	"github.com/azpdev/zshrcman/pkg/config"
	"github.com/azpdev/zshrcman/pkg/environment"
	"github.com/azpdev/zshrcman/pkg/filesystem"
	"github.com/azpdev/zshrcman/pkg/gitsync"
	"github.com/azpdev/zshrcman/pkg/groups"
	"github.com/azpdev/zshrcman/pkg/installer"
	"github.com/azpdev/zshrcman/pkg/linker"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/shell"
	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/status"
	"github.com/azpdev/zshrcman/pkg/transition"
	"github.com/azpdev/zshrcman/pkg/types"
)

// app bundles everything a command invocation needs. Construction is
// two-phase: settings load from the default config location first,
// because they may redirect the data and config directories the rest
// of the wiring depends on.
type app struct {
	settings *config.Settings
	paths    paths.Paths
	fs       types.FS
	state    *state.Manager
}

func newApp() (*app, error) {
	base, err := paths.New("", "")
	if err != nil {
		return nil, err
	}
	settings, err := config.LoadSettings(base.SettingsPath())
	if err != nil {
		return nil, err
	}

	p := base
	if settings.DataDir != "" || settings.ConfigDir != "" {
		p, err = paths.New(settings.DataDir, settings.ConfigDir)
		if err != nil {
			return nil, err
		}
	}

	fs := filesystem.NewOS()
	st, err := state.NewManager(config.NewStore(fs, p.SnapshotPath()))
	if err != nil {
		return nil, err
	}

	return &app{settings: settings, paths: p, fs: fs, state: st}, nil
}

// shellKind resolves the target shell: explicit flag, then the shell
// setting, then detection from the environment.
func (a *app) shellKind(override string) (types.ShellKind, error) {
	if override != "" {
		return types.ParseShellKind(override)
	}
	if a.settings.Shell != "" {
		return types.ParseShellKind(a.settings.Shell)
	}
	return types.DetectShell(), nil
}

func (a *app) projector(kind types.ShellKind) *environment.Projector {
	return environment.NewProjector(kind, a.fs, a.paths)
}

func (a *app) orchestrator(kind types.ShellKind) *transition.Orchestrator {
	return transition.NewOrchestrator(
		a.state,
		a.projector(kind),
		linker.New(a.fs, a.paths),
		shell.NewConfigMarker(a.fs),
		a.fs,
		a.paths,
	)
}

func (a *app) groups() *groups.Manager {
	return groups.NewManager(a.state, installer.NewRegistry(installer.ExecRunner), a.fs, a.paths)
}

func (a *app) aliases() *aliases.Manager {
	return aliases.NewManager(a.state, a.fs, a.paths)
}

func (a *app) gitsync() *gitsync.Manager {
	return gitsync.NewManager(a.state, a.fs, a.paths, gitsync.ExecGit)
}

func (a *app) bootstrap() *bootstrap.Manager {
	return bootstrap.NewManager(a.state, a.fs, a.paths, a.gitsync(), a.aliases())
}

func (a *app) statusCollector() *status.Collector {
	return status.NewCollector(a.state, a.fs, a.paths)
}
