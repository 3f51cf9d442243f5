// Package installer shells out to package managers on behalf of group
// installation. Each supported manager implements the Installer
// interface; the Registry resolves a group's installer type string to
// the right implementation. Groups whose payload is configuration
// rather than packages (aliases, ssh keys, rc scripts) resolve to a
// no-op installer so they flow through the same dispatch.
package installer

import (
	"context"

	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/types"
	"github.com/rs/zerolog"
)

// Installer types recognized by the registry. Group files name these in
// their installer_type field; groups named after a manager may omit the
// field and rely on InferType.
const (
	TypeBrew    = "brew"
	TypeNpm     = "npm"
	TypePnpm    = "pnpm"
	TypeAliases = "aliases"
	TypeSsh     = "ssh"
	TypeZshrc   = "zshrc"
	TypeCustom  = "custom"
)

// Installer installs and uninstalls packages through an external
// package manager.
type Installer interface {
	// Install installs the given packages. An empty slice is a no-op.
	Install(ctx context.Context, packages []string, scope types.InstallScope) error

	// Uninstall removes the given packages. An empty slice is a no-op.
	Uninstall(ctx context.Context, packages []string) error

	// Name returns the installer type this implementation serves.
	Name() string
}

// Registry resolves installer type strings to implementations. All
// resolved installers share one runner, so tests swap a single fake.
type Registry struct {
	run    RunFunc
	logger zerolog.Logger
}

// NewRegistry creates a registry backed by the given runner. A nil
// runner means commands execute for real through os/exec.
func NewRegistry(run RunFunc) *Registry {
	if run == nil {
		run = ExecRunner
	}
	return &Registry{
		run:    run,
		logger: logging.GetLogger("installer"),
	}
}

// For resolves an installer type string. Config-payload types and
// unknown types resolve to the no-op installer rather than an error so
// a mixed set of groups can be dispatched uniformly.
func (r *Registry) For(installerType string) Installer {
	switch installerType {
	case TypeBrew:
		return newExecInstaller(TypeBrew, "brew",
			[]string{"install"}, []string{"uninstall"}, r.run)
	case TypeNpm:
		return newExecInstaller(TypeNpm, "npm",
			[]string{"install", "-g"}, []string{"uninstall", "-g"}, r.run)
	case TypePnpm:
		return newExecInstaller(TypePnpm, "pnpm",
			[]string{"add", "-g"}, []string{"remove", "-g"}, r.run)
	default:
		r.logger.Debug().
			Str("installerType", installerType).
			Msg("No package manager for installer type, using no-op")
		return Noop{kind: installerType}
	}
}

// InferType maps a group name to an installer type, for group files
// that omit the installer_type field. Groups named after their package
// manager get that manager; the well-known config groups keep their
// own type; everything else is custom.
func InferType(groupName string) string {
	switch groupName {
	case TypeBrew, TypeNpm, TypePnpm, TypeAliases, TypeSsh, TypeZshrc:
		return groupName
	default:
		return TypeCustom
	}
}
