package installer

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/types"
	"github.com/rs/zerolog"
)

// CommandResult captures the output of a finished command.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunFunc executes a command and captures its output. A non-nil error
// means the command could not be started or was interrupted; a command
// that ran but exited non-zero is reported through ExitCode with a nil
// error.
type RunFunc func(ctx context.Context, name string, args ...string) (CommandResult, error)

// ExecRunner runs commands through os/exec with captured output.
func ExecRunner(ctx context.Context, name string, args ...string) (CommandResult, error) {
	logging.LogCommand(name, args)
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// execInstaller drives one external package manager. The install and
// uninstall verbs differ per manager; everything else is shared.
type execInstaller struct {
	kind          string
	binary        string
	installArgs   []string
	uninstallArgs []string
	run           RunFunc
	logger        zerolog.Logger
}

func newExecInstaller(kind, binary string, installArgs, uninstallArgs []string, run RunFunc) *execInstaller {
	return &execInstaller{
		kind:          kind,
		binary:        binary,
		installArgs:   installArgs,
		uninstallArgs: uninstallArgs,
		run:           run,
		logger:        logging.GetLogger("installer." + kind),
	}
}

func (i *execInstaller) Name() string {
	return i.kind
}

func (i *execInstaller) Install(ctx context.Context, packages []string, scope types.InstallScope) error {
	if len(packages) == 0 {
		return nil
	}

	i.logger.Info().
		Strs("packages", packages).
		Str("scope", string(scope)).
		Msg("Installing packages")

	result, err := i.invoke(ctx, i.installArgs, packages)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return i.exitError(i.installArgs, result)
	}

	i.logger.Info().
		Int("count", len(packages)).
		Msg("Packages installed")
	return nil
}

// Uninstall tolerates a non-zero exit so removing packages that were
// never installed does not abort a group uninstall. Spawn failures
// still error.
func (i *execInstaller) Uninstall(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}

	i.logger.Info().
		Strs("packages", packages).
		Msg("Uninstalling packages")

	result, err := i.invoke(ctx, i.uninstallArgs, packages)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		i.logger.Warn().
			Int("exitCode", result.ExitCode).
			Str("stderr", strings.TrimSpace(result.Stderr)).
			Msg("Uninstall command exited non-zero, continuing")
	}
	return nil
}

func (i *execInstaller) invoke(ctx context.Context, verb []string, packages []string) (CommandResult, error) {
	args := make([]string, 0, len(verb)+len(packages))
	args = append(args, verb...)
	args = append(args, packages...)

	result, err := i.run(ctx, i.binary, args...)
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrInstallerFailed,
			"failed to run %s", i.commandLine(verb)).
			WithDetail("command", i.commandLine(verb))
	}
	return result, nil
}

func (i *execInstaller) exitError(verb []string, result CommandResult) error {
	i.logger.Error().
		Int("exitCode", result.ExitCode).
		Str("stderr", strings.TrimSpace(result.Stderr)).
		Msg("Install command failed")

	return errors.Newf(errors.ErrInstallerFailed,
		"%s exited with status %d", i.commandLine(verb), result.ExitCode).
		WithDetail("command", i.commandLine(verb)).
		WithDetail("stderr", strings.TrimSpace(result.Stderr))
}

func (i *execInstaller) commandLine(verb []string) string {
	return i.binary + " " + strings.Join(verb, " ")
}
