// Package gitsync keeps the dotfiles repository in sync with its git
// remote by shelling out to the git binary. The repository lives at
// <data>/dotfiles; each device commits to its own branch
// (conventionally device/<name>) and pulls fast-forward when it can.
package gitsync

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/types"
)

// Result captures one git invocation's output
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunFunc executes git with the given arguments in a working directory
// and captures its output. A non-nil error means git could not be run
// at all; a non-zero exit comes back through ExitCode with a nil
// error. An empty dir runs in the process working directory.
type RunFunc func(ctx context.Context, dir string, args ...string) (Result, error)

// ExecGit runs git through os/exec with captured output
func ExecGit(ctx context.Context, dir string, args ...string) (Result, error) {
	logging.LogCommand("git", args)
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
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

// Report says what one Sync run did
type Report struct {
	// Initialized is true when a fresh repository was created locally
	// because no remote is configured
	Initialized bool

	// Cloned is true when the repository was cloned from the remote
	Cloned bool

	// Committed is true when local changes were committed
	Committed bool

	// Pulled is true when a pull brought the branch up to date
	Pulled bool

	// Pushed is true when the branch was pushed
	Pushed bool

	// Branch is the branch the sync worked on
	Branch string
}

// Manager syncs the dotfiles repository
type Manager struct {
	state  *state.Manager
	fs     types.FS
	paths  paths.Paths
	run    RunFunc
	logger zerolog.Logger
}

// NewManager creates a sync manager. A nil runner means git runs for
// real.
func NewManager(st *state.Manager, fs types.FS, p paths.Paths, run RunFunc) *Manager {
	if run == nil {
		run = ExecGit
	}
	return &Manager{
		state:  st,
		fs:     fs,
		paths:  p,
		run:    run,
		logger: logging.GetLogger("gitsync"),
	}
}

// Sync brings the dotfiles repository up to date: clone (or init, when
// no remote is configured) on first run; afterwards commit local
// changes, pull fast-forward when possible, and push the device
// branch. An empty message means the standard device message. The
// snapshot's last-sync time is recorded on success.
func (m *Manager) Sync(ctx context.Context, message string) (*Report, error) {
	report := &Report{Branch: m.branch()}

	if err := m.ensureRepository(ctx, report); err != nil {
		return report, err
	}

	if err := m.commitIfDirty(ctx, report, message); err != nil {
		return report, err
	}

	if err := m.checkoutBranch(ctx, report.Branch); err != nil {
		return report, err
	}

	if m.state.Snapshot().Repository.URL != "" {
		pulled, err := m.pull(ctx, report.Branch)
		if err != nil {
			return report, err
		}
		report.Pulled = pulled

		if _, err := m.git(ctx, m.repoDir(), "push", "-u", "origin", report.Branch); err != nil {
			return report, err
		}
		report.Pushed = true
	}

	if err := m.state.SetLastSync(time.Now().UTC()); err != nil {
		return report, err
	}

	m.logger.Info().
		Str("branch", report.Branch).
		Bool("cloned", report.Cloned).
		Bool("committed", report.Committed).
		Bool("pushed", report.Pushed).
		Msg("Dotfiles synced")
	return report, nil
}

// Prepare makes the repository usable without syncing: clone or init
// on first run, then check out the sync branch. Bootstrap calls this
// before seeding files so they land in the working tree that the
// first real Sync will commit.
func (m *Manager) Prepare(ctx context.Context) (*Report, error) {
	report := &Report{Branch: m.branch()}

	if err := m.ensureRepository(ctx, report); err != nil {
		return report, err
	}
	if err := m.checkoutBranch(ctx, report.Branch); err != nil {
		return report, err
	}
	return report, nil
}

// branch returns the branch this device syncs on: its device branch
// when configured, the main branch otherwise
func (m *Manager) branch() string {
	snap := m.state.Snapshot()
	if snap.Device.Branch != "" {
		return snap.Device.Branch
	}
	return snap.Repository.MainBranch
}

func (m *Manager) repoDir() string {
	return m.paths.DotfilesDir()
}

// ensureRepository makes sure a git repository exists at the dotfiles
// path, cloning from the remote when one is configured
func (m *Manager) ensureRepository(ctx context.Context, report *Report) error {
	repo := m.repoDir()
	if _, err := m.fs.Stat(filepath.Join(repo, ".git")); err == nil {
		return nil
	}

	url := m.state.Snapshot().Repository.URL
	if url == "" {
		if err := m.fs.MkdirAll(repo, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate,
				"failed to create dotfiles directory %s", repo)
		}
		if _, err := m.git(ctx, repo, "init", "-b", m.state.Snapshot().Repository.MainBranch); err != nil {
			return err
		}
		report.Initialized = true
		m.logger.Info().Str("path", repo).Msg("Initialized empty dotfiles repository")
		return nil
	}

	if err := m.fs.MkdirAll(filepath.Dir(repo), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create data directory %s", filepath.Dir(repo))
	}
	if _, err := m.git(ctx, "", "clone", url, repo); err != nil {
		return err
	}
	report.Cloned = true
	m.logger.Info().Str("url", url).Str("path", repo).Msg("Cloned dotfiles repository")
	return nil
}

// commitIfDirty commits all local changes, using the standard sync
// message when none is given. A clean tree is a no-op.
func (m *Manager) commitIfDirty(ctx context.Context, report *Report, message string) error {
	status, err := m.git(ctx, m.repoDir(), "status", "--porcelain")
	if err != nil {
		return err
	}
	if status == "" {
		return nil
	}

	if message == "" {
		message = m.commitMessage()
	}
	if _, err := m.git(ctx, m.repoDir(), "add", "-A"); err != nil {
		return err
	}
	if _, err := m.git(ctx, m.repoDir(), "commit", "-m", message); err != nil {
		return err
	}
	report.Committed = true
	return nil
}

func (m *Manager) commitMessage() string {
	device := m.state.Snapshot().Device.Name
	if device == "" {
		return "Sync dotfiles"
	}
	return "Sync dotfiles from device '" + device + "'"
}

// checkoutBranch switches to the branch, creating it when git cannot
// resolve one. A plain checkout also picks up a matching
// remote-tracking branch after a fresh clone.
func (m *Manager) checkoutBranch(ctx context.Context, branch string) error {
	if _, err := m.git(ctx, m.repoDir(), "checkout", branch); err == nil {
		return nil
	}
	_, err := m.git(ctx, m.repoDir(), "checkout", "-b", branch)
	return err
}

// pull fast-forwards from origin, falling back to a merge pull when
// the histories diverged. A branch the remote does not know yet is
// fine; the following push creates it.
func (m *Manager) pull(ctx context.Context, branch string) (bool, error) {
	_, err := m.git(ctx, m.repoDir(), "pull", "--ff-only", "origin", branch)
	if err == nil {
		return true, nil
	}
	if isMissingRemoteRef(err) {
		return false, nil
	}

	_, err = m.git(ctx, m.repoDir(), "pull", "--no-rebase", "origin", branch)
	if err == nil {
		return true, nil
	}
	if isMissingRemoteRef(err) {
		return false, nil
	}
	return false, err
}

// git runs one git command, mapping a non-zero exit to a GitCommand
// error carrying the command line and stderr
func (m *Manager) git(ctx context.Context, dir string, args ...string) (string, error) {
	command := "git " + strings.Join(args, " ")

	result, err := m.run(ctx, dir, args...)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrGitCommand,
			"failed to run %s", command).
			WithDetail("command", command)
	}
	if result.ExitCode != 0 {
		m.logger.Debug().
			Str("command", command).
			Int("exitCode", result.ExitCode).
			Str("stderr", strings.TrimSpace(result.Stderr)).
			Msg("Git command failed")
		return "", errors.Newf(errors.ErrGitCommand,
			"%s exited with status %d", command, result.ExitCode).
			WithDetail("command", command).
			WithDetail("stderr", strings.TrimSpace(result.Stderr))
	}

	return strings.TrimSpace(result.Stdout), nil
}

func isMissingRemoteRef(err error) bool {
	details := errors.GetErrorDetails(err)
	if details == nil {
		return false
	}
	stderr, _ := details["stderr"].(string)
	return strings.Contains(stderr, "couldn't find remote ref")
}
