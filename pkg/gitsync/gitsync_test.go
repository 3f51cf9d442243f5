package gitsync

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/testutil"
)

type gitCall struct {
	dir  string
	args []string
}

// fakeGit replays scripted results, matched first on the full argument
// line and then on the subcommand. Unmatched calls succeed with empty
// output.
type fakeGit struct {
	calls   []gitCall
	results map[string]Result
	errs    map[string]error
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		results: map[string]Result{},
		errs:    map[string]error{},
	}
}

func (f *fakeGit) run(ctx context.Context, dir string, args ...string) (Result, error) {
	f.calls = append(f.calls, gitCall{dir: dir, args: args})

	line := strings.Join(args, " ")
	if err, ok := f.errs[line]; ok {
		return Result{}, err
	}
	if r, ok := f.results[line]; ok {
		return r, nil
	}
	if r, ok := f.results[args[0]]; ok {
		return r, nil
	}
	return Result{}, nil
}

func (f *fakeGit) lines() []string {
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = strings.Join(c.args, " ")
	}
	return lines
}

type fixture struct {
	env     *testutil.TestEnvironment
	state   *state.Manager
	git     *fakeGit
	manager *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)

	st, err := state.NewManager(env.Store)
	require.NoError(t, err)

	git := newFakeGit()
	return &fixture{
		env:     env,
		state:   st,
		git:     git,
		manager: NewManager(st, env.FS, env.Paths, git.run),
	}
}

func (f *fixture) seedRepo(t *testing.T) {
	t.Helper()
	require.NoError(t, f.env.FS.MkdirAll(filepath.Join(f.env.Paths.DotfilesDir(), ".git"), 0755))
}

func TestSyncFirstRun(t *testing.T) {
	ctx := context.Background()

	t.Run("clones when a remote is configured", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.state.SetRepository("git@github.com:azp/dotfiles.git", ""))
		require.NoError(t, f.state.SetDevice("mbp", ""))

		report, err := f.manager.Sync(ctx, "")
		require.NoError(t, err)

		assert.True(t, report.Cloned)
		assert.False(t, report.Initialized)
		assert.Equal(t, "device/mbp", report.Branch)
		assert.True(t, report.Pushed)

		repo := f.env.Paths.DotfilesDir()
		assert.Equal(t, []string{
			"clone git@github.com:azp/dotfiles.git " + repo,
			"status --porcelain",
			"checkout device/mbp",
			"pull --ff-only origin device/mbp",
			"push -u origin device/mbp",
		}, f.git.lines())
		assert.Empty(t, f.git.calls[0].dir, "clone runs outside the repo")
		assert.Equal(t, repo, f.git.calls[1].dir)

		assert.NotNil(t, f.state.Snapshot().Sync.LastSync)
	})

	t.Run("initializes without a remote", func(t *testing.T) {
		f := newFixture(t)

		report, err := f.manager.Sync(ctx, "")
		require.NoError(t, err)

		assert.True(t, report.Initialized)
		assert.Equal(t, "main", report.Branch)
		assert.False(t, report.Pushed)

		assert.Equal(t, []string{
			"init -b main",
			"status --porcelain",
			"checkout main",
		}, f.git.lines())
		assert.NotNil(t, f.state.Snapshot().Sync.LastSync)
	})
}

func TestPrepare(t *testing.T) {
	ctx := context.Background()

	t.Run("clones and checks out without syncing", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.state.SetRepository("git@github.com:azp/dotfiles.git", ""))
		require.NoError(t, f.state.SetDevice("mbp", ""))

		report, err := f.manager.Prepare(ctx)
		require.NoError(t, err)

		assert.True(t, report.Cloned)
		assert.False(t, report.Pushed)
		assert.Equal(t, []string{
			"clone git@github.com:azp/dotfiles.git " + f.env.Paths.DotfilesDir(),
			"checkout device/mbp",
		}, f.git.lines())
		assert.Nil(t, f.state.Snapshot().Sync.LastSync)
	})

	t.Run("existing repository only checks out", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)

		report, err := f.manager.Prepare(ctx)
		require.NoError(t, err)

		assert.False(t, report.Cloned)
		assert.False(t, report.Initialized)
		assert.Equal(t, []string{"checkout main"}, f.git.lines())
	})
}

func TestSyncExistingRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("commits dirty tree with the standard message", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)
		require.NoError(t, f.state.SetRepository("git@github.com:azp/dotfiles.git", ""))
		require.NoError(t, f.state.SetDevice("mbp", ""))
		f.git.results["status --porcelain"] = Result{Stdout: " M groups/brew.toml\n"}

		report, err := f.manager.Sync(ctx, "")
		require.NoError(t, err)

		assert.False(t, report.Cloned)
		assert.True(t, report.Committed)
		assert.True(t, report.Pushed)

		assert.Equal(t, []string{
			"status --porcelain",
			"add -A",
			"commit -m Sync dotfiles from device 'mbp'",
			"checkout device/mbp",
			"pull --ff-only origin device/mbp",
			"push -u origin device/mbp",
		}, f.git.lines())
	})

	t.Run("custom message overrides the standard one", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)
		require.NoError(t, f.state.SetDevice("mbp", ""))
		f.git.results["status --porcelain"] = Result{Stdout: "?? aliases/git.toml\n"}

		report, err := f.manager.Sync(ctx, "add git aliases")
		require.NoError(t, err)
		assert.True(t, report.Committed)
		assert.Contains(t, f.git.lines(), "commit -m add git aliases")
	})

	t.Run("clean tree skips the commit", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)
		require.NoError(t, f.state.SetRepository("git@github.com:azp/dotfiles.git", ""))

		report, err := f.manager.Sync(ctx, "")
		require.NoError(t, err)
		assert.False(t, report.Committed)
		assert.NotContains(t, f.git.lines(), "add -A")
	})

	t.Run("device branch created when checkout fails", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)
		require.NoError(t, f.state.SetDevice("mbp", ""))
		f.git.results["checkout device/mbp"] = Result{
			ExitCode: 1,
			Stderr:   "error: pathspec 'device/mbp' did not match any file(s)\n",
		}

		_, err := f.manager.Sync(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, f.git.lines(), "checkout -b device/mbp")
	})
}

func TestPull(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to a merge pull when not fast-forward", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)
		require.NoError(t, f.state.SetRepository("git@github.com:azp/dotfiles.git", ""))
		require.NoError(t, f.state.SetDevice("mbp", ""))
		f.git.results["pull --ff-only origin device/mbp"] = Result{
			ExitCode: 128,
			Stderr:   "fatal: Not possible to fast-forward, aborting.\n",
		}

		report, err := f.manager.Sync(ctx, "")
		require.NoError(t, err)
		assert.True(t, report.Pulled)
		assert.Contains(t, f.git.lines(), "pull --no-rebase origin device/mbp")
	})

	t.Run("unknown remote ref is tolerated", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)
		require.NoError(t, f.state.SetRepository("git@github.com:azp/dotfiles.git", ""))
		require.NoError(t, f.state.SetDevice("mbp", ""))
		f.git.results["pull --ff-only origin device/mbp"] = Result{
			ExitCode: 1,
			Stderr:   "fatal: couldn't find remote ref device/mbp\n",
		}

		report, err := f.manager.Sync(ctx, "")
		require.NoError(t, err)
		assert.False(t, report.Pulled)
		assert.True(t, report.Pushed, "push still creates the branch upstream")

		pulls := 0
		for _, line := range f.git.lines() {
			if strings.HasPrefix(line, "pull") {
				pulls++
			}
		}
		assert.Equal(t, 1, pulls, "no merge fallback for a missing ref")
	})

	t.Run("merge pull failure surfaces", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)
		require.NoError(t, f.state.SetRepository("git@github.com:azp/dotfiles.git", ""))
		f.git.results["pull --ff-only origin main"] = Result{ExitCode: 128, Stderr: "fatal: Not possible to fast-forward\n"}
		f.git.results["pull --no-rebase origin main"] = Result{ExitCode: 1, Stderr: "CONFLICT (content): merge conflict\n"}

		_, err := f.manager.Sync(ctx, "")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrGitCommand))

		details := errors.GetErrorDetails(err)
		require.NotNil(t, details)
		assert.Equal(t, "git pull --no-rebase origin main", details["command"])
		assert.Contains(t, details["stderr"], "CONFLICT")
	})
}

func TestSyncFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("push failure carries command and stderr", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)
		require.NoError(t, f.state.SetRepository("git@github.com:azp/dotfiles.git", ""))
		f.git.results["push -u origin main"] = Result{
			ExitCode: 1,
			Stderr:   "! [rejected] main -> main (fetch first)\n",
		}

		_, err := f.manager.Sync(ctx, "")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrGitCommand))

		details := errors.GetErrorDetails(err)
		require.NotNil(t, details)
		assert.Equal(t, "git push -u origin main", details["command"])
		assert.Contains(t, details["stderr"], "rejected")

		assert.Nil(t, f.state.Snapshot().Sync.LastSync, "failed sync must not record a time")
	})

	t.Run("git binary missing wraps as git command failure", func(t *testing.T) {
		f := newFixture(t)
		f.seedRepo(t)
		spawnErr := stderrors.New("exec: \"git\": executable file not found in $PATH")
		f.git.errs["status --porcelain"] = spawnErr

		_, err := f.manager.Sync(ctx, "")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrGitCommand))
		assert.ErrorIs(t, err, spawnErr)
	})
}
