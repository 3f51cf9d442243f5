package environment

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/types"
)

// Projector converts an environment state into concrete effects: a
// PATH/variable delta on a ProcessEnv, and script files plus an rc
// source line for future shell sessions.
type Projector struct {
	shell  types.ShellKind
	fs     types.FS
	paths  paths.Paths
	logger zerolog.Logger
}

// NewProjector builds a projector for one shell family
func NewProjector(shell types.ShellKind, fs types.FS, p paths.Paths) *Projector {
	return &Projector{
		shell:  shell,
		fs:     fs,
		paths:  p,
		logger: logging.GetLogger("environment"),
	}
}

// Shell returns the shell family the projector renders for
func (p *Projector) Shell() types.ShellKind {
	return p.shell
}

// Apply projects the state onto the delta: expanded prepend paths go
// in front of PATH in listed order, appends after, each inserted only
// when not already a PATH component; variables are set last. Inactive
// states are a no-op.
func (p *Projector) Apply(state *types.EnvironmentState, env *ProcessEnv) error {
	if state == nil || !state.Active {
		return nil
	}

	existing := env.PathComponents()

	var front []string
	for _, raw := range state.PrependPaths {
		expanded, err := p.expandPath(raw, env)
		if err != nil {
			return err
		}
		if !containsComponent(existing, expanded) && !containsComponent(front, expanded) {
			front = append(front, expanded)
		}
	}

	var back []string
	for _, raw := range state.AppendPaths {
		expanded, err := p.expandPath(raw, env)
		if err != nil {
			return err
		}
		if !containsComponent(existing, expanded) &&
			!containsComponent(front, expanded) &&
			!containsComponent(back, expanded) {
			back = append(back, expanded)
		}
	}

	merged := make([]string, 0, len(front)+len(existing)+len(back))
	merged = append(merged, front...)
	merged = append(merged, existing...)
	merged = append(merged, back...)
	env.SetPathComponents(merged)

	for _, key := range sortedKeys(state.Variables) {
		env.Set(key, state.Variables[key])
	}

	p.logger.Debug().
		Int("prepend", len(front)).
		Int("append", len(back)).
		Int("variables", len(state.Variables)).
		Msg("Environment applied")
	return nil
}

// Reverse removes the state's expanded paths from PATH by exact
// component match and unsets its variables. It does not consult the
// active flag so a stale application can always be undone.
func (p *Projector) Reverse(state *types.EnvironmentState, env *ProcessEnv) error {
	if state == nil {
		return nil
	}

	drop := map[string]bool{}
	for _, raw := range append(append([]string{}, state.PrependPaths...), state.AppendPaths...) {
		expanded, err := p.expandPath(raw, env)
		if err != nil {
			return err
		}
		drop[expanded] = true
	}

	var kept []string
	for _, c := range env.PathComponents() {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	env.SetPathComponents(kept)

	for key := range state.Variables {
		env.Unset(key)
	}

	return nil
}

// Render produces the script text for the projector's shell
func (p *Projector) Render(state *types.EnvironmentState) string {
	return Render(state, p.shell)
}

// WriteScript renders the state and writes the per-profile script,
// returning its path
func (p *Projector) WriteScript(profile string, state *types.EnvironmentState) (string, error) {
	path := p.paths.EnvScriptPath(profile)
	if err := p.writeRendered(path, state); err != nil {
		return "", err
	}
	return path, nil
}

// WriteActiveScript renders the state into the stable script path
// that rc files source. Switching profiles rewrites this one file so
// the rc line never changes.
func (p *Projector) WriteActiveScript(state *types.EnvironmentState) (string, error) {
	path := p.paths.ActiveEnvScriptPath()
	if err := p.writeRendered(path, state); err != nil {
		return "", err
	}
	return path, nil
}

// EnsureSourceLine inserts the source line for scriptPath into the
// file at rcPath unless it is already present. Returns whether the
// file changed. Shells without an rc file are a no-op.
func (p *Projector) EnsureSourceLine(rcPath, scriptPath string) (bool, error) {
	line := SourceLine(p.shell, scriptPath)
	if line == "" || rcPath == "" {
		return false, nil
	}

	var content string
	data, err := p.fs.ReadFile(rcPath)
	switch {
	case err == nil:
		content = string(data)
	case os.IsNotExist(err):
		content = ""
	default:
		return false, errors.Wrapf(err, errors.ErrFileAccess, "reading %s", rcPath)
	}

	if strings.Contains(content, line) {
		return false, nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += "\n# zshrcman environment\n" + line + "\n"

	if err := p.fs.MkdirAll(filepath.Dir(rcPath), 0755); err != nil {
		return false, errors.Wrapf(err, errors.ErrDirCreate, "creating %s", filepath.Dir(rcPath))
	}
	if err := p.fs.WriteFile(rcPath, []byte(content), 0644); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "updating %s", rcPath)
	}

	p.logger.Info().Str("rc", rcPath).Msg("Source line added")
	return true, nil
}

// expandPath resolves home-relative prefixes using the delta's HOME
func (p *Projector) expandPath(path string, env *ProcessEnv) (string, error) {
	var prefix string
	switch {
	case strings.HasPrefix(path, "~/") || path == "~":
		prefix = "~"
	case strings.HasPrefix(path, "$HOME"):
		prefix = "$HOME"
	default:
		return path, nil
	}

	home, ok := env.Get("HOME")
	if !ok || home == "" {
		return "", errors.Newf(errors.ErrInvalidOperation,
			"cannot expand %q: HOME is not set", path)
	}
	return home + strings.TrimPrefix(path, prefix), nil
}

func (p *Projector) writeRendered(path string, state *types.EnvironmentState) error {
	script := p.Render(state)
	if err := p.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "creating %s", filepath.Dir(path))
	}
	if err := p.fs.WriteFile(path, []byte(script), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "writing %s", path)
	}
	p.logger.Debug().Str("path", path).Msg("Environment script written")
	return nil
}
