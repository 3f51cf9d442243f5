// Package transition orchestrates profile switches. A switch is an
// ordered list of named steps over the state manager, the environment
// projector, the binary linker and the shell-config marker. Each
// completed step is recorded in a journal file; a failure aborts the
// remaining steps and leaves the journal behind, so the switch can be
// resumed from where it stopped. Completed steps are never rolled
// back automatically: the deactivation path is the mirror image of
// activation and stays available, but invoking it is the caller's
// decision.
package transition

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/environment"
	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/linker"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/shell"
	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/types"
)

// Step names, in protocol order.
const (
	StepDeactivatePrevious  = "deactivate-previous"
	StepSwitchPointer       = "switch-pointer"
	StepActivateEnvironment = "activate-environment"
	StepRelinkBinaries      = "relink-binaries"
	StepUpdateShellConfig   = "update-shell-config"
)

// Orchestrator performs profile transitions.
type Orchestrator struct {
	state     *state.Manager
	projector *environment.Projector
	linker    *linker.Linker
	marker    *shell.ConfigMarker
	fs        types.FS
	paths     paths.Paths
	logger    zerolog.Logger
}

// NewOrchestrator wires a transition orchestrator from its parts
func NewOrchestrator(
	mgr *state.Manager,
	projector *environment.Projector,
	lnk *linker.Linker,
	marker *shell.ConfigMarker,
	fs types.FS,
	p paths.Paths,
) *Orchestrator {
	return &Orchestrator{
		state:     mgr,
		projector: projector,
		linker:    lnk,
		marker:    marker,
		fs:        fs,
		paths:     p,
		logger:    logging.GetLogger("transition"),
	}
}

// Result describes a finished transition.
type Result struct {
	// ID is the transition's journal ID
	ID string

	// From is the previously active profile, empty when none
	From string

	// To is the now-active profile
	To string

	// Steps lists the step names this invocation actually ran
	Steps []string

	// Resumed is true when the run continued an interrupted switch
	Resumed bool
}

type step struct {
	name string
	run  func() error
}

// Switch transitions from the currently active profile to name using
// the full five-step protocol. The target must exist and no earlier
// switch may be pending.
func (o *Orchestrator) Switch(name string, env *environment.ProcessEnv) (*Result, error) {
	if _, err := o.state.Profile(name); err != nil {
		return nil, err
	}

	done := logging.LogOperationStart(o.logger, "profile-switch")
	defer done()

	j, err := o.begin(o.state.ActiveProfile(), name)
	if err != nil {
		return nil, err
	}
	return o.run(j, o.switchSteps(j, env), false)
}

// Resume continues an interrupted switch from its first incomplete
// step. The process-view delta is rebuilt by the caller; completed
// steps are not repeated.
func (o *Orchestrator) Resume(env *environment.ProcessEnv) (*Result, error) {
	j, err := o.loadJournal()
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, errors.New(errors.ErrNotFound, "no interrupted profile switch to resume")
	}
	if _, err := o.state.Profile(j.To); err != nil {
		return nil, err
	}

	o.logger.Info().
		Str("transition", j.ID).
		Str("to", j.To).
		Int("completed", len(j.Completed)).
		Msg("resuming interrupted switch")
	return o.run(j, o.switchSteps(j, env), true)
}

// Activate brings name up without deactivating anything first: the
// pointer is updated, then environment, binaries and marker follow.
// Meant for a fresh shell or after an explicit deactivate.
func (o *Orchestrator) Activate(name string, env *environment.ProcessEnv) (*Result, error) {
	if _, err := o.state.Profile(name); err != nil {
		return nil, err
	}

	j, err := o.begin(o.state.ActiveProfile(), name)
	if err != nil {
		return nil, err
	}
	return o.run(j, o.activateSteps(j, env), false)
}

// DeactivateCurrent reverses the active profile's environment in the
// delta, clears its bin directory and drops the active pointer. The
// shell-config marker and the generated scripts are left as they are.
// Returns the deactivated profile's name, "" when none was active.
func (o *Orchestrator) DeactivateCurrent(env *environment.ProcessEnv) (string, error) {
	name := o.state.ActiveProfile()
	if name == "" {
		return "", nil
	}

	if err := o.deactivateFor(name, env); err != nil {
		return "", err
	}
	if err := o.state.SetActiveProfile(""); err != nil {
		return "", err
	}

	o.logger.Info().Str("profile", name).Msg("profile deactivated")
	return name, nil
}

// begin refuses to start while a journal is pending, then writes a
// fresh journal for the new transition.
func (o *Orchestrator) begin(from, to string) (*Journal, error) {
	pending, err := o.loadJournal()
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, errors.Newf(errors.ErrInvalidOperation,
			"an interrupted switch to %q is pending; resume it before starting another", pending.To).
			WithDetail("transition_id", pending.ID)
	}

	j := &Journal{
		ID:        uuid.New().String(),
		From:      from,
		To:        to,
		StartedAt: time.Now().UTC(),
		Completed: []string{},
	}
	if err := o.writeJournal(j); err != nil {
		return nil, err
	}
	return j, nil
}

func (o *Orchestrator) switchSteps(j *Journal, env *environment.ProcessEnv) []step {
	steps := make([]step, 0, 5)
	if j.From != "" {
		from := j.From
		steps = append(steps, step{StepDeactivatePrevious, func() error {
			return o.deactivateFor(from, env)
		}})
	}
	return append(steps, o.activateSteps(j, env)...)
}

func (o *Orchestrator) activateSteps(j *Journal, env *environment.ProcessEnv) []step {
	to := j.To
	return []step{
		{StepSwitchPointer, func() error { return o.state.SetActiveProfile(to) }},
		{StepActivateEnvironment, func() error { return o.activateEnvironment(to, env) }},
		{StepRelinkBinaries, func() error { return o.relink(to) }},
		{StepUpdateShellConfig, func() error { return o.updateMarker(to, env) }},
	}
}

// run executes the steps not yet in the journal, updating it after
// each one. All steps done removes the journal.
func (o *Orchestrator) run(j *Journal, steps []step, resumed bool) (*Result, error) {
	completed := make(map[string]bool, len(j.Completed))
	for _, name := range j.Completed {
		completed[name] = true
	}

	result := &Result{ID: j.ID, From: j.From, To: j.To, Resumed: resumed}
	for _, s := range steps {
		if completed[s.name] {
			continue
		}
		if err := s.run(); err != nil {
			o.logger.Error().
				Str("transition", j.ID).
				Str("step", s.name).
				Err(err).
				Msg("transition step failed; journal kept for resume")
			return nil, err
		}
		j.Completed = append(j.Completed, s.name)
		if err := o.writeJournal(j); err != nil {
			return nil, err
		}
		result.Steps = append(result.Steps, s.name)
	}

	if err := o.clearJournal(); err != nil {
		return nil, err
	}

	o.logger.Info().
		Str("transition", j.ID).
		Str("from", j.From).
		Str("to", j.To).
		Int("steps", len(result.Steps)).
		Bool("resumed", resumed).
		Msg("profile transition complete")
	return result, nil
}

// deactivateFor reverses a profile's environment contributions, clears
// its active flag, and empties its bin directory. A profile deleted
// since the journal was written only gets the bin-dir cleanup.
func (o *Orchestrator) deactivateFor(name string, env *environment.ProcessEnv) error {
	if p, err := o.state.Profile(name); err == nil {
		if err := o.projector.Reverse(&p.Environment, env); err != nil {
			return err
		}
		if err := o.state.SetEnvironmentActive(name, false); err != nil {
			return err
		}
	}
	env.RemovePathComponent(o.paths.ProfileBinDir(name))
	return o.linker.Clear(name)
}

// activateEnvironment marks the profile's environment active, applies
// it to the delta, puts the profile bin directory at the front of
// PATH, and refreshes the durable channel: per-profile script, active
// script, rc source line.
func (o *Orchestrator) activateEnvironment(name string, env *environment.ProcessEnv) error {
	if err := o.state.SetEnvironmentActive(name, true); err != nil {
		return err
	}
	p, err := o.state.Profile(name)
	if err != nil {
		return err
	}

	if err := o.projector.Apply(&p.Environment, env); err != nil {
		return err
	}
	env.PrependPathComponent(o.paths.ProfileBinDir(name))

	if _, err := o.projector.WriteScript(name, &p.Environment); err != nil {
		return err
	}
	scriptPath, err := o.projector.WriteActiveScript(&p.Environment)
	if err != nil {
		return err
	}

	if rcPath := o.rcPath(env); rcPath != "" {
		if _, err := o.projector.EnsureSourceLine(rcPath, scriptPath); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) relink(name string) error {
	p, err := o.state.Profile(name)
	if err != nil {
		return err
	}
	_, err = o.linker.Relink(p, o.state.Snapshot().Installations)
	return err
}

func (o *Orchestrator) updateMarker(name string, env *environment.ProcessEnv) error {
	rcPath := o.rcPath(env)
	if rcPath == "" {
		return nil
	}
	return o.marker.SetProfile(rcPath, name)
}

// rcPath resolves the shell config file from the delta's HOME; ""
// when HOME is unset or the shell has no rc file.
func (o *Orchestrator) rcPath(env *environment.ProcessEnv) string {
	home, _ := env.Get("HOME")
	if home == "" {
		return ""
	}
	return o.projector.Shell().RcPath(home)
}
