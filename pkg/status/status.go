// Package status assembles a read-only overview of the current setup:
// the snapshot's headline facts plus health checks over the files the
// snapshot implies exist. Collect never fails; anything broken shows
// up as a check instead.
package status

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/transition"
	"github.com/azpdev/zshrcman/pkg/types"
)

// CheckState grades a single health check.
type CheckState string

const (
	CheckOK    CheckState = "ok"
	CheckWarn  CheckState = "warn"
	CheckError CheckState = "error"
)

// Check is one health check outcome.
type Check struct {
	Name    string
	State   CheckState
	Message string
}

// ProfileSummary condenses one profile for display.
type ProfileSummary struct {
	Name      string
	Packages  int
	Active    bool
	EnvActive bool
}

// Overview is everything the status command shows.
type Overview struct {
	ActiveProfile string
	Profiles      []ProfileSummary

	// PackageCount is the total ledger size across profiles
	PackageCount int

	// EnabledGroups is the resolved install order
	EnabledGroups     []string
	GroupStatuses     map[string]types.GroupInstallStatus
	ActiveAliasGroups []string

	Repository types.Repository
	Device     types.Device
	LastSync   *time.Time

	// PendingTransition names the target profile of an interrupted
	// switch, empty when none is pending
	PendingTransition string

	Checks []Check
}

// Collector gathers the overview from the snapshot and filesystem.
type Collector struct {
	state  *state.Manager
	fs     types.FS
	paths  paths.Paths
	logger zerolog.Logger
}

// NewCollector creates a status Collector.
func NewCollector(st *state.Manager, fs types.FS, p paths.Paths) *Collector {
	return &Collector{
		state:  st,
		fs:     fs,
		paths:  p,
		logger: logging.GetLogger("status"),
	}
}

// Collect builds the overview.
func (c *Collector) Collect() *Overview {
	snap := c.state.Snapshot()

	o := &Overview{
		ActiveProfile:     snap.ActiveProfile,
		PackageCount:      len(snap.Installations),
		EnabledGroups:     c.state.OrderedGroups(),
		GroupStatuses:     map[string]types.GroupInstallStatus{},
		ActiveAliasGroups: c.state.ActiveAliasGroups(),
		Repository:        snap.Repository,
		Device:            snap.Device,
		LastSync:          snap.Sync.LastSync,
	}
	for name, status := range snap.Groups.Status {
		o.GroupStatuses[name] = status
	}

	for _, p := range c.state.Profiles() {
		o.Profiles = append(o.Profiles, ProfileSummary{
			Name:      p.Name,
			Packages:  len(p.Packages),
			Active:    p.Name == snap.ActiveProfile,
			EnvActive: p.Environment.Active,
		})
	}

	journal, journalCheck := c.checkTransition()
	if journal != nil {
		o.PendingTransition = journal.To
	}

	o.Checks = []Check{
		c.checkSnapshot(),
		c.checkRepository(),
		c.checkEnvironmentScript(snap),
		c.checkAliasFragment(),
		journalCheck,
	}

	c.logger.Debug().
		Int("profiles", len(o.Profiles)).
		Int("packages", o.PackageCount).
		Msg("Collected status overview")
	return o
}

// checkSnapshot verifies the registry invariants.
func (c *Collector) checkSnapshot() Check {
	if err := c.state.Verify(); err != nil {
		return Check{Name: "snapshot", State: CheckError, Message: err.Error()}
	}
	return Check{Name: "snapshot", State: CheckOK, Message: "ledger and registry are consistent"}
}

func (c *Collector) checkRepository() Check {
	if _, err := c.fs.Stat(filepath.Join(c.paths.DotfilesDir(), ".git")); err != nil {
		return Check{
			Name:    "repository",
			State:   CheckWarn,
			Message: "dotfiles repository not initialized; run 'zshrcman init'",
		}
	}
	return Check{Name: "repository", State: CheckOK, Message: "dotfiles repository present"}
}

// checkEnvironmentScript warns when the active profile has a
// projected environment but no script on disk to source.
func (c *Collector) checkEnvironmentScript(snap *types.Snapshot) Check {
	name := "environment"
	active := snap.ActiveProfile
	if active == "" {
		return Check{Name: name, State: CheckOK, Message: "no active profile"}
	}

	profile, ok := snap.Profiles[active]
	if !ok || !profile.Environment.Active {
		return Check{Name: name, State: CheckOK, Message: "active profile environment is not projected"}
	}

	path := c.paths.ActiveEnvScriptPath()
	if _, err := c.fs.Stat(path); err != nil {
		return Check{
			Name:  name,
			State: CheckWarn,
			Message: fmt.Sprintf("environment script %s is missing; run 'zshrcman env write'",
				path),
		}
	}
	return Check{Name: name, State: CheckOK, Message: "environment script present"}
}

func (c *Collector) checkAliasFragment() Check {
	name := "aliases"
	if len(c.state.ActiveAliasGroups()) == 0 {
		return Check{Name: name, State: CheckOK, Message: "no alias groups active"}
	}
	if _, err := c.fs.Stat(c.paths.AliasScriptPath()); err != nil {
		return Check{
			Name:    name,
			State:   CheckWarn,
			Message: "alias fragment is missing; run 'zshrcman alias set-active'",
		}
	}
	return Check{Name: name, State: CheckOK, Message: "alias fragment present"}
}

// checkTransition reads the journal directly instead of constructing
// a full orchestrator; status must stay read-only.
func (c *Collector) checkTransition() (*transition.Journal, Check) {
	name := "transition"

	data, err := c.fs.ReadFile(c.paths.TransitionJournalPath())
	if err != nil {
		return nil, Check{Name: name, State: CheckOK, Message: "no transition in flight"}
	}

	j := &transition.Journal{}
	if err := toml.Unmarshal(data, j); err != nil {
		return nil, Check{Name: name, State: CheckError, Message: "transition journal is corrupt"}
	}
	return j, Check{
		Name:  name,
		State: CheckWarn,
		Message: fmt.Sprintf("switch to %q was interrupted; run 'zshrcman profile switch --resume'",
			j.To),
	}
}
