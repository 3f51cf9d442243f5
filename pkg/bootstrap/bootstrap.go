// Package bootstrap performs first-run initialization. Init records
// the repository and device in the snapshot, creates the data
// directory skeleton, prepares the dotfiles repository, seeds starter
// group and alias files, and commits the result, pushing when a
// remote is configured. Every step is idempotent so re-running init
// repairs a partial setup instead of clobbering it.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/aliases"
	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/gitsync"
	"github.com/azpdev/zshrcman/pkg/groups"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/types"
)

// Options configure Init. All fields are optional: a missing device
// name falls back to the current device and then the hostname, a
// missing branch derives device/<name>, and a missing remote leaves
// the repository local-only.
type Options struct {
	RemoteURL string
	Device    string
	Branch    string

	// Shell selects the dialect for the rendered alias fragment
	Shell types.ShellKind
}

// Report summarizes what Init did.
type Report struct {
	DataDir string
	Device  string
	Branch  string

	// Cloned and Initialized echo how the repository came to exist
	Cloned      bool
	Initialized bool

	// SeededGroups and SeededAliasGroups list files written this run;
	// existing files are never overwritten
	SeededGroups      []string
	SeededAliasGroups []string

	// Pushed is true when the initial commit reached the remote
	Pushed bool
}

// starterGroups are seeded into groups/ on init so a fresh setup has
// something to enable.
var starterGroups = []groups.Definition{
	{Name: state.DefaultGroupName, Packages: []string{}},
	{Name: "brew", Packages: []string{"git", "curl", "wget"}},
	{Name: "npm", Packages: []string{}},
}

// starterAliases are seeded into aliases/default.toml.
var starterAliases = map[string]string{
	"ll":  "ls -la",
	"..":  "cd ..",
	"...": "cd ../..",
}

// Manager wires the pieces Init needs.
type Manager struct {
	state   *state.Manager
	fs      types.FS
	paths   paths.Paths
	sync    *gitsync.Manager
	aliases *aliases.Manager
	logger  zerolog.Logger
}

// NewManager creates a bootstrap Manager.
func NewManager(st *state.Manager, fs types.FS, p paths.Paths, sync *gitsync.Manager, am *aliases.Manager) *Manager {
	return &Manager{
		state:   st,
		fs:      fs,
		paths:   p,
		sync:    sync,
		aliases: am,
		logger:  logging.GetLogger("bootstrap"),
	}
}

// Init sets up zshrcman for this device.
func (m *Manager) Init(ctx context.Context, opts Options) (*Report, error) {
	defer logging.LogDuration(time.Now(), "bootstrap-init")

	device, err := m.resolveDevice(opts.Device)
	if err != nil {
		return nil, err
	}

	if opts.RemoteURL != "" {
		if err := m.state.SetRepository(opts.RemoteURL, ""); err != nil {
			return nil, err
		}
	}
	if err := m.state.SetDevice(device, opts.Branch); err != nil {
		return nil, err
	}

	report := &Report{
		DataDir: m.paths.DataDir(),
		Device:  device,
		Branch:  m.state.Snapshot().Device.Branch,
	}

	if err := m.scaffoldDataDirs(); err != nil {
		return nil, err
	}

	// Clone or init before seeding so seeded files land in the
	// working tree the first commit will pick up.
	prep, err := m.sync.Prepare(ctx)
	if err != nil {
		return nil, err
	}
	report.Cloned = prep.Cloned
	report.Initialized = prep.Initialized

	if report.SeededGroups, err = m.seedGroups(); err != nil {
		return nil, err
	}
	if report.SeededAliasGroups, err = m.seedAliasGroups(); err != nil {
		return nil, err
	}
	if err := m.scaffoldDevice(device); err != nil {
		return nil, err
	}
	if err := m.enableDefaults(); err != nil {
		return nil, err
	}

	shell := opts.Shell
	if shell == "" {
		shell = types.DetectShell()
	}
	if _, err := m.aliases.WriteFragment(shell); err != nil {
		return nil, err
	}

	syncReport, err := m.sync.Sync(ctx, fmt.Sprintf("Initialize zshrcman for device '%s'", device))
	if err != nil {
		return nil, err
	}
	report.Pushed = syncReport.Pushed

	m.logger.Info().
		Str("device", device).
		Str("branch", report.Branch).
		Bool("cloned", report.Cloned).
		Bool("pushed", report.Pushed).
		Strs("seeded_groups", report.SeededGroups).
		Msg("Initialization complete")
	return report, nil
}

// resolveDevice picks the device name: explicit option, then the name
// already recorded in the snapshot, then the hostname.
func (m *Manager) resolveDevice(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if current := m.state.Snapshot().Device.Name; current != "" {
		return current, nil
	}
	host, err := os.Hostname()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to derive device name from hostname")
	}
	if host == "" {
		return "", errors.New(errors.ErrInvalidInput, "device name required")
	}
	return host, nil
}

func (m *Manager) scaffoldDataDirs() error {
	dirs := []string{
		m.paths.EnvDir(),
		m.paths.ProfilesDir(),
		filepath.Dir(m.paths.TransitionJournalPath()),
	}
	for _, dir := range dirs {
		if err := m.fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
		}
	}
	return nil
}

// seedGroups writes the starter group definitions, skipping any file
// that already exists.
func (m *Manager) seedGroups() ([]string, error) {
	if err := m.fs.MkdirAll(m.paths.GroupsDir(), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create groups directory %s", m.paths.GroupsDir())
	}

	var seeded []string
	for _, def := range starterGroups {
		path := filepath.Join(m.paths.GroupsDir(), def.Name+".toml")
		if _, err := m.fs.Stat(path); err == nil {
			continue
		}
		data, err := toml.Marshal(def)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal, "failed to encode group %s", def.Name)
		}
		if err := m.fs.WriteFile(path, data, 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
		}
		seeded = append(seeded, def.Name)
	}
	return seeded, nil
}

func (m *Manager) seedAliasGroups() ([]string, error) {
	path := filepath.Join(m.paths.AliasesDir(), state.DefaultGroupName+".toml")
	if _, err := m.fs.Stat(path); err == nil {
		return nil, nil
	}
	if _, err := m.aliases.Create(state.DefaultGroupName, starterAliases); err != nil {
		return nil, err
	}
	return []string{state.DefaultGroupName}, nil
}

// scaffoldDevice creates the device's group directory and a .zshrc
// stub for device-specific configuration.
func (m *Manager) scaffoldDevice(device string) error {
	if err := m.fs.MkdirAll(m.paths.DeviceGroupsDir(device), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create device directory for %s", device)
	}

	stub := filepath.Join(m.paths.DotfilesDir(), paths.DevicesDirName, device, ".zshrc")
	if _, err := m.fs.Stat(stub); err == nil {
		return nil
	}
	content := fmt.Sprintf("# .zshrc for device: %s\n# Generated by zshrcman\n\n# Device-specific configuration goes here\n", device)
	if err := m.fs.WriteFile(stub, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", stub)
	}
	return nil
}

// enableDefaults enables the default group and activates the default
// alias group when nothing is active yet.
func (m *Manager) enableDefaults() error {
	if err := m.state.EnableGroup(state.DefaultGroupName, ""); err != nil {
		return err
	}
	if len(m.state.ActiveAliasGroups()) == 0 {
		if err := m.state.SetActiveAliasGroups([]string{state.DefaultGroupName}); err != nil {
			return err
		}
	}
	return nil
}
