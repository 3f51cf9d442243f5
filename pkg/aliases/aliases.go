// Package aliases manages alias group files in the dotfiles repository
// and renders the active groups into a shell fragment. A group file is
// a flat TOML table of alias = expansion pairs under aliases/<name>.toml;
// which groups are active lives in the snapshot. The rendered fragment
// sits next to the profile environment script and is sourced the same
// way.
package aliases

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/state"
	"github.com/azpdev/zshrcman/pkg/types"
)

// Group is one alias group with its definitions
type Group struct {
	Name    string
	Aliases map[string]string

	// Active reflects the snapshot's active-group list
	Active bool
}

// Manager performs alias group file operations. Which groups are
// active is snapshot state and goes through the state manager.
type Manager struct {
	state  *state.Manager
	fs     types.FS
	paths  paths.Paths
	logger zerolog.Logger
}

// NewManager creates an alias group manager
func NewManager(st *state.Manager, fs types.FS, p paths.Paths) *Manager {
	return &Manager{
		state:  st,
		fs:     fs,
		paths:  p,
		logger: logging.GetLogger("aliases"),
	}
}

// Load reads one alias group file
func (m *Manager) Load(name string) (*Group, error) {
	if name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "alias group name is empty")
	}

	path := m.groupPath(name)
	data, err := m.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, m.notFound(name)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read alias group file %s", path)
	}

	aliases := map[string]string{}
	if err := toml.Unmarshal(data, &aliases); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse,
			"alias group file is not valid TOML").
			WithDetail("path", path)
	}

	return &Group{
		Name:    name,
		Aliases: aliases,
		Active:  m.isActive(name),
	}, nil
}

// Create writes a new alias group file with the given pairs
func (m *Manager) Create(name string, aliases map[string]string) (*Group, error) {
	if name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "alias group name is empty")
	}

	path := m.groupPath(name)
	if _, err := m.fs.Stat(path); err == nil {
		return nil, errors.Newf(errors.ErrAlreadyExists, "alias group %q already exists", name)
	}

	if aliases == nil {
		aliases = map[string]string{}
	}
	for alias := range aliases {
		if alias == "" {
			return nil, errors.New(errors.ErrInvalidInput, "alias name is empty")
		}
	}

	data, err := toml.Marshal(aliases)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode alias group file")
	}
	if err := m.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create aliases directory %s", filepath.Dir(path))
	}
	if err := m.fs.WriteFile(path, data, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write alias group file %s", path)
	}

	m.logger.Info().
		Str("group", name).
		Int("aliases", len(aliases)).
		Msg("Alias group created")
	return &Group{Name: name, Aliases: aliases, Active: m.isActive(name)}, nil
}

// DefinedGroups lists alias group names that have a definition file
func (m *Manager) DefinedGroups() ([]string, error) {
	entries, err := m.fs.ReadDir(m.paths.AliasesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read aliases directory %s", m.paths.AliasesDir())
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".toml"))
	}
	sort.Strings(names)
	return names, nil
}

// List returns every defined alias group with its active flag
func (m *Manager) List() ([]Group, error) {
	names, err := m.DefinedGroups()
	if err != nil {
		return nil, err
	}

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		group, err := m.Load(name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, nil
}

// SetActive replaces the active-group list. Every named group must
// have a definition file.
func (m *Manager) SetActive(names []string) error {
	for _, name := range names {
		if _, err := m.Load(name); err != nil {
			return err
		}
	}
	return m.state.SetActiveAliasGroups(names)
}

func (m *Manager) groupPath(name string) string {
	return filepath.Join(m.paths.AliasesDir(), name+".toml")
}

func (m *Manager) isActive(name string) bool {
	for _, active := range m.state.ActiveAliasGroups() {
		if active == name {
			return true
		}
	}
	return false
}

func (m *Manager) notFound(name string) error {
	names, err := m.DefinedGroups()
	if err == nil && len(names) > 0 {
		ranks := fuzzy.RankFindNormalizedFold(name, names)
		if len(ranks) > 0 {
			sort.Sort(ranks)
			return errors.Newf(errors.ErrNotFound,
				"alias group %q does not exist, did you mean %q?", name, ranks[0].Target).
				WithDetail("suggestion", ranks[0].Target)
		}
	}
	return errors.Newf(errors.ErrNotFound, "alias group %q does not exist", name)
}
