// Package paths centralizes every filesystem location zshrcman uses:
// the XDG config and data homes resolved through adrg/xdg, the
// ZSHRCMAN_* directory overrides, and the derived layout (dotfiles
// repo, profile bin dirs, env scripts, groups, aliases, journal).
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/azpdev/zshrcman/pkg/errors"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for zshrcman
	EnvDataDir = "ZSHRCMAN_DATA_DIR"

	// EnvConfigDir overrides the XDG config directory for zshrcman
	EnvConfigDir = "ZSHRCMAN_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
// IMPORTANT: These constants define zshrcman's internal datastore
// structure and are NOT user-configurable. They must remain consistent
// across installations so profiles created by one version keep working
// in the next.
const (
	// AppDirName is the directory name for zshrcman-specific files
	AppDirName = "zshrcman"

	// ProfilesDirName holds one subdirectory per profile
	ProfilesDirName = "profiles"

	// BinDirName is the per-profile binary symlink directory
	BinDirName = "bin"

	// EnvDirName holds generated environment scripts
	EnvDirName = "env"

	// ActiveEnvScriptName is the script sourced by the shell config;
	// it is rewritten on every profile activation
	ActiveEnvScriptName = "profile.env"

	// AliasScriptName is the rendered active-alias fragment, rewritten
	// whenever the active alias groups change
	AliasScriptName = "aliases.env"

	// DotfilesDirName is the synced dotfiles repository directory
	DotfilesDirName = "dotfiles"

	// GroupsDirName holds shared package-group definitions
	GroupsDirName = "groups"

	// DevicesDirName holds device-scoped definitions
	DevicesDirName = "devices"

	// AliasesDirName holds alias-group definitions
	AliasesDirName = "aliases"

	// StateDirName is the subdirectory for transient state files
	StateDirName = "state"

	// SnapshotFileName is the persisted snapshot file
	SnapshotFileName = "config.toml"

	// SettingsFileName is the app-settings file (koanf-layered)
	SettingsFileName = "settings.toml"

	// TransitionJournalName records an in-flight profile switch
	TransitionJournalName = "transition.toml"

	// LogFileName is the name of the log file
	LogFileName = "zshrcman.log"
)

// Paths provides centralized path management for zshrcman
type Paths interface {
	DataDir() string
	ConfigDir() string
	StateDir() string
	DotfilesDir() string
	ProfilesDir() string
	ProfileBinDir(profile string) string
	EnvDir() string
	EnvScriptPath(profile string) string
	ActiveEnvScriptPath() string
	AliasScriptPath() string
	GroupsDir() string
	DeviceGroupsDir(device string) string
	AliasesDir() string
	SnapshotPath() string
	SettingsPath() string
	TransitionJournalPath() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
}

type paths struct {
	// xdgData is the resolved data directory
	xdgData string

	// xdgConfig is the resolved config directory
	xdgConfig string

	// xdgState is the resolved state directory
	xdgState string
}

// New creates a Paths instance. Non-empty dataDir/configDir arguments
// take precedence; otherwise the ZSHRCMAN_* environment overrides and
// finally the XDG base directories apply.
func New(dataDir, configDir string) (Paths, error) {
	p := &paths{}

	switch {
	case dataDir != "":
		p.xdgData = expandHome(dataDir)
	case os.Getenv(EnvDataDir) != "":
		p.xdgData = expandHome(os.Getenv(EnvDataDir))
	default:
		p.xdgData = filepath.Join(xdg.DataHome, AppDirName)
	}

	switch {
	case configDir != "":
		p.xdgConfig = expandHome(configDir)
	case os.Getenv(EnvConfigDir) != "":
		p.xdgConfig = expandHome(os.Getenv(EnvConfigDir))
	default:
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	// State directory - XDG doesn't always provide StateHome, so we
	// check manually
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.xdgState = filepath.Join(stateDir, AppDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", AppDirName)
	}

	for _, dir := range []*string{&p.xdgData, &p.xdgConfig, &p.xdgState} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess,
				"failed to resolve absolute path for %s", *dir)
		}
		*dir = abs
	}

	return p, nil
}

// DataDir returns the XDG data directory for zshrcman
func (p *paths) DataDir() string {
	return p.xdgData
}

// ConfigDir returns the XDG config directory for zshrcman
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// StateDir returns the XDG state directory for zshrcman
func (p *paths) StateDir() string {
	return p.xdgState
}

// DotfilesDir returns the synced dotfiles repository directory
func (p *paths) DotfilesDir() string {
	return filepath.Join(p.xdgData, DotfilesDirName)
}

// ProfilesDir returns the directory holding per-profile data
func (p *paths) ProfilesDir() string {
	return filepath.Join(p.xdgData, ProfilesDirName)
}

// ProfileBinDir returns the binary symlink directory for a profile
func (p *paths) ProfileBinDir(profile string) string {
	return filepath.Join(p.ProfilesDir(), profile, BinDirName)
}

// EnvDir returns the directory holding generated environment scripts
func (p *paths) EnvDir() string {
	return filepath.Join(p.xdgData, EnvDirName)
}

// EnvScriptPath returns the environment script path for a profile
func (p *paths) EnvScriptPath(profile string) string {
	return filepath.Join(p.EnvDir(), profile+".env")
}

// ActiveEnvScriptPath returns the script sourced by the shell config
func (p *paths) ActiveEnvScriptPath() string {
	return filepath.Join(p.EnvDir(), ActiveEnvScriptName)
}

// AliasScriptPath returns the rendered active-alias fragment path
func (p *paths) AliasScriptPath() string {
	return filepath.Join(p.EnvDir(), AliasScriptName)
}

// GroupsDir returns the shared package-group definitions directory
func (p *paths) GroupsDir() string {
	return filepath.Join(p.DotfilesDir(), GroupsDirName)
}

// DeviceGroupsDir returns a device's group definitions directory
func (p *paths) DeviceGroupsDir(device string) string {
	return filepath.Join(p.DotfilesDir(), DevicesDirName, device, GroupsDirName)
}

// AliasesDir returns the alias-group definitions directory
func (p *paths) AliasesDir() string {
	return filepath.Join(p.DotfilesDir(), AliasesDirName)
}

// SnapshotPath returns the persisted snapshot file path
func (p *paths) SnapshotPath() string {
	return filepath.Join(p.xdgConfig, SnapshotFileName)
}

// SettingsPath returns the app-settings file path
func (p *paths) SettingsPath() string {
	return filepath.Join(p.xdgConfig, SettingsFileName)
}

// TransitionJournalPath returns the in-flight transition journal path
func (p *paths) TransitionJournalPath() string {
	return filepath.Join(p.xdgData, StateDirName, TransitionJournalName)
}

// LogFilePath returns the path to the zshrcman log file
// Respects XDG_STATE_HOME if set
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath normalizes a path by expanding home, making it
// absolute, and cleaning it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := expandHome(path)

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}

	return filepath.Clean(abs), nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// ExpandHome is a utility function that expands ~ in paths
func ExpandHome(path string) string {
	return expandHome(path)
}

// GetHomeDirectory returns the user's home directory with proper error
// handling
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Try the HOME environment variable as a fallback
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}
