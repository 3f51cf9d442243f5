package types

import (
	"io/fs"
)

// FS is the filesystem interface required for zshrcman operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// Pather provides paths for zshrcman operations
type Pather interface {
	// DataDir returns the XDG data directory for zshrcman
	DataDir() string

	// ConfigDir returns the XDG config directory for zshrcman
	ConfigDir() string

	// StateDir returns the XDG state directory for zshrcman
	StateDir() string

	// DotfilesDir returns the synced dotfiles repository directory
	DotfilesDir() string

	// ProfileBinDir returns the binary directory for a profile
	ProfileBinDir(profile string) string

	// EnvDir returns the directory holding generated environment scripts
	EnvDir() string
}

// Store is the narrow persistence contract the state engine writes
// through. Implementations persist the full snapshot on every call;
// the last writer wins and no cross-process locking is attempted.
type Store interface {
	// Load reads the persisted snapshot, returning a fresh default
	// snapshot when nothing has been persisted yet.
	Load() (*Snapshot, error)

	// Save persists the full snapshot.
	Save(snapshot *Snapshot) error
}
