// Package linker maintains the per-profile binary directories. Each
// profile owns <data>/profiles/<name>/bin; relinking makes that
// directory mirror the profile's package set exactly, one symlink per
// package with a recorded binary location.
package linker

import (
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/types"
)

// Linker creates and clears binary symlinks for profiles.
type Linker struct {
	fs     types.FS
	paths  paths.Paths
	logger zerolog.Logger
}

// New builds a linker over the given filesystem and path layout
func New(fs types.FS, p paths.Paths) *Linker {
	return &Linker{
		fs:     fs,
		paths:  p,
		logger: logging.GetLogger("linker"),
	}
}

// Relink rebuilds the profile's bin directory from scratch: every
// existing entry is removed, then each package in the profile's set
// with a recorded location gets a symlink <bin>/<pkg> -> location.
// Packages without a location are skipped. Returns the number of
// links created.
func (l *Linker) Relink(profile *types.Profile, ledger map[string]*types.InstallationRecord) (int, error) {
	if profile == nil {
		return 0, errors.New(errors.ErrInvalidInput, "cannot relink nil profile")
	}

	binDir := l.paths.ProfileBinDir(profile.Name)
	if err := l.clearDir(binDir); err != nil {
		return 0, err
	}

	linked := 0
	for _, pkg := range sortedCopy(profile.Packages) {
		record, ok := ledger[pkg]
		if !ok || record.Location == "" {
			l.logger.Debug().
				Str("package", pkg).
				Str("profile", profile.Name).
				Msg("no recorded location, skipping link")
			continue
		}

		linkPath := filepath.Join(binDir, pkg)
		if err := l.fs.Symlink(record.Location, linkPath); err != nil {
			return linked, errors.Wrapf(err, errors.ErrSymlinkCreate,
				"failed to link %s -> %s", linkPath, record.Location)
		}
		linked++
	}

	l.logger.Info().
		Str("profile", profile.Name).
		Int("linked", linked).
		Msg("relinked profile binaries")
	return linked, nil
}

// Clear removes every entry from the profile's bin directory but
// keeps the directory itself.
func (l *Linker) Clear(profileName string) error {
	if profileName == "" {
		return errors.New(errors.ErrInvalidInput, "profile name required")
	}
	if err := l.clearDir(l.paths.ProfileBinDir(profileName)); err != nil {
		return err
	}
	l.logger.Debug().Str("profile", profileName).Msg("cleared profile binaries")
	return nil
}

// clearDir empties dir, creating it when missing. Subdirectories are
// removed recursively; anything else (files, symlinks, including
// dangling ones) goes through Remove.
func (l *Linker) clearDir(dir string) error {
	if err := l.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create bin directory %s", dir)
	}

	entries, err := l.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure,
			"failed to read bin directory %s", dir)
	}

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			err = l.fs.RemoveAll(entryPath)
		} else {
			err = l.fs.Remove(entryPath)
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure,
				"failed to remove %s", entryPath)
		}
	}
	return nil
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
