package config

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/azpdev/zshrcman/pkg/errors"
	"github.com/azpdev/zshrcman/pkg/logging"
	"github.com/azpdev/zshrcman/pkg/types"
)

// Store reads and writes the state snapshot as a TOML file. It is the
// concrete implementation of types.Store used outside of tests.
type Store struct {
	fs     types.FS
	path   string
	logger zerolog.Logger
}

// NewStore creates a snapshot store backed by the given filesystem,
// persisting to path (normally <config>/config.toml).
func NewStore(filesystem types.FS, path string) *Store {
	return &Store{
		fs:     filesystem,
		path:   path,
		logger: logging.GetLogger("config.store"),
	}
}

// Path returns the snapshot file path this store persists to.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted snapshot. A missing file is not an error:
// it yields a fresh default snapshot, so first runs need no setup
// step.
func (s *Store) Load() (*types.Snapshot, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Str("path", s.path).Msg("no snapshot file, starting empty")
			return types.NewSnapshot(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to read snapshot from %s", s.path)
	}

	snapshot := &types.Snapshot{}
	if err := toml.Unmarshal(data, snapshot); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse snapshot").
			WithDetail("path", s.path)
	}

	snapshot.Normalize()
	s.logger.Debug().
		Str("path", s.path).
		Int("profiles", len(snapshot.Profiles)).
		Int("packages", len(snapshot.Installations)).
		Msg("loaded snapshot")
	return snapshot, nil
}

// Save persists the full snapshot, creating the parent directory on
// demand. The file is written in one WriteFile call so a loadable
// snapshot is never left half-written by an earlier failure.
func (s *Store) Save(snapshot *types.Snapshot) error {
	if snapshot == nil {
		return errors.New(errors.ErrInvalidInput, "cannot save nil snapshot")
	}

	data, err := toml.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, errors.ErrPersistence, "failed to encode snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create config directory %s", dir)
	}

	if err := s.fs.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrPersistence,
			"failed to write snapshot to %s", s.path)
	}

	s.logger.Debug().
		Str("path", s.path).
		Int("bytes", len(data)).
		Msg("saved snapshot")
	return nil
}
