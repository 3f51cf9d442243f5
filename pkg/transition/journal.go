package transition

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/azpdev/zshrcman/pkg/errors"
)

// Journal records an in-flight profile transition so an interrupted
// switch can be resumed. It lives at <data>/state/transition.toml and
// is removed once every step has completed.
type Journal struct {
	// ID uniquely names this transition attempt
	ID string `toml:"id"`

	// From is the profile that was active when the transition began,
	// empty when none was
	From string `toml:"from,omitempty"`

	// To is the target profile
	To string `toml:"to"`

	// StartedAt is when the transition began
	StartedAt time.Time `toml:"started_at"`

	// Completed lists the step names finished so far, in order
	Completed []string `toml:"completed"`
}

// Pending returns the journal of an interrupted transition, nil when
// none is pending.
func (o *Orchestrator) Pending() (*Journal, error) {
	return o.loadJournal()
}

func (o *Orchestrator) journalPath() string {
	return o.paths.TransitionJournalPath()
}

func (o *Orchestrator) loadJournal() (*Journal, error) {
	data, err := o.fs.ReadFile(o.journalPath())
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read transition journal %s", o.journalPath())
	}

	j := &Journal{}
	if err := toml.Unmarshal(data, j); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse,
			"transition journal is corrupt").
			WithDetail("path", o.journalPath())
	}
	return j, nil
}

func (o *Orchestrator) writeJournal(j *Journal) error {
	data, err := toml.Marshal(j)
	if err != nil {
		return errors.Wrap(err, errors.ErrPersistence, "failed to encode transition journal")
	}

	dir := filepath.Dir(o.journalPath())
	if err := o.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create state directory %s", dir)
	}
	if err := o.fs.WriteFile(o.journalPath(), data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrPersistence,
			"failed to write transition journal %s", o.journalPath())
	}
	return nil
}

func (o *Orchestrator) clearJournal() error {
	err := o.fs.Remove(o.journalPath())
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrIOFailure,
			"failed to remove transition journal %s", o.journalPath())
	}
	return nil
}
