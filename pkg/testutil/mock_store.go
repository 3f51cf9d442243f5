package testutil

import (
	"github.com/azpdev/zshrcman/pkg/types"
)

// MemoryStore implements types.Store against an in-memory snapshot.
// It counts saves and supports error injection so callers can assert
// that every mutation persists and that persistence failures surface
// unchanged.
type MemoryStore struct {
	Snapshot *types.Snapshot

	// SaveCount increments on every successful Save
	SaveCount int

	// LoadErr/SaveErr, when set, are returned by the matching call
	LoadErr error
	SaveErr error
}

// NewMemoryStore creates a MemoryStore holding a fresh snapshot
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Snapshot: types.NewSnapshot()}
}

// Load returns the held snapshot
func (m *MemoryStore) Load() (*types.Snapshot, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Snapshot == nil {
		m.Snapshot = types.NewSnapshot()
	}
	return m.Snapshot, nil
}

// Save replaces the held snapshot
func (m *MemoryStore) Save(snapshot *types.Snapshot) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Snapshot = snapshot
	m.SaveCount++
	return nil
}
