package environment

import (
	"os"
	"sort"
	"strings"
)

// PathListSeparator joins PATH components in the delta. The projector
// targets POSIX-style PATH strings even when rendering for Windows
// shells, matching the generated-script formats.
const PathListSeparator = ":"

// ProcessEnv is an in-memory environment delta. Applying or reversing
// a profile environment mutates this object, never the real process
// environment; changes are therefore visible to callers and tests but
// die with the process, which is why generated scripts exist.
type ProcessEnv struct {
	vars map[string]string
}

// NewProcessEnv returns an empty delta
func NewProcessEnv() *ProcessEnv {
	return &ProcessEnv{vars: map[string]string{}}
}

// CaptureProcessEnv returns a delta seeded from the real process
// environment
func CaptureProcessEnv() *ProcessEnv {
	e := NewProcessEnv()
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			e.vars[kv[:i]] = kv[i+1:]
		}
	}
	return e
}

// Get returns the value for key and whether it is set
func (e *ProcessEnv) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Set stores key=value in the delta
func (e *ProcessEnv) Set(key, value string) {
	e.vars[key] = value
}

// Unset drops key from the delta
func (e *ProcessEnv) Unset(key string) {
	delete(e.vars, key)
}

// Keys returns all set keys sorted
func (e *ProcessEnv) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PathComponents splits the delta's PATH into components, nil when
// PATH is unset or empty
func (e *ProcessEnv) PathComponents() []string {
	v, ok := e.vars["PATH"]
	if !ok || v == "" {
		return nil
	}
	return strings.Split(v, PathListSeparator)
}

// SetPathComponents joins components back into PATH
func (e *ProcessEnv) SetPathComponents(components []string) {
	e.vars["PATH"] = strings.Join(components, PathListSeparator)
}

// PrependPathComponent puts dir at the front of PATH unless it is
// already an exact component
func (e *ProcessEnv) PrependPathComponent(dir string) {
	components := e.PathComponents()
	if containsComponent(components, dir) {
		return
	}
	e.SetPathComponents(append([]string{dir}, components...))
}

// RemovePathComponent drops every exact occurrence of dir from PATH.
// A no-op when PATH is unset.
func (e *ProcessEnv) RemovePathComponent(dir string) {
	components := e.PathComponents()
	if len(components) == 0 {
		return
	}
	kept := components[:0]
	for _, c := range components {
		if c != dir {
			kept = append(kept, c)
		}
	}
	e.SetPathComponents(kept)
}

func containsComponent(components []string, target string) bool {
	for _, c := range components {
		if c == target {
			return true
		}
	}
	return false
}
