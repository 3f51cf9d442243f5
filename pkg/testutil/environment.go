// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate test environments with proper dependencies

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/azpdev/zshrcman/pkg/filesystem"
	"github.com/azpdev/zshrcman/pkg/paths"
	"github.com/azpdev/zshrcman/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a complete test environment with all
// dependencies wired: filesystem, paths and a snapshot store.
type TestEnvironment struct {
	// Core paths
	HomeDir   string
	DataDir   string
	ConfigDir string

	// Core dependencies
	FS    types.FS
	Paths paths.Paths
	Store *MemoryStore

	// Environment type
	Type EnvType

	// Test context
	t       *testing.T
	tempDir string // Only used for EnvIsolated
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:    t,
		Type: envType,
	}

	switch envType {
	case EnvMemoryOnly:
		env.setupMemoryEnvironment()
	case EnvIsolated:
		env.setupIsolatedEnvironment()
	}

	// Point all path resolution at the environment
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("SHELL", "/bin/zsh")
	t.Setenv("ZSHRCMAN_DATA_DIR", env.DataDir)
	t.Setenv("ZSHRCMAN_CONFIG_DIR", env.ConfigDir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(env.HomeDir, ".local", "state"))

	pathsInstance, err := paths.New(env.DataDir, env.ConfigDir)
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = pathsInstance

	env.Store = NewMemoryStore()

	return env
}

// setupMemoryEnvironment configures a pure in-memory environment
func (env *TestEnvironment) setupMemoryEnvironment() {
	env.HomeDir = "/virtual/home"
	env.DataDir = "/virtual/home/.local/share/zshrcman"
	env.ConfigDir = "/virtual/home/.config/zshrcman"

	env.FS = NewMemoryFS()

	_ = env.FS.MkdirAll(env.HomeDir, 0755)
	_ = env.FS.MkdirAll(env.DataDir, 0755)
	_ = env.FS.MkdirAll(env.ConfigDir, 0755)
}

// setupIsolatedEnvironment configures a real filesystem in temp directory
func (env *TestEnvironment) setupIsolatedEnvironment() {
	tempDir := env.t.TempDir()
	env.tempDir = tempDir

	env.HomeDir = filepath.Join(tempDir, "home")
	env.DataDir = filepath.Join(tempDir, "home", ".local", "share", "zshrcman")
	env.ConfigDir = filepath.Join(tempDir, "home", ".config", "zshrcman")

	env.FS = filesystem.NewOS()

	_ = env.FS.MkdirAll(env.HomeDir, 0755)
	_ = env.FS.MkdirAll(env.DataDir, 0755)
	_ = env.FS.MkdirAll(env.ConfigDir, 0755)
}

// FileTree represents a directory structure for testing
type FileTree map[string]interface{}

// WithFileTree creates a file tree under the given base directory
func (env *TestEnvironment) WithFileTree(base string, tree FileTree) {
	env.t.Helper()
	createFileTree(env.t, env.FS, base, tree)
}

// createFileTree recursively creates a file tree
func createFileTree(t *testing.T, fs types.FS, basePath string, tree FileTree) {
	t.Helper()

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			// It's a file
			if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", filepath.Dir(fullPath), err)
			}
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			// It's a directory
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			createFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}
