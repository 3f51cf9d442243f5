// Package testutil provides utilities for testing zshrcman components.
//
// Key components:
//   - TestEnvironment: Core test orchestrator with isolation and cleanup
//   - MemoryFS: In-memory filesystem implementation for fast, isolated tests
//   - MemoryStore: In-memory snapshot store with save counting and
//     error injection
//
// Usage guidelines:
//   - Most tests should use EnvMemoryOnly for speed and isolation
//   - Only persistence tests need real filesystem operations (EnvIsolated)
//   - All test data should be defined inline, not in external files
//   - Each test should be completely isolated with no shared state
package testutil
