// Package config persists zshrcman state and loads application
// settings.
//
// Two concerns live here. The snapshot store serializes the complete
// state snapshot (package ledger, profile registry, device settings)
// to a single TOML file and reads it back, defaulting to an empty
// snapshot when no file exists yet. The settings loader layers
// built-in defaults, the settings.toml file, and ZSHRCMAN_*
// environment variables into a validated Settings struct.
//
// The store writes the whole snapshot on every save. Last writer
// wins; there is no file locking and no multi-process coordination.
package config
