// Package types defines the core data model shared across zshrcman:
// the installation ledger records, profiles with their environment
// state, the full persisted snapshot, and the small enums (scope,
// source, removal strategy, shell kind, OS kind) that parameterize
// operations. It also declares the FS and Pather interfaces the rest
// of the code depends on, so logic packages stay testable against
// in-memory implementations.
package types
