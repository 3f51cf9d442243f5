// Package state implements the installation state engine: the package
// ledger, the profile registry with its single active-profile pointer,
// and the removal-policy resolver. The Manager owns the in-memory
// snapshot and persists the whole of it through a types.Store after
// every mutating operation.
//
// Two invariants are maintained by construction: at most one profile
// is active at any time, and membership is symmetric, meaning a
// profile appears in a record's active_for set exactly when the
// package appears in that profile's package set. Both sides of the
// pair are always updated in the same operation.
package state
