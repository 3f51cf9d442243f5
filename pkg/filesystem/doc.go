// Package filesystem provides filesystem implementations for zshrcman.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem; test filesystems live in
// pkg/testutil.
package filesystem
