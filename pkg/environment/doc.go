// Package environment projects a profile's environment state onto
// shells. It has two output channels: an in-memory ProcessEnv delta
// used for bookkeeping and tests, and rendered shell scripts that are
// the only mechanism actually reaching the user's future sessions.
package environment
