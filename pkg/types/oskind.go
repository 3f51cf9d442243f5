package types

import "runtime"

// OSKind is the coarse operating-system classification recorded in
// the snapshot's device block. Core logic never branches on it; it
// only keys the stored (and unconsulted) per-OS override maps.
type OSKind string

const (
	OSMacOS   OSKind = "macos"
	OSLinux   OSKind = "linux"
	OSWindows OSKind = "windows"
	OSUnknown OSKind = "unknown"
)

// DetectOS classifies the running operating system
func DetectOS() OSKind {
	switch runtime.GOOS {
	case "darwin":
		return OSMacOS
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}
