package types

import "sort"

// Membership sets are kept as sorted string slices so the snapshot
// marshals deterministically and diffs stay readable.

func setContains(set []string, value string) bool {
	i := sort.SearchStrings(set, value)
	return i < len(set) && set[i] == value
}

func setAdd(set []string, value string) []string {
	i := sort.SearchStrings(set, value)
	if i < len(set) && set[i] == value {
		return set
	}
	set = append(set, "")
	copy(set[i+1:], set[i:])
	set[i] = value
	return set
}

func setRemove(set []string, value string) []string {
	i := sort.SearchStrings(set, value)
	if i >= len(set) || set[i] != value {
		return set
	}
	return append(set[:i], set[i+1:]...)
}
