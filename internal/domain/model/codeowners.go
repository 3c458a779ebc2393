package model

import "strings"

// CodeownersSet is the set of individual owner handles extracted from a
// CODEOWNERS file. Handles are stored lowercase without the leading "@";
// team entries (containing "/") are never added.
type CodeownersSet map[string]struct{}

// NewCodeownersSet builds a set from the given handles.
func NewCodeownersSet(handles ...string) CodeownersSet {
	s := make(CodeownersSet, len(handles))
	for _, h := range handles {
		s.Add(h)
	}
	return s
}

// Add inserts a handle, normalizing case and stripping a leading "@".
func (s CodeownersSet) Add(handle string) {
	handle = strings.ToLower(strings.TrimPrefix(handle, "@"))
	if handle == "" {
		return
	}
	s[handle] = struct{}{}
}

// Contains reports whether the given login is in the set. Comparison is
// case-insensitive; GitHub logins are not case-sensitive.
func (s CodeownersSet) Contains(login string) bool {
	_, ok := s[strings.ToLower(login)]
	return ok
}

// Len returns the number of owners in the set.
func (s CodeownersSet) Len() int { return len(s) }

// Sole returns the only member of a one-element set, or "" otherwise.
func (s CodeownersSet) Sole() string {
	if len(s) != 1 {
		return ""
	}
	for handle := range s {
		return handle
	}
	return ""
}
