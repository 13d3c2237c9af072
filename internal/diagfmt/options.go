package diagfmt

import (
	"fmt"
	"strings"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAsIs prints paths exactly as the compiler reported them.
	PathModeAsIs PathMode = iota
	// PathModeBasename prints only the file name.
	PathModeBasename
)

// ParsePathMode accepts "as-is" (or "") and "basename".
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "as-is":
		return PathModeAsIs, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAsIs, fmt.Errorf("invalid path mode %q (expected as-is|basename)", s)
}

// PrettyOpts configures rendering of a single diagnostic.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
}
