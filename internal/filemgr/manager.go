// Package filemgr owns where compiled artifacts are written and, optionally,
// records which compilation unit produced each of them.
package filemgr

import (
	"io"

	"trackc/internal/source"
)

// Unsupported is the arity returned for options a manager does not know.
const Unsupported = -1

// Output is a writable artifact handed to the compilation service.
type Output interface {
	io.WriteCloser
	// Path is the location of the artifact on disk.
	Path() string
}

// Manager is the output sink of a compilation.
type Manager interface {
	// IsSupportedOption returns the number of arguments flag takes, or
	// Unsupported.
	IsSupportedOption(flag string) int

	// HandleOption applies a supported option and its arguments.
	HandleOption(flag string, args []string) error

	// OutputFor opens the artifact at the slash-separated path artifact,
	// relative to the output root, on behalf of unit.
	OutputFor(unit source.Unit, artifact string) (Output, error)

	// OutputRoot is the directory artifacts are written under.
	OutputRoot() string

	Close() error
}
