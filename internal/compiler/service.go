// Package compiler defines the contract trackc expects from the compilation
// service it drives.
package compiler

import (
	"context"

	"trackc/internal/diag"
	"trackc/internal/filemgr"
	"trackc/internal/source"
)

// Unsupported is the arity returned for options a service does not know.
const Unsupported = -1

// Service turns compilation units into artifacts and diagnostics.
type Service interface {
	// IsSupportedOption returns the number of arguments flag takes, or
	// Unsupported.
	IsSupportedOption(flag string) int

	// Task prepares one compilation. Diagnostics go to sink, artifacts are
	// opened through fm.
	Task(options []string, units []source.Unit, sink diag.Reporter, fm filemgr.Manager) Task
}

// Task is a prepared compilation.
type Task interface {
	// Call runs the compilation. ok is false when sources failed to compile;
	// err is reserved for failures of the service itself.
	Call(ctx context.Context) (ok bool, err error)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(ctx context.Context) (bool, error)

func (f TaskFunc) Call(ctx context.Context) (bool, error) {
	return f(ctx)
}
