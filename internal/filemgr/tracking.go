package filemgr

import (
	"errors"
	"path/filepath"
	"sync"

	"trackc/internal/source"
	"trackc/internal/trace"
)

// Tracking decorates a Manager and records, for every artifact the
// compilation service opens, which unit it was opened for. The records are
// written to the dependency file when the manager is closed.
type Tracking struct {
	inner   Manager
	depFile string
	tracer  trace.Tracer

	mu      sync.Mutex
	records []Record

	closeOnce sync.Once
	closeErr  error
}

// NewTracking wraps inner; records are written to depFile on Close.
func NewTracking(inner Manager, depFile string) *Tracking {
	return &Tracking{
		inner:   inner,
		depFile: depFile,
		tracer:  trace.Nop,
	}
}

// WithTracer emits one artifact event per recorded artifact.
func (t *Tracking) WithTracer(tr trace.Tracer) *Tracking {
	if tr == nil {
		tr = trace.Nop
	}
	t.tracer = tr
	return t
}

func (t *Tracking) IsSupportedOption(flag string) int {
	return t.inner.IsSupportedOption(flag)
}

func (t *Tracking) HandleOption(flag string, args []string) error {
	return t.inner.HandleOption(flag, args)
}

func (t *Tracking) OutputRoot() string {
	return t.inner.OutputRoot()
}

// OutputFor opens the artifact through the wrapped manager and records it
// before handing it back.
func (t *Tracking) OutputFor(unit source.Unit, artifact string) (Output, error) {
	out, err := t.inner.OutputFor(unit, artifact)
	if err != nil {
		return nil, err
	}

	rec := Record{Source: unit.Path, Artifact: relativeTo(t.inner.OutputRoot(), out.Path())}
	t.mu.Lock()
	t.records = append(t.records, rec)
	t.mu.Unlock()

	trace.Point(t.tracer, trace.ScopeArtifact, "artifact", rec.Artifact, map[string]string{"source": rec.Source})
	return out, nil
}

// Records returns the artifacts recorded so far, in discovery order.
func (t *Tracking) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Close closes the wrapped manager and then writes the dependency file. The
// file is written even when the wrapped close fails; both errors are
// returned. Subsequent calls return the first result.
func (t *Tracking) Close() error {
	t.closeOnce.Do(func() {
		innerErr := t.inner.Close()
		writeErr := WriteDependencyFile(t.depFile, t.Records())
		t.closeErr = errors.Join(innerErr, writeErr)
	})
	return t.closeErr
}

// relativeTo expresses path relative to root. Both are made absolute first so
// the result does not depend on later working directory changes.
func relativeTo(root, path string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return path
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return absPath
	}
	return rel
}
