package filemgr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"trackc/internal/source"
)

const (
	optOutputDir = "-d"
	optEncoding  = "-encoding"
)

// ErrClosed is returned when a closed manager is asked for more output.
var ErrClosed = errors.New("file manager is closed")

// Standard writes artifacts to disk under its output root.
type Standard struct {
	mu       sync.Mutex
	root     string
	encoding string
	closed   bool
}

// NewStandard returns a manager rooted at the working directory.
func NewStandard() *Standard {
	return &Standard{root: "."}
}

func (m *Standard) IsSupportedOption(flag string) int {
	switch flag {
	case optOutputDir, optEncoding:
		return 1
	}
	return Unsupported
}

func (m *Standard) HandleOption(flag string, args []string) error {
	if n := m.IsSupportedOption(flag); n == Unsupported {
		return fmt.Errorf("unsupported file manager option %s", flag)
	} else if len(args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", flag, n, len(args))
	}
	value := strings.TrimSpace(args[0])
	if value == "" {
		return fmt.Errorf("%s requires a non-empty value", flag)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	switch flag {
	case optOutputDir:
		m.root = args[0]
	case optEncoding:
		m.encoding = value
	}
	return nil
}

// Encoding returns the source encoding passed with -encoding, if any.
func (m *Standard) Encoding() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.encoding
}

func (m *Standard) OutputRoot() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.root
}

func (m *Standard) OutputFor(unit source.Unit, artifact string) (Output, error) {
	if artifact == "" {
		return nil, fmt.Errorf("%s: empty artifact path", unit.Path)
	}
	m.mu.Lock()
	closed, root := m.closed, m.root
	m.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	rel := filepath.Clean(filepath.FromSlash(artifact))
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%s: artifact %q escapes the output root", unit.Path, artifact)
	}
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	return fileOutput{File: f}, nil
}

// Close marks the manager closed. Outputs are closed by whoever opened them.
func (m *Standard) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type fileOutput struct {
	*os.File
}

func (o fileOutput) Path() string {
	return o.Name()
}
