package filemgr

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Separator sits between the source and the artifact of a dependency line.
const Separator = " -> "

// Record ties one generated artifact to the compilation unit it came from.
// Artifact is relative to the output root.
type Record struct {
	Source   string
	Artifact string
}

// String renders the record as one dependency line. Paths are written byte
// for byte as recorded.
func (r Record) String() string {
	return r.Source + Separator + r.Artifact
}

// WriteError reports a failure to persist the dependency file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write dependency file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// WriteDependencyFile writes records to path, one per line, in order.
// The file is replaced atomically.
func WriteDependencyFile(path string, records []Record) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".trackc-deps-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	w := bufio.NewWriter(f)
	for _, r := range records {
		if _, err = w.WriteString(r.String() + "\n"); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	if err = w.Flush(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = f.Chmod(0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// ReadDependencyFile parses a file written by WriteDependencyFile.
func ReadDependencyFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		src, artifact, ok := strings.Cut(text, Separator)
		if !ok || src == "" || artifact == "" {
			return nil, fmt.Errorf("%s:%d: malformed dependency line %q", path, line, text)
		}
		records = append(records, Record{Source: src, Artifact: artifact})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
