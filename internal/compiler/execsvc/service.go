// Package execsvc drives an external compiler process.
//
// The process receives the forwarded options and the unit paths as its
// arguments and streams msgpack frames on stdout: diagnostic frames are
// reported to the diagnostic sink, output frames are written through the file
// manager. Each line on the process's stderr becomes a diagnostic without a
// severity. The exit status decides success.
package execsvc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync/atomic"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"trackc/internal/compiler"
	"trackc/internal/diag"
	"trackc/internal/filemgr"
	"trackc/internal/source"
	"trackc/internal/trace"
)

// ErrNoCommand is returned when no compiler command was configured.
var ErrNoCommand = errors.New("no compiler command configured (set [compiler].command in trackc.toml)")

// Config describes the compiler process.
type Config struct {
	Command []string
	Options compiler.OptionTable
	// Env is appended to the environment of the process.
	Env []string
	// Dir is the working directory of the process; "" inherits ours.
	Dir string
}

// Service is a compiler.Service backed by an external process.
type Service struct {
	cfg    Config
	tracer trace.Tracer
}

// New returns a service for cfg. A nil option table means
// compiler.DefaultOptions.
func New(cfg Config) *Service {
	if cfg.Options == nil {
		cfg.Options = compiler.DefaultOptions
	}
	return &Service{cfg: cfg, tracer: trace.Nop}
}

// WithTracer emits frame-level events to tr.
func (s *Service) WithTracer(tr trace.Tracer) *Service {
	if tr == nil {
		tr = trace.Nop
	}
	s.tracer = tr
	return s
}

func (s *Service) IsSupportedOption(flag string) int {
	return s.cfg.Options.Arity(flag)
}

func (s *Service) Task(options []string, units []source.Unit, sink diag.Reporter, fm filemgr.Manager) compiler.Task {
	if sink == nil {
		sink = diag.NopReporter{}
	}
	return &task{svc: s, options: options, units: units, sink: sink, fm: fm}
}

var _ compiler.Service = (*Service)(nil)

type task struct {
	svc     *Service
	options []string
	units   []source.Unit
	sink    diag.Reporter
	fm      filemgr.Manager

	// failed is set when an artifact could not be written.
	failed atomic.Bool
}

func (t *task) Call(ctx context.Context) (bool, error) {
	command := t.svc.cfg.Command
	if len(command) == 0 {
		return false, ErrNoCommand
	}

	forwarded, err := t.applyOptions()
	if err != nil {
		return false, err
	}

	args := append([]string{}, command[1:]...)
	args = append(args, forwarded...)
	for _, u := range t.units {
		args = append(args, u.Path)
	}

	cmd := exec.CommandContext(ctx, command[0], args...)
	cmd.Dir = t.svc.cfg.Dir
	if len(t.svc.cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), t.svc.cfg.Env...)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return false, fmt.Errorf("failed to open compiler stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return false, fmt.Errorf("failed to open compiler stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return false, fmt.Errorf("failed to start compiler %s: %w", command[0], err)
	}

	var g errgroup.Group
	g.Go(func() error { return t.readFrames(stdout) })
	g.Go(func() error { return t.readStderr(stderr) })
	streamErr := g.Wait()
	waitErr := cmd.Wait()

	if streamErr != nil {
		return false, streamErr
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("compiler %s: %w", command[0], waitErr)
	}
	return !t.failed.Load(), nil
}

// applyOptions hands file manager options to the file manager and returns the
// rest for the compiler process.
func (t *task) applyOptions() ([]string, error) {
	var forwarded []string
	opts := t.options
	for i := 0; i < len(opts); {
		flag := opts[i]
		i++
		if n := t.fm.IsSupportedOption(flag); n >= 0 {
			if len(opts)-i < n {
				return nil, fmt.Errorf("%s requires %d argument(s)", flag, n)
			}
			if err := t.fm.HandleOption(flag, opts[i:i+n]); err != nil {
				return nil, err
			}
			i += n
			continue
		}
		n := t.svc.cfg.Options.Arity(flag)
		if n < 0 {
			n = 0
		}
		if len(opts)-i < n {
			n = len(opts) - i
		}
		forwarded = append(forwarded, opts[i-1:i+n]...)
		i += n
	}
	return forwarded, nil
}

func (t *task) readFrames(r io.Reader) error {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			// Drain so the process is not blocked on a full pipe.
			_, _ = io.Copy(io.Discard, r)
			return fmt.Errorf("corrupt compiler output stream: %w", err)
		}
		t.handleFrame(&f)
	}
}

func (t *task) handleFrame(f *Frame) {
	switch f.Kind {
	case KindDiagnostic:
		t.sink.Report(frameDiagnostic(f))
	case KindOutput:
		if err := t.writeOutput(f); err != nil {
			t.failed.Store(true)
			t.sink.Report(diag.New(diag.SevError, err.Error()))
		}
	default:
		trace.Point(t.svc.tracer, trace.ScopeDiagnostic, "unknown-frame", f.Kind, nil)
	}
}

func (t *task) writeOutput(f *Frame) error {
	out, err := t.fm.OutputFor(source.Unit{Path: f.Source}, f.Artifact)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", f.Artifact, err)
	}
	if _, err := out.Write(f.Data); err != nil {
		_ = out.Close()
		return fmt.Errorf("error writing %s: %w", f.Artifact, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("error writing %s: %w", f.Artifact, err)
	}
	return nil
}

func frameDiagnostic(f *Frame) diag.Diagnostic {
	sev := diag.ParseSeverity(f.Severity)
	if f.Path == "" {
		return diag.New(sev, f.Message)
	}
	loc := source.Location{Path: f.Path}
	if line, err := safecast.Conv[uint32](f.Line); err == nil {
		loc.Line = line
	}
	if col, err := safecast.Conv[uint32](f.Column); err == nil && loc.Line > 0 {
		loc.Column = col
	}
	return diag.At(sev, loc, f.Message)
}

func (t *task) readStderr(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			t.sink.Report(diag.New(diag.SevOther, line))
		}
	}
	if err := sc.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return fmt.Errorf("failed to read compiler stderr: %w", err)
	}
	return nil
}
