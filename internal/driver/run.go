// Package driver wires argument routing, the console reporter and the output
// file manager around one call of the compilation service.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"trackc/internal/cliargs"
	"trackc/internal/compiler"
	"trackc/internal/diag"
	"trackc/internal/diagfmt"
	"trackc/internal/filemgr"
	"trackc/internal/observ"
	"trackc/internal/source"
	"trackc/internal/trace"
)

// Exit statuses returned by Run.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// Options configures one run.
type Options struct {
	// Service compiles; it must be set.
	Service compiler.Service
	// FileManager is the plain output manager. nil means filemgr.NewStandard().
	FileManager filemgr.Manager
	// Stderr receives diagnostics and operator messages. nil means os.Stderr.
	Stderr io.Writer
	// Color turns on styling even without -Tcolor.
	Color bool
	// Paths controls how diagnostic locations are printed.
	Paths diagfmt.PathMode
	// Timings, when set, receives a phase timing summary after the run.
	Timings io.Writer
	// Observer, when set, is told about each phase boundary.
	Observer PhaseObserver
}

type run struct {
	opts   Options
	stderr io.Writer
	tracer trace.Tracer
	timer  *observ.Timer
	span   *trace.Span
}

// Run compiles according to args and returns the process exit status.
func Run(ctx context.Context, args []string, opts Options) int {
	r := &run{
		opts:   opts,
		stderr: opts.Stderr,
		tracer: trace.FromContext(ctx),
		timer:  observ.NewTimer(),
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}
	if opts.Service == nil {
		r.fail("no compilation service")
		return ExitFailure
	}

	r.span = trace.Begin(r.tracer, trace.ScopeDriver, "run")
	code := r.exec(ctx, args)
	r.span.Set("exit", strconv.Itoa(code)).End("")

	if opts.Timings != nil {
		fmt.Fprint(opts.Timings, r.timer.Summary())
	}
	return code
}

func (r *run) exec(ctx context.Context, args []string) (code int) {
	fm := r.opts.FileManager
	if fm == nil {
		fm = filemgr.NewStandard()
	}

	end := r.phase(PhaseRoute)
	res, err := cliargs.Route(args, r.stderr, r.opts.Service, fm)
	if err != nil {
		end("argument error")
		r.fail(err.Error())
		return ExitFailure
	}
	end("")

	console := diagfmt.NewConsole(r.stderr)
	console.SetFilter(res.Filter)
	console.SetTracer(r.tracer)
	console.SetPathMode(r.opts.Paths)
	session := console.Prepare(res.Color || r.opts.Color)
	defer session.Release()

	var out filemgr.Manager = fm
	if res.DependencyFile != "" {
		out = filemgr.NewTracking(fm, res.DependencyFile).WithTracer(r.tracer)
	}
	defer func() {
		end := r.phase(PhaseClose)
		if err := out.Close(); err != nil {
			session.Report(diag.New(diag.SevError, err.Error()))
			end("failed")
			code = ExitFailure
			return
		}
		end("")
	}()

	end = r.phase(PhaseCompile)
	task := r.opts.Service.Task(res.Options, source.Units(res.Units), session, out)
	ok, err := task.Call(ctx)
	switch {
	case err != nil:
		end("error")
		session.Report(diag.New(diag.SevError, err.Error()))
		return ExitFailure
	case !ok:
		end("failed")
		return ExitFailure
	}
	end("")
	return ExitOK
}

// fail prints msg as an error outside any console session, styled when
// Options.Color is set.
func (r *run) fail(msg string) {
	d := diag.New(diag.SevError, msg)
	fmt.Fprint(r.stderr, diagfmt.Pretty(&d, diagfmt.PrettyOpts{Color: r.opts.Color}))
}

// phase opens a trace span and a timer entry and returns the function that
// closes both.
func (r *run) phase(name string) func(note string) {
	span := r.span.Child(trace.ScopePhase, name)
	idx := r.timer.Begin(name)
	started := time.Now()
	r.notify(PhaseEvent{Name: name, Status: PhaseStart})
	return func(note string) {
		r.timer.End(idx, note)
		span.End(note)
		r.notify(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(started)})
	}
}

func (r *run) notify(ev PhaseEvent) {
	if r.opts.Observer != nil {
		r.opts.Observer(ev)
	}
}
