package diagfmt

import (
	"io"
	"strconv"
	"sync"

	"trackc/internal/diag"
	"trackc/internal/diagfilter"
	"trackc/internal/trace"
)

// Console prints diagnostics from the compilation service as they arrive.
// Output happens inside a Session obtained from Prepare and ended by Release.
type Console struct {
	mu     sync.Mutex // serializes writes to out
	out    io.Writer
	filter diagfilter.Filter
	tracer trace.Tracer
	paths  PathMode
}

// NewConsole returns a console writing to w with no filter installed.
func NewConsole(w io.Writer) *Console {
	return &Console{out: w, tracer: trace.Nop}
}

// SetFilter installs the suppression filter. nil suppresses nothing.
func (c *Console) SetFilter(f diagfilter.Filter) {
	c.filter = f
}

// SetTracer routes per-diagnostic events to tr.
func (c *Console) SetTracer(tr trace.Tracer) {
	if tr == nil {
		tr = trace.Nop
	}
	c.tracer = tr
}

// SetPathMode controls how source paths are printed.
func (c *Console) SetPathMode(mode PathMode) {
	c.paths = mode
}

// Prepare starts a session. Every session must be ended with Release.
func (c *Console) Prepare(colorEnabled bool) *Session {
	return &Session{
		console: c,
		color:   colorEnabled,
		styles:  newStyles(colorEnabled),
		active:  true,
	}
}

// Stats summarises what a session did with the diagnostics it received.
type Stats struct {
	Rendered   int
	Suppressed int
	Errors     int
}

// Session is an active console. It implements diag.Reporter.
type Session struct {
	console *Console
	color   bool
	styles  styles

	mu     sync.Mutex
	active bool
	stats  Stats
}

// Color reports whether the session renders with ANSI styling.
func (s *Session) Color() bool {
	return s.color
}

// Report filters d and prints it if it survives. Reports after Release are
// dropped.
func (s *Session) Report(d diag.Diagnostic) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	c := s.console
	if c.filter != nil && c.filter.Suppress(&d) {
		s.stats.Suppressed++
		s.mu.Unlock()
		trace.Point(c.tracer, trace.ScopeDiagnostic, "suppressed", d.Message, map[string]string{
			"severity": d.Severity.String(),
			"filter":   c.filter.Name(),
		})
		return
	}
	s.stats.Rendered++
	if d.Severity == diag.SevError {
		s.stats.Errors++
	}
	text := render(&d, s.styles, c.paths)

	// The console lock is taken while the session lock is held so that
	// diagnostics reach the writer in the order they were accepted.
	c.mu.Lock()
	_, _ = io.WriteString(c.out, text)
	c.mu.Unlock()
	s.mu.Unlock()
}

// Release ends the session. It is safe to call more than once.
func (s *Session) Release() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	stats := s.stats
	s.mu.Unlock()

	trace.Point(s.console.tracer, trace.ScopePhase, "console", "released", map[string]string{
		"rendered":   strconv.Itoa(stats.Rendered),
		"suppressed": strconv.Itoa(stats.Suppressed),
	})
}

// Active reports whether Release has not been called yet.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Stats returns the counters accumulated so far.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

var _ diag.Reporter = (*Session)(nil)
