package diagfmt

import (
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"trackc/internal/diag"
)

// styles holds the colors of one console session. Each color is forced on or
// off explicitly so the session never depends on process-wide color state.
type styles struct {
	location *color.Color
	error    *color.Color
	warning  *color.Color
	note     *color.Color
}

func newStyles(enabled bool) styles {
	s := styles{
		location: color.New(color.Bold),
		error:    color.New(color.FgRed, color.Bold),
		warning:  color.New(color.FgYellow, color.Bold),
		note:     color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{s.location, s.error, s.warning, s.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s styles) forSeverity(sev diag.Severity) (*color.Color, string) {
	switch sev {
	case diag.SevError:
		return s.error, "error"
	case diag.SevMandatoryWarning, diag.SevWarning:
		return s.warning, "warning"
	case diag.SevNote:
		return s.note, "note"
	}
	return nil, ""
}

// Pretty renders d as one line (plus any continuation lines of the message):
//
//	<path>:<line>: <label>: <message>
//
// The location prefix is omitted for diagnostics without a location and the
// label is omitted for SevOther.
func Pretty(d *diag.Diagnostic, opts PrettyOpts) string {
	return render(d, newStyles(opts.Color), opts.PathMode)
}

func render(d *diag.Diagnostic, st styles, mode PathMode) string {
	var sb strings.Builder

	if d.Location != nil && d.Location.Path != "" {
		path := d.Location.Path
		if mode == PathModeBasename {
			path = filepath.Base(path)
		}
		loc := path
		if d.Location.HasLine() {
			loc = d.Location.String()
			if mode == PathModeBasename {
				loc = filepath.Base(path) + strings.TrimPrefix(d.Location.String(), d.Location.Path)
			}
		}
		sb.WriteString(st.location.Sprint(loc))
		sb.WriteString(": ")
	}

	if c, label := st.forSeverity(d.Severity); c != nil {
		sb.WriteString(c.Sprint(label))
		sb.WriteString(": ")
	}

	sb.WriteString(d.Message)
	if !strings.HasSuffix(d.Message, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}
