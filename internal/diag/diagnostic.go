package diag

import (
	"trackc/internal/source"
)

// Diagnostic is one message produced by the compilation service.
// Location is nil for diagnostics not tied to a source file.
type Diagnostic struct {
	Severity Severity
	Message  string
	Location *source.Location
}

// New builds a diagnostic without a source location.
func New(sev Severity, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Message: msg}
}

// At builds a diagnostic pointing at loc.
func At(sev Severity, loc source.Location, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Message: msg, Location: &loc}
}

// Path returns the source path of the diagnostic, or "" when it has no location.
func (d *Diagnostic) Path() string {
	if d == nil || d.Location == nil {
		return ""
	}
	return d.Location.Path
}
