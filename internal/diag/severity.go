package diag

// Severity defines the importance of a diagnostic as reported by the compiler.
type Severity uint8

const (
	// SevOther is for compiler output that carries no severity of its own.
	SevOther Severity = iota
	// SevNote is for informational diagnostics.
	SevNote
	// SevWarning is for ordinary warnings.
	SevWarning
	// SevMandatoryWarning is for warnings the compiler is required to emit.
	SevMandatoryWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevOther:
		return "OTHER"
	case SevNote:
		return "NOTE"
	case SevWarning:
		return "WARNING"
	case SevMandatoryWarning:
		return "MANDATORY_WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity maps the wire name of a severity back to its value.
// Unknown names map to SevOther.
func ParseSeverity(s string) Severity {
	switch s {
	case "error", "ERROR":
		return SevError
	case "mandatory_warning", "MANDATORY_WARNING":
		return SevMandatoryWarning
	case "warning", "WARNING":
		return SevWarning
	case "note", "NOTE":
		return SevNote
	default:
		return SevOther
	}
}

