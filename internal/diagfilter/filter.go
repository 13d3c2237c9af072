// Package diagfilter decides which diagnostics are kept off the console.
//
// A Filter answers one question: should this diagnostic be suppressed?
// Filters are immutable once built and compose with Guard and Combine.
package diagfilter

import (
	"regexp"
	"strings"

	"trackc/internal/diag"
)

// Filter is a named suppression predicate.
type Filter interface {
	Name() string
	Suppress(d *diag.Diagnostic) bool
}

// Predicate restricts where a filter applies.
type Predicate func(d *diag.Diagnostic) bool

type funcFilter struct {
	name string
	fn   func(d *diag.Diagnostic) bool
}

func (f funcFilter) Name() string { return f.name }

func (f funcFilter) Suppress(d *diag.Diagnostic) bool {
	return d != nil && f.fn(d)
}

// New wraps fn as a Filter called name.
func New(name string, fn func(d *diag.Diagnostic) bool) Filter {
	return funcFilter{name: name, fn: fn}
}

// IsWarning holds for plain warnings only. Errors and mandatory warnings are
// never eligible for operator-configured suppression.
func IsWarning(d *diag.Diagnostic) bool {
	return d.Severity == diag.SevWarning
}

// Guard applies f only to diagnostics for which p holds.
func Guard(f Filter, p Predicate) Filter {
	return funcFilter{
		name: "guarded(" + f.Name() + ")",
		fn: func(d *diag.Diagnostic) bool {
			return p(d) && f.Suppress(d)
		},
	}
}

// Combine suppresses a diagnostic when any of filters does.
// With no filters nothing is suppressed.
func Combine(filters ...Filter) Filter {
	fs := make([]Filter, 0, len(filters))
	names := make([]string, 0, len(filters))
	for _, f := range filters {
		if f == nil {
			continue
		}
		fs = append(fs, f)
		names = append(names, f.Name())
	}
	return funcFilter{
		name: "any(" + strings.Join(names, ", ") + ")",
		fn: func(d *diag.Diagnostic) bool {
			for _, f := range fs {
				if f.Suppress(d) {
					return true
				}
			}
			return false
		},
	}
}

// IgnorePathPrefixes suppresses diagnostics whose source path starts with any
// of prefixes. The match is a plain string prefix; diagnostics without a
// location never match.
func IgnorePathPrefixes(prefixes []string) Filter {
	ps := append([]string(nil), prefixes...)
	return funcFilter{
		name: "path-prefix",
		fn: func(d *diag.Diagnostic) bool {
			if d.Location == nil {
				return false
			}
			for _, p := range ps {
				if strings.HasPrefix(d.Location.Path, p) {
					return true
				}
			}
			return false
		},
	}
}

// IgnoreMessagesMatching suppresses diagnostics whose message contains a match
// for any of patterns.
func IgnoreMessagesMatching(patterns []*regexp.Regexp) Filter {
	res := append([]*regexp.Regexp(nil), patterns...)
	return funcFilter{
		name: "message-regex",
		fn: func(d *diag.Diagnostic) bool {
			for _, re := range res {
				if re.MatchString(d.Message) {
					return true
				}
			}
			return false
		},
	}
}
