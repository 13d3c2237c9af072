// Package cliargs splits the wrapper's command line into its own flags,
// options forwarded to the compilation service, and compilation units.
package cliargs

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"trackc/internal/diagfilter"
)

// Flags understood by the wrapper itself.
const (
	FlagDependencyFile     = "-Tdependencyfile"
	FlagColor              = "-Tcolor"
	FlagWarnIgnorePrefixes = "-Tnowarnprefixes"
	FlagWarnIgnoreRegex    = "-Tnowarnregex"
)

// OptionChecker reports how many arguments an option takes, or a negative
// number when the option is unknown.
type OptionChecker interface {
	IsSupportedOption(flag string) int
}

// ArgumentError is a malformed or incomplete command line.
type ArgumentError struct {
	Flag string
	Msg  string
}

func (e *ArgumentError) Error() string {
	if e.Flag == "" {
		return e.Msg
	}
	return e.Flag + " " + e.Msg
}

// Result is the outcome of routing a command line.
type Result struct {
	// Options are forwarded verbatim to the compilation service.
	Options []string
	// Units are the compilation unit paths in command line order.
	Units []string
	// DependencyFile is empty when no dependency tracking was requested.
	DependencyFile string
	Color          bool
	// Filter is nil when no suppression was configured.
	Filter diagfilter.Filter
}

type router struct {
	args    []string
	pos     int
	checker []OptionChecker
	warn    io.Writer

	res      Result
	prefixes []string
	regexes  []*regexp.Regexp
}

// Route partitions args in a single left to right pass. Options unknown to
// every checker are skipped with a warning written to warn.
func Route(args []string, warn io.Writer, checkers ...OptionChecker) (*Result, error) {
	if warn == nil {
		warn = io.Discard
	}
	r := &router{args: args, checker: checkers, warn: warn}
	for r.pos < len(r.args) {
		arg := r.next()
		if err := r.route(arg); err != nil {
			return nil, err
		}
	}
	r.res.Filter = r.buildFilter()
	return &r.res, nil
}

func (r *router) next() string {
	arg := r.args[r.pos]
	r.pos++
	return arg
}

func (r *router) remaining() int {
	return len(r.args) - r.pos
}

func (r *router) value(flag, what string) (string, error) {
	if r.remaining() == 0 {
		return "", &ArgumentError{Flag: flag, Msg: "requires an argument specifying " + what}
	}
	return r.next(), nil
}

func (r *router) route(arg string) error {
	switch {
	case arg == FlagDependencyFile:
		path, err := r.value(arg, "the output path")
		if err != nil {
			return err
		}
		r.res.DependencyFile = path
	case arg == FlagColor:
		r.res.Color = true
	case arg == FlagWarnIgnorePrefixes:
		list, err := r.value(arg, "path prefixes to ignore")
		if err != nil {
			return err
		}
		for _, p := range filepath.SplitList(list) {
			if p != "" {
				r.prefixes = append(r.prefixes, p)
			}
		}
	case arg == FlagWarnIgnoreRegex:
		src, err := r.value(arg, "a warning message regex")
		if err != nil {
			return err
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return &ArgumentError{Flag: arg, Msg: fmt.Sprintf("has an invalid regex %q: %v", src, err)}
		}
		r.regexes = append(r.regexes, re)
	case strings.HasPrefix(arg, "-"):
		return r.passThrough(arg)
	default:
		r.res.Units = append(r.res.Units, arg)
	}
	return nil
}

func (r *router) passThrough(flag string) error {
	arity := -1
	for _, c := range r.checker {
		if c == nil {
			continue
		}
		if arity = c.IsSupportedOption(flag); arity >= 0 {
			break
		}
	}
	if arity < 0 {
		fmt.Fprintf(r.warn, "WARNING: Skipping unsupported option %s\n", flag)
		return nil
	}
	if r.remaining() < arity {
		return &ArgumentError{
			Flag: flag,
			Msg:  fmt.Sprintf("requires %d argument(s), %d given", arity, r.remaining()),
		}
	}
	r.res.Options = append(r.res.Options, flag)
	for i := 0; i < arity; i++ {
		r.res.Options = append(r.res.Options, r.next())
	}
	return nil
}

func (r *router) buildFilter() diagfilter.Filter {
	var filters []diagfilter.Filter
	if len(r.prefixes) > 0 {
		filters = append(filters, diagfilter.Guard(diagfilter.IgnorePathPrefixes(r.prefixes), diagfilter.IsWarning))
	}
	if len(r.regexes) > 0 {
		filters = append(filters, diagfilter.Guard(diagfilter.IgnoreMessagesMatching(r.regexes), diagfilter.IsWarning))
	}
	if len(filters) == 0 {
		return nil
	}
	return diagfilter.Combine(filters...)
}
