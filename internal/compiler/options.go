package compiler

import (
	"sort"
	"strings"
)

// OptionTable maps option names to their argument count. A name ending in
// "*" matches every flag with that prefix.
type OptionTable map[string]int

// DefaultOptions are the standard options of a javac-style compiler that the
// wrapper forwards without configuration.
var DefaultOptions = OptionTable{
	"-g":               0,
	"-g:*":             0,
	"-nowarn":          0,
	"-verbose":         0,
	"-deprecation":     0,
	"-parameters":      0,
	"-Werror":          0,
	"-Xlint":           0,
	"-Xlint:*":         0,
	"-Xdoclint":        0,
	"-Xdoclint:*":      0,
	"-Xmaxerrs":        1,
	"-Xmaxwarns":       1,
	"-proc:*":          0,
	"-implicit:*":      0,
	"-A*":              0,
	"-J*":              0,
	"-classpath":       1,
	"-cp":              1,
	"-sourcepath":      1,
	"-bootclasspath":   1,
	"-extdirs":         1,
	"-endorseddirs":    1,
	"-processor":       1,
	"-processorpath":   1,
	"-s":               1,
	"-h":               1,
	"-source":          1,
	"-target":          1,
	"-release":         1,
	"--release":        1,
	"--module-path":    1,
	"--add-modules":    1,
	"--enable-preview": 0,
}

// Merge returns a copy of t with other's entries layered on top.
func (t OptionTable) Merge(other OptionTable) OptionTable {
	out := make(OptionTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Arity returns the argument count of flag, or Unsupported. Exact entries win
// over prefix entries; among prefix entries the longest prefix wins.
func (t OptionTable) Arity(flag string) int {
	if n, ok := t[flag]; ok && !strings.HasSuffix(flag, "*") {
		return n
	}
	best, arity := -1, Unsupported
	for name, n := range t {
		prefix, ok := strings.CutSuffix(name, "*")
		if !ok || !strings.HasPrefix(flag, prefix) {
			continue
		}
		if len(prefix) > best {
			best, arity = len(prefix), n
		}
	}
	return arity
}

// Names lists the table entries in sorted order.
func (t OptionTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
