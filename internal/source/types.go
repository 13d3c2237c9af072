package source

import "fmt"

// Unit identifies one compilation input by its path as given on the command line.
type Unit struct {
	Path string
}

// Units wraps raw paths into compilation units, keeping their order.
func Units(paths []string) []Unit {
	out := make([]Unit, 0, len(paths))
	for _, p := range paths {
		out = append(out, Unit{Path: p})
	}
	return out
}

func (u Unit) String() string {
	return u.Path
}

// Location is a human-readable position inside a source file.
type Location struct {
	Path   string
	Line   uint32 // 1-based, 0 when unknown
	Column uint32 // 1-based, 0 when unknown
}

// HasLine reports whether the location points at a concrete line.
func (l Location) HasLine() bool {
	return l.Line > 0
}

func (l Location) String() string {
	switch {
	case l.Line == 0:
		return l.Path
	case l.Column == 0:
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
	}
}
