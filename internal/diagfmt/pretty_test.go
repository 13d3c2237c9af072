package diagfmt

import (
	"strings"
	"testing"

	"trackc/internal/diag"
	"trackc/internal/source"
)

func TestPrettyPlain(t *testing.T) {
	tests := []struct {
		name string
		d    diag.Diagnostic
		opts PrettyOpts
		want string
	}{
		{
			name: "error with line",
			d:    diag.At(diag.SevError, source.Location{Path: "src/A.java", Line: 3}, "cannot find symbol"),
			want: "src/A.java:3: error: cannot find symbol\n",
		},
		{
			name: "mandatory warning uses warning label",
			d:    diag.At(diag.SevMandatoryWarning, source.Location{Path: "A.java", Line: 1, Column: 5}, "unchecked"),
			want: "A.java:1:5: warning: unchecked\n",
		},
		{
			name: "path without line",
			d:    diag.At(diag.SevNote, source.Location{Path: "A.java"}, "recompile with -Xlint"),
			want: "A.java: note: recompile with -Xlint\n",
		},
		{
			name: "no location",
			d:    diag.New(diag.SevWarning, "bootstrap classpath not set"),
			want: "warning: bootstrap classpath not set\n",
		},
		{
			name: "other has no label",
			d:    diag.New(diag.SevOther, "1 error"),
			want: "1 error\n",
		},
		{
			name: "message keeps its own newline",
			d:    diag.New(diag.SevOther, "line\n"),
			want: "line\n",
		},
		{
			name: "basename paths",
			d:    diag.At(diag.SevError, source.Location{Path: "src/p/A.java", Line: 9}, "boom"),
			opts: PrettyOpts{PathMode: PathModeBasename},
			want: "A.java:9: error: boom\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pretty(&tt.d, tt.opts); got != tt.want {
				t.Errorf("Pretty() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrettyColorDistinguishesSeverities(t *testing.T) {
	loc := source.Location{Path: "A.java", Line: 1}
	errText := Pretty(&diag.Diagnostic{Severity: diag.SevError, Message: "e", Location: &loc}, PrettyOpts{Color: true})
	warnText := Pretty(&diag.Diagnostic{Severity: diag.SevWarning, Message: "w", Location: &loc}, PrettyOpts{Color: true})
	noteText := Pretty(&diag.Diagnostic{Severity: diag.SevNote, Message: "n", Location: &loc}, PrettyOpts{Color: true})

	if !strings.Contains(errText, "\x1b[31;1m") {
		t.Errorf("expected red bold error label, got %q", errText)
	}
	if !strings.Contains(warnText, "\x1b[33;1m") {
		t.Errorf("expected yellow warning label, got %q", warnText)
	}
	if !strings.Contains(noteText, "\x1b[36m") {
		t.Errorf("expected cyan note label, got %q", noteText)
	}
	if strings.Contains(Pretty(&diag.Diagnostic{Severity: diag.SevError, Message: "e", Location: &loc}, PrettyOpts{}), "\x1b[") {
		t.Error("plain rendering must not contain escape codes")
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{"": PathModeAsIs, "as-is": PathModeAsIs, "Basename": PathModeBasename} {
		got, err := ParsePathMode(in)
		if err != nil || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePathMode("short"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
