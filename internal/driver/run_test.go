package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"trackc/internal/compiler"
	"trackc/internal/diag"
	"trackc/internal/filemgr"
	"trackc/internal/source"
)

// fakeService plays the compilation service. It applies file manager options
// itself and hands everything else to compile.
type fakeService struct {
	options compiler.OptionTable
	compile func(opts []string, units []source.Unit, sink diag.Reporter, fm filemgr.Manager) (bool, error)

	called  bool
	gotOpts []string
}

func (s *fakeService) IsSupportedOption(flag string) int {
	return s.options.Arity(flag)
}

func (s *fakeService) Task(opts []string, units []source.Unit, sink diag.Reporter, fm filemgr.Manager) compiler.Task {
	return compiler.TaskFunc(func(ctx context.Context) (bool, error) {
		s.called = true
		s.gotOpts = opts
		for i := 0; i < len(opts); i++ {
			n := fm.IsSupportedOption(opts[i])
			if n < 0 {
				continue
			}
			if err := fm.HandleOption(opts[i], opts[i+1:i+1+n]); err != nil {
				return false, err
			}
			i += n
		}
		if s.compile == nil {
			return true, nil
		}
		return s.compile(opts, units, sink, fm)
	})
}

func emit(t *testing.T, fm filemgr.Manager, unit source.Unit, artifact string) {
	t.Helper()
	out, err := fm.OutputFor(unit, artifact)
	if err != nil {
		t.Fatalf("OutputFor(%s): %v", artifact, err)
	}
	if _, err := out.Write([]byte("class")); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
}

// compileInnerClasses writes <Name>.class and <Name>$Inner.class per unit.
func compileInnerClasses(t *testing.T) func([]string, []source.Unit, diag.Reporter, filemgr.Manager) (bool, error) {
	return func(_ []string, units []source.Unit, _ diag.Reporter, fm filemgr.Manager) (bool, error) {
		for _, u := range units {
			name := strings.TrimSuffix(filepath.Base(u.Path), ".java")
			emit(t, fm, u, name+".class")
			emit(t, fm, u, name+"$Inner.class")
		}
		return true, nil
	}
}

func TestRunColorAndRegexScenario(t *testing.T) {
	t.Chdir(t.TempDir())
	var stderr bytes.Buffer
	svc := &fakeService{
		options: compiler.DefaultOptions,
		compile: func(_ []string, units []source.Unit, sink diag.Reporter, _ filemgr.Manager) (bool, error) {
			loc := source.Location{Path: units[0].Path, Line: 3}
			sink.Report(diag.At(diag.SevWarning, loc, "TODO: tidy this up"))
			sink.Report(diag.At(diag.SevError, loc, "';' expected"))
			return false, nil
		},
	}

	code := Run(context.Background(), []string{"-Tcolor", "-Tnowarnregex", "TODO", "A.java"}, Options{Service: svc, Stderr: &stderr})

	if code != ExitFailure {
		t.Errorf("exit = %d, want %d", code, ExitFailure)
	}
	out := stderr.String()
	if strings.Contains(out, "TODO") {
		t.Errorf("suppressed warning printed: %q", out)
	}
	if !strings.Contains(out, "\x1b[31;1merror") || !strings.Contains(out, "';' expected") {
		t.Errorf("error not printed with error styling: %q", out)
	}
	entries, err := os.ReadDir(".")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("no files expected without -Tdependencyfile, found %d", len(entries))
	}
}

func TestRunDependencyFileScenario(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	var stderr bytes.Buffer
	svc := &fakeService{options: compiler.DefaultOptions, compile: compileInnerClasses(t)}

	code := Run(context.Background(), []string{"-Tdependencyfile", "deps.txt", "A.java"}, Options{Service: svc, Stderr: &stderr})

	if code != ExitOK {
		t.Fatalf("exit = %d, stderr: %s", code, stderr.String())
	}
	data, err := os.ReadFile(filepath.Join(dir, "deps.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := "A.java -> A.class\nA.java -> A$Inner.class\n"
	if string(data) != want {
		t.Errorf("deps.txt = %q, want %q", data, want)
	}
}

func TestRunDependencyFileCoversEveryArtifact(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "classes")
	deps := filepath.Join(dir, "deps.txt")
	units := []string{"src/A.java", "src/B.java", "src/C.java"}

	run := func() []byte {
		_ = os.RemoveAll(out)
		svc := &fakeService{options: compiler.DefaultOptions, compile: compileInnerClasses(t)}
		args := append([]string{"-d", out, "-Tdependencyfile", deps}, units...)
		if code := Run(context.Background(), args, Options{Service: svc, Stderr: &bytes.Buffer{}}); code != ExitOK {
			t.Fatalf("exit = %d", code)
		}
		data, err := os.ReadFile(deps)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	first := run()
	records, err := filemgr.ReadDependencyFile(deps)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2*len(units) {
		t.Fatalf("expected %d records, got %d", 2*len(units), len(records))
	}
	for _, rec := range records {
		if filepath.IsAbs(rec.Artifact) || strings.HasPrefix(rec.Artifact, "..") {
			t.Errorf("artifact %q not relative to the output root", rec.Artifact)
		}
		if _, err := os.Stat(filepath.Join(out, rec.Artifact)); err != nil {
			t.Errorf("artifact %q missing under output root: %v", rec.Artifact, err)
		}
		found := false
		for _, u := range units {
			found = found || rec.Source == u
		}
		if !found {
			t.Errorf("record source %q is not an input", rec.Source)
		}
	}

	if second := run(); !bytes.Equal(first, second) {
		t.Errorf("dependency file not reproducible:\n%s\n---\n%s", first, second)
	}
}

func TestRunArgumentErrorSkipsService(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "pass-through arity", args: []string{"-Tdependencyfile", "deps.txt", "-Xpair", "one"}},
		{name: "tool flag without value", args: []string{"A.java", "-Tnowarnregex"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			var stderr bytes.Buffer
			var phases []string
			svc := &fakeService{options: compiler.OptionTable{"-Xpair": 2}}

			code := Run(context.Background(), tt.args, Options{
				Service: svc,
				Stderr:  &stderr,
				Observer: func(ev PhaseEvent) {
					if ev.Status == PhaseStart {
						phases = append(phases, ev.Name)
					}
				},
			})

			if code != ExitFailure {
				t.Errorf("exit = %d, want %d", code, ExitFailure)
			}
			if svc.called {
				t.Error("compilation service must not be invoked")
			}
			if !strings.Contains(stderr.String(), "requires") {
				t.Errorf("argument error not reported: %q", stderr.String())
			}
			if !reflect.DeepEqual(phases, []string{PhaseRoute}) {
				t.Errorf("phases = %v, want only route", phases)
			}
			if _, err := os.Stat("deps.txt"); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("dependency file must not be written on argument errors: %v", err)
			}
		})
	}
}

func TestRunUnsupportedOptionContinues(t *testing.T) {
	var stderr bytes.Buffer
	svc := &fakeService{options: compiler.DefaultOptions}

	code := Run(context.Background(), []string{"-bogus", "-g", "A.java"}, Options{Service: svc, Stderr: &stderr})

	if code != ExitOK {
		t.Errorf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "WARNING: Skipping unsupported option -bogus") {
		t.Errorf("missing warning: %q", stderr.String())
	}
	if !reflect.DeepEqual(svc.gotOpts, []string{"-g"}) {
		t.Errorf("forwarded options = %v", svc.gotOpts)
	}
}

func TestRunServiceError(t *testing.T) {
	var stderr bytes.Buffer
	svc := &fakeService{
		options: compiler.DefaultOptions,
		compile: func([]string, []source.Unit, diag.Reporter, filemgr.Manager) (bool, error) {
			return false, errors.New("failed to start compiler")
		},
	}
	if code := Run(context.Background(), []string{"A.java"}, Options{Service: svc, Stderr: &stderr}); code != ExitFailure {
		t.Errorf("exit = %d", code)
	}
	if !strings.Contains(stderr.String(), "error: failed to start compiler") {
		t.Errorf("service error not reported: %q", stderr.String())
	}
}

func TestRunDependencyWriteErrorFailsRun(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	svc := &fakeService{options: compiler.DefaultOptions, compile: compileInnerClasses(t)}
	deps := filepath.Join(dir, "missing", "deps.txt")

	code := Run(context.Background(), []string{"-d", dir, "-Tdependencyfile", deps, "A.java"}, Options{Service: svc, Stderr: &stderr})

	if code != ExitFailure {
		t.Errorf("exit = %d, want failure when the dependency file cannot be written", code)
	}
	if !strings.Contains(stderr.String(), "failed to write dependency file") {
		t.Errorf("write error not reported: %q", stderr.String())
	}
}

func TestRunWritesDependencyFileOnCompileFailure(t *testing.T) {
	dir := t.TempDir()
	deps := filepath.Join(dir, "deps.txt")
	svc := &fakeService{
		options: compiler.DefaultOptions,
		compile: func(_ []string, units []source.Unit, sink diag.Reporter, fm filemgr.Manager) (bool, error) {
			emit(t, fm, units[0], "A.class")
			sink.Report(diag.At(diag.SevError, source.Location{Path: units[1].Path, Line: 1}, "boom"))
			return false, nil
		},
	}

	code := Run(context.Background(), []string{"-d", dir, "-Tdependencyfile", deps, "A.java", "B.java"}, Options{Service: svc, Stderr: &bytes.Buffer{}})

	if code != ExitFailure {
		t.Errorf("exit = %d", code)
	}
	data, err := os.ReadFile(deps)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "A.java -> A.class\n" {
		t.Errorf("partial dependency file = %q", data)
	}
}

func TestRunPhasesAndTimings(t *testing.T) {
	var stderr, timings bytes.Buffer
	var events []PhaseEvent
	svc := &fakeService{options: compiler.DefaultOptions}

	code := Run(context.Background(), []string{"A.java"}, Options{
		Service:  svc,
		Stderr:   &stderr,
		Timings:  &timings,
		Observer: func(ev PhaseEvent) { events = append(events, ev) },
	})
	if code != ExitOK {
		t.Fatalf("exit = %d", code)
	}

	var names []string
	for _, ev := range events {
		if ev.Status == PhaseEnd {
			names = append(names, ev.Name)
		}
	}
	if want := []string{PhaseRoute, PhaseCompile, PhaseClose}; !reflect.DeepEqual(names, want) {
		t.Errorf("phases = %v, want %v", names, want)
	}
	for _, want := range []string{"timings:", PhaseRoute, PhaseCompile, PhaseClose, "total"} {
		if !strings.Contains(timings.String(), want) {
			t.Errorf("timings missing %q: %s", want, timings.String())
		}
	}
}

func TestRunRequiresService(t *testing.T) {
	var stderr bytes.Buffer
	if code := Run(context.Background(), nil, Options{Stderr: &stderr}); code != ExitFailure {
		t.Errorf("exit = %d", code)
	}
}

func TestRunArgumentErrorRenderedAsError(t *testing.T) {
	tests := []struct {
		color bool
		want  string
	}{
		{color: false, want: "error: -Tnowarnregex requires an argument"},
		{color: true, want: "\x1b[31;1merror"},
	}
	for _, tt := range tests {
		var stderr bytes.Buffer
		svc := &fakeService{options: compiler.DefaultOptions}
		code := Run(context.Background(), []string{"A.java", "-Tnowarnregex"}, Options{Service: svc, Stderr: &stderr, Color: tt.color})
		if code != ExitFailure {
			t.Errorf("color=%v: exit = %d", tt.color, code)
		}
		if !strings.Contains(stderr.String(), tt.want) {
			t.Errorf("color=%v: stderr = %q, want %q", tt.color, stderr.String(), tt.want)
		}
	}
}
