package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	clock := time.Unix(0, 0)
	tm := NewTimer()
	tm.now = func() time.Time { return clock }

	route := tm.Begin("route")
	clock = clock.Add(2 * time.Millisecond)
	tm.End(route, "")
	compile := tm.Begin("compile")
	clock = clock.Add(10 * time.Millisecond)
	tm.End(compile, "failed")
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].DurationMS != 2 || report.Phases[1].DurationMS != 10 {
		t.Errorf("unexpected durations: %+v", report.Phases)
	}
	if report.TotalMS != 12 {
		t.Errorf("TotalMS = %v, want 12", report.TotalMS)
	}

	summary := tm.Summary()
	for _, want := range []string{"timings:", "route", "compile", "// failed", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	idx := tm.Begin("route")
	tm.End(idx, "")
	if got := tm.Report(); len(got.Phases) != 0 {
		t.Errorf("nil timer report = %+v", got)
	}
}

func TestSummaryAlignsWideNames(t *testing.T) {
	clock := time.Unix(0, 0)
	tm := NewTimer()
	tm.now = func() time.Time { return clock }
	tm.End(tm.Begin("编译"), "")
	tm.End(tm.Begin("route"), "")

	lines := strings.Split(strings.TrimSuffix(tm.Summary(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("unexpected summary:\n%s", tm.Summary())
	}
	if want := "  编译       "; !strings.HasPrefix(lines[1], want) {
		t.Errorf("wide name not padded by display width: %q", lines[1])
	}
	if want := "  route      "; !strings.HasPrefix(lines[2], want) {
		t.Errorf("ascii name not padded: %q", lines[2])
	}
}
