package diag

// Reporter is the sink that receives diagnostics from the compilation service.
// Implementations must be safe for concurrent use: a service may report from
// several goroutines.
type Reporter interface {
	Report(d Diagnostic)
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
