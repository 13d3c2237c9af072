// Package trace provides the tracing subsystem of trackc.
//
// Tracing records what the wrapper did during a run: argument routing, the
// compilation call, artifacts observed and diagnostics suppressed. It is the
// tool's structured log and is disabled unless configured.
//
// # Usage
//
// Enable tracing in trackc.toml:
//
//	[trace]
//	level = "phase"
//	output = "trace.ndjson"
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only failures
//   - LevelPhase: Driver phase boundaries
//   - LevelDetail: Per-artifact events
//   - LevelDebug: Everything including per-diagnostic events
//
// # Scopes
//
//   - ScopeDriver: Whole run
//   - ScopePhase: route, compile, close
//   - ScopeArtifact: One recorded artifact
//   - ScopeDiagnostic: One suppressed or rendered diagnostic
//
// # Spans
//
// The tracer travels in the context; spans nest under the run's root span:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	run := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "run")
//	compile := run.Child(trace.ScopePhase, "compile")
//	compile.End("")
//	run.End("")
package trace
