// Package diag defines the diagnostic model shared by the compilation
// service, the filter chain and the console reporter.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – error, mandatory warning, warning, note or other.
//   - Message – the compiler's text, never rewritten.
//   - Location – optional path/line/column of the offending source.
//
// Diagnostics are produced by the compilation service and are never mutated
// afterwards; downstream code only filters and renders them.
//
// # Emitting diagnostics
//
// Producers write to a diag.Reporter. The console session in internal/diagfmt
// is the production sink; NopReporter stands in when no sink is given.
//
// # Consumers
//
//   - internal/diagfilter: decides which diagnostics are suppressed.
//   - internal/diagfmt: renders survivors to the console.
//   - internal/compiler/execsvc: decodes diagnostics from the compiler process.
package diag
