package execsvc

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Frame kinds written by the compiler process.
const (
	KindDiagnostic = "diagnostic"
	KindOutput     = "output"
)

// Frame is one message of the compiler process's stdout stream.
type Frame struct {
	Kind string `msgpack:"kind"`

	// Diagnostic frames.
	Severity string `msgpack:"severity,omitempty"`
	Message  string `msgpack:"message,omitempty"`
	Path     string `msgpack:"path,omitempty"`
	Line     int64  `msgpack:"line,omitempty"`
	Column   int64  `msgpack:"column,omitempty"`

	// Output frames.
	Source   string `msgpack:"source,omitempty"`
	Artifact string `msgpack:"artifact,omitempty"`
	Data     []byte `msgpack:"data,omitempty"`
}

// FrameWriter encodes frames for the compiler side of the protocol.
type FrameWriter struct {
	enc *msgpack.Encoder
}

func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{enc: msgpack.NewEncoder(w)}
}

// Diagnostic writes a diagnostic frame. line and column are 0 when unknown.
func (w *FrameWriter) Diagnostic(severity, message, path string, line, column int64) error {
	return w.enc.Encode(&Frame{
		Kind:     KindDiagnostic,
		Severity: severity,
		Message:  message,
		Path:     path,
		Line:     line,
		Column:   column,
	})
}

// Output writes an artifact frame.
func (w *FrameWriter) Output(source, artifact string, data []byte) error {
	return w.enc.Encode(&Frame{
		Kind:     KindOutput,
		Source:   source,
		Artifact: artifact,
		Data:     data,
	})
}
