package exec

import "errors"

// Sentinel error kinds the executor distinguishes, per spec §7.
var (
	ErrIoError = errors.New("exec: io error")
)

// IoError wraps a file-level failure with the offending path, so one bad
// file in a multi-file invocation does not prevent the others from being
// processed (spec §7: "Fatal for that file; other files still processed").
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string { return "exec: io error: " + e.Path + ": " + e.Err.Error() }

func (e *IoError) Unwrap() error { return e.Err }
