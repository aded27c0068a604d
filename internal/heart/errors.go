package heart

import "fmt"

// ValidationError reports malformed input. The call is rejected before
// any state change; the caller may retry with corrected input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError reports an I/O failure during persistence. The in-memory
// state is unchanged; the failed write was not committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// CorruptionError reports an unparseable heart document. It is fatal:
// falling back to defaults would silently discard the user's history.
type CorruptionError struct {
	Path string
	Err  error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupt heart document %s: %v", e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }
