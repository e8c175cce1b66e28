package types

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedRecord      = errors.New("truncated record")
	ErrSegmentAlreadyExists = errors.New("segment already exists")
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
	ErrClock                = errors.New("system clock before unix epoch")
)

// IOError wraps a filesystem or stream failure with the operation and path
// that produced it.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError returns nil when err is nil.
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}
