package bookmark

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyURL = errors.New("article url is empty")
)

// Kind classifies a storage fault.
type Kind int

const (
	KindRead Kind = iota + 1
	KindDecode
	KindEncode
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Error is the outcome of an operation that hit a storage fault.
// The operation has already returned its safe default when this is reported.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bookmark %s: %s failed: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsStorageError reports whether err came from the underlying storage
// rather than from invalid input.
func IsStorageError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
