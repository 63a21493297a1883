package stagez

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"os"
	"syscall"
	"time"
)

// Kind is the category of a stage failure. The set is closed: every failure
// is a network failure, an I/O failure, or something else carried as an
// arbitrary cause.
type Kind int

// Failure categories.
const (
	KindOther Kind = iota
	KindNetwork
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindIO:
		return "io"
	default:
		return "other"
	}
}

// Kind sentinels for use with errors.Is.
//
//	if errors.Is(err, stagez.ErrIO) {
//	    // disk full, permission denied, ...
//	}
var (
	ErrNetwork = &Error{Kind: KindNetwork}
	ErrIO      = &Error{Kind: KindIO}
	ErrOther   = &Error{Kind: KindOther}
)

// ErrPanic is the cause recorded when an adapter stage recovers a panic.
var ErrPanic = errors.New("stage panicked")

// Error is the single error type produced by stages. It records which
// category the failure belongs to, which stage produced it, and the
// underlying cause.
//
// Connectors never wrap an Error: the value returned from a pipeline is the
// exact value produced by the leaf that failed.
type Error struct {
	Timestamp time.Time
	Err       error
	Stage     Name
	Duration  time.Duration
	Kind      Kind
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, providing a detailed error message.
func (e *Error) Error() string {
	location := fmt.Sprintf("stage %q", e.Stage)
	if e.Stage == "" {
		location = "stage"
	}

	cause := e.Kind.String() + " failure"
	if e.Err != nil {
		cause = fmt.Sprintf("%s failure: %v", e.Kind, e.Err)
	}

	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %s", location, e.Duration, cause)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %s", location, e.Duration, cause)
	}
	return fmt.Sprintf("%s failed after %v: %s", location, e.Duration, cause)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork, ErrIO, ErrOther:
		return e.Kind == target.(*Error).Kind
	}
	return false
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *Error) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// NewNetworkError reports a transport level failure. cause may be nil.
func NewNetworkError(stage Name, cause error) *Error {
	return newError(KindNetwork, stage, cause)
}

// NewIOError reports a failure of the underlying platform I/O.
func NewIOError(stage Name, cause error) *Error {
	return newError(KindIO, stage, cause)
}

// NewOtherError reports a failure that is neither network nor I/O, keeping
// the original cause for inspection.
func NewOtherError(stage Name, cause error) *Error {
	return newError(KindOther, stage, cause)
}

func newError(kind Kind, stage Name, cause error) *Error {
	return &Error{
		Kind:      kind,
		Stage:     stage,
		Err:       cause,
		Timestamp: time.Now(),
		Timeout:   errors.Is(cause, context.DeadlineExceeded),
		Canceled:  errors.Is(cause, context.Canceled),
	}
}

// Classify maps an arbitrary error into the closed taxonomy. An error that
// already is (or wraps) an *Error is returned as that *Error. Returns nil for
// a nil err.
//
// Leaf stages that call into other libraries use Classify so composed
// pipelines only ever see *Error values:
//
//	resp, err := client.Do(req)
//	if err != nil {
//	    return nil, stagez.Classify("fetch", err)
//	}
func Classify(stage Name, err error) *Error {
	if err == nil {
		return nil
	}

	var stageErr *Error
	if errors.As(err, &stageErr) {
		return stageErr
	}

	return newError(kindOf(err), stage, err)
}

func kindOf(err error) Kind {
	// A url.Error is only as much a transport failure as what it wraps.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Op == "parse" || urlErr.Err == nil {
			return KindOther
		}
		return kindOf(urlErr.Err)
	}

	var (
		opErr   *net.OpError
		dnsErr  *net.DNSError
		pathErr *fs.PathError
		linkErr *os.LinkError
		sysErr  *os.SyscallError
	)

	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr),
		errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return KindNetwork
	case errors.As(err, &pathErr), errors.As(err, &linkErr), errors.As(err, &sysErr),
		errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission), errors.Is(err, fs.ErrExist),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.ErrShortWrite):
		return KindIO
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindOther
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	return KindOther
}
