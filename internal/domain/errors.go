package domain

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	ErrNoReturnAddress = errors.New("cannot reply without receiving first")
	ErrShortWrite      = errors.New("sent incorrect length")
	ErrInvalidSession  = errors.New("invalid session id")
)

// ExitError is a controlled exit: the carried status becomes the process exit
// status without an error message. Returning it instead of calling os.Exit
// lets deferred cleanup (unlinking bound sockets) run.
type ExitError struct {
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Status)
}

func Exit(status int) error {
	return &ExitError{Status: status}
}

// OSError tags a failing system call with the call name and errno so callers
// can match the two expected races: sendmsg/ENOENT and bind/EADDRINUSE.
type OSError struct {
	Call    string
	Errno   unix.Errno
	Context string
	Err     error
}

func (e *OSError) Error() string {
	msg := e.Call + "()"
	if e.Errno != 0 {
		msg += ": " + e.Errno.Error()
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Context != "" {
		msg += ": " + e.Context
	}
	return msg
}

func (e *OSError) Unwrap() error {
	return e.Err
}

// NewOSError wraps err, extracting the errno when the chain carries one.
func NewOSError(call string, err error, context string) *OSError {
	var errno unix.Errno
	errors.As(err, &errno)
	return &OSError{Call: call, Errno: errno, Context: context, Err: err}
}

func isCall(err error, call string, errno unix.Errno) bool {
	var osErr *OSError
	if !errors.As(err, &osErr) {
		return false
	}
	return osErr.Call == call && osErr.Errno == errno
}

// IsNotFound reports whether a send failed because no receiver is bound at
// the destination.
func IsNotFound(err error) bool {
	return isCall(err, "sendmsg", unix.ENOENT)
}

// IsAddressInUse reports whether a bind failed because the address is
// already claimed.
func IsAddressInUse(err error) bool {
	return isCall(err, "bind", unix.EADDRINUSE)
}
