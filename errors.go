package ioctl

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrInvalidArgument reports a malformed fd, request, direction,
	// width or length. It is always detected before the system call.
	ErrInvalidArgument = errors.New("ioctl: invalid argument")

	// ErrUnavailable reports that the ioctl primitive itself could not
	// be resolved. It is permanent for the Caller that returned it.
	ErrUnavailable = errors.New("ioctl: primitive unavailable")
)

func invalidf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidArgument}, a...)...)
}

// OSError is a failure reported by the ioctl primitive for one call.
type OSError struct {
	Fd      int
	Request uint
	Errno   unix.Errno
}

func (e *OSError) Error() string {
	return fmt.Sprintf("ioctl(%d, 0x%x): %s", e.Fd, e.Request, e.Errno.Error())
}

func (e *OSError) Unwrap() error {
	return e.Errno
}

// Code is the errno value.
func (e *OSError) Code() int {
	return int(e.Errno)
}

// Description is the system's text for the errno value.
func (e *OSError) Description() string {
	return e.Errno.Error()
}
