package ioctl

import (
	"errors"
	"fmt"
	"sync"
)

// Logger receives debug output. Debug loggers with a leveled Debugf
// satisfy it as they are.
type Logger interface {
	Debugf(level uint8, format string, v ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(uint8, string, ...interface{}) {}

type Option func(*Caller)

// WithLogger sets the logger. Level 0 reports primitive resolution and
// level 1 reports failed calls.
func WithLogger(l Logger) Option {
	return func(c *Caller) {
		if l != nil {
			c.log = l
		}
	}
}

// Caller issues ioctl calls through one primitive. The primitive is
// resolved on first use; that result, success or failure, is kept for
// the life of the Caller. A Caller is safe for concurrent use.
type Caller struct {
	log       Logger
	primitive func() (Primitive, error)
}

func NewCaller(resolve Resolver, options ...Option) *Caller {
	c := &Caller{log: nopLogger{}}
	for _, o := range options {
		o(c)
	}
	c.primitive = sync.OnceValues(func() (Primitive, error) {
		if resolve == nil {
			return nil, fmt.Errorf("%w: no resolver", ErrUnavailable)
		}
		p, err := resolve()
		if err == nil && p == nil {
			err = errors.New("resolver returned no primitive")
		}
		if err != nil {
			c.log.Debugf(0, "ioctl primitive unavailable: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		c.log.Debugf(0, "ioctl primitive resolved: %T", p)
		return p, nil
	})
	return c
}

// Default issues system calls directly.
var Default = NewCaller(Syscall)

// Ioctl validates its arguments, then invokes the primitive. A negative
// return from the primitive becomes an *OSError; anything else is
// returned as is, since some requests report results through it.
func (c *Caller) Ioctl(fd int, req uint, arg Arg) (int, error) {
	if err := ValidateFD(fd); err != nil {
		return 0, err
	}
	if err := ValidateRequest(req); err != nil {
		return 0, err
	}
	if err := arg.validate(); err != nil {
		return 0, err
	}
	p, err := c.primitive()
	if err != nil {
		return 0, err
	}
	ret, errno := p.Ioctl(fd, req, arg)
	if ret < 0 {
		oserr := &OSError{Fd: fd, Request: req, Errno: errno}
		c.log.Debugf(1, "%v", oserr)
		return ret, oserr
	}
	return ret, nil
}

func Ioctl(fd int, req uint, arg Arg) (int, error) {
	return Default.Ioctl(fd, req, arg)
}
