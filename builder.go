package ioctl

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// scalarFor maps an integer type to the Scalar of the same width and
// signedness. int, uint and uintptr take the host word size.
func scalarFor[T constraints.Integer]() Scalar {
	var zero T
	signed := zero-1 < zero
	return scalarOf(unsafe.Sizeof(zero), signed)
}

type bound[T constraints.Integer] struct {
	c      *Caller
	req    uint
	scalar Scalar
}

func bind[T constraints.Integer](c *Caller, req uint) bound[T] {
	if c == nil {
		c = Default
	}
	return bound[T]{c: c, req: req, scalar: scalarFor[T]()}
}

func (b bound[T]) call(fd int, v T) (T, error) {
	_, raw, err := b.c.CallScalar(fd, b.req, b.scalar, uint64(v))
	return T(raw), err
}

// Reader issues a request whose argument is a pointer the kernel fills
// with a T.
type Reader[T constraints.Integer] struct{ b bound[T] }

// NewReader binds req to a T-sized pointer argument. A nil Caller means
// Default.
func NewReader[T constraints.Integer](c *Caller, req uint) *Reader[T] {
	return &Reader[T]{bind[T](c, req)}
}

func (r *Reader[T]) Read(fd int) (T, error) {
	return r.b.call(fd, 0)
}

// Writer issues a request whose argument is a pointer to a T the kernel
// reads.
type Writer[T constraints.Integer] struct{ b bound[T] }

func NewWriter[T constraints.Integer](c *Caller, req uint) *Writer[T] {
	return &Writer[T]{bind[T](c, req)}
}

func (w *Writer[T]) Write(fd int, v T) error {
	_, err := w.b.call(fd, v)
	return err
}

// ReadWriter passes a pointer to a T that the kernel reads and then
// overwrites, and returns the new value.
type ReadWriter[T constraints.Integer] struct{ b bound[T] }

func NewReadWriter[T constraints.Integer](c *Caller, req uint) *ReadWriter[T] {
	return &ReadWriter[T]{bind[T](c, req)}
}

func (rw *ReadWriter[T]) ReadWrite(fd int, v T) (T, error) {
	return rw.b.call(fd, v)
}

// Valuer passes a T by value, as in ioctl(fd, LOOP_SET_FD, filefd).
type Valuer[T constraints.Integer] struct {
	c   *Caller
	req uint
}

func NewValuer[T constraints.Integer](c *Caller, req uint) *Valuer[T] {
	if c == nil {
		c = Default
	}
	return &Valuer[T]{c: c, req: req}
}

func (v *Valuer[T]) Set(fd int, value T) error {
	_, err := v.c.CallValue(fd, v.req, uintptr(value))
	return err
}
