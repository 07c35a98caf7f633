package ioctl

import "golang.org/x/sys/unix"

// Primitive is the operating system's ioctl. It follows the C contract:
// a negative return is a failure and errno holds its cause; any other
// return is passed back to the caller untouched.
type Primitive interface {
	Ioctl(fd int, req uint, arg Arg) (int, unix.Errno)
}

// PrimitiveFunc adapts a function to Primitive.
type PrimitiveFunc func(fd int, req uint, arg Arg) (int, unix.Errno)

func (f PrimitiveFunc) Ioctl(fd int, req uint, arg Arg) (int, unix.Errno) {
	return f(fd, req, arg)
}

// Resolver locates the primitive. A Caller runs it at most once.
type Resolver func() (Primitive, error)

// Static is a Resolver that always yields p.
func Static(p Primitive) Resolver {
	return func() (Primitive, error) {
		return p, nil
	}
}
