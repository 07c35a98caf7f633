package ioctl

import (
	"runtime"

	"golang.org/x/sys/unix"
)

type syscallPrimitive struct{}

// Syscall resolves to the ioctl system call itself, issued through
// golang.org/x/sys/unix. It cannot fail.
func Syscall() (Primitive, error) {
	return syscallPrimitive{}, nil
}

func (syscallPrimitive) Ioctl(fd int, req uint, arg Arg) (int, unix.Errno) {
	var (
		r1    uintptr
		errno unix.Errno
	)
	if ptr := arg.Pointer(); ptr != nil {
		r1, _, errno = unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(ptr))
	} else {
		r1, _, errno = unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), arg.Value())
	}
	runtime.KeepAlive(arg.buf)
	if errno != 0 {
		return -1, errno
	}
	return int(r1), 0
}
