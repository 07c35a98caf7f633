//go:build !linux

package ioctl

import (
	"fmt"
	"runtime"
)

func Syscall() (Primitive, error) {
	return nil, fmt.Errorf("ioctl system call not supported on %s", runtime.GOOS)
}

func Libc() (Primitive, error) {
	return nil, fmt.Errorf("C library ioctl not supported on %s", runtime.GOOS)
}
