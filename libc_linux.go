package ioctl

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

var libcNames = []string{"libc.so.6", "libc.so"}

type libcPrimitive struct {
	ioctl         uintptr
	errnoLocation uintptr
}

// Libc resolves ioctl from the C library loaded at run time, for
// programs that need to go through the same entry point as C code
// (LD_PRELOAD shims, seccomp wrappers). It fails when no C library can
// be opened.
func Libc() (Primitive, error) {
	var errs []error
	for _, name := range libcNames {
		handle, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p, err := libcSymbols(handle)
		if err != nil {
			purego.Dlclose(handle)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		return p, nil
	}
	return nil, fmt.Errorf("unable to get ioctl from the C library: %w", errors.Join(errs...))
}

func libcSymbols(handle uintptr) (*libcPrimitive, error) {
	fn, err := purego.Dlsym(handle, "ioctl")
	if err != nil {
		return nil, err
	}
	loc, err := purego.Dlsym(handle, "__errno_location")
	if err != nil {
		return nil, err
	}
	return &libcPrimitive{ioctl: fn, errnoLocation: loc}, nil
}

func (p *libcPrimitive) Ioctl(fd int, req uint, arg Arg) (int, unix.Errno) {
	// errno is per thread: read it on the thread that made the call.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var r1 uintptr
	if ptr := arg.Pointer(); ptr != nil {
		r1, _, _ = purego.SyscallN(p.ioctl, uintptr(fd), uintptr(req), uintptr(ptr))
	} else {
		r1, _, _ = purego.SyscallN(p.ioctl, uintptr(fd), uintptr(req), arg.Value())
	}
	runtime.KeepAlive(arg.buf)

	ret := int(int32(r1))
	if ret >= 0 {
		return ret, 0
	}
	loc, _, _ := purego.SyscallN(p.errnoLocation)
	// loc is the address of libc's thread-local errno, not Go memory.
	return ret, unix.Errno(*(*int32)(unsafe.Pointer(loc)))
}
