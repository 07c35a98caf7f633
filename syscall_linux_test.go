package ioctl_test

import (
	"errors"
	"os"
	"testing"

	"github.com/NeowayLabs/ioctl"
	"golang.org/x/sys/unix"
)

func pipe(t *testing.T) (*os.File, *os.File) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return r, w
}

func testPrimitive(t *testing.T, resolve ioctl.Resolver) {
	c := ioctl.NewCaller(resolve, ioctl.WithLogger(newTestLogger(t)))
	r, w := pipe(t)
	if _, err := w.Write([]byte("abc")); err != nil {
		t.Fatal(err)
	}

	ret, n, err := c.CallInt(int(r.Fd()), unix.TIOCINQ, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ret != 0 || n != 3 {
		t.Errorf("FIONREAD = (%d, %d), want (0, 3)", ret, n)
	}

	_, err = c.Call(int(r.Fd()), unix.TIOCEXCL)
	if !errors.Is(err, unix.ENOTTY) {
		t.Errorf("expected ENOTTY on a pipe, got %v", err)
	}
	var oserr *ioctl.OSError
	if errors.As(err, &oserr) && oserr.Description() == "" {
		t.Error("empty error description")
	}
}

func TestSyscallPrimitive(t *testing.T) {
	testPrimitive(t, ioctl.Syscall)
}

func TestLibcPrimitive(t *testing.T) {
	if _, err := ioctl.Libc(); err != nil {
		t.Skipf("no C library: %v", err)
	}
	testPrimitive(t, ioctl.Libc)
}

func TestDefaultCaller(t *testing.T) {
	r, w := pipe(t)
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	_, n, err := ioctl.CallInt(int(r.Fd()), unix.TIOCINQ, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("FIONREAD = %d, want 5", n)
	}
	if _, _, err := ioctl.CallBuffer(int(r.Fd()), unix.TIOCINQ, nil, 4); err != nil {
		t.Fatal(err)
	}
}

func TestClosedFD(t *testing.T) {
	r, _ := pipe(t)
	fd := int(r.Fd())
	r.Close()
	if _, _, err := ioctl.CallInt(fd, unix.TIOCINQ, 0); !errors.Is(err, unix.EBADF) {
		t.Errorf("expected EBADF, got %v", err)
	}
}
