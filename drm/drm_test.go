package drm

import (
	"errors"
	"os"
	"testing"
	"unsafe"

	"github.com/NeowayLabs/ioctl"
	"golang.org/x/sys/unix"
)

type fakeCard struct {
	name, date, desc string
	caps             map[uint64]uint64
	calls            int
}

func fill(ptr, n uintptr, s string) {
	if ptr == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n), s)
}

func (f *fakeCard) Ioctl(fd int, req uint, arg ioctl.Arg) (int, unix.Errno) {
	f.calls++
	switch req {
	case uint(IOCTLVersion):
		v := (*version)(arg.Pointer())
		v.Major, v.Minor, v.Patch = 1, 6, 1
		fill(v.name, v.namelen, f.name)
		fill(v.date, v.datelen, f.date)
		fill(v.desc, v.desclen, f.desc)
		v.namelen = uintptr(len(f.name))
		v.datelen = uintptr(len(f.date))
		v.desclen = uintptr(len(f.desc))
	case uint(IOCTLGetCap):
		cp := (*capability)(arg.Pointer())
		val, ok := f.caps[cp.cap]
		if !ok {
			return -1, unix.EINVAL
		}
		cp.val = val
	default:
		return -1, unix.ENOTTY
	}
	return 0, 0
}

func newCard(t *testing.T, f *fakeCard) *Card {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	w.Close()
	c := New(ioctl.NewCaller(ioctl.Static(f)), r)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestVersion(t *testing.T) {
	f := &fakeCard{name: "i915", date: "20160425", desc: "Intel Graphics"}
	v, err := newCard(t, f).Version()
	if err != nil {
		t.Fatal(err)
	}
	want := Version{Major: 1, Minor: 6, Patch: 1, Name: "i915", Date: "20160425", Desc: "Intel Graphics"}
	if v != want {
		t.Errorf("got %+v, want %+v", v, want)
	}
	if f.calls != 2 {
		t.Errorf("%d calls, want 2", f.calls)
	}
}

func TestVersionEmptyStrings(t *testing.T) {
	v, err := newCard(t, &fakeCard{name: "vkms"}).Version()
	if err != nil {
		t.Fatal(err)
	}
	if v.Name != "vkms" || v.Date != "" || v.Desc != "" {
		t.Errorf("unexpected version %+v", v)
	}
}

func TestCapability(t *testing.T) {
	c := newCard(t, &fakeCard{caps: map[uint64]uint64{
		CapDumbBuffer:   1,
		CapCursorWidth:  256,
		CapCursorHeight: 256,
	}})
	if !c.HasDumbBuffer() {
		t.Error("card should support dumb buffers")
	}
	if w, err := c.Capability(CapCursorWidth); err != nil || w != 256 {
		t.Errorf("cursor width %d, %v", w, err)
	}
	if _, err := c.Capability(CapPrime); !errors.Is(err, unix.EINVAL) {
		t.Errorf("expected EINVAL, got %v", err)
	}

	c = newCard(t, &fakeCard{caps: map[uint64]uint64{CapDumbBuffer: 0}})
	if c.HasDumbBuffer() {
		t.Error("card should not support dumb buffers")
	}
}

func TestCodes(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("codes below are for 64 bit kernels")
	}
	if got := uint32(IOCTLVersion) & 0x3fffffff; got != 0x00406400 {
		t.Errorf("DRM_IOCTL_VERSION = %#x", uint32(IOCTLVersion))
	}
	if got := uint32(IOCTLGetCap) & 0x1fffffff; got != 0x0010640c {
		t.Errorf("DRM_IOCTL_GET_CAP = %#x", uint32(IOCTLGetCap))
	}
}

func TestAvailable(t *testing.T) {
	v, err := Available()
	if err != nil {
		t.Skipf("no DRM card: %v", err)
	}
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		t.Fatalf("failed to get driver version: %#v", v)
	}

	t.Logf("Driver name: %s", v.Name)
	t.Logf("Driver version: %d.%d.%d", v.Major, v.Minor, v.Patch)
	t.Logf("Driver date: %s", v.Date)
	t.Logf("Driver description: %s", v.Desc)
}
