// Package drm queries Direct Rendering Manager devices under /dev/dri.
package drm

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"github.com/NeowayLabs/ioctl"
	"github.com/NeowayLabs/ioctl/linux"
)

type (
	// struct drm_version
	version struct {
		Major   int32
		Minor   int32
		Patch   int32
		namelen uintptr
		name    uintptr
		datelen uintptr
		date    uintptr
		desclen uintptr
		desc    uintptr
	}

	// Version of DRM driver
	Version struct {
		Major, Minor, Patch int32
		Name                string // Name of the driver (eg.: i915)
		Date                string
		Desc                string
	}

	capability struct {
		cap uint64
		val uint64
	}
)

const (
	CapDumbBuffer = iota + 1
	CapVBlankHighCRTC
	CapDumbPreferredDepth
	CapDumbPreferShadow
	CapPrime
	CapTimestampMonotonic
	CapAsyncPageFlip
	CapCursorWidth
	CapCursorHeight

	CapAddFB2Modifiers = 0x10
)

const (
	IOCTLBase = 'd'

	driPath = "/dev/dri"
)

var (
	// DRM_IOWR(0x00, struct drm_version)
	IOCTLVersion = linux.IOWROf[version](IOCTLBase, 0x00)

	// DRM_IOWR(0x0c, struct drm_get_cap)
	IOCTLGetCap = linux.IOWROf[capability](IOCTLBase, 0x0c)
)

// Card is an open DRM device node.
type Card struct {
	file   *os.File
	caller *ioctl.Caller
}

// Available opens card0 and returns its driver version.
func Available() (Version, error) {
	c, err := OpenCard(0)
	if err != nil {
		return Version{}, err
	}
	defer c.Close()
	return c.Version()
}

func OpenCard(n int) (*Card, error) {
	return open(fmt.Sprintf("%s/card%d", driPath, n))
}

func OpenControlDev(n int) (*Card, error) {
	return open(fmt.Sprintf("%s/controlD%d", driPath, n))
}

func OpenRenderDev(n int) (*Card, error) {
	return open(fmt.Sprintf("%s/renderD%d", driPath, n))
}

func open(path string) (*Card, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return New(nil, f), nil
}

// New wraps an open DRM device. A nil caller means ioctl.Default.
func New(c *ioctl.Caller, file *os.File) *Card {
	if c == nil {
		c = ioctl.Default
	}
	return &Card{file: file, caller: c}
}

func (c *Card) fd() int {
	return int(c.file.Fd())
}

// Fd returns the device descriptor.
func (c *Card) Fd() int {
	return c.fd()
}

func (c *Card) Caller() *ioctl.Caller {
	return c.caller
}

func (c *Card) Close() error {
	return c.file.Close()
}

// Version asks the driver twice: once for the string lengths and once
// to fill buffers of that size.
func (c *Card) Version() (Version, error) {
	var (
		v                = &version{}
		name, date, desc []byte
	)
	if _, err := ioctl.CallStruct(c.caller, c.fd(), uint(IOCTLVersion), v); err != nil {
		return Version{}, err
	}

	alloc := func(n uintptr) ([]byte, uintptr) {
		if n == 0 {
			return nil, 0
		}
		b := make([]byte, n+1)
		return b, uintptr(unsafe.Pointer(&b[0]))
	}
	name, v.name = alloc(v.namelen)
	date, v.date = alloc(v.datelen)
	desc, v.desc = alloc(v.desclen)

	_, err := ioctl.CallStruct(c.caller, c.fd(), uint(IOCTLVersion), v)
	runtime.KeepAlive(name)
	runtime.KeepAlive(date)
	runtime.KeepAlive(desc)
	if err != nil {
		return Version{}, err
	}

	return Version{
		Major: v.Major,
		Minor: v.Minor,
		Patch: v.Patch,
		Name:  cstring(name, v.namelen),
		Date:  cstring(date, v.datelen),
		Desc:  cstring(desc, v.desclen),
	}, nil
}

// remove C null bytes at end
func cstring(b []byte, n uintptr) string {
	if uintptr(len(b)) > n {
		b = b[:n]
	}
	return string(bytes.TrimRight(b, "\x00"))
}

// Capability returns the value of a DRM_CAP_* capability.
func (c *Card) Capability(capid uint64) (uint64, error) {
	cp := &capability{cap: capid}
	if _, err := ioctl.CallStruct(c.caller, c.fd(), uint(IOCTLGetCap), cp); err != nil {
		return 0, err
	}
	return cp.val, nil
}

func (c *Card) HasDumbBuffer() bool {
	v, err := c.Capability(CapDumbBuffer)
	if err != nil {
		return false
	}
	return v != 0
}
