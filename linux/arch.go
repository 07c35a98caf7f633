package linux

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/NeowayLabs/ioctl"
	"github.com/shirou/gopsutil/v4/host"
)

// ErrUnknownArch is returned for an architecture name with no known
// layout.
var ErrUnknownArch = fmt.Errorf("%w: unknown architecture", ioctl.ErrInvalidArgument)

var (
	// Generic is include/uapi/asm-generic/ioctl.h, used by x86, arm,
	// arm64, riscv, s390 and loongarch.
	Generic = Layout{
		Name:     "generic",
		NRBits:   8,
		TypeBits: 8,
		SizeBits: 14,
		DirBits:  2,
		None:     0,
		Write:    1,
		Read:     2,
	}

	// PowerPC also covers mips, sparc and alpha: 13 size bits, 3
	// direction bits and a non-zero "none".
	PowerPC = Layout{
		Name:     "powerpc",
		NRBits:   8,
		TypeBits: 8,
		SizeBits: 13,
		DirBits:  3,
		None:     1,
		Read:     2,
		Write:    4,
	}
)

// Native is the layout of the architecture this binary was built for.
// A GOARCH without a Linux kernel (wasm) gets the generic layout, so
// importing this package never panics; such targets have no ioctl to
// send the codes to.
var Native = nativeLayout(runtime.GOARCH)

func nativeLayout(goarch string) *Layout {
	l, err := LayoutFor(goarch)
	if err != nil {
		return layout(Generic, goarch)
	}
	return l
}

// LayoutFor returns the layout for an architecture. Both Go GOARCH
// names (amd64, mips64le) and kernel machine names (x86_64, armv7l,
// ppc64le) are accepted.
func LayoutFor(arch string) (*Layout, error) {
	a := strings.ToLower(strings.TrimSpace(arch))
	switch {
	case a == "":
		return nil, fmt.Errorf("%w: empty name", ErrUnknownArch)
	case a == "386", a == "amd64", a == "x86", a == "x86_64",
		len(a) == 4 && a[0] == 'i' && strings.HasSuffix(a, "86"):
		return layout(Generic, a), nil
	case strings.HasPrefix(a, "arm"), a == "aarch64", a == "aarch64_be":
		return layout(Generic, a), nil
	case strings.HasPrefix(a, "riscv"), strings.HasPrefix(a, "s390"),
		strings.HasPrefix(a, "loong"):
		return layout(Generic, a), nil
	case strings.HasPrefix(a, "ppc"), strings.HasPrefix(a, "powerpc"),
		strings.HasPrefix(a, "mips"), strings.HasPrefix(a, "sparc"),
		a == "alpha":
		return layout(PowerPC, a), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownArch, arch)
}

func layout(family Layout, arch string) *Layout {
	l := family
	l.Name = arch
	return &l
}

var hostLayout = sync.OnceValues(func() (*Layout, error) {
	return resolveHostLayout(host.KernelArch, runtime.GOARCH)
})

// HostLayout returns the layout of the running kernel. It is resolved
// once per process.
func HostLayout() (*Layout, error) {
	return hostLayout()
}

func resolveHostLayout(kernelArch func() (string, error), goarch string) (*Layout, error) {
	arch, err := kernelArch()
	if err == nil && arch != "" {
		l, lerr := LayoutFor(arch)
		if lerr == nil {
			return l, nil
		}
		err = lerr
	}
	l, gerr := LayoutFor(goarch)
	if gerr != nil {
		return nil, errors.Join(err, gerr)
	}
	return l, nil
}
