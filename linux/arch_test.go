package linux

import (
	"errors"
	"runtime"
	"testing"

	"github.com/NeowayLabs/ioctl"
)

func TestLayoutFor(t *testing.T) {
	generic := []string{
		"386", "amd64", "arm", "arm64", "riscv64", "s390x", "loong64",
		"i386", "i686", "x86_64", "armv6l", "armv7l", "aarch64", "loongarch64",
		"X86_64",
	}
	for _, arch := range generic {
		l, err := LayoutFor(arch)
		if err != nil {
			t.Errorf("%s: %v", arch, err)
			continue
		}
		if l.SizeBits != 14 || l.DirBits != 2 || l.None != 0 {
			t.Errorf("%s: got layout %s", arch, l)
		}
	}

	powerpc := []string{
		"ppc", "ppc64", "ppc64le", "powerpc", "mips", "mipsle", "mips64",
		"mips64le", "sparc", "sparc64", "alpha",
	}
	for _, arch := range powerpc {
		l, err := LayoutFor(arch)
		if err != nil {
			t.Errorf("%s: %v", arch, err)
			continue
		}
		if l.SizeBits != 13 || l.DirBits != 3 || l.None != 1 {
			t.Errorf("%s: got layout %s", arch, l)
		}
	}
}

func TestLayoutForUnknown(t *testing.T) {
	for _, arch := range []string{"", "wasm", "vax", "i386x"} {
		_, err := LayoutFor(arch)
		if !errors.Is(err, ErrUnknownArch) || !errors.Is(err, ioctl.ErrInvalidArgument) {
			t.Errorf("%q: expected ErrUnknownArch, got %v", arch, err)
		}
	}
}

func TestLayoutForCopies(t *testing.T) {
	l, err := LayoutFor("x86_64")
	if err != nil {
		t.Fatal(err)
	}
	l.SizeBits = 1
	if Generic.SizeBits != 14 {
		t.Fatal("LayoutFor returned the shared Generic layout")
	}
}

func TestNative(t *testing.T) {
	l, err := LayoutFor(runtime.GOARCH)
	if err != nil {
		t.Fatal(err)
	}
	if *l != *Native {
		t.Errorf("Native is %s, want %s", Native, l)
	}
}

func TestNativeUnknownArch(t *testing.T) {
	l := nativeLayout("wasm")
	if l.Name != "wasm" || l.SizeBits != Generic.SizeBits || l.DirBits != Generic.DirBits {
		t.Errorf("wasm got %s, want the generic layout", l)
	}
	if l == &Generic {
		t.Error("nativeLayout returned the shared Generic layout")
	}
	if l = nativeLayout("mips64le"); l.DirBits != 3 {
		t.Errorf("mips64le got %s", l)
	}
}

func TestResolveHostLayout(t *testing.T) {
	kernel := func(arch string, err error) func() (string, error) {
		return func() (string, error) { return arch, err }
	}

	l, err := resolveHostLayout(kernel("ppc64le", nil), "amd64")
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "ppc64le" {
		t.Errorf("kernel arch ignored: %s", l)
	}

	l, err = resolveHostLayout(kernel("", errors.New("no uname")), "arm64")
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "arm64" {
		t.Errorf("GOARCH fallback not used: %s", l)
	}

	l, err = resolveHostLayout(kernel("vax", nil), "mips")
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "mips" {
		t.Errorf("GOARCH fallback not used: %s", l)
	}

	if _, err = resolveHostLayout(kernel("vax", nil), "wasm"); !errors.Is(err, ErrUnknownArch) {
		t.Errorf("expected ErrUnknownArch, got %v", err)
	}
}

func TestHostLayout(t *testing.T) {
	a, err := HostLayout()
	if err != nil {
		t.Fatal(err)
	}
	b, err := HostLayout()
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("HostLayout resolved twice")
	}
	// A 32-bit userland on a 64-bit kernel still shares its family.
	if a.SizeBits != Native.SizeBits || a.DirBits != Native.DirBits {
		t.Errorf("host layout %s differs from native %s", a, Native)
	}
}
