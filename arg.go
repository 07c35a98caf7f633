package ioctl

import "unsafe"

// ArgKind tags the shape of the third ioctl argument.
type ArgKind uint8

const (
	ArgNone ArgKind = iota
	ArgValue
	ArgScalar
	ArgBuffer
)

func (k ArgKind) String() string {
	switch k {
	case ArgNone:
		return "none"
	case ArgValue:
		return "value"
	case ArgScalar:
		return "scalar"
	case ArgBuffer:
		return "buffer"
	}
	return "unknown"
}

// Arg is the third argument of an ioctl call. Scalar and buffer
// arguments reference memory that the primitive may overwrite.
type Arg struct {
	kind   ArgKind
	value  uintptr
	scalar Scalar
	buf    []byte
}

func NoArg() Arg {
	return Arg{kind: ArgNone}
}

func ValueArg(v uintptr) Arg {
	return Arg{kind: ArgValue, value: v}
}

// ScalarArg references cell, which must be exactly s.Size() bytes.
func ScalarArg(s Scalar, cell []byte) Arg {
	return Arg{kind: ArgScalar, scalar: s, buf: cell}
}

// BufferArg references b, which must not be empty.
func BufferArg(b []byte) Arg {
	return Arg{kind: ArgBuffer, buf: b}
}

func (a Arg) Kind() ArgKind { return a.kind }

// Value is the by-value argument; zero for other kinds.
func (a Arg) Value() uintptr { return a.value }

// Scalar is the width of a scalar reference.
func (a Arg) Scalar() Scalar { return a.scalar }

// Bytes is the referenced memory of a scalar or buffer argument.
// Writes through it are what the caller sees after the call.
func (a Arg) Bytes() []byte { return a.buf }

// Pointer is the address passed to the kernel, nil for value and
// absent arguments.
func (a Arg) Pointer() unsafe.Pointer {
	if (a.kind == ArgScalar || a.kind == ArgBuffer) && len(a.buf) > 0 {
		return unsafe.Pointer(&a.buf[0])
	}
	return nil
}

func (a Arg) validate() error {
	switch a.kind {
	case ArgNone, ArgValue:
		return nil
	case ArgScalar:
		if !a.scalar.valid() {
			return invalidf("unsupported scalar width %s", a.scalar)
		}
		if len(a.buf) != a.scalar.Size() {
			return invalidf("%s cell is %d bytes, want %d", a.scalar, len(a.buf), a.scalar.Size())
		}
		return nil
	case ArgBuffer:
		if len(a.buf) == 0 {
			return invalidf("empty buffer")
		}
		return nil
	}
	return invalidf("unknown argument kind %d", a.kind)
}
