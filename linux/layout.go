package linux

import (
	"fmt"

	"github.com/NeowayLabs/ioctl"
)

// To decode a hex IOCTL code:
//
// Most architectures use this generic format, but check
// include/ARCH/ioctl.h for specifics, e.g. powerpc
// uses 3 bits to encode read/write and 13 bits for size.
//
//  bits    meaning
//  31-30	00 - no parameters: uses _IO macro
// 	10 - read: _IOR
// 	01 - write: _IOW
// 	11 - read/write: _IOWR
//
//  29-16	size of arguments
//
//  15-8	ascii character supposedly
// 	unique to each driver
//
//  7-0	function #
//
// So for example 0x82187201 is a read with arg length of 0x218,
// character 'r' function 1. Grepping the source reveals this is:
//
// #define VFAT_IOCTL_READDIR_BOTH         _IOR('r', 1, struct dirent [2])
// source: https://www.kernel.org/doc/Documentation/ioctl/ioctl-decoding.txt

// Code is an encoded ioctl request number.
type Code uint32

// Direction says which way data flows, seen from userland.
type Direction uint8

const (
	None Direction = iota
	Write
	Read
	ReadWrite
)

func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Write:
		return "w"
	case Read:
		return "r"
	case ReadWrite:
		return "rw"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

func (d Direction) valid() bool {
	return d <= ReadWrite
}

// ParseDirection maps a direction token to a Direction. The accepted
// tokens are "" and "n" (none), "r", "w" and "rw". Anything else,
// including "wr", is rejected.
func ParseDirection(tok string) (Direction, error) {
	switch tok {
	case "", "n":
		return None, nil
	case "r":
		return Read, nil
	case "w":
		return Write, nil
	case "rw":
		return ReadWrite, nil
	}
	return 0, fmt.Errorf("%w: unsupported direction %q", ioctl.ErrInvalidArgument, tok)
}

// Layout describes how an architecture family packs the request fields.
// None, Read and Write are the raw direction bits; read/write is
// Read|Write.
type Layout struct {
	Name     string
	NRBits   uint
	TypeBits uint
	SizeBits uint
	DirBits  uint

	None  uint32
	Read  uint32
	Write uint32
}

// Fields is a request code split into its components.
type Fields struct {
	Dir  Direction
	Type uint8
	Nr   uint8
	Size uint32
}

func (f Fields) String() string {
	return fmt.Sprintf("dir=%s type=0x%02x nr=0x%02x size=%d", f.Dir, f.Type, f.Nr, f.Size)
}

func (l *Layout) NRShift() uint   { return 0 }
func (l *Layout) TypeShift() uint { return l.NRShift() + l.NRBits }
func (l *Layout) SizeShift() uint { return l.TypeShift() + l.TypeBits }
func (l *Layout) DirShift() uint  { return l.SizeShift() + l.SizeBits }

func (l *Layout) NRMask() uint32   { return 1<<l.NRBits - 1 }
func (l *Layout) TypeMask() uint32 { return 1<<l.TypeBits - 1 }
func (l *Layout) SizeMask() uint32 { return 1<<l.SizeBits - 1 }
func (l *Layout) DirMask() uint32  { return 1<<l.DirBits - 1 }

// MaxSize is the largest payload size the layout can encode.
func (l *Layout) MaxSize() uint32 {
	return l.SizeMask()
}

func (l *Layout) dirBits(d Direction) uint32 {
	switch d {
	case Read:
		return l.Read
	case Write:
		return l.Write
	case ReadWrite:
		return l.Read | l.Write
	}
	return l.None
}

// IOC builds a request code. The type is truncated to its low byte the
// same way the kernel macros do it, so IOC(Write, 'E', ...) and
// IOC(Write, 0x145, ...) encode the same type.
func (l *Layout) IOC(dir Direction, typ rune, nr uint8, size uint32) (Code, error) {
	if !dir.valid() {
		return 0, fmt.Errorf("%w: invalid ioctl direction %d", ioctl.ErrInvalidArgument, uint8(dir))
	}
	if size > l.MaxSize() {
		return 0, fmt.Errorf("%w: ioctl size %d exceeds %d bits on %s",
			ioctl.ErrInvalidArgument, size, l.SizeBits, l.Name)
	}

	var code uint32
	code = code | (l.dirBits(dir) << l.DirShift())
	code = code | (size << l.SizeShift())
	code = code | ((uint32(typ) & l.TypeMask()) << l.TypeShift())
	code = code | (uint32(nr) << l.NRShift())
	return Code(code), nil
}

func (l *Layout) mustIOC(dir Direction, typ rune, nr uint8, size uint32) Code {
	code, err := l.IOC(dir, typ, nr, size)
	if err != nil {
		panic(err)
	}
	return code
}

// IO defines an ioctl with no parameters (_IO).
func (l *Layout) IO(typ rune, nr uint8) Code {
	return l.mustIOC(None, typ, nr, 0)
}

// IOR defines an ioctl that reads size bytes from the kernel (_IOR).
// It panics if size does not fit the layout; use IOC to get an error
// instead.
func (l *Layout) IOR(typ rune, nr uint8, size uint32) Code {
	return l.mustIOC(Read, typ, nr, size)
}

// IOW defines an ioctl that writes size bytes to the kernel (_IOW).
func (l *Layout) IOW(typ rune, nr uint8, size uint32) Code {
	return l.mustIOC(Write, typ, nr, size)
}

// IOWR defines an ioctl with both read and write parameters (_IOWR).
func (l *Layout) IOWR(typ rune, nr uint8, size uint32) Code {
	return l.mustIOC(ReadWrite, typ, nr, size)
}

// Decode splits code into its fields. It fails when the direction bits
// are not one of the layout's four values.
func (l *Layout) Decode(code Code) (Fields, error) {
	c := uint32(code)
	f := Fields{
		Type: uint8((c >> l.TypeShift()) & l.TypeMask()),
		Nr:   uint8((c >> l.NRShift()) & l.NRMask()),
		Size: (c >> l.SizeShift()) & l.SizeMask(),
	}
	raw := (c >> l.DirShift()) & l.DirMask()
	switch raw {
	case l.None:
		f.Dir = None
	case l.Read:
		f.Dir = Read
	case l.Write:
		f.Dir = Write
	case l.Read | l.Write:
		f.Dir = ReadWrite
	default:
		return Fields{}, fmt.Errorf("%w: direction bits %#x of %#08x undefined on %s",
			ioctl.ErrInvalidArgument, raw, c, l.Name)
	}
	return f, nil
}

func (l *Layout) String() string {
	return fmt.Sprintf("%s (nr:%d type:%d size:%d dir:%d)",
		l.Name, l.NRBits, l.TypeBits, l.SizeBits, l.DirBits)
}
