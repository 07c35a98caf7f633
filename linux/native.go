package linux

import "unsafe"

// IO defines an ioctl with no parameters for the Native layout.
func IO(typ rune, nr uint8) Code {
	return Native.IO(typ, nr)
}

// IOR defines an ioctl with read (userland perspective) parameters. It
// corresponds to _IOR in the Linux userland API.
func IOR(typ rune, nr uint8, size uint32) Code {
	return Native.IOR(typ, nr, size)
}

// IOW defines an ioctl with write (userland perspective) parameters. It
// corresponds to _IOW in the Linux userland API.
func IOW(typ rune, nr uint8, size uint32) Code {
	return Native.IOW(typ, nr, size)
}

// IOWR defines an ioctl with both read and write parameters. It
// corresponds to _IOWR in the Linux userland API.
func IOWR(typ rune, nr uint8, size uint32) Code {
	return Native.IOWR(typ, nr, size)
}

func IOC(dir Direction, typ rune, nr uint8, size uint32) (Code, error) {
	return Native.IOC(dir, typ, nr, size)
}

func Decode(code Code) (Fields, error) {
	return Native.Decode(code)
}

// SizeOf is the in-memory size of T, the size argument the C macros
// compute with sizeof.
func SizeOf[T any]() uint32 {
	var v T
	return uint32(unsafe.Sizeof(v))
}

// IOROf is IOR with the size taken from T.
func IOROf[T any](typ rune, nr uint8) Code {
	return Native.IOR(typ, nr, SizeOf[T]())
}

// IOWOf is IOW with the size taken from T.
func IOWOf[T any](typ rune, nr uint8) Code {
	return Native.IOW(typ, nr, SizeOf[T]())
}

// IOWROf is IOWR with the size taken from T.
func IOWROf[T any](typ rune, nr uint8) Code {
	return Native.IOWR(typ, nr, SizeOf[T]())
}
