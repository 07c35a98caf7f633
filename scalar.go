package ioctl

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Scalar is a fixed-width integer the kernel reads or writes through a
// pointer argument.
type Scalar uint8

const (
	Int8 Scalar = iota + 1
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
)

// C int and unsigned int are 32 bits on every ABI Linux supports.
const (
	Int  = Int32
	Uint = Uint32
)

// Word-sized C types.
var (
	Long  = scalarOf(unsafe.Sizeof(uintptr(0)), true)
	Ulong = scalarOf(unsafe.Sizeof(uintptr(0)), false)
	SizeT = Ulong
)

func scalarOf(size uintptr, signed bool) Scalar {
	var s Scalar
	switch size {
	case 1:
		s = Int8
	case 2:
		s = Int16
	case 4:
		s = Int32
	case 8:
		s = Int64
	default:
		return 0
	}
	if !signed {
		s++
	}
	return s
}

func (s Scalar) valid() bool {
	return s >= Int8 && s <= Uint64
}

// Size is the width in bytes.
func (s Scalar) Size() int {
	if !s.valid() {
		return 0
	}
	return 1 << ((s - 1) / 2)
}

func (s Scalar) Signed() bool {
	return s.valid() && (s-Int8)%2 == 0
}

func (s Scalar) String() string {
	if !s.valid() {
		return fmt.Sprintf("Scalar(%d)", uint8(s))
	}
	if s.Signed() {
		return fmt.Sprintf("int%d", s.Size()*8)
	}
	return fmt.Sprintf("uint%d", s.Size()*8)
}

// put stores the low Size() bytes of v into cell in host byte order.
func (s Scalar) put(cell []byte, v uint64) {
	switch s.Size() {
	case 1:
		cell[0] = byte(v)
	case 2:
		binary.NativeEndian.PutUint16(cell, uint16(v))
	case 4:
		binary.NativeEndian.PutUint32(cell, uint32(v))
	case 8:
		binary.NativeEndian.PutUint64(cell, v)
	}
}

// get reads cell back, zero-extended.
func (s Scalar) get(cell []byte) uint64 {
	switch s.Size() {
	case 1:
		return uint64(cell[0])
	case 2:
		return uint64(binary.NativeEndian.Uint16(cell))
	case 4:
		return uint64(binary.NativeEndian.Uint32(cell))
	case 8:
		return binary.NativeEndian.Uint64(cell)
	}
	return 0
}

// Extend sign-extends raw when s is signed and returns it unchanged
// otherwise.
func (s Scalar) Extend(raw uint64) int64 {
	switch s {
	case Int8:
		return int64(int8(raw))
	case Int16:
		return int64(int16(raw))
	case Int32:
		return int64(int32(raw))
	}
	return int64(raw)
}
