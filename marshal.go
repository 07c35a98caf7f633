package ioctl

import (
	"reflect"
	"unsafe"
)

// Call issues a request that takes no argument.
func (c *Caller) Call(fd int, req uint) (int, error) {
	return c.Ioctl(fd, req, NoArg())
}

// CallValue passes v itself as the argument. The kernel cannot change
// it.
func (c *Caller) CallValue(fd int, req uint, v uintptr) (int, error) {
	return c.Ioctl(fd, req, ValueArg(v))
}

// CallScalar passes a pointer to a cell of exactly s.Size() bytes
// holding initial, and returns the cell's contents after the call,
// zero-extended. Use s.Extend for the signed value.
func (c *Caller) CallScalar(fd int, req uint, s Scalar, initial uint64) (int, uint64, error) {
	if !s.valid() {
		return 0, 0, invalidf("unsupported scalar width %s", s)
	}
	cell := make([]byte, s.Size())
	s.put(cell, initial)
	ret, err := c.Ioctl(fd, req, ScalarArg(s, cell))
	if err != nil {
		return ret, 0, err
	}
	return ret, s.get(cell), nil
}

// CallInt passes an int * argument.
func (c *Caller) CallInt(fd int, req uint, v int) (int, int, error) {
	ret, raw, err := c.CallScalar(fd, req, Int, uint64(v))
	return ret, int(int32(raw)), err
}

// CallSizeT passes a size_t * argument.
func (c *Caller) CallSizeT(fd int, req uint, v uint) (int, uint, error) {
	ret, raw, err := c.CallScalar(fd, req, SizeT, uint64(v))
	return ret, uint(raw), err
}

// CallBuffer passes a pointer to a byte buffer. Exactly one of contents
// and length must be given: a non-nil contents is copied into the
// buffer, a positive length allocates that many zero bytes. The buffer
// after the call is returned; contents itself is never modified.
func (c *Caller) CallBuffer(fd int, req uint, contents []byte, length int) (int, []byte, error) {
	var buf []byte
	switch {
	case contents != nil && length != 0:
		return 0, nil, invalidf("cannot specify both contents and length")
	case contents != nil:
		buf = make([]byte, len(contents))
		copy(buf, contents)
	case length > 0:
		buf = make([]byte, length)
	case length < 0:
		return 0, nil, invalidf("negative buffer length %d", length)
	default:
		return 0, nil, invalidf("must specify either contents or length")
	}
	ret, err := c.Ioctl(fd, req, BufferArg(buf))
	if err != nil {
		return ret, nil, err
	}
	return ret, buf, nil
}

// CallStruct passes a pointer to a copy of *v and copies the result
// back into *v after a successful call. T must be a fixed-width
// integer, a fixed-size array or a struct made only of those.
func CallStruct[T any](c *Caller, fd int, req uint, v *T) (int, error) {
	if v == nil {
		return 0, invalidf("nil %T", v)
	}
	if err := ValidateKind(KindOf(reflect.TypeOf(v).Elem())); err != nil {
		return 0, err
	}
	mem := unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
	buf := make([]byte, len(mem))
	copy(buf, mem)
	ret, err := c.Ioctl(fd, req, BufferArg(buf))
	if err != nil {
		return ret, err
	}
	copy(mem, buf)
	return ret, nil
}

func Call(fd int, req uint) (int, error) {
	return Default.Call(fd, req)
}

func CallValue(fd int, req uint, v uintptr) (int, error) {
	return Default.CallValue(fd, req, v)
}

func CallScalar(fd int, req uint, s Scalar, initial uint64) (int, uint64, error) {
	return Default.CallScalar(fd, req, s, initial)
}

func CallInt(fd int, req uint, v int) (int, int, error) {
	return Default.CallInt(fd, req, v)
}

func CallSizeT(fd int, req uint, v uint) (int, uint, error) {
	return Default.CallSizeT(fd, req, v)
}

func CallBuffer(fd int, req uint, contents []byte, length int) (int, []byte, error) {
	return Default.CallBuffer(fd, req, contents, length)
}
