package ioctl_test

import (
	"errors"
	"reflect"
	"testing"
	"unsafe"

	"github.com/NeowayLabs/ioctl"
)

func TestValidateFD(t *testing.T) {
	for _, fd := range []int{0, 1, 1024} {
		if err := ioctl.ValidateFD(fd); err != nil {
			t.Errorf("fd %d: %v", fd, err)
		}
	}
	if err := ioctl.ValidateFD(-1); !errors.Is(err, ioctl.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestValidateRequest(t *testing.T) {
	for _, req := range []uint{0, 0x125f, 0xc0045877, 0xffffffff} {
		if err := ioctl.ValidateRequest(req); err != nil {
			t.Errorf("request 0x%x: %v", req, err)
		}
	}
}

func TestValidateKind(t *testing.T) {
	for _, k := range []ioctl.Kind{ioctl.KindScalar, ioctl.KindUnion, ioctl.KindStruct} {
		if err := ioctl.ValidateKind(k); err != nil {
			t.Errorf("%s: %v", k, err)
		}
	}
	for _, k := range []ioctl.Kind{ioctl.KindInvalid, ioctl.Kind(9)} {
		if err := ioctl.ValidateKind(k); !errors.Is(err, ioctl.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", k, err)
		}
	}
}

type ffReplay struct {
	Length uint16
	Delay  uint16
}

type withPointer struct {
	Len  uint32
	Data *byte
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want ioctl.Kind
	}{
		{reflect.TypeOf(int32(0)), ioctl.KindScalar},
		{reflect.TypeOf(uint64(0)), ioctl.KindScalar},
		{reflect.TypeOf(uintptr(0)), ioctl.KindScalar},
		{reflect.TypeOf(ffReplay{}), ioctl.KindStruct},
		{reflect.TypeOf([16]byte{}), ioctl.KindUnion},
		{reflect.TypeOf([2]ffReplay{}), ioctl.KindUnion},
		{reflect.TypeOf(withPointer{}), ioctl.KindInvalid},
		{reflect.TypeOf(struct{}{}), ioctl.KindInvalid},
		{reflect.TypeOf([0]byte{}), ioctl.KindInvalid},
		{reflect.TypeOf(0), ioctl.KindInvalid},
		{reflect.TypeOf(""), ioctl.KindInvalid},
		{reflect.TypeOf([]byte{}), ioctl.KindInvalid},
		{reflect.TypeOf(unsafe.Pointer(nil)), ioctl.KindInvalid},
		{reflect.TypeOf(1.5), ioctl.KindInvalid},
		{nil, ioctl.KindInvalid},
	}
	for _, tt := range tests {
		if got := ioctl.KindOf(tt.typ); got != tt.want {
			t.Errorf("KindOf(%v) = %s, want %s", tt.typ, got, tt.want)
		}
	}
}

func TestScalar(t *testing.T) {
	tests := []struct {
		s      ioctl.Scalar
		size   int
		signed bool
		name   string
	}{
		{ioctl.Int8, 1, true, "int8"},
		{ioctl.Uint8, 1, false, "uint8"},
		{ioctl.Int16, 2, true, "int16"},
		{ioctl.Uint16, 2, false, "uint16"},
		{ioctl.Int32, 4, true, "int32"},
		{ioctl.Uint32, 4, false, "uint32"},
		{ioctl.Int64, 8, true, "int64"},
		{ioctl.Uint64, 8, false, "uint64"},
		{ioctl.Int, 4, true, "int32"},
		{ioctl.SizeT, int(unsafe.Sizeof(uintptr(0))), false, ""},
		{ioctl.Long, int(unsafe.Sizeof(uintptr(0))), true, ""},
	}
	for _, tt := range tests {
		if tt.s.Size() != tt.size || tt.s.Signed() != tt.signed {
			t.Errorf("%s: size %d signed %v, want %d %v", tt.s, tt.s.Size(), tt.s.Signed(), tt.size, tt.signed)
		}
		if tt.name != "" && tt.s.String() != tt.name {
			t.Errorf("got name %q, want %q", tt.s.String(), tt.name)
		}
	}
	if ioctl.Scalar(0).Size() != 0 {
		t.Error("invalid scalar has a size")
	}
}

func TestScalarExtend(t *testing.T) {
	if got := ioctl.Int32.Extend(0xffffff9c); got != -100 {
		t.Errorf("Int32.Extend = %d, want -100", got)
	}
	if got := ioctl.Uint32.Extend(0xffffff9c); got != 0xffffff9c {
		t.Errorf("Uint32.Extend = %d", got)
	}
	if got := ioctl.Int8.Extend(0xff); got != -1 {
		t.Errorf("Int8.Extend = %d, want -1", got)
	}
}
