package ioctl

import (
	"math"
	"reflect"
)

// Kind classifies the memory layout of an ioctl payload.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindScalar
	KindUnion
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindUnion:
		return "union"
	case KindStruct:
		return "struct"
	}
	return "invalid"
}

func ValidateFD(fd int) error {
	if fd < 0 {
		return invalidf("fd %d is negative", fd)
	}
	return nil
}

// ValidateRequest rejects requests that do not fit in 32 bits. Such a
// request is almost always a negative int that was sign-extended on the
// way to an unsigned type. Where uint is 32 bits wide the sign
// extension cannot be told apart from a valid code and passes.
func ValidateRequest(req uint) error {
	if uint64(req) > math.MaxUint32 {
		return invalidf("request 0x%x is negative or wider than 32 bits", req)
	}
	return nil
}

func ValidateKind(k Kind) error {
	switch k {
	case KindScalar, KindUnion, KindStruct:
		return nil
	}
	return invalidf("unsupported payload kind %s", k)
}

// KindOf classifies t. Fixed-width integers are scalars, structs are
// structs and fixed-size arrays, the Go rendering of C unions, are
// unions. A type holding anything the kernel cannot read as plain
// memory (pointers, slices, strings, maps, interfaces, channels, funcs,
// platform-sized int) is KindInvalid.
func KindOf(t reflect.Type) Kind {
	if t == nil || !plain(t) {
		return KindInvalid
	}
	switch t.Kind() {
	case reflect.Struct:
		return KindStruct
	case reflect.Array:
		return KindUnion
	}
	return KindScalar
}

func plain(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr:
		return true
	case reflect.Array:
		return t.Len() > 0 && plain(t.Elem())
	case reflect.Struct:
		if t.NumField() == 0 {
			return false
		}
		for i := 0; i < t.NumField(); i++ {
			if !plain(t.Field(i).Type) {
				return false
			}
		}
		return true
	}
	return false
}
