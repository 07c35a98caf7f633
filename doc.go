// Package ioctl provides a safe calling convention for the ioctl(2)
// system call.
//
// A request is issued through a Caller, which resolves the operating
// system primitive once and then validates, marshals and invokes every
// call. The third ioctl argument is passed in one of three ways: by
// value (CallValue), by reference to a scalar cell (CallScalar, CallInt,
// CallSizeT) or by reference to a byte buffer (CallBuffer, CallStruct).
// Request codes are built with the linux subpackage.
package ioctl
