// Package loop attaches files to loop block devices. Loop requests are
// plain numbers in the kernel headers, not _IO codes, and take their
// argument by value.
package loop

import (
	"bytes"
	"fmt"
	"os"

	"github.com/NeowayLabs/ioctl"
)

const (
	ControlPath = "/dev/loop-control"
	devPathFmt  = "/dev/loop%d"
)

const (
	IOCTLSetFD       = 0x4C00
	IOCTLClearFD     = 0x4C01
	IOCTLSetStatus64 = 0x4C04
	IOCTLGetStatus64 = 0x4C05
	IOCTLSetCapacity = 0x4C07

	IOCTLControlAdd     = 0x4C80
	IOCTLControlRemove  = 0x4C81
	IOCTLControlGetFree = 0x4C82
)

// Flags in Status.Flags.
const (
	FlagReadOnly  = 1
	FlagAutoClear = 4
	FlagPartScan  = 8
	FlagDirectIO  = 16
)

const nameLen = 64

type (
	// struct loop_info64
	info64 struct {
		Device         uint64
		Inode          uint64
		RDevice        uint64
		Offset         uint64
		SizeLimit      uint64
		Number         uint32
		EncryptType    uint32
		EncryptKeySize uint32
		Flags          uint32
		FileName       [nameLen]byte
		CryptName      [nameLen]byte
		EncryptKey     [32]byte
		Init           [2]uint64
	}

	// Status is what the kernel knows about an attached loop device.
	Status struct {
		Number    int
		Device    uint64 // device of the backing file
		Inode     uint64 // inode of the backing file
		Offset    uint64
		SizeLimit uint64 // zero means up to the end of the file
		Flags     uint32
		FileName  string
	}
)

// Control is an open /dev/loop-control.
type Control struct {
	file   *os.File
	caller *ioctl.Caller
}

func OpenControl() (*Control, error) {
	f, err := os.OpenFile(ControlPath, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return NewControl(nil, f), nil
}

// NewControl wraps an open loop-control device. A nil caller means
// ioctl.Default.
func NewControl(c *ioctl.Caller, file *os.File) *Control {
	if c == nil {
		c = ioctl.Default
	}
	return &Control{file: file, caller: c}
}

func (c *Control) Close() error {
	return c.file.Close()
}

// FreeDevice returns the number of an unused loop device, allocating
// one if none is free.
func (c *Control) FreeDevice() (int, error) {
	return c.caller.Call(int(c.file.Fd()), IOCTLControlGetFree)
}

// Add creates /dev/loopN and returns N.
func (c *Control) Add(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: negative loop number %d", ioctl.ErrInvalidArgument, n)
	}
	return c.caller.CallValue(int(c.file.Fd()), IOCTLControlAdd, uintptr(n))
}

// Remove deletes /dev/loopN. It fails with EBUSY while the device is
// attached.
func (c *Control) Remove(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative loop number %d", ioctl.ErrInvalidArgument, n)
	}
	_, err := c.caller.CallValue(int(c.file.Fd()), IOCTLControlRemove, uintptr(n))
	return err
}

// Device is an open loop block device.
type Device struct {
	file   *os.File
	caller *ioctl.Caller
	setFD  *ioctl.Valuer[int32]
}

// OpenDevice opens /dev/loopN.
func OpenDevice(n int) (*Device, error) {
	f, err := os.OpenFile(fmt.Sprintf(devPathFmt, n), os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return NewDevice(nil, f), nil
}

// NewDevice wraps an open loop device. A nil caller means ioctl.Default.
func NewDevice(c *ioctl.Caller, file *os.File) *Device {
	if c == nil {
		c = ioctl.Default
	}
	return &Device{
		file:   file,
		caller: c,
		setFD:  ioctl.NewValuer[int32](c, IOCTLSetFD),
	}
}

func (d *Device) fd() int {
	return int(d.file.Fd())
}

func (d *Device) Close() error {
	return d.file.Close()
}

// SetFD attaches the open backing file fd. The kernel takes its own
// reference so the caller may close fd afterwards.
func (d *Device) SetFD(fd int) error {
	if err := ioctl.ValidateFD(fd); err != nil {
		return err
	}
	return d.setFD.Set(d.fd(), int32(fd))
}

// Attach is SetFD for an *os.File.
func (d *Device) Attach(backing *os.File) error {
	return d.SetFD(int(backing.Fd()))
}

// ClearFD detaches the backing file.
func (d *Device) ClearFD() error {
	_, err := d.caller.Call(d.fd(), IOCTLClearFD)
	return err
}

// SetCapacity makes the device pick up a resized backing file.
func (d *Device) SetCapacity() error {
	_, err := d.caller.Call(d.fd(), IOCTLSetCapacity)
	return err
}

func (d *Device) Status() (Status, error) {
	var li info64
	if _, err := ioctl.CallStruct(d.caller, d.fd(), IOCTLGetStatus64, &li); err != nil {
		return Status{}, err
	}
	return Status{
		Number:    int(li.Number),
		Device:    li.Device,
		Inode:     li.Inode,
		Offset:    li.Offset,
		SizeLimit: li.SizeLimit,
		Flags:     li.Flags,
		FileName:  string(bytes.TrimRight(li.FileName[:], "\x00")),
	}, nil
}

// SetStatus updates the offset, size limit, flags and file name. The
// kernel ignores the other fields of st.
func (d *Device) SetStatus(st Status) error {
	if len(st.FileName) >= nameLen {
		return fmt.Errorf("%w: file name longer than %d bytes", ioctl.ErrInvalidArgument, nameLen-1)
	}
	li := info64{
		Offset:    st.Offset,
		SizeLimit: st.SizeLimit,
		Flags:     st.Flags,
	}
	copy(li.FileName[:], st.FileName)
	_, err := ioctl.CallStruct(d.caller, d.fd(), IOCTLSetStatus64, &li)
	return err
}
