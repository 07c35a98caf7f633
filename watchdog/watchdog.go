// Package watchdog talks to Linux watchdog timers through
// /dev/watchdog.
package watchdog

import (
	"bytes"
	"os"

	"github.com/NeowayLabs/ioctl"
	"github.com/NeowayLabs/ioctl/linux"
)

const (
	DefaultPath = "/dev/watchdog"

	IdentityLen = 32
)

type (
	info struct {
		Options         uint32
		FirmwareVersion uint32
		Identity        [IdentityLen]byte
	}

	// Info describes the driver behind the device.
	Info struct {
		Options         uint32 // Option bits the card supports
		FirmwareVersion uint32
		Identity        string
	}
)

// Option bits reported in Info.Options and by Status.
const (
	OptionOverheat   = 0x0001
	OptionFanFault   = 0x0002
	OptionExtern1    = 0x0004
	OptionExtern2    = 0x0008
	OptionPowerUnder = 0x0010
	OptionCardReset  = 0x0020
	OptionPowerOver  = 0x0040
	OptionSetTimeout = 0x0080
	OptionMagicClose = 0x0100
	OptionPreTimeout = 0x0200
	OptionAlarmOnly  = 0x0400
	OptionKeepAlive  = 0x8000
)

var (
	IOCTLGetSupport    = linux.IOROf[info]('W', 0)
	IOCTLGetStatus     = linux.IOROf[int32]('W', 1)
	IOCTLGetBootStatus = linux.IOROf[int32]('W', 2)
	IOCTLGetTemp       = linux.IOROf[int32]('W', 3)
	IOCTLSetOptions    = linux.IOROf[int32]('W', 4)
	IOCTLKeepAlive     = linux.IOROf[int32]('W', 5)
	IOCTLSetTimeout    = linux.IOWROf[int32]('W', 6)
	IOCTLGetTimeout    = linux.IOROf[int32]('W', 7)
	IOCTLSetPretimeout = linux.IOWROf[int32]('W', 8)
	IOCTLGetPretimeout = linux.IOROf[int32]('W', 9)
	IOCTLGetTimeLeft   = linux.IOROf[int32]('W', 10)
)

// Watchdog is an open watchdog device. Opening the device arms the
// timer; it must then be fed with KeepAlive until Disarm.
type Watchdog struct {
	file   *os.File
	caller *ioctl.Caller

	status     *ioctl.Reader[int32]
	bootStatus *ioctl.Reader[int32]
	temp       *ioctl.Reader[int32]
	keepAlive  *ioctl.Reader[int32]
	timeout    *ioctl.Reader[int32]
	pretimeout *ioctl.Reader[int32]
	timeLeft   *ioctl.Reader[int32]
	setOptions *ioctl.Writer[int32]
	setTimeout *ioctl.ReadWriter[int32]
	setPretime *ioctl.ReadWriter[int32]
}

func Open(path string) (*Watchdog, error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return New(nil, f), nil
}

// New wraps an already open watchdog device. A nil caller means
// ioctl.Default.
func New(c *ioctl.Caller, file *os.File) *Watchdog {
	if c == nil {
		c = ioctl.Default
	}
	return &Watchdog{
		file:       file,
		caller:     c,
		status:     ioctl.NewReader[int32](c, uint(IOCTLGetStatus)),
		bootStatus: ioctl.NewReader[int32](c, uint(IOCTLGetBootStatus)),
		temp:       ioctl.NewReader[int32](c, uint(IOCTLGetTemp)),
		keepAlive:  ioctl.NewReader[int32](c, uint(IOCTLKeepAlive)),
		timeout:    ioctl.NewReader[int32](c, uint(IOCTLGetTimeout)),
		pretimeout: ioctl.NewReader[int32](c, uint(IOCTLGetPretimeout)),
		timeLeft:   ioctl.NewReader[int32](c, uint(IOCTLGetTimeLeft)),
		setOptions: ioctl.NewWriter[int32](c, uint(IOCTLSetOptions)),
		setTimeout: ioctl.NewReadWriter[int32](c, uint(IOCTLSetTimeout)),
		setPretime: ioctl.NewReadWriter[int32](c, uint(IOCTLSetPretimeout)),
	}
}

func (w *Watchdog) fd() int {
	return int(w.file.Fd())
}

// Support asks the driver what it is and what it can do.
func (w *Watchdog) Support() (Info, error) {
	var wi info
	if _, err := ioctl.CallStruct(w.caller, w.fd(), uint(IOCTLGetSupport), &wi); err != nil {
		return Info{}, err
	}
	return Info{
		Options:         wi.Options,
		FirmwareVersion: wi.FirmwareVersion,
		Identity:        string(bytes.TrimRight(wi.Identity[:], "\x00")),
	}, nil
}

func (w *Watchdog) Status() (int, error) {
	v, err := w.status.Read(w.fd())
	return int(v), err
}

// BootStatus reports why the last reboot happened.
func (w *Watchdog) BootStatus() (int, error) {
	v, err := w.bootStatus.Read(w.fd())
	return int(v), err
}

// Temperature is in degrees Fahrenheit.
func (w *Watchdog) Temperature() (int, error) {
	v, err := w.temp.Read(w.fd())
	return int(v), err
}

func (w *Watchdog) KeepAlive() error {
	_, err := w.keepAlive.Read(w.fd())
	return err
}

// Timeout is in seconds.
func (w *Watchdog) Timeout() (int, error) {
	v, err := w.timeout.Read(w.fd())
	return int(v), err
}

// SetTimeout asks for a timeout and returns the one the hardware
// actually uses, which may be rounded.
func (w *Watchdog) SetTimeout(seconds int) (int, error) {
	v, err := w.setTimeout.ReadWrite(w.fd(), int32(seconds))
	return int(v), err
}

func (w *Watchdog) Pretimeout() (int, error) {
	v, err := w.pretimeout.Read(w.fd())
	return int(v), err
}

func (w *Watchdog) SetPretimeout(seconds int) (int, error) {
	v, err := w.setPretime.ReadWrite(w.fd(), int32(seconds))
	return int(v), err
}

// TimeLeft is the number of seconds before the system reboots.
func (w *Watchdog) TimeLeft() (int, error) {
	v, err := w.timeLeft.Read(w.fd())
	return int(v), err
}

// SetOptions takes WDIOS_* flags (1 disables, 2 enables the card).
func (w *Watchdog) SetOptions(flags int) error {
	return w.setOptions.Write(w.fd(), int32(flags))
}

// Disarm writes the magic close character and closes the device. On a
// driver without OptionMagicClose the timer keeps running.
func (w *Watchdog) Disarm() error {
	if _, err := w.file.Write([]byte("V")); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Close closes the device without disarming it.
func (w *Watchdog) Close() error {
	return w.file.Close()
}
