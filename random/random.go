// Package random drives the entropy pool ioctls of /dev/random.
package random

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/NeowayLabs/ioctl"
	"github.com/NeowayLabs/ioctl/linux"
)

const devPath = "/dev/random"

var (
	// _IOR('R', 0x00, int)
	IOCTLGetEntropyCount = linux.IOROf[int32]('R', 0x00)

	// _IOW('R', 0x01, int)
	IOCTLAddToEntropyCount = linux.IOWOf[int32]('R', 0x01)

	// _IOW('R', 0x03, int [2])
	IOCTLAddEntropy = linux.IOWOf[[2]int32]('R', 0x03)

	IOCTLZapEntropyCount = linux.IO('R', 0x04)
	IOCTLClearPool       = linux.IO('R', 0x06)
	IOCTLReseedCRNG      = linux.IO('R', 0x07)
)

// Pool is an open handle on the kernel entropy pool.
type Pool struct {
	file   *os.File
	caller *ioctl.Caller

	entropyCount *ioctl.Reader[int32]
	addCount     *ioctl.Writer[int32]
}

// Open opens /dev/random read-only. Most requests other than
// EntropyCount need CAP_SYS_ADMIN.
func Open() (*Pool, error) {
	f, err := os.OpenFile(devPath, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return New(nil, f), nil
}

// New wraps an already open random device. A nil caller means
// ioctl.Default.
func New(c *ioctl.Caller, file *os.File) *Pool {
	if c == nil {
		c = ioctl.Default
	}
	return &Pool{
		file:         file,
		caller:       c,
		entropyCount: ioctl.NewReader[int32](c, uint(IOCTLGetEntropyCount)),
		addCount:     ioctl.NewWriter[int32](c, uint(IOCTLAddToEntropyCount)),
	}
}

func (p *Pool) fd() int {
	return int(p.file.Fd())
}

func (p *Pool) Close() error {
	return p.file.Close()
}

// EntropyCount returns the entropy the pool is credited with, in bits.
func (p *Pool) EntropyCount() (int, error) {
	n, err := p.entropyCount.Read(p.fd())
	return int(n), err
}

// AddToEntropyCount adjusts the credited entropy by bits, which may be
// negative.
func (p *Pool) AddToEntropyCount(bits int) error {
	return p.addCount.Write(p.fd(), int32(bits))
}

// AddEntropy mixes data into the pool and credits it with bits of
// entropy. It sends a struct rand_pool_info, a two int header followed
// by the data.
func (p *Pool) AddEntropy(bits int, data []byte) error {
	if bits < 0 {
		return fmt.Errorf("%w: negative entropy %d", ioctl.ErrInvalidArgument, bits)
	}
	buf := make([]byte, 8+len(data))
	binary.NativeEndian.PutUint32(buf[0:], uint32(bits))
	binary.NativeEndian.PutUint32(buf[4:], uint32(len(data)))
	copy(buf[8:], data)
	_, _, err := p.caller.CallBuffer(p.fd(), uint(IOCTLAddEntropy), buf, 0)
	return err
}

// ZapEntropyCount sets the credited entropy to zero.
func (p *Pool) ZapEntropyCount() error {
	_, err := p.caller.Call(p.fd(), uint(IOCTLZapEntropyCount))
	return err
}

// ClearPool is kept by the kernel for compatibility and behaves like
// ZapEntropyCount.
func (p *Pool) ClearPool() error {
	_, err := p.caller.Call(p.fd(), uint(IOCTLClearPool))
	return err
}

// ReseedCRNG forces the CRNG to reseed from the input pool.
func (p *Pool) ReseedCRNG() error {
	_, err := p.caller.Call(p.fd(), uint(IOCTLReseedCRNG))
	return err
}
