// Package mode wraps the kernel mode setting (KMS) ioctls of a DRM card.
package mode

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/NeowayLabs/ioctl"
	"github.com/NeowayLabs/ioctl/drm"
	"github.com/NeowayLabs/ioctl/linux"
	"golang.org/x/sys/unix"
)

const (
	DisplayInfoLen   = 32
	ConnectorNameLen = 32
	DisplayModeLen   = 32
	PropNameLen      = 32

	Connected         = 1
	Disconnected      = 2
	UnknownConnection = 3
)

type (
	// Pointers are u64 in every mode struct so the layout is the same
	// for 32 and 64 bit userland.
	sysResources struct {
		fbIdPtr              uint64
		crtcIdPtr            uint64
		connectorIdPtr       uint64
		encoderIdPtr         uint64
		CountFbs             uint32
		CountCrtcs           uint32
		CountConnectors      uint32
		CountEncoders        uint32
		MinWidth, MaxWidth   uint32
		MinHeight, MaxHeight uint32
	}

	sysGetConnector struct {
		encodersPtr   uint64
		modesPtr      uint64
		propsPtr      uint64
		propValuesPtr uint64

		countModes    uint32
		countProps    uint32
		countEncoders uint32

		encoderID       uint32 // current encoder
		ID              uint32
		connectorType   uint32
		connectorTypeID uint32

		connection        uint32
		mmWidth, mmHeight uint32 // HxW in millimeters
		subpixel          uint32
		pad               uint32
	}

	sysGetEncoder struct {
		id  uint32
		typ uint32

		crtcID uint32

		possibleCrtcs  uint32
		possibleClones uint32
	}

	// Info is a display mode (struct drm_mode_modeinfo).
	Info struct {
		Clock                                         uint32
		Hdisplay, HsyncStart, HsyncEnd, Htotal, Hskew uint16
		Vdisplay, VsyncStart, VsyncEnd, Vtotal, Vscan uint16

		Vrefresh uint32

		Flags uint32
		Type  uint32
		Name  [DisplayModeLen]uint8
	}

	Resources struct {
		CountFbs             uint32
		CountCrtcs           uint32
		CountConnectors      uint32
		CountEncoders        uint32
		MinWidth, MaxWidth   uint32
		MinHeight, MaxHeight uint32

		Fbs        []uint32
		Crtcs      []uint32
		Connectors []uint32
		Encoders   []uint32
	}

	Connector struct {
		ID            uint32
		EncoderID     uint32
		Type          uint32
		TypeID        uint32
		Connection    uint8
		Width, Height uint32
		Subpixel      uint8

		Modes []Info

		Props      []uint32
		PropValues []uint64

		Encoders []uint32
	}

	Encoder struct {
		ID   uint32
		Type uint32

		CrtcID uint32

		PossibleCrtcs  uint32
		PossibleClones uint32
	}

	sysCreateDumb struct {
		height, width uint32
		bpp           uint32
		flags         uint32

		// returned values
		handle uint32
		pitch  uint32
		size   uint64
	}

	sysMapDumb struct {
		handle uint32 // Handle for the object being mapped
		pad    uint32

		// Fake offset to use for subsequent mmap call
		offset uint64
	}

	sysFBCmd struct {
		fbID          uint32
		width, height uint32
		pitch         uint32
		bpp           uint32
		depth         uint32

		/* driver specific handle */
		handle uint32
	}

	sysCrtc struct {
		setConnectorsPtr uint64
		countConnectors  uint32

		id   uint32
		fbID uint32 // Id of framebuffer

		x, y uint32 // Position on the frameuffer

		gammaSize uint32
		modeValid uint32
		mode      Info
	}

	sysDestroyDumb struct {
		handle uint32
	}

	Crtc struct {
		ID       uint32
		BufferID uint32 // FB id to connect to 0 = disconnect

		X, Y          uint32 // Position on the framebuffer
		Width, Height uint32
		ModeValid     int
		Mode          Info

		GammaSize int // Number of gamma stops
	}

	FB struct {
		Height, Width, BPP, Flags uint32
		Handle                    uint32
		Pitch                     uint32
		Size                      uint64
	}
)

var (
	// DRM_IOWR(0xA0, struct drm_mode_card_res)
	IOCTLModeResources = linux.IOWROf[sysResources](drm.IOCTLBase, 0xA0)

	// DRM_IOWR(0xA1, struct drm_mode_crtc)
	IOCTLModeGetCrtc = linux.IOWROf[sysCrtc](drm.IOCTLBase, 0xA1)

	// DRM_IOWR(0xA2, struct drm_mode_crtc)
	IOCTLModeSetCrtc = linux.IOWROf[sysCrtc](drm.IOCTLBase, 0xA2)

	// DRM_IOWR(0xA6, struct drm_mode_get_encoder)
	IOCTLModeGetEncoder = linux.IOWROf[sysGetEncoder](drm.IOCTLBase, 0xA6)

	// DRM_IOWR(0xA7, struct drm_mode_get_connector)
	IOCTLModeGetConnector = linux.IOWROf[sysGetConnector](drm.IOCTLBase, 0xA7)

	// DRM_IOWR(0xAE, struct drm_mode_fb_cmd)
	IOCTLModeAddFB = linux.IOWROf[sysFBCmd](drm.IOCTLBase, 0xAE)

	// DRM_IOWR(0xAF, unsigned int)
	IOCTLModeRmFB = linux.IOWROf[uint32](drm.IOCTLBase, 0xAF)

	// DRM_IOWR(0xB2, struct drm_mode_create_dumb)
	IOCTLModeCreateDumb = linux.IOWROf[sysCreateDumb](drm.IOCTLBase, 0xB2)

	// DRM_IOWR(0xB3, struct drm_mode_map_dumb)
	IOCTLModeMapDumb = linux.IOWROf[sysMapDumb](drm.IOCTLBase, 0xB3)

	// DRM_IOWR(0xB4, struct drm_mode_destroy_dumb)
	IOCTLModeDestroyDumb = linux.IOWROf[sysDestroyDumb](drm.IOCTLBase, 0xB4)
)

func call[T any](card *drm.Card, req linux.Code, v *T) error {
	_, err := ioctl.CallStruct(card.Caller(), card.Fd(), uint(req), v)
	return err
}

func ptr[T any](s []T) uint64 {
	if len(s) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(&s[0])))
}

func GetResources(card *drm.Card) (*Resources, error) {
	mres := &sysResources{}
	if err := call(card, IOCTLModeResources, mres); err != nil {
		return nil, err
	}

	var (
		fbids        = make([]uint32, mres.CountFbs)
		crtcids      = make([]uint32, mres.CountCrtcs)
		connectorids = make([]uint32, mres.CountConnectors)
		encoderids   = make([]uint32, mres.CountEncoders)
	)
	mres.fbIdPtr = ptr(fbids)
	mres.crtcIdPtr = ptr(crtcids)
	mres.connectorIdPtr = ptr(connectorids)
	mres.encoderIdPtr = ptr(encoderids)

	err := call(card, IOCTLModeResources, mres)
	runtime.KeepAlive(fbids)
	runtime.KeepAlive(crtcids)
	runtime.KeepAlive(connectorids)
	runtime.KeepAlive(encoderids)
	if err != nil {
		return nil, err
	}

	// A hotplug between the two calls can shrink the counts; the kernel
	// never writes past what was allocated.
	return &Resources{
		CountFbs:        mres.CountFbs,
		CountCrtcs:      mres.CountCrtcs,
		CountConnectors: mres.CountConnectors,
		CountEncoders:   mres.CountEncoders,
		MinWidth:        mres.MinWidth,
		MaxWidth:        mres.MaxWidth,
		MinHeight:       mres.MinHeight,
		MaxHeight:       mres.MaxHeight,
		Fbs:             truncate(fbids, mres.CountFbs),
		Crtcs:           truncate(crtcids, mres.CountCrtcs),
		Connectors:      truncate(connectorids, mres.CountConnectors),
		Encoders:        truncate(encoderids, mres.CountEncoders),
	}, nil
}

func truncate[T any](s []T, n uint32) []T {
	if uint32(len(s)) > n {
		return s[:n]
	}
	return s
}

func GetConnector(card *drm.Card, connid uint32) (*Connector, error) {
	conn := &sysGetConnector{ID: connid}
	if err := call(card, IOCTLModeGetConnector, conn); err != nil {
		return nil, err
	}

	if conn.countModes == 0 {
		conn.countModes = 1
	}
	var (
		props      = make([]uint32, conn.countProps)
		propValues = make([]uint64, conn.countProps)
		modes      = make([]Info, conn.countModes)
		encoders   = make([]uint32, conn.countEncoders)
	)
	conn.propsPtr = ptr(props)
	conn.propValuesPtr = ptr(propValues)
	conn.modesPtr = ptr(modes)
	conn.encodersPtr = ptr(encoders)

	err := call(card, IOCTLModeGetConnector, conn)
	runtime.KeepAlive(props)
	runtime.KeepAlive(propValues)
	runtime.KeepAlive(modes)
	runtime.KeepAlive(encoders)
	if err != nil {
		return nil, err
	}

	return &Connector{
		ID:         conn.ID,
		EncoderID:  conn.encoderID,
		Connection: uint8(conn.connection),
		Width:      conn.mmWidth,
		Height:     conn.mmHeight,

		// convert subpixel from kernel to userspace
		Subpixel: uint8(conn.subpixel + 1),
		Type:     conn.connectorType,
		TypeID:   conn.connectorTypeID,

		Modes:      truncate(modes, conn.countModes),
		Props:      truncate(props, conn.countProps),
		PropValues: truncate(propValues, conn.countProps),
		Encoders:   truncate(encoders, conn.countEncoders),
	}, nil
}

func GetEncoder(card *drm.Card, id uint32) (*Encoder, error) {
	encoder := &sysGetEncoder{id: id}
	if err := call(card, IOCTLModeGetEncoder, encoder); err != nil {
		return nil, err
	}
	return &Encoder{
		ID:             encoder.id,
		CrtcID:         encoder.crtcID,
		Type:           encoder.typ,
		PossibleCrtcs:  encoder.possibleCrtcs,
		PossibleClones: encoder.possibleClones,
	}, nil
}

// CreateFB allocates a dumb buffer object.
func CreateFB(card *drm.Card, width, height uint16, bpp uint32) (*FB, error) {
	fb := &sysCreateDumb{
		width:  uint32(width),
		height: uint32(height),
		bpp:    bpp,
	}
	if err := call(card, IOCTLModeCreateDumb, fb); err != nil {
		return nil, err
	}
	return &FB{
		Height: fb.height,
		Width:  fb.width,
		BPP:    fb.bpp,
		Handle: fb.handle,
		Pitch:  fb.pitch,
		Size:   fb.size,
	}, nil
}

// AddFB registers a buffer object as a framebuffer and returns its id.
func AddFB(card *drm.Card, width, height uint16,
	depth, bpp uint8, pitch, boHandle uint32) (uint32, error) {
	f := &sysFBCmd{
		width:  uint32(width),
		height: uint32(height),
		pitch:  pitch,
		bpp:    uint32(bpp),
		depth:  uint32(depth),
		handle: boHandle,
	}
	if err := call(card, IOCTLModeAddFB, f); err != nil {
		return 0, err
	}
	return f.fbID, nil
}

func RmFB(card *drm.Card, bufferid uint32) error {
	_, err := ioctl.NewReadWriter[uint32](card.Caller(), uint(IOCTLModeRmFB)).ReadWrite(card.Fd(), bufferid)
	return err
}

// MapDumb returns the fake offset to pass to mmap for the buffer.
func MapDumb(card *drm.Card, boHandle uint32) (uint64, error) {
	mreq := &sysMapDumb{handle: boHandle}
	if err := call(card, IOCTLModeMapDumb, mreq); err != nil {
		return 0, err
	}
	return mreq.offset, nil
}

// Map maps a dumb buffer into memory. Release it with unix.Munmap.
func Map(card *drm.Card, fb *FB) ([]byte, error) {
	offset, err := MapDumb(card, fb.Handle)
	if err != nil {
		return nil, err
	}
	if fb.Size == 0 {
		return nil, fmt.Errorf("%w: empty buffer %d", ioctl.ErrInvalidArgument, fb.Handle)
	}
	return unix.Mmap(card.Fd(), int64(offset), int(fb.Size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func DestroyDumb(card *drm.Card, handle uint32) error {
	return call(card, IOCTLModeDestroyDumb, &sysDestroyDumb{handle})
}

func GetCrtc(card *drm.Card, id uint32) (*Crtc, error) {
	crtc := &sysCrtc{id: id}
	if err := call(card, IOCTLModeGetCrtc, crtc); err != nil {
		return nil, err
	}
	return &Crtc{
		ID:        crtc.id,
		X:         crtc.x,
		Y:         crtc.y,
		ModeValid: int(crtc.modeValid),
		BufferID:  crtc.fbID,
		GammaSize: int(crtc.gammaSize),
		Mode:      crtc.mode,
		Width:     uint32(crtc.mode.Hdisplay),
		Height:    uint32(crtc.mode.Vdisplay),
	}, nil
}

// SetCrtc connects a framebuffer to the given connectors. A nil mode
// leaves the CRTC without a valid mode.
func SetCrtc(card *drm.Card, crtcid, bufferid, x, y uint32, connectors []uint32, mode *Info) error {
	crtc := &sysCrtc{
		x:                x,
		y:                y,
		id:               crtcid,
		fbID:             bufferid,
		setConnectorsPtr: ptr(connectors),
		countConnectors:  uint32(len(connectors)),
	}
	if mode != nil {
		crtc.mode = *mode
		crtc.modeValid = 1
	}
	err := call(card, IOCTLModeSetCrtc, crtc)
	runtime.KeepAlive(connectors)
	return err
}
