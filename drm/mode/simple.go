package mode

import (
	"fmt"

	"github.com/NeowayLabs/ioctl/drm"
)

type (
	// Modeset pairs a connected connector with the CRTC that drives it.
	Modeset struct {
		Width, Height uint16

		Mode Info
		Conn uint32
		Crtc uint32
	}

	// SimpleModeset picks the first mode of every connected connector
	// and a distinct CRTC for each.
	SimpleModeset struct {
		Modesets []Modeset
		card     *drm.Card
	}
)

func (mset *SimpleModeset) prepare() error {
	res, err := GetResources(mset.card)
	if err != nil {
		return fmt.Errorf("cannot retrieve resources: %w", err)
	}

	for _, connid := range res.Connectors {
		conn, err := GetConnector(mset.card, connid)
		if err != nil {
			return fmt.Errorf("cannot retrieve connector %d: %w", connid, err)
		}

		dev := Modeset{Conn: conn.ID}
		ok, err := mset.setupDev(res, conn, &dev)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		mset.Modesets = append(mset.Modesets, dev)
	}
	return nil
}

func (mset *SimpleModeset) setupDev(res *Resources, conn *Connector, dev *Modeset) (bool, error) {
	// check if a monitor is connected
	if conn.Connection != Connected {
		return false, nil
	}

	// check if there is at least one valid mode
	if len(conn.Modes) == 0 || conn.Modes[0].Hdisplay == 0 {
		return false, fmt.Errorf("no valid mode for connector %d", conn.ID)
	}
	dev.Mode = conn.Modes[0]
	dev.Width = conn.Modes[0].Hdisplay
	dev.Height = conn.Modes[0].Vdisplay

	if err := mset.findCrtc(res, conn, dev); err != nil {
		return false, fmt.Errorf("no valid crtc for connector %d: %w", conn.ID, err)
	}
	return true, nil
}

func (mset *SimpleModeset) used(crtcid uint32) bool {
	for _, m := range mset.Modesets {
		if m.Crtc == crtcid {
			return true
		}
	}
	return false
}

func (mset *SimpleModeset) findCrtc(res *Resources, conn *Connector, dev *Modeset) error {
	// try the currently bound encoder+crtc first
	if conn.EncoderID != 0 {
		encoder, err := GetEncoder(mset.card, conn.EncoderID)
		if err != nil {
			return err
		}
		if encoder.CrtcID != 0 && !mset.used(encoder.CrtcID) {
			dev.Crtc = encoder.CrtcID
			return nil
		}
	}

	// If the connector is not currently bound to an encoder or if the
	// encoder+crtc is already used by another connector, iterate all
	// other available encoders to find a matching CRTC.
	for _, encid := range conn.Encoders {
		encoder, err := GetEncoder(mset.card, encid)
		if err != nil {
			return fmt.Errorf("cannot retrieve encoder %d: %w", encid, err)
		}
		for j, crtcid := range res.Crtcs {
			// check whether this CRTC works with the encoder
			if encoder.PossibleCrtcs&(1<<uint(j)) == 0 {
				continue
			}
			if !mset.used(crtcid) {
				dev.Crtc = crtcid
				return nil
			}
		}
	}

	return fmt.Errorf("cannot find a suitable CRTC for connector %d", conn.ID)
}

// SetCrtc restores a saved CRTC configuration on dev's connector.
func (mset *SimpleModeset) SetCrtc(dev *Modeset, savedCrtc *Crtc) error {
	err := SetCrtc(mset.card, savedCrtc.ID,
		savedCrtc.BufferID,
		savedCrtc.X, savedCrtc.Y,
		[]uint32{dev.Conn},
		&savedCrtc.Mode,
	)
	if err != nil {
		return fmt.Errorf("failed to restore CRTC: %w", err)
	}
	return nil
}

func NewSimpleModeset(card *drm.Card) (*SimpleModeset, error) {
	mset := &SimpleModeset{card: card}
	if err := mset.prepare(); err != nil {
		return nil, err
	}
	return mset, nil
}
