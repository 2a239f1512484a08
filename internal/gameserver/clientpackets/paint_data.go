package clientpackets

import (
	"fmt"

	"github.com/udisondev/drawguess/internal/gameserver/packet"
)

// PaintData represents one PAINT_DATA datagram body. Action values are the
// constants.Action* set; anything above constants.ActionClear is dropped by
// the datagram dispatcher.
//
// Body structure:
//   - x       u16
//   - y       u16
//   - action  u8
//   - r       u8
//   - g       u8
//   - b       u8
type PaintData struct {
	X, Y    uint16
	Action  byte
	R, G, B byte
}

// ParsePaintData parses a PAINT_DATA body.
func ParsePaintData(data []byte) (*PaintData, error) {
	r := packet.NewReader(data)

	x, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading x: %w", err)
	}
	y, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading y: %w", err)
	}
	action, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading action: %w", err)
	}
	cr, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading color r: %w", err)
	}
	cg, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading color g: %w", err)
	}
	cb, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading color b: %w", err)
	}

	return &PaintData{X: x, Y: y, Action: action, R: cr, G: cg, B: cb}, nil
}
