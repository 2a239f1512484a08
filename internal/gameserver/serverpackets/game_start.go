package serverpackets

import (
	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
	"github.com/udisondev/drawguess/internal/protocol"
)

// GameStart announces a round start to one room member. The header client id
// is the recipient's own id; the body is identical for every member.
//
// Body structure (37 bytes):
//   - painter_id  u8
//   - word        char[32]
//   - paint_time  u32  seconds
type GameStart struct {
	RecipientID byte
	PainterID   byte
	Word        string
	PaintTime   uint32
}

// Write builds the GAME_START frame.
func (p *GameStart) Write() []byte {
	w := packet.Get()
	defer w.Put()

	w.WriteByte(p.PainterID)
	w.WriteFixedString(p.Word, constants.WordLen)
	w.WriteUint32(p.PaintTime)

	return frame(protocol.MsgGameStart, p.RecipientID, w)
}
