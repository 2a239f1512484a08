package serverpackets

import "github.com/udisondev/drawguess/internal/protocol"

// PainterFinish is the empty broadcast telling a room the painting phase is
// over, whether the painter finished or the deadline fired.
func PainterFinish() []byte {
	return empty(protocol.MsgPainterFinish, 0)
}
