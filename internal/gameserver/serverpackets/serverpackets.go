// Package serverpackets builds complete server-to-client frames: the 4-byte
// header followed by the fixed-width body. Builders return wire-ready bytes.
//
// Header client id conventions: GAME_START carries the recipient's id (this
// is how a client learns its own id), ERROR carries the requester's id, and
// every other frame carries zero.
package serverpackets

import (
	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
	"github.com/udisondev/drawguess/internal/protocol"
)

// frame prepends the header for msgType to the body accumulated in w and
// returns the full wire bytes.
func frame(msgType, clientID byte, w *packet.Writer) []byte {
	h := protocol.Header{
		Type:     msgType,
		ClientID: clientID,
		DataLen:  uint16(w.Len()),
	}

	out := make([]byte, constants.PacketHeaderSize+w.Len())
	protocol.PutHeader(out, h)
	copy(out[constants.PacketHeaderSize:], w.Bytes())
	return out
}

// empty builds a bodyless frame.
func empty(msgType, clientID byte) []byte {
	out := make([]byte, constants.PacketHeaderSize)
	protocol.PutHeader(out, protocol.Header{Type: msgType, ClientID: clientID})
	return out
}
