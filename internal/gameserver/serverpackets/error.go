package serverpackets

import "github.com/udisondev/drawguess/internal/protocol"

// Error is the empty refusal frame. The header carries the requester's id so
// a client can match it to its outstanding request.
func Error(requesterID byte) []byte {
	return empty(protocol.MsgError, requesterID)
}
