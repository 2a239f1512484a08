package clientpackets

import (
	"fmt"

	"github.com/udisondev/drawguess/internal/gameserver/packet"
)

// LeaveRoom represents a LEAVE_ROOM message. Leaving is idempotent: a stale
// room id is acknowledged without effect.
//
// Body structure:
//   - room_id  u8
type LeaveRoom struct {
	RoomID byte
}

// ParseLeaveRoom parses a LEAVE_ROOM body.
func ParseLeaveRoom(data []byte) (*LeaveRoom, error) {
	r := packet.NewReader(data)

	roomID, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}

	return &LeaveRoom{RoomID: roomID}, nil
}
