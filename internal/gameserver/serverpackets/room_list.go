package serverpackets

import (
	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
	"github.com/udisondev/drawguess/internal/protocol"
)

// RoomEntry is one row of the room table.
type RoomEntry struct {
	RoomID     byte
	Name       string
	NumPlayers byte
}

// RoomList carries the full room table. The body always holds ten entries;
// active rooms fill the first NumRooms slots in slot order and the rest is
// zero.
//
// Body structure (341 bytes):
//   - num_rooms  u8
//   - rooms      10 × { room_id u8, name char[32], num_players u8 }
type RoomList struct {
	Rooms []RoomEntry
}

// Write builds the ROOM_LIST frame.
func (p *RoomList) Write() []byte {
	w := packet.Get()
	defer w.Put()

	n := len(p.Rooms)
	if n > constants.MaxRooms {
		n = constants.MaxRooms
	}
	w.WriteByte(byte(n))

	for i := 0; i < constants.MaxRooms; i++ {
		var e RoomEntry
		if i < n {
			e = p.Rooms[i]
		}
		w.WriteByte(e.RoomID)
		w.WriteFixedString(e.Name, constants.RoomNameLen)
		w.WriteByte(e.NumPlayers)
	}

	return frame(protocol.MsgRoomList, 0, w)
}
