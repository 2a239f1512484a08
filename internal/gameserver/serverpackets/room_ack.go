package serverpackets

import (
	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
	"github.com/udisondev/drawguess/internal/protocol"
)

// RoomAck confirms a CREATE_ROOM or JOIN_ROOM to the requester only; peers
// learn membership changes from ROOM_LIST polling.
//
// Body structure (66 bytes), shared by ROOM_CREATED and ROOM_JOINED:
//   - room_id      u8
//   - room_name    char[32]
//   - nickname     char[32]
//   - num_players  u8
type RoomAck struct {
	RoomID     byte
	RoomName   string
	Nickname   string
	NumPlayers byte
}

// WriteCreated builds the ROOM_CREATED frame.
func (p *RoomAck) WriteCreated() []byte {
	return p.write(protocol.MsgRoomCreated)
}

// WriteJoined builds the ROOM_JOINED frame.
func (p *RoomAck) WriteJoined() []byte {
	return p.write(protocol.MsgRoomJoined)
}

func (p *RoomAck) write(msgType byte) []byte {
	w := packet.Get()
	defer w.Put()

	w.WriteByte(p.RoomID)
	w.WriteFixedString(p.RoomName, constants.RoomNameLen)
	w.WriteFixedString(p.Nickname, constants.NicknameLen)
	w.WriteByte(p.NumPlayers)

	return frame(msgType, 0, w)
}

// RoomLeft confirms a LEAVE_ROOM, echoing the requested room id even when it
// was stale.
func RoomLeft(roomID byte) []byte {
	w := packet.Get()
	defer w.Put()

	w.WriteByte(roomID)

	return frame(protocol.MsgRoomLeft, 0, w)
}
