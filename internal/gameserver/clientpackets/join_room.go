package clientpackets

import (
	"fmt"

	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
)

// JoinRoom represents a JOIN_ROOM message.
//
// Body structure:
//   - room_id   u8
//   - nickname  char[32]  NUL-terminated within the field
type JoinRoom struct {
	RoomID   byte
	Nickname string
}

// ParseJoinRoom parses a JOIN_ROOM body.
func ParseJoinRoom(data []byte) (*JoinRoom, error) {
	r := packet.NewReader(data)

	roomID, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading room id: %w", err)
	}

	nickname, err := r.ReadFixedString(constants.NicknameLen)
	if err != nil {
		return nil, fmt.Errorf("reading nickname: %w", err)
	}

	return &JoinRoom{RoomID: roomID, Nickname: nickname}, nil
}
