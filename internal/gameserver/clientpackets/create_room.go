package clientpackets

import (
	"fmt"

	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
)

// CreateRoom represents a CREATE_ROOM message. The nickname rides along so
// a client can name itself and open a room in one round trip.
//
// Body structure:
//   - room_name  char[32]  NUL-terminated within the field
//   - nickname   char[32]  NUL-terminated within the field
type CreateRoom struct {
	RoomName string
	Nickname string
}

// ParseCreateRoom parses a CREATE_ROOM body.
func ParseCreateRoom(data []byte) (*CreateRoom, error) {
	r := packet.NewReader(data)

	roomName, err := r.ReadFixedString(constants.RoomNameLen)
	if err != nil {
		return nil, fmt.Errorf("reading room name: %w", err)
	}

	nickname, err := r.ReadFixedString(constants.NicknameLen)
	if err != nil {
		return nil, fmt.Errorf("reading nickname: %w", err)
	}

	return &CreateRoom{RoomName: roomName, Nickname: nickname}, nil
}
