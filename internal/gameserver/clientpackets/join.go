// Package clientpackets parses the bodies of client-to-server messages.
// The header has already been consumed by the session read loop; every
// Parse function receives the body bytes only.
package clientpackets

import (
	"fmt"

	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
)

// Join represents a CLIENT_JOIN message. It announces a nickname and
// nothing else; room membership is requested separately.
//
// Body structure:
//   - nickname  char[32]  NUL-terminated within the field
type Join struct {
	Nickname string
}

// ParseJoin parses a CLIENT_JOIN body.
func ParseJoin(data []byte) (*Join, error) {
	r := packet.NewReader(data)

	nickname, err := r.ReadFixedString(constants.NicknameLen)
	if err != nil {
		return nil, fmt.Errorf("reading nickname: %w", err)
	}

	return &Join{Nickname: nickname}, nil
}
