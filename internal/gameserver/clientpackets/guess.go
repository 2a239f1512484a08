package clientpackets

import (
	"fmt"

	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
)

// Guess represents a GUESS_SUBMIT message.
//
// Body structure:
//   - guess  char[64]  NUL-terminated within the field
type Guess struct {
	Guess string
}

// ParseGuess parses a GUESS_SUBMIT body.
func ParseGuess(data []byte) (*Guess, error) {
	r := packet.NewReader(data)

	guess, err := r.ReadFixedString(constants.GuessLen)
	if err != nil {
		return nil, fmt.Errorf("reading guess: %w", err)
	}

	return &Guess{Guess: guess}, nil
}
