package serverpackets

import (
	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
	"github.com/udisondev/drawguess/internal/protocol"
)

// GameEnd announces the round result. WinnerID is constants.NoWinner when no
// guess matched the word.
//
// Body structure (34 bytes):
//   - correct_word  char[32]
//   - winner_id     u8
//   - guess_count   u8
type GameEnd struct {
	CorrectWord string
	WinnerID    byte
	GuessCount  byte
}

// Write builds the GAME_END frame.
func (p *GameEnd) Write() []byte {
	w := packet.Get()
	defer w.Put()

	w.WriteFixedString(p.CorrectWord, constants.WordLen)
	w.WriteByte(p.WinnerID)
	w.WriteByte(p.GuessCount)

	return frame(protocol.MsgGameEnd, 0, w)
}
