package serverpackets

import (
	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
	"github.com/udisondev/drawguess/internal/protocol"
)

// HistoryData carries one round record in reply to HISTORY_REQ. Records are
// sent newest first and terminated by HISTORY_END.
//
// Body structure (132 bytes):
//   - game_id     i32
//   - word        char[32]
//   - user_guess  char[64]  the literal guess, "(Painter)" or "(No Guess)"
//   - game_time   char[32]  "2006-01-02 15:04:05"
type HistoryData struct {
	GameID    int32
	Word      string
	UserGuess string
	GameTime  string
}

// Write builds the HISTORY_DATA frame.
func (p *HistoryData) Write() []byte {
	w := packet.Get()
	defer w.Put()

	w.WriteInt32(p.GameID)
	w.WriteFixedString(p.Word, constants.WordLen)
	w.WriteFixedString(p.UserGuess, constants.GuessLen)
	w.WriteFixedString(p.GameTime, constants.GameTimeLen)

	return frame(protocol.MsgHistoryData, 0, w)
}

// HistoryEnd terminates a history reply.
func HistoryEnd() []byte {
	return empty(protocol.MsgHistoryEnd, 0)
}
