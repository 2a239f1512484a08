package serverpackets

import (
	"github.com/udisondev/drawguess/internal/constants"
	"github.com/udisondev/drawguess/internal/gameserver/packet"
	"github.com/udisondev/drawguess/internal/protocol"
)

// AiGuessResult carries the parked scoring reply, sent after GAME_END of the
// same round.
//
// Body structure (34 bytes):
//   - predicted_word  char[32]
//   - score           u8  0..100
//   - is_correct      u8  0 or 1
type AiGuessResult struct {
	PredictedWord string
	Score         byte
	IsCorrect     byte
}

// Write builds the AI_GUESS_RESULT frame.
func (p *AiGuessResult) Write() []byte {
	w := packet.Get()
	defer w.Put()

	w.WriteFixedString(p.PredictedWord, constants.WordLen)
	w.WriteByte(p.Score)
	w.WriteByte(p.IsCorrect)

	return frame(protocol.MsgAiGuessResult, 0, w)
}
