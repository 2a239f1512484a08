package gameserver

import (
	"context"
	"time"
)

// RunTimer drives the room deadlines: once a second it asks the engine for
// expired paint and guess phases and emits the resulting transitions.
func (s *Server) RunTimer(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			guessStarts, roundEnds := s.rooms.Tick(now)
			for _, gs := range guessStarts {
				s.emitGuessStart(gs)
			}
			for _, re := range roundEnds {
				s.emitRoundEnd(ctx, re)
			}
		}
	}
}
