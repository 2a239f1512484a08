package gameserver

import (
	"context"

	"github.com/udisondev/drawguess/internal/game"
	"github.com/udisondev/drawguess/internal/store"
)

// Repository is the word/history store the session handler talks to.
// *store.Store implements it; tests substitute a stub.
type Repository interface {
	PickWord(ctx context.Context) (string, error)
	ListCandidates(ctx context.Context) ([]string, error)
	AppendHistory(ctx context.Context, gameID int32, word, username, userGuess, gameTime string) error
	ListHistory(ctx context.Context, username string, limit int) ([]game.HistoryEntry, error)
}

// Scorer grades a finished drawing. *ai.Client implements it.
type Scorer interface {
	Score(ctx context.Context, target string, candidates []string, drawing []game.Point) (game.AIResult, error)
}

// Telemetry receives recorded stroke points for write-behind persistence.
// *store.TelemetryWriter implements it; Record must never block.
type Telemetry interface {
	Record(p store.TelemetryPoint)
}
