package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	// telemetryQueueCap bounds the write-behind queue. A full queue drops
	// points; telemetry is never read back by the core.
	telemetryQueueCap = 1024

	// telemetryBatchMax caps how many rows one flush inserts.
	telemetryBatchMax = 256
)

// TelemetryPoint is one drawing sample queued for the drawing_data table.
type TelemetryPoint struct {
	GameID  int32
	X, Y    uint16
	Action  byte
	R, G, B byte
	TS      int64
}

// TelemetryWriter drains drawing telemetry off the datagram hot path. The
// UDP dispatcher enqueues with Record; one Run goroutine batches inserts.
type TelemetryWriter struct {
	store *Store
	ch    chan TelemetryPoint
}

// NewTelemetryWriter creates a writer over the given store.
func NewTelemetryWriter(s *Store) *TelemetryWriter {
	return &TelemetryWriter{
		store: s,
		ch:    make(chan TelemetryPoint, telemetryQueueCap),
	}
}

// Record enqueues one point without blocking. Points are dropped when the
// queue is full.
func (w *TelemetryWriter) Record(p TelemetryPoint) {
	select {
	case w.ch <- p:
	default:
		slog.Debug("telemetry queue full, point dropped", "game", p.GameID)
	}
}

// Run drains the queue until ctx is canceled, then flushes what it holds.
func (w *TelemetryWriter) Run(ctx context.Context) error {
	pending := make([]TelemetryPoint, 0, telemetryBatchMax)

	for {
		select {
		case <-ctx.Done():
			w.drain(pending)
			return nil
		case p := <-w.ch:
			pending = w.soak(append(pending, p))
			w.flush(ctx, pending)
			pending = pending[:0]
		}
	}
}

// soak pulls whatever else is already queued, up to the batch cap, before
// the database is touched.
func (w *TelemetryWriter) soak(pending []TelemetryPoint) []TelemetryPoint {
	for len(pending) < telemetryBatchMax {
		select {
		case p := <-w.ch:
			pending = append(pending, p)
		default:
			return pending
		}
	}
	return pending
}

// drain empties the queue and flushes everything with a short grace window.
// Called once on shutdown.
func (w *TelemetryWriter) drain(pending []TelemetryPoint) {
	for {
		select {
		case p := <-w.ch:
			pending = append(pending, p)
		default:
			if len(pending) > 0 {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				w.flush(ctx, pending)
				cancel()
			}
			return
		}
	}
}

func (w *TelemetryWriter) flush(ctx context.Context, points []TelemetryPoint) {
	if len(points) == 0 {
		return
	}

	var batch pgx.Batch
	for _, p := range points {
		batch.Queue(
			`INSERT INTO drawing_data (game_id, x, y, action, color_r, color_g, color_b, ts)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.GameID, int32(p.X), int32(p.Y), int16(p.Action), int16(p.R), int16(p.G), int16(p.B), p.TS,
		)
	}

	if err := w.store.pool.SendBatch(ctx, &batch).Close(); err != nil {
		slog.Warn("telemetry flush failed", "points", len(points), "err", err)
	}
}
