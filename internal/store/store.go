// Package store is the word and history repository backed by PostgreSQL.
// The game core touches persistent state only through the four operations
// here plus the write-behind drawing telemetry.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/drawguess/internal/game"
	"github.com/udisondev/drawguess/internal/store/migrations"
)

// DefaultWord is handed out when the words table is empty so a round can
// always start.
const DefaultWord = "apple"

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and verifies the connection.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool. Used by tests that own the container.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// RunMigrations applies the embedded goose migrations to the given DSN.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// PickWord returns one uniformly random dictionary entry, or DefaultWord
// when the table is empty.
func (s *Store) PickWord(ctx context.Context) (string, error) {
	var word string
	err := s.pool.QueryRow(ctx,
		`SELECT word FROM words ORDER BY random() LIMIT 1`,
	).Scan(&word)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultWord, nil
	}
	if err != nil {
		return "", fmt.Errorf("picking word: %w", err)
	}
	return word, nil
}

// ListCandidates returns every dictionary word in insertion order.
func (s *Store) ListCandidates(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT word FROM words ORDER BY word_id`)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading candidates: %w", err)
	}
	return words, nil
}

// AppendHistory inserts one round record. Callers log failures and continue;
// a lost record never fails a round.
func (s *Store) AppendHistory(ctx context.Context, gameID int32, word, username, userGuess, gameTime string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO history (game_id, word, username, user_guess, game_time)
		 VALUES ($1, $2, $3, $4, $5)`,
		gameID, word, username, userGuess, gameTime,
	)
	if err != nil {
		return fmt.Errorf("appending history for %q: %w", username, err)
	}
	return nil
}

// ListHistory returns the most recent limit records for a nickname, newest
// first.
func (s *Store) ListHistory(ctx context.Context, username string, limit int) ([]game.HistoryEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT game_id, word, user_guess, game_time
		 FROM history WHERE username = $1
		 ORDER BY record_id DESC LIMIT $2`,
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history for %q: %w", username, err)
	}
	defer rows.Close()

	var entries []game.HistoryEntry
	for rows.Next() {
		var e game.HistoryEntry
		if err := rows.Scan(&e.GameID, &e.Word, &e.UserGuess, &e.GameTime); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}
