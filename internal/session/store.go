// Package session persists everything that belongs to this device and never
// enters the shared document: the login identity and each player's
// in-progress drag arrangement.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

// Store is what the sync loop and arena engine need from device-local
// persistence. Loads degrade to zero values on missing or corrupt data; they
// never block login or play.
type Store interface {
	LoadSession(ctx context.Context) models.LocalSession
	SaveSession(ctx context.Context, sess models.LocalSession) error

	LoadArrangement(ctx context.Context, playerID string) (*models.Arrangement, error)
	SaveArrangement(ctx context.Context, playerID string, arr models.Arrangement) error
	ClearArrangement(ctx context.Context, playerID string) error
}

// SQLiteStore keeps the device state in an embedded libSQL database, the
// same way a browser backs localStorage with SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore initializes the schema and returns the store.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	// The libSQL driver executes only the first statement of a multi-statement
	// Exec, so each CREATE TABLE is submitted on its own.
	schema := []string{`
		CREATE TABLE IF NOT EXISTS local_session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_player_id TEXT NOT NULL DEFAULT '',
			is_admin INTEGER NOT NULL DEFAULT 0
		)`, `
		CREATE TABLE IF NOT EXISTS arrangements (
			player_id TEXT PRIMARY KEY,
			fragments TEXT NOT NULL,
			solution TEXT NOT NULL
		)`}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, err
		}
	}
	return &SQLiteStore{db: db}, nil
}

// LoadSession returns the remembered identity, or an empty session when none
// was saved or the row is unreadable.
func (s *SQLiteStore) LoadSession(ctx context.Context) models.LocalSession {
	var sess models.LocalSession
	err := s.db.QueryRowContext(ctx, `
		SELECT current_player_id, is_admin FROM local_session WHERE id = 1
	`).Scan(&sess.CurrentPlayerID, &sess.IsAdmin)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Msg("failed to load local session, starting fresh")
		}
		return models.LocalSession{}
	}
	return sess
}

// SaveSession persists the identity, replacing whatever was remembered.
func (s *SQLiteStore) SaveSession(ctx context.Context, sess models.LocalSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_session (id, current_player_id, is_admin)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_player_id = excluded.current_player_id,
			is_admin = excluded.is_admin
	`, sess.CurrentPlayerID, sess.IsAdmin)
	return err
}

// LoadArrangement returns the saved drag state for a player, or nil when
// none exists. Corrupt rows are discarded.
func (s *SQLiteStore) LoadArrangement(ctx context.Context, playerID string) (*models.Arrangement, error) {
	var fragments, solution []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT fragments, solution FROM arrangements WHERE player_id = ?
	`, playerID).Scan(&fragments, &solution)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var arr models.Arrangement
	if err := json.Unmarshal(fragments, &arr.Fragments); err != nil {
		log.Warn().Err(err).Str("player_id", playerID).Msg("discarding corrupt fragment arrangement")
		return nil, nil
	}
	if err := json.Unmarshal(solution, &arr.Solution); err != nil {
		log.Warn().Err(err).Str("player_id", playerID).Msg("discarding corrupt solution arrangement")
		return nil, nil
	}
	return &arr, nil
}

// SaveArrangement upserts the drag state for a player, namespaced by player
// ID so simulated players on one device don't collide.
func (s *SQLiteStore) SaveArrangement(ctx context.Context, playerID string, arr models.Arrangement) error {
	fragments, err := json.Marshal(arr.Fragments)
	if err != nil {
		return err
	}
	solution, err := json.Marshal(arr.Solution)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO arrangements (player_id, fragments, solution)
		VALUES (?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			fragments = excluded.fragments,
			solution = excluded.solution
	`, playerID, fragments, solution)
	return err
}

// ClearArrangement removes the saved drag state for a player.
func (s *SQLiteStore) ClearArrangement(ctx context.Context, playerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM arrangements WHERE player_id = ?`, playerID)
	return err
}
