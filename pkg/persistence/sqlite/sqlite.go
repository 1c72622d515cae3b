// Package sqlite is the concrete persistence.Store backend, grounded
// directly on pkg/server/internal/db/db.go's JSON-TEXT-column schema
// (table_states/player_states saved via json.Marshal into TEXT columns) and
// pkg/server/db.go's restore-with-validation flow. Extended with a
// schema_version column and an append-only rit_outcomes table that the
// teacher's schema has no equivalent of.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pokercore/engine/pkg/persistence"
)

// Store is a sqlite-backed persistence.Store.
type Store struct {
	db *sql.DB
}

// Open connects to (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tables (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			seats TEXT NOT NULL DEFAULT '[]',
			hand TEXT,
			removed_players TEXT DEFAULT '[]',
			rabbit_previewed TEXT DEFAULT '{}',
			rit_consents TEXT DEFAULT '{}',
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rit_outcomes (
			hand_id INTEGER NOT NULL,
			board_number INTEGER NOT NULL,
			community_cards TEXT NOT NULL,
			winners TEXT NOT NULL,
			pot_amount INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (hand_id, board_number)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// SaveTable upserts a table's full snapshot.
func (s *Store) SaveTable(ctx context.Context, snap *persistence.TableSnapshot) error {
	if err := persistence.Validate(snap); err != nil {
		return fmt.Errorf("sqlite: refusing to save invalid snapshot: %w", err)
	}
	seatsJSON, err := json.Marshal(snap.Seats)
	if err != nil {
		return err
	}
	var handJSON []byte
	if snap.Hand != nil {
		handJSON, err = json.Marshal(snap.Hand)
		if err != nil {
			return err
		}
	}
	removedJSON, err := json.Marshal(snap.RemovedPlayers)
	if err != nil {
		return err
	}
	rabbitJSON, err := json.Marshal(snap.RabbitPreviewed)
	if err != nil {
		return err
	}
	ritJSON, err := json.Marshal(snap.RITConsents)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tables (id, schema_version, seats, hand, removed_players, rabbit_previewed, rit_consents, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			seats = excluded.seats,
			hand = excluded.hand,
			removed_players = excluded.removed_players,
			rabbit_previewed = excluded.rabbit_previewed,
			rit_consents = excluded.rit_consents,
			updated_at = excluded.updated_at
	`, snap.TableID, snap.SchemaVersion, string(seatsJSON), nullableString(handJSON),
		string(removedJSON), string(rabbitJSON), string(ritJSON), snap.UpdatedAt)
	return err
}

func nullableString(b []byte) interface{} {
	if b == nil {
		return nil
	}
	return string(b)
}

// LoadTable loads and validates a table's snapshot. A row that fails
// validation is treated as absent: (nil, err) distinguishes "not found or
// corrupt" from "found and usable" for the caller.
func (s *Store) LoadTable(ctx context.Context, tableID string) (*persistence.TableSnapshot, error) {
	var (
		snap                                                      persistence.TableSnapshot
		seatsJSON, removedJSON, rabbitJSON, ritJSON                string
		handJSON                                                  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, schema_version, seats, hand, removed_players, rabbit_previewed, rit_consents, updated_at
		FROM tables WHERE id = ?
	`, tableID).Scan(&snap.TableID, &snap.SchemaVersion, &seatsJSON, &handJSON, &removedJSON, &rabbitJSON, &ritJSON, &snap.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: table %s not found", tableID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load table %s: %w", tableID, err)
	}

	if err := json.Unmarshal([]byte(seatsJSON), &snap.Seats); err != nil {
		return nil, fmt.Errorf("sqlite: corrupt seats for table %s: %w", tableID, err)
	}
	if handJSON.Valid {
		if err := json.Unmarshal([]byte(handJSON.String), &snap.Hand); err != nil {
			return nil, fmt.Errorf("sqlite: corrupt hand for table %s: %w", tableID, err)
		}
	}
	if err := json.Unmarshal([]byte(removedJSON), &snap.RemovedPlayers); err != nil {
		return nil, fmt.Errorf("sqlite: corrupt removed_players for table %s: %w", tableID, err)
	}
	if err := json.Unmarshal([]byte(rabbitJSON), &snap.RabbitPreviewed); err != nil {
		return nil, fmt.Errorf("sqlite: corrupt rabbit_previewed for table %s: %w", tableID, err)
	}
	if err := json.Unmarshal([]byte(ritJSON), &snap.RITConsents); err != nil {
		return nil, fmt.Errorf("sqlite: corrupt rit_consents for table %s: %w", tableID, err)
	}

	if err := persistence.Validate(&snap); err != nil {
		return nil, fmt.Errorf("sqlite: stored snapshot for table %s fails validation: %w", tableID, err)
	}
	return &snap, nil
}

// DeleteTable removes a table's persisted state.
func (s *Store) DeleteTable(ctx context.Context, tableID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tables WHERE id = ?", tableID)
	return err
}

// ListTableIDs returns every persisted table id, for rehydration on startup.
func (s *Store) ListTableIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM tables")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AppendRITOutcome records a run-it-twice run's result. Fire-and-forget per
// §4.13: a failure here is logged by the caller, never allowed to block hand
// resolution.
func (s *Store) AppendRITOutcome(ctx context.Context, rec persistence.RITOutcomeRecord) error {
	communityJSON, err := json.Marshal(rec.CommunityCards)
	if err != nil {
		return err
	}
	winnersJSON, err := json.Marshal(rec.Winners)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO rit_outcomes (hand_id, board_number, community_cards, winners, pot_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.HandID, rec.BoardNumber, string(communityJSON), string(winnersJSON), rec.PotAmount, time.Now())
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ persistence.Store = (*Store)(nil)
