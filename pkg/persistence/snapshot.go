// Package persistence defines the serialisable snapshot shape a table
// restores from and the Store interface a concrete backend (pkg/persistence/
// sqlite) implements. Grounded on pkg/server/internal/db/db.go's
// TableState/PlayerState JSON-TEXT-column shape and pkg/server/db.go's
// restore-with-validation flow (loadTableFromDatabase), generalized from a
// single hold'em Game into the variant-parameterized engine.Hand this
// project's table loop drives.
package persistence

import (
	"fmt"
	"time"

	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/engine"
)

// CurrentSchemaVersion is bumped whenever TableSnapshot's shape changes in a
// way old rows can't be read as. Persisted alongside every snapshot so a
// future migration can tell which rows need upgrading.
const CurrentSchemaVersion = 1

// SeatSnapshot is a table seat's durable identity, independent of whatever
// hand (if any) is in progress.
type SeatSnapshot struct {
	SeatID    int    `json:"seatId"`
	PlayerID  string `json:"playerId"`
	Stack     int64  `json:"stack"`
	Connected bool   `json:"connected"`
}

// TableSnapshot is the serialisable tuple (tableState, deck, removedPlayers,
// rabbitPreviewed, ritConsents) named in §4.13.
type TableSnapshot struct {
	SchemaVersion int                 `json:"schemaVersion"`
	TableID       string              `json:"tableId"`
	Seats         []SeatSnapshot      `json:"seats"`
	Hand          *engine.HandSnapshot `json:"hand,omitempty"`
	// RemovedPlayers are seats that left mid-hand; kept until the hand
	// resolves so a rejoin doesn't collide with an active side pot.
	RemovedPlayers []string `json:"removedPlayers,omitempty"`
	// RabbitPreviewed records which streets (by name) have already been
	// shown to at least one requester, for idempotent rabbit-hunt replies.
	RabbitPreviewed map[string]bool `json:"rabbitPreviewed,omitempty"`
	// RITConsents maps seatID -> whether that seat has consented to the
	// pending Run-It-Twice prompt.
	RITConsents map[int]bool `json:"ritConsents,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ToSnapshot builds a TableSnapshot tuple, stamping the current schema
// version.
func ToSnapshot(tableID string, seats []SeatSnapshot, hand *engine.Hand, removedPlayers []string, rabbitPreviewed map[string]bool, ritConsents map[int]bool, now time.Time) *TableSnapshot {
	var hs *engine.HandSnapshot
	if hand != nil {
		snap := hand.Snapshot()
		hs = &snap
	}
	return &TableSnapshot{
		SchemaVersion:   CurrentSchemaVersion,
		TableID:         tableID,
		Seats:           seats,
		Hand:            hs,
		RemovedPlayers:  removedPlayers,
		RabbitPreviewed: rabbitPreviewed,
		RITConsents:     ritConsents,
		UpdatedAt:       now,
	}
}

// Validate enforces §4.13's restore contract: a non-empty tableId, an array
// (possibly empty) of seats, and — if a hand is in progress — that its
// blinds are set and its deck carries a full 52 cards. A failing snapshot
// must never be partially restored; the caller treats the table as absent.
func Validate(s *TableSnapshot) error {
	if s == nil {
		return fmt.Errorf("persistence: nil snapshot")
	}
	if s.TableID == "" {
		return fmt.Errorf("persistence: snapshot has empty tableId")
	}
	if s.Seats == nil {
		return fmt.Errorf("persistence: snapshot seats is not an array")
	}
	if s.Hand != nil {
		if s.Hand.SmallBlind <= 0 || s.Hand.BigBlind <= 0 {
			return fmt.Errorf("persistence: snapshot hand has non-numeric blinds")
		}
		if len(s.Hand.Deck.Cards) != 52 {
			return fmt.Errorf("persistence: snapshot hand deck is not a full 52-card array")
		}
	}
	return nil
}

// FromSnapshot validates s and rebuilds its live engine.Hand (if one was in
// progress). Returns the hand as nil, not an error, when the table was
// between hands.
func FromSnapshot(s *TableSnapshot) (*engine.Hand, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	if s.Hand == nil {
		return nil, nil
	}
	return engine.FromSnapshot(*s.Hand)
}

// RITWinner is one seat's share of a completed Run-It-Twice run.
type RITWinner struct {
	PlayerID string `json:"playerId"`
	PotShare int64  `json:"potShare"`
}

// RITOutcomeRecord is one append-only row of run-it-twice history (§4.6/§6),
// keyed by (HandID, BoardNumber).
type RITOutcomeRecord struct {
	HandID         uint64       `json:"handId"`
	BoardNumber    int          `json:"boardNumber"`
	CommunityCards []cards.Card `json:"communityCards"`
	Winners        []RITWinner  `json:"winners"`
	PotAmount      int64        `json:"potAmount"`
}
