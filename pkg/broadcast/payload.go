// Package broadcast turns table-loop events into versioned, per-audience
// sanitised payloads and fans them out through a bounded worker pool.
// Grounded on pkg/server/events.go's EventProcessor/eventWorker shape and
// pkg/server/collectors.go's per-player snapshot collection, generalized
// from the teacher's single GameEvent/TableSnapshot pair into an explicit
// state_update/reconcile split with per-table sequencing and drop-oldest
// backpressure.
package broadcast

import (
	"github.com/google/uuid"
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/engine"
)

// PlayerView is one seat's sanitised view inside a StatePayload.
type PlayerView struct {
	SeatID     int
	ID         string
	Stack      int64
	CurrentBet int64
	HoleCards  []cards.Card // nil/empty unless the audience may see them
	UpCards    []cards.Card
	HasActed   bool
	IsFolded   bool
	IsAllIn    bool
	IsDealer   bool
	IsTurn     bool
	Stage      string
}

// StatePayload is the sanitised shape shipped to clients (and to the
// room-wide broadcast variant), independent of whether it rides on a
// state_update delta or a reconcile full-state message.
type StatePayload struct {
	// EventID is an idempotency key a client or downstream sink can use to
	// dedupe a redelivery, independent of Sequence (which tracks ordering,
	// not delivery attempts).
	EventID       string
	TableID       string
	HandID        uint64
	Sequence      uint64
	Stage         string
	Street        string
	Pot           int64
	CurrentBet    int64
	CommunityCards []cards.Card
	Players       []PlayerView
	ActiveSeat    int
}

// revealAll reports whether every player's hole cards may be shown to any
// audience: showdown (or the hand having finished resolving) and the
// locked-all-in case where no more decisions remain, per §4.12.
func revealAll(h *engine.Hand) bool {
	return h.Stage == engine.StageShowdown || h.Stage == engine.StageComplete || h.IsAutoRunoutLocked()
}

// sanitizeHoleCards decides what a given viewer may see of p's cards.
// viewerID == "" means the room-wide broadcast variant, which never reveals
// a still-live opponent's hand. Stud up-cards are always visible; only
// down-cards follow the hole-card reveal rule.
func sanitizeHoleCards(h *engine.Hand, p *engine.Player, viewerID string) ([]cards.Card, []cards.Card) {
	owner := viewerID != "" && viewerID == p.ID
	reveal := owner || revealAll(h)

	if !h.VariantCfg.IsStud {
		if reveal {
			return p.HoleCards, nil
		}
		return nil, nil
	}

	// Stud: up-cards are public knowledge regardless of audience; down-cards
	// follow the same reveal rule as a community game's hole cards.
	if reveal {
		return p.HoleCards, p.UpCards
	}
	return nil, p.UpCards
}

// BuildStatePayload renders h for viewerID ("" for the room-wide variant).
func BuildStatePayload(h *engine.Hand, tableID string, sequence uint64, viewerID string) *StatePayload {
	players := make([]PlayerView, 0, len(h.Players))
	for _, p := range h.Players {
		hole, up := sanitizeHoleCards(h, p, viewerID)
		players = append(players, PlayerView{
			SeatID:     p.SeatID,
			ID:         p.ID,
			Stack:      p.Stack,
			CurrentBet: p.CurrentBet,
			HoleCards:  hole,
			UpCards:    up,
			HasActed:   p.HasActed,
			IsFolded:   p.IsFolded,
			IsAllIn:    p.IsAllIn,
			IsDealer:   p.IsDealer,
			IsTurn:     h.ActiveSeat == p.SeatID,
			Stage:      p.Stage.String(),
		})
	}

	community := make([]cards.Card, len(h.Community))
	copy(community, h.Community)

	return &StatePayload{
		EventID:        uuid.NewString(),
		TableID:        tableID,
		HandID:         h.ID,
		Sequence:       sequence,
		Stage:          h.Stage.String(),
		Street:         h.VariantCfg.Streets[h.StreetIdx].String(),
		Pot:            h.Pot,
		CurrentBet:     h.CurrentBet,
		CommunityCards: community,
		Players:        players,
		ActiveSeat:     h.ActiveSeat,
	}
}
