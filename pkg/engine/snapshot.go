package engine

import (
	"fmt"

	"github.com/pokercore/engine/pkg/betting"
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/eval"
	"github.com/pokercore/engine/pkg/statemachine"
)

// PlayerSnapshot is the serialisable form of a Player, used by
// pkg/persistence. Field names match Player's so a caller can round-trip
// without a lookup table.
type PlayerSnapshot struct {
	ID               string       `json:"id"`
	SeatID           int          `json:"seatId"`
	Stack            int64        `json:"stack"`
	CurrentBet       int64        `json:"currentBet"`
	TotalContributed int64        `json:"totalContributed"`
	HoleCards        []cards.Card `json:"holeCards,omitempty"`
	UpCards          []cards.Card `json:"upCards,omitempty"`
	HasActed         bool         `json:"hasActed"`
	IsFolded         bool         `json:"isFolded"`
	IsAllIn          bool         `json:"isAllIn"`
	IsDealer         bool         `json:"isDealer"`
	Stage            int          `json:"stage"`
}

// Snapshot captures p's persistable state.
func (p *Player) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:               p.ID,
		SeatID:           p.SeatID,
		Stack:            p.Stack,
		CurrentBet:       p.CurrentBet,
		TotalContributed: p.TotalContributed,
		HoleCards:        p.HoleCards,
		UpCards:          p.UpCards,
		HasActed:         p.HasActed,
		IsFolded:         p.IsFolded,
		IsAllIn:          p.IsAllIn,
		IsDealer:         p.IsDealer,
		Stage:            int(p.Stage),
	}
}

// RestorePlayer rebuilds a Player from a snapshot, re-deriving the state
// machine's current function from the snapshot's flags rather than
// persisting a function pointer — mirroring how Sync() already recovers
// Stage from IsFolded/IsAllIn after a direct field mutation.
func RestorePlayer(s PlayerSnapshot) *Player {
	p := &Player{
		ID:               s.ID,
		SeatID:           s.SeatID,
		Stack:            s.Stack,
		CurrentBet:       s.CurrentBet,
		TotalContributed: s.TotalContributed,
		HoleCards:        s.HoleCards,
		UpCards:          s.UpCards,
		HasActed:         s.HasActed,
		IsFolded:         s.IsFolded,
		IsAllIn:          s.IsAllIn,
		IsDealer:         s.IsDealer,
		Stage:            PlayerStage(s.Stage),
	}
	if p.Stage == PlayerAtTable {
		p.stateMachine = statemachine.NewStateMachine(p, playerStateAtTable)
	} else {
		p.stateMachine = statemachine.NewStateMachine(p, playerStateInHand)
		p.stateMachine.Dispatch(nil) // falls through to Folded/AllIn per the restored flags
	}
	return p
}

// HandSnapshot is the serialisable tuple a Hand restores from (§4.13).
type HandSnapshot struct {
	ID         uint64           `json:"id"`
	Variant    int              `json:"variant"`
	SmallBlind int64            `json:"smallBlind"`
	BigBlind   int64            `json:"bigBlind"`
	BringIn    int64            `json:"bringIn"`
	Limit      int              `json:"limit"`
	Players    []PlayerSnapshot `json:"players"`
	DealerSeat int              `json:"dealerSeat"`
	ActiveSeat int              `json:"activeSeat"`
	Deck       cards.State      `json:"deck"`
	Community  []cards.Card     `json:"communityCards,omitempty"`
	Pot        int64            `json:"pot"`
	CurrentBet int64            `json:"currentBet"`
	MinRaise   int64            `json:"minRaise"`
	StreetIdx  int              `json:"streetIdx"`
	Stage      int              `json:"stage"`
}

// Snapshot captures h's persistable state.
func (h *Hand) Snapshot() HandSnapshot {
	players := make([]PlayerSnapshot, len(h.Players))
	for i, p := range h.Players {
		players[i] = p.Snapshot()
	}
	return HandSnapshot{
		ID:         h.ID,
		Variant:    int(h.Config.Variant),
		SmallBlind: h.Config.SmallBlind,
		BigBlind:   h.Config.BigBlind,
		BringIn:    h.Config.BringIn,
		Limit:      int(h.Config.Limit),
		Players:    players,
		DealerSeat: h.DealerSeat,
		ActiveSeat: h.ActiveSeat,
		Deck:       h.Deck.GetState(),
		Community:  h.Community,
		Pot:        h.Pot,
		CurrentBet: h.CurrentBet,
		MinRaise:   h.MinRaise,
		StreetIdx:  h.StreetIdx,
		Stage:      int(h.Stage),
	}
}

// FromSnapshot rebuilds a Hand from a persisted snapshot without reshuffling
// or re-dealing — a pure constructor distinct from NewHand, which always
// deals a fresh hand. Validates the shape §4.13 requires before touching any
// field: a non-empty player list, a deck with exactly 52 cards, and a street
// index inside the variant's own street sequence.
func FromSnapshot(s HandSnapshot) (*Hand, error) {
	if len(s.Players) == 0 {
		return nil, fmt.Errorf("engine: snapshot has no players")
	}
	if len(s.Deck.Cards) != 52 {
		return nil, fmt.Errorf("engine: snapshot deck has %d cards, want 52", len(s.Deck.Cards))
	}
	if s.DealerSeat < 0 || s.DealerSeat >= len(s.Players) {
		return nil, fmt.Errorf("engine: snapshot dealer seat %d out of range", s.DealerSeat)
	}

	variantCfg := ConfigFor(eval.Variant(s.Variant))
	if s.StreetIdx < 0 || s.StreetIdx >= len(variantCfg.Streets) {
		return nil, fmt.Errorf("engine: snapshot street index %d out of range", s.StreetIdx)
	}

	deck, err := cards.RestoreDeck(s.Deck)
	if err != nil {
		return nil, fmt.Errorf("engine: restoring deck: %w", err)
	}

	players := make([]*Player, len(s.Players))
	for i, ps := range s.Players {
		players[i] = RestorePlayer(ps)
	}

	h := &Hand{
		ID: s.ID,
		Config: HandConfig{
			Variant:    eval.Variant(s.Variant),
			SmallBlind: s.SmallBlind,
			BigBlind:   s.BigBlind,
			BringIn:    s.BringIn,
			Limit:      betting.LimitType(s.Limit),
		},
		VariantCfg: variantCfg,
		Players:    players,
		DealerSeat: s.DealerSeat,
		ActiveSeat: s.ActiveSeat,
		Deck:       deck,
		Community:  s.Community,
		Pot:        s.Pot,
		CurrentBet: s.CurrentBet,
		MinRaise:   s.MinRaise,
		StreetIdx:  s.StreetIdx,
		Stage:      HandStage(s.Stage),
	}

	var fn HandStateFn
	switch h.Stage {
	case StageBetting:
		fn = stateBetting
	case StageShowdown:
		fn = stateShowdown
	default:
		fn = stateComplete
	}
	h.stateMachine = statemachine.NewStateMachine(h, fn)
	return h, nil
}
