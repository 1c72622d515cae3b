// Package engine drives a single poker hand through its streets: dealing,
// betting, showdown, Run-It-Twice, and rabbit-hunt previews. Grounded on
// pkg/poker/game.go and pkg/poker/player.go, generalized from a single
// hold'em Game into a variant-parameterized Hand built on the kept
// pkg/statemachine generic.
package engine

import (
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/statemachine"
)

// PlayerStateFn is a Player state function in the kept Rob-Pike pattern.
type PlayerStateFn = statemachine.StateFn[Player]

// PlayerStage mirrors pkg/poker/player.go's Rob-Pike player states
// (AT_TABLE/IN_GAME/FOLDED/ALL_IN), but as an explicit field updated by the
// state functions instead of being recovered via function-pointer identity
// (the teacher's own code never actually needed to query this identity;
// callers here do, for broadcaster sanitisation and persistence).
type PlayerStage int

const (
	PlayerAtTable PlayerStage = iota
	PlayerInHand
	PlayerFolded
	PlayerAllIn
)

func (s PlayerStage) String() string {
	switch s {
	case PlayerAtTable:
		return "at_table"
	case PlayerInHand:
		return "in_hand"
	case PlayerFolded:
		return "folded"
	case PlayerAllIn:
		return "all_in"
	default:
		return "unknown"
	}
}

// Player is one seat's state for the hand currently in progress.
type Player struct {
	ID     string
	SeatID int

	Stack      int64
	CurrentBet int64
	// TotalContributed is this player's cumulative chips put into the pot
	// across the whole hand (every street), the figure side-pot construction
	// needs — CurrentBet alone only covers the street in progress.
	TotalContributed int64

	HoleCards []cards.Card // all cards dealt to the player, including stud down-cards
	UpCards   []cards.Card // stud: the subset of HoleCards shown face-up to the table

	HasActed bool
	IsFolded bool
	IsAllIn  bool
	IsDealer bool

	TimeBankMs int64

	Stage PlayerStage

	stateMachine *statemachine.StateMachine[Player]
}

// NewPlayer seats a player with the given starting stack.
func NewPlayer(id string, seat int, stack int64) *Player {
	p := &Player{ID: id, SeatID: seat, Stack: stack, Stage: PlayerAtTable}
	p.stateMachine = statemachine.NewStateMachine(p, playerStateAtTable)
	return p
}

// playerStateAtTable mirrors pkg/poker/player.go's playerStateAtTable:
// a seated player outside any hand, waiting to be dealt in.
func playerStateAtTable(p *Player, cb func(string, statemachine.StateEvent)) PlayerStateFn {
	p.Stage = PlayerAtTable
	if cb != nil {
		cb("AT_TABLE", statemachine.StateEntered)
	}
	return playerStateAtTable
}

// playerStateInHand mirrors playerStateInGame, transitioning out to folded
// or all-in as soon as those flags are observed.
func playerStateInHand(p *Player, cb func(string, statemachine.StateEvent)) PlayerStateFn {
	if p.IsFolded {
		if cb != nil {
			cb("IN_HAND", statemachine.StateExited)
		}
		return playerStateFolded(p, cb)
	}
	if p.IsAllIn {
		if cb != nil {
			cb("IN_HAND", statemachine.StateExited)
		}
		return playerStateAllIn(p, cb)
	}
	p.Stage = PlayerInHand
	if cb != nil {
		cb("IN_HAND", statemachine.StateEntered)
	}
	return playerStateInHand
}

func playerStateFolded(p *Player, cb func(string, statemachine.StateEvent)) PlayerStateFn {
	p.Stage = PlayerFolded
	if cb != nil {
		cb("FOLDED", statemachine.StateEntered)
	}
	return playerStateFolded
}

func playerStateAllIn(p *Player, cb func(string, statemachine.StateEvent)) PlayerStateFn {
	if p.IsFolded {
		return playerStateFolded(p, cb)
	}
	p.Stage = PlayerAllIn
	if cb != nil {
		cb("ALL_IN", statemachine.StateEntered)
	}
	return playerStateAllIn
}

// EnterHand resets a player's per-hand state at the start of a new deal,
// grounded on pkg/poker/player.go's reset-between-hands fields, and moves
// the state machine into playerStateInHand.
func (p *Player) EnterHand() {
	p.IsFolded = false
	p.IsAllIn = false
	p.HasActed = false
	p.CurrentBet = 0
	p.TotalContributed = 0
	p.HoleCards = nil
	p.UpCards = nil
	p.stateMachine.SetState(playerStateInHand)
}

// Sync dispatches the state machine so Stage reflects the current
// IsFolded/IsAllIn flags after the engine mutates them directly.
func (p *Player) Sync() {
	p.stateMachine.Dispatch(nil)
}

// CanAct reports whether p can still take an action this round.
func (p *Player) CanAct() bool {
	return !p.IsFolded && !p.IsAllIn
}
