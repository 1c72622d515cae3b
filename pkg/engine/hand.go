package engine

import (
	"fmt"

	"github.com/pokercore/engine/pkg/betting"
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/eval"
	"github.com/pokercore/engine/pkg/pot"
	"github.com/pokercore/engine/pkg/statemachine"
)

// HandStage is the coarse phase of a hand, tracked alongside the finer-
// grained Street index.
type HandStage int

const (
	StageBetting HandStage = iota
	StageShowdown
	StageComplete
)

func (s HandStage) String() string {
	switch s {
	case StageBetting:
		return "betting"
	case StageShowdown:
		return "showdown"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// HandStateFn is a Hand state function in the kept Rob-Pike pattern.
type HandStateFn = statemachine.StateFn[Hand]

// HandConfig is the configuration fixed for the lifetime of one hand.
type HandConfig struct {
	Variant    eval.Variant
	SmallBlind int64
	BigBlind   int64
	// BringIn is the stud forced-bet amount; defaults to SmallBlind when zero.
	BringIn int64
	Limit   betting.LimitType
}

// Hand drives one deal from blinds/bring-in through showdown. Players are
// held in clockwise seating order for this hand; DealerSeat is an index
// into Players, not an arbitrary table seat id.
type Hand struct {
	ID         uint64
	Config     HandConfig
	VariantCfg VariantConfig

	Players    []*Player
	DealerSeat int
	ActiveSeat int // player SeatID on the move, or -1 when no one can act

	Deck      *cards.Deck
	Community []cards.Card

	Pot        int64 // chips swept in from completed streets, for display/pot-limit math
	CurrentBet int64
	MinRaise   int64
	StreetIdx  int
	Stage      HandStage

	stateMachine *statemachine.StateMachine[Hand]
}

// NewHand deals a new hand: shuffles, deals hole cards (or third street for
// stud), posts blinds or the bring-in, and sets the first actor. Grounded on
// pkg/poker/game.go's statePreDeal/stateDeal/stateBlinds chain, collapsed
// into a single constructor since, unlike the teacher, dealing here does not
// depend on an external Table driving it step by step.
func NewHand(id uint64, cfg HandConfig, players []*Player, dealerSeat int, src cards.Source) (*Hand, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("engine: a hand needs at least 2 players")
	}
	if dealerSeat < 0 || dealerSeat >= len(players) {
		return nil, fmt.Errorf("engine: dealer seat %d out of range", dealerSeat)
	}

	variantCfg := ConfigFor(cfg.Variant)
	h := &Hand{
		ID:         id,
		Config:     cfg,
		VariantCfg: variantCfg,
		Players:    players,
		DealerSeat: dealerSeat,
		Deck:       cards.NewDeck(src),
		MinRaise:   cfg.BigBlind,
		Stage:      StageBetting,
	}
	h.Deck.Shuffle(src)
	for _, p := range h.Players {
		p.EnterHand()
	}
	h.stateMachine = statemachine.NewStateMachine(h, stateBetting)
	h.stateMachine.Dispatch(nil)

	if variantCfg.IsStud {
		if err := h.dealStreet(StreetStudThird); err != nil {
			return nil, err
		}
		bringIn := cfg.BringIn
		if bringIn == 0 {
			bringIn = cfg.SmallBlind
		}
		bringInSeat := h.lowestUpCardSeat()
		postForced(h.Players[h.seatIndex(bringInSeat)], bringIn)
		h.CurrentBet = h.Players[h.seatIndex(bringInSeat)].CurrentBet
		next := h.findNextActor(bringInSeat)
		if next < 0 {
			next = bringInSeat
		}
		h.ActiveSeat = next
		return h, nil
	}

	if err := h.dealStreet(StreetPreflop); err != nil {
		return nil, err
	}
	n := len(h.Players)
	sbSeat := h.Players[betting.SmallBlindIndex(dealerSeat, n)].SeatID
	bbSeat := h.Players[betting.BigBlindIndex(dealerSeat, n)].SeatID
	postForced(h.Players[h.seatIndex(sbSeat)], cfg.SmallBlind)
	postForced(h.Players[h.seatIndex(bbSeat)], cfg.BigBlind)
	h.CurrentBet = cfg.BigBlind
	h.ActiveSeat = h.computeFirstActor(StreetPreflop)
	return h, nil
}

func stateBetting(h *Hand, cb func(string, statemachine.StateEvent)) HandStateFn {
	h.Stage = StageBetting
	if cb != nil {
		cb(h.currentStreet().String(), statemachine.StateEntered)
	}
	return stateBetting
}

func stateShowdown(h *Hand, cb func(string, statemachine.StateEvent)) HandStateFn {
	h.Stage = StageShowdown
	if cb != nil {
		cb("showdown", statemachine.StateEntered)
	}
	return stateComplete
}

func stateComplete(h *Hand, cb func(string, statemachine.StateEvent)) HandStateFn {
	h.Stage = StageComplete
	if cb != nil {
		cb("complete", statemachine.StateEntered)
	}
	return nil
}

func postForced(p *Player, amount int64) (int64, bool) {
	bs := betting.PlayerState{Stack: p.Stack, CurrentBet: p.CurrentBet, IsFolded: p.IsFolded, IsAllIn: p.IsAllIn}
	posted, allIn := betting.PostForcedBet(&bs, amount)
	p.Stack = bs.Stack
	p.CurrentBet = bs.CurrentBet
	p.TotalContributed += posted
	if allIn {
		p.IsAllIn = true
		p.Sync()
	}
	return posted, allIn
}

func (h *Hand) currentStreet() Street {
	return h.VariantCfg.Streets[h.StreetIdx]
}

func (h *Hand) seatIndex(seatID int) int {
	for i, p := range h.Players {
		if p.SeatID == seatID {
			return i
		}
	}
	return -1
}

func (h *Hand) potBeforeAction() int64 {
	total := h.Pot
	for _, p := range h.Players {
		total += p.CurrentBet
	}
	return total
}

// Submit applies one player action, validating legality via pkg/betting
// before mutating state, grounded on pkg/poker/game.go's
// HandlePlayerFold/Call/Check/Bet family.
func (h *Hand) Submit(seatID int, action betting.ActionType, amount int64) error {
	if h.Stage != StageBetting {
		return fmt.Errorf("engine: hand is not accepting actions (stage=%v)", h.Stage)
	}
	idx := h.seatIndex(seatID)
	if idx < 0 {
		return fmt.Errorf("engine: unknown seat %d", seatID)
	}
	if h.ActiveSeat != seatID {
		return fmt.Errorf("engine: not seat %d's turn", seatID)
	}

	p := h.Players[idx]
	round := betting.RoundState{
		CurrentBet:      h.CurrentBet,
		MinRaise:        h.MinRaise,
		BigBlind:        h.Config.BigBlind,
		PotBeforeAction: h.potBeforeAction(),
		Limit:           h.Config.Limit,
	}
	ps := betting.PlayerState{Stack: p.Stack, CurrentBet: p.CurrentBet, IsFolded: p.IsFolded, IsAllIn: p.IsAllIn}
	if err := betting.ValidateAction(ps, round, action, amount); err != nil {
		return err
	}

	switch action {
	case betting.Fold:
		p.IsFolded = true
		p.Sync()

	case betting.Check:
		// no chip movement

	case betting.Call:
		delta := h.CurrentBet - p.CurrentBet
		if delta > p.Stack {
			delta = p.Stack // short stack: call for less, going all-in
		}
		h.applyContribution(p, delta)

	case betting.Bet:
		delta := amount - p.CurrentBet
		h.applyContribution(p, delta)
		h.CurrentBet = amount
		h.MinRaise = h.Config.BigBlind

	case betting.Raise:
		raiseSize := amount - h.CurrentBet
		delta := amount - p.CurrentBet
		h.applyContribution(p, delta)
		if betting.ReopensAction(raiseSize, h.MinRaise) {
			h.MinRaise = raiseSize
			h.resetActedExceptAllIn(p.SeatID)
		}
		h.CurrentBet = amount
	}

	p.HasActed = true
	if p.Stack == 0 && !p.IsFolded {
		p.IsAllIn = true
		p.Sync()
	}

	if h.checkSingleWinner() {
		return nil
	}

	next := h.findNextActor(seatID)
	if next < 0 {
		return h.AdvanceStreet()
	}
	h.ActiveSeat = next
	return nil
}

func (h *Hand) applyContribution(p *Player, delta int64) {
	p.Stack -= delta
	p.CurrentBet += delta
	p.TotalContributed += delta
}

func (h *Hand) resetActedExceptAllIn(raiserSeat int) {
	for _, p := range h.Players {
		if p.SeatID == raiserSeat || p.IsFolded || p.IsAllIn {
			continue
		}
		p.HasActed = false
	}
}

// findNextActor returns the next seat after afterSeatID that can still act
// this round, skipping folded, all-in, and already-matched players, per
// §4.5's findNextActor.
func (h *Hand) findNextActor(afterSeatID int) int {
	n := len(h.Players)
	startIdx := h.seatIndex(afterSeatID)
	if startIdx < 0 {
		return -1
	}
	for i := 1; i <= n; i++ {
		idx := (startIdx + i) % n
		p := h.Players[idx]
		if !p.CanAct() {
			continue
		}
		if p.HasActed && p.CurrentBet == h.CurrentBet {
			continue
		}
		return p.SeatID
	}
	return -1
}

// firstActableFrom returns the first seat at or after startSeatID that can
// still act, or -1 if none can (used for a street's nominal first actor,
// which — unlike findNextActor — is itself a candidate).
func (h *Hand) firstActableFrom(startSeatID int) int {
	if startSeatID < 0 {
		return -1
	}
	n := len(h.Players)
	startIdx := h.seatIndex(startSeatID)
	if startIdx < 0 {
		return -1
	}
	for i := 0; i < n; i++ {
		idx := (startIdx + i) % n
		if h.Players[idx].CanAct() {
			return h.Players[idx].SeatID
		}
	}
	return -1
}

func (h *Hand) computeFirstActor(street Street) int {
	n := len(h.Players)
	var candidate int
	switch street {
	case StreetPreflop:
		if n == 2 {
			candidate = h.Players[h.DealerSeat].SeatID
		} else {
			candidate = h.Players[(h.DealerSeat+3)%n].SeatID
		}
	case StreetFlop, StreetTurn, StreetRiver:
		candidate = h.Players[(h.DealerSeat+1)%n].SeatID
	case StreetStudThird:
		candidate = h.lowestUpCardSeat()
	case StreetStudFourth, StreetStudFifth, StreetStudSixth, StreetStudSeventh:
		candidate = h.bestShowingSeat()
	default:
		candidate = h.Players[(h.DealerSeat+1)%n].SeatID
	}
	return h.firstActableFrom(candidate)
}

func (h *Hand) lowestUpCardSeat() int {
	best := -1
	var bestCard cards.Card
	for _, p := range h.Players {
		if p.IsFolded || len(p.UpCards) == 0 {
			continue
		}
		c := p.UpCards[len(p.UpCards)-1]
		if best == -1 || c.Rank < bestCard.Rank || (c.Rank == bestCard.Rank && c.Suit < bestCard.Suit) {
			best = p.SeatID
			bestCard = c
		}
	}
	return best
}

func (h *Hand) bestShowingSeat() int {
	best := -1
	var bestHand eval.HighHand
	for _, p := range h.Players {
		if p.IsFolded || len(p.UpCards) == 0 {
			continue
		}
		hand, err := eval.EvaluateHigh(p.UpCards, nil, eval.Holdem)
		if err != nil {
			continue
		}
		if best == -1 || eval.Compare(hand, bestHand) > 0 {
			best = p.SeatID
			bestHand = hand
		}
	}
	return best
}

func (h *Hand) dealStreet(street Street) error {
	if h.VariantCfg.IsStud {
		down, up := h.VariantCfg.StudCardsFor(street)
		for _, p := range h.Players {
			if p.IsFolded {
				continue
			}
			if down > 0 {
				cs, err := h.Deck.DrawN(down)
				if err != nil {
					return err
				}
				p.HoleCards = append(p.HoleCards, cs...)
			}
			if up > 0 {
				cs, err := h.Deck.DrawN(up)
				if err != nil {
					return err
				}
				p.HoleCards = append(p.HoleCards, cs...)
				p.UpCards = append(p.UpCards, cs...)
			}
		}
		return nil
	}

	if street == StreetPreflop {
		n := h.VariantCfg.HoleCardCount()
		for _, p := range h.Players {
			cs, err := h.Deck.DrawN(n)
			if err != nil {
				return err
			}
			p.HoleCards = cs
		}
		return nil
	}

	n := h.VariantCfg.CommunityCardCount(street)
	if n == 0 {
		return nil
	}
	cs, err := h.Deck.DrawN(n)
	if err != nil {
		return err
	}
	h.Community = append(h.Community, cs...)
	return nil
}

// IsAutoRunoutLocked implements isAutoRunoutEligible (§4.6, §4.8): at least
// one all-in player, at most one non-all-in player still live, at least two
// live players, and the board not yet complete.
func (h *Hand) IsAutoRunoutLocked() bool {
	if h.currentStreet() == StreetShowdown {
		return false
	}
	anyAllIn := false
	nonAllInActive := 0
	activeCount := 0
	for _, p := range h.Players {
		if p.IsFolded {
			continue
		}
		activeCount++
		if p.IsAllIn {
			anyAllIn = true
		} else {
			nonAllInActive++
		}
	}
	return anyAllIn && nonAllInActive <= 1 && activeCount >= 2 && !h.isBoardComplete()
}

func (h *Hand) isBoardComplete() bool {
	streets := h.VariantCfg.Streets
	lastDealingStreet := streets[len(streets)-2]
	return h.currentStreet() == lastDealingStreet
}

// AdvanceStreet sweeps the completed betting round into the running pot,
// deals the next street, and sets the next actor — or runs showdown once
// the street sequence reaches StreetShowdown. Exported so the table's
// auto-runout scheduler (§4.10) can drive reveals when no one can act.
func (h *Hand) AdvanceStreet() error {
	for _, p := range h.Players {
		h.Pot += p.CurrentBet
		p.CurrentBet = 0
		p.HasActed = false
	}
	h.CurrentBet = 0
	h.MinRaise = h.Config.BigBlind
	h.StreetIdx++
	street := h.currentStreet()

	if street == StreetShowdown {
		h.stateMachine.SetState(stateShowdown)
		_, err := h.RunShowdown()
		return err
	}

	if err := h.dealStreet(street); err != nil {
		return err
	}

	if h.IsAutoRunoutLocked() {
		h.ActiveSeat = -1
		return nil
	}
	h.ActiveSeat = h.computeFirstActor(street)
	return nil
}

func (h *Hand) checkSingleWinner() bool {
	var remaining *Player
	count := 0
	for _, p := range h.Players {
		if !p.IsFolded {
			count++
			remaining = p
		}
	}
	if count != 1 {
		return false
	}
	var total int64
	for _, p := range h.Players {
		total += p.TotalContributed
		p.CurrentBet = 0
	}
	remaining.Stack += total
	h.Pot = 0
	h.Stage = StageComplete
	h.ActiveSeat = -1
	return true
}

func (h *Hand) clockwiseSeatsFromDealer() []int {
	n := len(h.Players)
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		order = append(order, h.Players[(h.DealerSeat+i)%n].SeatID)
	}
	return order
}

// RunShowdown evaluates every live player's best hand, builds side pots from
// each player's hand-long contribution, and distributes them. Grounded on
// pkg/poker/game.go's HandleShowdown and pkg/poker/table.go's
// handleShowdown, generalized to call out to pkg/eval and pkg/pot instead of
// the teacher's inline hand comparison and map-order pot split.
func (h *Hand) RunShowdown() (map[int]int64, error) {
	contributions := make([]pot.Contribution, 0, len(h.Players))
	results := make(map[int]pot.PlayerResult)
	for _, p := range h.Players {
		contributions = append(contributions, pot.Contribution{SeatID: p.SeatID, CurrentBet: p.TotalContributed, IsFolded: p.IsFolded})
		if p.IsFolded {
			continue
		}
		high, err := eval.EvaluateHigh(p.HoleCards, h.Community, h.Config.Variant)
		if err != nil {
			return nil, err
		}
		res := pot.PlayerResult{SeatID: p.SeatID, High: high}
		if h.Config.Variant.HasLow() {
			low, _ := eval.EvaluateLow(p.HoleCards, h.Community, h.Config.Variant)
			res.Low = low
		}
		results[p.SeatID] = res
	}

	sidePots := pot.BuildSidePots(contributions, 0)
	deltas := pot.DistributeAll(sidePots, results, h.Config.Variant.HasLow(), h.clockwiseSeatsFromDealer())
	for _, p := range h.Players {
		p.Stack += deltas[p.SeatID]
	}
	h.Pot = 0
	h.Stage = StageComplete
	h.ActiveSeat = -1
	return deltas, nil
}
