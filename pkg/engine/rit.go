package engine

import (
	"fmt"

	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/eval"
	"github.com/pokercore/engine/pkg/pot"
)

// ContenderHand is one all-in player's hand strength computed from the
// cards revealed so far, used only to pick who gets prompted for consent.
type ContenderHand struct {
	SeatID int
	High   eval.HighHand
}

// RITDeciderFunc picks which contending seat is prompted for Run-It-Twice
// consent. WeakestHandDecider is the default, resolving this project's open
// question in favour of the player drawing dead being the one offered the
// option; StrongestHandDecider is the documented alternative convention.
type RITDeciderFunc func(contenders []ContenderHand, src cards.Source) int

// RITConfig configures Run-It-Twice behaviour for a table.
type RITConfig struct {
	Runs             int
	RequireUnanimity bool
	Decider          RITDeciderFunc
}

// DefaultRITConfig returns the two-run, unanimous-consent, weakest-hand-
// prompted configuration this project defaults new tables to.
func DefaultRITConfig() RITConfig {
	return RITConfig{Runs: 2, RequireUnanimity: true, Decider: WeakestHandDecider}
}

// RITController tracks one hand's Run-It-Twice prompt/consent/execution
// lifecycle. Built fresh: the teacher is no-limit hold'em only and has no
// Run-It-Twice precedent, so this follows the cards.RITSeedChain shape
// already established in pkg/cards/rit_seed.go.
type RITController struct {
	Config        RITConfig
	Prompted      bool
	Enabled       bool
	PromptSeat    int
	EligibleSeats []int
	Consents      map[int]bool

	baseline *cards.Deck
	chain    *cards.RITSeedChain
}

// NewRITController starts a controller for one hand.
func NewRITController(cfg RITConfig) *RITController {
	if cfg.Decider == nil {
		cfg.Decider = WeakestHandDecider
	}
	if cfg.Runs < 1 {
		cfg.Runs = 1
	}
	return &RITController{Config: cfg, Consents: make(map[int]bool)}
}

// ComputePrompt evaluates the hand for auto-runout eligibility and, if
// eligible, picks the prompt seat via the configured decider. Returns false
// (and does nothing) once already prompted, already enabled, for a stud
// hand, or when the hand is not auto-runout locked — Run-It-Twice in this implementation
// only applies to community-card variants, since stud's remaining cards are
// dealt per player rather than shared, and a meaningful "replay the rest of
// the deal twice" semantics for stud is out of scope here.
func (c *RITController) ComputePrompt(h *Hand) bool {
	if c.Prompted || c.Enabled || h.VariantCfg.IsStud {
		return false
	}
	if !h.IsAutoRunoutLocked() {
		return false
	}

	var contenders []ContenderHand
	for _, p := range h.Players {
		if p.IsFolded {
			continue
		}
		high, err := eval.EvaluateHigh(p.HoleCards, h.Community, h.Config.Variant)
		if err != nil {
			continue
		}
		contenders = append(contenders, ContenderHand{SeatID: p.SeatID, High: high})
	}
	if len(contenders) == 0 {
		return false
	}

	src := cards.CryptoSource{}
	c.PromptSeat = c.Config.Decider(contenders, src)
	c.EligibleSeats = make([]int, 0, len(contenders))
	for _, ch := range contenders {
		c.EligibleSeats = append(c.EligibleSeats, ch.SeatID)
	}
	c.Prompted = true
	return true
}

// WeakestHandDecider prompts the contender currently drawing dead (or
// closest to it), tie-broken by a uniform random draw over the tied set.
func WeakestHandDecider(contenders []ContenderHand, src cards.Source) int {
	return extremeHandDecider(contenders, src, false)
}

// StrongestHandDecider prompts the contender currently ahead on the board
// as dealt so far — the alternative convention some rooms use instead.
func StrongestHandDecider(contenders []ContenderHand, src cards.Source) int {
	return extremeHandDecider(contenders, src, true)
}

func extremeHandDecider(contenders []ContenderHand, src cards.Source, strongest bool) int {
	if len(contenders) == 0 {
		return -1
	}
	best := contenders[0]
	tied := []ContenderHand{best}
	for _, ch := range contenders[1:] {
		cmp := eval.Compare(ch.High, best.High)
		switch {
		case (strongest && cmp > 0) || (!strongest && cmp < 0):
			best = ch
			tied = []ContenderHand{ch}
		case cmp == 0:
			tied = append(tied, ch)
		}
	}
	if len(tied) == 1 {
		return tied[0].SeatID
	}
	return tied[src.Intn(len(tied))].SeatID
}

// Consent records a seat's consent and reports whether enough consent has
// now been gathered to enable Run-It-Twice (every non-folded seat, when
// RequireUnanimity is set; any single consent otherwise).
func (c *RITController) Consent(h *Hand, seatID int) bool {
	c.Consents[seatID] = true
	if !c.Config.RequireUnanimity {
		return true
	}
	for _, p := range h.Players {
		if p.IsFolded {
			continue
		}
		if !c.Consents[p.SeatID] {
			return false
		}
	}
	return true
}

// Enable freezes the current deck as the shared baseline and derives the
// verifiable seed chain every run will fork from. Call once consent has
// been established via Consent.
func (c *RITController) Enable(h *Hand, publicSeed, handNonce []byte) error {
	if c.Enabled {
		return nil
	}
	if h.currentStreet() == StreetShowdown || h.isBoardComplete() {
		return fmt.Errorf("engine: board is already complete")
	}
	chain, err := cards.DeriveRITSeeds(publicSeed, handNonce, c.Config.Runs)
	if err != nil {
		return err
	}
	c.chain = chain
	c.baseline = h.Deck.Fork()
	c.Enabled = true
	return nil
}

// RunOutcome is one Run-It-Twice board's result, the shape persisted to the
// append-only run history.
type RunOutcome struct {
	BoardNumber    int
	CommunityCards []cards.Card
	Winners        map[int]int64
	PotShare       int64
	Seed           []byte
}

// Execute deals and scores every run from the frozen baseline, splitting the
// hand's pot across runs via pot.SplitPotForRuns and distributing each
// run's share with its own board.
func (c *RITController) Execute(h *Hand) ([]RunOutcome, error) {
	if !c.Enabled {
		return nil, fmt.Errorf("engine: run it twice was not enabled for this hand")
	}

	fullBoardSize := h.VariantCfg.CommunityCardCount(StreetFlop) +
		h.VariantCfg.CommunityCardCount(StreetTurn) +
		h.VariantCfg.CommunityCardCount(StreetRiver)
	need := fullBoardSize - len(h.Community)

	contributions := make([]pot.Contribution, 0, len(h.Players))
	for _, p := range h.Players {
		contributions = append(contributions, pot.Contribution{SeatID: p.SeatID, CurrentBet: p.TotalContributed, IsFolded: p.IsFolded})
	}
	sidePots := pot.BuildSidePots(contributions, 0)
	var totalPot int64
	for _, sp := range sidePots {
		totalPot += sp.Amount
	}
	shares := pot.SplitPotForRuns(totalPot, len(c.chain.Seeds))
	seatOrder := h.clockwiseSeatsFromDealer()

	outcomes := make([]RunOutcome, 0, len(c.chain.Seeds))
	for i, seed := range c.chain.Seeds {
		runDeck := cards.DeckFromSeed(c.baseline, seed)
		board := append([]cards.Card(nil), h.Community...)
		if need > 0 {
			drawn, err := runDeck.DrawN(need)
			if err != nil {
				return nil, err
			}
			board = append(board, drawn...)
		}

		results := make(map[int]pot.PlayerResult)
		for _, p := range h.Players {
			if p.IsFolded {
				continue
			}
			high, err := eval.EvaluateHigh(p.HoleCards, board, h.Config.Variant)
			if err != nil {
				return nil, err
			}
			res := pot.PlayerResult{SeatID: p.SeatID, High: high}
			if h.Config.Variant.HasLow() {
				low, _ := eval.EvaluateLow(p.HoleCards, board, h.Config.Variant)
				res.Low = low
			}
			results[p.SeatID] = res
		}

		scaled := scaleSidePots(sidePots, shares[i], totalPot)
		deltas := pot.DistributeAll(scaled, results, h.Config.Variant.HasLow(), seatOrder)
		for _, p := range h.Players {
			p.Stack += deltas[p.SeatID]
		}

		outcomes = append(outcomes, RunOutcome{
			BoardNumber:    i + 1,
			CommunityCards: board,
			Winners:        deltas,
			PotShare:       shares[i],
			Seed:           seed,
		})
	}

	h.Community = outcomes[len(outcomes)-1].CommunityCards
	h.Pot = 0
	h.Stage = StageComplete
	h.ActiveSeat = -1
	return outcomes, nil
}

// scaleSidePots apportions one run's share of the total pot across the
// layered side pots in proportion to each layer's size. Per-layer scaling
// truncates, so the remainder left over once every layer has been floored is
// handed to the final layer — the same convention SplitPotForRuns uses for
// a run's remainder — guaranteeing the scaled layers always sum to exactly
// share, with no chips lost to rounding.
func scaleSidePots(pots []pot.SidePot, share, total int64) []pot.SidePot {
	if total == 0 {
		return pots
	}
	scaled := make([]pot.SidePot, len(pots))
	var sum int64
	for i, sp := range pots {
		amount := sp.Amount * share / total
		scaled[i] = pot.SidePot{Amount: amount, Eligible: sp.Eligible}
		sum += amount
	}
	if remainder := share - sum; remainder != 0 && len(scaled) > 0 {
		scaled[len(scaled)-1].Amount += remainder
	}
	return scaled
}
