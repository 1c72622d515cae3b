package engine

import (
	"testing"

	"github.com/pokercore/engine/pkg/betting"
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/eval"
	"github.com/pokercore/engine/pkg/pot"
)

func TestRITExecuteConservesChipsAndProducesConfiguredRuns(t *testing.T) {
	h, players := newTestHand(t, eval.Holdem, []int64{1000, 1000}, 11)
	before := chipTotal(h, players)

	// Both players shove preflop so the hand locks for auto-runout.
	callSeat := h.ActiveSeat
	p := h.Players[h.seatIndex(callSeat)]
	if err := h.Submit(callSeat, betting.Raise, p.Stack+p.CurrentBet); err != nil {
		t.Fatalf("shove: %v", err)
	}
	otherSeat := h.ActiveSeat
	if err := h.Submit(otherSeat, betting.Call, 0); err != nil {
		t.Fatalf("call shove: %v", err)
	}

	if !h.IsAutoRunoutLocked() {
		t.Fatal("expected the hand to be auto-runout locked after both players shove")
	}

	rit := NewRITController(DefaultRITConfig())
	if !rit.ComputePrompt(h) {
		t.Fatal("expected ComputePrompt to find eligible contenders")
	}
	for _, seat := range rit.EligibleSeats {
		rit.Consent(h, seat)
	}
	if !rit.Enabled {
		if err := rit.Enable(h, []byte("public"), []byte("nonce")); err != nil {
			t.Fatalf("Enable: %v", err)
		}
	}

	outcomes, err := rit.Execute(h)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 runs per the default config, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if len(o.CommunityCards) != 5 {
			t.Errorf("expected each run to produce a full 5-card board, got %d", len(o.CommunityCards))
		}
	}

	after := chipTotal(h, players)
	if after != before {
		t.Errorf("chip total changed across run-it-twice: before=%d after=%d", before, after)
	}
}

func TestScaleSidePotsConservesChipsAcrossUnevenLayers(t *testing.T) {
	// Three layers whose sizes don't divide evenly by either run's share,
	// the shape a three-way all-in with unequal stacks produces. Flooring
	// each layer independently (the old behaviour) loses a chip here.
	pots := []pot.SidePot{
		{Amount: 101, Eligible: map[int]bool{0: true, 1: true, 2: true}},
		{Amount: 257, Eligible: map[int]bool{1: true, 2: true}},
		{Amount: 333, Eligible: map[int]bool{2: true}},
	}
	var total int64
	for _, sp := range pots {
		total += sp.Amount
	}
	shares := pot.SplitPotForRuns(total, 3)

	var grandTotal int64
	for _, share := range shares {
		scaled := scaleSidePots(pots, share, total)
		var sum int64
		for _, sp := range scaled {
			sum += sp.Amount
		}
		if sum != share {
			t.Errorf("scaleSidePots(share=%d) summed to %d, want %d", share, sum, share)
		}
		grandTotal += sum
	}
	if grandTotal != total {
		t.Errorf("total scaled across all runs = %d, want %d", grandTotal, total)
	}
}

func TestWeakestHandDeciderTieBreaksUniformly(t *testing.T) {
	contenders := []ContenderHand{
		{SeatID: 1, High: eval.HighHand{}},
		{SeatID: 2, High: eval.HighHand{}},
	}
	src := cards.NewDeterministicSource(42)
	seat := WeakestHandDecider(contenders, src)
	if seat != 1 && seat != 2 {
		t.Errorf("expected a tie-break among the contending seats, got %d", seat)
	}
}

func TestRITComputePromptRejectsStud(t *testing.T) {
	h, _ := newTestHand(t, eval.SevenStud, []int64{1000, 1000}, 12)
	rit := NewRITController(DefaultRITConfig())
	if rit.ComputePrompt(h) {
		t.Error("expected ComputePrompt to refuse a stud hand")
	}
}
