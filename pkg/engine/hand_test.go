package engine

import (
	"testing"

	"github.com/pokercore/engine/pkg/betting"
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/eval"
)

func newTestHand(t *testing.T, variant eval.Variant, stacks []int64, seed int64) (*Hand, []*Player) {
	t.Helper()
	players := make([]*Player, len(stacks))
	for i, s := range stacks {
		players[i] = NewPlayer("p"+string(rune('A'+i)), i, s)
	}
	cfg := HandConfig{Variant: variant, SmallBlind: 5, BigBlind: 10, Limit: betting.NoLimit}
	src := cards.NewDeterministicSource(seed)
	h, err := NewHand(1, cfg, players, 0, src)
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}
	return h, players
}

func chipTotal(h *Hand, players []*Player) int64 {
	total := h.Pot
	for _, p := range players {
		total += p.Stack + p.CurrentBet
	}
	return total
}

func TestNewHandPostsBlindsHeadsUp(t *testing.T) {
	h, players := newTestHand(t, eval.Holdem, []int64{1000, 1000}, 1)

	if players[0].CurrentBet != 5 {
		t.Errorf("expected dealer (seat 0) to post small blind 5, got %d", players[0].CurrentBet)
	}
	if players[1].CurrentBet != 10 {
		t.Errorf("expected seat 1 to post big blind 10, got %d", players[1].CurrentBet)
	}
	if h.ActiveSeat != 0 {
		t.Errorf("expected dealer to act first preflop heads-up, got seat %d", h.ActiveSeat)
	}
}

func TestHandChipConservationThroughFoldWin(t *testing.T) {
	h, players := newTestHand(t, eval.Holdem, []int64{1000, 1000}, 2)
	before := chipTotal(h, players)

	if err := h.Submit(0, betting.Call, 0); err != nil {
		t.Fatalf("seat 0 call: %v", err)
	}
	if err := h.Submit(1, betting.Fold, 0); err != nil {
		t.Fatalf("seat 1 fold: %v", err)
	}

	after := chipTotal(h, players)
	if after != before {
		t.Errorf("chip total changed across a hand: before=%d after=%d", before, after)
	}
	if h.Stage != StageComplete {
		t.Errorf("expected hand to complete on a fold-to-one, got stage %v", h.Stage)
	}
	// player0 (dealer/small blind) called the big blind then won it when
	// player1 folded: net profit is exactly player1's big blind, 10.
	if players[0].Stack != 1010 {
		t.Errorf("expected the remaining player to profit by the big blind, got stack %d", players[0].Stack)
	}
}

func TestFindNextActorSkipsFoldedAndAllIn(t *testing.T) {
	h, players := newTestHand(t, eval.Holdem, []int64{1000, 1000, 1000}, 3)
	players[1].IsFolded = true
	players[1].Sync()

	next := h.findNextActor(players[0].SeatID)
	if next != players[2].SeatID {
		t.Errorf("expected findNextActor to skip the folded seat, got %d", next)
	}
}

func TestIsAutoRunoutLockedRequiresAtMostOneLiveNonAllIn(t *testing.T) {
	h, players := newTestHand(t, eval.Holdem, []int64{1000, 1000, 1000}, 4)
	players[0].IsAllIn = true
	players[1].IsAllIn = true
	players[2].IsFolded = false

	if !h.IsAutoRunoutLocked() {
		t.Error("expected two all-ins against one live caller to lock the hand")
	}

	players[2].IsAllIn = false
	players[1].IsAllIn = false
	if h.IsAutoRunoutLocked() {
		t.Error("expected two live non-all-in players to not be locked")
	}
}

func TestSubmitRejectsOutOfTurnAction(t *testing.T) {
	h, _ := newTestHand(t, eval.Holdem, []int64{1000, 1000}, 5)
	otherSeat := 1
	if h.ActiveSeat == otherSeat {
		otherSeat = 0
	}
	if err := h.Submit(otherSeat, betting.Call, 0); err == nil {
		t.Error("expected an out-of-turn action to be rejected")
	}
}

func TestRunShowdownConservesChipsThreeWay(t *testing.T) {
	h, players := newTestHand(t, eval.Holdem, []int64{1000, 1000, 1000}, 6)
	before := chipTotal(h, players)

	for rounds := 0; h.Stage == StageBetting && rounds < 100; rounds++ {
		seat := h.ActiveSeat
		if seat < 0 {
			if err := h.AdvanceStreet(); err != nil {
				t.Fatalf("AdvanceStreet: %v", err)
			}
			continue
		}
		p := h.Players[h.seatIndex(seat)]
		action := betting.Call
		if p.CurrentBet == h.CurrentBet {
			action = betting.Check
		}
		if err := h.Submit(seat, action, 0); err != nil {
			t.Fatalf("submit %v for seat %d: %v", action, seat, err)
		}
	}

	after := chipTotal(h, players)
	if after != before {
		t.Errorf("chip total changed across showdown: before=%d after=%d", before, after)
	}
	if h.Stage != StageComplete {
		t.Errorf("expected StageComplete after showdown, got %v", h.Stage)
	}
}

func TestPreviewStreetDoesNotMutateLiveDeck(t *testing.T) {
	h, _ := newTestHand(t, eval.Holdem, []int64{1000, 1000}, 7)
	remainingBefore := h.Deck.Remaining()

	preview, err := h.PreviewStreet(StreetFlop)
	if err != nil {
		t.Fatalf("PreviewStreet: %v", err)
	}
	if len(preview) != 3 {
		t.Errorf("expected a 3-card flop preview, got %d cards", len(preview))
	}
	if h.Deck.Remaining() != remainingBefore {
		t.Errorf("expected the live deck to be untouched by a preview, before=%d after=%d", remainingBefore, h.Deck.Remaining())
	}
}

func TestPreviewStreetRejectsStud(t *testing.T) {
	h, _ := newTestHand(t, eval.SevenStud, []int64{1000, 1000}, 8)
	if _, err := h.PreviewStreet(StreetFlop); err == nil {
		t.Error("expected rabbit hunt preview to be rejected for stud variants")
	}
}

func TestStudDealsBringInToLowestUpCard(t *testing.T) {
	h, players := newTestHand(t, eval.SevenStud, []int64{1000, 1000, 1000}, 9)

	var low *Player
	for _, p := range players {
		if low == nil || p.UpCards[0].Rank < low.UpCards[0].Rank ||
			(p.UpCards[0].Rank == low.UpCards[0].Rank && p.UpCards[0].Suit < low.UpCards[0].Suit) {
			low = p
		}
	}
	if low.CurrentBet == 0 {
		t.Errorf("expected the lowest up-card seat to post the bring-in, got currentBet=%d", low.CurrentBet)
	}
}
