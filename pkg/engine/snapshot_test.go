package engine

import (
	"testing"

	"github.com/pokercore/engine/pkg/betting"
	"github.com/pokercore/engine/pkg/eval"
)

func TestHandSnapshotRoundTripPreservesState(t *testing.T) {
	h, players := newTestHand(t, eval.Holdem, []int64{1000, 1000, 1000}, 5)

	// Advance one action so the snapshot carries non-default state.
	seat := h.ActiveSeat
	if err := h.Submit(seat, betting.Call, 0); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap := h.Snapshot()
	restored, err := FromSnapshot(snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	if restored.ID != h.ID {
		t.Errorf("ID = %d, want %d", restored.ID, h.ID)
	}
	if restored.Pot != h.Pot {
		t.Errorf("Pot = %d, want %d", restored.Pot, h.Pot)
	}
	if restored.CurrentBet != h.CurrentBet {
		t.Errorf("CurrentBet = %d, want %d", restored.CurrentBet, h.CurrentBet)
	}
	if restored.ActiveSeat != h.ActiveSeat {
		t.Errorf("ActiveSeat = %d, want %d", restored.ActiveSeat, h.ActiveSeat)
	}
	if restored.Stage != h.Stage {
		t.Errorf("Stage = %v, want %v", restored.Stage, h.Stage)
	}
	if len(restored.Players) != len(players) {
		t.Fatalf("got %d players, want %d", len(restored.Players), len(players))
	}
	for i, p := range players {
		rp := restored.Players[i]
		if rp.Stack != p.Stack || rp.CurrentBet != p.CurrentBet || rp.TotalContributed != p.TotalContributed {
			t.Errorf("player %d mismatch: got %+v, want stack=%d bet=%d total=%d", i, rp, p.Stack, p.CurrentBet, p.TotalContributed)
		}
	}

	// Restored hand must still be playable: submit another action.
	nextSeat := restored.ActiveSeat
	if nextSeat >= 0 {
		if err := restored.Submit(nextSeat, betting.Fold, 0); err != nil {
			t.Fatalf("Submit on restored hand: %v", err)
		}
	}
}

func TestFromSnapshotRejectsShortDeck(t *testing.T) {
	h, _ := newTestHand(t, eval.Holdem, []int64{1000, 1000}, 2)
	snap := h.Snapshot()
	snap.Deck.Cards = snap.Deck.Cards[:10]

	if _, err := FromSnapshot(snap); err == nil {
		t.Fatal("expected an error restoring a snapshot with a truncated deck")
	}
}

func TestFromSnapshotRejectsEmptyPlayers(t *testing.T) {
	h, _ := newTestHand(t, eval.Holdem, []int64{1000, 1000}, 2)
	snap := h.Snapshot()
	snap.Players = nil

	if _, err := FromSnapshot(snap); err == nil {
		t.Fatal("expected an error restoring a snapshot with no players")
	}
}

func TestRestorePlayerRecoversFoldedStage(t *testing.T) {
	p := NewPlayer("A", 0, 1000)
	p.EnterHand()
	p.IsFolded = true

	restored := RestorePlayer(p.Snapshot())
	if restored.Stage != PlayerFolded {
		t.Errorf("Stage = %v, want PlayerFolded", restored.Stage)
	}
	if !restored.IsFolded {
		t.Error("expected IsFolded to survive the round trip")
	}
}
