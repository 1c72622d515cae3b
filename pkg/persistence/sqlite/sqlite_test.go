package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pokercore/engine/pkg/betting"
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/engine"
	"github.com/pokercore/engine/pkg/eval"
	"github.com/pokercore/engine/pkg/persistence"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poker.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot(t *testing.T, tableID string) *persistence.TableSnapshot {
	t.Helper()
	players := []*engine.Player{
		engine.NewPlayer("alice", 0, 1000),
		engine.NewPlayer("bob", 1, 1000),
	}
	cfg := engine.HandConfig{Variant: eval.Holdem, SmallBlind: 5, BigBlind: 10, Limit: betting.NoLimit}
	h, err := engine.NewHand(1, cfg, players, 0, cards.NewDeterministicSource(42))
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}

	seats := []persistence.SeatSnapshot{
		{SeatID: 0, PlayerID: "alice", Stack: 1000, Connected: true},
		{SeatID: 1, PlayerID: "bob", Stack: 1000, Connected: true},
	}
	return persistence.ToSnapshot(tableID, seats, h, nil, nil, nil, time.Unix(1700000000, 0).UTC())
}

func TestStoreRoundTripsTableSnapshot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot(t, "table-1")

	if err := store.SaveTable(ctx, snap); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}

	loaded, err := store.LoadTable(ctx, "table-1")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if loaded.TableID != "table-1" {
		t.Errorf("TableID = %q, want table-1", loaded.TableID)
	}
	if len(loaded.Seats) != 2 {
		t.Fatalf("expected 2 seats, got %d", len(loaded.Seats))
	}
	if loaded.Hand == nil {
		t.Fatal("expected hand to be persisted")
	}
	if len(loaded.Hand.Deck.Cards) != 52 {
		t.Errorf("restored deck has %d cards, want 52", len(loaded.Hand.Deck.Cards))
	}

	restoredHand, err := persistence.FromSnapshot(loaded)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if restoredHand.Players[0].Stack != snap.Hand.Players[0].Stack {
		t.Errorf("restored stack = %d, want %d", restoredHand.Players[0].Stack, snap.Hand.Players[0].Stack)
	}
}

func TestStoreLoadMissingTableFails(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.LoadTable(context.Background(), "nonexistent"); err == nil {
		t.Fatal("expected an error loading a table that was never saved")
	}
}

func TestStoreDeleteTable(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	snap := sampleSnapshot(t, "table-2")
	if err := store.SaveTable(ctx, snap); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	if err := store.DeleteTable(ctx, "table-2"); err != nil {
		t.Fatalf("DeleteTable: %v", err)
	}
	if _, err := store.LoadTable(ctx, "table-2"); err == nil {
		t.Fatal("expected deleted table to be absent")
	}
}

func TestStoreListTableIDs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	store.SaveTable(ctx, sampleSnapshot(t, "table-a"))
	store.SaveTable(ctx, sampleSnapshot(t, "table-b"))

	ids, err := store.ListTableIDs(ctx)
	if err != nil {
		t.Fatalf("ListTableIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 table ids, got %d", len(ids))
	}
}

func TestStoreAppendRITOutcome(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	rec := persistence.RITOutcomeRecord{
		HandID:      7,
		BoardNumber: 1,
		CommunityCards: []cards.Card{
			{Rank: cards.Ace, Suit: cards.Spades},
		},
		Winners:   []persistence.RITWinner{{PlayerID: "alice", PotShare: 500}},
		PotAmount: 500,
	}
	if err := store.AppendRITOutcome(ctx, rec); err != nil {
		t.Fatalf("AppendRITOutcome: %v", err)
	}
	// Re-inserting the same (hand_id, board_number) key must not fail: the
	// table is append-only but idempotent under retry (§4.13 fire-and-forget).
	if err := store.AppendRITOutcome(ctx, rec); err != nil {
		t.Fatalf("AppendRITOutcome (retry): %v", err)
	}
}
