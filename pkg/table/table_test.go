package table

import (
	"os"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/pokercore/engine/pkg/betting"
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/engine"
	"github.com/pokercore/engine/pkg/eval"
)

func testLogger() slog.Logger {
	return slog.NewBackend(os.Stderr).Logger("table_test")
}

func testConfig(id string) Config {
	return Config{
		ID:         id,
		MinPlayers: 2,
		MaxPlayers: 6,
		Variant:    engine.HandConfig{Variant: eval.Holdem, SmallBlind: 5, BigBlind: 10, Limit: betting.NoLimit},
		TimerConfig: TimerConfig{
			TurnDuration:      50 * time.Millisecond,
			WarningThreshold:  10 * time.Millisecond,
			TimeBankStart:     0,
			TimeBankMax:       time.Second,
			TimeBankReplenish: 0,
		},
		AutoRunout: DefaultAutoRunoutConfig(),
		Reconnect:  DefaultReconnectConfig(RandomSigningKey()),
		RIT:        engine.DefaultRITConfig(),
	}
}

// newRunningTable starts the table's mailbox loop and arranges for it to
// shut down and its event stream to drain at test end.
func newRunningTable(t *testing.T, cfg Config, src cards.Source) *Table {
	t.Helper()
	tb := New(cfg, testLogger(), src)
	go tb.Run()
	go func() {
		for range tb.Events() {
		}
	}()
	t.Cleanup(tb.Shutdown)
	return tb
}

func waitForCondition(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestTableSitAssignsSeatsAndEnforcesCapacity(t *testing.T) {
	cfg := testConfig("t1")
	cfg.MaxPlayers = 2
	tb := newRunningTable(t, cfg, cards.NewDeterministicSource(1))

	a, err := tb.Sit("alice", 1000)
	if err != nil {
		t.Fatalf("Sit(alice): %v", err)
	}
	b, err := tb.Sit("bob", 1000)
	if err != nil {
		t.Fatalf("Sit(bob): %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct seat ids, got %d and %d", a, b)
	}
	if _, err := tb.Sit("carol", 1000); err == nil {
		t.Fatal("expected Sit to reject a third player at a 2-max table")
	}
	if _, err := tb.Sit("alice", 1000); err == nil {
		t.Fatal("expected Sit to reject a player already seated")
	}
}

func TestTableStartHandRequiresMinPlayers(t *testing.T) {
	tb := newRunningTable(t, testConfig("t1"), cards.NewDeterministicSource(1))

	if _, err := tb.Sit("alice", 1000); err != nil {
		t.Fatalf("Sit: %v", err)
	}
	if err := tb.StartHand(); err == nil {
		t.Fatal("expected StartHand to fail with only one seated player")
	}
}

func TestTableSubmitAppliesActionAndAdvancesTurn(t *testing.T) {
	tb := newRunningTable(t, testConfig("t1"), cards.NewDeterministicSource(7))

	seatA, _ := tb.Sit("alice", 1000)
	seatB, _ := tb.Sit("bob", 1000)
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	active := tb.hand.ActiveSeat
	if active != seatA && active != seatB {
		t.Fatalf("unexpected active seat %d", active)
	}
	if err := tb.Submit(active, betting.Call, 0); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if tb.hand.ActiveSeat == active {
		t.Fatal("expected the active seat to change after a call")
	}
}

func TestTableSubmitRejectsDisconnectedSeat(t *testing.T) {
	tb := newRunningTable(t, testConfig("t1"), cards.NewDeterministicSource(3))

	seatA, _ := tb.Sit("alice", 1000)
	tb.Sit("bob", 1000)
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	tb.seatByID(seatA).Connected = false

	if err := tb.Submit(seatA, betting.Check, 0); err == nil {
		t.Fatal("expected Submit to reject a disconnected seat")
	}
}

func TestTableTurnTimerAutoActsOnExpiry(t *testing.T) {
	tb := newRunningTable(t, testConfig("t1"), cards.NewDeterministicSource(9))

	tb.Sit("alice", 1000)
	tb.Sit("bob", 1000)
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	firstActive := tb.hand.ActiveSeat

	// No one submits anything: the 50ms turn timer should fire and the
	// table should auto-check-or-fold the seat on the clock.
	waitForCondition(t, 2*time.Second, func() bool {
		return tb.hand.ActiveSeat != firstActive || tb.hand.Stage == engine.StageComplete
	})
}

func TestTableStandDisconnectsDuringHandAndRemovesAfter(t *testing.T) {
	tb := newRunningTable(t, testConfig("t1"), cards.NewDeterministicSource(5))

	seatA, _ := tb.Sit("alice", 1000)
	tb.Sit("bob", 1000)
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}

	token, err := tb.Stand(seatA)
	if err != nil {
		t.Fatalf("Stand: %v", err)
	}
	if token == "" {
		t.Fatal("expected a reconnect token for a mid-hand disconnect")
	}
	if tb.SeatCount() != 2 {
		t.Fatalf("expected seat to remain during an in-progress hand, got count %d", tb.SeatCount())
	}
	if tb.seatByID(seatA).Connected {
		t.Fatal("expected seat to be marked disconnected")
	}

	tb.hand.Stage = engine.StageComplete
	if _, err := tb.Stand(seatA); err != nil {
		t.Fatalf("Stand (post-hand): %v", err)
	}
	if tb.SeatCount() != 1 {
		t.Fatalf("expected seat to be removed once the hand finished, got count %d", tb.SeatCount())
	}
}

func TestTableReconnectReattachesSeat(t *testing.T) {
	tb := newRunningTable(t, testConfig("t1"), cards.NewDeterministicSource(11))

	seatA, _ := tb.Sit("alice", 1000)
	tb.Sit("bob", 1000)
	if err := tb.StartHand(); err != nil {
		t.Fatalf("StartHand: %v", err)
	}
	token, err := tb.Stand(seatA)
	if err != nil {
		t.Fatalf("Stand: %v", err)
	}
	if token == "" {
		t.Fatal("expected a reconnect token from Stand")
	}

	reply := make(chan ReconnectResult, 1)
	tb.mailbox <- ReconnectMsg{Token: token, Reply: reply}
	res := <-reply
	if res.Err != nil {
		t.Fatalf("reconnect failed: %v", res.Err)
	}
	if res.SeatID != seatA {
		t.Fatalf("SeatID = %d, want %d", res.SeatID, seatA)
	}
	if !tb.seatByID(seatA).Connected {
		t.Fatal("expected seat to be reconnected")
	}
}
