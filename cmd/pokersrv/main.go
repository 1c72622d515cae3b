// Command pokersrv is a transport-agnostic demo driver: it seats a handful
// of players at one table, plays -hands hands with a check/call bot and
// then exits, logs every broadcast payload, and persists the
// table's state to sqlite between hands. Grounded on the teacher's
// cmd/pokersrv/main.go flag set (-db/-seed/-debuglevel); the gRPC server it
// wires there is replaced with a direct library loop against this
// project's transport-agnostic core, since wiring a transport was
// explicitly out of scope.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/decred/slog"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pokercore/engine/pkg/betting"
	"github.com/pokercore/engine/pkg/broadcast"
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/engine"
	"github.com/pokercore/engine/pkg/eval"
	"github.com/pokercore/engine/pkg/persistence"
	"github.com/pokercore/engine/pkg/persistence/sqlite"
	"github.com/pokercore/engine/pkg/table"
)

func main() {
	var (
		dbPath     string
		seed       int64
		debugLevel string
		tableID    string
		players    intFlag
		hands      int
	)
	flag.StringVar(&dbPath, "db", "", "Path to SQLite database file (created if missing)")
	flag.Int64Var(&seed, "seed", 0, "Deterministic RNG seed for dealing (0 = crypto/rand)")
	flag.StringVar(&debugLevel, "debuglevel", "info", "Logging level: trace, debug, info, warn, error")
	flag.StringVar(&tableID, "table", "demo-table", "Table identifier")
	flag.IntVar(&hands, "hands", 3, "Number of demo hands to play before exiting")
	players = intFlag{values: []int64{4000, 4000, 4000}}
	flag.Var(&players, "stack", "Starting stack for one demo seat (repeat for more seats)")
	flag.Parse()

	log := newLogger(debugLevel)

	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "pokercore_demo.sqlite")
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	src := cards.Source(cards.CryptoSource{})
	if seed != 0 {
		src = cards.NewDeterministicSource(seed)
	} else if env := os.Getenv("POKER_SEED"); env != "" {
		if v, err := strconv.ParseInt(env, 10, 64); err == nil {
			src = cards.NewDeterministicSource(v)
		}
	}

	sink := &logSink{log: log}
	bc := broadcast.New(broadcast.DefaultConfig(), sink, log)
	bc.Start()
	defer bc.Stop()

	cfg := table.Config{
		ID:          tableID,
		MinPlayers:  2,
		MaxPlayers:  9,
		Variant:     engine.HandConfig{Variant: eval.Holdem, SmallBlind: 5, BigBlind: 10, Limit: betting.NoLimit},
		TimerConfig: table.DefaultTimerConfig(),
		AutoRunout:  table.DefaultAutoRunoutConfig(),
		Reconnect:   table.DefaultReconnectConfig(table.RandomSigningKey()),
		RIT:         engine.DefaultRITConfig(),
	}
	tb := table.New(cfg, log, src)
	go tb.Run()
	defer tb.Shutdown()
	go bridgeEvents(tb, bc)

	for i, stack := range players.values {
		name := fmt.Sprintf("player-%d", i+1)
		if _, err := tb.Sit(name, stack); err != nil {
			log.Errorf("seating %s: %v", name, err)
		}
	}

	ctx := context.Background()
	for n := 0; n < hands; n++ {
		if err := playDemoHand(tb, log); err != nil {
			log.Errorf("hand %d: %v", n+1, err)
			break
		}
		if err := persistTable(ctx, store, tb); err != nil {
			log.Errorf("persisting table %s: %v", tb.ID(), err)
		}
	}

	// Give the broadcaster a moment to flush its final reconcile before
	// Stop()/Shutdown() run via defer.
	time.Sleep(50 * time.Millisecond)
}

// intFlag implements flag.Value over a repeatable -stack=N flag, one per
// demo seat.
type intFlag struct{ values []int64 }

func (f *intFlag) String() string {
	return fmt.Sprint(f.values)
}

func (f *intFlag) Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	f.values = append(f.values, v)
	return nil
}

func newLogger(level string) slog.Logger {
	backend := slog.NewBackend(os.Stdout)
	log := backend.Logger("pokersrv")
	if lvl, ok := slog.LevelFromString(level); ok {
		log.SetLevel(lvl)
	}
	return log
}

// logSink is the demo broadcast.Sink: it just logs every delivered payload,
// standing in for the websocket/gRPC stream a real transport would run.
type logSink struct {
	log slog.Logger
}

func (s *logSink) Publish(tableID, event string, payload *broadcast.StatePayload) error {
	s.log.Infof("table %s: %s seq=%d stage=%s street=%s pot=%d active=%d",
		tableID, event, payload.Sequence, payload.Stage, payload.Street, payload.Pot, payload.ActiveSeat)
	return nil
}

// bridgeEvents turns a table's lightweight Event signals into sanitised
// room-wide StatePayloads and hands them to the broadcaster, the glue
// pkg/table and pkg/broadcast deliberately leave to their caller so neither
// package needs to import the other.
func bridgeEvents(tb *table.Table, bc *broadcast.Broadcaster) {
	for ev := range tb.Events() {
		hand := tb.CurrentHand()
		if hand == nil {
			continue
		}
		payload := broadcast.BuildStatePayload(hand, ev.Table, 0, "")
		switch ev.Kind {
		case table.EventReconcile:
			bc.PublishReconcile(ev.Table, payload)
		default:
			bc.PublishStateUpdate(ev.Table, payload)
		}
	}
}

// playDemoHand deals one hand and plays it out with a check/call bot: every
// seat on the move checks if it owes nothing, calls otherwise. Exercises
// the same action path a real client's player_action message would.
func playDemoHand(tb *table.Table, log slog.Logger) error {
	if err := tb.StartHand(); err != nil {
		return err
	}
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		hand := tb.CurrentHand()
		if hand == nil || hand.Stage == engine.StageComplete {
			return nil
		}
		seat := hand.ActiveSeat
		if seat < 0 {
			// A locked all-in hand runs its own auto-runout reveals on a
			// timer; just wait for it to finish.
			time.Sleep(20 * time.Millisecond)
			continue
		}
		action, amount := chooseDemoAction(hand, seat)
		if err := tb.Submit(seat, action, amount); err != nil {
			log.Errorf("demo bot: seat %d %s failed: %v", seat, action, err)
			return err
		}
	}
	return fmt.Errorf("demo hand did not complete before the deadline")
}

func chooseDemoAction(h *engine.Hand, seatID int) (betting.ActionType, int64) {
	for _, p := range h.Players {
		if p.SeatID != seatID {
			continue
		}
		if p.CurrentBet == h.CurrentBet {
			return betting.Check, 0
		}
		return betting.Call, 0
	}
	return betting.Fold, 0
}

func persistTable(ctx context.Context, store persistence.Store, tb *table.Table) error {
	seats := tb.Seats()
	snapSeats := make([]persistence.SeatSnapshot, len(seats))
	for i, s := range seats {
		snapSeats[i] = persistence.SeatSnapshot{SeatID: s.SeatID, PlayerID: s.PlayerID, Stack: s.Stack, Connected: s.Connected}
	}
	snap := persistence.ToSnapshot(tb.ID(), snapSeats, tb.CurrentHand(), nil, nil, nil, time.Now())
	return store.SaveTable(ctx, snap)
}
