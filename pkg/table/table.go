// Package table drives one table's single-writer mailbox loop: player
// actions, turn timers, reconnects, and shutdown all funnel through one
// goroutine per table so pkg/engine never needs its own locking. Grounded
// on pkg/poker/table.go's Table (mutex-guarded shared state mutated from
// whichever goroutine calls in), generalized into an explicit mailbox so
// the table's own state never needs a lock at all.
package table

import (
	"fmt"
	"time"

	"github.com/decred/slog"
	"github.com/pokercore/engine/pkg/betting"
	"github.com/pokercore/engine/pkg/cards"
	"github.com/pokercore/engine/pkg/engine"
)

// Config mirrors pkg/poker/table.go's TableConfig, extended with the
// variant/limit/RIT knobs a single hold'em-only teacher table never needed.
type Config struct {
	ID            string
	MinPlayers    int
	MaxPlayers    int
	Variant       engine.HandConfig
	TimerConfig   TimerConfig
	AutoRunout    AutoRunoutConfig
	Reconnect     ReconnectConfig
	RIT           engine.RITConfig
}

// Seat is a table seat's durable identity, independent of the per-hand
// engine.Player that gets rebuilt every deal.
type Seat struct {
	SeatID       int
	PlayerID     string
	Stack        int64
	Connected    bool
	ReconnectKey []byte
}

// message is the sealed interface every mailbox entry satisfies.
type message interface{ isTableMessage() }

// ActionMsg asks the table to apply a player's action to the hand in
// progress.
type ActionMsg struct {
	SeatID int
	Action betting.ActionType
	Amount int64
	Reply  chan error
}

// TimerMsg fires when a seat's turn timer (or auto-runout reveal timer)
// expires.
type TimerMsg struct {
	SeatID    int
	Kind      string // "turn" or "runout"
	Timestamp time.Time
}

// ReconnectMsg asks the table to re-attach a disconnected seat using a
// previously issued reconnect token.
type ReconnectMsg struct {
	Token string
	Reply chan ReconnectResult
}

// SitMsg asks the table to seat a new player (the inbound join_table
// message's table-side handling).
type SitMsg struct {
	PlayerID string
	Stack    int64
	Reply    chan SitResult
}

// SitResult is returned to a join caller.
type SitResult struct {
	SeatID int
	Err    error
}

// StandMsg asks the table to remove a seated player (leave_table). While a
// hand is in progress the seat is only marked disconnected, not removed,
// so the hand can finish against its folded/all-in state.
type StandMsg struct {
	SeatID int
	Reply  chan StandResult
}

// StandResult is returned to a stand/disconnect caller. Token is only set
// when the seat was disconnected mid-hand rather than fully vacated, and
// lets the caller hand it back to the client for later reconnection.
type StandResult struct {
	Token string
	Err   error
}

// ShutdownMsg asks the table's loop to drain and stop.
type ShutdownMsg struct {
	Done chan struct{}
}

func (ActionMsg) isTableMessage()     {}
func (TimerMsg) isTableMessage()      {}
func (ReconnectMsg) isTableMessage()  {}
func (SitMsg) isTableMessage()        {}
func (StandMsg) isTableMessage()      {}
func (ShutdownMsg) isTableMessage()   {}

// ReconnectResult is returned to a reconnect caller.
type ReconnectResult struct {
	SeatID int
	Err    error
}

// Table owns one hand's worth of state plus the seats around it. All
// mutation happens inside run(), the single goroutine reading mailbox — no
// field here is ever touched concurrently from outside that goroutine,
// which is why, unlike the teacher's Table, there is no mutex.
type Table struct {
	cfg    Config
	log    slog.Logger
	seats  []*Seat
	hand   *engine.Hand
	dealer int
	handID uint64

	timer     *TurnTimer
	runout    *AutoRunoutScheduler
	reconnect *ReconnectManager
	history   *ActionHistory
	src       cards.Source

	mailbox chan message
	events  chan Event
}

// New builds a table around cfg. src is the RNG used to deal every hand
// (crypto/rand in production, a seeded deterministic source in tests).
func New(cfg Config, log slog.Logger, src cards.Source) *Table {
	t := &Table{
		cfg:       cfg,
		log:       log,
		src:       src,
		mailbox:   make(chan message, 64),
		events:    make(chan Event, 256),
		reconnect: NewReconnectManager(cfg.Reconnect),
		history:   NewActionHistory(cfg.Reconnect.MaxHistorySize),
	}
	t.timer = NewTurnTimer(cfg.TimerConfig, t.emitTimer)
	t.runout = NewAutoRunoutScheduler(cfg.AutoRunout, t.emitRunoutTimer)
	return t
}

// Events returns the table's outbound event stream for a broadcaster to
// consume.
func (t *Table) Events() <-chan Event { return t.events }

// Run processes the mailbox until a ShutdownMsg is received. Intended to be
// started with `go t.Run()` once per table.
func (t *Table) Run() {
	for msg := range t.mailbox {
		switch m := msg.(type) {
		case ActionMsg:
			m.Reply <- t.handleAction(m)
		case TimerMsg:
			t.handleTimer(m)
		case ReconnectMsg:
			m.Reply <- t.handleReconnect(m)
		case SitMsg:
			m.Reply <- t.handleSit(m)
		case StandMsg:
			m.Reply <- t.handleStand(m)
		case ShutdownMsg:
			close(t.events)
			close(m.Done)
			return
		}
	}
}

// Submit enqueues a player action and blocks for the result — the only
// entry point external callers (an RPC handler, a test) use to act at this
// table.
func (t *Table) Submit(seatID int, action betting.ActionType, amount int64) error {
	reply := make(chan error, 1)
	t.mailbox <- ActionMsg{SeatID: seatID, Action: action, Amount: amount, Reply: reply}
	return <-reply
}

// Sit seats playerID with the given buy-in and returns its seat id.
func (t *Table) Sit(playerID string, stack int64) (int, error) {
	reply := make(chan SitResult, 1)
	t.mailbox <- SitMsg{PlayerID: playerID, Stack: stack, Reply: reply}
	r := <-reply
	return r.SeatID, r.Err
}

// Stand removes (or, mid-hand, disconnects) a seated player. Token is
// non-empty only when the seat was disconnected mid-hand, and can be handed
// back to the client for Reconnect.
func (t *Table) Stand(seatID int) (token string, err error) {
	reply := make(chan StandResult, 1)
	t.mailbox <- StandMsg{SeatID: seatID, Reply: reply}
	r := <-reply
	return r.Token, r.Err
}

// Shutdown stops the table's loop and waits for it to drain.
func (t *Table) Shutdown() {
	done := make(chan struct{})
	t.mailbox <- ShutdownMsg{Done: done}
	<-done
}

func (t *Table) seatByID(id int) *Seat {
	for _, s := range t.seats {
		if s.SeatID == id {
			return s
		}
	}
	return nil
}

func (t *Table) handleAction(m ActionMsg) error {
	if t.hand == nil {
		return fmt.Errorf("table: no hand in progress")
	}
	seat := t.seatByID(m.SeatID)
	if seat == nil {
		return fmt.Errorf("table: unknown seat %d", m.SeatID)
	}
	if !seat.Connected {
		return fmt.Errorf("table: seat %d is disconnected", m.SeatID)
	}

	t.timer.stopTurn(m.SeatID)
	if err := t.hand.Submit(m.SeatID, m.Action, m.Amount); err != nil {
		return err
	}
	t.history.Append(HistoryEntry{SeatID: m.SeatID, Action: m.Action, Amount: m.Amount, At: time.Now()})
	t.emit(Event{Kind: EventStateUpdate, Table: t.cfg.ID})

	t.syncStacks()

	switch {
	case t.hand.Stage == engine.StageComplete:
		t.timer.stopTurn(m.SeatID)
		t.runout.Cancel()
		t.emit(Event{Kind: EventReconcile, Table: t.cfg.ID})
	case t.hand.IsAutoRunoutLocked() || t.hand.ActiveSeat < 0:
		t.runout.Schedule(t.hand)
	default:
		t.timer.startTurn(t.hand.ActiveSeat)
	}
	return nil
}

func (t *Table) syncStacks() {
	for _, p := range t.hand.Players {
		if s := t.seatByID(p.SeatID); s != nil {
			s.Stack = p.Stack
		}
	}
}

func (t *Table) handleTimer(m TimerMsg) {
	if t.hand == nil || t.hand.Stage != engine.StageBetting {
		return
	}
	switch m.Kind {
	case "turn":
		t.autoActCurrentSeat()
	case "runout":
		if err := t.runout.RevealNext(t.hand); err != nil {
			t.log.Errorf("table %s: auto-runout reveal failed: %v", t.cfg.ID, err)
			return
		}
		t.emit(Event{Kind: EventReconcile, Table: t.cfg.ID})
		if t.hand.Stage == engine.StageComplete {
			t.runout.Cancel()
		} else if !t.hand.IsAutoRunoutLocked() && t.hand.ActiveSeat >= 0 {
			t.timer.startTurn(t.hand.ActiveSeat)
		}
	}
}

// autoActCurrentSeat implements HandleTimeouts's auto-check-or-fold rule:
// check if the current player owes nothing, fold otherwise.
func (t *Table) autoActCurrentSeat() {
	seat := t.hand.ActiveSeat
	if seat < 0 {
		return
	}
	p := t.hand.Players[indexOfSeat(t.hand, seat)]
	action := betting.Fold
	if p.CurrentBet == t.hand.CurrentBet {
		action = betting.Check
	}
	if err := t.hand.Submit(seat, action, 0); err != nil {
		t.log.Errorf("table %s: auto-act for seat %d failed: %v", t.cfg.ID, seat, err)
		return
	}
	t.emit(Event{Kind: EventStateUpdate, Table: t.cfg.ID})
	if t.hand.Stage != engine.StageComplete && t.hand.ActiveSeat >= 0 && !t.hand.IsAutoRunoutLocked() {
		t.timer.startTurn(t.hand.ActiveSeat)
	}
}

func indexOfSeat(h *engine.Hand, seatID int) int {
	for i, p := range h.Players {
		if p.SeatID == seatID {
			return i
		}
	}
	return -1
}

func (t *Table) handleReconnect(m ReconnectMsg) ReconnectResult {
	seatID, err := t.reconnect.Verify(m.Token)
	if err != nil {
		return ReconnectResult{Err: err}
	}
	seat := t.seatByID(seatID)
	if seat == nil {
		return ReconnectResult{Err: fmt.Errorf("table: reconnect token names an unknown seat")}
	}
	seat.Connected = true
	t.emit(Event{Kind: EventReconcile, Table: t.cfg.ID})
	return ReconnectResult{SeatID: seatID}
}

func (t *Table) nextFreeSeatID() int {
	taken := make(map[int]bool, len(t.seats))
	for _, s := range t.seats {
		taken[s.SeatID] = true
	}
	for id := 0; id < t.cfg.MaxPlayers; id++ {
		if !taken[id] {
			return id
		}
	}
	return -1
}

func (t *Table) handleSit(m SitMsg) SitResult {
	for _, s := range t.seats {
		if s.PlayerID == m.PlayerID {
			return SitResult{Err: fmt.Errorf("table: %s is already seated", m.PlayerID)}
		}
	}
	if len(t.seats) >= t.cfg.MaxPlayers {
		return SitResult{Err: fmt.Errorf("table: table %s is full", t.cfg.ID)}
	}
	seatID := t.nextFreeSeatID()
	if seatID < 0 {
		return SitResult{Err: fmt.Errorf("table: no free seat at table %s", t.cfg.ID)}
	}
	t.seats = append(t.seats, &Seat{SeatID: seatID, PlayerID: m.PlayerID, Stack: m.Stack, Connected: true})
	t.emit(Event{Kind: EventReconcile, Table: t.cfg.ID})
	return SitResult{SeatID: seatID}
}

func (t *Table) handleStand(m StandMsg) StandResult {
	seat := t.seatByID(m.SeatID)
	if seat == nil {
		return StandResult{Err: fmt.Errorf("table: unknown seat %d", m.SeatID)}
	}
	if t.hand != nil && t.hand.Stage != engine.StageComplete {
		// Still has standing in the current hand: disconnect rather than
		// vacate so the hand can finish against its folded/all-in state, and
		// mint a reconnect token so the client can resume the seat later.
		seat.Connected = false
		token := t.reconnect.Issue(m.SeatID)
		if t.hand.ActiveSeat == m.SeatID {
			t.scheduleDisconnectAutoAction(m.SeatID)
		}
		t.emit(Event{Kind: EventReconcile, Table: t.cfg.ID})
		return StandResult{Token: token}
	}
	for i, s := range t.seats {
		if s.SeatID == m.SeatID {
			t.seats = append(t.seats[:i], t.seats[i+1:]...)
			break
		}
	}
	t.emit(Event{Kind: EventReconcile, Table: t.cfg.ID})
	return StandResult{}
}

// scheduleDisconnectAutoAction replaces the disconnecting seat's ordinary
// turn countdown with a grace window of max(5s, its time bank), after which
// the table auto-acts for it the same way an ordinary timer expiry would.
func (t *Table) scheduleDisconnectAutoAction(seatID int) {
	t.timer.stopTurn(seatID)
	d := 5 * time.Second
	if bank := t.timer.TimeBank(seatID); bank > d {
		d = bank
	}
	time.AfterFunc(d, func() { t.emitTimer(seatID) })
}

// SeatCount returns the number of currently seated players.
func (t *Table) SeatCount() int { return len(t.seats) }

// ID returns the table's configured identifier.
func (t *Table) ID() string { return t.cfg.ID }

// CurrentHand returns the hand in progress, or nil between hands. Intended
// for read-only snapshotting (broadcast, persistence) from outside the
// mailbox loop; callers that need a consistent view mid-mutation should go
// through Submit instead.
func (t *Table) CurrentHand() *engine.Hand { return t.hand }

// Seats returns a copy of the table's current seating.
func (t *Table) Seats() []Seat {
	out := make([]Seat, len(t.seats))
	for i, s := range t.seats {
		out[i] = *s
	}
	return out
}

// StartHand deals a new hand for the currently seated players.
func (t *Table) StartHand() error {
	if len(t.seats) < t.cfg.MinPlayers {
		return fmt.Errorf("table: need %d players to start, have %d", t.cfg.MinPlayers, len(t.seats))
	}
	players := make([]*engine.Player, 0, len(t.seats))
	for _, s := range t.seats {
		players = append(players, engine.NewPlayer(s.PlayerID, s.SeatID, s.Stack))
	}
	h, err := engine.NewHand(t.handID+1, t.cfg.Variant, players, t.dealer, t.src)
	if err != nil {
		return err
	}
	t.handID++
	t.hand = h
	t.dealer = (t.dealer + 1) % len(t.seats)
	t.emit(Event{Kind: EventReconcile, Table: t.cfg.ID})
	if !h.IsAutoRunoutLocked() && h.ActiveSeat >= 0 {
		t.timer.startTurn(h.ActiveSeat)
	}
	return nil
}

func (t *Table) emitTimer(seatID int) {
	t.mailbox <- TimerMsg{SeatID: seatID, Kind: "turn", Timestamp: time.Now()}
}

func (t *Table) emitRunoutTimer() {
	t.mailbox <- TimerMsg{Kind: "runout", Timestamp: time.Now()}
}

func (t *Table) emit(e Event) {
	select {
	case t.events <- e:
	default:
		// bounded channel: when the outbound queue is full, the event is
		// dropped here instead of blocking the table loop.
	}
}
