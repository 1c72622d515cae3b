package table

import (
	"sync"
	"time"
)

// TimerConfig configures a table's turn clock and time-bank accrual.
type TimerConfig struct {
	TurnDuration              time.Duration
	WarningThreshold          time.Duration
	TimeBankStart             time.Duration
	TimeBankMax               time.Duration
	TimeBankReplenish         time.Duration // amount credited per elapsed TimeBankReplenishInterval
	TimeBankReplenishInterval time.Duration
}

// DefaultTimerConfig mirrors a typical online-table clock.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		TurnDuration:              15 * time.Second,
		WarningThreshold:          5 * time.Second,
		TimeBankStart:             60 * time.Second,
		TimeBankMax:               120 * time.Second,
		TimeBankReplenish:         15 * time.Second,
		TimeBankReplenishInterval: 30 * time.Minute,
	}
}

// TurnTimer tracks one active per-seat countdown plus each seat's time-bank
// balance, grounded on pkg/poker/table.go's HandleTimeouts (which compares
// now against a LastAction timestamp) but generalized to expose
// start/stop/use-time-bank as explicit operations the table's mailbox loop
// drives instead of a polling goroutine.
type TurnTimer struct {
	cfg      TimerConfig
	onExpire func(seatID int)

	mu            sync.Mutex
	timers        map[int]*time.Timer
	timeBanks     map[int]time.Duration
	lastReplenish map[int]time.Time
}

// NewTurnTimer builds a timer that calls onExpire from its own goroutine
// when a seat's clock (including any time bank it spends) runs out.
func NewTurnTimer(cfg TimerConfig, onExpire func(seatID int)) *TurnTimer {
	return &TurnTimer{
		cfg:           cfg,
		onExpire:      onExpire,
		timers:        make(map[int]*time.Timer),
		timeBanks:     make(map[int]time.Duration),
		lastReplenish: make(map[int]time.Time),
	}
}

// TimeBank returns seatID's current time-bank balance without consuming it,
// for callers (disconnect handling) that need to size a timeout around it.
func (tt *TurnTimer) TimeBank(seatID int) time.Duration {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return tt.bankFor(seatID)
}

func (tt *TurnTimer) bankFor(seatID int) time.Duration {
	if b, ok := tt.timeBanks[seatID]; ok {
		return b
	}
	tt.timeBanks[seatID] = tt.cfg.TimeBankStart
	tt.lastReplenish[seatID] = time.Now()
	return tt.cfg.TimeBankStart
}

// startTurn arms seatID's clock for the base turn duration.
func (tt *TurnTimer) startTurn(seatID int) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.stopLocked(seatID)
	tt.bankFor(seatID)
	tt.timers[seatID] = time.AfterFunc(tt.cfg.TurnDuration, func() { tt.onExpire(seatID) })
}

// useTimeBank extends a seat's already-expired turn by whatever time-bank
// balance it has left, consuming it; returns false if the seat has none.
func (tt *TurnTimer) useTimeBank(seatID int) bool {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	bank := tt.bankFor(seatID)
	if bank <= 0 {
		return false
	}
	tt.timeBanks[seatID] = 0
	tt.stopLocked(seatID)
	tt.timers[seatID] = time.AfterFunc(bank, func() { tt.onExpire(seatID) })
	return true
}

// tickReplenish credits every tracked seat's time bank once per whole
// TimeBankReplenishInterval elapsed since that seat's last replenishment,
// capped at TimeBankMax. Seats that haven't accumulated a full interval yet
// are left untouched and keep their partial progress toward the next one.
func (tt *TurnTimer) tickReplenish(now time.Time) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	if tt.cfg.TimeBankReplenishInterval <= 0 {
		return
	}
	for seat, last := range tt.lastReplenish {
		intervals := int64(now.Sub(last) / tt.cfg.TimeBankReplenishInterval)
		if intervals <= 0 {
			continue
		}
		bank := tt.timeBanks[seat] + time.Duration(intervals)*tt.cfg.TimeBankReplenish
		if bank > tt.cfg.TimeBankMax {
			bank = tt.cfg.TimeBankMax
		}
		tt.timeBanks[seat] = bank
		tt.lastReplenish[seat] = last.Add(time.Duration(intervals) * tt.cfg.TimeBankReplenishInterval)
	}
}

// stopTurn disarms seatID's clock without affecting its time bank.
func (tt *TurnTimer) stopTurn(seatID int) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.stopLocked(seatID)
}

func (tt *TurnTimer) stopLocked(seatID int) {
	if tm, ok := tt.timers[seatID]; ok {
		tm.Stop()
		delete(tt.timers, seatID)
	}
}
