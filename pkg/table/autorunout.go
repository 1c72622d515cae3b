package table

import (
	"time"

	"github.com/pokercore/engine/pkg/engine"
)

// AutoRunoutConfig configures the timed-reveal scheduler that takes over
// once a hand locks with every live player all-in.
type AutoRunoutConfig struct {
	PromptTimeout time.Duration // how long contenders get to answer a Run-It-Twice prompt
	RevealGap     time.Duration // delay between successive street reveals
}

// DefaultAutoRunoutConfig matches a typical "deal it out" pace.
func DefaultAutoRunoutConfig() AutoRunoutConfig {
	return AutoRunoutConfig{PromptTimeout: 15 * time.Second, RevealGap: 5 * time.Second}
}

// AutoRunoutScheduler reveals the rest of a locked hand's board one street
// at a time, pausing first to let Run-It-Twice get offered. Grounded on
// pkg/poker/table.go's HandleTimeouts shape (a timer firing into the
// table's own control flow) but built fresh — the teacher has no locked
// all-in path at all, since betting continuation, not timed reveal, is its
// only flow.
type AutoRunoutScheduler struct {
	cfg      AutoRunoutConfig
	onFire   func()
	timer    *time.Timer
	rit      *engine.RITController
	prompted bool
}

// NewAutoRunoutScheduler builds a scheduler that calls onFire from its own
// goroutine each time a reveal (or the RIT prompt timeout) is due.
func NewAutoRunoutScheduler(cfg AutoRunoutConfig, onFire func()) *AutoRunoutScheduler {
	return &AutoRunoutScheduler{cfg: cfg, onFire: onFire}
}

// Schedule arms the next reveal for a locked hand. If Run-It-Twice hasn't
// been offered yet this hand, it prompts first (per §4.6/§4.10: the prompt
// takes priority over the first reveal) and arms PromptTimeout instead of
// RevealGap.
func (s *AutoRunoutScheduler) Schedule(h *engine.Hand) {
	s.stop()
	if !s.prompted {
		if s.rit == nil {
			s.rit = engine.NewRITController(engine.DefaultRITConfig())
		}
		if s.rit.ComputePrompt(h) {
			s.prompted = true
			s.timer = time.AfterFunc(s.cfg.PromptTimeout, s.onFire)
			return
		}
		s.prompted = true
	}
	s.timer = time.AfterFunc(s.cfg.RevealGap, s.onFire)
}

// Consent forwards a seat's Run-It-Twice consent to the underlying
// controller, returning whether consent is now complete.
func (s *AutoRunoutScheduler) Consent(h *engine.Hand, seatID int) bool {
	if s.rit == nil {
		return false
	}
	return s.rit.Consent(h, seatID)
}

// EnableRunItTwice freezes the baseline once consent is complete.
func (s *AutoRunoutScheduler) EnableRunItTwice(h *engine.Hand, publicSeed, handNonce []byte) error {
	if s.rit == nil {
		return nil
	}
	return s.rit.Enable(h, publicSeed, handNonce)
}

// RevealNext deals the next street (or, if Run-It-Twice was enabled, runs
// every remaining board at once and finishes the hand) and re-arms the
// scheduler if the board is still incomplete.
func (s *AutoRunoutScheduler) RevealNext(h *engine.Hand) error {
	if s.rit != nil && s.rit.Enabled {
		_, err := s.rit.Execute(h)
		s.stop()
		return err
	}
	if err := h.AdvanceStreet(); err != nil {
		return err
	}
	if h.Stage != engine.StageComplete && h.IsAutoRunoutLocked() {
		s.timer = time.AfterFunc(s.cfg.RevealGap, s.onFire)
		return nil
	}
	s.stop()
	return nil
}

// Cancel stops any pending reveal and resets prompt state for the next hand.
func (s *AutoRunoutScheduler) Cancel() {
	s.stop()
	s.rit = nil
	s.prompted = false
}

func (s *AutoRunoutScheduler) stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
