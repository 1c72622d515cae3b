package betting

import "testing"

func TestValidateActionCheckRequiresMatchedBet(t *testing.T) {
	p := PlayerState{Stack: 500, CurrentBet: 0}
	r := RoundState{CurrentBet: 10, BigBlind: 10}

	if err := ValidateAction(p, r, Check, 0); err == nil {
		t.Error("expected check to be illegal when currentBet owes a call")
	}

	p.CurrentBet = 10
	if err := ValidateAction(p, r, Check, 0); err != nil {
		t.Errorf("expected check to be legal once matched, got %v", err)
	}
}

func TestValidateActionCallRequiresOutstandingBet(t *testing.T) {
	p := PlayerState{Stack: 500, CurrentBet: 10}
	r := RoundState{CurrentBet: 10}
	if err := ValidateAction(p, r, Call, 0); err == nil {
		t.Error("expected call to be illegal with nothing to call")
	}
}

func TestValidateActionBetMustMeetBigBlind(t *testing.T) {
	p := PlayerState{Stack: 500}
	r := RoundState{CurrentBet: 0, BigBlind: 10}
	if err := ValidateAction(p, r, Bet, 5); err == nil {
		t.Error("expected a sub-big-blind bet to be illegal")
	}
	if err := ValidateAction(p, r, Bet, 10); err != nil {
		t.Errorf("expected a big-blind-sized bet to be legal, got %v", err)
	}
}

func TestValidateActionAllowsShortAllInBet(t *testing.T) {
	p := PlayerState{Stack: 5}
	r := RoundState{CurrentBet: 0, BigBlind: 10}
	if err := ValidateAction(p, r, Bet, 5); err != nil {
		t.Errorf("expected an all-in bet below the big blind to be legal, got %v", err)
	}
}

func TestValidateActionRaiseBelowMinimumIsIllegalUnlessAllIn(t *testing.T) {
	p := PlayerState{Stack: 100, CurrentBet: 10}
	r := RoundState{CurrentBet: 10, MinRaise: 10}
	if err := ValidateAction(p, r, Raise, 15); err == nil {
		t.Error("expected a raise below the minimum to be illegal")
	}

	allIn := PlayerState{Stack: 5, CurrentBet: 10}
	if err := ValidateAction(allIn, r, Raise, 15); err != nil {
		t.Errorf("expected an all-in short raise to be legal, got %v", err)
	}
}

func TestMaxPotLimitRaiseToCanonicalFormula(t *testing.T) {
	p := PlayerState{Stack: 1000, CurrentBet: 0}
	r := RoundState{CurrentBet: 20, PotBeforeAction: 30, Limit: PotLimit}
	// call = 20, potAfterCall = 30+20 = 50, maxRaiseTo = 50+20 = 70.
	if got := MaxPotLimitRaiseTo(p, r); got != 70 {
		t.Errorf("expected pot-limit cap 70, got %d", got)
	}
}

func TestValidateActionEnforcesPotLimitCap(t *testing.T) {
	p := PlayerState{Stack: 1000, CurrentBet: 0}
	r := RoundState{CurrentBet: 20, MinRaise: 20, PotBeforeAction: 30, Limit: PotLimit}
	if err := ValidateAction(p, r, Raise, 71); err == nil {
		t.Error("expected a raise above the pot-limit cap to be illegal")
	}
	if err := ValidateAction(p, r, Raise, 70); err != nil {
		t.Errorf("expected a raise exactly at the pot-limit cap to be legal, got %v", err)
	}
}

func TestReopensActionRespectsMinRaise(t *testing.T) {
	if ReopensAction(5, 10) {
		t.Error("expected a short raise to not reopen the action")
	}
	if !ReopensAction(10, 10) {
		t.Error("expected a full-size raise to reopen the action")
	}
}

func TestSmallAndBigBlindIndexHeadsUp(t *testing.T) {
	if got := SmallBlindIndex(0, 2); got != 0 {
		t.Errorf("expected the dealer to post the small blind heads-up, got seat %d", got)
	}
	if got := BigBlindIndex(0, 2); got != 1 {
		t.Errorf("expected the other seat to post the big blind heads-up, got seat %d", got)
	}
}

func TestSmallAndBigBlindIndexMultiway(t *testing.T) {
	if got := SmallBlindIndex(0, 4); got != 1 {
		t.Errorf("expected dealer+1 to post small blind, got seat %d", got)
	}
	if got := BigBlindIndex(0, 4); got != 2 {
		t.Errorf("expected dealer+2 to post big blind, got seat %d", got)
	}
}

func TestPostForcedBetCapsAtStackAndReportsAllIn(t *testing.T) {
	p := &PlayerState{Stack: 7}
	posted, allIn := PostForcedBet(p, 10)
	if posted != 7 || !allIn {
		t.Errorf("expected a short stack to post all-in for 7, got posted=%d allIn=%v", posted, allIn)
	}
	if p.Stack != 0 || p.CurrentBet != 7 {
		t.Errorf("expected stack 0 and currentBet 7, got stack=%d currentBet=%d", p.Stack, p.CurrentBet)
	}
}

func TestPostForcedBetFullAmount(t *testing.T) {
	p := &PlayerState{Stack: 100}
	posted, allIn := PostForcedBet(p, 10)
	if posted != 10 || allIn {
		t.Errorf("expected a full post of 10 with no all-in, got posted=%d allIn=%v", posted, allIn)
	}
}
