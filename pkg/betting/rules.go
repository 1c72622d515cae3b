package betting

import "fmt"

// MaxPotLimitRaiseTo computes the canonical pot-limit cap (§9's Open
// Question resolution): maxRaiseTo = potAfterCall + call, where call is the
// amount p still owes to match r.CurrentBet. For an opening bet (no live
// currentBet) call is 0, so the cap reduces to the pot size before the bet.
func MaxPotLimitRaiseTo(p PlayerState, r RoundState) int64 {
	call := r.CurrentBet - p.CurrentBet
	if call < 0 {
		call = 0
	}
	potAfterCall := r.PotBeforeAction + call
	return potAfterCall + call
}

// ValidateAction reports whether action is legal for p under r. For Bet,
// amount is the total bet size; for Raise, amount is the total-for-street
// size after the raise (matching §4.4's "totalAfterRaise" language). Fold
// and Check take no amount and it is ignored.
func ValidateAction(p PlayerState, r RoundState, action ActionType, amount int64) error {
	if p.IsFolded {
		return fmt.Errorf("betting: folded players cannot act")
	}
	if p.IsAllIn {
		return fmt.Errorf("betting: all-in players cannot act")
	}

	switch action {
	case Fold:
		return nil

	case Check:
		if r.CurrentBet != p.CurrentBet {
			return fmt.Errorf("betting: cannot check, %d owed to call", r.CurrentBet-p.CurrentBet)
		}
		return nil

	case Call:
		if r.CurrentBet <= p.CurrentBet {
			return fmt.Errorf("betting: nothing to call, use check")
		}
		return nil

	case Bet:
		if r.CurrentBet != 0 {
			return fmt.Errorf("betting: a bet is already live, use raise")
		}
		maxStack := p.CurrentBet + p.Stack
		if amount < r.BigBlind && amount < maxStack {
			return fmt.Errorf("betting: bet %d is below the big blind %d", amount, r.BigBlind)
		}
		if amount > maxStack {
			return fmt.Errorf("betting: bet %d exceeds available stack", amount)
		}
		if r.Limit == PotLimit && amount > MaxPotLimitRaiseTo(p, r) {
			return fmt.Errorf("betting: bet %d exceeds pot-limit cap %d", amount, MaxPotLimitRaiseTo(p, r))
		}
		return nil

	case Raise:
		if r.CurrentBet == 0 {
			return fmt.Errorf("betting: no bet to raise, use bet")
		}
		maxStack := p.CurrentBet + p.Stack
		minLegalRaiseTo := r.CurrentBet + r.MinRaise
		if amount < minLegalRaiseTo && amount < maxStack {
			return fmt.Errorf("betting: raise to %d is below the minimum raise to %d", amount, minLegalRaiseTo)
		}
		if amount > maxStack {
			return fmt.Errorf("betting: raise to %d exceeds available stack", amount)
		}
		if r.Limit == PotLimit && amount > MaxPotLimitRaiseTo(p, r) {
			return fmt.Errorf("betting: raise to %d exceeds pot-limit cap %d", amount, MaxPotLimitRaiseTo(p, r))
		}
		return nil

	default:
		return fmt.Errorf("betting: unknown action %v", action)
	}
}

// ReopensAction reports whether a raise increment of size raiseSize is large
// enough to reopen the action for players who already matched the previous
// currentBet (§4.4: "an all-in short raise below minRaise does not re-open
// the action"). Callers that get true should update their round's MinRaise
// to raiseSize per the same rule.
func ReopensAction(raiseSize, minRaise int64) bool {
	return raiseSize >= minRaise
}
