// Package pot builds layered side pots from per-seat contributions and
// distributes them to winners, including Hi/Lo splits. Grounded on
// pkg/poker/pot.go's PotManager, generalized from player-index maps to
// explicit seat ids and from map-iteration-order distribution to a
// caller-supplied clockwise seat order, which fixes the teacher's
// first-winner-in-map-order remainder bug (the same bug independently found
// in other_examples' Omaha rules engine's DistributePot).
package pot

import "sort"

// Contribution is one seat's currentBet for the betting round being settled.
type Contribution struct {
	SeatID     int
	CurrentBet int64
	IsFolded   bool
}

// SidePot is one layer of the pot: an amount and the set of seats eligible
// to win it.
type SidePot struct {
	Amount   int64
	Eligible map[int]bool
}

// BuildSidePots implements §4.3's layering algorithm: unique positive bet
// levels in ascending order, each layer's amount computed from the number of
// contributors (folded included) reaching that level, eligibility limited to
// non-folded contributors. basePot, when positive, is an additional pot
// carried in from prior streets whose eligibility is the intersection of
// every computed layer's eligibility (players still live across every
// layer), prepended ahead of the current street's layers.
func BuildSidePots(contributions []Contribution, basePot int64) []SidePot {
	levelSet := make(map[int64]bool)
	for _, c := range contributions {
		if c.CurrentBet > 0 {
			levelSet[c.CurrentBet] = true
		}
	}
	levels := make([]int64, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	var pots []SidePot
	var prev int64
	for _, level := range levels {
		eligible := make(map[int]bool)
		contributorCount := 0
		for _, c := range contributions {
			if c.CurrentBet >= level {
				contributorCount++
				if !c.IsFolded {
					eligible[c.SeatID] = true
				}
			}
		}
		amount := (level - prev) * int64(contributorCount)
		if amount > 0 {
			pots = append(pots, SidePot{Amount: amount, Eligible: eligible})
		}
		prev = level
	}

	if basePot > 0 {
		base := SidePot{Amount: basePot, Eligible: intersectEligibility(pots)}
		pots = append([]SidePot{base}, pots...)
	}

	return pots
}

func intersectEligibility(pots []SidePot) map[int]bool {
	result := make(map[int]bool)
	if len(pots) == 0 {
		return result
	}
	for seat := range pots[0].Eligible {
		result[seat] = true
	}
	for _, p := range pots[1:] {
		for seat := range result {
			if !p.Eligible[seat] {
				delete(result, seat)
			}
		}
	}
	return result
}

// SplitPotForRuns divides totalPot into n equal per-run shares for
// Run-It-Twice (§4.6); integer-division remainder is absorbed entirely by
// the final run rather than spread across runs.
func SplitPotForRuns(totalPot int64, n int) []int64 {
	shares := make([]int64, n)
	share := totalPot / int64(n)
	for i := range shares {
		shares[i] = share
	}
	shares[n-1] += totalPot - share*int64(n)
	return shares
}
