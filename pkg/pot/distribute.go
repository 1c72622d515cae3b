package pot

import "github.com/pokercore/engine/pkg/eval"

// PlayerResult is one showdown-eligible player's evaluated hand(s), keyed by
// the same SeatID used in Contribution and SidePot.Eligible.
type PlayerResult struct {
	SeatID int
	High   eval.HighHand
	Low    eval.LowHand
}

// Distribute splits a single SidePot among the winners found in results,
// honoring the Hi/Lo rules in §4.3: when hasLowVariant is true and at least
// one eligible player has a qualifying low, the pot splits 50/50 between the
// high and low sides (odd chip to the high side); otherwise the whole pot
// goes to the high side. Ties within a side split the share evenly, with any
// remainder chip distributed one at a time to winners in seatOrder order
// (the clockwise seating starting immediately after the dealer) rather than
// map-iteration order.
func Distribute(p SidePot, results map[int]PlayerResult, hasLowVariant bool, seatOrder []int) map[int]int64 {
	deltas := make(map[int]int64)

	var lowEligible []int
	if hasLowVariant {
		for seat := range p.Eligible {
			if r, ok := results[seat]; ok && r.Low.Qualifies {
				lowEligible = append(lowEligible, seat)
			}
		}
	}

	highShare := p.Amount
	var lowShare int64
	if len(lowEligible) > 0 {
		lowShare = p.Amount / 2
		highShare = p.Amount - lowShare
	}

	highWinners := bestHighWinners(p.Eligible, results)
	distributeShare(deltas, highShare, highWinners, seatOrder)

	if lowShare > 0 {
		lowWinners := bestLowWinners(lowEligible, results)
		distributeShare(deltas, lowShare, lowWinners, seatOrder)
	}

	return deltas
}

// DistributeAll applies Distribute across every pot layer and sums the
// resulting per-seat deltas.
func DistributeAll(pots []SidePot, results map[int]PlayerResult, hasLowVariant bool, seatOrder []int) map[int]int64 {
	totals := make(map[int]int64)
	for _, p := range pots {
		for seat, delta := range Distribute(p, results, hasLowVariant, seatOrder) {
			totals[seat] += delta
		}
	}
	return totals
}

func bestHighWinners(eligible map[int]bool, results map[int]PlayerResult) []int {
	var winners []int
	var best eval.HighHand
	first := true
	for seat := range eligible {
		r, ok := results[seat]
		if !ok {
			continue
		}
		switch {
		case first:
			best = r.High
			winners = []int{seat}
			first = false
		case eval.Compare(r.High, best) > 0:
			best = r.High
			winners = []int{seat}
		case eval.Compare(r.High, best) == 0:
			winners = append(winners, seat)
		}
	}
	return winners
}

func bestLowWinners(lowEligible []int, results map[int]PlayerResult) []int {
	var winners []int
	var best eval.LowHand
	first := true
	for _, seat := range lowEligible {
		r := results[seat]
		switch {
		case first:
			best = r.Low
			winners = []int{seat}
			first = false
		case eval.CompareLow(r.Low, best) > 0:
			best = r.Low
			winners = []int{seat}
		case eval.CompareLow(r.Low, best) == 0:
			winners = append(winners, seat)
		}
	}
	return winners
}

// distributeShare splits amount evenly among winners, handing any remainder
// chip one at a time to winners taken in seatOrder order starting from the
// earliest eligible seat — the deterministic replacement for §4.3's
// "first-winner" bug in the teacher's map-order distribution.
func distributeShare(deltas map[int]int64, amount int64, winners []int, seatOrder []int) {
	if len(winners) == 0 || amount == 0 {
		return
	}
	base := amount / int64(len(winners))
	remainder := amount % int64(len(winners))
	for _, w := range winners {
		deltas[w] += base
	}
	ordered := orderBySeat(winners, seatOrder)
	for i := int64(0); i < remainder && int(i) < len(ordered); i++ {
		deltas[ordered[i]]++
	}
}

func orderBySeat(winners []int, seatOrder []int) []int {
	winnerSet := make(map[int]bool, len(winners))
	for _, w := range winners {
		winnerSet[w] = true
	}
	ordered := make([]int, 0, len(winners))
	for _, seat := range seatOrder {
		if winnerSet[seat] {
			ordered = append(ordered, seat)
		}
	}
	return ordered
}
