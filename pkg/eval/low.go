package eval

import (
	"sort"

	"github.com/pokercore/engine/pkg/cards"
)

// LowHand is an ace-to-five 8-or-better low hand (§3 "Low rank"): five
// distinct ranks each <=8, aces counting as 1 (low). There is no teacher
// precedent for a low evaluator anywhere in the example pack; this is built
// fresh as a closed comparator over the same cards.Card type used by the
// high evaluator.
type LowHand struct {
	Qualifies bool
	// Ranks holds the five ace-to-five values (1..8) in descending order,
	// the natural comparison order: the hand with the lower high card wins,
	// so comparing element-by-element from index 0 is correct.
	Ranks       []int
	Description string
}

// lowValue maps a card's rank to its ace-to-five value, or 0 if the rank
// can never participate in a qualifying low (9 through King).
func lowValue(r cards.Rank) int {
	switch r {
	case cards.Ace:
		return 1
	case cards.Two, cards.Three, cards.Four, cards.Five, cards.Six, cards.Seven, cards.Eight:
		return int(r)
	default:
		return 0
	}
}

// lowFromFive finds the best qualifying 8-or-better low among the five
// distinct ranks present in cs (cs may contain duplicate ranks or
// disqualifying high ranks; only cs itself, taken whole, is considered --
// callers pass exactly the candidate 5-card subset).
func lowFromFive(cs []cards.Card) (LowHand, bool) {
	seen := make(map[int]bool, 5)
	values := make([]int, 0, 5)
	for _, c := range cs {
		v := lowValue(c.Rank)
		if v == 0 || seen[v] {
			return LowHand{}, false
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	return LowHand{Qualifies: true, Ranks: values, Description: lowDescription(values)}, true
}

func lowDescription(values []int) string {
	names := map[int]string{1: "A", 2: "2", 3: "3", 4: "4", 5: "5", 6: "6", 7: "7", 8: "8"}
	s := ""
	for i, v := range values {
		if i > 0 {
			s += "-"
		}
		s += names[v]
	}
	return s + " low"
}

// CompareLow returns -1/0/1 exactly like Compare, but for low hands: a
// non-qualifying hand always loses to a qualifying one, and among
// qualifiers, comparison proceeds rank-by-rank from the highest card down
// (fewer/lower ranks is better).
func CompareLow(a, b LowHand) int {
	if !a.Qualifies && !b.Qualifies {
		return 0
	}
	if !a.Qualifies {
		return -1
	}
	if !b.Qualifies {
		return 1
	}
	for i := 0; i < len(a.Ranks) && i < len(b.Ranks); i++ {
		if a.Ranks[i] != b.Ranks[i] {
			if a.Ranks[i] < b.Ranks[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// EvaluateLow evaluates the best qualifying 8-or-better low among the legal
// combinations for variant, mirroring EvaluateHigh's combination rule:
// Hold'em/stud-style variants search all 5-subsets of hole+community;
// Omaha-Hi-Lo must use exactly 2 of 4 hole cards and exactly 3 of the board.
func EvaluateLow(hole, community []cards.Card, variant Variant) (LowHand, bool) {
	var candidateSets [][]cards.Card
	if !variant.OmahaConstrained() {
		all := append(append([]cards.Card(nil), hole...), community...)
		candidateSets = combinations(all, minInt(5, len(all)))
		if len(all) < 5 {
			return LowHand{}, false
		}
	} else {
		if len(hole) != 4 || len(community) < 3 {
			return LowHand{}, false
		}
		for _, hp := range combinations(hole, 2) {
			for _, bt := range combinations(community, 3) {
				candidateSets = append(candidateSets, append(append([]cards.Card(nil), hp...), bt...))
			}
		}
	}

	var best LowHand
	found := false
	for _, set := range candidateSets {
		low, ok := lowFromFive(set)
		if !ok {
			continue
		}
		if !found || CompareLow(low, best) > 0 {
			best = low
			found = true
		}
	}
	return best, found
}
