package eval

import (
	"fmt"
	"sort"

	chehsunliu "github.com/chehsunliu/poker"
	"github.com/pokercore/engine/pkg/cards"
)

// Category is the high-hand rank per spec §3: 1 High Card .. 10 Royal Flush.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
	RoyalFlush
)

// HighHand is the result of evaluating a player's best 5-card hand: a
// (rank, kickers) tuple per §4.2, comparable with Compare.
type HighHand struct {
	Category    Category
	rankValue   int32 // chehsunliu's internal total order; lower is better
	Description string
	Best        []cards.Card // the 5 cards making up the hand; empty filler never leaks (§4.2)
	IsPartial   bool         // true when fewer than 5 real cards were supplied and filler was used
}

// Compare returns -1/0/1 the way §4.2's compare(a,b) is specified:
// -1 if a is worse than b, 0 tie, 1 if a is better.
func Compare(a, b HighHand) int {
	// chehsunliu: lower rankValue is better, so the comparison is inverted
	// relative to the raw integers, per pkg/poker/hand_evaluator.go's
	// CompareHands note on chehsunliu's polarity.
	switch {
	case a.rankValue > b.rankValue:
		return -1
	case a.rankValue < b.rankValue:
		return 1
	default:
		return 0
	}
}

func categoryFromRankClass(rankClass int32, rankValue int32) Category {
	switch rankClass {
	case 1:
		if rankValue == 1 {
			return RoyalFlush
		}
		return StraightFlush
	case 2:
		return Quads
	case 3:
		return FullHouse
	case 4:
		return Flush
	case 5:
		return Straight
	case 6:
		return Trips
	case 7:
		return TwoPair
	case 8:
		return Pair
	default:
		return HighCard
	}
}

// evaluateExact evaluates a hand of exactly 5, 6, or 7 real cards (no
// filler), returning the Category/rankValue/description and the actual best
// 5-card subset via brute-force combination search — grounded on
// pkg/poker/hand_evaluator.go's getBestFiveCards.
func evaluateExact(cs []cards.Card) (HighHand, error) {
	if len(cs) < 5 {
		return HighHand{}, fmt.Errorf("eval: need at least 5 cards, got %d", len(cs))
	}
	cc, err := toChehsunliuAll(cs)
	if err != nil {
		return HighHand{}, err
	}
	best := chehsunliu.Evaluate(cc)
	rankClass := chehsunliu.RankClass(best)
	desc := chehsunliu.RankString(best)

	bestCards := cs
	if len(cs) > 5 {
		bestCards = nil
		for _, combo := range combinations(cs, 5) {
			comboCc, err := toChehsunliuAll(combo)
			if err != nil {
				return HighHand{}, err
			}
			if chehsunliu.Evaluate(comboCc) == best {
				bestCards = combo
				break
			}
		}
		if bestCards == nil {
			// Unreachable given a correct evaluator, but fail closed rather
			// than silently returning a wrong 5-card subset.
			return HighHand{}, fmt.Errorf("eval: no 5-card combination matched best rank")
		}
	}

	return HighHand{
		Category:    categoryFromRankClass(rankClass, best),
		rankValue:   best,
		Description: desc,
		Best:        bestCards,
	}, nil
}

// fillerCards returns the n lexicographically-smallest cards not present in
// used, for the padding policy in §4.2. "Smallest" orders by suit then rank
// to give a fixed, deterministic filler independent of draw order.
func fillerCards(used []cards.Card, n int) []cards.Card {
	usedSet := make(map[cards.Card]bool, len(used))
	for _, c := range used {
		usedSet[c] = true
	}
	var universe []cards.Card
	for s := cards.Hearts; s <= cards.Spades; s++ {
		for r := cards.Two; r <= cards.Ace; r++ {
			c := cards.Card{Suit: s, Rank: r}
			if !usedSet[c] {
				universe = append(universe, c)
			}
		}
	}
	sort.Slice(universe, func(i, j int) bool {
		if universe[i].Suit != universe[j].Suit {
			return universe[i].Suit < universe[j].Suit
		}
		return universe[i].Rank < universe[j].Rank
	})
	if n > len(universe) {
		n = len(universe)
	}
	return universe[:n]
}

// evaluateBestOfN evaluates any number of real cards >= 1. When fewer than 5
// are supplied, deterministic filler cards are used to keep the evaluator's
// internal total order stable (so two partial hands remain comparable), but
// the returned HighHand.Best contains only the real supplied cards and
// IsPartial is set — filler never leaks past this function (§4.2).
func evaluateBestOfN(cs []cards.Card) (HighHand, error) {
	if len(cs) == 0 {
		return HighHand{}, fmt.Errorf("eval: no cards supplied")
	}
	if len(cs) >= 5 {
		return evaluateExact(cs)
	}
	padded := append(append([]cards.Card(nil), cs...), fillerCards(cs, 5-len(cs))...)
	hand, err := evaluateExact(padded)
	if err != nil {
		return HighHand{}, err
	}
	hand.Best = append([]cards.Card(nil), cs...)
	hand.IsPartial = true
	return hand, nil
}

// EvaluateHigh evaluates a player's best high hand given their hole cards,
// the community/board cards, and the variant's combination rule (§4.2):
// Hold'em/stud-style variants pick the best 5 of all supplied cards; Omaha
// variants must use exactly 2 of the 4 hole cards and exactly 3 of the
// (up to 5) board cards.
func EvaluateHigh(hole, community []cards.Card, variant Variant) (HighHand, error) {
	if !variant.OmahaConstrained() {
		all := append(append([]cards.Card(nil), hole...), community...)
		return evaluateBestOfN(all)
	}

	if len(hole) != 4 {
		return HighHand{}, fmt.Errorf("eval: omaha requires exactly 4 hole cards, got %d", len(hole))
	}
	if len(community) == 0 {
		return evaluateBestOfN(append([]cards.Card(nil), hole...))
	}

	holePairs := combinations(hole, 2)
	boardTriples := combinations(community, minInt(3, len(community)))
	if len(boardTriples) == 0 {
		boardTriples = [][]cards.Card{community}
	}

	var best HighHand
	first := true
	for _, hp := range holePairs {
		for _, bt := range boardTriples {
			combo := append(append([]cards.Card(nil), hp...), bt...)
			hand, err := evaluateBestOfN(combo)
			if err != nil {
				return HighHand{}, err
			}
			if first || Compare(hand, best) > 0 {
				best = hand
				first = false
			}
		}
	}
	return best, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
