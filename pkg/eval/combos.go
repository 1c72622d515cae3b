package eval

import "github.com/pokercore/engine/pkg/cards"

// combinations generates all k-combinations of cs, grounded on
// pkg/poker/hand_evaluator.go's generateCombinations (same recursive
// start-index shape), generalized to the cards package's Card type.
func combinations(cs []cards.Card, k int) [][]cards.Card {
	var out [][]cards.Card
	if k <= 0 || k > len(cs) {
		return out
	}
	if k == len(cs) {
		return [][]cards.Card{append([]cards.Card(nil), cs...)}
	}
	var generate func(start int, current []cards.Card)
	generate = func(start int, current []cards.Card) {
		if len(current) == k {
			combo := make([]cards.Card, k)
			copy(combo, current)
			out = append(out, combo)
			return
		}
		for i := start; i <= len(cs)-(k-len(current)); i++ {
			generate(i+1, append(current, cs[i]))
		}
	}
	generate(0, nil)
	return out
}
