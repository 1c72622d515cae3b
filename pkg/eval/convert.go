package eval

import (
	"fmt"

	chehsunliu "github.com/chehsunliu/poker"
	"github.com/pokercore/engine/pkg/cards"
)

// toChehsunliu converts a cards.Card to the chehsunliu/poker representation,
// returning an explicit error on an invalid rank/suit instead of silently
// defaulting, matching pkg/poker/hand_evaluator.go's convertCardToChehsunliu.
func toChehsunliu(c cards.Card) (chehsunliu.Card, error) {
	var rankChar byte
	switch c.Rank {
	case cards.Two:
		rankChar = '2'
	case cards.Three:
		rankChar = '3'
	case cards.Four:
		rankChar = '4'
	case cards.Five:
		rankChar = '5'
	case cards.Six:
		rankChar = '6'
	case cards.Seven:
		rankChar = '7'
	case cards.Eight:
		rankChar = '8'
	case cards.Nine:
		rankChar = '9'
	case cards.Ten:
		rankChar = 'T'
	case cards.Jack:
		rankChar = 'J'
	case cards.Queen:
		rankChar = 'Q'
	case cards.King:
		rankChar = 'K'
	case cards.Ace:
		rankChar = 'A'
	default:
		var zero chehsunliu.Card
		return zero, fmt.Errorf("eval: invalid rank %v", c.Rank)
	}

	var suitChar byte
	switch c.Suit {
	case cards.Spades:
		suitChar = 's'
	case cards.Hearts:
		suitChar = 'h'
	case cards.Diamonds:
		suitChar = 'd'
	case cards.Clubs:
		suitChar = 'c'
	default:
		var zero chehsunliu.Card
		return zero, fmt.Errorf("eval: invalid suit %v", c.Suit)
	}

	return chehsunliu.NewCard(string([]byte{rankChar, suitChar})), nil
}

func toChehsunliuAll(cs []cards.Card) ([]chehsunliu.Card, error) {
	out := make([]chehsunliu.Card, 0, len(cs))
	for _, c := range cs {
		cc, err := toChehsunliu(c)
		if err != nil {
			return nil, fmt.Errorf("eval: failed to convert card: %w", err)
		}
		out = append(out, cc)
	}
	return out, nil
}
