package engine

import (
	"fmt"

	"github.com/pokercore/engine/pkg/cards"
)

// PreviewStreet draws what the named street's cards would have been had the
// hand continued, without mutating the live deck — a non-binding preview
// for a folded or already-decided hand, built on pkg/cards.Deck.Fork so the
// real deal is never perturbed by looking ahead.
func (h *Hand) PreviewStreet(street Street) ([]cards.Card, error) {
	if h.VariantCfg.IsStud {
		return nil, fmt.Errorf("engine: rabbit hunt preview is not supported for stud variants")
	}
	n := h.VariantCfg.CommunityCardCount(street)
	if n == 0 {
		return nil, fmt.Errorf("engine: street %s deals no community cards", street)
	}

	already := 0
	for s := StreetFlop; s < street; s++ {
		already += h.VariantCfg.CommunityCardCount(s)
	}
	if already < len(h.Community) {
		return nil, fmt.Errorf("engine: street %s has already been dealt", street)
	}

	preview := h.Deck.Fork()
	if skip := already - len(h.Community); skip > 0 {
		// Earlier streets not dealt yet come off the deck first.
		if _, err := preview.DrawN(skip); err != nil {
			return nil, err
		}
	}
	return preview.DrawN(n)
}
