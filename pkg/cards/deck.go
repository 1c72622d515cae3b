package cards

import "fmt"

// Deck is a 52-card universe with a shuffle and a draw cursor. Contract
// (§4.1): DrawN consumes the top k cards and returns them; subsequent DrawN
// calls continue from the same position; SnapshotRemaining exposes the
// undrawn suffix without mutating the cursor.
//
// Grounded on pkg/poker/deck.go's Deck{cards []Card, rng *rand.Rand}, but the
// embedded rng is replaced by the Source interface (see source.go) so
// production shuffles use crypto/rand per spec §4.1.
type Deck struct {
	cards  []Card
	cursor int
}

// NewDeck builds a full 52-card deck and shuffles it in place using Source.
func NewDeck(src Source) *Deck {
	d := &Deck{cards: allCards()}
	d.Shuffle(src)
	return d
}

// Shuffle performs Fisher-Yates using src and resets the draw cursor to 0.
func (d *Deck) Shuffle(src Source) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	d.cursor = 0
}

// DrawN consumes and returns the next k cards. It returns an error rather
// than panicking if the deck is exhausted, matching the evaluator package's
// explicit-error convention (see pkg/eval) instead of the teacher's
// bool-return Draw().
func (d *Deck) DrawN(k int) ([]Card, error) {
	if k < 0 {
		return nil, fmt.Errorf("cards: negative draw count %d", k)
	}
	if d.cursor+k > len(d.cards) {
		return nil, fmt.Errorf("cards: deck exhausted: requested %d, remaining %d", k, len(d.cards)-d.cursor)
	}
	out := make([]Card, k)
	copy(out, d.cards[d.cursor:d.cursor+k])
	d.cursor += k
	return out, nil
}

// Remaining reports how many undrawn cards are left.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.cursor
}

// SnapshotRemaining returns a copy of the undrawn suffix without mutating
// the cursor. Used by rabbit hunt (§4.7) to preview without advancing state.
func (d *Deck) SnapshotRemaining() []Card {
	out := make([]Card, len(d.cards)-d.cursor)
	copy(out, d.cards[d.cursor:])
	return out
}

// Fork returns an independent copy of the deck positioned at the same
// cursor; used by the RIT controller (§4.6) to run each board from the same
// baseline without runs interfering with one another.
func (d *Deck) Fork() *Deck {
	cp := &Deck{cards: make([]Card, len(d.cards)), cursor: d.cursor}
	copy(cp.cards, d.cards)
	return cp
}

// State is the serialisable form of a Deck, used by pkg/persistence.
type State struct {
	Cards  []Card `json:"cards"`
	Cursor int    `json:"cursor"`
}

// GetState returns the deck's persistable state.
func (d *Deck) GetState() State {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return State{Cards: cards, Cursor: d.cursor}
}

// RestoreDeck rebuilds a Deck from persisted state without reshuffling.
func RestoreDeck(s State) (*Deck, error) {
	if len(s.Cards) != 52 {
		return nil, fmt.Errorf("cards: invalid deck state: expected 52 cards, got %d", len(s.Cards))
	}
	if s.Cursor < 0 || s.Cursor > 52 {
		return nil, fmt.Errorf("cards: invalid deck cursor %d", s.Cursor)
	}
	d := &Deck{cards: make([]Card, len(s.Cards)), cursor: s.Cursor}
	copy(d.cards, s.Cards)
	return d, nil
}
