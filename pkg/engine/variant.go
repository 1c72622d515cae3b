package engine

import "github.com/pokercore/engine/pkg/eval"

// Street identifies one dealing/betting round within a hand. Community
// games and stud games use disjoint subsets of this enum; VariantConfig
// resolves which sequence applies.
type Street int

const (
	StreetPreflop Street = iota
	StreetFlop
	StreetTurn
	StreetRiver
	StreetStudThird
	StreetStudFourth
	StreetStudFifth
	StreetStudSixth
	StreetStudSeventh
	StreetShowdown
)

func (s Street) String() string {
	switch s {
	case StreetPreflop:
		return "preflop"
	case StreetFlop:
		return "flop"
	case StreetTurn:
		return "turn"
	case StreetRiver:
		return "river"
	case StreetStudThird:
		return "third"
	case StreetStudFourth:
		return "fourth"
	case StreetStudFifth:
		return "fifth"
	case StreetStudSixth:
		return "sixth"
	case StreetStudSeventh:
		return "seventh"
	case StreetShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// VariantConfig is the small per-variant policy object §9 calls for instead
// of inheritance: hole-card count, street sequence, and the stud card split
// live here; the first-actor rule is chosen per street by computeFirstActor
// in hand.go.
type VariantConfig struct {
	Variant eval.Variant
	Streets []Street
	IsStud  bool
	// ThirdStreetDownCards is how many of third street's cards are dealt
	// face-down (the rest of that street's cards are face-up). Seven-card
	// stud deals 2 down + 1 up; five-card stud deals 1 down + 1 up, making
	// up the difference with an extra up-card street later.
	ThirdStreetDownCards int
}

// ConfigFor resolves the dealing policy for a variant.
func ConfigFor(v eval.Variant) VariantConfig {
	switch v {
	case eval.SevenStud, eval.SevenStudHiLo:
		return VariantConfig{
			Variant:              v,
			Streets:              []Street{StreetStudThird, StreetStudFourth, StreetStudFifth, StreetStudSixth, StreetStudSeventh, StreetShowdown},
			IsStud:               true,
			ThirdStreetDownCards: 2,
		}
	case eval.FiveStud:
		return VariantConfig{
			Variant:              v,
			Streets:              []Street{StreetStudThird, StreetStudFourth, StreetStudFifth, StreetStudSixth, StreetShowdown},
			IsStud:               true,
			ThirdStreetDownCards: 1,
		}
	default: // Holdem, Omaha, OmahaHiLo
		return VariantConfig{
			Variant: v,
			Streets: []Street{StreetPreflop, StreetFlop, StreetTurn, StreetRiver, StreetShowdown},
		}
	}
}

// StudCardsFor returns how many down-cards and up-cards are dealt to each
// player on street in a stud variant. Seventh street (seven-card stud only)
// deals its single card face-down, matching real-table etiquette ("the
// river card is never shown before showdown").
func (c VariantConfig) StudCardsFor(street Street) (down, up int) {
	switch street {
	case StreetStudThird:
		return c.ThirdStreetDownCards, 1
	case StreetStudSeventh:
		return 1, 0
	case StreetStudFourth, StreetStudFifth, StreetStudSixth:
		return 0, 1
	default:
		return 0, 0
	}
}

// CommunityCardCount returns how many community cards are dealt for street
// in a community-card variant (always 0 for stud streets).
func (c VariantConfig) CommunityCardCount(street Street) int {
	switch street {
	case StreetFlop:
		return 3
	case StreetTurn, StreetRiver:
		return 1
	default:
		return 0
	}
}

// HoleCardCount is the number of hole cards dealt per player at the start of
// the hand, delegated to eval.Variant.
func (c VariantConfig) HoleCardCount() int {
	return c.Variant.HoleCardCount()
}
