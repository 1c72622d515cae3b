// Package eval implements hand ranking for all supported variants: the
// standard high-hand ranking (wrapping github.com/chehsunliu/poker), the
// ace-to-five 8-or-better low ranking used by Hi/Lo split games, and the
// per-variant combination rules (Hold'em/stud best-5-of-7, Omaha's mandatory
// 2-of-4 hole + 3-of-5 board constraint).
package eval

// Variant identifies one of the six supported poker variants (§3 TableState).
type Variant int

const (
	Holdem Variant = iota
	Omaha
	OmahaHiLo
	SevenStud
	SevenStudHiLo
	FiveStud
)

// HasLow reports whether the variant splits the pot Hi/Lo (§4.3).
func (v Variant) HasLow() bool {
	return v == OmahaHiLo || v == SevenStudHiLo
}

// OmahaConstrained reports whether the variant must use exactly 2 of the
// player's hole cards and exactly 3 of the board (§4.2).
func (v Variant) OmahaConstrained() bool {
	return v == Omaha || v == OmahaHiLo
}

// HoleCardCount is the number of hole cards dealt per player at the start of
// a hand for this variant (used by pkg/engine when dealing).
func (v Variant) HoleCardCount() int {
	switch v {
	case Omaha, OmahaHiLo:
		return 4
	case SevenStud, SevenStudHiLo:
		return 7 // 3 down + 4 up, dealt across the stud streets
	case FiveStud:
		return 5
	default:
		return 2
	}
}

func (v Variant) String() string {
	switch v {
	case Holdem:
		return "holdem"
	case Omaha:
		return "omaha"
	case OmahaHiLo:
		return "omaha-hi-lo"
	case SevenStud:
		return "7-stud"
	case SevenStudHiLo:
		return "7-stud-hi-lo"
	case FiveStud:
		return "5-stud"
	default:
		return "unknown"
	}
}
