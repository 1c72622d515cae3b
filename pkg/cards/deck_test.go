package cards

import "testing"

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := NewDeck(NewDeterministicSource(42))
	if d.Remaining() != 52 {
		t.Fatalf("expected 52 remaining, got %d", d.Remaining())
	}
	seen := make(map[Card]bool)
	for _, c := range d.SnapshotRemaining() {
		if seen[c] {
			t.Errorf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Errorf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestShuffleDeterministicForSameSeed(t *testing.T) {
	d1 := NewDeck(NewDeterministicSource(42))
	d2 := NewDeck(NewDeterministicSource(42))
	if d1.SnapshotRemaining()[0] != d2.SnapshotRemaining()[0] {
		t.Fatalf("same seed should produce same order")
	}

	d3 := NewDeck(NewDeterministicSource(43))
	same := true
	r1, r3 := d1.SnapshotRemaining(), d3.SnapshotRemaining()
	for i := range r1 {
		if r1[i] != r3[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("different seeds should (almost certainly) produce different orders")
	}
}

func TestDrawNAdvancesCursor(t *testing.T) {
	d := NewDeck(NewDeterministicSource(1))
	hole, err := d.DrawN(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hole) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(hole))
	}
	if d.Remaining() != 50 {
		t.Errorf("expected 50 remaining, got %d", d.Remaining())
	}

	rest, err := d.DrawN(50)
	if err != nil {
		t.Fatalf("unexpected error draining deck: %v", err)
	}
	if len(rest) != 50 {
		t.Errorf("expected 50 cards, got %d", len(rest))
	}

	if _, err := d.DrawN(1); err == nil {
		t.Error("expected error drawing from exhausted deck")
	}
}

func TestSnapshotRemainingDoesNotMutateCursor(t *testing.T) {
	d := NewDeck(NewDeterministicSource(7))
	_, _ = d.DrawN(5)
	before := d.Remaining()
	snap := d.SnapshotRemaining()
	if len(snap) != before {
		t.Fatalf("expected snapshot length %d, got %d", before, len(snap))
	}
	if d.Remaining() != before {
		t.Errorf("SnapshotRemaining must not mutate the cursor")
	}
}

func TestDeckStateRoundTrip(t *testing.T) {
	d := NewDeck(NewDeterministicSource(99))
	_, _ = d.DrawN(7)
	state := d.GetState()

	restored, err := RestoreDeck(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Remaining() != d.Remaining() {
		t.Errorf("remaining mismatch: expected %d, got %d", d.Remaining(), restored.Remaining())
	}
	origRest := d.SnapshotRemaining()
	restRest := restored.SnapshotRemaining()
	for i := range origRest {
		if origRest[i] != restRest[i] {
			t.Errorf("card %d mismatch after restore: %v != %v", i, origRest[i], restRest[i])
		}
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	c := Card{Suit: Spades, Rank: Ace}
	data, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	var out Card
	if err := out.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if out != c {
		t.Errorf("round trip mismatch: expected %v, got %v", c, out)
	}
}
