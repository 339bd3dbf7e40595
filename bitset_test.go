package archecs

import "testing"

func TestBitset256SetHasUnset(t *testing.T) {
	var b bitset256
	b.set(3)
	b.set(130)
	if !b.has(3) || !b.has(130) {
		t.Fatalf("expected bits 3 and 130 to be set: %+v", b)
	}
	if b.has(4) {
		t.Fatalf("did not expect bit 4 to be set")
	}
	b.unset(3)
	if b.has(3) {
		t.Fatalf("expected bit 3 to be unset")
	}
}

func TestBitset256ContainsAndCount(t *testing.T) {
	full := bitsetWith(1, 2, 5)
	sub := bitsetWith(1, 5)
	if !full.contains(sub) {
		t.Fatalf("expected %+v to contain %+v", full, sub)
	}
	if sub.contains(full) {
		t.Fatalf("did not expect %+v to contain %+v", sub, full)
	}
	if full.count() != 3 {
		t.Fatalf("expected count 3, got %d", full.count())
	}
}

func TestBitset256OrAndAndNot(t *testing.T) {
	a := bitsetWith(1, 2)
	b := bitsetWith(2, 3)
	or := a.or(b)
	if !or.has(1) || !or.has(2) || !or.has(3) {
		t.Fatalf("expected union of bits 1,2,3: %+v", or)
	}
	andNot := or.andNot(b)
	if !andNot.has(1) || andNot.has(2) || andNot.has(3) {
		t.Fatalf("unexpected andNot result: %+v", andNot)
	}
}

func TestBitset256Ids(t *testing.T) {
	b := bitsetWith(200, 1, 64)
	ids := b.ids()
	want := []uint16{1, 64, 200}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d (%v)", len(want), len(ids), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
	}
}
