package gs

import "testing"

// tileCost's cost is 8x8 coarse tiles times the primitive count
// (spec.md §6); these cases walk each of its four threshold bands.
func TestTileCostThresholds(t *testing.T) {
	cases := []struct {
		numPrimitives int
		want          int
	}{
		{1, 3},       // cost = 64
		{150, 3},     // cost = 9,600 < 10,000
		{160, 4},     // cost = 10,240 >= 10,000
		{150000, 4},  // cost = 9,600,000 < 10,000,000
		{200000, 5},  // cost = 12,800,000, in [1e7, 1e8)
		{2000000, 6}, // cost = 128,000,000 >= 1e8
	}
	for _, c := range cases {
		if got := tileCost(c.numPrimitives, false); got != c.want {
			t.Errorf("tileCost(%d, false) = %d, want %d", c.numPrimitives, got, c.want)
		}
	}
}

func TestTileCostVerticalBiasSubtractsOne(t *testing.T) {
	const numPrimitives = 200000 // unbiased log2 is 5
	unbiased := tileCost(numPrimitives, false)
	biased := tileCost(numPrimitives, true)
	if unbiased != 5 {
		t.Fatalf("unbiased tileCost = %d, want 5", unbiased)
	}
	if biased != unbiased-1 {
		t.Fatalf("biased tileCost = %d, want %d (unbiased minus one)", biased, unbiased-1)
	}
}

func TestTileCostNeverBiasesBelowFloor(t *testing.T) {
	if got := tileCost(1, true); got != 3 {
		t.Fatalf("tileCost(1, true) = %d, want 3 (no subtraction once at the floor)", got)
	}
}
