package proptest

import "testing"

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("generators with the same seed diverged")
		}
	}
}

func TestIntRangeBounds(t *testing.T) {
	g := New(1)
	for i := 0; i < 1000; i++ {
		n := g.IntRange(3, 7)
		if n < 3 || n > 7 {
			t.Fatalf("IntRange(3, 7) = %d, out of bounds", n)
		}
	}
}

func TestIdentifierShape(t *testing.T) {
	g := New(7)
	for i := 0; i < 500; i++ {
		id := g.Identifier(12)
		if len(id) == 0 || len(id) > 12 {
			t.Fatalf("Identifier(12) = %q, bad length", id)
		}
		if id[0] >= '0' && id[0] <= '9' {
			t.Fatalf("Identifier(12) = %q, starts with digit", id)
		}
	}
}

func TestUniqueIdentifiers(t *testing.T) {
	g := New(9)
	ids := g.UniqueIdentifiers(20, 10)
	if len(ids) != 20 {
		t.Fatalf("got %d identifiers, want 20", len(ids))
	}
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate identifier %q", id)
		}
		seen[id] = true
	}
}

func TestSampleIsWithoutReplacement(t *testing.T) {
	g := New(3)
	src := []int{1, 2, 3, 4, 5, 6, 7, 8}
	for i := 0; i < 100; i++ {
		out := Sample(g, src, 4)
		seen := make(map[int]bool)
		for _, v := range out {
			if seen[v] {
				t.Fatalf("Sample returned duplicate %d in %v", v, out)
			}
			seen[v] = true
		}
	}
}

func TestQuickCheckPasses(t *testing.T) {
	QuickCheck(t, "intn stays in range", func(g *Generator) bool {
		n := g.Intn(10)
		return n >= 0 && n < 10
	})
}
