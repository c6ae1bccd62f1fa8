// Package proptest provides property-based testing utilities with seeded
// random generation for reproducible tests.
//
// Property-based testing generates random inputs and verifies that certain
// invariants (properties) always hold. When a test fails, the seed is logged
// so the failure can be reproduced.
//
// Basic usage:
//
//	func TestMyProperty(t *testing.T) {
//	    proptest.QuickCheck(t, "my property", func(g *proptest.Generator) bool {
//	        n := g.IntRange(1, 100)
//	        return n >= 1 && n <= 100
//	    })
//	}
package proptest

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// DefaultIterations is how many random inputs QuickCheck tries per property.
const DefaultIterations = 100

// Generator wraps a seeded random number generator for reproducible
// random value generation. The seed is stored so it can be logged
// on test failure for reproducibility.
type Generator struct {
	rng  *rand.Rand
	seed int64
}

// New creates a new Generator with the given seed.
// If seed is 0, uses the current time as the seed.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed used by this generator.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Intn returns a random int in [0, n). Panics if n <= 0.
func (g *Generator) Intn(n int) int {
	return g.rng.Intn(n)
}

// IntRange returns a random int in [min, max]. Panics if min > max.
func (g *Generator) IntRange(min, max int) int {
	if min > max {
		panic("proptest: IntRange min > max")
	}
	return min + g.rng.Intn(max-min+1)
}

// Int63 returns a random non-negative int64.
func (g *Generator) Int63() int64 {
	return g.rng.Int63()
}

// Float64 returns a random float64 in [0.0, 1.0).
func (g *Generator) Float64() float64 {
	return g.rng.Float64()
}

// Bool returns a random boolean with 50% probability for each value.
func (g *Generator) Bool() bool {
	return g.rng.Intn(2) == 1
}

const identifierFirst = "abcdefghijklmnopqrstuvwxyz"
const identifierRest = identifierFirst + "0123456789_"
const printable = identifierRest + "ABCDEFGHIJKLMNOPQRSTUVWXYZ .,;-'"

// String returns a random string of printable characters with length in
// [0, maxLen].
func (g *Generator) String(maxLen int) string {
	n := g.Intn(maxLen + 1)
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = printable[g.Intn(len(printable))]
	}
	return string(buf)
}

// Identifier returns a random lowercase identifier (letter first, then
// letters, digits, underscores) with length in [1, maxLen].
func (g *Generator) Identifier(maxLen int) string {
	if maxLen < 1 {
		maxLen = 1
	}
	n := g.IntRange(1, maxLen)
	buf := make([]byte, n)
	buf[0] = identifierFirst[g.Intn(len(identifierFirst))]
	for i := 1; i < n; i++ {
		buf[i] = identifierRest[g.Intn(len(identifierRest))]
	}
	return string(buf)
}

// UniqueIdentifiers returns n distinct random identifiers.
func (g *Generator) UniqueIdentifiers(n, maxLen int) []string {
	seen := make(map[string]bool, n)
	result := make([]string, 0, n)
	for len(result) < n {
		s := g.Identifier(maxLen)
		if seen[s] {
			continue
		}
		seen[s] = true
		result = append(result, s)
	}
	return result
}

// QuickCheck runs property for DefaultIterations random inputs, each with a
// fresh seeded Generator. On failure the seed is reported so the exact run
// can be replayed by setting PROPTEST_SEED.
func QuickCheck(t *testing.T, name string, property func(*Generator) bool) {
	t.Helper()

	if seedEnv := os.Getenv("PROPTEST_SEED"); seedEnv != "" {
		seed, err := strconv.ParseInt(seedEnv, 10, 64)
		if err != nil {
			t.Fatalf("invalid PROPTEST_SEED %q: %v", seedEnv, err)
		}
		g := New(seed)
		if !property(g) {
			t.Fatalf("property %q failed with seed %d", name, g.Seed())
		}
		return
	}

	for i := 0; i < DefaultIterations; i++ {
		g := New(0)
		if !property(g) {
			t.Fatalf("property %q failed with seed %d (set PROPTEST_SEED=%d to replay)",
				name, g.Seed(), g.Seed())
		}
	}
}
