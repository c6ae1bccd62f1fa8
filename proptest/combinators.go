package proptest

// OneOf returns a random element from the provided values.
// Panics if values is empty.
func OneOf[T any](g *Generator, values ...T) T {
	if len(values) == 0 {
		panic("proptest: OneOf called with no values")
	}
	return values[g.Intn(len(values))]
}

// Pick returns a random element from a non-empty slice.
// Panics if slice is empty.
func Pick[T any](g *Generator, slice []T) T {
	if len(slice) == 0 {
		panic("proptest: Pick called with empty slice")
	}
	return slice[g.Intn(len(slice))]
}

// Sample returns n unique elements from slice (without replacement).
// Panics if n > len(slice) or slice is empty.
func Sample[T any](g *Generator, slice []T, n int) []T {
	if n > len(slice) {
		panic("proptest: Sample n > len(slice)")
	}
	if len(slice) == 0 {
		panic("proptest: Sample called with empty slice")
	}

	indices := make([]int, len(slice))
	for i := range indices {
		indices[i] = i
	}

	result := make([]T, n)
	for i := 0; i < n; i++ {
		j := i + g.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
		result[i] = slice[indices[i]]
	}
	return result
}

// Shuffle returns a shuffled copy of the slice.
func Shuffle[T any](g *Generator, slice []T) []T {
	result := make([]T, len(slice))
	copy(result, slice)
	g.rng.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})
	return result
}

// SliceExact generates a slice of exactly the given length.
func SliceExact[T any](g *Generator, length int, gen func(*Generator) T) []T {
	result := make([]T, length)
	for i := 0; i < length; i++ {
		result[i] = gen(g)
	}
	return result
}
