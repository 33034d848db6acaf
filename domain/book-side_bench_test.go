package domain

import (
	"math/rand"
	"testing"
)

func benchmarkApplyUpdates(b *testing.B, strategy SideStrategy) {
	rng := rand.New(rand.NewSource(1))
	side, err := NewBookSide(strategy, Side_Ask)
	if err != nil {
		b.Fatal(err)
	}
	side.LoadSnapshot(randomLevels(rng, 500, 2000))

	batches := make([][]PriceLevel, 256)
	for i := range batches {
		batches[i] = randomBatch(rng, Side_Ask, 10, 2000)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := side.ApplyUpdates(batches[i%len(batches)]); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkArrayMergeSide_ApplyUpdates(b *testing.B) {
	benchmarkApplyUpdates(b, SideStrategy_ArrayMerge)
}

func BenchmarkTreeSide_ApplyUpdates(b *testing.B) {
	benchmarkApplyUpdates(b, SideStrategy_Tree)
}

func benchmarkDepth(b *testing.B, strategy SideStrategy) {
	rng := rand.New(rand.NewSource(1))
	side, err := NewBookSide(strategy, Side_Bid)
	if err != nil {
		b.Fatal(err)
	}
	side.LoadSnapshot(randomLevels(rng, 500, 2000))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if depth := side.Depth(20); len(depth) == 0 {
			b.Fatal("empty depth")
		}
	}
}

func BenchmarkArrayMergeSide_Depth(b *testing.B) {
	benchmarkDepth(b, SideStrategy_ArrayMerge)
}

func BenchmarkTreeSide_Depth(b *testing.B) {
	benchmarkDepth(b, SideStrategy_Tree)
}
