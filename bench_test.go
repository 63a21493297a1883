package stagez

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// Focused benchmarks for stagez - the adapters and the three composition nodes.

// BenchmarkCoreProcessors measures the adapter functions.
func BenchmarkCoreProcessors(b *testing.B) {
	ctx := context.Background()
	data := 42

	b.Run("Apply/Success", func(b *testing.B) {
		processor := Apply("benchmark", func(_ context.Context, n int) (int, error) {
			return n * 2, nil
		})
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := processor.Process(ctx, data); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Apply/Error", func(b *testing.B) {
		processor := Apply("benchmark", func(_ context.Context, _ int) (int, error) {
			return 0, errors.New("benchmark error")
		})
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = processor.Process(ctx, data) //nolint:errcheck // benchmarking error path performance
		}
	})

	b.Run("Transform", func(b *testing.B) {
		processor := Transform("benchmark", func(_ context.Context, n int) int {
			return n * 2
		})
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := processor.Process(ctx, data); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Identity", func(b *testing.B) {
		processor := Identity[int]("benchmark")
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := processor.Process(ctx, data); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkComposition measures the cost each composition node adds.
func BenchmarkComposition(b *testing.B) {
	ctx := context.Background()
	double := Transform("double", func(_ context.Context, n int) int { return n * 2 })
	negate := Transform("negate", func(_ context.Context, n int) int { return -n })

	b.Run("Then", func(b *testing.B) {
		then := NewThen("bench", double, negate)
		defer then.Close()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := then.Process(ctx, 21); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Zip", func(b *testing.B) {
		zip := NewZip("bench", Constant("three", 3), double, negate)
		defer zip.Close()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := zip.Process(ctx, Unit{}); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Zip/Clone", func(b *testing.B) {
		tags := Transform("tags", func(_ context.Context, r record) int { return len(r.Tags) })
		zip := NewZip("bench", Constant("record", record{Tags: []string{"a", "b", "c"}}), tags, tags)
		defer zip.Close()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := zip.Process(ctx, Unit{}); err != nil {
				b.Fatal(err)
			}
		}
	})

	for _, size := range []int{0, 1, 10} {
		b.Run(fmt.Sprintf("Chain/%d", size), func(b *testing.B) {
			chain := NewChain("bench", double)
			for j := 0; j < size; j++ {
				chain.Append(negate)
			}
			defer chain.Close()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := chain.Process(ctx, 21); err != nil {
					b.Fatal(err)
				}
			}
		})
	}

	b.Run("Each", func(b *testing.B) {
		each := NewEach("bench", double)
		input := []int{1, 2, 3, 4, 5, 6, 7, 8}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := each.Process(ctx, input); err != nil {
				b.Fatal(err)
			}
		}
	})
}
