package engine

import (
	"fmt"
	"testing"
)

func BenchmarkSubmitResting(b *testing.B) {
	book := NewBook("BENCH")

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		price := int64(10000 + i%100)
		if _, err := book.Submit(NewOrder(fmt.Sprintf("o%d", i), SideBuy, TypeLimit, price, 10)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSubmitMatching(b *testing.B) {
	book := NewBook("BENCH")

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		side := SideBuy
		if i%2 == 1 {
			side = SideSell
		}
		if _, err := book.Submit(NewOrder(fmt.Sprintf("o%d", i), side, TypeLimit, 10000, 10)); err != nil {
			b.Fatal(err)
		}
	}
}

// Cancellation cost must not depend on book depth: the id index resolves
// the node directly and unlinking is pointer surgery.
func BenchmarkCancelDeepBook(b *testing.B) {
	for _, depth := range []int{1_000, 100_000} {
		b.Run(fmt.Sprintf("depth-%d", depth), func(b *testing.B) {
			book := NewBook("BENCH")
			for i := 0; i < depth; i++ {
				// spread across levels and queue positions
				price := int64(10000 + i%500)
				if _, err := book.Submit(NewOrder(fmt.Sprintf("seed%d", i), SideBuy, TypeLimit, price, 10)); err != nil {
					b.Fatal(err)
				}
			}

			ids := make([]string, b.N)
			for i := 0; i < b.N; i++ {
				ids[i] = fmt.Sprintf("c%d", i)
				if _, err := book.Submit(NewOrder(ids[i], SideBuy, TypeLimit, int64(10000+i%500), 10)); err != nil {
					b.Fatal(err)
				}
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := book.Cancel(ids[i]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
