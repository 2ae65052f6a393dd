package engine

import "testing"

func TestPriceIndexBidOrdering(t *testing.T) {
	bids := NewPriceIndex(SideBuy)

	bids.GetOrCreate(10000)
	bids.GetOrCreate(10020)
	bids.GetOrCreate(9990)

	var prices []int64
	bids.Ascend(func(lvl *PriceLevelQueue) bool {
		prices = append(prices, lvl.Price)
		return true
	})

	want := []int64{10020, 10000, 9990}
	for i, p := range want {
		if prices[i] != p {
			t.Fatalf("Expected bid order %v, got: %v", want, prices)
		}
	}

	if best := bids.Best(); best == nil || best.Price != 10020 {
		t.Errorf("Best bid should be 10020, got: %v", best)
	}
}

func TestPriceIndexAskOrdering(t *testing.T) {
	asks := NewPriceIndex(SideSell)

	asks.GetOrCreate(10100)
	asks.GetOrCreate(10050)
	asks.GetOrCreate(10200)

	var prices []int64
	asks.Ascend(func(lvl *PriceLevelQueue) bool {
		prices = append(prices, lvl.Price)
		return true
	})

	want := []int64{10050, 10100, 10200}
	for i, p := range want {
		if prices[i] != p {
			t.Fatalf("Expected ask order %v, got: %v", want, prices)
		}
	}

	if best := asks.Best(); best == nil || best.Price != 10050 {
		t.Errorf("Best ask should be 10050, got: %v", best)
	}
}

func TestPriceIndexGetOrCreateReturnsSameLevel(t *testing.T) {
	asks := NewPriceIndex(SideSell)

	a := asks.GetOrCreate(10050)
	b := asks.GetOrCreate(10050)
	if a != b {
		t.Error("GetOrCreate should return the existing level for the same price")
	}
	if asks.Len() != 1 {
		t.Errorf("Expected a single level, got: %d", asks.Len())
	}
}

func TestPriceIndexBestCacheFollowsMutations(t *testing.T) {
	bids := NewPriceIndex(SideBuy)

	bids.GetOrCreate(10000)
	if best := bids.Best(); best.Price != 10000 {
		t.Fatalf("Best should be 10000, got: %d", best.Price)
	}

	// inserting a better price must displace the cached extreme
	bids.GetOrCreate(10010)
	if best := bids.Best(); best.Price != 10010 {
		t.Errorf("Best should follow new extreme 10010, got: %d", best.Price)
	}

	// inserting a worse price must not
	bids.GetOrCreate(9990)
	if best := bids.Best(); best.Price != 10010 {
		t.Errorf("Best should stay 10010, got: %d", best.Price)
	}

	// removing the extreme invalidates the cache and falls back to the tree
	bids.RemoveLevel(10010)
	if best := bids.Best(); best.Price != 10000 {
		t.Errorf("Best should fall back to 10000, got: %d", best.Price)
	}

	bids.RemoveLevel(10000)
	bids.RemoveLevel(9990)
	if best := bids.Best(); best != nil {
		t.Errorf("Empty side should have no best level, got: %v", best)
	}
}

func TestPriceIndexLevelLookup(t *testing.T) {
	asks := NewPriceIndex(SideSell)
	asks.GetOrCreate(10050)

	if lvl := asks.Level(10050); lvl == nil {
		t.Error("Level should find an existing price")
	}
	if lvl := asks.Level(10060); lvl != nil {
		t.Error("Level should return nil for an absent price")
	}
}
