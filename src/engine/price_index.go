package engine

import (
	"github.com/google/btree"
)

const priceTreeDegree = 32

// PriceIndex keeps one side's price levels sorted best-first. Both sides
// share the implementation; the side only selects the comparator (bids
// descending, asks ascending), so Min() is always the best level.
type PriceIndex struct {
	less btree.LessFunc[*PriceLevelQueue]
	tree *btree.BTreeG[*PriceLevelQueue]

	// cached extreme, invalidated on insert/remove of a better price
	best *PriceLevelQueue
}

func NewPriceIndex(side Side) *PriceIndex {
	var less btree.LessFunc[*PriceLevelQueue]
	if side == SideBuy {
		less = func(a, b *PriceLevelQueue) bool { return a.Price > b.Price }
	} else {
		less = func(a, b *PriceLevelQueue) bool { return a.Price < b.Price }
	}
	return &PriceIndex{
		less: less,
		tree: btree.NewG(priceTreeDegree, less),
	}
}

// GetOrCreate returns the level at price, inserting an empty one if absent.
func (pi *PriceIndex) GetOrCreate(price int64) *PriceLevelQueue {
	probe := &PriceLevelQueue{Price: price}
	if lvl, ok := pi.tree.Get(probe); ok {
		return lvl
	}
	lvl := NewPriceLevelQueue(price)
	pi.tree.ReplaceOrInsert(lvl)
	if pi.best != nil && pi.less(lvl, pi.best) {
		pi.best = lvl
	}
	return lvl
}

// Level returns the existing level at price, or nil.
func (pi *PriceIndex) Level(price int64) *PriceLevelQueue {
	if lvl, ok := pi.tree.Get(&PriceLevelQueue{Price: price}); ok {
		return lvl
	}
	return nil
}

// Best returns the extreme level (highest bid / lowest ask), or nil when
// the side is empty. The result is cached until an insert or removal
// touches the extreme.
func (pi *PriceIndex) Best() *PriceLevelQueue {
	if pi.best != nil {
		return pi.best
	}
	if lvl, ok := pi.tree.Min(); ok {
		pi.best = lvl
		return lvl
	}
	return nil
}

// RemoveLevel drops the level at price, invalidating the best cache when
// the extreme goes away.
func (pi *PriceIndex) RemoveLevel(price int64) {
	pi.tree.Delete(&PriceLevelQueue{Price: price})
	if pi.best != nil && pi.best.Price == price {
		pi.best = nil
	}
}

func (pi *PriceIndex) Len() int {
	return pi.tree.Len()
}

// Ascend walks levels best-first; fn returning false stops the walk.
func (pi *PriceIndex) Ascend(fn func(lvl *PriceLevelQueue) bool) {
	pi.tree.Ascend(fn)
}
