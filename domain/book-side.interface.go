package domain

import (
	"errors"
	"fmt"
)

// Reported when an update batch is not strictly sorted toward the best price.
var ErrUnsortedBatch = errors.New("update batch is not sorted by rank")

// SideStrategy selects the data structure the book sides are built on.
type SideStrategy string

const (
	SideStrategy_ArrayMerge SideStrategy = "array"
	SideStrategy_Tree       SideStrategy = "tree"
)

// BookSide is one half of an order book: a set of price levels keyed by
// price and ordered by rank, best first. After any successful call prices
// are strictly monotonic in rank order and every stored size is positive.
// A failed ApplyUpdates must leave the side exactly as it was.
//
// Implementations are not safe for concurrent use on their own; the owning
// OrderBookState serializes access.
type BookSide interface {
	Kind() Side

	// LoadSnapshot discards the current contents and replaces them with the
	// given levels. Zero sizes are dropped and a price listed twice keeps
	// its last listed size.
	LoadSnapshot(levels []PriceLevel)

	// ApplyUpdates folds a strictly rank-sorted batch into the side. A zero
	// size deletes the price (absent is a no-op), a positive size inserts
	// or replaces. An unsorted batch is rejected with ErrUnsortedBatch
	// before anything is touched.
	ApplyUpdates(updates []PriceLevel) error

	// Depth returns a copy of the best levels, at most limit entries.
	// A non-positive limit returns the whole side.
	Depth(limit int) []PriceLevel

	Len() int
}

func NewBookSide(strategy SideStrategy, side Side) (BookSide, error) {
	switch strategy {
	case SideStrategy_ArrayMerge:
		return NewArrayMergeSide(side), nil
	case SideStrategy_Tree:
		return NewTreeSide(side), nil
	}
	return nil, fmt.Errorf("unknown side strategy %q", strategy)
}

// checkRankSorted verifies that every price in the batch ranks strictly
// before the next one. Strictness also rejects a batch naming the same
// price twice, whose outcome would depend on apply order.
func checkRankSorted(side Side, updates []PriceLevel) error {
	for i := 1; i < len(updates); i++ {
		if !side.RanksBefore(updates[i-1].Price, updates[i].Price) {
			return fmt.Errorf("%w: %s prices %v and %v out of order",
				ErrUnsortedBatch, side, updates[i-1].Price, updates[i].Price)
		}
	}
	return nil
}
