package domain

import (
	"errors"
	"fmt"
	"sync"
)

// Reported when a delta or a depth query arrives before the first snapshot.
var ErrNotSynchronized = errors.New("order book is not synchronized")

// DepthSnapshot is the copied, depth-limited view of one instrument's book
// handed to consumers. It never aliases live side storage, so the caller
// may keep or mutate it freely.
type DepthSnapshot struct {
	InstrumentID string       `json:"instrumentId"`
	Bids         []PriceLevel `json:"bids"`
	Asks         []PriceLevel `json:"asks"`
}

// OrderBookState pairs the two sides of one instrument's book and guards
// them with a single lock: applies take the write lock, depth reads take
// the read lock and copy out. A reader can therefore never observe a book
// with only one side of an event applied.
//
// A freshly created state is empty and unsynchronized; it starts accepting
// deltas and depth queries only after its first snapshot.
type OrderBookState struct {
	InstrumentID string

	bids BookSide
	asks BookSide

	synchronized bool
	mu           sync.RWMutex
}

func NewOrderBookState(instrumentID string, strategy SideStrategy) (*OrderBookState, error) {
	bids, err := NewBookSide(strategy, Side_Bid)
	if err != nil {
		return nil, err
	}
	asks, err := NewBookSide(strategy, Side_Ask)
	if err != nil {
		return nil, err
	}
	return &OrderBookState{
		InstrumentID: instrumentID,
		bids:         bids,
		asks:         asks,
	}, nil
}

// ApplySnapshot replaces both sides wholesale and marks the book
// synchronized. A snapshot is legal in any state: reapplying an identical
// one is idempotent and a later one acts as a full resync.
func (b *OrderBookState) ApplySnapshot(bids, asks []PriceLevel) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bids.LoadSnapshot(bids)
	b.asks.LoadSnapshot(asks)
	b.synchronized = true
}

// ApplyDelta folds one delta event into the book. Both batches are checked
// before either side is touched, so a rejected delta leaves the whole book
// in its last known good state, not just the side that failed.
func (b *OrderBookState) ApplyDelta(bids, asks []PriceLevel) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.synchronized {
		return fmt.Errorf("%w: %s has no snapshot yet", ErrNotSynchronized, b.InstrumentID)
	}
	if err := checkRankSorted(Side_Bid, bids); err != nil {
		return err
	}
	if err := checkRankSorted(Side_Ask, asks); err != nil {
		return err
	}

	// both batches are pre-checked, the sides cannot fail past this point
	if err := b.bids.ApplyUpdates(bids); err != nil {
		return err
	}
	return b.asks.ApplyUpdates(asks)
}

// Depth returns a copied best-first view of both sides, at most limit
// levels each. A non-positive limit returns the full book.
func (b *OrderBookState) Depth(limit int) (*DepthSnapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.synchronized {
		return nil, fmt.Errorf("%w: %s has no snapshot yet", ErrNotSynchronized, b.InstrumentID)
	}
	return &DepthSnapshot{
		InstrumentID: b.InstrumentID,
		Bids:         b.bids.Depth(limit),
		Asks:         b.asks.Depth(limit),
	}, nil
}

// Synchronized reports whether the book has seen at least one snapshot.
func (b *OrderBookState) Synchronized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.synchronized
}

func (b *OrderBookState) usage() (bidLevels, askLevels int, synchronized bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bids.Len(), b.asks.Len(), b.synchronized
}
