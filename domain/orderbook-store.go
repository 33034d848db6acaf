package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Reported when an operation names an instrument that was never registered.
var ErrUnknownInstrument = errors.New("unknown instrument")

// StoreOption configures an OrderBookStore under construction.
type StoreOption func(*OrderBookStore)

// WithSideStrategy picks the side data structure for every book in the
// store. The default is the array merge strategy.
func WithSideStrategy(strategy SideStrategy) StoreOption {
	return func(s *OrderBookStore) { s.strategy = strategy }
}

// WithInstrumentation installs the sink that receives per-operation latency
// samples and usage reports. The default sink discards everything.
func WithInstrumentation(instrumentation Instrumentation) StoreOption {
	return func(s *OrderBookStore) { s.instrumentation = instrumentation }
}

// OrderBookStore maps instrument identifiers to their book state. The
// instrument set is fixed at construction: every book starts empty and
// unsynchronized, and books are never added or removed afterwards. Because
// the map never changes, lookups need no lock; all mutation happens inside
// the per-book state under its own lock, so distinct instruments can be
// updated concurrently.
type OrderBookStore struct {
	books           map[string]*OrderBookState
	strategy        SideStrategy
	instrumentation Instrumentation
}

// NewOrderBookStore registers one empty book per instrument. Duplicate
// identifiers are collapsed into a single book.
func NewOrderBookStore(instrumentIDs []string, opts ...StoreOption) (*OrderBookStore, error) {
	store := &OrderBookStore{
		books:           make(map[string]*OrderBookState, len(instrumentIDs)),
		strategy:        SideStrategy_ArrayMerge,
		instrumentation: NopInstrumentation{},
	}
	for _, opt := range opts {
		opt(store)
	}
	for _, id := range instrumentIDs {
		if _, ok := store.books[id]; ok {
			continue
		}
		book, err := NewOrderBookState(id, store.strategy)
		if err != nil {
			return nil, err
		}
		store.books[id] = book
	}
	return store, nil
}

// ApplySnapshot parses the raw bid and ask pairs and replaces the
// instrument's book wholesale, marking it synchronized. Nothing is applied
// if any pair is malformed.
func (s *OrderBookStore) ApplySnapshot(instrumentID string, bidsRaw, asksRaw [][]string) error {
	started := time.Now()
	err := s.applySnapshot(instrumentID, bidsRaw, asksRaw)
	s.observe(Operation_ApplySnapshot, instrumentID, started, err)
	return err
}

func (s *OrderBookStore) applySnapshot(instrumentID string, bidsRaw, asksRaw [][]string) error {
	book, err := s.get(instrumentID)
	if err != nil {
		return err
	}
	bids, asks, err := parseSides(bidsRaw, asksRaw)
	if err != nil {
		return err
	}
	book.ApplySnapshot(bids, asks)
	return nil
}

// ApplyDelta parses the raw pairs and folds them into the instrument's
// book. The whole event is applied or none of it: a malformed pair, an
// unsorted batch or an unsynchronized book all leave the book untouched.
func (s *OrderBookStore) ApplyDelta(instrumentID string, bidsRaw, asksRaw [][]string) error {
	started := time.Now()
	err := s.applyDelta(instrumentID, bidsRaw, asksRaw)
	s.observe(Operation_ApplyDelta, instrumentID, started, err)
	return err
}

func (s *OrderBookStore) applyDelta(instrumentID string, bidsRaw, asksRaw [][]string) error {
	book, err := s.get(instrumentID)
	if err != nil {
		return err
	}
	bids, asks, err := parseSides(bidsRaw, asksRaw)
	if err != nil {
		return err
	}
	return book.ApplyDelta(bids, asks)
}

// QueryDepth returns a copy of the best limit levels of each side of the
// instrument's book. A non-positive limit returns the full book.
func (s *OrderBookStore) QueryDepth(instrumentID string, limit int) (*DepthSnapshot, error) {
	started := time.Now()
	snapshot, err := s.queryDepth(instrumentID, limit)
	s.observe(Operation_QueryDepth, instrumentID, started, err)
	return snapshot, err
}

func (s *OrderBookStore) queryDepth(instrumentID string, limit int) (*DepthSnapshot, error) {
	book, err := s.get(instrumentID)
	if err != nil {
		return nil, err
	}
	return book.Depth(limit)
}

// Synchronized reports whether the instrument's book has seen a snapshot.
func (s *OrderBookStore) Synchronized(instrumentID string) (bool, error) {
	book, err := s.get(instrumentID)
	if err != nil {
		return false, err
	}
	return book.Synchronized(), nil
}

// Instruments returns the registered instrument identifiers, sorted.
func (s *OrderBookStore) Instruments() []string {
	ids := make([]string, 0, len(s.books))
	for id := range s.books {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Usage walks every book and totals what the store is holding right now.
func (s *OrderBookStore) Usage() Usage {
	usage := Usage{Instruments: len(s.books)}
	for _, book := range s.books {
		bidLevels, askLevels, synchronized := book.usage()
		usage.BidLevels += bidLevels
		usage.AskLevels += askLevels
		if synchronized {
			usage.Synchronized++
		}
	}
	return usage
}

// ReportUsage pushes a usage snapshot to the instrumentation sink.
func (s *OrderBookStore) ReportUsage() {
	s.instrumentation.ObserveUsage(s.Usage())
}

func (s *OrderBookStore) get(instrumentID string) (*OrderBookState, error) {
	book, ok := s.books[instrumentID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstrument, instrumentID)
	}
	return book, nil
}

func (s *OrderBookStore) observe(op Operation, instrumentID string, started time.Time, err error) {
	s.instrumentation.ObserveOp(OpSample{
		Op:           op,
		InstrumentID: instrumentID,
		Duration:     time.Since(started),
		Failed:       err != nil,
	})
}

func parseSides(bidsRaw, asksRaw [][]string) (bids, asks []PriceLevel, err error) {
	bids, err = ParsePriceLevels(bidsRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("bids: %w", err)
	}
	asks, err = ParsePriceLevels(asksRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("asks: %w", err)
	}
	return bids, asks, nil
}
