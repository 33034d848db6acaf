package domain

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gammazero/deque"
)

var logger = log.New(os.Stdout, "[orderbook-maintainer] ", log.LstdFlags)

type FeedEventKind string

const (
	FeedEvent_Snapshot FeedEventKind = "snapshot"
	FeedEvent_Delta    FeedEventKind = "delta"
)

// FeedEvent is one well-formed message from the external feed collaborator:
// a full snapshot or an incremental delta for a single instrument. Both
// lists are raw [price, size] pairs sorted toward the best price.
type FeedEvent struct {
	Kind         FeedEventKind
	InstrumentID string
	Bids         [][]string
	Asks         [][]string
}

// MaintainerOption configures an OrderbookMaintainer under construction.
type MaintainerOption func(*OrderbookMaintainer)

// WithUsageInterval sets how often the maintainer pushes a usage snapshot
// to the store's instrumentation sink. An interval of zero disables usage
// reporting.
func WithUsageInterval(interval time.Duration) MaintainerOption {
	return func(m *OrderbookMaintainer) { m.usageInterval = interval }
}

// A manager that is responsible for keeping the store's books current. It
// owns one pending queue and one drain goroutine per instrument, so events
// for an instrument are applied strictly in arrival order while different
// instruments make progress in parallel. Enqueueing never blocks on an
// apply in flight.
type OrderbookMaintainer struct {
	store  *OrderBookStore
	queues map[string]*eventQueue

	usageInterval time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

type eventQueue struct {
	mu       sync.Mutex
	pending  deque.Deque[FeedEvent]
	failures int

	// buffered wake-up signal for the drain goroutine, never blocks a push
	wake chan struct{}
}

func NewOrderbookMaintainer(store *OrderBookStore, opts ...MaintainerOption) *OrderbookMaintainer {
	m := &OrderbookMaintainer{
		store:         store,
		queues:        make(map[string]*eventQueue),
		usageInterval: 15 * time.Second,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, id := range store.Instruments() {
		queue := &eventQueue{wake: make(chan struct{}, 1)}
		m.queues[id] = queue

		m.wg.Add(1)
		go m.drain(queue)
	}

	if m.usageInterval > 0 {
		m.wg.Add(1)
		go m.reportUsage()
	}
	return m
}

// Enqueue hands one feed event to its instrument's queue and returns
// immediately; the queue grows as needed, so a slow instrument can never
// stall the caller. Events for unregistered instruments are refused.
func (m *OrderbookMaintainer) Enqueue(event FeedEvent) error {
	queue, ok := m.queues[event.InstrumentID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstrument, event.InstrumentID)
	}

	queue.mu.Lock()
	queue.pending.PushBack(event)
	queue.mu.Unlock()

	select {
	case queue.wake <- struct{}{}:
	default:
	}
	return nil
}

// QueueLen reports how many events are waiting for the instrument.
func (m *OrderbookMaintainer) QueueLen(instrumentID string) int {
	queue, ok := m.queues[instrumentID]
	if !ok {
		return 0
	}
	queue.mu.Lock()
	defer queue.mu.Unlock()
	return queue.pending.Len()
}

// Failures reports how many of the instrument's events were rejected by the
// store so far.
func (m *OrderbookMaintainer) Failures(instrumentID string) int {
	queue, ok := m.queues[instrumentID]
	if !ok {
		return 0
	}
	queue.mu.Lock()
	defer queue.mu.Unlock()
	return queue.failures
}

// Stop shuts the maintainer down and waits for its goroutines to exit.
// Queues that are still busy finish their backlog first; an event enqueued
// concurrently with Stop may go unapplied.
func (m *OrderbookMaintainer) Stop() {
	close(m.done)
	m.wg.Wait()
}

func (m *OrderbookMaintainer) drain(queue *eventQueue) {
	defer m.wg.Done()

	for {
		event, ok := queue.pop()
		if !ok {
			select {
			case <-m.done:
				return
			case <-queue.wake:
				continue
			}
		}
		m.apply(queue, event)
	}
}

func (q *eventQueue) pop() (FeedEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending.Len() == 0 {
		return FeedEvent{}, false
	}
	return q.pending.PopFront(), true
}

// apply routes one event into the store. A rejected event is logged and
// counted but never tears the maintainer down: the book keeps its last good
// state and the next snapshot resynchronizes it.
func (m *OrderbookMaintainer) apply(queue *eventQueue, event FeedEvent) {
	var err error
	switch event.Kind {
	case FeedEvent_Snapshot:
		err = m.store.ApplySnapshot(event.InstrumentID, event.Bids, event.Asks)
	case FeedEvent_Delta:
		err = m.store.ApplyDelta(event.InstrumentID, event.Bids, event.Asks)
	default:
		err = fmt.Errorf("unknown feed event kind %q", event.Kind)
	}

	if err != nil {
		queue.mu.Lock()
		queue.failures++
		queue.mu.Unlock()
		logger.Printf("dropped %s for %s: %s", event.Kind, event.InstrumentID, err)
	}
}

func (m *OrderbookMaintainer) reportUsage() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.usageInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.store.ReportUsage()
		}
	}
}
