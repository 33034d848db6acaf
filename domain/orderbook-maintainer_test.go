package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Abhishekt2307/OrderBookManager/domain"
)

func TestOrderbookMaintainer_AppliesEventsInOrder(t *testing.T) {
	store := newTestStore(t)
	maintainer := domain.NewOrderbookMaintainer(store, domain.WithUsageInterval(0))
	defer maintainer.Stop()

	events := []domain.FeedEvent{
		{
			Kind:         domain.FeedEvent_Snapshot,
			InstrumentID: "btc_usdt",
			Bids:         [][]string{{"100", "5"}, {"99", "3"}},
			Asks:         [][]string{{"101", "4"}},
		},
		{
			Kind:         domain.FeedEvent_Delta,
			InstrumentID: "btc_usdt",
			Bids:         [][]string{{"100", "0"}, {"98", "7"}},
		},
		{
			Kind:         domain.FeedEvent_Delta,
			InstrumentID: "btc_usdt",
			Bids:         [][]string{{"98", "1"}},
		},
	}
	for _, event := range events {
		assert.NoError(t, maintainer.Enqueue(event))
	}

	assert.Eventually(t, func() bool {
		snapshot, err := store.QueryDepth("btc_usdt", 0)
		if err != nil {
			return false
		}
		return len(snapshot.Bids) == 2 && snapshot.Bids[1].Size == 1
	}, time.Second, 5*time.Millisecond, "the whole backlog should be applied")

	snapshot, err := store.QueryDepth("btc_usdt", 0)
	assert.NoError(t, err)
	assert.Equal(t, []domain.PriceLevel{{Price: 99, Size: 3}, {Price: 98, Size: 1}}, snapshot.Bids)
	assert.Equal(t, []domain.PriceLevel{{Price: 101, Size: 4}}, snapshot.Asks)
	assert.Equal(t, 0, maintainer.Failures("btc_usdt"))
	assert.Equal(t, 0, maintainer.QueueLen("btc_usdt"))
}

func TestOrderbookMaintainer_RefusesUnknownInstrument(t *testing.T) {
	store := newTestStore(t)
	maintainer := domain.NewOrderbookMaintainer(store, domain.WithUsageInterval(0))
	defer maintainer.Stop()

	err := maintainer.Enqueue(domain.FeedEvent{
		Kind:         domain.FeedEvent_Snapshot,
		InstrumentID: "doge_usdt",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownInstrument)
}

func TestOrderbookMaintainer_CountsRejectedEvents(t *testing.T) {
	store := newTestStore(t)
	maintainer := domain.NewOrderbookMaintainer(store, domain.WithUsageInterval(0))
	defer maintainer.Stop()

	// a delta before any snapshot is refused by the store
	assert.NoError(t, maintainer.Enqueue(domain.FeedEvent{
		Kind:         domain.FeedEvent_Delta,
		InstrumentID: "btc_usdt",
		Bids:         [][]string{{"100", "1"}},
	}))

	assert.Eventually(t, func() bool {
		return maintainer.Failures("btc_usdt") == 1
	}, time.Second, 5*time.Millisecond, "the rejected delta should be counted")

	synchronized, err := store.Synchronized("btc_usdt")
	assert.NoError(t, err)
	assert.False(t, synchronized)

	// the book recovers as soon as a snapshot arrives
	assert.NoError(t, maintainer.Enqueue(domain.FeedEvent{
		Kind:         domain.FeedEvent_Snapshot,
		InstrumentID: "btc_usdt",
		Bids:         [][]string{{"100", "5"}},
	}))

	assert.Eventually(t, func() bool {
		synchronized, err := store.Synchronized("btc_usdt")
		return err == nil && synchronized
	}, time.Second, 5*time.Millisecond)
}

func TestOrderbookMaintainer_InstrumentsProgressIndependently(t *testing.T) {
	store := newTestStore(t)
	maintainer := domain.NewOrderbookMaintainer(store, domain.WithUsageInterval(0))
	defer maintainer.Stop()

	for _, id := range []string{"btc_usdt", "eth_usdt"} {
		assert.NoError(t, maintainer.Enqueue(domain.FeedEvent{
			Kind:         domain.FeedEvent_Snapshot,
			InstrumentID: id,
			Bids:         [][]string{{"100", "5"}},
		}))
		assert.NoError(t, maintainer.Enqueue(domain.FeedEvent{
			Kind:         domain.FeedEvent_Delta,
			InstrumentID: id,
			Bids:         [][]string{{"99", "2"}},
		}))
	}

	for _, id := range []string{"btc_usdt", "eth_usdt"} {
		id := id
		assert.Eventually(t, func() bool {
			snapshot, err := store.QueryDepth(id, 0)
			return err == nil && len(snapshot.Bids) == 2
		}, time.Second, 5*time.Millisecond, "book %s should catch up", id)
	}
}

func TestOrderbookMaintainer_ReportsUsage(t *testing.T) {
	capture := &captureInstrumentation{}
	store := newTestStore(t, domain.WithInstrumentation(capture))
	maintainer := domain.NewOrderbookMaintainer(store, domain.WithUsageInterval(10*time.Millisecond))
	defer maintainer.Stop()

	assert.Eventually(t, func() bool {
		return capture.usageCount() >= 2
	}, time.Second, 5*time.Millisecond, "usage should be reported on every tick")
}
