package main

import (
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/Abhishekt2307/OrderBookManager/domain"
)

const (
	tick          = 0.5
	snapshotDepth = 25
	resyncEvery   = 200 // rounds between full resync snapshots
)

// syntheticFeed fabricates a plausible depth stream per instrument: a full
// snapshot first, then random-walk deltas around a drifting mid price, with
// an occasional resync snapshot mixed in. Batches always come out sorted
// toward the best price, the way a real feed sends them.
type syntheticFeed struct {
	rng         *rand.Rand
	instruments []string
	mids        map[string]float64
	rounds      map[string]int
}

func newSyntheticFeed(instruments []string) *syntheticFeed {
	feed := &syntheticFeed{
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		instruments: instruments,
		mids:        make(map[string]float64, len(instruments)),
		rounds:      make(map[string]int, len(instruments)),
	}
	for i, id := range instruments {
		feed.mids[id] = 10000 + float64(i)*500
	}
	return feed
}

func (f *syntheticFeed) nextRound() []domain.FeedEvent {
	events := make([]domain.FeedEvent, 0, len(f.instruments))
	for _, id := range f.instruments {
		events = append(events, f.next(id))
	}
	return events
}

func (f *syntheticFeed) next(instrumentID string) domain.FeedEvent {
	round := f.rounds[instrumentID]
	f.rounds[instrumentID]++

	// drift the mid by at most one tick per round
	f.mids[instrumentID] += tick * float64(f.rng.Intn(3)-1)
	mid := f.mids[instrumentID]

	if round%resyncEvery == 0 {
		return domain.FeedEvent{
			Kind:         domain.FeedEvent_Snapshot,
			InstrumentID: instrumentID,
			Bids:         f.ladder(mid-tick, domain.Side_Bid, snapshotDepth),
			Asks:         f.ladder(mid+tick, domain.Side_Ask, snapshotDepth),
		}
	}
	return domain.FeedEvent{
		Kind:         domain.FeedEvent_Delta,
		InstrumentID: instrumentID,
		Bids:         f.patches(mid-tick, domain.Side_Bid),
		Asks:         f.patches(mid+tick, domain.Side_Ask),
	}
}

// ladder emits depth consecutive levels walking away from the best price.
func (f *syntheticFeed) ladder(best float64, side domain.Side, depth int) [][]string {
	away := -tick
	if side == domain.Side_Ask {
		away = tick
	}

	levels := make([][]string, 0, depth)
	for i := 0; i < depth; i++ {
		levels = append(levels, pair(best+float64(i)*away, float64(1+f.rng.Intn(9))))
	}
	return levels
}

// patches emits a small rank-sorted batch of upserts and deletions near the
// top of the side. Deletions may name prices the book no longer holds.
func (f *syntheticFeed) patches(best float64, side domain.Side) [][]string {
	away := -tick
	if side == domain.Side_Ask {
		away = tick
	}

	count := 1 + f.rng.Intn(4)
	offsets := f.rng.Perm(snapshotDepth + 5)[:count]
	sort.Ints(offsets)

	batch := make([][]string, 0, count)
	for _, offset := range offsets {
		size := float64(f.rng.Intn(6)) // zero means delete
		batch = append(batch, pair(best+float64(offset)*away, size))
	}
	return batch
}

func pair(price, size float64) []string {
	return []string{
		strconv.FormatFloat(price, 'f', -1, 64),
		strconv.FormatFloat(size, 'f', -1, 64),
	}
}
