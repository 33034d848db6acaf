package domain

import (
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// TreeSide keeps the side in a balanced ordered map (a red-black tree)
// keyed by price, so every patch in a batch is an O(log n) point operation
// instead of a full merge pass. Updating a present price replaces the
// stored value in place rather than removing and reinserting the node.
type TreeSide struct {
	side   Side
	levels *treemap.Map
}

func NewTreeSide(side Side) *TreeSide {
	return &TreeSide{
		side:   side,
		levels: treemap.NewWith(rankComparator(side)),
	}
}

// rankComparator orders keys by the side's rank, so in-order iteration
// always starts at the best price.
func rankComparator(side Side) utils.Comparator {
	return func(a, b interface{}) int {
		pa := a.(float64)
		pb := b.(float64)
		switch {
		case pa == pb:
			return 0
		case side.RanksBefore(pa, pb):
			return -1
		}
		return 1
	}
}

func (s *TreeSide) Kind() Side {
	return s.side
}

func (s *TreeSide) Len() int {
	return s.levels.Size()
}

func (s *TreeSide) LoadSnapshot(levels []PriceLevel) {
	s.levels.Clear()
	// Put replaces on key match, so a duplicated price naturally keeps the
	// last listed size
	for _, level := range levels {
		if level.Size > 0 {
			s.levels.Put(level.Price, level.Size)
		}
	}
}

// ApplyUpdates applies the batch one level at a time: a zero size removes
// the price if present (absence is a no-op, not an error), a positive size
// replaces or inserts. Point updates do not depend on batch order, but the
// sortedness check is kept anyway so both side implementations accept
// exactly the same batches.
func (s *TreeSide) ApplyUpdates(updates []PriceLevel) error {
	if err := checkRankSorted(s.side, updates); err != nil {
		return err
	}
	for _, update := range updates {
		if update.Size == 0 {
			s.levels.Remove(update.Price)
			continue
		}
		s.levels.Put(update.Price, update.Size)
	}
	return nil
}

func (s *TreeSide) Depth(limit int) []PriceLevel {
	n := s.levels.Size()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]PriceLevel, 0, n)
	it := s.levels.Iterator()
	for len(out) < n && it.Next() {
		out = append(out, PriceLevel{
			Price: it.Key().(float64),
			Size:  it.Value().(float64),
		})
	}
	return out
}
