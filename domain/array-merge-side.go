package domain

import "sort"

// ArrayMergeSide keeps the side as a dense slice sorted by rank and folds
// update batches in with a single linear merge pass over both sequences.
// For the book depths this engine targets, the sequential scan beats
// pointer-chasing structures by a wide margin and a depth query is a plain
// prefix copy.
type ArrayMergeSide struct {
	side   Side
	levels []PriceLevel
}

func NewArrayMergeSide(side Side) *ArrayMergeSide {
	return &ArrayMergeSide{side: side}
}

func (s *ArrayMergeSide) Kind() Side {
	return s.side
}

func (s *ArrayMergeSide) Len() int {
	return len(s.levels)
}

// LoadSnapshot replaces the side wholesale. Feeds send snapshot levels
// already sorted toward the best price, but that is not trusted: the levels
// are re-sorted by rank, zero sizes are dropped, and a price listed twice
// keeps its last listed size.
func (s *ArrayMergeSide) LoadSnapshot(levels []PriceLevel) {
	next := make([]PriceLevel, 0, len(levels))
	for _, level := range levels {
		if level.Size > 0 {
			next = append(next, level)
		}
	}
	sort.SliceStable(next, func(i, j int) bool {
		return s.side.RanksBefore(next[i].Price, next[j].Price)
	})
	// the stable sort keeps equal prices in input order, so within a run of
	// duplicates the last entry is the one that counts
	deduped := next[:0]
	for i := range next {
		if i+1 < len(next) && next[i+1].Price == next[i].Price {
			continue
		}
		deduped = append(deduped, next[i])
	}
	s.levels = deduped
}

// ApplyUpdates merges a strictly rank-sorted batch into the side. The batch
// is validated up front, so a rejected batch leaves the side untouched.
func (s *ArrayMergeSide) ApplyUpdates(updates []PriceLevel) error {
	if err := checkRankSorted(s.side, updates); err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	s.levels = s.merge(updates)
	return nil
}

// merge walks the current levels and the update batch in rank order and
// builds the next sequence in one pass: an equal price replaces (or deletes
// on zero size), a better-ranked update is inserted, everything else is
// carried over as is.
func (s *ArrayMergeSide) merge(updates []PriceLevel) []PriceLevel {
	merged := make([]PriceLevel, 0, len(s.levels)+len(updates))
	i, j := 0, 0
	for i < len(s.levels) && j < len(updates) {
		switch {
		case s.levels[i].Price == updates[j].Price:
			if updates[j].Size > 0 {
				merged = append(merged, updates[j])
			}
			i++
			j++
		case s.side.RanksBefore(updates[j].Price, s.levels[i].Price):
			if updates[j].Size > 0 {
				merged = append(merged, updates[j])
			}
			j++
		default:
			merged = append(merged, s.levels[i])
			i++
		}
	}
	merged = append(merged, s.levels[i:]...)
	for ; j < len(updates); j++ {
		if updates[j].Size > 0 {
			merged = append(merged, updates[j])
		}
	}
	return merged
}

func (s *ArrayMergeSide) Depth(limit int) []PriceLevel {
	n := len(s.levels)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]PriceLevel, n)
	copy(out, s.levels[:n])
	return out
}
