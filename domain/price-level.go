package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Reported when a raw [price, size] pair cannot be turned into a PriceLevel.
var ErrMalformedUpdate = errors.New("malformed price level")

type Side string

const (
	Side_Bid Side = "bid"
	Side_Ask Side = "ask"
)

func (s Side) String() string {
	return string(s)
}

// RanksBefore reports whether price a is closer to the side's best price
// than price b. Asks rank ascending, bids descending.
func (s Side) RanksBefore(a, b float64) bool {
	if s == Side_Ask {
		return a < b
	}
	return a > b
}

// PriceLevel is the atomic unit of a book side: one price and the total
// size resting at it. Inside a side sizes are always positive; a zero size
// only ever appears in update batches, where it means "delete this price".
type PriceLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// ParsePriceLevels converts raw [price, size] string pairs from a feed
// message into price levels. Every pair must have exactly two fields, both
// finite numbers, and the size must not be negative. The first bad pair
// fails the whole batch with ErrMalformedUpdate so that a partially parsed
// message is never applied.
func ParsePriceLevels(raw [][]string) ([]PriceLevel, error) {
	levels := make([]PriceLevel, 0, len(raw))
	for i, pair := range raw {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: pair %d has %d fields, want 2", ErrMalformedUpdate, i, len(pair))
		}
		price, err := strconv.ParseFloat(pair[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: price %q: %s", ErrMalformedUpdate, pair[0], err)
		}
		size, err := strconv.ParseFloat(pair[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: size %q: %s", ErrMalformedUpdate, pair[1], err)
		}
		if math.IsNaN(price) || math.IsInf(price, 0) || math.IsNaN(size) || math.IsInf(size, 0) {
			return nil, fmt.Errorf("%w: pair %d is not finite", ErrMalformedUpdate, i)
		}
		if size < 0 {
			return nil, fmt.Errorf("%w: negative size %q", ErrMalformedUpdate, pair[1])
		}
		levels = append(levels, PriceLevel{Price: price, Size: size})
	}
	return levels, nil
}
