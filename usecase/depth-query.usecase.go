package usecase

import (
	"log"
	"os"

	"github.com/Abhishekt2307/OrderBookManager/domain"
)

var logger = log.New(os.Stdout, "[depth-query-usecase] ", log.LstdFlags)

// DepthQueryUseCase is the consumer-facing read path over the store. It
// normalizes the requested depth before delegating: a non-positive request
// falls back to the configured default and an oversized one is clamped to
// the configured maximum, so callers can never drag a full thousand-level
// book over the wire by accident.
type DepthQueryUseCase struct {
	store *domain.OrderBookStore

	defaultDepth int
	maxDepth     int
}

func NewDepthQueryUseCase(store *domain.OrderBookStore, defaultDepth, maxDepth int) *DepthQueryUseCase {
	if defaultDepth <= 0 {
		defaultDepth = 20
	}
	return &DepthQueryUseCase{
		store:        store,
		defaultDepth: defaultDepth,
		maxDepth:     maxDepth,
	}
}

// GetDepth returns the best limit levels of both sides of the instrument's
// book from the runtime store.
func (u *DepthQueryUseCase) GetDepth(instrumentID string, limit int) (*domain.DepthSnapshot, error) {
	if limit <= 0 {
		limit = u.defaultDepth
	}
	if u.maxDepth > 0 && limit > u.maxDepth {
		logger.Printf("depth request clamped from %d to %d, Instrument=%s", limit, u.maxDepth, instrumentID)
		limit = u.maxDepth
	}
	return u.store.QueryDepth(instrumentID, limit)
}
