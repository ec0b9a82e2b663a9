// Package snapshot publishes the current portfolio snapshot to readers.
package snapshot

import (
	"sync/atomic"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// Store holds the latest published snapshot. The refresh loop is the sole
// writer; readers always observe a fully formed snapshot because publication
// swaps a pointer rather than mutating fields in place.
type Store struct {
	current atomic.Pointer[models.PortfolioSnapshot]
	version atomic.Uint64
}

// NewStore creates an empty snapshot store
func NewStore() *Store {
	return &Store{}
}

// Publish stamps the snapshot with the next version and makes it the
// current one. Returns the assigned version.
func (s *Store) Publish(snap *models.PortfolioSnapshot) uint64 {
	v := s.version.Add(1)
	snap.Version = v
	s.current.Store(snap)
	return v
}

// Current returns the latest published snapshot, or nil before the first
// refresh completes
func (s *Store) Current() *models.PortfolioSnapshot {
	return s.current.Load()
}

// Version returns the current publication counter. Presentation layers can
// poll it cheaply to decide whether to re-render.
func (s *Store) Version() uint64 {
	return s.version.Load()
}
