package orderpool

import (
	"context"
	"sync"
	"time"

	"github.com/ava-labs/orderpool-cleaner/pkg/chainstate"
)

// Pool is an in-memory collection of pending orders. Implementations are not
// required to be safe for concurrent use; wrap them in Shared.
type Pool interface {
	// HeadUpdated synchronizes the pool against a new head and its state.
	HeadUpdated(ctx context.Context, blockNumber uint64, state chainstate.State)
	// ContentCount returns the number of pending transactions and bundles.
	ContentCount() (txCount, bundleCount int)
}

// UpdateResult describes one synchronization of the pool.
type UpdateResult struct {
	TxCount     int
	BundleCount int
	Duration    time.Duration
}

// Shared guards a Pool so that at most one mutator touches it at a time.
// It is meant to be shared by every job that mutates the pool.
type Shared struct {
	mu   sync.Mutex
	pool Pool
}

// NewShared wraps pool for exclusive access.
func NewShared(pool Pool) *Shared {
	return &Shared{pool: pool}
}

// HeadUpdated runs the pool synchronization and reads back its counts while
// holding the lock. The lock is released before returning.
func (s *Shared) HeadUpdated(ctx context.Context, blockNumber uint64, state chainstate.State) UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.pool.HeadUpdated(ctx, blockNumber, state)
	elapsed := time.Since(start)

	txs, bundles := s.pool.ContentCount()
	return UpdateResult{
		TxCount:     txs,
		BundleCount: bundles,
		Duration:    elapsed,
	}
}

// Do runs fn with exclusive access to the pool.
// fn must not retain the pool after it returns.
func (s *Shared) Do(fn func(p Pool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.pool)
}

// ContentCount reads the counts under the lock.
func (s *Shared) ContentCount() (txCount, bundleCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.ContentCount()
}
