// Package cleaner keeps a shared orderpool in sync with the chain. It watches a
// node for new block headers and, on each one, lets the pool evict orders that
// the new head made invalid, then reports the pool size.
//
// Lifecycle
//   - Spawn dials the node and opens a trial head subscription which is torn
//     down straight away. Connectivity and subscription errors are returned to
//     the caller and no background work is started.
//   - On success the maintenance loop runs in its own goroutine. It opens the
//     real subscription and handles one header at a time, in arrival order.
//   - The loop ends when the header stream is exhausted, when the subscription
//     fails, or when the shared cancellation token is cancelled. On every exit
//     it cancels the token itself, so sibling jobs sharing the token stop too.
//
// Maintenance cycle
//  1. Read the block number from the header (a missing number counts as 0).
//  2. Record it as the current block gauge.
//  3. Fetch the latest chain state. A failure is logged and counted and the
//     header is skipped; the loop keeps going.
//  4. Under the pool lock, synchronize the pool and read back its counts.
//  5. Report the counts and the update duration.
//
// The pool lock is held only for step 4. There are no timeouts on state
// fetches or on lock acquisition; a stuck call stalls the loop.
package cleaner
