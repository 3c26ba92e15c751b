package cleaner

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/ava-labs/orderpool-cleaner/pkg/chainstate"
	"github.com/ava-labs/orderpool-cleaner/pkg/metrics"
	"github.com/ava-labs/orderpool-cleaner/pkg/orderpool"
)

const DefaultHeadsCapacity = 16

// Config holds the node endpoint the job subscribes to.
type Config struct {
	// IPCPath is the node's IPC socket path (or a websocket URL).
	IPCPath string
	// HeadsCapacity is the buffer size of the header channel. Zero means DefaultHeadsCapacity.
	HeadsCapacity int
}

// Canceller is the process-wide stop signal shared between jobs.
// *cancellation.Token satisfies it.
type Canceller interface {
	Cancel()
	Done() <-chan struct{}
	Context() context.Context
}

// Job is a running orderpool maintenance loop.
type Job struct {
	log      *zap.SugaredLogger
	client   HeadSubscriber
	provider chainstate.Provider
	pool     *orderpool.Shared
	token    Canceller
	metrics  *metrics.Metrics // nil if metrics disabled
	capacity int

	done chan struct{}
}

// Spawn verifies that the node at cfg.IPCPath accepts a head subscription and then
// starts the maintenance loop in a new goroutine. If connecting or the trial
// subscription fails, the error is returned and nothing is started.
func Spawn(
	ctx context.Context,
	log *zap.SugaredLogger,
	cfg Config,
	dial Dialer,
	provider chainstate.Provider,
	pool *orderpool.Shared,
	token Canceller,
	m *metrics.Metrics,
) (*Job, error) {
	if log == nil {
		return nil, errors.New("invalid logger: must not be nil")
	}
	if cfg.IPCPath == "" {
		return nil, errors.New("invalid ipc path: must not be empty")
	}
	if cfg.HeadsCapacity < 0 {
		return nil, errors.New("invalid heads capacity: must not be negative")
	}
	if dial == nil {
		return nil, errors.New("invalid dialer: must not be nil")
	}
	if provider == nil {
		return nil, errors.New("invalid state provider: must not be nil")
	}
	if pool == nil {
		return nil, errors.New("invalid orderpool: must not be nil")
	}
	if token == nil {
		return nil, errors.New("invalid cancellation token: must not be nil")
	}

	capacity := cfg.HeadsCapacity
	if capacity == 0 {
		capacity = DefaultHeadsCapacity
	}

	client, err := dial(ctx, cfg.IPCPath)
	if err != nil {
		return nil, fmt.Errorf("connect to node: %w", err)
	}

	// Check that we can subscribe before committing to background work.
	trial, err := client.SubscribeNewHead(ctx, make(chan *types.Header, 1))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("subscribe new heads: %w", err)
	}
	trial.Unsubscribe()

	j := &Job{
		log:      log,
		client:   client,
		provider: provider,
		pool:     pool,
		token:    token,
		metrics:  m,
		capacity: capacity,
		done:     make(chan struct{}),
	}
	go j.run()
	return j, nil
}

// Done returns a channel that is closed when the loop has exited.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the loop has exited.
func (j *Job) Wait() {
	<-j.done
}

func (j *Job) run() {
	defer close(j.done)
	defer j.client.Close()

	j.log.Info("clean orderpool job: started")

	ctx := j.token.Context()
	heads := make(chan *types.Header, j.capacity)
	sub, err := j.client.SubscribeNewHead(ctx, heads)
	if err != nil {
		j.log.Errorw("failed to subscribe to new heads", "error", err)
		j.metrics.IncError(metrics.ErrTypeSubscribe)
		j.token.Cancel()
		return
	}

	j.consume(ctx, heads, sub)
	sub.Unsubscribe()

	j.token.Cancel()
	j.log.Info("clean orderpool job: finished")
}

// consume handles headers until the stream ends or the token is cancelled.
// Cancellation always wins over a header that is already waiting.
func (j *Job) consume(ctx context.Context, heads <-chan *types.Header, sub ethereum.Subscription) {
	for {
		if j.cancelled() {
			return
		}
		select {
		case <-j.token.Done():
			return
		case header, ok := <-heads:
			if !ok {
				j.log.Debug("header stream closed")
				return
			}
			if j.cancelled() {
				return
			}
			j.cycle(ctx, header)
		case err, ok := <-sub.Err():
			if !ok {
				j.log.Debug("header subscription ended")
				j.drain(ctx, heads)
				return
			}
			j.log.Errorw("header subscription failed", "error", err)
			j.metrics.IncError(metrics.ErrTypeSubscribe)
			return
		}
	}
}

// drain handles headers the transport delivered before the stream ended.
func (j *Job) drain(ctx context.Context, heads <-chan *types.Header) {
	for {
		if j.cancelled() {
			return
		}
		select {
		case header, ok := <-heads:
			if !ok {
				return
			}
			j.cycle(ctx, header)
		default:
			return
		}
	}
}

func (j *Job) cycle(ctx context.Context, header *types.Header) {
	var blockNumber uint64
	if header != nil && header.Number != nil {
		blockNumber = header.Number.Uint64()
	}
	j.metrics.SetCurrentBlock(blockNumber)

	state, err := j.provider.Latest(ctx)
	if err != nil {
		// Shutting down mid-fetch is not a state failure.
		if j.cancelled() || errors.Is(err, context.Canceled) {
			j.log.Debugw("state fetch interrupted by shutdown", "block_number", blockNumber)
			return
		}
		j.log.Errorw("failed to get latest state", "block_number", blockNumber, "error", err)
		j.metrics.IncError(metrics.ErrTypeStateFetch)
		return
	}

	res := j.pool.HeadUpdated(ctx, blockNumber, state)

	j.metrics.SetOrderpoolCount(res.TxCount, res.BundleCount)
	j.metrics.ObserveUpdate(res.Duration)
	j.log.Debugw("cleaned orderpool",
		"block_number", blockNumber,
		"tx_count", res.TxCount,
		"bundle_count", res.BundleCount,
		"update_time_ms", res.Duration.Milliseconds(),
	)
}

func (j *Job) cancelled() bool {
	select {
	case <-j.token.Done():
		return true
	default:
		return false
	}
}
