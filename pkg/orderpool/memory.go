package orderpool

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/ava-labs/orderpool-cleaner/pkg/chainstate"
)

var (
	ErrDuplicateOrder = errors.New("order already in pool")
	ErrStaleBundle    = errors.New("bundle targets a block that is already on chain")
)

// Tx is a pending transaction.
type Tx struct {
	Hash   common.Hash
	Sender common.Address
	Nonce  uint64
}

// Bundle is an ordered set of transactions that must land in TargetBlock.
type Bundle struct {
	Hash        common.Hash
	TargetBlock uint64
	Txs         []Tx
}

// Memory is a minimal map backed Pool. It is not safe for concurrent use.
type Memory struct {
	log     *zap.SugaredLogger
	head    uint64
	txs     map[common.Hash]Tx
	bundles map[common.Hash]Bundle
}

var _ Pool = (*Memory)(nil)

// NewMemory creates an empty pool.
func NewMemory(log *zap.SugaredLogger) (*Memory, error) {
	if log == nil {
		return nil, errors.New("invalid logger: must not be nil")
	}
	return &Memory{
		log:     log,
		txs:     make(map[common.Hash]Tx),
		bundles: make(map[common.Hash]Bundle),
	}, nil
}

// AddTx inserts a pending transaction.
func (m *Memory) AddTx(tx Tx) error {
	if _, ok := m.txs[tx.Hash]; ok {
		return fmt.Errorf("add tx %s: %w", tx.Hash.Hex(), ErrDuplicateOrder)
	}
	m.txs[tx.Hash] = tx
	return nil
}

// AddBundle inserts a bundle. Bundles for blocks at or below the last seen head are rejected.
func (m *Memory) AddBundle(b Bundle) error {
	if _, ok := m.bundles[b.Hash]; ok {
		return fmt.Errorf("add bundle %s: %w", b.Hash.Hex(), ErrDuplicateOrder)
	}
	if b.TargetBlock <= m.head {
		return fmt.Errorf("add bundle %s for block %d (head %d): %w", b.Hash.Hex(), b.TargetBlock, m.head, ErrStaleBundle)
	}
	m.bundles[b.Hash] = b
	return nil
}

// HeadUpdated drops bundles whose target block is no longer in the future and
// transactions whose nonce has already been used on chain. A transaction whose
// sender nonce cannot be read is kept.
func (m *Memory) HeadUpdated(ctx context.Context, blockNumber uint64, state chainstate.State) {
	if blockNumber > m.head {
		m.head = blockNumber
	}

	for h, b := range m.bundles {
		if b.TargetBlock <= blockNumber {
			delete(m.bundles, h)
		}
	}

	nonces := make(map[common.Address]uint64)
	failed := make(map[common.Address]struct{})
	for h, tx := range m.txs {
		if _, ok := failed[tx.Sender]; ok {
			continue
		}
		onchain, ok := nonces[tx.Sender]
		if !ok {
			n, err := state.Nonce(ctx, tx.Sender)
			if err != nil {
				m.log.Warnw("failed to read sender nonce", "sender", tx.Sender.Hex(), "block_number", blockNumber, "error", err)
				failed[tx.Sender] = struct{}{}
				continue
			}
			nonces[tx.Sender] = n
			onchain = n
		}
		if tx.Nonce < onchain {
			delete(m.txs, h)
		}
	}
}

// ContentCount returns the number of pending transactions and bundles.
func (m *Memory) ContentCount() (txCount, bundleCount int) {
	return len(m.txs), len(m.bundles)
}
