package chainstate

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Client is the subset of ethclient.Client used to read state.
type Client interface {
	BlockNumber(ctx context.Context) (uint64, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
}

// RPCProvider serves state snapshots from a node over JSON-RPC.
type RPCProvider struct {
	client      Client
	callTimeout time.Duration
}

var _ Provider = (*RPCProvider)(nil)

// NewRPCProvider creates a Provider backed by client. Every RPC call is bounded by callTimeout.
func NewRPCProvider(client Client, callTimeout time.Duration) (*RPCProvider, error) {
	if client == nil {
		return nil, errors.New("invalid client: must not be nil")
	}
	if callTimeout <= 0 {
		return nil, errors.New("invalid call timeout: must be greater than 0")
	}
	return &RPCProvider{
		client:      client,
		callTimeout: callTimeout,
	}, nil
}

// Latest pins a snapshot to the node's current head. Reads through the returned
// State are answered at that block even if the node advances.
func (p *RPCProvider) Latest(ctx context.Context) (State, error) {
	ctx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	n, err := p.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest block number: %w", err)
	}
	return &rpcState{provider: p, number: n}, nil
}

type rpcState struct {
	provider *RPCProvider
	number   uint64
}

func (s *rpcState) BlockNumber() uint64 {
	return s.number
}

func (s *rpcState) Nonce(ctx context.Context, account common.Address) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.provider.callTimeout)
	defer cancel()

	nonce, err := s.provider.client.NonceAt(ctx, account, new(big.Int).SetUint64(s.number))
	if err != nil {
		return 0, fmt.Errorf("fetch nonce of %s at block %d: %w", account.Hex(), s.number, err)
	}
	return nonce, nil
}
