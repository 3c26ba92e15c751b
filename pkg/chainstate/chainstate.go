package chainstate

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// State is a read-only view of account state as of a single block. It is only
// valid for the maintenance cycle it was fetched for.
type State interface {
	BlockNumber() uint64
	Nonce(ctx context.Context, account common.Address) (uint64, error)
}

// Provider gives access to the latest known chain state.
type Provider interface {
	Latest(ctx context.Context) (State, error)
}
