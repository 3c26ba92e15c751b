package cleaner

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// HeadSubscriber is a node connection able to stream new block headers.
// *ethclient.Client satisfies it.
type HeadSubscriber interface {
	SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)
	Close()
}

var _ HeadSubscriber = (*ethclient.Client)(nil)

// Dialer opens a connection to the node at endpoint.
type Dialer func(ctx context.Context, endpoint string) (HeadSubscriber, error)

// DialIPC connects to a node over its IPC socket. Endpoints with a ws:// or
// wss:// scheme are dialed as websockets instead.
func DialIPC(ctx context.Context, endpoint string) (HeadSubscriber, error) {
	c, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial node %s: %w", endpoint, err)
	}
	return c, nil
}
