package testutils

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/ava-labs/orderpool-cleaner/pkg/chainstate"
)

// MockProvider is a mock implementation of chainstate.Provider for testing
type MockProvider struct {
	mock.Mock
}

// Latest mocks the Latest method
func (m *MockProvider) Latest(ctx context.Context) (chainstate.State, error) {
	args := m.Called(ctx)
	state, _ := args.Get(0).(chainstate.State)
	return state, args.Error(1)
}

// StaticState is a fixed snapshot with per-account nonces.
type StaticState struct {
	Number uint64
	Nonces map[common.Address]uint64
	Err    error
}

func (s *StaticState) BlockNumber() uint64 {
	return s.Number
}

func (s *StaticState) Nonce(_ context.Context, account common.Address) (uint64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Nonces[account], nil
}
