package chainstate

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) BlockNumber(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockClient) NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error) {
	args := m.Called(ctx, account, blockNumber)
	return args.Get(0).(uint64), args.Error(1)
}

func TestNewRPCProvider_Validation(t *testing.T) {
	t.Parallel()
	_, err := NewRPCProvider(nil, time.Second)
	require.ErrorContains(t, err, "invalid client")

	_, err = NewRPCProvider(&mockClient{}, 0)
	require.ErrorContains(t, err, "invalid call timeout")
}

func TestRPCProvider_LatestPinsBlock(t *testing.T) {
	t.Parallel()
	account := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	client := &mockClient{}
	client.On("BlockNumber", mock.Anything).Return(uint64(100), nil).Once()
	client.On("NonceAt", mock.Anything, account, big.NewInt(100)).Return(uint64(7), nil).Once()

	p, err := NewRPCProvider(client, time.Second)
	require.NoError(t, err)

	state, err := p.Latest(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), state.BlockNumber())

	nonce, err := state.Nonce(t.Context(), account)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), nonce)
	client.AssertExpectations(t)
}

func TestRPCProvider_LatestError(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection refused")
	client := &mockClient{}
	client.On("BlockNumber", mock.Anything).Return(uint64(0), boom).Once()

	p, err := NewRPCProvider(client, time.Second)
	require.NoError(t, err)

	state, err := p.Latest(t.Context())
	require.ErrorIs(t, err, boom)
	require.Nil(t, state)
}

func TestRPCProvider_NonceError(t *testing.T) {
	t.Parallel()
	boom := errors.New("missing trie node")
	client := &mockClient{}
	client.On("BlockNumber", mock.Anything).Return(uint64(5), nil).Once()
	client.On("NonceAt", mock.Anything, mock.Anything, big.NewInt(5)).Return(uint64(0), boom).Once()

	p, err := NewRPCProvider(client, time.Second)
	require.NoError(t, err)
	state, err := p.Latest(t.Context())
	require.NoError(t, err)

	_, err = state.Nonce(t.Context(), common.Address{})
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "at block 5")
}

func TestLoad(t *testing.T) {
	t.Setenv("STATE_RPC_URL", "/tmp/reth.ipc")
	t.Setenv("STATE_CALL_TIMEOUT", "500ms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/reth.ipc", cfg.RPCURL)
	require.Equal(t, 500*time.Millisecond, cfg.CallTimeout)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	require.ErrorContains(t, Config{CallTimeout: time.Second}.Validate(), "invalid state rpc url")
	require.ErrorContains(t, Config{RPCURL: "x"}.Validate(), "invalid state call timeout")
}
