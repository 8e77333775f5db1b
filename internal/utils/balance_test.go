package utils

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBalance struct {
	balance *big.Int
	err     error
	block   *big.Int
}

func (s *staticBalance) BalanceAt(_ context.Context, _ common.Address, blockNumber *big.Int) (*big.Int, error) {
	s.block = blockNumber
	return s.balance, s.err
}

func TestQueryNativeBalance(t *testing.T) {
	reader := &staticBalance{balance: big.NewInt(1000000000000000000)}

	balance, err := QueryNativeBalance(context.Background(), reader, common.HexToAddress(testAddress))
	require.NoError(t, err)
	assert.Equal(t, testAddress, balance.Address)
	assert.Equal(t, "1000000000000000000", balance.NativeBalance)
	assert.Equal(t, "1.000000 ETH", balance.FormattedBalance)
	assert.False(t, balance.IsZero())
	assert.Nil(t, reader.block, "latest block expected")
}

func TestQueryNativeBalanceZero(t *testing.T) {
	balance, err := QueryNativeBalance(context.Background(), &staticBalance{balance: big.NewInt(0)}, common.HexToAddress(testAddress))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestQueryNativeBalanceError(t *testing.T) {
	_, err := QueryNativeBalance(context.Background(), &staticBalance{err: errors.New("connection refused")}, common.HexToAddress(testAddress))
	assert.Error(t, err)
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "0.080000", FormatEther(big.NewInt(80000000000000000)))
	assert.Equal(t, "0.000000", FormatEther(big.NewInt(0)))
}
