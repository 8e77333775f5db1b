package utils

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BalanceReader is satisfied by *ethclient.Client
type BalanceReader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// BalanceResult represents the result of a balance query
type BalanceResult struct {
	Address          string `json:"address"`
	NativeBalance    string `json:"native_balance"`    // balance in wei
	FormattedBalance string `json:"formatted_balance"` // Human readable balance
}

// IsZero reports whether the account holds no native balance
func (b *BalanceResult) IsZero() bool {
	return b.NativeBalance == "0"
}

// QueryNativeBalance queries the latest native token balance for an address
func QueryNativeBalance(ctx context.Context, client BalanceReader, address common.Address) (*BalanceResult, error) {
	balanceWei, err := client.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return &BalanceResult{
		Address:          address.Hex(),
		NativeBalance:    balanceWei.String(),
		FormattedBalance: FormatEther(balanceWei) + " ETH",
	}, nil
}

// FormatEther renders a wei amount with six decimals
func FormatEther(wei *big.Int) string {
	ether := new(big.Float).SetInt(wei)
	ether.Quo(ether, big.NewFloat(1e18))
	return ether.Text('f', 6)
}
