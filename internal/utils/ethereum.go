package utils

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func IsValidEthereumAddress(address string) bool {
	return common.IsHexAddress(address)
}

// ParsePrivateKey decodes a hex private key, with or without 0x prefix
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, common.Address, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to parse private key: %w", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey), nil
}

// MergeAccounts puts the signer first and appends the other accounts, dropping duplicates and invalid entries
func MergeAccounts(signer common.Address, others []string) []string {
	accounts := []string{signer.Hex()}
	seen := map[common.Address]bool{signer: true}
	for _, a := range others {
		if !common.IsHexAddress(a) {
			continue
		}
		addr := common.HexToAddress(a)
		if seen[addr] {
			continue
		}
		seen[addr] = true
		accounts = append(accounts, addr.Hex())
	}
	return accounts
}

// RPCCaller is satisfied by *rpc.Client, e.g. ethclient.Client.Client()
type RPCCaller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// NodeAccounts returns the accounts the node manages (eth_accounts). Hosted providers usually return none or reject the call.
func NodeAccounts(ctx context.Context, client RPCCaller) ([]string, error) {
	var accounts []string
	if err := client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("failed to get node accounts: %w", err)
	}
	return accounts, nil
}
