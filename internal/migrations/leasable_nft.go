package migrations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rxtech-lab/leasable-nft-deployer/internal/contracts"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/parameters"
	"github.com/sirupsen/logrus"
)

const (
	LeasableNftContract = "LeasableNft"
	leasableNftEnvKey   = "LeasableNft_ADDRESS"
)

// LeasableNftEnvKey is the env file key holding the contract address for a network
func LeasableNftEnvKey(network string) string {
	return leasableNftEnvKey + strings.ToUpper(network)
}

// LeasableNft deploys the LeasableNft contract with the parameters of the target
// network and writes its address into the env file.
type LeasableNft struct {
	Parameters  parameters.Table
	Artifact    *contracts.Artifact
	Store       EnvStore
	EnvBasePath string
}

// Number follows the Truffle layout where 1 is the Migrations bookkeeping contract
func (m *LeasableNft) Number() int {
	return 2
}

func (m *LeasableNft) Name() string {
	return "leasable_nft"
}

// Run is not idempotent: every call deploys a new instance and overwrites the stored address.
func (m *LeasableNft) Run(ctx context.Context, env Env) error {
	if m.Artifact == nil {
		return errors.New("LeasableNft artifact is not loaded")
	}
	if env.Deployer == nil {
		return errors.New("deployer is required")
	}
	log := env.logger().WithField("network", env.Network)

	cfg := m.Parameters.ForNetwork(env.Network)
	if err := env.Deployer.Deploy(ctx, m.Artifact, cfg.ConstructorArgs()...); err != nil {
		return fmt.Errorf("failed to deploy %s: %w", LeasableNftContract, err)
	}

	contract, ok, err := env.Deployer.Deployed(ctx, m.Artifact.ContractName)
	if err != nil {
		return fmt.Errorf("failed to get deployed %s: %w", LeasableNftContract, err)
	}
	if !ok {
		log.Warn("LeasableNft Deployment UNSUCCESSFUL")
		return nil
	}

	creator := "unknown"
	if len(env.Accounts) > 0 {
		creator = env.Accounts[0]
	}
	log.WithFields(logrus.Fields{
		"address": contract.Address,
		"creator": creator,
	}).Infof("LeasableNft deployed on %s at %s by %s", env.Network, contract.Address, creator)

	key := LeasableNftEnvKey(env.Network)
	if err := m.Store.SetValue(m.EnvBasePath, key, contract.Address); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
