package framework

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/contracts"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/models"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrDeploymentReverted is returned when the creation transaction was mined with a failed status
var ErrDeploymentReverted = errors.New("deployment transaction reverted")

// DeployedContract is the handle of a contract instance that exists on chain
type DeployedContract struct {
	Name    string
	Address string
	TxHash  string
	Network string
}

// Deployer publishes contracts and looks up the deployed instance afterwards
type Deployer interface {
	// Deploy blocks until the creation transaction is mined
	Deploy(ctx context.Context, artifact *contracts.Artifact, args ...any) error
	// Deployed returns false when no live instance of the contract is known on this network
	Deployed(ctx context.Context, contractName string) (DeployedContract, bool, error)
}

// Backend is the chain access EVMDeployer needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.DeployBackend
	ethereum.TransactionSender
	ethereum.GasEstimator
	ethereum.GasPricer
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

type EVMDeployerConfig struct {
	Network    string
	PrivateKey *ecdsa.PrivateKey
	// GasLimit of 0 means estimate
	GasLimit uint64
	// RunID tags ledger rows; a random one is generated when empty
	RunID string
}

// EVMDeployer signs and sends contract creation transactions and keeps the ledger up to date
type EVMDeployer struct {
	backend    Backend
	evm        services.EvmService
	ledger     services.DeploymentService
	logger     logrus.FieldLogger
	network    string
	privateKey *ecdsa.PrivateKey
	from       common.Address
	gasLimit   uint64
	runID      string
}

func NewEVMDeployer(backend Backend, evm services.EvmService, ledger services.DeploymentService, cfg EVMDeployerConfig, logger logrus.FieldLogger) (*EVMDeployer, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if cfg.PrivateKey == nil {
		return nil, errors.New("private key is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	return &EVMDeployer{
		backend:    backend,
		evm:        evm,
		ledger:     ledger,
		logger:     logger.WithFields(logrus.Fields{"network": cfg.Network, "run_id": runID}),
		network:    cfg.Network,
		privateKey: cfg.PrivateKey,
		from:       crypto.PubkeyToAddress(cfg.PrivateKey.PublicKey),
		gasLimit:   cfg.GasLimit,
		runID:      runID,
	}, nil
}

// From returns the signer address
func (d *EVMDeployer) From() common.Address {
	return d.from
}

// RunID returns the id written to ledger rows
func (d *EVMDeployer) RunID() string {
	return d.runID
}

// Deploy builds the creation data, sends the transaction and waits for it to be mined
func (d *EVMDeployer) Deploy(ctx context.Context, artifact *contracts.Artifact, args ...any) error {
	tx, _, err := d.evm.GetContractDeploymentTransaction(artifact, args)
	if err != nil {
		return fmt.Errorf("failed to build deployment transaction: %w", err)
	}

	data := common.FromHex(tx.Data)
	if len(data) == 0 {
		return fmt.Errorf("empty creation bytecode for %s", tx.ContractName)
	}

	chainID, err := d.backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain id: %w", err)
	}

	deployment := &models.Deployment{
		RunID:           d.runID,
		Network:         d.network,
		ChainID:         chainID.Uint64(),
		ContractName:    tx.ContractName,
		DeployerAddress: d.from.Hex(),
		ConstructorArgs: tx.ConstructorArgs,
		Status:          models.TransactionStatusPending,
	}
	if err := d.ledger.CreateDeployment(deployment); err != nil {
		return fmt.Errorf("failed to record deployment: %w", err)
	}

	log := d.logger.WithField("contract", tx.ContractName)

	signedTx, err := d.sendCreation(ctx, chainID, data)
	if err != nil {
		d.markFailed(log, deployment.ID, "")
		return err
	}

	log = log.WithField("tx", signedTx.Hash().Hex())
	log.Info("Deployment transaction sent")
	if err := d.ledger.UpdateDeploymentStatus(deployment.ID, models.TransactionStatusPending, "", signedTx.Hash().Hex()); err != nil {
		return fmt.Errorf("failed to record transaction hash: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, d.backend, signedTx)
	if err != nil {
		// the transaction may still be mined later, keep the row pending
		return fmt.Errorf("failed to wait for deployment: %w", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		d.markFailed(log, deployment.ID, signedTx.Hash().Hex())
		return fmt.Errorf("%w: %s in block %d", ErrDeploymentReverted, signedTx.Hash().Hex(), receipt.BlockNumber)
	}

	if err := d.ledger.UpdateDeploymentStatus(deployment.ID, models.TransactionStatusConfirmed, receipt.ContractAddress.Hex(), signedTx.Hash().Hex()); err != nil {
		return fmt.Errorf("failed to confirm deployment: %w", err)
	}

	log.WithFields(logrus.Fields{
		"address":  receipt.ContractAddress.Hex(),
		"gas_used": receipt.GasUsed,
	}).Info("Contract deployed")
	return nil
}

func (d *EVMDeployer) sendCreation(ctx context.Context, chainID *big.Int, data []byte) (*types.Transaction, error) {
	nonce, err := d.backend.PendingNonceAt(ctx, d.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := d.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit := d.gasLimit
	if gasLimit == 0 {
		estimated, err := d.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:     d.from,
			GasPrice: gasPrice,
			Data:     data,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gasLimit = estimated * 12 / 10
	}

	tx := types.NewContractCreation(nonce, big.NewInt(0), gasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), d.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := d.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	return signedTx, nil
}

func (d *EVMDeployer) markFailed(log logrus.FieldLogger, id uint, txHash string) {
	if err := d.ledger.UpdateDeploymentStatus(id, models.TransactionStatusFailed, "", txHash); err != nil {
		log.WithError(err).Error("Failed to mark deployment as failed")
	}
}

// Deployed returns the latest confirmed instance of the contract on the current chain.
// An instance whose address has no code (e.g. the chain was reset) is reported as absent.
func (d *EVMDeployer) Deployed(ctx context.Context, contractName string) (DeployedContract, bool, error) {
	chainID, err := d.backend.ChainID(ctx)
	if err != nil {
		return DeployedContract{}, false, fmt.Errorf("failed to get chain id: %w", err)
	}

	deployment, err := d.ledger.GetLatestConfirmedDeployment(contractName, chainID.Uint64())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DeployedContract{}, false, nil
	}
	if err != nil {
		return DeployedContract{}, false, fmt.Errorf("failed to look up deployment: %w", err)
	}

	address := common.HexToAddress(deployment.ContractAddress)
	code, err := d.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return DeployedContract{}, false, fmt.Errorf("failed to get code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		d.logger.WithFields(logrus.Fields{
			"contract": contractName,
			"address":  address.Hex(),
		}).Warn("Recorded deployment has no code on chain")
		return DeployedContract{}, false, nil
	}

	return DeployedContract{
		Name:    contractName,
		Address: address.Hex(),
		TxHash:  deployment.TransactionHash,
		Network: deployment.Network,
	}, true, nil
}
