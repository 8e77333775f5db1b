package framework_test

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/contracts"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/framework"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/models"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	leasableNftABI = `[{"type":"constructor","inputs":[
		{"name":"name","type":"string"},
		{"name":"symbol","type":"string"},
		{"name":"baseTokenURI","type":"string"},
		{"name":"notRevealedURI","type":"string"},
		{"name":"mintPrice","type":"uint256"},
		{"name":"mintingLimit","type":"uint256"},
		{"name":"maxTokenId","type":"uint256"}]}]`

	// returns a 10 byte runtime
	answerBytecode = "0x69602a60005260206000f3600052600a6016f3"
	// PUSH1 0 PUSH1 0 REVERT
	revertBytecode = "0x60006000fd"
)

// committingClient mines a block right after every transaction so WaitMined returns immediately
type committingClient struct {
	simulated.Client
	sim *simulated.Backend
}

func (c committingClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	c.sim.Commit()
	return nil
}

type deployerFixture struct {
	deployer *framework.EVMDeployer
	ledger   services.DeploymentService
	sim      *simulated.Backend
	hook     *test.Hook
}

func newDeployerFixture(t *testing.T, gasLimit uint64) deployerFixture {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	balance := new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil)
	sim := simulated.NewBackend(types.GenesisAlloc{from: {Balance: balance}})
	t.Cleanup(func() { _ = sim.Close() })

	db, err := services.NewSqliteDBService(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ledger := services.NewDeploymentService(db.GetDB())

	logger, hook := test.NewNullLogger()
	deployer, err := framework.NewEVMDeployer(
		committingClient{Client: sim.Client(), sim: sim},
		services.NewEvmService(""),
		ledger,
		framework.EVMDeployerConfig{Network: "development", PrivateKey: key, GasLimit: gasLimit, RunID: "run-1"},
		logger,
	)
	require.NoError(t, err)
	assert.Equal(t, from, deployer.From())

	return deployerFixture{deployer: deployer, ledger: ledger, sim: sim, hook: hook}
}

func leasableNftArtifact() *contracts.Artifact {
	return &contracts.Artifact{
		ContractName: "LeasableNft",
		ABI:          json.RawMessage(leasableNftABI),
		Bytecode:     answerBytecode,
	}
}

func devnetArgs() []any {
	return []any{"Leasable NFT Dev", "LNFTD", "http://localhost/", "http://localhost/hidden.json", "1000", uint64(3), uint64(100)}
}

func TestEVMDeployerDeploy(t *testing.T) {
	f := newDeployerFixture(t, 0)
	ctx := context.Background()

	_, ok, err := f.deployer.Deployed(ctx, "LeasableNft")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, f.deployer.Deploy(ctx, leasableNftArtifact(), devnetArgs()...))

	contract, ok, err := f.deployer.Deployed(ctx, "LeasableNft")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "LeasableNft", contract.Name)
	assert.Equal(t, "development", contract.Network)
	assert.True(t, common.IsHexAddress(contract.Address))
	assert.NotEmpty(t, contract.TxHash)

	code, err := f.sim.Client().CodeAt(ctx, common.HexToAddress(contract.Address), nil)
	require.NoError(t, err)
	assert.Len(t, code, 10)

	rows, err := f.ledger.ListDeploymentsByNetwork("development")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.TransactionStatusConfirmed, rows[0].Status)
	assert.Equal(t, uint64(1337), rows[0].ChainID)
	assert.Equal(t, "run-1", rows[0].RunID)
	assert.Equal(t, "LNFTD", rows[0].ConstructorArgs["symbol"])

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Contract deployed", entry.Message)
	assert.Equal(t, contract.Address, entry.Data["address"])
}

func TestEVMDeployerDeployTwiceReturnsLatest(t *testing.T) {
	f := newDeployerFixture(t, 0)
	ctx := context.Background()

	require.NoError(t, f.deployer.Deploy(ctx, leasableNftArtifact(), devnetArgs()...))
	first, ok, err := f.deployer.Deployed(ctx, "LeasableNft")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.deployer.Deploy(ctx, leasableNftArtifact(), devnetArgs()...))
	second, ok, err := f.deployer.Deployed(ctx, "LeasableNft")
	require.NoError(t, err)
	require.True(t, ok)

	assert.NotEqual(t, first.Address, second.Address)
}

func TestEVMDeployerRevert(t *testing.T) {
	f := newDeployerFixture(t, 300000)
	ctx := context.Background()

	artifact := &contracts.Artifact{ContractName: "Reverting", ABI: json.RawMessage(`[]`), Bytecode: revertBytecode}
	err := f.deployer.Deploy(ctx, artifact)
	require.ErrorIs(t, err, framework.ErrDeploymentReverted)

	_, ok, err := f.deployer.Deployed(ctx, "Reverting")
	require.NoError(t, err)
	assert.False(t, ok)

	rows, err := f.ledger.ListDeployments()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.TransactionStatusFailed, rows[0].Status)
	assert.NotEmpty(t, rows[0].TransactionHash)
}

func TestEVMDeployerInvalidArguments(t *testing.T) {
	f := newDeployerFixture(t, 0)

	err := f.deployer.Deploy(context.Background(), leasableNftArtifact(), "only a name")
	assert.Error(t, err)

	rows, err := f.ledger.ListDeployments()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEVMDeployerDeployedWithoutCode(t *testing.T) {
	f := newDeployerFixture(t, 0)
	ctx := context.Background()

	require.NoError(t, f.ledger.CreateDeployment(&models.Deployment{
		Network:         "development",
		ChainID:         1337,
		ContractName:    "LeasableNft",
		ContractAddress: "0x00000000000000000000000000000000000000a1",
		Status:          models.TransactionStatusConfirmed,
	}))

	_, ok, err := f.deployer.Deployed(ctx, "LeasableNft")
	require.NoError(t, err)
	assert.False(t, ok)

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
}

func TestNewEVMDeployerRequiresKey(t *testing.T) {
	_, err := framework.NewEVMDeployer(nil, services.NewEvmService(""), nil, framework.EVMDeployerConfig{}, nil)
	assert.Error(t, err)
}
