package e2e

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/require"
)

const (
	// Anvil defaults
	TESTNET_RPC      = "http://localhost:8545"
	TESTNET_CHAIN_ID = "31337"
	TESTING_PK_1     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	TESTING_ADDRESS  = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// leasableNftArtifact has the real constructor ABI and a tiny init code returning a 10 byte runtime
const leasableNftArtifact = `{
  "contractName": "LeasableNft",
  "abi": [{"type":"constructor","stateMutability":"nonpayable","inputs":[
    {"name":"name","type":"string"},
    {"name":"symbol","type":"string"},
    {"name":"baseTokenURI","type":"string"},
    {"name":"notRevealedURI","type":"string"},
    {"name":"mintPrice","type":"uint256"},
    {"name":"mintingLimit","type":"uint256"},
    {"name":"maxTokenId","type":"uint256"}]}],
  "bytecode": "0x69602a60005260206000f3600052600a6016f3"
}`

// TestSetup is a throwaway project directory wired to the local anvil node
type TestSetup struct {
	Dir        string
	ConfigPath string
	EnvDir     string
}

// NewTestSetup skips the test when no node answers on TESTNET_RPC
func NewTestSetup(t *testing.T) *TestSetup {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := ethclient.DialContext(ctx, TESTNET_RPC)
	if err == nil {
		_, err = client.BlockNumber(ctx)
		client.Close()
	}
	if err != nil {
		t.Skipf("Ethereum testnet not available at %s: %v", TESTNET_RPC, err)
	}

	t.Setenv("PRIVATE_KEY", TESTING_PK_1)
	t.Setenv("LEASABLE_PRIVATE_KEY", "")

	dir := t.TempDir()
	setup := &TestSetup{
		Dir:        dir,
		ConfigPath: filepath.Join(dir, "leasable-deploy.yaml"),
		EnvDir:     filepath.Join(dir, "project"),
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build"), 0755))
	require.NoError(t, os.MkdirAll(setup.EnvDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build", "LeasableNft.json"), []byte(leasableNftArtifact), 0644))

	config := strings.Join([]string{
		"database_url: " + filepath.Join(dir, "data", "deployments.db"),
		"env_base_path: " + setup.EnvDir,
		"artifacts_dir: " + filepath.Join(dir, "build"),
		"timeout: 1m",
		"networks:",
		"  development:",
		"    rpc_url: " + TESTNET_RPC,
		"    chain_id: " + TESTNET_CHAIN_ID,
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(setup.ConfigPath, []byte(config), 0644))
	return setup
}
