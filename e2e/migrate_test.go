package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/cli"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/envfile"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/migrations"
	"github.com/rxtech-lab/leasable-nft-deployer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, setup *TestSetup, args ...string) string {
	t.Helper()
	root := cli.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", setup.ConfigPath, "--env-file", ""}, args...))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestMigrateDeploysLeasableNft(t *testing.T) {
	setup := NewTestSetup(t)

	var result migrations.RunResult
	require.NoError(t, json.Unmarshal([]byte(run(t, setup, "--json", "migrate", "--network", "development")), &result))
	assert.Equal(t, []string{"2_leasable_nft"}, result.Applied)

	address, ok, err := envfile.GetValue(setup.EnvDir, "LeasableNft_ADDRESSDEVELOPMENT")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, common.IsHexAddress(address))

	client, err := ethclient.Dial(TESTNET_RPC)
	require.NoError(t, err)
	defer client.Close()
	code, err := client.CodeAt(context.Background(), common.HexToAddress(address), nil)
	require.NoError(t, err)
	assert.Len(t, code, 10)

	t.Run("SecondRunSkips", func(t *testing.T) {
		var again migrations.RunResult
		require.NoError(t, json.Unmarshal([]byte(run(t, setup, "--json", "migrate", "--network", "development")), &again))
		assert.Empty(t, again.Applied)

		current, _, err := envfile.GetValue(setup.EnvDir, "LeasableNft_ADDRESSDEVELOPMENT")
		require.NoError(t, err)
		assert.Equal(t, address, current)
	})

	t.Run("ResetRedeploysAndOverwrites", func(t *testing.T) {
		run(t, setup, "migrate", "--network", "development", "--reset")

		current, _, err := envfile.GetValue(setup.EnvDir, "LeasableNft_ADDRESSDEVELOPMENT")
		require.NoError(t, err)
		assert.NotEqual(t, address, current)
	})

	t.Run("History", func(t *testing.T) {
		var view struct {
			Deployments []models.Deployment `json:"deployments"`
		}
		require.NoError(t, json.Unmarshal([]byte(run(t, setup, "--json", "history", "--network", "development")), &view))
		require.Len(t, view.Deployments, 2)
		for _, d := range view.Deployments {
			assert.Equal(t, models.TransactionStatusConfirmed, d.Status)
			assert.Equal(t, TESTING_ADDRESS, d.DeployerAddress)
		}
	})
}
