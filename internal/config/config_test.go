package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
database_url: postgres://deployer@localhost:5432/deployments
env_base_path: ./out
timeout: 90s
private_key: "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
networks:
  rinkeby:
    rpc_url: https://rinkeby.example.org/v3/key
    chain_id: 4
    gas_limit: 6000000
  mainnet:
    rpc_url: https://mainnet.example.org/v3/key
    chain_id: 1
    private_key: "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
`

func newViper(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	if content != "" {
		path := filepath.Join(t.TempDir(), DefaultFileName+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultNetwork}, cfg.NetworkNames())
	assert.Equal(t, DefaultRPCURL, cfg.Networks[DefaultNetwork].RPCURL)
	assert.Equal(t, "..", cfg.EnvBasePath)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.Equal(t, []string{".", "node_modules"}, cfg.ImportDirs)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(newViper(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "postgres://deployer@localhost:5432/deployments", cfg.DatabaseURL)
	assert.Equal(t, "./out", cfg.EnvBasePath)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"mainnet", "rinkeby"}, cfg.NetworkNames())

	rinkeby, err := cfg.Network("rinkeby")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), rinkeby.ChainID)
	assert.Equal(t, uint64(6000000), rinkeby.GasLimit)
	assert.Equal(t, cfg.PrivateKey, rinkeby.PrivateKey)

	mainnet, err := cfg.Network("mainnet")
	require.NoError(t, err)
	assert.Equal(t, "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d", mainnet.PrivateKey)
}

func TestNetworkNotConfigured(t *testing.T) {
	cfg, err := Load(newViper(t, sampleConfig))
	require.NoError(t, err)

	_, err = cfg.Network("development")
	assert.ErrorIs(t, err, ErrNetworkNotConfigured)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(newViper(t, `
networks:
  rinkeby:
    rpc_url: not a url
`))
	assert.Error(t, err)
}

func TestBindEnvPrivateKey(t *testing.T) {
	t.Setenv("PRIVATE_KEY", "0xabc")
	v := newViper(t, "")
	BindEnv(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", cfg.PrivateKey)

	t.Setenv("LEASABLE_PRIVATE_KEY", "0xdef")
	cfg, err = Load(v)
	require.NoError(t, err)
	assert.Equal(t, "0xdef", cfg.PrivateKey)
}
