package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	EnvPrefix       = "LEASABLE"
	DefaultNetwork  = "development"
	DefaultFileName = "leasable-deploy"
)

var ErrNetworkNotConfigured = errors.New("network not configured")

// NetworkConfig is one entry of the networks table
type NetworkConfig struct {
	RPCURL string `mapstructure:"rpc_url" validate:"required,url"`
	// ChainID is checked against the node when set
	ChainID uint64 `mapstructure:"chain_id"`
	// PrivateKey overrides the top level key for this network
	PrivateKey string `mapstructure:"private_key"`
	GasLimit   uint64 `mapstructure:"gas_limit"`
}

type Config struct {
	Networks     map[string]NetworkConfig `mapstructure:"networks" validate:"dive"`
	DatabaseURL  string                   `mapstructure:"database_url" validate:"required"`
	EnvBasePath  string                   `mapstructure:"env_base_path" validate:"required"`
	ArtifactsDir string                   `mapstructure:"artifacts_dir" validate:"required"`
	ImportDirs   []string                 `mapstructure:"import_dirs"`
	SolcVersion  string                   `mapstructure:"solc_version"`
	PrivateKey   string                   `mapstructure:"private_key"`
	Timeout      time.Duration            `mapstructure:"timeout" validate:"gt=0"`
}

// DefaultRPCURL is used for the development network when no networks are configured
const DefaultRPCURL = "http://127.0.0.1:8545"

// SetDefaults registers defaults for everything but the networks table,
// which Load fills with a local development network when it is empty.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "./data/deployments.db")
	v.SetDefault("env_base_path", "..")
	v.SetDefault("artifacts_dir", "./build/contracts")
	v.SetDefault("import_dirs", []string{".", "node_modules"})
	v.SetDefault("solc_version", "0.8.24")
	v.SetDefault("timeout", 10*time.Minute)
}

// BindEnv wires LEASABLE_* variables and the bare PRIVATE_KEY used by most hardhat/truffle setups
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("private_key", EnvPrefix+"_PRIVATE_KEY", "PRIVATE_KEY")
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Networks) == 0 {
		cfg.Networks = map[string]NetworkConfig{
			DefaultNetwork: {RPCURL: DefaultRPCURL},
		}
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Network returns the settings for a network name, with the top level
// private key filled in when the network has none.
func (c *Config) Network(name string) (NetworkConfig, error) {
	network, ok := c.Networks[name]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("%w: %q (configured: %s)", ErrNetworkNotConfigured, name, strings.Join(c.NetworkNames(), ", "))
	}
	if network.PrivateKey == "" {
		network.PrivateKey = c.PrivateKey
	}
	return network, nil
}

// NetworkNames returns the configured network names sorted
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
