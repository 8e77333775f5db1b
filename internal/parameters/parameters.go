package parameters

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	NetworkRinkeby     = "rinkeby"
	NetworkMainnet     = "mainnet"
	NetworkDevelopment = "development"
)

//go:embed parameters.yaml
var defaultTable []byte

// DeploymentConfig holds the LeasableNft constructor arguments for one network
type DeploymentConfig struct {
	Name           string `yaml:"name" json:"name" validate:"required"`
	Symbol         string `yaml:"symbol" json:"symbol" validate:"required"`
	BaseTokenURI   string `yaml:"baseTokenURI" json:"baseTokenURI" validate:"required"`
	NotRevealedURI string `yaml:"notRevealedURI" json:"notRevealedURI" validate:"required"`
	// MintPrice is a decimal wei amount
	MintPrice    string `yaml:"mintPrice" json:"mintPrice" validate:"required,number"`
	MintingLimit uint64 `yaml:"mintingLimit" json:"mintingLimit"`
	MaxTokenID   uint64 `yaml:"maxTokenId" json:"maxTokenId" validate:"gt=0"`
}

// ConstructorArgs returns the values in constructor order:
// name, symbol, baseTokenURI, notRevealedURI, mintPrice, mintingLimit, maxTokenId.
func (c DeploymentConfig) ConstructorArgs() []any {
	return []any{
		c.Name,
		c.Symbol,
		c.BaseTokenURI,
		c.NotRevealedURI,
		c.MintPrice,
		c.MintingLimit,
		c.MaxTokenID,
	}
}

// Table is the static per-network configuration
type Table struct {
	Rinkeby DeploymentConfig `yaml:"rinkeby"`
	Mainnet DeploymentConfig `yaml:"mainnet"`
	Devnet  DeploymentConfig `yaml:"devnet"`
}

// ForNetwork selects the record for a network. Any name other than
// rinkeby or mainnet, including development and the empty string, gets devnet.
func (t Table) ForNetwork(network string) DeploymentConfig {
	switch network {
	case NetworkRinkeby:
		return t.Rinkeby
	case NetworkMainnet:
		return t.Mainnet
	default:
		return t.Devnet
	}
}

// Default returns the embedded table
func Default() (Table, error) {
	return Parse(defaultTable)
}

// Load reads a table from a YAML file
func Load(path string) (Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read parameters file: %w", err)
	}
	return Parse(content)
}

// Parse decodes and validates a YAML table
func Parse(content []byte) (Table, error) {
	var table Table
	if err := yaml.Unmarshal(content, &table); err != nil {
		return Table{}, fmt.Errorf("failed to parse parameters: %w", err)
	}
	if err := validator.New().Struct(table); err != nil {
		return Table{}, fmt.Errorf("invalid parameters: %w", err)
	}
	return table, nil
}
