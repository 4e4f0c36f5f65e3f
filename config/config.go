// Package config loads SDK settings from a YAML file and HOOLIGANHORDE_
// environment variables.
//
// Priority, highest first:
//  1. Environment variables (HOOLIGANHORDE_ prefix, nested keys joined by _)
//  2. The file named by HOOLIGANHORDE_CONFIG_PATH
//  3. hooliganhorde.yaml in the working directory, then in the user config
//     directory under hooliganhorde/
//  4. [DefaultConfig]
package config

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-hooliganhorde/contracts"
	"github.com/branched-services/go-hooliganhorde/events"
	"github.com/branched-services/go-hooliganhorde/tokens"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

// ErrInvalidConfig indicates a setting that failed validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root configuration.
type Config struct {
	// RPCURL is the JSON-RPC endpoint Dial connects to.
	RPCURL string `mapstructure:"rpc_url"`

	// ChainID is the chain the contracts are deployed on.
	// Default: 1
	ChainID uint64 `mapstructure:"chain_id"`

	// Account is the default account in hex. Optional.
	Account string `mapstructure:"account"`

	// TokensFile is a token registry YAML file. Empty means the embedded
	// mainnet registry.
	TokensFile string `mapstructure:"tokens_file"`

	// Slippage is the default tolerated output shortfall in percent.
	// Default: 0.1
	Slippage float64 `mapstructure:"slippage"`

	// LogLevel is one of trace, debug, info, warn, error or crit.
	// Default: info
	LogLevel string `mapstructure:"log_level"`

	// Blocks are the first blocks event queries scan.
	Blocks BlocksConfig `mapstructure:"blocks"`

	// Contracts overrides deployment addresses, keyed like
	// contracts.ParseAddresses.
	Contracts map[string]string `mapstructure:"contracts"`
}

// BlocksConfig holds event query start blocks.
type BlocksConfig struct {
	Genesis uint64 `mapstructure:"genesis"`
	Market  uint64 `mapstructure:"market"`
}

// DefaultConfig returns mainnet defaults.
func DefaultConfig() *Config {
	return &Config{
		ChainID:  1,
		Slippage: 0.1,
		LogLevel: "info",
		Blocks: BlocksConfig{
			Genesis: events.GenesisBlock,
			Market:  events.MarketLaunchBlock,
		},
		Contracts: map[string]string{},
	}
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.ChainID == 0 {
		return fmt.Errorf("%w: chain_id must be set", ErrInvalidConfig)
	}
	if c.Account != "" && !common.IsHexAddress(c.Account) {
		return fmt.Errorf("%w: account %q", ErrInvalidConfig, c.Account)
	}
	if err := workflow.ValidateSlippage(c.Slippage); err != nil {
		return fmt.Errorf("%w: slippage %v: %v", ErrInvalidConfig, c.Slippage, err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Blocks.Market < c.Blocks.Genesis {
		return fmt.Errorf("%w: market block %d before genesis %d", ErrInvalidConfig, c.Blocks.Market, c.Blocks.Genesis)
	}
	if _, err := contracts.ParseAddresses(c.Contracts); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// AccountAddress returns Account as an address, or the zero address.
func (c *Config) AccountAddress() common.Address {
	return common.HexToAddress(c.Account)
}

// Addresses returns the deployment with overrides applied.
func (c *Config) Addresses() (contracts.Addresses, error) {
	return contracts.ParseAddresses(c.Contracts)
}

// StartBlocks returns the event query start blocks.
func (c *Config) StartBlocks() events.StartBlocks {
	return events.StartBlocks{Genesis: c.Blocks.Genesis, Market: c.Blocks.Market}
}

// Registry loads TokensFile, or the embedded registry when it is empty.
func (c *Config) Registry() (*tokens.Registry, error) {
	if c.TokensFile == "" {
		return tokens.Default()
	}
	return tokens.Load(c.TokensFile)
}
