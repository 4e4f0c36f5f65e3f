package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "HOOLIGANHORDE"

	// EnvConfigPath names a config file to load instead of searching.
	EnvConfigPath = EnvPrefix + "_CONFIG_PATH"

	configName = "hooliganhorde"
)

// Loader reads configuration through viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader seeded with DefaultConfig and environment
// overrides.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("rpc_url", d.RPCURL)
	v.SetDefault("chain_id", d.ChainID)
	v.SetDefault("account", d.Account)
	v.SetDefault("tokens_file", d.TokensFile)
	v.SetDefault("slippage", d.Slippage)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("blocks.genesis", d.Blocks.Genesis)
	v.SetDefault("blocks.market", d.Blocks.Market)
	v.SetDefault("contracts", d.Contracts)
	return &Loader{v: v}
}

// Load reads the file named by HOOLIGANHORDE_CONFIG_PATH, or searches for
// hooliganhorde.yaml. A missing file yields the defaults with environment
// overrides.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return l.LoadFromFile(path)
	}

	l.v.SetConfigName(configName)
	l.v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(dir, configName))
	}
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}
	return l.decode()
}

// LoadFromFile reads path. Environment overrides still apply.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Contracts == nil {
		cfg.Contracts = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is like Load on a new Loader but panics on error.
func MustLoad() *Config {
	cfg, err := NewLoader().Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
