package tokens

import (
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// MaxRegistryFileSize bounds registry files read from disk.
const MaxRegistryFileSize = 1 << 20

//go:embed tokens.yaml
var defaultRegistryYAML []byte

var (
	// ErrDuplicateToken indicates two registry entries share a symbol or address.
	ErrDuplicateToken = errors.New("tokens: duplicate token")

	// ErrInvalidToken indicates a registry entry failed validation.
	ErrInvalidToken = errors.New("tokens: invalid token entry")

	// ErrRegistryTooLarge indicates a registry file exceeds MaxRegistryFileSize.
	ErrRegistryTooLarge = errors.New("tokens: registry file too large")

	// ErrMissingRewardToken indicates the HORDE or PROSPECT entry is absent.
	ErrMissingRewardToken = errors.New("tokens: registry needs HORDE and PROSPECT entries")
)

// Reward token symbols.
const (
	SymbolHorde     = "HORDE"
	SymbolProspects = "PROSPECT"
)

type registryFile struct {
	Tokens []tokenEntry `yaml:"tokens"`
}

type tokenEntry struct {
	Symbol      string `yaml:"symbol"`
	Name        string `yaml:"name"`
	Address     string `yaml:"address"`
	Decimals    uint8  `yaml:"decimals"`
	Native      bool   `yaml:"native"`
	LP          bool   `yaml:"lp"`
	Unripe      bool   `yaml:"unripe"`
	Internal    bool   `yaml:"internal"`
	Whitelisted bool   `yaml:"whitelisted"`
	Horde       string `yaml:"horde"`
	Prospects   string `yaml:"prospects"`
}

// Registry indexes tokens by address and symbol. A Registry is read-only once
// built and safe for concurrent use.
type Registry struct {
	tokens    []*Token
	byAddress map[common.Address]*Token
	bySymbol  map[string]*Token
	whitelist []*Token
}

// NewRegistry builds a registry from tokens, preserving their order.
// Internal tokens have no address and are only reachable by symbol.
func NewRegistry(tokens ...*Token) (*Registry, error) {
	r := &Registry{
		tokens:    make([]*Token, 0, len(tokens)),
		byAddress: make(map[common.Address]*Token, len(tokens)),
		bySymbol:  make(map[string]*Token, len(tokens)),
	}
	for _, t := range tokens {
		if t.Symbol == "" {
			return nil, fmt.Errorf("%w: empty symbol", ErrInvalidToken)
		}
		key := strings.ToUpper(t.Symbol)
		if _, ok := r.bySymbol[key]; ok {
			return nil, fmt.Errorf("%w: symbol %s", ErrDuplicateToken, t.Symbol)
		}
		if !t.Internal {
			if _, ok := r.byAddress[t.Address]; ok {
				return nil, fmt.Errorf("%w: address %s", ErrDuplicateToken, t.Address.Hex())
			}
			r.byAddress[t.Address] = t
		}
		if t.Whitelisted {
			if t.Rewards == nil {
				return nil, fmt.Errorf("%w: whitelisted %s has no rewards", ErrInvalidToken, t.Symbol)
			}
			r.whitelist = append(r.whitelist, t)
		}
		r.bySymbol[key] = t
		r.tokens = append(r.tokens, t)
	}
	return r, nil
}

// Default returns the registry built from the embedded mainnet token list.
func Default() (*Registry, error) {
	return Parse(defaultRegistryYAML)
}

// MustDefault is like Default but panics on error.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Load reads a registry from a YAML file.
func Load(path string) (*Registry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("tokens: stat registry: %w", err)
	}
	if info.Size() > MaxRegistryFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrRegistryTooLarge, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tokens: read registry: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML. Reward rates are given in whole HORDE
// and PROSPECT units and scaled by the decimals of those entries.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("tokens: parse registry: %w", err)
	}

	var hordeDecimals, prospectDecimals int = -1, -1
	for _, e := range file.Tokens {
		switch e.Symbol {
		case SymbolHorde:
			hordeDecimals = int(e.Decimals)
		case SymbolProspects:
			prospectDecimals = int(e.Decimals)
		}
	}

	tokens := make([]*Token, 0, len(file.Tokens))
	for _, e := range file.Tokens {
		t := &Token{
			Symbol:      e.Symbol,
			Name:        e.Name,
			Decimals:    e.Decimals,
			Native:      e.Native,
			LP:          e.LP,
			Unripe:      e.Unripe,
			Internal:    e.Internal,
			Whitelisted: e.Whitelisted,
		}
		if !e.Internal {
			if !common.IsHexAddress(e.Address) {
				return nil, fmt.Errorf("%w: %s address %q", ErrInvalidToken, e.Symbol, e.Address)
			}
			t.Address = common.HexToAddress(e.Address)
		}
		if e.Horde != "" || e.Prospects != "" {
			if hordeDecimals < 0 || prospectDecimals < 0 {
				return nil, ErrMissingRewardToken
			}
			horde, err := scale(e.Horde, hordeDecimals)
			if err != nil {
				return nil, fmt.Errorf("%w: %s horde: %v", ErrInvalidToken, e.Symbol, err)
			}
			prospects, err := scale(e.Prospects, prospectDecimals)
			if err != nil {
				return nil, fmt.Errorf("%w: %s prospects: %v", ErrInvalidToken, e.Symbol, err)
			}
			t.Rewards = &Rewards{Horde: horde, Prospects: prospects}
		}
		tokens = append(tokens, t)
	}
	return NewRegistry(tokens...)
}

// scale converts a decimal string in whole units to raw units.
func scale(amount string, decimals int) (*big.Int, error) {
	if amount == "" {
		return new(big.Int), nil
	}
	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(unit))
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %q exceeds %d decimals", amount, decimals)
	}
	return new(big.Int).Set(r.Num()), nil
}

// FindByAddress returns the token at addr.
func (r *Registry) FindByAddress(addr common.Address) (*Token, bool) {
	t, ok := r.byAddress[addr]
	return t, ok
}

// FindBySymbol returns the token with the given symbol, case-insensitively.
func (r *Registry) FindBySymbol(symbol string) (*Token, bool) {
	t, ok := r.bySymbol[strings.ToUpper(symbol)]
	return t, ok
}

// MustFind is like FindBySymbol but panics when the symbol is unknown.
func (r *Registry) MustFind(symbol string) *Token {
	t, ok := r.FindBySymbol(symbol)
	if !ok {
		panic(fmt.Sprintf("tokens: unknown symbol %q", symbol))
	}
	return t
}

// Whitelist returns the firm-whitelisted tokens in registry order.
func (r *Registry) Whitelist() []*Token {
	out := make([]*Token, len(r.whitelist))
	copy(out, r.whitelist)
	return out
}

// IsWhitelisted reports whether t is on this registry's whitelist.
func (r *Registry) IsWhitelisted(t *Token) bool {
	for _, w := range r.whitelist {
		if w == t {
			return true
		}
	}
	return false
}

// All returns every token in registry order.
func (r *Registry) All() []*Token {
	out := make([]*Token, len(r.tokens))
	copy(out, r.tokens)
	return out
}

// Len returns the number of tokens.
func (r *Registry) Len() int {
	return len(r.tokens)
}
