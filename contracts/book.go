package contracts

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Addresses lists the deployed contracts the SDK talks to.
type Addresses struct {
	Protocol      common.Address
	Pipeline      common.Address
	Pool3         common.Address
	Tricrypto2    common.Address
	Hooligan3Crv  common.Address
	PoolRegistry  common.Address
	MetaFactory   common.Address
	CryptoFactory common.Address
	Price         common.Address
	Root          common.Address
}

// MainnetAddresses returns the mainnet deployment.
func MainnetAddresses() Addresses {
	return Addresses{
		Protocol:      common.HexToAddress("0xC1E088fC1323b20BCBee9bd1B9fC9546db5624C5"),
		Pipeline:      common.HexToAddress("0xb1bE0000bFdcDDc92A8290202830C4Ef689dCeaa"),
		Pool3:         common.HexToAddress("0xbEbc44782C7dB0a1A60Cb6fe97d0b483032FF1C7"),
		Tricrypto2:    common.HexToAddress("0xD51a44d3FaE010294C616388b506AcdA1bfAAE46"),
		Hooligan3Crv:  common.HexToAddress("0xc9C32cd16Bf7eFB85Ff14e0c8603cc90F6F2eE49"),
		PoolRegistry:  common.HexToAddress("0x90E00ACe148ca3b23Ac1bC8C240C2a7Dd9c2d7f5"),
		MetaFactory:   common.HexToAddress("0xB9fC157394Af804a3578134A6585C0dc9cc990d4"),
		CryptoFactory: common.HexToAddress("0xF18056Bbd320E96A48e3Fbf8bC061322531aac99"),
		Price:         common.HexToAddress("0xA57289161FF18D67A68841922264B317170b0b81"),
		Root:          common.HexToAddress("0x77700005BEA4DE0A78b956517f099260C2CA9a26"),
	}
}

// ParseAddresses builds Addresses from hex strings keyed like Addresses'
// fields in snake case. Missing keys keep the mainnet value.
func ParseAddresses(hex map[string]string) (Addresses, error) {
	a := MainnetAddresses()
	fields := map[string]*common.Address{
		"protocol":       &a.Protocol,
		"pipeline":       &a.Pipeline,
		"pool3":          &a.Pool3,
		"tricrypto2":     &a.Tricrypto2,
		"hooligan3crv":   &a.Hooligan3Crv,
		"pool_registry":  &a.PoolRegistry,
		"meta_factory":   &a.MetaFactory,
		"crypto_factory": &a.CryptoFactory,
		"price":          &a.Price,
		"root":           &a.Root,
	}
	for key, value := range hex {
		dst, ok := fields[key]
		if !ok {
			return Addresses{}, fmt.Errorf("%w: unknown contract %q", ErrInvalidAddress, key)
		}
		if value == "" {
			continue
		}
		if !common.IsHexAddress(value) {
			return Addresses{}, fmt.Errorf("%w: %s = %q", ErrInvalidAddress, key, value)
		}
		*dst = common.HexToAddress(value)
	}
	return a, nil
}

// Book holds a wrapper for every contract in Addresses.
type Book struct {
	Protocol      *Contract
	Pipeline      common.Address
	Pool3         *Contract
	Tricrypto2    *Contract
	Hooligan3Crv  *Contract
	PoolRegistry  *Contract
	MetaFactory   *Contract
	CryptoFactory *Contract
	Price         *Contract
	Root          *Contract

	erc20 *Contract
}

// NewBook parses the embedded ABIs and binds them to addrs.
func NewBook(addrs Addresses) (*Book, error) {
	parsed := make(map[string]*Contract)
	for _, entry := range []struct {
		name    string
		address common.Address
		json    string
	}{
		{"protocol", addrs.Protocol, ProtocolABI},
		{"pool3", addrs.Pool3, CurvePlainPoolABI},
		{"tricrypto2", addrs.Tricrypto2, CurveCryptoPoolABI},
		{"hooligan3crv", addrs.Hooligan3Crv, CurveMetaPoolABI},
		{"pool_registry", addrs.PoolRegistry, CurveRegistryABI},
		{"meta_factory", addrs.MetaFactory, CurveRegistryABI},
		{"crypto_factory", addrs.CryptoFactory, CurveCryptoRegistryABI},
		{"price", addrs.Price, PriceABI},
		{"root", addrs.Root, RootABI},
		{"erc20", common.Address{}, ERC20ABI},
	} {
		a, err := ParseABI(entry.json)
		if err != nil {
			return nil, fmt.Errorf("contracts: parse %s abi: %w", entry.name, err)
		}
		parsed[entry.name] = New(entry.name, entry.address, a)
	}

	return &Book{
		Protocol:      parsed["protocol"],
		Pipeline:      addrs.Pipeline,
		Pool3:         parsed["pool3"],
		Tricrypto2:    parsed["tricrypto2"],
		Hooligan3Crv:  parsed["hooligan3crv"],
		PoolRegistry:  parsed["pool_registry"],
		MetaFactory:   parsed["meta_factory"],
		CryptoFactory: parsed["crypto_factory"],
		Price:         parsed["price"],
		Root:          parsed["root"],
		erc20:         parsed["erc20"],
	}, nil
}

// ERC20 returns an ERC-20 wrapper bound to token.
func (b *Book) ERC20(name string, token common.Address) *Contract {
	return b.erc20.At(name, token)
}

// MustNewBook is like NewBook but panics on error.
func MustNewBook(addrs Addresses) *Book {
	b, err := NewBook(addrs)
	if err != nil {
		panic(err)
	}
	return b
}
