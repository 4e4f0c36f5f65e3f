// Package farm provides the protocol's farm actions as workflow steps,
// presets that chain them for common conversions, and the graphs the swap
// and deposit routers search.
package farm

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/log"

	"github.com/branched-services/go-hooliganhorde/contracts"
	"github.com/branched-services/go-hooliganhorde/tokens"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

var (
	// ErrMissingToken indicates the registry lacks a token the farm routes through.
	ErrMissingToken = errors.New("farm: token missing from registry")

	// ErrNotWhitelisted indicates a deposit target that is not on the whitelist.
	ErrNotWhitelisted = errors.New("farm: token is not on the whitelist")

	// ErrNoInputToken indicates a deposit was estimated before its input was set.
	ErrNoInputToken = errors.New("farm: no input token set")

	// ErrPermitMode indicates a permit was supplied for a non-external balance.
	ErrPermitMode = errors.New("farm: permits only apply to external balances")
)

// Symbols the farm's presets and graphs are built from.
var routedSymbols = []string{"ETH", "WETH", "HOOLIGAN", "HOOLIGAN3CRV", "3CRV", "DAI", "USDC", "USDT"}

// Option configures a Farm.
type Option func(*Farm)

// WithLogger sets the logger. Default is the root logger.
func WithLogger(l log.Logger) Option {
	return func(f *Farm) {
		f.log = l
	}
}

// Farm builds steps against one deployment.
type Farm struct {
	book     *contracts.Book
	registry *tokens.Registry
	caller   ethereum.ContractCaller
	log      log.Logger
}

// New creates a Farm. Quotes are read through caller.
func New(book *contracts.Book, registry *tokens.Registry, caller ethereum.ContractCaller, opts ...Option) (*Farm, error) {
	for _, s := range routedSymbols {
		if _, ok := registry.FindBySymbol(s); !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingToken, s)
		}
	}
	f := &Farm{
		book:     book,
		registry: registry,
		caller:   caller,
		log:      log.Root(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.New("module", "farm")
	return f, nil
}

// Book returns the contracts the farm encodes against.
func (f *Farm) Book() *contracts.Book {
	return f.book
}

// Registry returns the token registry.
func (f *Farm) Registry() *tokens.Registry {
	return f.registry
}

// Create returns an empty workflow aggregated through farm(bytes[]).
func (f *Farm) Create(name string, opts ...workflow.Option) *workflow.Workflow {
	return workflow.New(name, workflow.NewFarmAggregator(f.book.Protocol), f.workflowOptions(opts)...)
}

// CreatePipe returns an empty workflow aggregated through advancedPipe.
func (f *Farm) CreatePipe(name string, opts ...workflow.Option) *workflow.Workflow {
	return workflow.New(name, workflow.NewPipeAggregator(f.book.Protocol), f.workflowOptions(opts)...)
}

func (f *Farm) workflowOptions(opts []workflow.Option) []workflow.Option {
	base := []workflow.Option{workflow.WithLogger(f.log), workflow.WithCaller(f.caller)}
	return append(base, opts...)
}

func (f *Farm) token(symbol string) *tokens.Token {
	return f.registry.MustFind(symbol)
}
