package hooliganhorde

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"

	"github.com/branched-services/go-hooliganhorde/config"
	"github.com/branched-services/go-hooliganhorde/contracts"
	"github.com/branched-services/go-hooliganhorde/events"
	"github.com/branched-services/go-hooliganhorde/farm"
	"github.com/branched-services/go-hooliganhorde/firm"
	"github.com/branched-services/go-hooliganhorde/hooligan"
	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/permit"
	"github.com/branched-services/go-hooliganhorde/root"
	"github.com/branched-services/go-hooliganhorde/route"
	"github.com/branched-services/go-hooliganhorde/tokens"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

var (
	// ErrChainMismatch indicates the node serves a different chain than configured.
	ErrChainMismatch = errors.New("hooliganhorde: chain id mismatch")

	// ErrNoTransactor indicates transact options were given for a backend
	// that cannot send transactions.
	ErrNoTransactor = errors.New("hooliganhorde: backend cannot send transactions")
)

// Backend is the chain connection the SDK reads through. *ethclient.Client
// implements it.
type Backend interface {
	ethereum.ContractCaller
	events.LogFilterer
}

// Option configures an SDK.
type Option func(*SDK)

// WithLogger sets the logger. Default is the root logger.
func WithLogger(l log.Logger) Option {
	return func(s *SDK) {
		s.log = l
	}
}

// WithSubmitter sets the submitter new workflows execute through.
func WithSubmitter(sub workflow.Submitter) Option {
	return func(s *SDK) {
		s.submitter = sub
	}
}

// WithTransactOpts submits workflows through the backend, signing with
// opts. The backend must implement workflow.Backend.
func WithTransactOpts(opts *bind.TransactOpts) Option {
	return func(s *SDK) {
		s.transactOpts = opts
	}
}

// SDK bundles the components bound to one deployment and connection.
type SDK struct {
	Config    *config.Config
	Tokens    *tokens.Registry
	Contracts *contracts.Book
	Farm      *farm.Farm
	Swap      *route.Router
	Deposits  *farm.DepositBuilder
	Events    *events.Fetcher
	Firm      *firm.Firm
	Hooligan  *hooligan.Hooligan
	Root      *root.Root

	backend      Backend
	client       *ethclient.Client
	submitter    workflow.Submitter
	transactOpts *bind.TransactOpts
	log          log.Logger
}

// New creates an SDK reading through backend. A nil cfg means
// config.DefaultConfig.
func New(cfg *config.Config, backend Backend, opts ...Option) (*SDK, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &SDK{Config: cfg, backend: backend, log: log.Root()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.New("module", "sdk")

	if s.transactOpts != nil {
		wb, ok := backend.(workflow.Backend)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrNoTransactor, backend)
		}
		s.submitter = workflow.NewBoundSubmitter(wb, s.transactOpts)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("hooliganhorde: tokens: %w", err)
	}
	addrs, err := cfg.Addresses()
	if err != nil {
		return nil, err
	}
	book, err := contracts.NewBook(addrs)
	if err != nil {
		return nil, err
	}
	f, err := farm.New(book, reg, backend, farm.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	s.Tokens = reg
	s.Contracts = book
	s.Farm = f
	s.Swap = f.SwapRouter()
	s.Deposits = f.NewDepositBuilder()
	s.Events = events.NewFetcher(backend, book.Protocol.Address(), book.Protocol.ABI(),
		events.WithStartBlocks(cfg.StartBlocks()), events.WithFetcherLogger(s.log))
	s.Firm = firm.New(reg, book.Protocol, backend, s.Events, firm.WithLogger(s.log))
	s.Hooligan = hooligan.New(book, backend, hooligan.WithLogger(s.log))
	s.Root = root.New(book.Root, s.Firm, backend, root.WithLogger(s.log))
	return s, nil
}

// Dial connects to cfg.RPCURL and checks the node's chain id.
func Dial(ctx context.Context, cfg *config.Config, opts ...Option) (*SDK, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("hooliganhorde: dial %s: %w", cfg.RPCURL, err)
	}
	id, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("hooliganhorde: chain id: %w", err)
	}
	if !id.IsUint64() || id.Uint64() != cfg.ChainID {
		client.Close()
		return nil, fmt.Errorf("%w: node %s, configured %d", ErrChainMismatch, id, cfg.ChainID)
	}
	s, err := New(cfg, client, opts...)
	if err != nil {
		client.Close()
		return nil, err
	}
	s.client = client
	s.log.Info("Connected", "chain", id, "protocol", s.Contracts.Protocol.Address())
	return s, nil
}

// Close releases the connection opened by Dial.
func (s *SDK) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// ExecuteOptions returns the configured default execution options.
func (s *SDK) ExecuteOptions() workflow.ExecuteOptions {
	return workflow.ExecuteOptions{Slippage: s.Config.Slippage}
}

func (s *SDK) workflowOptions(extra ...workflow.Option) []workflow.Option {
	opts := []workflow.Option{workflow.WithAccount(s.Config.AccountAddress())}
	if s.submitter != nil {
		opts = append(opts, workflow.WithSubmitter(s.submitter))
	}
	return append(opts, extra...)
}

// NewFarmWorkflow returns an empty workflow aggregated through farm(bytes[]).
func (s *SDK) NewFarmWorkflow(name string, opts ...workflow.Option) *workflow.Workflow {
	return s.Farm.Create(name, s.workflowOptions(opts...)...)
}

// NewPipeWorkflow returns an empty workflow aggregated through advancedPipe.
func (s *SDK) NewPipeWorkflow(name string, opts ...workflow.Option) *workflow.Workflow {
	return s.Farm.CreatePipe(name, s.workflowOptions(opts...)...)
}

// BuildSwap returns a workflow converting from into to on behalf of account.
func (s *SDK) BuildSwap(from, to *tokens.Token, account common.Address, fromMode mode.From, toMode mode.To) (*workflow.Workflow, error) {
	r := s.Swap.GetRoute(from.Symbol, to.Symbol)
	steps, err := r.Materialize(account, fromMode, toMode)
	if err != nil {
		return nil, fmt.Errorf("hooliganhorde: swap %s to %s: %w", from.Symbol, to.Symbol, err)
	}
	w := s.NewFarmWorkflow(fmt.Sprintf("swap %s to %s", from.Symbol, to.Symbol), workflow.WithAccount(account))
	if err := w.Add(steps...); err != nil {
		return nil, err
	}
	return w, nil
}

// BuildDeposit returns an operation depositing into target on behalf of
// account.
func (s *SDK) BuildDeposit(target *tokens.Token, account common.Address) (*farm.DepositOperation, error) {
	var opts []workflow.Option
	if s.submitter != nil {
		opts = append(opts, workflow.WithSubmitter(s.submitter))
	}
	return s.Deposits.BuildDeposit(target, account, opts...)
}

// MintRoots submits a mint of ROOT from transfers through the configured
// submitter.
func (s *SDK) MintRoots(ctx context.Context, transfers []root.DepositTransfer, to mode.To, minOut *big.Int, p *permit.Signed) (*workflow.Transaction, error) {
	if s.submitter == nil {
		return nil, workflow.ErrNoSubmitter
	}
	call, err := s.Root.Mint(transfers, to, minOut, p)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Submitting root mint", "transfers", len(transfers), "root", call.Target())
	return s.submitter.Submit(ctx, call)
}

// Season returns the protocol's current season.
func (s *SDK) Season(ctx context.Context) (uint32, error) {
	return s.Firm.Season(ctx)
}

// FieldBalance is an account's plots split at the draftable index.
type FieldBalance struct {
	DraftableIndex *big.Int
	events.FieldSummary
}

// FieldBalance rebuilds account's plots from its field events.
func (s *SDK) FieldBalance(ctx context.Context, account common.Address) (*FieldBalance, error) {
	var (
		season uint32
		index  *big.Int
		evs    []events.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		season, err = s.Firm.Season(gctx)
		return err
	})
	g.Go(func() (err error) {
		index, err = s.Contracts.Protocol.ReadBig(gctx, s.backend, "draftableIndex")
		return err
	})
	g.Go(func() (err error) {
		evs, err = s.Events.FieldEvents(gctx, account, events.BlockRange{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data, err := s.process(account, season, evs)
	if err != nil {
		return nil, err
	}
	return &FieldBalance{DraftableIndex: index, FieldSummary: data.Plots.SplitDraftable(index)}, nil
}

// MarketState is an account's open and settled marketplace entries, keyed
// by listing index or order id.
type MarketState struct {
	Listings map[string]*events.Listing
	Orders   map[string]*events.Order
}

// Market rebuilds account's rookie listings and orders from its market
// events.
func (s *SDK) Market(ctx context.Context, account common.Address) (*MarketState, error) {
	evs, err := s.Events.MarketEvents(ctx, account, events.BlockRange{})
	if err != nil {
		return nil, err
	}
	data, err := s.process(account, 0, evs)
	if err != nil {
		return nil, err
	}
	return &MarketState{Listings: data.Listings, Orders: data.Orders}, nil
}

func (s *SDK) process(account common.Address, season uint32, evs []events.Event) (*events.Data, error) {
	p, err := events.NewProcessor(s.Tokens, account, events.Params{Season: season, Whitelist: s.Tokens.Whitelist()},
		events.WithProcessorLogger(s.log))
	if err != nil {
		return nil, err
	}
	return p.IngestAll(evs)
}
