// Package hooliganhorde is a client SDK for the Hooliganhorde protocol.
//
// It composes protocol operations into workflows that can be estimated in
// either direction and submitted as one aggregated transaction, finds
// conversion routes between assets, and rebuilds account balances from the
// protocol's event log.
//
// # Basic Usage
//
// Dial a node and estimate a swap:
//
//	cfg, err := config.NewLoader().Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sdk, err := hooliganhorde.Dial(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sdk.Close()
//
//	eth, hooligan := sdk.Tokens.MustFind("ETH"), sdk.Tokens.MustFind("HOOLIGAN")
//	swap, err := sdk.BuildSwap(eth, hooligan, account, mode.External, mode.ToExternal)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := swap.Estimate(ctx, eth.One())
//
// # Components
//
//   - Farm builds single protocol actions as workflow steps.
//   - Swap routes between tokens; Deposits routes tokens into firm deposits.
//   - Events fetches and decodes the protocol's event log.
//   - Firm rebuilds deposit and withdrawal balances from those events.
//   - Hooligan reads the price and unripe chop rates.
//   - Root estimates and encodes ROOT mints from firm deposits.
//
// # Aggregation
//
// NewFarmWorkflow batches protocol calls through farm(bytes[]). Workflows
// that call other contracts and pass return data between calls use
// NewPipeWorkflow, which encodes through advancedPipe with clipboards.
package hooliganhorde
