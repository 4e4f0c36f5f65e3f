package contracts

// Contract ABIs as JSON. Only the methods and events this module touches are
// included.

// ProtocolABI is the protocol diamond: farm entry points, views and events.
const ProtocolABI = `[
	{"type": "function", "name": "farm", "stateMutability": "payable", "inputs": [{"name": "data", "type": "bytes[]"}], "outputs": [{"name": "results", "type": "bytes[]"}]},
	{"type": "function", "name": "advancedPipe", "stateMutability": "payable", "inputs": [{"name": "pipes", "type": "tuple[]", "components": [{"name": "target", "type": "address"}, {"name": "callData", "type": "bytes"}, {"name": "clipboard", "type": "bytes"}]}, {"name": "value", "type": "uint256"}], "outputs": [{"name": "results", "type": "bytes[]"}]},
	{"type": "function", "name": "wrapEth", "stateMutability": "payable", "inputs": [{"name": "amount", "type": "uint256"}, {"name": "mode", "type": "uint8"}], "outputs": []},
	{"type": "function", "name": "unwrapEth", "stateMutability": "payable", "inputs": [{"name": "amount", "type": "uint256"}, {"name": "mode", "type": "uint8"}], "outputs": []},
	{"type": "function", "name": "transferToken", "stateMutability": "payable", "inputs": [{"name": "token", "type": "address"}, {"name": "recipient", "type": "address"}, {"name": "amount", "type": "uint256"}, {"name": "fromMode", "type": "uint8"}, {"name": "toMode", "type": "uint8"}], "outputs": []},
	{"type": "function", "name": "permitERC20", "stateMutability": "payable", "inputs": [{"name": "token", "type": "address"}, {"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}, {"name": "value", "type": "uint256"}, {"name": "deadline", "type": "uint256"}, {"name": "v", "type": "uint8"}, {"name": "r", "type": "bytes32"}, {"name": "s", "type": "bytes32"}], "outputs": []},
	{"type": "function", "name": "exchange", "stateMutability": "payable", "inputs": [{"name": "pool", "type": "address"}, {"name": "registry", "type": "address"}, {"name": "fromToken", "type": "address"}, {"name": "toToken", "type": "address"}, {"name": "amountIn", "type": "uint256"}, {"name": "minAmountOut", "type": "uint256"}, {"name": "fromMode", "type": "uint8"}, {"name": "toMode", "type": "uint8"}], "outputs": []},
	{"type": "function", "name": "exchangeUnderlying", "stateMutability": "payable", "inputs": [{"name": "pool", "type": "address"}, {"name": "fromToken", "type": "address"}, {"name": "toToken", "type": "address"}, {"name": "amountIn", "type": "uint256"}, {"name": "minAmountOut", "type": "uint256"}, {"name": "fromMode", "type": "uint8"}, {"name": "toMode", "type": "uint8"}], "outputs": []},
	{"type": "function", "name": "addLiquidity", "stateMutability": "payable", "inputs": [{"name": "pool", "type": "address"}, {"name": "registry", "type": "address"}, {"name": "amounts", "type": "uint256[]"}, {"name": "minAmountOut", "type": "uint256"}, {"name": "fromMode", "type": "uint8"}, {"name": "toMode", "type": "uint8"}], "outputs": []},
	{"type": "function", "name": "deposit", "stateMutability": "payable", "inputs": [{"name": "token", "type": "address"}, {"name": "amount", "type": "uint256"}, {"name": "mode", "type": "uint8"}], "outputs": []},
	{"type": "function", "name": "permitDeposit", "stateMutability": "payable", "inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}, {"name": "token", "type": "address"}, {"name": "value", "type": "uint256"}, {"name": "deadline", "type": "uint256"}, {"name": "v", "type": "uint8"}, {"name": "r", "type": "bytes32"}, {"name": "s", "type": "bytes32"}], "outputs": []},
	{"type": "function", "name": "permitDeposits", "stateMutability": "payable", "inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}, {"name": "tokens", "type": "address[]"}, {"name": "values", "type": "uint256[]"}, {"name": "deadline", "type": "uint256"}, {"name": "v", "type": "uint8"}, {"name": "r", "type": "bytes32"}, {"name": "s", "type": "bytes32"}], "outputs": []},
	{"type": "function", "name": "season", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "uint32"}]},
	{"type": "function", "name": "draftableIndex", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "bdv", "stateMutability": "view", "inputs": [{"name": "token", "type": "address"}, {"name": "amount", "type": "uint256"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "balanceOfHorde", "stateMutability": "view", "inputs": [{"name": "account", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "balanceOfProspects", "stateMutability": "view", "inputs": [{"name": "account", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "balanceOfEarnedHooligans", "stateMutability": "view", "inputs": [{"name": "account", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "balanceOfEarnedHorde", "stateMutability": "view", "inputs": [{"name": "account", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "balanceOfEarnedProspects", "stateMutability": "view", "inputs": [{"name": "account", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "balanceOfGrownHorde", "stateMutability": "view", "inputs": [{"name": "account", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "update", "stateMutability": "payable", "inputs": [{"name": "account", "type": "address"}], "outputs": []},
	{"type": "function", "name": "plant", "stateMutability": "payable", "inputs": [], "outputs": [{"name": "hooligans", "type": "uint256"}]},
	{"type": "function", "name": "getPercentPenalty", "stateMutability": "view", "inputs": [{"name": "unripeToken", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "getTotalUnderlying", "stateMutability": "view", "inputs": [{"name": "unripeToken", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "event", "name": "AddDeposit", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "token", "type": "address", "indexed": true}, {"name": "season", "type": "uint32", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}, {"name": "bdv", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "RemoveDeposit", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "token", "type": "address", "indexed": true}, {"name": "season", "type": "uint32", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "RemoveDeposits", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "token", "type": "address", "indexed": true}, {"name": "seasons", "type": "uint32[]", "indexed": false}, {"name": "amounts", "type": "uint256[]", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "AddWithdrawal", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "token", "type": "address", "indexed": true}, {"name": "season", "type": "uint32", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "RemoveWithdrawal", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "token", "type": "address", "indexed": true}, {"name": "season", "type": "uint32", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "RemoveWithdrawals", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "token", "type": "address", "indexed": true}, {"name": "seasons", "type": "uint32[]", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "Sow", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "index", "type": "uint256", "indexed": false}, {"name": "hooligans", "type": "uint256", "indexed": false}, {"name": "rookies", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "Draft", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "plots", "type": "uint256[]", "indexed": false}, {"name": "hooligans", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "PlotTransfer", "anonymous": false, "inputs": [{"name": "from", "type": "address", "indexed": true}, {"name": "to", "type": "address", "indexed": true}, {"name": "id", "type": "uint256", "indexed": true}, {"name": "rookies", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "RookieListingCreated", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "index", "type": "uint256", "indexed": false}, {"name": "start", "type": "uint256", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}, {"name": "pricePerRookie", "type": "uint24", "indexed": false}, {"name": "maxDraftableIndex", "type": "uint256", "indexed": false}, {"name": "mode", "type": "uint8", "indexed": false}]},
	{"type": "event", "name": "RookieListingCancelled", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "index", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "RookieListingFilled", "anonymous": false, "inputs": [{"name": "from", "type": "address", "indexed": true}, {"name": "to", "type": "address", "indexed": true}, {"name": "index", "type": "uint256", "indexed": false}, {"name": "start", "type": "uint256", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "RookieOrderCreated", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "id", "type": "bytes32", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}, {"name": "pricePerRookie", "type": "uint24", "indexed": false}, {"name": "maxPlaceInLine", "type": "uint256", "indexed": false}]},
	{"type": "event", "name": "RookieOrderCancelled", "anonymous": false, "inputs": [{"name": "account", "type": "address", "indexed": true}, {"name": "id", "type": "bytes32", "indexed": false}]},
	{"type": "event", "name": "RookieOrderFilled", "anonymous": false, "inputs": [{"name": "from", "type": "address", "indexed": true}, {"name": "to", "type": "address", "indexed": true}, {"name": "id", "type": "bytes32", "indexed": false}, {"name": "index", "type": "uint256", "indexed": false}, {"name": "start", "type": "uint256", "indexed": false}, {"name": "amount", "type": "uint256", "indexed": false}]}
]`

// CurveMetaPoolABI is a two-coin Curve metapool with underlying exchange.
const CurveMetaPoolABI = `[
	{"type": "function", "name": "get_dy", "stateMutability": "view", "inputs": [{"name": "i", "type": "int128"}, {"name": "j", "type": "int128"}, {"name": "dx", "type": "uint256"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "get_dy_underlying", "stateMutability": "view", "inputs": [{"name": "i", "type": "int128"}, {"name": "j", "type": "int128"}, {"name": "dx", "type": "uint256"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "calc_token_amount", "stateMutability": "view", "inputs": [{"name": "amounts", "type": "uint256[2]"}, {"name": "is_deposit", "type": "bool"}], "outputs": [{"name": "", "type": "uint256"}]}
]`

// CurvePlainPoolABI is a three-coin Curve stable pool.
const CurvePlainPoolABI = `[
	{"type": "function", "name": "get_dy", "stateMutability": "view", "inputs": [{"name": "i", "type": "int128"}, {"name": "j", "type": "int128"}, {"name": "dx", "type": "uint256"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "calc_token_amount", "stateMutability": "view", "inputs": [{"name": "amounts", "type": "uint256[3]"}, {"name": "deposit", "type": "bool"}], "outputs": [{"name": "", "type": "uint256"}]}
]`

// CurveCryptoPoolABI is a three-coin Curve crypto pool with uint256 indices.
const CurveCryptoPoolABI = `[
	{"type": "function", "name": "get_dy", "stateMutability": "view", "inputs": [{"name": "i", "type": "uint256"}, {"name": "j", "type": "uint256"}, {"name": "dx", "type": "uint256"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "calc_token_amount", "stateMutability": "view", "inputs": [{"name": "amounts", "type": "uint256[3]"}, {"name": "deposit", "type": "bool"}], "outputs": [{"name": "", "type": "uint256"}]}
]`

// CurveRegistryABI is a Curve registry or meta factory with int128 coin indices.
const CurveRegistryABI = `[
	{"type": "function", "name": "get_coin_indices", "stateMutability": "view", "inputs": [{"name": "pool", "type": "address"}, {"name": "from", "type": "address"}, {"name": "to", "type": "address"}], "outputs": [{"name": "", "type": "int128"}, {"name": "", "type": "int128"}, {"name": "", "type": "bool"}]}
]`

// CurveCryptoRegistryABI is a Curve crypto factory with uint256 coin indices.
const CurveCryptoRegistryABI = `[
	{"type": "function", "name": "get_coin_indices", "stateMutability": "view", "inputs": [{"name": "pool", "type": "address"}, {"name": "from", "type": "address"}, {"name": "to", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}, {"name": "", "type": "uint256"}]}
]`

// ERC20ABI covers the token reads.
const ERC20ABI = `[
	{"type": "function", "name": "totalSupply", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "balanceOf", "stateMutability": "view", "inputs": [{"name": "account", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]}
]`

// PriceABI is the protocol's price aggregator.
const PriceABI = `[
	{"type": "function", "name": "price", "stateMutability": "view", "inputs": [], "outputs": [{"name": "p", "type": "tuple", "components": [{"name": "price", "type": "uint256"}, {"name": "liquidity", "type": "uint256"}, {"name": "deltaB", "type": "int256"}, {"name": "pools", "type": "tuple[]", "components": [{"name": "pool", "type": "address"}, {"name": "tokens", "type": "address[2]"}, {"name": "balances", "type": "uint256[2]"}, {"name": "price", "type": "uint256"}, {"name": "liquidity", "type": "uint256"}, {"name": "deltaB", "type": "int256"}, {"name": "lpUsd", "type": "uint256"}, {"name": "lpBdv", "type": "uint256"}]}]}]}
]`

// RootABI is the ROOT token, minted from transferred deposits.
const RootABI = `[
	{"type": "function", "name": "totalSupply", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "balanceOf", "stateMutability": "view", "inputs": [{"name": "account", "type": "address"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "underlyingBdv", "stateMutability": "view", "inputs": [], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "mint", "stateMutability": "nonpayable", "inputs": [{"name": "depositTransfers", "type": "tuple[]", "components": [{"name": "token", "type": "address"}, {"name": "seasons", "type": "uint32[]"}, {"name": "amounts", "type": "uint256[]"}]}, {"name": "mode", "type": "uint8"}, {"name": "minRootsOut", "type": "uint256"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "mintWithTokenPermit", "stateMutability": "nonpayable", "inputs": [{"name": "depositTransfers", "type": "tuple[]", "components": [{"name": "token", "type": "address"}, {"name": "seasons", "type": "uint32[]"}, {"name": "amounts", "type": "uint256[]"}]}, {"name": "mode", "type": "uint8"}, {"name": "minRootsOut", "type": "uint256"}, {"name": "token", "type": "address"}, {"name": "value", "type": "uint256"}, {"name": "deadline", "type": "uint256"}, {"name": "v", "type": "uint8"}, {"name": "r", "type": "bytes32"}, {"name": "s", "type": "bytes32"}], "outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "mintWithTokensPermit", "stateMutability": "nonpayable", "inputs": [{"name": "depositTransfers", "type": "tuple[]", "components": [{"name": "token", "type": "address"}, {"name": "seasons", "type": "uint32[]"}, {"name": "amounts", "type": "uint256[]"}]}, {"name": "mode", "type": "uint8"}, {"name": "minRootsOut", "type": "uint256"}, {"name": "tokens", "type": "address[]"}, {"name": "values", "type": "uint256[]"}, {"name": "deadline", "type": "uint256"}, {"name": "v", "type": "uint8"}, {"name": "r", "type": "bytes32"}, {"name": "s", "type": "bytes32"}], "outputs": [{"name": "", "type": "uint256"}]}
]`
