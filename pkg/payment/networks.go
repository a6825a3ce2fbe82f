package payment

// evmNetworks maps EVM chain ids to the network names used in payment
// requirements.
var evmNetworks = map[int64]string{
	1:        "ethereum",
	137:      "polygon",
	8453:     "base",
	43114:    "avalanche",
	80002:    "polygon-amoy",
	84532:    "base-sepolia",
	43113:    "avalanche-fuji",
	11155111: "sepolia",
}

// solanaNetworks is the fixed set of network names a Solana payer can
// settle on.
var solanaNetworks = map[string]struct{}{
	"solana":         {},
	"solana-devnet":  {},
	"solana-testnet": {},
}

// DefaultEVMChainID is the chain an EVM payer settles on unless configured
// otherwise (Base mainnet).
const DefaultEVMChainID = 8453

// NetworkForChainID returns the requirement network name for an EVM chain id.
func NetworkForChainID(chainID int64) (string, bool) {
	name, ok := evmNetworks[chainID]
	return name, ok
}

// IsSolanaNetwork reports whether name is a Solana settlement network.
func IsSolanaNetwork(name string) bool {
	_, ok := solanaNetworks[name]
	return ok
}
