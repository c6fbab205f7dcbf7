// Package eth carries static chain metadata used when signing
// transactions. There is deliberately no RPC client here.
package eth

import (
	"fmt"
	"strconv"
	"strings"
)

// wellKnownChains maps the chain names the CLI accepts to their IDs
var wellKnownChains = map[string]uint64{
	"mainnet":      1,
	"sepolia":      11155111,
	"holesky":      17000,
	"base":         8453,
	"base-sepolia": 84532,
	"local":        31337,
}

// ChainName returns a human readable name for a chain ID
func ChainName(chainID uint64) string {
	switch chainID {
	case 1:
		return "Ethereum Mainnet"
	case 11155111:
		return "Sepolia Testnet"
	case 17000:
		return "Holesky Testnet"
	case 8453:
		return "Base Mainnet"
	case 84532:
		return "Base Sepolia"
	case 31337:
		return "Local Network"
	default:
		return fmt.Sprintf("Chain %d", chainID)
	}
}

// ParseChain resolves a chain given by name or numeric ID
func ParseChain(s string) (uint64, error) {
	if id, ok := wellKnownChains[strings.ToLower(s)]; ok {
		return id, nil
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("unknown chain %q (use a name like 'mainnet' or a numeric chain ID)", s)
	}
	return id, nil
}
