package sign

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/yourorg/sigbridge/internal/eth"
	"gopkg.in/yaml.v3"
)

// TxRequest describes a transaction to sign, as read from a YAML file.
// Amounts are decimal strings in wei to avoid precision loss.
type TxRequest struct {
	Chain                string `yaml:"chain,omitempty"`   // name or numeric ID
	ChainID              uint64 `yaml:"chainId,omitempty"` // takes precedence over Chain
	Nonce                uint64 `yaml:"nonce"`
	To                   string `yaml:"to,omitempty"` // empty deploys a contract
	Value                string `yaml:"value,omitempty"`
	GasLimit             uint64 `yaml:"gasLimit"`
	MaxFeePerGas         string `yaml:"maxFeePerGas"`
	MaxPriorityFeePerGas string `yaml:"maxPriorityFeePerGas,omitempty"`
	Data                 string `yaml:"data,omitempty"` // 0x-prefixed hex
}

// ParseTxRequest parses a YAML transaction request
func ParseTxRequest(data []byte) (*TxRequest, error) {
	var req TxRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse transaction request: %w", err)
	}
	return &req, nil
}

// ResolveChainID returns the request's chain, falling back to the given
// default when the request names none.
func (r *TxRequest) ResolveChainID(fallback uint64) (uint64, error) {
	if r.ChainID != 0 {
		return r.ChainID, nil
	}
	if r.Chain != "" {
		return eth.ParseChain(r.Chain)
	}
	if fallback != 0 {
		return fallback, nil
	}
	return 0, fmt.Errorf("no chain in request and no default chain in context")
}

// Transaction builds the unsigned EIP-1559 transaction
func (r *TxRequest) Transaction(chainID uint64) (*types.Transaction, error) {
	if r.GasLimit == 0 {
		return nil, fmt.Errorf("gasLimit is required")
	}

	value, err := weiAmount("value", r.Value, true)
	if err != nil {
		return nil, err
	}
	feeCap, err := weiAmount("maxFeePerGas", r.MaxFeePerGas, false)
	if err != nil {
		return nil, err
	}
	tipCap, err := weiAmount("maxPriorityFeePerGas", r.MaxPriorityFeePerGas, true)
	if err != nil {
		return nil, err
	}

	var to *common.Address
	if r.To != "" {
		if !common.IsHexAddress(r.To) {
			return nil, fmt.Errorf("invalid to address %q", r.To)
		}
		addr := common.HexToAddress(r.To)
		to = &addr
	}

	var data []byte
	if r.Data != "" {
		if data, err = hexutil.Decode(r.Data); err != nil {
			return nil, fmt.Errorf("invalid data: %w", err)
		}
	}

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   new(big.Int).SetUint64(chainID),
		Nonce:     r.Nonce,
		To:        to,
		Value:     value,
		Gas:       r.GasLimit,
		GasFeeCap: feeCap,
		GasTipCap: tipCap,
		Data:      data,
	}), nil
}

func weiAmount(field, s string, optional bool) (*big.Int, error) {
	if s == "" {
		if optional {
			return new(big.Int), nil
		}
		return nil, fmt.Errorf("%s is required", field)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s %q: want a decimal wei amount", field, s)
	}
	return v, nil
}
