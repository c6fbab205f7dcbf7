// Package keyref parses textual key references that select a custody
// backend and the fields identifying a key within it.
package keyref

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Backend identifies the custody backend a key reference points at.
type Backend string

const (
	BackendLocal    Backend = "local"
	BackendKeystore Backend = "keystore"
	BackendKMS      Backend = "kms"
	BackendLedger   Backend = "ledger"
	BackendRemote   Backend = "remote"
)

// KeyRef is a parsed key reference. Exactly the fields relevant to the
// backend are populated.
type KeyRef struct {
	Backend Backend

	// KeyID is the cloud key identifier (kms) or the hex private key (local).
	KeyID string
	// Path is the keystore file path (keystore).
	Path string
	// DerivationPath is the BIP-44 path on the device (ledger).
	DerivationPath string
	// Account is the remotely held account (remote).
	Account common.Address

	raw string
}

// String returns the original reference text. Stable across calls, so it
// doubles as a session-cache key for backends that hold open transports.
func (r *KeyRef) String() string {
	return r.raw
}

// Parse parses a key reference:
//
//	kms://<key-id>                     cloud KMS key
//	ledger://<bip44-path>              hardware wallet derivation path
//	remote://<0x-address>              remote key-management service account
//	keystore://<path>                  encrypted keystore file
//	<hex>                              raw private key, with or without 0x
func Parse(s string) (*KeyRef, error) {
	if s == "" {
		return nil, fmt.Errorf("empty key reference")
	}

	scheme, rest, found := strings.Cut(s, "://")
	if !found {
		if !isHexKey(s) {
			return nil, fmt.Errorf("invalid key reference %q: not a backend URI or a hex private key", s)
		}
		return &KeyRef{Backend: BackendLocal, KeyID: s, raw: s}, nil
	}
	if rest == "" {
		return nil, fmt.Errorf("invalid key reference %q: missing %s target", s, scheme)
	}

	switch Backend(scheme) {
	case BackendKMS:
		return &KeyRef{Backend: BackendKMS, KeyID: rest, raw: s}, nil
	case BackendLedger:
		if !strings.HasPrefix(rest, "m/") {
			return nil, fmt.Errorf("invalid derivation path %q: must start with m/", rest)
		}
		return &KeyRef{Backend: BackendLedger, DerivationPath: rest, raw: s}, nil
	case BackendRemote:
		if !common.IsHexAddress(rest) {
			return nil, fmt.Errorf("invalid remote account %q", rest)
		}
		return &KeyRef{Backend: BackendRemote, Account: common.HexToAddress(rest), raw: s}, nil
	case BackendKeystore:
		return &KeyRef{Backend: BackendKeystore, Path: rest, raw: s}, nil
	default:
		return nil, fmt.Errorf("unknown key reference scheme %q", scheme)
	}
}

func isHexKey(s string) bool {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
