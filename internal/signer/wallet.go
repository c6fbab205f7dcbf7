package signer

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// WalletTransport is an open session to a hardware wallet. Establishing and
// tearing down the device connection is the transport's concern; sessions
// are shared through a SessionCache so a device is opened once per
// configuration.
type WalletTransport interface {
	// DeriveAddress returns the address at a BIP-44 derivation path
	DeriveAddress(ctx context.Context, path string) (common.Address, error)

	// SignHash signs a 32-byte hash at a derivation path, returning the
	// 65-byte r || s || v signature; v may be reported as 0/1 or 27/28
	SignHash(ctx context.Context, path string, digest common.Hash) ([]byte, error)

	// Close releases the device session
	Close() error
}

// WalletSigner implements Signer against a key held on a hardware wallet
type WalletSigner struct {
	transport WalletTransport
	path      string
	address   common.Address
}

// NewWalletSigner creates a signer for the key at a derivation path,
// deriving its address once over the transport.
func NewWalletSigner(ctx context.Context, transport WalletTransport, path string) (*WalletSigner, error) {
	address, err := transport.DeriveAddress(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to derive address at %s: %w", path, err)
	}

	return &WalletSigner{
		transport: transport,
		path:      path,
		address:   address,
	}, nil
}

// Address returns the address derived on the device
func (s *WalletSigner) Address() common.Address {
	return s.address
}

// SignDigest signs a digest on the device and canonicalizes the result
// against the derived address.
func (s *WalletSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	sig, err := s.transport.SignHash(ctx, s.path, digest)
	if err != nil {
		return nil, fmt.Errorf("wallet signing failed at %s: %w", s.path, err)
	}
	return canonicalize(sig, digest, s.address)
}
