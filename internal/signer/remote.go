package signer

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RemoteClient fronts a remote key-management service that holds account
// keys and signs digests on request. Transport, sessions and retries are
// the client's concern.
type RemoteClient interface {
	// SignDigest signs a digest with the key of the given account and
	// returns the 65-byte r || s || v signature
	SignDigest(ctx context.Context, account common.Address, digest common.Hash) ([]byte, error)
}

// RemoteSigner implements Signer against a remote key-management service
type RemoteSigner struct {
	client  RemoteClient
	address common.Address
}

// NewRemoteSigner creates a signer for an account held by a remote service
func NewRemoteSigner(client RemoteClient, account common.Address) *RemoteSigner {
	return &RemoteSigner{client: client, address: account}
}

// Address returns the remotely held account
func (s *RemoteSigner) Address() common.Address {
	return s.address
}

// SignDigest signs a digest remotely and canonicalizes the result, which
// also verifies the service signed with the expected key.
func (s *RemoteSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	sig, err := s.client.SignDigest(ctx, s.address, digest)
	if err != nil {
		return nil, fmt.Errorf("remote signing failed for %s: %w", s.address.Hex(), err)
	}
	return canonicalize(sig, digest, s.address)
}
