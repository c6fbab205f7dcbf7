package signer

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/yourorg/sigbridge/internal/sigutil"
)

// KMSClient is the slice of a cloud key-management service this package
// needs. Credential handling, transport and retries belong to the client
// implementation, not here.
type KMSClient interface {
	// GetPublicKey returns the uncompressed 65-byte SEC1 public key
	GetPublicKey(ctx context.Context, keyID string) ([]byte, error)

	// SignDigest signs a digest and returns the ASN.1 DER encoded
	// ECDSA-Sig-Value as produced by the service
	SignDigest(ctx context.Context, keyID string, digest common.Hash) ([]byte, error)
}

// KMSSigner implements Signer against a cloud KMS key. The service returns
// DER signatures without a recovery identifier, so every signature goes
// through normalization against the key's derived address.
type KMSSigner struct {
	client  KMSClient
	keyID   string
	address common.Address
}

// NewKMSSigner creates a signer for a KMS-held key, deriving its address
// once from the service-reported public key.
func NewKMSSigner(ctx context.Context, client KMSClient, keyID string) (*KMSSigner, error) {
	pub, err := client.GetPublicKey(ctx, keyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public key for %s: %w", keyID, err)
	}

	pubkey, err := crypto.UnmarshalPubkey(pub)
	if err != nil {
		return nil, fmt.Errorf("invalid public key for %s: %w", keyID, err)
	}

	return &KMSSigner{
		client:  client,
		keyID:   keyID,
		address: crypto.PubkeyToAddress(*pubkey),
	}, nil
}

// Address returns the address derived from the KMS public key
func (s *KMSSigner) Address() common.Address {
	return s.address
}

// SignDigest signs a digest remotely and normalizes the DER response into
// the 65-byte r || s || v form
func (s *KMSSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	der, err := s.client.SignDigest(ctx, s.keyID, digest)
	if err != nil {
		return nil, fmt.Errorf("kms signing failed for %s: %w", s.keyID, err)
	}

	sig, err := sigutil.Normalize(der, digest, s.address)
	if err != nil {
		return nil, err
	}
	return sig.Bytes(), nil
}
