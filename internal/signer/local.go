package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// LocalSigner implements Signer with an in-process ECDSA private key
type LocalSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewLocalSigner creates a signer from a private key
func NewLocalSigner(privateKey *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}
}

// NewLocalSignerFromHex creates a signer from a hex-encoded private key
func NewLocalSignerFromHex(hexKey string) (*LocalSigner, error) {
	// Remove 0x prefix if present
	if len(hexKey) >= 2 && hexKey[0:2] == "0x" {
		hexKey = hexKey[2:]
	}

	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return NewLocalSigner(privateKey), nil
}

// Address returns the Ethereum address of the signer
func (s *LocalSigner) Address() common.Address {
	return s.address
}

// SignDigest signs a 32-byte digest with the in-process key
func (s *LocalSigner) SignDigest(_ context.Context, digest common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(digest[:], s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}

	// Transform V from 0/1 to 27/28 according to Ethereum yellow paper
	if sig[64] < 27 {
		sig[64] += 27
	}

	return sig, nil
}

// PublicKey returns the public key
func (s *LocalSigner) PublicKey() *ecdsa.PublicKey {
	return &s.privateKey.PublicKey
}
