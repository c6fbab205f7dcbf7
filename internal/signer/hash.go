package signer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// The functions here derive the digest for each signing scheme and hand it
// to the backend's SignDigest, so every backend signs transactions,
// messages and typed data identically.

// SignMessage signs a message using EIP-191
func SignMessage(ctx context.Context, s Signer, msg []byte) ([]byte, error) {
	digest := common.BytesToHash(accounts.TextHash(msg))
	return s.SignDigest(ctx, digest)
}

// SignTransaction signs a transaction for the given chain
func SignTransaction(ctx context.Context, s Signer, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	ethSigner := types.LatestSignerForChainID(chainID)

	sig, err := s.SignDigest(ctx, ethSigner.Hash(tx))
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	// The transaction encoder wants the raw recovery id, not 27/28
	wire := make([]byte, 65)
	copy(wire, sig)
	if wire[64] >= 27 {
		wire[64] -= 27
	}

	signedTx, err := tx.WithSignature(ethSigner, wire)
	if err != nil {
		return nil, fmt.Errorf("failed to attach signature: %w", err)
	}
	return signedTx, nil
}

// SignTypedData signs EIP-712 typed data
func SignTypedData(ctx context.Context, s Signer, typedData apitypes.TypedData) ([]byte, error) {
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to hash typed data: %w", err)
	}
	return s.SignDigest(ctx, common.BytesToHash(digest))
}
