package signer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/yourorg/sigbridge/internal/sigutil"
)

// Signer is the uniform surface over key-custody backends. Digest signing
// is the one required primitive; message, transaction and typed-data
// signing are layered on top, backend-independent.
type Signer interface {
	// Address returns the Ethereum address the backend signs for
	Address() common.Address

	// SignDigest signs a 32-byte digest and returns the 65-byte
	// r || s || v signature with v in {27, 28} and s in low-S form
	SignDigest(ctx context.Context, digest common.Hash) ([]byte, error)
}

// canonicalize verifies a backend-produced 65-byte signature against the
// signer's address and returns it with s canonicalized and v in {27, 28}.
// Backends that report v as 0/1 come out uniform.
func canonicalize(sig []byte, digest common.Hash, address common.Address) ([]byte, error) {
	if len(sig) != 65 {
		return nil, fmt.Errorf("unexpected signature length %d, want 65", len(sig))
	}

	var r32, s32 [32]byte
	copy(r32[:], sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	sigutil.NormalizeS(s).FillBytes(s32[:])

	v, err := sigutil.ResolveV(sigutil.RecoverAddress, digest, r32, s32, address)
	if err != nil {
		return nil, err
	}

	return (&sigutil.Signature{R: r32, S: s32, V: v}).Bytes(), nil
}
