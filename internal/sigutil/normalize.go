package sigutil

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// curveN is the order of the secp256k1 base point.
	curveN = crypto.S256().Params().N

	// halfN is floor(N/2), the boundary of the canonical low-S range.
	halfN = new(big.Int).Rsh(curveN, 1)
)

// Signature is a normalized Ethereum signature: fixed-width big-endian words
// with s in canonical low-S form and v one of 27 or 28.
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

// Bytes returns the 65-byte r || s || v wire form.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 65)
	copy(out[0:32], sig.R[:])
	copy(out[32:64], sig.S[:])
	out[64] = sig.V
	return out
}

// NormalizeS rewrites s into its canonical low-S representative per EIP-2.
// Both s and N-s are valid for the same message and key, so the half-order
// boundary picks one of the two. Idempotent.
func NormalizeS(s *big.Int) *big.Int {
	if s.Cmp(halfN) > 0 {
		return new(big.Int).Sub(curveN, s)
	}
	return new(big.Int).Set(s)
}

// word32 serializes v as a left-zero-padded 32-byte big-endian word.
func word32(v *big.Int) ([32]byte, error) {
	var w [32]byte
	if v.BitLen() > 256 {
		return w, fmt.Errorf("sigutil: value exceeds 256 bits")
	}
	v.FillBytes(w[:])
	return w, nil
}
