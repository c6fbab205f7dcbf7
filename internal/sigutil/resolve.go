package sigutil

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverFunc recovers the signing address from a digest and an (r, s, v)
// signature with v in {27, 28}. An error means recovery itself failed,
// which is distinct from recovering an unexpected address.
type RecoverFunc func(digest common.Hash, r, s [32]byte, v byte) (common.Address, error)

// RecoverAddress is the default RecoverFunc, backed by secp256k1 public key
// recovery from go-ethereum.
func RecoverAddress(digest common.Hash, r, s [32]byte, v byte) (common.Address, error) {
	sig := make([]byte, 65)
	copy(sig[0:32], r[:])
	copy(sig[32:64], s[:])
	sig[64] = v - 27

	pub, err := crypto.SigToPub(digest[:], sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// RecoveryError reports that neither recovery identifier reproduced the
// expected address. Both candidates are carried so callers can diagnose a
// wrong key, wrong digest, or wrong address upstream.
type RecoveryError struct {
	Expected      common.Address
	RecoveredAt27 common.Address
	RecoveredAt28 common.Address
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("signature does not recover to %s (v=27 gives %s, v=28 gives %s)",
		e.Expected.Hex(), e.RecoveredAt27.Hex(), e.RecoveredAt28.Hex())
}

// ResolveV determines which recovery identifier reproduces the expected
// address. Candidates are tried in the fixed order 27 then 28; the first
// match wins, so when both recover to the same address 27 is returned.
func ResolveV(rec RecoverFunc, digest common.Hash, r, s [32]byte, expected common.Address) (byte, error) {
	at27, err := rec(digest, r, s, 27)
	if err != nil {
		return 0, err
	}
	if at27 == expected {
		return 27, nil
	}

	at28, err := rec(digest, r, s, 28)
	if err != nil {
		return 0, err
	}
	if at28 == expected {
		return 28, nil
	}

	return 0, &RecoveryError{Expected: expected, RecoveredAt27: at27, RecoveredAt28: at28}
}

// Normalize decodes a DER-encoded ECDSA signature, canonicalizes s to its
// low-S form, and resolves the recovery identifier against the expected
// signing address. This is the single entry point backend adapters use to
// turn a raw KMS response into an Ethereum signature.
func Normalize(der []byte, digest common.Hash, expected common.Address) (*Signature, error) {
	return NormalizeWithRecover(der, digest, expected, RecoverAddress)
}

// NormalizeWithRecover is Normalize with an injected recovery primitive.
func NormalizeWithRecover(der []byte, digest common.Hash, expected common.Address, rec RecoverFunc) (*Signature, error) {
	r, s, err := Decode(der)
	if err != nil {
		return nil, err
	}

	r32, err := word32(r)
	if err != nil {
		return nil, err
	}
	s32, err := word32(NormalizeS(s))
	if err != nil {
		return nil, err
	}

	v, err := ResolveV(rec, digest, r32, s32, expected)
	if err != nil {
		return nil, err
	}

	return &Signature{R: r32, S: s32, V: v}, nil
}
