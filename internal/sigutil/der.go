// Package sigutil normalizes ECDSA signatures returned by remote custody
// backends (cloud KMS, HSMs) into the fixed-width (r, s, v) form expected
// by Ethereum transaction and message serializers.
package sigutil

import (
	"errors"
	"math/big"
)

const (
	asn1SequenceTag = 0x30
	asn1IntegerTag  = 0x02
)

// Decode errors. Each one identifies the structural violation so callers
// can tell a garbage response apart from other failures.
var (
	ErrMissingSequence    = errors.New("der: missing sequence tag")
	ErrMissingInteger     = errors.New("der: missing integer tag")
	ErrUnexpectedEnd      = errors.New("der: unexpected end of input")
	ErrLengthOutOfBounds  = errors.New("der: length bytes exceed input")
	ErrIntegerOutOfBounds = errors.New("der: integer content exceeds input")
)

// Decode parses a minimal ASN.1 ECDSA-Sig-Value (SEQUENCE of two INTEGERs)
// into its unsigned r and s components. Trailing bytes after the second
// integer are ignored. Safe for concurrent use.
func Decode(der []byte) (r, s *big.Int, err error) {
	pos := 0

	if pos >= len(der) {
		return nil, nil, ErrUnexpectedEnd
	}
	if der[pos] != asn1SequenceTag {
		return nil, nil, ErrMissingSequence
	}
	pos++

	// The outer length is only skipped over, never cross-checked against
	// the content: each integer read below bounds-checks independently.
	if _, pos, err = readLength(der, pos); err != nil {
		return nil, nil, err
	}

	if r, pos, err = readInteger(der, pos); err != nil {
		return nil, nil, err
	}
	if s, _, err = readInteger(der, pos); err != nil {
		return nil, nil, err
	}

	return r, s, nil
}

// readLength reads a short- or long-form DER length at pos. For the long
// form the declared count of length bytes is consumed and their big-endian
// value returned without validating it against the remaining input.
func readLength(der []byte, pos int) (int, int, error) {
	if pos >= len(der) {
		return 0, 0, ErrUnexpectedEnd
	}
	b := der[pos]
	pos++

	if b&0x80 == 0 {
		return int(b), pos, nil
	}

	n := int(b & 0x7f)
	if pos+n > len(der) {
		return 0, 0, ErrLengthOutOfBounds
	}

	length := 0
	for _, lb := range der[pos : pos+n] {
		length = length<<8 | int(lb)
		// Clamp so an adversarial length cannot overflow; anything past
		// the buffer size fails the content bounds check identically.
		if length > len(der) {
			length = len(der) + 1
		}
	}
	return length, pos + n, nil
}

// readInteger reads one DER INTEGER field at pos and interprets its content
// as a big-endian unsigned value. A leading 0x00 sign pad contributes no
// numeric value and is absorbed by the big-endian interpretation.
func readInteger(der []byte, pos int) (*big.Int, int, error) {
	if pos >= len(der) {
		return nil, 0, ErrUnexpectedEnd
	}
	if der[pos] != asn1IntegerTag {
		return nil, 0, ErrMissingInteger
	}
	pos++

	length, pos, err := readLength(der, pos)
	if err != nil {
		return nil, 0, err
	}
	if pos+length > len(der) {
		return nil, 0, ErrIntegerOutOfBounds
	}

	v := new(big.Int).SetBytes(der[pos : pos+length])
	return v, pos + length, nil
}
