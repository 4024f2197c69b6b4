package core

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// secretKeyByteLen and publicKeyByteLen are the only two lengths the codec
// accepts; anything else is a hard BadEncoding error (spec §4.1).
const (
	secretKeyByteLen = 32
	publicKeyByteLen = 48
)

// EncodeSecretBech32 encodes sk using role R's SecretHRP. It returns an
// error if R has no secret HRP (the role's secret is never exported this
// way -- e.g. ArkRole, recovered only via mnemonic).
func EncodeSecretBech32[R Role](sk SecretKey[R]) (string, error) {
	hrp := zero[R]().SecretHRP()
	if hrp == "" {
		return "", NewError(KindBadEncoding, fmt.Sprintf("role %s has no bech32 secret form", zero[R]().RoleName()), nil)
	}
	return encodeBech32m(hrp, sk.Bytes())
}

// DecodeSecretBech32 decodes s, verifying that its HRP matches role R's
// SecretHRP and that the decoded payload is exactly 32 bytes. Any mismatch
// zeroizes the intermediate buffer before returning.
func DecodeSecretBech32[R Role](s string) (SecretKey[R], error) {
	wantHRP := zero[R]().SecretHRP()
	hrp, data, err := decodeBech32m(s)
	if err != nil {
		return SecretKey[R]{}, err
	}
	if hrp != wantHRP {
		zeroizeBytes(data)
		return SecretKey[R]{}, NewError(KindBadEncoding, "role mismatch", nil)
	}
	if len(data) != secretKeyByteLen {
		zeroizeBytes(data)
		return SecretKey[R]{}, NewError(KindBadEncoding, "wrong secret key length", nil)
	}
	sk, err := SecretKeyFromBytes[R](data)
	zeroizeBytes(data)
	return sk, err
}

// EncodePublicBech32 encodes pk using role R's PublicHRP.
func EncodePublicBech32[R Role](pk PublicKey[R]) (string, error) {
	hrp := zero[R]().PublicHRP()
	if hrp == "" {
		return "", NewError(KindBadEncoding, fmt.Sprintf("role %s has no bech32 public form", zero[R]().RoleName()), nil)
	}
	return encodeBech32m(hrp, pk.Bytes())
}

// DecodePublicBech32 decodes s, verifying HRP and the 48-byte public key
// length.
func DecodePublicBech32[R Role](s string) (PublicKey[R], error) {
	wantHRP := zero[R]().PublicHRP()
	hrp, data, err := decodeBech32m(s)
	if err != nil {
		return PublicKey[R]{}, err
	}
	if hrp != wantHRP {
		zeroizeBytes(data)
		return PublicKey[R]{}, NewError(KindBadEncoding, "role mismatch", nil)
	}
	if len(data) != publicKeyByteLen {
		zeroizeBytes(data)
		return PublicKey[R]{}, NewError(KindBadEncoding, "wrong public key length", nil)
	}
	pk, err := PublicKeyFromBytes[R](data)
	zeroizeBytes(data)
	return pk, err
}

func encodeBech32m(hrp string, payload []byte) (string, error) {
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", NewError(KindBadEncoding, "convert bits", err)
	}
	s, err := bech32.EncodeM(hrp, conv)
	if err != nil {
		return "", NewError(KindBadEncoding, "bech32m encode", err)
	}
	return s, nil
}

func decodeBech32m(s string) (hrp string, payload []byte, err error) {
	hrp, data, encoding, decErr := bech32.DecodeGeneric(s)
	if decErr != nil {
		return "", nil, NewError(KindBadEncoding, "bech32 decode", decErr)
	}
	if encoding != bech32.Bech32m {
		return "", nil, NewError(KindBadEncoding, "expected bech32m encoding", nil)
	}
	conv, convErr := bech32.ConvertBits(data, 5, 8, false)
	if convErr != nil {
		zeroizeBytes(data)
		return "", nil, NewError(KindBadEncoding, "convert bits", convErr)
	}
	return hrp, conv, nil
}

func zeroizeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
