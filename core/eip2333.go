package core

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// EIP-2333 deterministic key generation, used once at Ark creation time to
// turn a BIP-39 seed into the master ArkSeed scalar. Adapted from the
// reference Go implementation of https://eips.ethereum.org/EIPS/eip-2333;
// generalized here into unexported helpers consumed only by
// deriveMasterScalar and deriveChildScalarEIP2333 below -- this module does not expose a general-purpose
// hierarchical derivation tree the way the EIP does, since DeriveChildSecret
// (keys.go) already covers every derivation this design needs past the
// master key.
type lamportSK [255][32]byte

func ikmToLamportSK(ikm, salt []byte) (*lamportSK, error) {
	prk := hkdf.Extract(sha256.New, ikm, salt)
	okm := hkdf.Expand(sha256.New, prk, nil)
	var out lamportSK
	for i := range out {
		if _, err := io.ReadFull(okm, out[i][:]); err != nil {
			return nil, fmt.Errorf("eip2333: read lamport chunk %d: %w", i, err)
		}
	}
	return &out, nil
}

func flipBits(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = ^c
	}
	return out
}

func sha256Sum(b []byte) []byte {
	h := sha256.Sum256(b)
	return h[:]
}

// parentToLamportPK implements parent_SK_to_lamport_PK, compressing a
// 255-element Lamport key pair derived at the given index into one 32-byte
// commitment.
func parentToLamportPK(parentSK *big.Int, index uint32) ([32]byte, error) {
	var salt [4]byte
	binary.BigEndian.PutUint32(salt[:], index)

	ikm := make([]byte, 32)
	parentSK.FillBytes(ikm)

	lamport0, err := ikmToLamportSK(ikm, salt[:])
	if err != nil {
		return [32]byte{}, err
	}
	lamport1, err := ikmToLamportSK(flipBits(ikm), salt[:])
	if err != nil {
		return [32]byte{}, err
	}

	buf := make([]byte, 0, 255*32*2)
	for i := range lamport0 {
		buf = append(buf, sha256Sum(lamport0[i][:])...)
	}
	for i := range lamport1 {
		buf = append(buf, sha256Sum(lamport1[i][:])...)
	}
	return [32]byte(sha256Sum(buf)), nil
}

// hkdfModR implements HKDF_mod_r, reducing arbitrary input keying material
// into a nonzero scalar below the BLS12-381 group order.
func hkdfModR(ikm []byte, keyInfo string) (*big.Int, error) {
	salt := []byte("BLS-SIG-KEYGEN-SALT-")
	sk := big.NewInt(0)
	for sk.Sign() == 0 {
		salt = sha256Sum(salt)

		secret := append(append(make([]byte, 0, len(ikm)+1), ikm...), 0)
		prk := hkdf.Extract(sha256.New, secret, salt)

		info := append([]byte(keyInfo), 0, 48)
		okmReader := hkdf.Expand(sha256.New, prk, info)
		var okm [48]byte
		if _, err := io.ReadFull(okmReader, okm[:]); err != nil {
			return nil, fmt.Errorf("eip2333: read OKM: %w", err)
		}
		sk = new(big.Int).Mod(new(big.Int).SetBytes(okm[:]), curveOrder)
	}
	return sk, nil
}

// deriveMasterScalar implements derive_master_SK: it turns >=256 bits of
// seed entropy into a guaranteed-valid, nonzero BLS12-381 scalar.
func deriveMasterScalar(seed []byte) (*big.Int, error) {
	return hkdfModR(seed, "")
}

// deriveChildScalarEIP2333 implements derive_child_SK, the EIP-2333
// unhardened-incompatible (hardened-only) derivation step. It is retained
// for round-trip fidelity with the EIP but is not otherwise called by this
// module: DeriveChildSecret's public-derivable tweak scheme is used for
// every role-to-role derivation once the ArkSeed exists.
func deriveChildScalarEIP2333(parentSK *big.Int, index uint32) (*big.Int, error) {
	lamportPK, err := parentToLamportPK(parentSK, index)
	if err != nil {
		return nil, err
	}
	return hkdfModR(lamportPK[:], "")
}
