package core

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	bls "github.com/herumi/bls-eth-go-binary/bls"
)

func init() {
	if err := bls.Init(bls.BLS12_381); err != nil {
		panic(fmt.Errorf("core: bls init: %w", err))
	}
	bls.SetETHmode(bls.EthModeDraft07)
}

// curveOrder is r, the order of the BLS12-381 scalar field, used to reduce
// derivation tweaks mod r before folding them into a secret key.
var curveOrder, _ = new(big.Int).SetString(
	"52435875175126190479447740508185965837690552500527637822603658699938581184513", 10)

// SecretKey is a BLS12-381 scalar tagged with role R. Two SecretKey values
// of different role types are different Go types even though both wrap the
// same underlying 32-byte scalar, which is what makes it impossible to pass
// e.g. a SecretKey[DataRole] where a SecretKey[HelmRole] is expected.
type SecretKey[R Role] struct {
	sk bls.SecretKey
}

// PublicKey is the public half of SecretKey[R].
type PublicKey[R Role] struct {
	pk bls.PublicKey
}

// GenerateSecretKey returns a freshly, cryptographically-randomly generated
// secret key for role R. Used for Vault identity keys and for auto-generated
// Worker/Bridge keys.
func GenerateSecretKey[R Role]() SecretKey[R] {
	var sk bls.SecretKey
	sk.SetByCSPRNG()
	return SecretKey[R]{sk: sk}
}

// PublicKey returns the public half of sk.
func (sk SecretKey[R]) PublicKey() PublicKey[R] {
	return PublicKey[R]{pk: *sk.sk.GetPublicKey()}
}

// Bytes returns the 32-byte little-endian scalar encoding of sk.
func (sk SecretKey[R]) Bytes() []byte {
	return sk.sk.Serialize()
}

// SecretKeyFromBytes reconstructs a secret key of role R from its 32-byte
// serialized form.
func SecretKeyFromBytes[R Role](b []byte) (SecretKey[R], error) {
	var sk bls.SecretKey
	if err := sk.Deserialize(b); err != nil {
		return SecretKey[R]{}, NewError(KindBadEncoding, "deserialize secret key", err)
	}
	return SecretKey[R]{sk: sk}, nil
}

// Zeroize overwrites the in-memory scalar bytes. Callers that hold a
// SecretKey past its useful lifetime (e.g. a VaultRole key, used exactly
// once) should call this explicitly; Go has no deterministic destructors.
func (sk *SecretKey[R]) Zeroize() {
	var zero bls.SecretKey
	sk.sk = zero
}

// Bytes returns the 48-byte compressed G1 encoding of pk.
func (pk PublicKey[R]) Bytes() []byte {
	return pk.pk.Serialize()
}

// PublicKeyFromBytes reconstructs a public key of role R from its 48-byte
// compressed serialized form.
func PublicKeyFromBytes[R Role](b []byte) (PublicKey[R], error) {
	var pk bls.PublicKey
	if err := pk.Deserialize(b); err != nil {
		return PublicKey[R]{}, NewError(KindBadEncoding, "deserialize public key", err)
	}
	return PublicKey[R]{pk: pk}, nil
}

// Equal reports whether two public keys of the same role encode the same
// point.
func (pk PublicKey[R]) Equal(other PublicKey[R]) bool {
	return pk.pk.IsEqual(&other.pk)
}

// IsZero reports whether pk is the unset zero value.
func (pk PublicKey[R]) IsZero() bool {
	var zero bls.PublicKey
	return pk.pk.IsEqual(&zero)
}

// DerivationIndex is a 32-byte value used both as a secret derivation input
// and as a public-address derivation input, tagged with the role it derives
// *into* (the child's role), matching TypedDerivationIndex<K> in the design.
type DerivationIndex[R Role] struct {
	b [32]byte
}

// DerivationIndexFromPath deterministically derives an index from a fixed
// ASCII path, e.g. "/ark/v0/helm/register". Two calls with the same path
// always yield the same index.
func DerivationIndexFromPath[R Role](path string) DerivationIndex[R] {
	return DerivationIndex[R]{b: sha256.Sum256([]byte(path))}
}

// RandomDerivationIndex returns a random 32-byte index, used where the
// design calls for an unpredictable per-object salt rather than a fixed
// path.
func RandomDerivationIndex[R Role]() (DerivationIndex[R], error) {
	var sk bls.SecretKey
	sk.SetByCSPRNG()
	var idx DerivationIndex[R]
	copy(idx.b[:], sk.Serialize())
	return idx, nil
}

func (d DerivationIndex[R]) Bytes() [32]byte { return d.b }

// tweakScalar folds a derivation index (salted by the parent's public key,
// so that the same mechanism works from the public side) into a scalar mod
// the curve order.
func tweakScalar(parentPub []byte, index [32]byte) *big.Int {
	h := sha256.New()
	h.Write(parentPub)
	h.Write(index[:])
	sum := h.Sum(nil)
	t := new(big.Int).SetBytes(sum)
	return t.Mod(t, curveOrder)
}

func scalarToSecretKey(s *big.Int) bls.SecretKey {
	buf := make([]byte, 32)
	b := s.Bytes()
	copy(buf[32-len(b):], b)
	// SetLittleEndianMod expects little-endian input and reduces mod r.
	le := make([]byte, len(buf))
	for i, c := range buf {
		le[len(buf)-1-i] = c
	}
	var sk bls.SecretKey
	sk.SetLittleEndianMod(le)
	return sk
}

// DeriveChildSecret computes child_sk = parent_sk + tweak(parent_pk, index),
// where tweak is a function of the parent's *public* key and the index
// alone. This is what lets DerivePublicChild reach the same point without
// ever seeing parent_sk (Testable Property 1 of spec.md §8).
func DeriveChildSecret[Parent Role, Child Role](parent SecretKey[Parent], index DerivationIndex[Child]) SecretKey[Child] {
	parentPub := parent.PublicKey().Bytes()
	tweak := scalarToSecretKey(tweakScalar(parentPub, index.b))

	child := parent.sk
	child.Add(&tweak)
	return SecretKey[Child]{sk: child}
}

// DerivePublicChild computes child_pk = parent_pk + tweak(parent_pk,index)*G,
// agreeing with DeriveChildSecret(parent_sk, index).PublicKey() for the
// matching parent_sk.
func DerivePublicChild[Parent Role, Child Role](parent PublicKey[Parent], index DerivationIndex[Child]) PublicKey[Child] {
	tweak := scalarToSecretKey(tweakScalar(parent.Bytes(), index.b))
	tweakPub := *tweak.GetPublicKey()

	child := parent.pk
	child.Add(&tweakPub)
	return PublicKey[Child]{pk: child}
}
