package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePublicChildAgreesWithSecret(t *testing.T) {
	parent := GenerateSecretKey[ArkRole]()
	index := DerivationIndexFromPath[HelmRole]("/ark/v0/test/index")

	childSK := DeriveChildSecret[ArkRole, HelmRole](parent, index)
	childPK := DerivePublicChild[ArkRole, HelmRole](parent.PublicKey(), index)

	assert.True(t, childSK.PublicKey().Equal(childPK), "public derivation must agree with secret derivation")
}

func TestDeriveChildSecretIsDeterministic(t *testing.T) {
	parent := GenerateSecretKey[ArkRole]()
	index := DerivationIndexFromPath[DataRole]("/ark/v0/test/deterministic")

	a := DeriveChildSecret[ArkRole, DataRole](parent, index)
	b := DeriveChildSecret[ArkRole, DataRole](parent, index)

	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestDifferentParentsYieldDifferentChildren(t *testing.T) {
	index := DerivationIndexFromPath[DataRole]("/ark/v0/test/same-index")
	p1 := GenerateSecretKey[ArkRole]()
	p2 := GenerateSecretKey[ArkRole]()

	c1 := DeriveChildSecret[ArkRole, DataRole](p1, index)
	c2 := DeriveChildSecret[ArkRole, DataRole](p2, index)

	assert.NotEqual(t, c1.Bytes(), c2.Bytes())
}

func TestSecretKeyRoundTrip(t *testing.T) {
	sk := GenerateSecretKey[WorkerRole]()
	b := sk.Bytes()

	decoded, err := SecretKeyFromBytes[WorkerRole](b)
	require.NoError(t, err)
	assert.True(t, sk.PublicKey().Equal(decoded.PublicKey()))
}

func TestPublicKeyRoundTrip(t *testing.T) {
	pk := GenerateSecretKey[VaultRole]().PublicKey()
	decoded, err := PublicKeyFromBytes[VaultRole](pk.Bytes())
	require.NoError(t, err)
	assert.True(t, pk.Equal(decoded))
}

func TestZeroizeClearsSecret(t *testing.T) {
	sk := GenerateSecretKey[DataRole]()
	nonZero := sk.Bytes()
	sk.Zeroize()
	assert.NotEqual(t, nonZero, sk.Bytes())
}

func TestPublicKeyIsZero(t *testing.T) {
	var pk PublicKey[ArkRole]
	assert.True(t, pk.IsZero())

	sk := GenerateSecretKey[ArkRole]()
	assert.False(t, sk.PublicKey().IsZero())
}
