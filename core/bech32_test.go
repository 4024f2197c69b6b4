package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretBech32RoundTrip(t *testing.T) {
	sk := GenerateSecretKey[HelmRole]()
	encoded, err := EncodeSecretBech32(sk)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "arkhelmsec1"))

	decoded, err := DecodeSecretBech32[HelmRole](encoded)
	require.NoError(t, err)
	assert.Equal(t, sk.Bytes(), decoded.Bytes())
}

func TestPublicBech32RoundTrip(t *testing.T) {
	pk := GenerateSecretKey[WorkerRole]().PublicKey()
	encoded, err := EncodePublicBech32(pk)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "arkworkerpub1"))

	decoded, err := DecodePublicBech32[WorkerRole](encoded)
	require.NoError(t, err)
	assert.True(t, pk.Equal(decoded))
}

func TestSecretBech32NoHRPErrors(t *testing.T) {
	sk := GenerateSecretKey[ArkRole]()
	_, err := EncodeSecretBech32(sk)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadEncoding))
}

func TestDecodeBech32WrongRoleRejected(t *testing.T) {
	sk := GenerateSecretKey[HelmRole]()
	encoded, err := EncodeSecretBech32(sk)
	require.NoError(t, err)

	_, err = DecodeSecretBech32[DataRole](encoded)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadEncoding))
}

func TestDecodeBech32PublicAsSecretRejected(t *testing.T) {
	pk := GenerateSecretKey[WorkerRole]().PublicKey()
	encoded, err := EncodePublicBech32(pk)
	require.NoError(t, err)

	_, err = DecodeSecretBech32[WorkerRole](encoded)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadEncoding))
}

func TestDecodeBech32GarbageRejected(t *testing.T) {
	_, err := DecodePublicBech32[ArkRole]("not-a-valid-bech32-string")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadEncoding))
}
