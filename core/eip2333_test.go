package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveMasterScalarDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i)
	}

	a, err := deriveMasterScalar(seed)
	require.NoError(t, err)
	b, err := deriveMasterScalar(seed)
	require.NoError(t, err)

	assert.Equal(t, 0, a.Cmp(b))
	assert.NotEqual(t, 0, a.Sign())
	assert.Equal(t, -1, a.Cmp(curveOrder))
}

func TestDeriveMasterScalarDifferentSeedsDiffer(t *testing.T) {
	seedA := make([]byte, 32)
	seedB := make([]byte, 32)
	for i := range seedB {
		seedB[i] = byte(i + 1)
	}

	a, err := deriveMasterScalar(seedA)
	require.NoError(t, err)
	b, err := deriveMasterScalar(seedB)
	require.NoError(t, err)

	assert.NotEqual(t, 0, a.Cmp(b))
}

func TestDeriveChildScalarEIP2333Deterministic(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(2 * i)
	}
	parent, err := deriveMasterScalar(seed)
	require.NoError(t, err)

	a, err := deriveChildScalarEIP2333(parent, 7)
	require.NoError(t, err)
	b, err := deriveChildScalarEIP2333(parent, 7)
	require.NoError(t, err)

	assert.Equal(t, 0, a.Cmp(b))
}

func TestDeriveChildScalarEIP2333DifferentIndicesDiffer(t *testing.T) {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(3 * i)
	}
	parent, err := deriveMasterScalar(seed)
	require.NoError(t, err)

	a, err := deriveChildScalarEIP2333(parent, 0)
	require.NoError(t, err)
	b, err := deriveChildScalarEIP2333(parent, 1)
	require.NoError(t, err)

	assert.NotEqual(t, 0, a.Cmp(b))
}
