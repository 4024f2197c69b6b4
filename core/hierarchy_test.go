package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrauch/ark/internal/testutil"
)

func newTestHierarchy(t *testing.T) (*Hierarchy, ArkSeed) {
	t.Helper()
	net := testutil.NewNetwork()
	cache := NewDefaultCacheSet()
	seed := NewArkSeed()
	h := NewHierarchy(net, cache, seed)
	return h, seed
}

func TestHierarchyBeforeCreationIsNotFound(t *testing.T) {
	h, _ := newTestHierarchy(t)
	ctx := context.Background()

	_, err := h.CurrentHelmKey(ctx)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = h.CurrentDataKey(ctx)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestHierarchyCurrentKeysAfterCreateArk(t *testing.T) {
	net := testutil.NewNetwork()
	cache := NewDefaultCacheSet()
	ctx := context.Background()

	result, err := CreateArk(ctx, net, cache, "my ark", nil, PaymentOption{}, nil, &Receipt{})
	require.NoError(t, err)

	h := NewHierarchy(net, cache, result.Seed)

	helmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)
	assert.False(t, helmKey.PublicKey().IsZero())

	dataKey, err := h.CurrentDataKey(ctx)
	require.NoError(t, err)
	assert.False(t, dataKey.PublicKey().IsZero())

	history, err := h.DataKeyHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].PublicKey().Equal(dataKey.PublicKey()))
}

func TestHierarchyReadDataKeyRingAfterCreateArk(t *testing.T) {
	net := testutil.NewNetwork()
	cache := NewDefaultCacheSet()
	ctx := context.Background()

	result, err := CreateArk(ctx, net, cache, "ring ark", nil, PaymentOption{}, nil, &Receipt{})
	require.NoError(t, err)

	h := NewHierarchy(net, cache, result.Seed)
	ring, err := h.ReadDataKeyRing(ctx)
	require.NoError(t, err)

	dataKey, err := h.CurrentDataKey(ctx)
	require.NoError(t, err)

	keys := ring.Keys()
	require.Len(t, keys, 1)
	assert.True(t, keys[0].PublicKey().Equal(dataKey.PublicKey()))
}
