package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrauch/ark/internal/testutil"
)

func newRotationTestArk(t *testing.T) (*Hierarchy, *ArkCreationResult) {
	t.Helper()
	h, result, _ := newRotationTestArkWithNetwork(t)
	return h, result
}

func newRotationTestArkWithNetwork(t *testing.T) (*Hierarchy, *ArkCreationResult, StorageNetwork) {
	t.Helper()
	net := testutil.NewNetwork()
	cache := NewDefaultCacheSet()
	ctx := context.Background()

	result, err := CreateArk(ctx, net, cache, "rotation ark", nil, PaymentOption{}, nil, &Receipt{})
	require.NoError(t, err)

	h := NewHierarchy(net, cache, result.Seed)
	return h, result, net
}

func TestRotateDataPreservesKeyHistory(t *testing.T) {
	h, _ := newRotationTestArk(t)
	ctx := context.Background()

	original, err := h.CurrentDataKey(ctx)
	require.NoError(t, err)

	newKey, err := h.RotateData(ctx, nil, PaymentOption{}, &Receipt{})
	require.NoError(t, err)
	assert.False(t, newKey.PublicKey().Equal(original.PublicKey()))

	ring, err := h.ReadDataKeyRing(ctx)
	require.NoError(t, err)
	keys := ring.Keys()
	require.Len(t, keys, 2)
	assert.True(t, keys[0].PublicKey().Equal(original.PublicKey()), "rotation must not drop prior keys from the ring")
	assert.True(t, keys[1].PublicKey().Equal(newKey.PublicKey()))

	history, err := h.DataKeyHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestRotateHelmNeverLeavesAZeroManifestWindow(t *testing.T) {
	h, result := newRotationTestArk(t)
	ctx := context.Background()

	oldHelmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)

	newHelmKey, err := h.RotateHelm(ctx, nil, PaymentOption{}, &Receipt{})
	require.NoError(t, err)
	assert.False(t, newHelmKey.PublicKey().Equal(oldHelmKey.PublicKey()))

	manifest, err := h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)
	assert.Equal(t, "rotation ark", manifest.Name)

	oldPad, err := h.manifestScratchpad(oldHelmKey.PublicKey()).Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, oldPad, "the manifest at the old Helm address must be retired in place, not deleted")
	assert.True(t, oldPad.IsRetired())
}

// TestRotateHelmRetirementVisibleThroughFreshCache re-checks the old
// manifest scratchpad's retirement through a second, freshly constructed
// Hierarchy/CacheSet sharing only the network, not the cache that performed
// the rotation -- the actual "never a zero-manifest window" guarantee means
// any reader, not just the rotating process, sees the old manifest retired.
func TestRotateHelmRetirementVisibleThroughFreshCache(t *testing.T) {
	h, result, net := newRotationTestArkWithNetwork(t)
	ctx := context.Background()

	oldHelmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)

	_, err = h.RotateHelm(ctx, nil, PaymentOption{}, &Receipt{})
	require.NoError(t, err)

	freshHierarchy := NewHierarchy(net, NewDefaultCacheSet(), result.Seed)
	oldPad, err := freshHierarchy.manifestScratchpad(oldHelmKey.PublicKey()).Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, oldPad)
	assert.True(t, oldPad.IsRetired(), "a reader with no prior cache must also see the old manifest retired")
}

func TestRotateWorkerRetiresPrevious(t *testing.T) {
	h, result := newRotationTestArk(t)
	ctx := context.Background()

	oldWorkerPub := result.WorkerSecret.PublicKey()

	newWorkerSecret, err := h.RotateWorker(ctx, nil, nil, nil, PaymentOption{}, &Receipt{})
	require.NoError(t, err)
	assert.False(t, newWorkerSecret.PublicKey().Equal(oldWorkerPub))

	manifest, err := h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)
	assert.True(t, manifest.AuthorizedWorker.Equal(newWorkerSecret.PublicKey()))
	require.Len(t, manifest.RetiredWorkers, 1)
	assert.True(t, manifest.RetiredWorkers[0].PublicKey.Equal(oldWorkerPub))
}

func TestRotateAllOrderingProducesConsistentState(t *testing.T) {
	h, result := newRotationTestArk(t)
	ctx := context.Background()

	res, err := h.RotateAll(ctx, nil, PaymentOption{}, &Receipt{})
	require.NoError(t, err)

	manifest, err := h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)
	assert.True(t, manifest.AuthorizedWorker.Equal(res.WorkerSecret.PublicKey()))

	currentHelm, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)
	assert.True(t, currentHelm.PublicKey().Equal(res.HelmKey.PublicKey()))

	currentData, err := h.CurrentDataKey(ctx)
	require.NoError(t, err)
	assert.True(t, currentData.PublicKey().Equal(res.DataKey.PublicKey()))
}
