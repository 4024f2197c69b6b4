package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrauch/ark/internal/testutil"
)

func newManifestTestArk(t *testing.T) (*Hierarchy, *ArkCreationResult) {
	t.Helper()
	net := testutil.NewNetwork()
	cache := NewDefaultCacheSet()
	ctx := context.Background()

	result, err := CreateArk(ctx, net, cache, "manifest ark", nil, PaymentOption{}, nil, &Receipt{})
	require.NoError(t, err)

	h := NewHierarchy(net, cache, result.Seed)
	return h, result
}

func TestGetManifestDecryptsForEveryLiveRecipient(t *testing.T) {
	h, result := newManifestTestArk(t)
	ctx := context.Background()

	manifest, err := h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)
	assert.Equal(t, "manifest ark", manifest.Name)
	assert.True(t, manifest.AuthorizedWorker.Equal(result.WorkerSecret.PublicKey()))

	helmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)
	_, err = h.GetManifest(ctx, AsDecryptor(helmKey))
	require.NoError(t, err)

	_, err = h.GetManifest(ctx, AsDecryptor(result.WorkerSecret))
	require.NoError(t, err)

	dataKey, err := h.CurrentDataKey(ctx)
	require.NoError(t, err)
	_, err = h.GetManifest(ctx, AsDecryptor(dataKey))
	require.NoError(t, err)
}

func TestGetManifestWrongRecipientFails(t *testing.T) {
	h, _ := newManifestTestArk(t)
	ctx := context.Background()

	outsider := GenerateSecretKey[WorkerRole]()
	_, err := h.GetManifest(ctx, AsDecryptor(outsider))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongRecipient)
}

func TestUpdateManifestRoundTrip(t *testing.T) {
	h, result := newManifestTestArk(t)
	ctx := context.Background()

	helmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)

	manifest, err := h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)

	newName := "renamed ark"
	manifest.Name = newName
	require.NoError(t, h.UpdateManifest(ctx, helmKey, manifest, PaymentOption{}, &Receipt{}))

	reread, err := h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)
	assert.Equal(t, newName, reread.Name)
}

func TestUpdateManifestAuthorityMismatch(t *testing.T) {
	h, result := newManifestTestArk(t)
	ctx := context.Background()

	manifest, err := h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)

	stale := GenerateSecretKey[HelmRole]()
	err = h.UpdateManifest(ctx, stale, manifest, PaymentOption{}, &Receipt{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthorityMismatch)
}

func TestRetireManifestRefusesCurrentHelmKey(t *testing.T) {
	h, _ := newManifestTestArk(t)
	ctx := context.Background()

	helmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)

	err = h.RetireManifest(ctx, helmKey, PaymentOption{}, &Receipt{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvariantViolation))
}

func TestUpdateWorkerRetiresPreviousWorker(t *testing.T) {
	manifest := &Manifest{AuthorizedWorker: GenerateSecretKey[WorkerRole]().PublicKey()}
	oldWorker := manifest.AuthorizedWorker
	newWorker := GenerateSecretKey[WorkerRole]().PublicKey()

	UpdateWorker(manifest, newWorker)

	assert.True(t, manifest.AuthorizedWorker.Equal(newWorker))
	require.Len(t, manifest.RetiredWorkers, 1)
	assert.True(t, manifest.RetiredWorkers[0].PublicKey.Equal(oldWorker))
}

func TestUpdateWorkerSameWorkerDoesNotRetire(t *testing.T) {
	worker := GenerateSecretKey[WorkerRole]().PublicKey()
	manifest := &Manifest{AuthorizedWorker: worker}

	UpdateWorker(manifest, worker)

	assert.Empty(t, manifest.RetiredWorkers)
}
