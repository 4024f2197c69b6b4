package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrauch/ark/internal/testutil"
)

func newVaultTestArk(t *testing.T) (*Hierarchy, *ArkCreationResult, StorageNetwork, *CacheSet) {
	t.Helper()
	net := testutil.NewNetwork()
	cache := NewDefaultCacheSet()
	ctx := context.Background()

	result, err := CreateArk(ctx, net, cache, "vault ark", nil, PaymentOption{}, nil, &Receipt{})
	require.NoError(t, err)

	h := NewHierarchy(net, cache, result.Seed)
	return h, result, net, cache
}

func TestCreateVaultAppendsToManifestAndResolvesBack(t *testing.T) {
	h, result, net, cache := newVaultTestArk(t)
	ctx := context.Background()

	helmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)

	vault, err := h.CreateVault(ctx, helmKey, "my vault", "a description", PaymentOption{}, nil, &Receipt{})
	require.NoError(t, err)
	assert.Equal(t, "my vault", vault.Name)
	assert.True(t, vault.Active)

	manifest, err := h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)
	require.Len(t, manifest.Vaults, 1)
	assert.True(t, manifest.Vaults[0].VaultAddress.Equal(vault.VaultAddress))

	arkAddr, err := ArkFromVaultAddress(ctx, net, cache, vault.VaultAddress)
	require.NoError(t, err)
	require.NotNil(t, arkAddr)
	assert.True(t, arkAddr.Equal(result.Seed.Address()))
}

// TestArkFromVaultAddressResolvesThroughAFreshCache exercises C7's actual
// use case: a third party holding only a VaultAddress, in a process that
// never ran CreateVault and so never warmed a cache with the pointer's
// final state. The ark-pointer's finality must be readable from the
// network itself, not only from the writer's own cache.
func TestArkFromVaultAddressResolvesThroughAFreshCache(t *testing.T) {
	h, result, net, _ := newVaultTestArk(t)
	ctx := context.Background()

	helmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)
	vault, err := h.CreateVault(ctx, helmKey, "my vault", "a description", PaymentOption{}, nil, &Receipt{})
	require.NoError(t, err)

	freshCache := NewDefaultCacheSet()
	arkAddr, err := ArkFromVaultAddress(ctx, net, freshCache, vault.VaultAddress)
	require.NoError(t, err)
	require.NotNil(t, arkAddr)
	assert.True(t, arkAddr.Equal(result.Seed.Address()))
}

func TestArkFromVaultAddressUnknownReturnsNil(t *testing.T) {
	_, _, net, cache := newVaultTestArk(t)
	ctx := context.Background()

	unknown := GenerateSecretKey[VaultRole]().PublicKey()
	arkAddr, err := ArkFromVaultAddress(ctx, net, cache, unknown)
	require.NoError(t, err)
	assert.Nil(t, arkAddr)
}

func TestModifyVaultPatchesFields(t *testing.T) {
	h, result, _, _ := newVaultTestArk(t)
	ctx := context.Background()

	helmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)
	vault, err := h.CreateVault(ctx, helmKey, "vault", "desc", PaymentOption{}, nil, &Receipt{})
	require.NoError(t, err)

	require.NoError(t, h.DeactivateVault(ctx, helmKey, vault.VaultAddress, PaymentOption{}, &Receipt{}))
	require.NoError(t, h.RenameVault(ctx, helmKey, vault.VaultAddress, "renamed", PaymentOption{}, &Receipt{}))

	bridge := GenerateSecretKey[BridgeRole]().PublicKey()
	require.NoError(t, h.UpdateVaultBridge(ctx, helmKey, vault.VaultAddress, &bridge, PaymentOption{}, &Receipt{}))

	manifest, err := h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)
	require.Len(t, manifest.Vaults, 1)
	v := manifest.Vaults[0]
	assert.False(t, v.Active)
	assert.Equal(t, "renamed", v.Name)
	require.NotNil(t, v.BridgeKey)
	assert.True(t, v.BridgeKey.Equal(bridge))

	require.NoError(t, h.UpdateVaultBridge(ctx, helmKey, vault.VaultAddress, nil, PaymentOption{}, &Receipt{}))
	manifest, err = h.GetManifest(ctx, AsDecryptor(result.Seed.Secret()))
	require.NoError(t, err)
	assert.Nil(t, manifest.Vaults[0].BridgeKey)
}

func TestModifyVaultUnknownAddressNotFound(t *testing.T) {
	h, _, _, _ := newVaultTestArk(t)
	ctx := context.Background()

	helmKey, err := h.CurrentHelmKey(ctx)
	require.NoError(t, err)
	unknown := GenerateSecretKey[VaultRole]().PublicKey()

	err = h.RenameVault(ctx, helmKey, unknown, "x", PaymentOption{}, &Receipt{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
}

// TestArkPointerRejectsMutationAfterFinalityThroughFreshCache is the
// regression test for S2: once a pointer has reached its immutable, final
// state, an attempt to retarget it -- read via a second, freshly
// constructed CacheSet against the same network, as a real trust-anchor
// verifier would observe it -- must fail Immutable rather than silently
// succeeding because a warm cache masked the network's true state.
func TestArkPointerRejectsMutationAfterFinalityThroughFreshCache(t *testing.T) {
	net := testutil.NewNetwork()
	ctx := context.Background()

	ownerSK := GenerateSecretKey[VaultArkPointerRole]()
	writeCache := NewDefaultCacheSet()
	writeHandle := NewPointerHandle(net, writeCache, ownerSK.PublicKey())

	var target PointerTarget
	copy(target[:], GenerateSecretKey[ArkRole]().PublicKey().Bytes())
	require.NoError(t, writeHandle.CreateImmutable(ctx, ownerSK, target, PaymentOption{}, &Receipt{}))

	freshCache := NewDefaultCacheSet()
	freshHandle := NewPointerHandle(net, freshCache, ownerSK.PublicKey())

	var newTarget PointerTarget
	copy(newTarget[:], GenerateSecretKey[ArkRole]().PublicKey().Bytes())
	err := freshHandle.Update(ctx, ownerSK, newTarget, PaymentOption{}, &Receipt{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImmutable)
}

func TestLegacyVaultIDDeterministic(t *testing.T) {
	vaultAddr := GenerateSecretKey[VaultRole]().PublicKey()

	a := LegacyVaultID(vaultAddr)
	b := LegacyVaultID(vaultAddr)
	assert.Equal(t, a, b)

	other := GenerateSecretKey[VaultRole]().PublicKey()
	assert.NotEqual(t, a, LegacyVaultID(other))
}
