package core

import (
	"context"

	"github.com/google/uuid"
)

// This file implements the Vault Accessor (C7): Vault lifecycle records
// inside the manifest, plus the immutable ark-pointer trust anchor that
// lets a third party holding only a VaultAddress locate the owning Ark.

func vaultArkPointerOwnerSecret(vaultSecret SecretKey[VaultRole]) SecretKey[VaultArkPointerRole] {
	return DeriveChildSecret[VaultRole, VaultArkPointerRole](vaultSecret, vaultArkPointerIndex)
}

func vaultArkPointerOwnerPublic(vaultAddr PublicKey[VaultRole]) PublicKey[VaultArkPointerRole] {
	return DerivePublicChild[VaultRole, VaultArkPointerRole](vaultAddr, vaultArkPointerIndex)
}

// CreateVault generates a fresh VaultAddress, writes its immutable
// ark-pointer trust anchor, and appends a VaultConfig to the manifest.
func (h *Hierarchy) CreateVault(ctx context.Context, helmKey SecretKey[HelmRole], name, description string, pay PaymentOption, task *Task, receipt *Receipt) (*VaultConfig, error) {
	vaultSecret := GenerateSecretKey[VaultRole]()
	vaultAddr := vaultSecret.PublicKey()

	if err := runStep(task, "Create Ark Pointer", func() error {
		pointerOwner := vaultArkPointerOwnerSecret(vaultSecret)
		pointerHandle := NewPointerHandle(h.net, h.cache, pointerOwner.PublicKey())
		var target PointerTarget
		copy(target[:], h.seed.Address().Bytes())
		return pointerHandle.CreateImmutable(ctx, pointerOwner, target, pay, receipt)
	}); err != nil {
		return nil, err
	}
	vaultSecret.Zeroize()

	config := VaultConfig{VaultAddress: vaultAddr, Name: name, Description: description, Active: true}
	if err := runStep(task, "Append Vault To Manifest", func() error {
		manifest, err := h.GetManifest(ctx, AsDecryptor(helmKey))
		if err != nil {
			return err
		}
		manifest.Vaults = append(manifest.Vaults, config)
		return h.UpdateManifest(ctx, helmKey, manifest, pay, receipt)
	}); err != nil {
		return nil, err
	}

	logger.WithFields(fields{"name": name}).Info("vault created")
	return &config, nil
}

// LegacyVaultID derives a deprecated UUIDv5 identifier from a VaultAddress,
// for callers migrating off an older integration that indexed Vaults by
// VaultId rather than the VaultAddress public key directly (spec.md Open
// Questions: VaultAddress, not VaultId, is the persisted identity; this
// exists only to let such a caller compute the id it used to store without
// this module ever persisting one itself).
func LegacyVaultID(vaultAddr PublicKey[VaultRole]) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, vaultAddr.Bytes())
}

// ArkFromVaultAddress resolves the Ark a VaultAddress belongs to, using only
// public information. Returns (nil, nil) if no ark-pointer exists at the
// derived address, and InvariantViolation if it has not reached its
// immutable, final state (the only state third parties may trust).
func ArkFromVaultAddress(ctx context.Context, net StorageNetwork, cache *CacheSet, vaultAddr PublicKey[VaultRole]) (*PublicKey[ArkRole], error) {
	pointerOwner := vaultArkPointerOwnerPublic(vaultAddr)
	handle := NewPointerHandle(net, cache, pointerOwner)
	p, err := handle.Read(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	if !p.IsFinal() {
		return nil, NewError(KindInvariantViolation, "ark pointer is not immutable", nil)
	}
	ark, err := PublicKeyFromBytes[ArkRole](p.Target[:])
	if err != nil {
		return nil, err
	}
	return &ark, nil
}

// VaultPatch is a sparse set of field updates for modifyVault. A nil field
// leaves the corresponding VaultConfig field untouched. An entirely nil
// patch is a no-op that incurs no network cost (spec.md §4.7).
type VaultPatch struct {
	Active      *bool
	Name        *string
	Description *string
	// BridgeKey, when non-nil, replaces the bridge key; BridgeKeyClear, when
	// true, removes it. At most one of the two should be set.
	BridgeKey      *PublicKey[BridgeRole]
	BridgeKeyClear bool
}

func (p VaultPatch) isEmpty() bool {
	return p.Active == nil && p.Name == nil && p.Description == nil && p.BridgeKey == nil && !p.BridgeKeyClear
}

// modifyVault reads the manifest, applies patch to the VaultConfig matching
// vaultAddr, and writes the manifest back. Fails NotFound if no such vault
// is registered.
func (h *Hierarchy) modifyVault(ctx context.Context, helmKey SecretKey[HelmRole], vaultAddr PublicKey[VaultRole], patch VaultPatch, pay PaymentOption, receipt *Receipt) error {
	if patch.isEmpty() {
		return nil
	}
	manifest, err := h.GetManifest(ctx, AsDecryptor(helmKey))
	if err != nil {
		return err
	}
	found := -1
	for i, v := range manifest.Vaults {
		if v.VaultAddress.Equal(vaultAddr) {
			found = i
			break
		}
	}
	if found < 0 {
		return ErrNotFound
	}
	v := &manifest.Vaults[found]
	if patch.Active != nil {
		v.Active = *patch.Active
	}
	if patch.Name != nil {
		v.Name = *patch.Name
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.BridgeKeyClear {
		v.BridgeKey = nil
	} else if patch.BridgeKey != nil {
		v.BridgeKey = patch.BridgeKey
	}
	return h.UpdateManifest(ctx, helmKey, manifest, pay, receipt)
}

// ActivateVault marks a vault active.
func (h *Hierarchy) ActivateVault(ctx context.Context, helmKey SecretKey[HelmRole], vaultAddr PublicKey[VaultRole], pay PaymentOption, receipt *Receipt) error {
	active := true
	return h.modifyVault(ctx, helmKey, vaultAddr, VaultPatch{Active: &active}, pay, receipt)
}

// DeactivateVault marks a vault inactive.
func (h *Hierarchy) DeactivateVault(ctx context.Context, helmKey SecretKey[HelmRole], vaultAddr PublicKey[VaultRole], pay PaymentOption, receipt *Receipt) error {
	active := false
	return h.modifyVault(ctx, helmKey, vaultAddr, VaultPatch{Active: &active}, pay, receipt)
}

// UpdateVaultBridge sets or clears a vault's bridge key.
func (h *Hierarchy) UpdateVaultBridge(ctx context.Context, helmKey SecretKey[HelmRole], vaultAddr PublicKey[VaultRole], bridge *PublicKey[BridgeRole], pay PaymentOption, receipt *Receipt) error {
	if bridge == nil {
		return h.modifyVault(ctx, helmKey, vaultAddr, VaultPatch{BridgeKeyClear: true}, pay, receipt)
	}
	return h.modifyVault(ctx, helmKey, vaultAddr, VaultPatch{BridgeKey: bridge}, pay, receipt)
}

// RenameVault changes a vault's display name.
func (h *Hierarchy) RenameVault(ctx context.Context, helmKey SecretKey[HelmRole], vaultAddr PublicKey[VaultRole], name string, pay PaymentOption, receipt *Receipt) error {
	return h.modifyVault(ctx, helmKey, vaultAddr, VaultPatch{Name: &name}, pay, receipt)
}

// RedescribeVault changes a vault's description.
func (h *Hierarchy) RedescribeVault(ctx context.Context, helmKey SecretKey[HelmRole], vaultAddr PublicKey[VaultRole], description string, pay PaymentOption, receipt *Receipt) error {
	return h.modifyVault(ctx, helmKey, vaultAddr, VaultPatch{Description: &description}, pay, receipt)
}
