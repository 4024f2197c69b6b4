package core

import "context"

// This file implements the Key Hierarchy (C4): the fixed derivation spine
// from an ArkSeed down to the register/scratchpad owners, and the
// current-key lookups every other component (Manifest Engine, Rotation
// Engine, Vault Accessor) builds on.

// ArkSeed is an Ark's master secret. Every other key in the hierarchy is
// reachable from it by derivation; losing it means losing Helm authority
// (and therefore the ability to rotate anything).
type ArkSeed struct {
	sk SecretKey[ArkRole]
}

// NewArkSeed generates a fresh ArkSeed directly (bypassing EIP-2333), used
// only by tests that don't need mnemonic round-tripping.
func NewArkSeed() ArkSeed {
	return ArkSeed{sk: GenerateSecretKey[ArkRole]()}
}

// ArkSeedFromMnemonic derives the ArkSeed via EIP-2333 from a validated
// 24-word BIP-39 mnemonic.
func ArkSeedFromMnemonic(mnemonic string) (ArkSeed, error) {
	normalized, err := normalizeMnemonic(mnemonic)
	if err != nil {
		return ArkSeed{}, err
	}
	scalar, err := deriveMasterScalar(mnemonicToSeed(normalized))
	if err != nil {
		return ArkSeed{}, err
	}
	sk := scalarToSecretKey(scalar)
	return ArkSeed{sk: SecretKey[ArkRole]{sk: sk}}, nil
}

// Address is the Ark's public identity, the "arkaddr" bech32m value.
func (a ArkSeed) Address() PublicKey[ArkRole] { return a.sk.PublicKey() }

// Secret exposes the underlying scalar for operations (envelope recipients,
// derivation) that need it directly.
func (a ArkSeed) Secret() SecretKey[ArkRole] { return a.sk }

// Zeroize overwrites the seed's in-memory scalar.
func (a *ArkSeed) Zeroize() { a.sk.Zeroize() }

// helmRegisterOwner derives the fixed owner key of the Helm register.
func (a ArkSeed) helmRegisterOwner() SecretKey[HelmRegisterOwnerRole] {
	return DeriveChildSecret[ArkRole, HelmRegisterOwnerRole](a.sk, helmRegisterIndex)
}

// dataRegisterOwner derives the fixed owner key of the Data register.
func (a ArkSeed) dataRegisterOwner() SecretKey[DataRegisterOwnerRole] {
	return DeriveChildSecret[ArkRole, DataRegisterOwnerRole](a.sk, dataRegisterIndex)
}

// dataKeyRingOwner derives the fixed owner key of the DataKeyRing
// scratchpad.
func (a ArkSeed) dataKeyRingOwner() SecretKey[DataKeyRingOwnerRole] {
	return DeriveChildSecret[ArkRole, DataKeyRingOwnerRole](a.sk, dataKeyRingIndex)
}

// HelmKey re-derives the current Helm key from a HelmKeySeed read off the
// register (ArkSeed.derive_child(HelmKeySeed), spec.md §4.4).
func (a ArkSeed) HelmKey(seed DerivationIndex[HelmRole]) SecretKey[HelmRole] {
	return DeriveChildSecret[ArkRole, HelmRole](a.sk, seed)
}

// DataKey re-derives the current Data key from a DataKeySeed read off the
// register.
func (a ArkSeed) DataKey(seed DerivationIndex[DataRole]) SecretKey[DataRole] {
	return DeriveChildSecret[ArkRole, DataRole](a.sk, seed)
}

// manifestOwner derives the owner of the manifest scratchpad that currently
// lives under helmKey (the owner moves every time Helm rotates, since it is
// keyed off the *current* Helm public key, per spec.md §4.4/§4.6).
func manifestOwner(helmKey SecretKey[HelmRole]) SecretKey[ManifestOwnerRole] {
	return DeriveChildSecret[HelmRole, ManifestOwnerRole](helmKey, manifestIndex)
}

// manifestOwnerPublic is the public-only twin of manifestOwner, letting a
// reader compute a manifest's address from a Helm public key alone (used by
// get_manifest, and by the "read the previous manifest" step of Helm
// rotation).
func manifestOwnerPublic(helmPub PublicKey[HelmRole]) PublicKey[ManifestOwnerRole] {
	return DerivePublicChild[HelmRole, ManifestOwnerRole](helmPub, manifestIndex)
}

// Hierarchy binds an ArkSeed to the network and cache layer, and is the
// entry point the Manifest and Rotation Engines use to reach any live
// register/scratchpad handle.
type Hierarchy struct {
	net   StorageNetwork
	cache *CacheSet
	seed  ArkSeed
}

// NewHierarchy builds a Hierarchy for seed against net, using cache (or a
// fresh default CacheSet if cache is nil).
func NewHierarchy(net StorageNetwork, cache *CacheSet, seed ArkSeed) *Hierarchy {
	if cache == nil {
		cache = NewDefaultCacheSet()
	}
	return &Hierarchy{net: net, cache: cache, seed: seed}
}

func (h *Hierarchy) helmRegister() *RegisterHandle[HelmRegisterOwnerRole] {
	return NewRegisterHandle(h.net, h.cache, h.seed.helmRegisterOwner().PublicKey())
}

func (h *Hierarchy) dataRegister() *RegisterHandle[DataRegisterOwnerRole] {
	return NewRegisterHandle(h.net, h.cache, h.seed.dataRegisterOwner().PublicKey())
}

func (h *Hierarchy) dataKeyRing() *ScratchpadHandle[DataKeyRingOwnerRole] {
	return NewScratchpadHandle(h.net, h.cache, h.seed.dataKeyRingOwner().PublicKey())
}

// CurrentHelmSeed reads the HelmKeySeed currently stored in the Helm
// register. ok is false if the Ark has not been created yet.
func (h *Hierarchy) CurrentHelmSeed(ctx context.Context) (DerivationIndex[HelmRole], bool, error) {
	value, ok, err := h.helmRegister().Read(ctx)
	if err != nil || !ok {
		return DerivationIndex[HelmRole]{}, ok, err
	}
	return DerivationIndex[HelmRole]{b: value}, true, nil
}

// CurrentHelmKey resolves the live Helm secret key.
func (h *Hierarchy) CurrentHelmKey(ctx context.Context) (SecretKey[HelmRole], error) {
	seed, ok, err := h.CurrentHelmSeed(ctx)
	if err != nil {
		return SecretKey[HelmRole]{}, err
	}
	if !ok {
		return SecretKey[HelmRole]{}, ErrNotFound
	}
	return h.seed.HelmKey(seed), nil
}

// CurrentDataSeed reads the DataKeySeed currently stored in the Data
// register.
func (h *Hierarchy) CurrentDataSeed(ctx context.Context) (DerivationIndex[DataRole], bool, error) {
	value, ok, err := h.dataRegister().Read(ctx)
	if err != nil || !ok {
		return DerivationIndex[DataRole]{}, ok, err
	}
	return DerivationIndex[DataRole]{b: value}, true, nil
}

// CurrentDataKey resolves the live Data secret key (the SealKey's secret
// half).
func (h *Hierarchy) CurrentDataKey(ctx context.Context) (SecretKey[DataRole], error) {
	seed, ok, err := h.CurrentDataSeed(ctx)
	if err != nil {
		return SecretKey[DataRole]{}, err
	}
	if !ok {
		return SecretKey[DataRole]{}, ErrNotFound
	}
	return h.seed.DataKey(seed), nil
}

// DataKeyHistory returns the Data secret key derived from every DataKeySeed
// ever stored in the Data register, in chronological order.
func (h *Hierarchy) DataKeyHistory(ctx context.Context) ([]SecretKey[DataRole], error) {
	history, err := h.dataRegister().History(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]SecretKey[DataRole], len(history))
	for i, v := range history {
		keys[i] = h.seed.DataKey(DerivationIndex[DataRole]{b: v})
	}
	return keys, nil
}

// ReadDataKeyRing reads and decrypts the DataKeyRing scratchpad, which is
// stored as an envelope whose only recipient is the current Data public key
// (spec.md §4.4).
func (h *Hierarchy) ReadDataKeyRing(ctx context.Context) (*KeyRing[DataRole], error) {
	pad, err := h.dataKeyRing().Read(ctx)
	if err != nil {
		return nil, err
	}
	if pad == nil {
		return nil, ErrNotFound
	}
	if pad.DataEncoding != keyRingDataEncoding {
		return nil, NewError(KindBadEncoding, "keyring data_encoding mismatch", nil)
	}
	currentData, err := h.CurrentDataKey(ctx)
	if err != nil {
		return nil, err
	}
	envelope, err := decodeEnvelope(pad.Payload)
	if err != nil {
		return nil, err
	}
	plaintext, err := DecryptEnvelope(envelope, AsDecryptor(currentData))
	if err != nil {
		return nil, err
	}
	return DeserializeKeyRing[DataRole](plaintext)
}

// writeDataKeyRing re-encrypts ring under newDataKey's public half and
// writes it via upsert (create if absent, update otherwise).
func (h *Hierarchy) writeDataKeyRing(ctx context.Context, ownerSK SecretKey[DataKeyRingOwnerRole], newDataKey SecretKey[DataRole], ring *KeyRing[DataRole], pay PaymentOption, receipt *Receipt) error {
	plaintext, err := ring.Serialize()
	if err != nil {
		return err
	}
	envelope, err := EncryptEnvelope(plaintext, AsRecipient(newDataKey.PublicKey()))
	if err != nil {
		return err
	}
	payload, err := encodeEnvelope(envelope)
	if err != nil {
		return err
	}
	handle := h.dataKeyRing()
	existing, err := handle.Read(ctx)
	if err != nil {
		return err
	}
	if existing == nil {
		return handle.Create(ctx, ownerSK, payload, keyRingDataEncoding, pay, receipt)
	}
	return handle.Update(ctx, ownerSK, payload, keyRingDataEncoding, pay, receipt)
}
