package core

import (
	"context"
	"time"
)

// VaultConfig is one Vault's membership record inside a Manifest (spec.md
// §3). VaultAddress is a freshly generated, discarded-after-use BLS public
// key; the manifest is the only place this record lives.
type VaultConfig struct {
	VaultAddress PublicKey[VaultRole]
	Name         string
	Description  string
	Active       bool
	BridgeKey    *PublicKey[BridgeRole]
}

// Manifest is the Ark's encrypted metadata document (spec.md §3).
type Manifest struct {
	ArkAddress       PublicKey[ArkRole]
	Created          time.Time
	LastModified     time.Time
	Name             string
	Description      *string
	AuthorizedWorker PublicKey[WorkerRole]
	RetiredWorkers   []RetiredKey[WorkerRole]
	Vaults           []VaultConfig
}

func (m *Manifest) toWire() *manifestWire {
	wire := &manifestWire{
		ArkAddress:       m.ArkAddress.Bytes(),
		CreatedUnixNano:  m.Created.UnixNano(),
		LastModifiedNano: m.LastModified.UnixNano(),
		Name:             m.Name,
		AuthorizedWorker: m.AuthorizedWorker.Bytes(),
	}
	if m.Description != nil {
		wire.HasDescription = true
		wire.Description = *m.Description
	}
	for _, rw := range m.RetiredWorkers {
		wire.RetiredWorkers = append(wire.RetiredWorkers, &retiredKeyWire{
			PublicKey:       rw.PublicKey.Bytes(),
			RetiredUnixNano: rw.RetiredAt.UnixNano(),
		})
	}
	for _, v := range m.Vaults {
		vw := &vaultConfigWire{
			VaultAddress: v.VaultAddress.Bytes(),
			Name:         v.Name,
			Description:  v.Description,
			Active:       v.Active,
		}
		if v.BridgeKey != nil {
			vw.BridgeKey = v.BridgeKey.Bytes()
		}
		wire.Vaults = append(wire.Vaults, vw)
	}
	return wire
}

func manifestFromWire(wire *manifestWire) (*Manifest, error) {
	arkAddr, err := PublicKeyFromBytes[ArkRole](wire.ArkAddress)
	if err != nil {
		return nil, err
	}
	worker, err := PublicKeyFromBytes[WorkerRole](wire.AuthorizedWorker)
	if err != nil {
		return nil, err
	}
	m := &Manifest{
		ArkAddress:       arkAddr,
		Created:          time.Unix(0, wire.CreatedUnixNano).UTC(),
		LastModified:     time.Unix(0, wire.LastModifiedNano).UTC(),
		Name:             wire.Name,
		AuthorizedWorker: worker,
	}
	if wire.HasDescription {
		desc := wire.Description
		m.Description = &desc
	}
	for _, rw := range wire.RetiredWorkers {
		pk, err := PublicKeyFromBytes[WorkerRole](rw.PublicKey)
		if err != nil {
			return nil, err
		}
		m.RetiredWorkers = append(m.RetiredWorkers, RetiredKey[WorkerRole]{
			PublicKey: pk,
			RetiredAt: time.Unix(0, rw.RetiredUnixNano).UTC(),
		})
	}
	for _, vw := range wire.Vaults {
		vaultAddr, err := PublicKeyFromBytes[VaultRole](vw.VaultAddress)
		if err != nil {
			return nil, err
		}
		v := VaultConfig{
			VaultAddress: vaultAddr,
			Name:         vw.Name,
			Description:  vw.Description,
			Active:       vw.Active,
		}
		if len(vw.BridgeKey) > 0 {
			bk, err := PublicKeyFromBytes[BridgeRole](vw.BridgeKey)
			if err != nil {
				return nil, err
			}
			v.BridgeKey = &bk
		}
		m.Vaults = append(m.Vaults, v)
	}
	return m, nil
}

// serializeManifest frames m as magic-header-prefixed protobuf
// (ark_manifest_v00, spec.md §4.9).
func serializeManifest(m *Manifest) ([]byte, error) {
	return encodeFramed(magicManifest, m.toWire())
}

// deserializeManifest reverses serializeManifest.
func deserializeManifest(data []byte) (*Manifest, error) {
	var wire manifestWire
	if err := decodeFramed(magicManifest, data, &wire); err != nil {
		return nil, err
	}
	return manifestFromWire(&wire)
}

// --- Manifest Engine (C5) ------------------------------------------------

func (h *Hierarchy) manifestScratchpad(helmPub PublicKey[HelmRole]) *ScratchpadHandle[ManifestOwnerRole] {
	return NewScratchpadHandle(h.net, h.cache, manifestOwnerPublic(helmPub))
}

// manifestRecipients computes the live recipient set for manifest
// encryption: {ArkSeed, current HelmKey, authorized Worker, current
// DataKey} (spec.md §3, §4.4).
func (h *Hierarchy) manifestRecipients(ctx context.Context, helmKey SecretKey[HelmRole], workerPub PublicKey[WorkerRole]) ([]EnvelopeRecipient, error) {
	recipients := []EnvelopeRecipient{
		AsRecipient(h.seed.Address()),
		AsRecipient(helmKey.PublicKey()),
		AsRecipient(workerPub),
	}
	dataKey, err := h.CurrentDataKey(ctx)
	if err != nil && !IsKind(err, KindNotFound) {
		return nil, err
	}
	if err == nil {
		recipients = append(recipients, AsRecipient(dataKey.PublicKey()))
	}
	return recipients, nil
}

// CreateManifest writes a fresh manifest scratchpad at helmKey's manifest
// address. Fails AlreadyExists if one is already present.
func (h *Hierarchy) CreateManifest(ctx context.Context, helmKey SecretKey[HelmRole], manifest *Manifest, pay PaymentOption, receipt *Receipt) error {
	recipients, err := h.manifestRecipients(ctx, helmKey, manifest.AuthorizedWorker)
	if err != nil {
		return err
	}
	plaintext, err := serializeManifest(manifest)
	if err != nil {
		return err
	}
	envelope, err := EncryptEnvelope(plaintext, recipients...)
	if err != nil {
		return err
	}
	payload, err := encodeEnvelope(envelope)
	if err != nil {
		return err
	}
	owner := manifestOwner(helmKey)
	if err := h.manifestScratchpad(helmKey.PublicKey()).Create(ctx, owner, payload, manifestDataEncoding, pay, receipt); err != nil {
		return err
	}
	logger.WithFields(fields{"recipients": len(recipients)}).Debug("manifest created")
	return nil
}

// GetManifest reads the live manifest scratchpad (addressed by the current
// Helm register value) and decrypts it with decryptor, which must be one of
// {ArkSeed, current HelmKey, current WorkerKey, current DataKey}. Fails
// WrongRecipient otherwise.
func (h *Hierarchy) GetManifest(ctx context.Context, decryptor EnvelopeDecryptor) (*Manifest, error) {
	helmKey, err := h.CurrentHelmKey(ctx)
	if err != nil {
		return nil, err
	}
	pad, err := h.manifestScratchpad(helmKey.PublicKey()).Read(ctx)
	if err != nil {
		return nil, err
	}
	if pad == nil {
		return nil, ErrNotFound
	}
	if pad.DataEncoding != manifestDataEncoding {
		return nil, NewError(KindBadEncoding, "manifest data_encoding mismatch", nil)
	}
	if pad.IsRetired() {
		return nil, ErrRetired
	}
	envelope, err := decodeEnvelope(pad.Payload)
	if err != nil {
		return nil, err
	}
	plaintext, err := DecryptEnvelope(envelope, decryptor)
	if err != nil {
		return nil, err
	}
	return deserializeManifest(plaintext)
}

// UpdateManifest verifies helmKey is the current Helm key, re-encrypts
// manifest to the live recipient set, and writes it as an update.
func (h *Hierarchy) UpdateManifest(ctx context.Context, helmKey SecretKey[HelmRole], manifest *Manifest, pay PaymentOption, receipt *Receipt) error {
	current, err := h.CurrentHelmKey(ctx)
	if err != nil {
		return err
	}
	if !current.PublicKey().Equal(helmKey.PublicKey()) {
		return ErrAuthorityMismatch
	}
	manifest.LastModified = time.Now()

	recipients, err := h.manifestRecipients(ctx, helmKey, manifest.AuthorizedWorker)
	if err != nil {
		return err
	}
	plaintext, err := serializeManifest(manifest)
	if err != nil {
		return err
	}
	envelope, err := EncryptEnvelope(plaintext, recipients...)
	if err != nil {
		return err
	}
	payload, err := encodeEnvelope(envelope)
	if err != nil {
		return err
	}
	owner := manifestOwner(helmKey)
	if err := h.manifestScratchpad(helmKey.PublicKey()).Update(ctx, owner, payload, manifestDataEncoding, pay, receipt); err != nil {
		return err
	}
	logger.WithFields(fields{"recipients": len(recipients)}).Debug("manifest updated")
	return nil
}

// RetireManifest tombstones the scratchpad at helmKey's manifest address.
// Refuses unless helmKey is no longer the current Helm key -- it exists to
// garbage-collect the previous manifest after a Helm rotation.
func (h *Hierarchy) RetireManifest(ctx context.Context, helmKey SecretKey[HelmRole], pay PaymentOption, receipt *Receipt) error {
	current, err := h.CurrentHelmKey(ctx)
	if err != nil {
		return err
	}
	if current.PublicKey().Equal(helmKey.PublicKey()) {
		return NewError(KindInvariantViolation, "refusing to retire the current manifest", nil)
	}
	owner := manifestOwner(helmKey)
	return h.manifestScratchpad(helmKey.PublicKey()).Retire(ctx, owner, pay, receipt)
}

// UpdateWorker sets manifest.AuthorizedWorker to newWorker, moving the
// previous value into RetiredWorkers if it differed. It changes only the
// in-memory manifest and writes nothing to the network. The retired-worker
// set is ordered by retirement time and never shrinks (spec.md §4.5).
func UpdateWorker(manifest *Manifest, newWorker PublicKey[WorkerRole]) {
	if !manifest.AuthorizedWorker.IsZero() && !manifest.AuthorizedWorker.Equal(newWorker) {
		manifest.RetiredWorkers = append(manifest.RetiredWorkers, RetiredKey[WorkerRole]{
			PublicKey: manifest.AuthorizedWorker,
			RetiredAt: time.Now(),
		})
	}
	manifest.AuthorizedWorker = newWorker
}
