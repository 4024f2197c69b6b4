package core

import (
	"context"
	"time"
)

// ArkCreationResult is the outcome of CreateArk: everything the caller needs
// to re-derive and subsequently manage the new Ark.
type ArkCreationResult struct {
	Seed         ArkSeed
	Mnemonic     string
	WorkerSecret SecretKey[WorkerRole]
	Manifest     *Manifest
}

// CreateArk generates a fresh ArkSeed, stands up its Helm and Data
// registers, seeds the DataKeyRing with the first Data key, and writes the
// initial manifest -- the full state spec.md §3 calls "Ark state". task may
// be nil.
func CreateArk(ctx context.Context, net StorageNetwork, cache *CacheSet, name string, description *string, pay PaymentOption, task *Task, receipt *Receipt) (*ArkCreationResult, error) {
	var seed ArkSeed
	var mnemonic string
	var h *Hierarchy

	if err := runStep(task, "Generate ArkSeed", func() error {
		m, err := NewMnemonic()
		if err != nil {
			return err
		}
		s, err := ArkSeedFromMnemonic(m)
		if err != nil {
			return err
		}
		mnemonic, seed = m, s
		h = NewHierarchy(net, cache, seed)
		return nil
	}); err != nil {
		return nil, err
	}

	var helmSeed DerivationIndex[HelmRole]
	if err := runStep(task, "Create Helm Register", func() error {
		s, err := RandomDerivationIndex[HelmRole]()
		if err != nil {
			return err
		}
		helmSeed = s
		return h.helmRegister().Create(ctx, seed.helmRegisterOwner(), s.Bytes(), pay, receipt)
	}); err != nil {
		return nil, err
	}

	var dataSeed DerivationIndex[DataRole]
	if err := runStep(task, "Create Data Register", func() error {
		s, err := RandomDerivationIndex[DataRole]()
		if err != nil {
			return err
		}
		dataSeed = s
		return h.dataRegister().Create(ctx, seed.dataRegisterOwner(), s.Bytes(), pay, receipt)
	}); err != nil {
		return nil, err
	}

	dataKey := seed.DataKey(dataSeed)
	if err := runStep(task, "Seed Data Key Ring", func() error {
		ring := NewKeyRing[DataRole]()
		ring.Append(dataKey)
		return h.writeDataKeyRing(ctx, seed.dataKeyRingOwner(), dataKey, ring, pay, receipt)
	}); err != nil {
		return nil, err
	}

	workerSecret := GenerateSecretKey[WorkerRole]()
	helmKey := seed.HelmKey(helmSeed)
	now := time.Now()
	manifest := &Manifest{
		ArkAddress:       seed.Address(),
		Created:          now,
		LastModified:     now,
		Name:             name,
		Description:      description,
		AuthorizedWorker: workerSecret.PublicKey(),
	}
	if err := runStep(task, "Write Manifest", func() error {
		return h.CreateManifest(ctx, helmKey, manifest, pay, receipt)
	}); err != nil {
		return nil, err
	}

	logger.WithFields(fields{"name": name}).Info("ark created")

	return &ArkCreationResult{
		Seed:         seed,
		Mnemonic:     mnemonic,
		WorkerSecret: workerSecret,
		Manifest:     manifest,
	}, nil
}
