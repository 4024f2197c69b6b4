package core

import "context"

// This file implements the Rotation Engine (C6): Data, Helm, Worker and All
// rotation, each sharing one Receipt and (optionally) reporting progress
// through a task tree per spec.md §4.6.

// RotateData advances the Data key: it re-encrypts the full historical
// KeyRing under a freshly generated Data key and re-encrypts the manifest
// under the refreshed recipient set. Requires the ArkSeed.
func (h *Hierarchy) RotateData(ctx context.Context, task *Task, pay PaymentOption, receipt *Receipt) (SecretKey[DataRole], error) {
	if err := runStep(task, "Verify Ark Seed", func() error {
		if h.seed.Address().IsZero() {
			return ErrAuthorityMismatch
		}
		return nil
	}); err != nil {
		return SecretKey[DataRole]{}, err
	}

	var history []SecretKey[DataRole]
	if err := runStep(task, "Read Data Key History", func() error {
		hist, err := h.DataKeyHistory(ctx)
		if err != nil {
			return err
		}
		history = hist
		return nil
	}); err != nil {
		return SecretKey[DataRole]{}, err
	}

	var newDataKey SecretKey[DataRole]
	if err := runStep(task, "Update Data Register", func() error {
		newSeed, err := RandomDerivationIndex[DataRole]()
		if err != nil {
			return err
		}
		if err := h.dataRegister().Update(ctx, h.seed.dataRegisterOwner(), newSeed.Bytes(), pay, receipt); err != nil {
			return err
		}
		newDataKey = h.seed.DataKey(newSeed)
		return nil
	}); err != nil {
		return SecretKey[DataRole]{}, err
	}

	if err := runStep(task, "Update Data Key Ring", func() error {
		ring := NewKeyRing[DataRole]()
		for _, k := range history {
			ring.Append(k)
		}
		ring.Append(newDataKey)
		return h.writeDataKeyRing(ctx, h.seed.dataKeyRingOwner(), newDataKey, ring, pay, receipt)
	}); err != nil {
		return SecretKey[DataRole]{}, err
	}

	if err := runStep(task, "Re-encrypt Manifest", func() error {
		helmKey, err := h.CurrentHelmKey(ctx)
		if err != nil {
			return err
		}
		manifest, err := h.GetManifest(ctx, AsDecryptor(h.seed.Secret()))
		if err != nil {
			return err
		}
		return h.UpdateManifest(ctx, helmKey, manifest, pay, receipt)
	}); err != nil {
		return SecretKey[DataRole]{}, err
	}

	logger.WithFields(fields{"history_len": len(history) + 1}).Info("data key rotated")
	return newDataKey, nil
}

// RotateHelm advances the Helm key: it creates a new manifest scratchpad
// under the new Helm key's address before retiring the previous one, so no
// observer ever sees a window with zero live manifests. Requires the
// ArkSeed.
func (h *Hierarchy) RotateHelm(ctx context.Context, task *Task, pay PaymentOption, receipt *Receipt) (SecretKey[HelmRole], error) {
	if err := runStep(task, "Verify Ark Seed", func() error {
		if h.seed.Address().IsZero() {
			return ErrAuthorityMismatch
		}
		return nil
	}); err != nil {
		return SecretKey[HelmRole]{}, err
	}

	var currentHelmKey SecretKey[HelmRole]
	if err := runStep(task, "Read Current Helm Key", func() error {
		k, err := h.CurrentHelmKey(ctx)
		if err != nil {
			return err
		}
		currentHelmKey = k
		return nil
	}); err != nil {
		return SecretKey[HelmRole]{}, err
	}

	var manifest *Manifest
	if err := runStep(task, "Read Current Manifest", func() error {
		m, err := h.GetManifest(ctx, AsDecryptor(currentHelmKey))
		if err != nil {
			return err
		}
		manifest = m
		return nil
	}); err != nil {
		return SecretKey[HelmRole]{}, err
	}

	var newHelmKey SecretKey[HelmRole]
	if err := runStep(task, "Update Helm Register", func() error {
		newSeed, err := RandomDerivationIndex[HelmRole]()
		if err != nil {
			return err
		}
		if err := h.helmRegister().Update(ctx, h.seed.helmRegisterOwner(), newSeed.Bytes(), pay, receipt); err != nil {
			return err
		}
		newHelmKey = h.seed.HelmKey(newSeed)
		return nil
	}); err != nil {
		return SecretKey[HelmRole]{}, err
	}

	if err := runStep(task, "Create New Manifest", func() error {
		return h.CreateManifest(ctx, newHelmKey, manifest, pay, receipt)
	}); err != nil {
		return SecretKey[HelmRole]{}, err
	}

	if err := runStep(task, "Retire Previous Manifest", func() error {
		return h.RetireManifest(ctx, currentHelmKey, pay, receipt)
	}); err != nil {
		return SecretKey[HelmRole]{}, err
	}

	logger.Info("helm key rotated")
	return newHelmKey, nil
}

// RotateWorker mutates the manifest's authorized_worker, moving the
// previous value into retired_workers. Requires either a Helm key directly
// or the ArkSeed (from which the current Helm key is derived first). If
// newWorkerPub is nil, a fresh Worker key is generated and its secret
// returned.
func (h *Hierarchy) RotateWorker(ctx context.Context, task *Task, helmKey *SecretKey[HelmRole], newWorkerPub *PublicKey[WorkerRole], pay PaymentOption, receipt *Receipt) (SecretKey[WorkerRole], error) {
	var resolvedHelmKey SecretKey[HelmRole]
	if err := runStep(task, "Resolve Helm Key", func() error {
		if helmKey != nil {
			resolvedHelmKey = *helmKey
			return nil
		}
		k, err := h.CurrentHelmKey(ctx)
		if err != nil {
			return err
		}
		resolvedHelmKey = k
		return nil
	}); err != nil {
		return SecretKey[WorkerRole]{}, err
	}

	var manifest *Manifest
	if err := runStep(task, "Read Current Manifest", func() error {
		m, err := h.GetManifest(ctx, AsDecryptor(resolvedHelmKey))
		if err != nil {
			return err
		}
		manifest = m
		return nil
	}); err != nil {
		return SecretKey[WorkerRole]{}, err
	}

	var secret SecretKey[WorkerRole]
	var pub PublicKey[WorkerRole]
	if newWorkerPub != nil {
		pub = *newWorkerPub
	} else {
		secret = GenerateSecretKey[WorkerRole]()
		pub = secret.PublicKey()
	}
	UpdateWorker(manifest, pub)

	if err := runStep(task, "Update Worker", func() error {
		return h.UpdateManifest(ctx, resolvedHelmKey, manifest, pay, receipt)
	}); err != nil {
		return SecretKey[WorkerRole]{}, err
	}

	logger.Info("worker key rotated")
	return secret, nil
}

// RotationResult is the combined outcome of RotateAll.
type RotationResult struct {
	HelmKey      SecretKey[HelmRole]
	WorkerSecret SecretKey[WorkerRole]
	DataKey      SecretKey[DataRole]
}

// RotateAll executes Helm, then Worker, then Data rotation, sharing one
// Receipt -- the order matters: Helm creates the new manifest scratchpad,
// Worker edits it in place, and Data re-encrypts its contents using the new
// Worker identity already in place. Requires the ArkSeed.
func (h *Hierarchy) RotateAll(ctx context.Context, task *Task, pay PaymentOption, receipt *Receipt) (*RotationResult, error) {
	helmKey, err := h.RotateHelm(ctx, task, pay, receipt)
	if err != nil {
		return nil, err
	}
	workerSecret, err := h.RotateWorker(ctx, task, &helmKey, nil, pay, receipt)
	if err != nil {
		return nil, err
	}
	dataKey, err := h.RotateData(ctx, task, pay, receipt)
	if err != nil {
		return nil, err
	}
	return &RotationResult{HelmKey: helmKey, WorkerSecret: workerSecret, DataKey: dataKey}, nil
}
