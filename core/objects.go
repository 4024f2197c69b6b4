package core

import (
	"bytes"
	"context"
	"time"
)

// This file implements the Network Object Wrappers (C2): typed views over
// the four storage-network primitives that add an owner-role tag at the Go
// type level (RegisterHandle[R] and RegisterHandle[S] are different types
// for R != S) plus the create/update/retire/read state-machine semantics of
// spec.md §4.2.

// --- signer adapters -------------------------------------------------

type registerSigner[R Role] struct{ sk SecretKey[R] }

func (s registerSigner[R]) OwnerPublicKeyBytes() []byte { return s.sk.PublicKey().Bytes() }
func (s registerSigner[R]) signerMarker()               {}

type pointerSigner[R Role] struct{ sk SecretKey[R] }

func (s pointerSigner[R]) OwnerPublicKeyBytes() []byte { return s.sk.PublicKey().Bytes() }
func (s pointerSigner[R]) signerMarker()               {}

type scratchpadSigner[R Role] struct{ sk SecretKey[R] }

func (s scratchpadSigner[R]) OwnerPublicKeyBytes() []byte { return s.sk.PublicKey().Bytes() }
func (s scratchpadSigner[R]) signerMarker()               {}

func toRegisterAddress(pub []byte) RegisterAddress {
	var a RegisterAddress
	copy(a[:], pub)
	return a
}

func toPointerAddress(pub []byte) PointerAddress {
	var a PointerAddress
	copy(a[:], pub)
	return a
}

func toScratchpadAddress(pub []byte) ScratchpadAddress {
	var a ScratchpadAddress
	copy(a[:], pub)
	return a
}

// --- Register ----------------------------------------------------------

// RegisterHandle is a typed view of a register owned by role R.
type RegisterHandle[R Role] struct {
	net   StorageNetwork
	cache *CacheSet
	owner PublicKey[R]
}

// NewRegisterHandle binds a register handle to its owner's public key (the
// register's address).
func NewRegisterHandle[R Role](net StorageNetwork, cache *CacheSet, owner PublicKey[R]) *RegisterHandle[R] {
	return &RegisterHandle[R]{net: net, cache: cache, owner: owner}
}

// Address is the register's network address.
func (h *RegisterHandle[R]) Address() RegisterAddress {
	return toRegisterAddress(h.owner.Bytes())
}

// Create writes a brand-new register. Fails AlreadyExists if the address is
// already populated.
func (h *RegisterHandle[R]) Create(ctx context.Context, ownerSK SecretKey[R], value [32]byte, pay PaymentOption, receipt *Receipt) error {
	addr := h.Address()
	if _, ok, err := h.readThrough(ctx, addr); err != nil {
		return err
	} else if ok {
		return ErrAlreadyExists
	}

	h.cache.Registers.Invalidate(registerKey(addr))
	cost, returnedAddr, err := h.net.RegisterCreate(ctx, registerSigner[R]{sk: ownerSK}, value, pay)
	if err != nil {
		h.cache.Registers.Invalidate(registerKey(addr))
		return NewError(KindNetworkError, "register create", err)
	}
	receipt.Add(cost, time.Now())
	h.cache.Registers.Invalidate(registerKey(addr))
	h.cache.Registers.Invalidate(registerKey(toRegisterAddress(returnedAddr[:])))
	h.cache.Registers.Set(registerKey(addr), value)
	h.cache.RegisterHistory.Invalidate(registerKey(addr))
	return nil
}

// Update bumps the register to value, unless the remote value already
// equals value, in which case it is a cost-free no-op (idempotence, spec.md
// §8 property 5).
func (h *RegisterHandle[R]) Update(ctx context.Context, ownerSK SecretKey[R], value [32]byte, pay PaymentOption, receipt *Receipt) error {
	addr := h.Address()
	current, ok, err := h.readThrough(ctx, addr)
	if err != nil {
		return err
	}
	if ok && bytes.Equal(current[:], value[:]) {
		return nil
	}

	h.cache.Registers.Invalidate(registerKey(addr))
	cost, err := h.net.RegisterUpdate(ctx, registerSigner[R]{sk: ownerSK}, value, pay)
	if err != nil {
		h.cache.Registers.Invalidate(registerKey(addr))
		return NewError(KindNetworkError, "register update", err)
	}
	receipt.Add(cost, time.Now())
	h.cache.Registers.Invalidate(registerKey(addr))
	h.cache.Registers.Set(registerKey(addr), value)
	h.cache.RegisterHistory.Invalidate(registerKey(addr))
	return nil
}

// Read returns the current value, or ok=false if the register does not
// exist.
func (h *RegisterHandle[R]) Read(ctx context.Context) ([32]byte, bool, error) {
	return h.readThrough(ctx, h.Address())
}

func (h *RegisterHandle[R]) readThrough(ctx context.Context, addr RegisterAddress) ([32]byte, bool, error) {
	res, err := h.cache.Registers.GetOrLoad(ctx, registerKey(addr), func(ctx context.Context) ([32]byte, error) {
		value, ok, err := h.net.RegisterGet(ctx, addr)
		if err != nil {
			return [32]byte{}, NewError(KindNetworkError, "register get", err)
		}
		if !ok {
			return [32]byte{}, ErrNotFound
		}
		return value, nil
	})
	if err != nil {
		if IsKind(err, KindNotFound) {
			h.cache.Registers.Invalidate(registerKey(addr))
			return [32]byte{}, false, nil
		}
		return [32]byte{}, false, err
	}
	return res, true, nil
}

// History returns every historical value of the register, in chronological
// order.
func (h *RegisterHandle[R]) History(ctx context.Context) ([][32]byte, error) {
	addr := h.Address()
	return h.cache.RegisterHistory.GetOrLoad(ctx, registerKey(addr), func(ctx context.Context) ([][32]byte, error) {
		hist, err := h.net.RegisterHistory(ctx, addr)
		if err != nil {
			return nil, NewError(KindNetworkError, "register history", err)
		}
		return hist, nil
	})
}

// --- Pointer -------------------------------------------------------------

// PointerHandle is a typed view of a pointer owned by role R.
type PointerHandle[R Role] struct {
	net   StorageNetwork
	cache *CacheSet
	owner PublicKey[R]
}

func NewPointerHandle[R Role](net StorageNetwork, cache *CacheSet, owner PublicKey[R]) *PointerHandle[R] {
	return &PointerHandle[R]{net: net, cache: cache, owner: owner}
}

func (h *PointerHandle[R]) Address() PointerAddress {
	return toPointerAddress(h.owner.Bytes())
}

// CreateImmutable writes the pointer directly in its terminal, final state
// (counter=MaxCounter). This is the only write path VaultAccessor uses: the
// ark-pointer trust anchor must never pass through a mutable window.
func (h *PointerHandle[R]) CreateImmutable(ctx context.Context, ownerSK SecretKey[R], target PointerTarget, pay PaymentOption, receipt *Receipt) error {
	addr := h.Address()
	if existing, err := h.Read(ctx); err != nil {
		return err
	} else if existing != nil {
		return ErrAlreadyExists
	}

	h.cache.Pointers.Invalidate(pointerKey(addr))
	cost, returnedAddr, err := h.net.PointerPut(ctx, pointerSigner[R]{sk: ownerSK}, target, MaxCounter, pay)
	if err != nil {
		h.cache.Pointers.Invalidate(pointerKey(addr))
		return NewError(KindNetworkError, "pointer put", err)
	}
	receipt.Add(cost, time.Now())
	h.cache.Pointers.Invalidate(pointerKey(addr))
	h.cache.Pointers.Invalidate(pointerKey(toPointerAddress(returnedAddr[:])))
	h.cache.Pointers.Set(pointerKey(addr), Pointer{Address: addr, Target: target, Counter: MaxCounter})
	return nil
}

// Create writes a brand-new mutable pointer (counter=1). Fails AlreadyExists
// if the address is already populated.
func (h *PointerHandle[R]) Create(ctx context.Context, ownerSK SecretKey[R], target PointerTarget, pay PaymentOption, receipt *Receipt) error {
	addr := h.Address()
	if existing, err := h.Read(ctx); err != nil {
		return err
	} else if existing != nil {
		return ErrAlreadyExists
	}

	h.cache.Pointers.Invalidate(pointerKey(addr))
	cost, returnedAddr, err := h.net.PointerPut(ctx, pointerSigner[R]{sk: ownerSK}, target, 1, pay)
	if err != nil {
		h.cache.Pointers.Invalidate(pointerKey(addr))
		return NewError(KindNetworkError, "pointer put", err)
	}
	receipt.Add(cost, time.Now())
	h.cache.Pointers.Invalidate(pointerKey(addr))
	h.cache.Pointers.Invalidate(pointerKey(toPointerAddress(returnedAddr[:])))
	h.cache.Pointers.Set(pointerKey(addr), Pointer{Address: addr, Target: target, Counter: 1})
	return nil
}

// Update retargets an existing mutable pointer, bumping its counter above
// whichever of (local, remote) is greater. Fails Immutable if the pointer is
// already final, and is idempotent if target is unchanged.
func (h *PointerHandle[R]) Update(ctx context.Context, ownerSK SecretKey[R], target PointerTarget, pay PaymentOption, receipt *Receipt) error {
	addr := h.Address()
	current, err := h.Read(ctx)
	if err != nil {
		return err
	}
	if current != nil {
		if current.IsFinal() {
			return ErrImmutable
		}
		if current.Target == target {
			return nil
		}
	}

	counter := uint32(1)
	if current != nil {
		counter = current.Counter + 1
	}
	remote, err := h.net.PointerGet(ctx, addr)
	if err != nil {
		return NewError(KindNetworkError, "pointer get", err)
	}
	if remote != nil {
		if remote.IsFinal() {
			return ErrImmutable
		}
		if remote.Counter >= counter {
			counter = remote.Counter + 1
		}
	}

	h.cache.Pointers.Invalidate(pointerKey(addr))
	cost, returnedAddr, err := h.net.PointerPut(ctx, pointerSigner[R]{sk: ownerSK}, target, counter, pay)
	if err != nil {
		h.cache.Pointers.Invalidate(pointerKey(addr))
		return NewError(KindNetworkError, "pointer put", err)
	}
	receipt.Add(cost, time.Now())
	h.cache.Pointers.Invalidate(pointerKey(addr))
	h.cache.Pointers.Invalidate(pointerKey(toPointerAddress(returnedAddr[:])))
	h.cache.Pointers.Set(pointerKey(addr), Pointer{Address: addr, Target: target, Counter: counter})
	return nil
}

// MakeImmutable finalizes a mutable pointer by writing counter=MaxCounter.
// Fails Immutable if it is already final.
func (h *PointerHandle[R]) MakeImmutable(ctx context.Context, ownerSK SecretKey[R], pay PaymentOption, receipt *Receipt) error {
	addr := h.Address()
	current, err := h.Read(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}
	if current.IsFinal() {
		return ErrImmutable
	}

	h.cache.Pointers.Invalidate(pointerKey(addr))
	cost, returnedAddr, err := h.net.PointerPut(ctx, pointerSigner[R]{sk: ownerSK}, current.Target, MaxCounter, pay)
	if err != nil {
		h.cache.Pointers.Invalidate(pointerKey(addr))
		return NewError(KindNetworkError, "pointer make immutable", err)
	}
	receipt.Add(cost, time.Now())
	h.cache.Pointers.Invalidate(pointerKey(addr))
	h.cache.Pointers.Invalidate(pointerKey(toPointerAddress(returnedAddr[:])))
	h.cache.Pointers.Set(pointerKey(addr), Pointer{Address: addr, Target: current.Target, Counter: MaxCounter})
	return nil
}

// Read returns the pointer, or nil if it does not exist.
func (h *PointerHandle[R]) Read(ctx context.Context) (*Pointer, error) {
	addr := h.Address()
	p, err := h.cache.Pointers.GetOrLoad(ctx, pointerKey(addr), func(ctx context.Context) (Pointer, error) {
		got, err := h.net.PointerGet(ctx, addr)
		if err != nil {
			return Pointer{}, NewError(KindNetworkError, "pointer get", err)
		}
		if got == nil {
			return Pointer{}, ErrNotFound
		}
		return *got, nil
	})
	if err != nil {
		if IsKind(err, KindNotFound) {
			h.cache.Pointers.Invalidate(pointerKey(addr))
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// --- Scratchpad ----------------------------------------------------------

// ScratchpadHandle is a typed view of a scratchpad owned by role R.
type ScratchpadHandle[R Role] struct {
	net   StorageNetwork
	cache *CacheSet
	owner PublicKey[R]
}

func NewScratchpadHandle[R Role](net StorageNetwork, cache *CacheSet, owner PublicKey[R]) *ScratchpadHandle[R] {
	return &ScratchpadHandle[R]{net: net, cache: cache, owner: owner}
}

func (h *ScratchpadHandle[R]) Address() ScratchpadAddress {
	return toScratchpadAddress(h.owner.Bytes())
}

// Create writes a brand-new scratchpad. Fails AlreadyExists if one is
// already present at this address.
func (h *ScratchpadHandle[R]) Create(ctx context.Context, ownerSK SecretKey[R], payload []byte, dataEncoding uint64, pay PaymentOption, receipt *Receipt) error {
	addr := h.Address()
	if existing, err := h.Read(ctx); err != nil {
		return err
	} else if existing != nil {
		return ErrAlreadyExists
	}

	h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
	cost, returnedAddr, err := h.net.ScratchpadPut(ctx, scratchpadSigner[R]{sk: ownerSK}, payload, dataEncoding, 1, pay)
	if err != nil {
		h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
		return NewError(KindNetworkError, "scratchpad put", err)
	}
	receipt.Add(cost, time.Now())
	pad := Scratchpad{Address: addr, Payload: payload, DataEncoding: dataEncoding, Counter: 1}
	h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
	h.cache.Scratchpads.Invalidate(scratchpadKey(toScratchpadAddress(returnedAddr[:])))
	h.cache.Scratchpads.Set(scratchpadKey(addr), pad)
	return nil
}

// Update overwrites the scratchpad payload, unless it is already retired
// (Retired error) or the remote payload+encoding already match (idempotent
// no-op).
func (h *ScratchpadHandle[R]) Update(ctx context.Context, ownerSK SecretKey[R], payload []byte, dataEncoding uint64, pay PaymentOption, receipt *Receipt) error {
	addr := h.Address()
	current, err := h.Read(ctx)
	if err != nil {
		return err
	}
	if current != nil {
		if current.IsRetired() {
			return ErrRetired
		}
		if bytes.Equal(current.Payload, payload) && current.DataEncoding == dataEncoding {
			return nil
		}
	}

	counter := uint32(1)
	if current != nil {
		counter = current.Counter + 1
	}

	h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
	cost, returnedAddr, err := h.net.ScratchpadPut(ctx, scratchpadSigner[R]{sk: ownerSK}, payload, dataEncoding, counter, pay)
	if err != nil {
		h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
		return NewError(KindNetworkError, "scratchpad put", err)
	}
	receipt.Add(cost, time.Now())
	pad := Scratchpad{Address: addr, Payload: payload, DataEncoding: dataEncoding, Counter: counter}
	h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
	h.cache.Scratchpads.Invalidate(scratchpadKey(toScratchpadAddress(returnedAddr[:])))
	h.cache.Scratchpads.Set(scratchpadKey(addr), pad)
	return nil
}

// Retire writes the tombstone payload, terminating the scratchpad. Fails
// Retired if it is already in the terminal state.
func (h *ScratchpadHandle[R]) Retire(ctx context.Context, ownerSK SecretKey[R], pay PaymentOption, receipt *Receipt) error {
	addr := h.Address()
	current, err := h.Read(ctx)
	if err != nil {
		return err
	}
	if current != nil && current.IsRetired() {
		return ErrRetired
	}

	h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
	cost, returnedAddr, err := h.net.ScratchpadPut(ctx, scratchpadSigner[R]{sk: ownerSK}, tombstonePayload, MaxDataEncoding, MaxCounter, pay)
	if err != nil {
		h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
		return NewError(KindNetworkError, "scratchpad retire", err)
	}
	receipt.Add(cost, time.Now())
	pad := Scratchpad{Address: addr, Payload: tombstonePayload, DataEncoding: MaxDataEncoding, Counter: MaxCounter}
	h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
	h.cache.Scratchpads.Invalidate(scratchpadKey(toScratchpadAddress(returnedAddr[:])))
	h.cache.Scratchpads.Set(scratchpadKey(addr), pad)
	return nil
}

// Read returns the scratchpad, or nil if it does not exist.
func (h *ScratchpadHandle[R]) Read(ctx context.Context) (*Scratchpad, error) {
	addr := h.Address()
	pad, err := h.cache.Scratchpads.GetOrLoad(ctx, scratchpadKey(addr), func(ctx context.Context) (Scratchpad, error) {
		exists, err := h.net.ScratchpadCheckExistence(ctx, addr)
		if err != nil {
			return Scratchpad{}, NewError(KindNetworkError, "scratchpad check existence", err)
		}
		if !exists {
			return Scratchpad{}, ErrNotFound
		}
		got, err := h.net.ScratchpadGetFromOwner(ctx, h.owner.Bytes())
		if err != nil {
			return Scratchpad{}, NewError(KindNetworkError, "scratchpad get", err)
		}
		if err := h.net.ScratchpadVerify(ctx, got); err != nil {
			return Scratchpad{}, NewError(KindCryptoFailure, "scratchpad verify", err)
		}
		return got, nil
	})
	if err != nil {
		if IsKind(err, KindNotFound) {
			h.cache.Scratchpads.Invalidate(scratchpadKey(addr))
			return nil, nil
		}
		return nil, err
	}
	return &pad, nil
}

// --- Chunk -----------------------------------------------------------

// ChunkHandle wraps the immutable, content-addressed chunk primitive. It is
// unused by the Ark/Vault metadata path today -- Vault contents are out of
// scope per spec.md Non-goals -- but is exposed so a future Vault-payload
// layer has a typed entry point consistent with the other three kinds.
type ChunkHandle struct {
	net StorageNetwork
}

func NewChunkHandle(net StorageNetwork) *ChunkHandle {
	return &ChunkHandle{net: net}
}

// Put uploads data and returns its content address. Fails AlreadyExists if
// the network reports the derived address is already populated.
func (h *ChunkHandle) Put(ctx context.Context, data []byte, pay PaymentOption, receipt *Receipt) (ChunkAddress, error) {
	cost, addr, err := h.net.ChunkPut(ctx, Chunk{Data: data}, pay)
	if err != nil {
		return ChunkAddress{}, NewError(KindNetworkError, "chunk put", err)
	}
	receipt.Add(cost, time.Now())
	return addr, nil
}

// Get fetches a chunk by its content address.
func (h *ChunkHandle) Get(ctx context.Context, addr ChunkAddress) (Chunk, error) {
	c, err := h.net.ChunkGet(ctx, addr)
	if err != nil {
		return Chunk{}, NewError(KindNetworkError, "chunk get", err)
	}
	return c, nil
}
