package core

import "context"

// ChunkAddress, RegisterAddress, PointerAddress and ScratchpadAddress are the
// wire addresses of the four network primitives. A register, pointer or
// scratchpad address is simply the 48-byte compressed public key of whichever
// typed owner role signs that object; a chunk address is the 32-byte content
// address the network derives from the chunk's data. They are defined as distinct types so a value meant for one network
// primitive can't be silently passed to another's capability method.
type (
	ChunkAddress      [32]byte
	RegisterAddress   [48]byte
	PointerAddress    [48]byte
	ScratchpadAddress [48]byte
)

// Chunk is an immutable, content-addressed blob. The core never writes
// application payloads into chunks (Vault contents are out of scope, per
// spec.md Non-goals); chunk_put/get exist on the capability purely so other
// collaborators built against the same network SDK can share a client.
type Chunk struct {
	Address ChunkAddress
	Data    []byte
}

// PointerTarget is the value a Pointer resolves to: another network
// object's address. It is 48 bytes wide, matching RegisterAddress /
// PointerAddress / ScratchpadAddress, so a pointer can target any of them
// (in particular, the ark-pointer trust anchor of C7 targets an ArkAddress
// public key directly).
type PointerTarget [48]byte

// Pointer is the wire form of a mutable, monotonically-counted pointer.
// Counter == math.MaxUint32 marks it final forever (spec.md §3).
type Pointer struct {
	Address PointerAddress
	Target  PointerTarget
	Counter uint32
}

// IsFinal reports whether the pointer has reached its terminal, trust-anchor
// state. Any third party consuming a Pointer as a trust anchor MUST check
// this before trusting Target.
func (p Pointer) IsFinal() bool { return p.Counter == MaxCounter }

// Scratchpad is the wire form of a mutable, counted, opaquely-typed payload.
type Scratchpad struct {
	Address     ScratchpadAddress
	Payload     []byte
	DataEncoding uint64
	Counter     uint32
}

// IsRetired reports whether the scratchpad carries the tombstone marker
// (spec.md §3: counter=MAX, data_encoding=MAX, payload==tombstone).
func (s Scratchpad) IsRetired() bool {
	return s.Counter == MaxCounter &&
		s.DataEncoding == MaxDataEncoding &&
		string(s.Payload) == string(tombstonePayload)
}

// MaxCounter is the pointer/scratchpad finality marker (spec.md §6).
const MaxCounter uint32 = 0xFFFFFFFF

// MaxDataEncoding is the scratchpad retirement data_encoding tag.
const MaxDataEncoding uint64 = 0xFFFFFFFFFFFFFFFF

var tombstonePayload = []byte("ark:retired")

// StorageNetwork is the capability contract the core requires of the
// underlying content-addressed network transport (Autonomi or compatible).
// Implementations are an external collaborator (spec.md §1); this module
// ships only an in-memory fake, in internal/testutil, for its own tests.
type StorageNetwork interface {
	ChunkPut(ctx context.Context, chunk Chunk, payment PaymentOption) (Cost, ChunkAddress, error)
	ChunkGet(ctx context.Context, addr ChunkAddress) (Chunk, error)

	RegisterCreate(ctx context.Context, owner RegisterOwnerSigner, value [32]byte, payment PaymentOption) (Cost, RegisterAddress, error)
	RegisterUpdate(ctx context.Context, owner RegisterOwnerSigner, value [32]byte, payment PaymentOption) (Cost, error)
	// RegisterGet returns (value, true, nil) if present, (zero, false, nil)
	// if absent.
	RegisterGet(ctx context.Context, addr RegisterAddress) ([32]byte, bool, error)
	// RegisterHistory returns every historical value in chronological order.
	RegisterHistory(ctx context.Context, addr RegisterAddress) ([][32]byte, error)

	// PointerPut writes the pointer with the given counter (the caller's
	// terminal-state intent, per Pointer.IsFinal -- counter==MaxCounter seals
	// it forever). The network stores exactly the counter it is given; it is
	// not derived from, or reconciled against, whatever the network already
	// holds.
	PointerPut(ctx context.Context, owner PointerOwnerSigner, target PointerTarget, counter uint32, payment PaymentOption) (Cost, PointerAddress, error)
	// PointerGet returns (nil, nil) if the pointer does not exist.
	PointerGet(ctx context.Context, addr PointerAddress) (*Pointer, error)

	// ScratchpadPut writes the scratchpad with the given counter (see
	// PointerPut; counter==MaxCounter alongside MaxDataEncoding and the
	// tombstone payload is how Retire's terminal state reaches the network).
	ScratchpadPut(ctx context.Context, owner ScratchpadOwnerSigner, payload []byte, dataEncoding uint64, counter uint32, payment PaymentOption) (Cost, ScratchpadAddress, error)
	ScratchpadGetFromOwner(ctx context.Context, ownerPub []byte) (Scratchpad, error)
	ScratchpadCheckExistence(ctx context.Context, addr ScratchpadAddress) (bool, error)
	ScratchpadVerify(ctx context.Context, pad Scratchpad) error
}

// RegisterOwnerSigner, PointerOwnerSigner and ScratchpadOwnerSigner abstract
// "a typed secret key that can sign writes to its owned object" without the
// capability interface itself needing to be generic over Role (Go interface
// methods can't be generic). Concrete SecretKey[R] values satisfy these via
// the signer adapters in objects.go.
type RegisterOwnerSigner interface {
	OwnerPublicKeyBytes() []byte
	signerMarker()
}

type PointerOwnerSigner interface {
	OwnerPublicKeyBytes() []byte
	signerMarker()
}

type ScratchpadOwnerSigner interface {
	OwnerPublicKeyBytes() []byte
	signerMarker()
}

// PaymentOption is an opaque, pre-computed payment proof handed to the
// network capability. The core never inspects its contents; it is produced
// by PaymentCapability.Payment.
type PaymentOption struct {
	opaque []byte
}

// PaymentCapability is the wallet contract (spec.md §6). It is an external
// collaborator; this module ships only an in-memory fake, in
// internal/testutil, for its own tests.
type PaymentCapability interface {
	// Payment produces a payment option sized to cover the given estimated
	// cost. Implementations are free to ignore estimate and return a flat
	// proof if their network's payment model doesn't need per-object
	// estimation.
	Payment(ctx context.Context, estimate Cost) (PaymentOption, error)
}
