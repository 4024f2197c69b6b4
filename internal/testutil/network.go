// Package testutil provides in-memory fakes of the core.StorageNetwork and
// core.PaymentCapability contracts, used only by this module's own tests.
// Real transport and wallet implementations are external collaborators
// (spec.md §1) and are never shipped from here.
package testutil

import (
	"context"
	"sync"

	"github.com/rrauch/ark/core"
)

// Network is an in-memory, single-process fake of core.StorageNetwork.
// Registers keep full history; scratchpads and pointers keep only current
// state, matching what the real network exposes.
type Network struct {
	mu sync.Mutex

	chunks      map[core.ChunkAddress][]byte
	registers   map[core.RegisterAddress][][32]byte
	pointers    map[core.PointerAddress]core.Pointer
	scratchpads map[core.ScratchpadAddress]core.Scratchpad

	// NextCost is charged for every mutating call; defaults to 1 if zero.
	NextCost core.Cost
}

// NewNetwork returns an empty Network fake.
func NewNetwork() *Network {
	return &Network{
		chunks:      make(map[core.ChunkAddress][]byte),
		registers:   make(map[core.RegisterAddress][][32]byte),
		pointers:    make(map[core.PointerAddress]core.Pointer),
		scratchpads: make(map[core.ScratchpadAddress]core.Scratchpad),
		NextCost:    1,
	}
}

func (n *Network) cost() core.Cost {
	if n.NextCost == 0 {
		return 1
	}
	return n.NextCost
}

func chunkAddressOf(data []byte) core.ChunkAddress {
	var a core.ChunkAddress
	// content address: simple truncated sum, good enough for a test fake.
	for i, b := range data {
		a[i%len(a)] ^= b
	}
	return a
}

func (n *Network) ChunkPut(ctx context.Context, chunk core.Chunk, payment core.PaymentOption) (core.Cost, core.ChunkAddress, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	addr := chunkAddressOf(chunk.Data)
	n.chunks[addr] = append([]byte(nil), chunk.Data...)
	return n.cost(), addr, nil
}

func (n *Network) ChunkGet(ctx context.Context, addr core.ChunkAddress) (core.Chunk, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	data, ok := n.chunks[addr]
	if !ok {
		return core.Chunk{}, core.ErrNotFound
	}
	return core.Chunk{Address: addr, Data: append([]byte(nil), data...)}, nil
}

func (n *Network) RegisterCreate(ctx context.Context, owner core.RegisterOwnerSigner, value [32]byte, payment core.PaymentOption) (core.Cost, core.RegisterAddress, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var addr core.RegisterAddress
	copy(addr[:], owner.OwnerPublicKeyBytes())
	if _, ok := n.registers[addr]; ok {
		return 0, addr, core.ErrAlreadyExists
	}
	n.registers[addr] = [][32]byte{value}
	return n.cost(), addr, nil
}

func (n *Network) RegisterUpdate(ctx context.Context, owner core.RegisterOwnerSigner, value [32]byte, payment core.PaymentOption) (core.Cost, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var addr core.RegisterAddress
	copy(addr[:], owner.OwnerPublicKeyBytes())
	hist, ok := n.registers[addr]
	if !ok {
		return 0, core.ErrNotFound
	}
	n.registers[addr] = append(hist, value)
	return n.cost(), nil
}

func (n *Network) RegisterGet(ctx context.Context, addr core.RegisterAddress) ([32]byte, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	hist, ok := n.registers[addr]
	if !ok || len(hist) == 0 {
		return [32]byte{}, false, nil
	}
	return hist[len(hist)-1], true, nil
}

func (n *Network) RegisterHistory(ctx context.Context, addr core.RegisterAddress) ([][32]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	hist, ok := n.registers[addr]
	if !ok {
		return nil, nil
	}
	out := make([][32]byte, len(hist))
	copy(out, hist)
	return out, nil
}

func (n *Network) PointerPut(ctx context.Context, owner core.PointerOwnerSigner, target core.PointerTarget, counter uint32, payment core.PaymentOption) (core.Cost, core.PointerAddress, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var addr core.PointerAddress
	copy(addr[:], owner.OwnerPublicKeyBytes())
	n.pointers[addr] = core.Pointer{Address: addr, Target: target, Counter: counter}
	return n.cost(), addr, nil
}

func (n *Network) PointerGet(ctx context.Context, addr core.PointerAddress) (*core.Pointer, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	p, ok := n.pointers[addr]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (n *Network) ScratchpadPut(ctx context.Context, owner core.ScratchpadOwnerSigner, payload []byte, dataEncoding uint64, counter uint32, payment core.PaymentOption) (core.Cost, core.ScratchpadAddress, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var addr core.ScratchpadAddress
	copy(addr[:], owner.OwnerPublicKeyBytes())
	n.scratchpads[addr] = core.Scratchpad{
		Address:      addr,
		Payload:      append([]byte(nil), payload...),
		DataEncoding: dataEncoding,
		Counter:      counter,
	}
	return n.cost(), addr, nil
}

func (n *Network) ScratchpadGetFromOwner(ctx context.Context, ownerPub []byte) (core.Scratchpad, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var addr core.ScratchpadAddress
	copy(addr[:], ownerPub)
	pad, ok := n.scratchpads[addr]
	if !ok {
		return core.Scratchpad{}, core.ErrNotFound
	}
	return pad, nil
}

func (n *Network) ScratchpadCheckExistence(ctx context.Context, addr core.ScratchpadAddress) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.scratchpads[addr]
	return ok, nil
}

// ScratchpadVerify is a no-op in the fake: the in-memory map is trusted by
// construction, unlike a real network response which must be signature
// checked.
func (n *Network) ScratchpadVerify(ctx context.Context, pad core.Scratchpad) error {
	return nil
}
