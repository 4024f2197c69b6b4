package core

import (
	"github.com/gogo/protobuf/proto"
)

// Persistence Framing (C10): every on-network document this module owns is
// <16-byte ASCII magic header> || <protobuf message>. Distinct document
// kinds get distinct headers so a reader can refuse a payload of the wrong
// kind without attempting to decode it. Wire structs are hand-written
// rather than protoc-generated (this module has no working protoc
// toolchain to invoke), but implement proto.Message the same way generated
// code does, so gogo/protobuf's reflection-based Marshal/Unmarshal works
// against their `protobuf:"..."` struct tags exactly as it would against
// codegen output.

const (
	magicManifest = "ark_manifest_v00"
	magicKeyRing  = "ark_key_ring_v00"

	// Scratchpad payload type tags, spec.md §7.
	manifestDataEncoding = uint64(344850175421548714)
	keyRingDataEncoding  = uint64(845573457394578892)
)

func encodeFramed(magic string, msg proto.Message) ([]byte, error) {
	body, err := proto.Marshal(msg)
	if err != nil {
		return nil, NewError(KindBadEncoding, "marshal "+magic, err)
	}
	out := make([]byte, 0, len(magic)+len(body))
	out = append(out, []byte(magic)...)
	out = append(out, body...)
	return out, nil
}

func decodeFramed(magic string, data []byte, msg proto.Message) error {
	if len(data) < len(magic) {
		return NewError(KindBadEncoding, "header mismatch", nil)
	}
	if string(data[:len(magic)]) != magic {
		return NewError(KindBadEncoding, "header mismatch", nil)
	}
	if err := proto.Unmarshal(data[len(magic):], msg); err != nil {
		return NewError(KindBadEncoding, "unmarshal "+magic, err)
	}
	return nil
}

// --- wire messages -------------------------------------------------------

type retiredKeyWire struct {
	PublicKey       []byte `protobuf:"bytes,1,opt,name=public_key,proto3"`
	RetiredUnixNano int64  `protobuf:"varint,2,opt,name=retired_unix_nano,proto3"`
}

func (m *retiredKeyWire) Reset()         { *m = retiredKeyWire{} }
func (m *retiredKeyWire) String() string { return proto.CompactTextString(m) }
func (m *retiredKeyWire) ProtoMessage()  {}

type vaultConfigWire struct {
	VaultAddress []byte `protobuf:"bytes,1,opt,name=vault_address,proto3"`
	Name         string `protobuf:"bytes,2,opt,name=name,proto3"`
	Description  string `protobuf:"bytes,3,opt,name=description,proto3"`
	Active       bool   `protobuf:"varint,4,opt,name=active,proto3"`
	BridgeKey    []byte `protobuf:"bytes,5,opt,name=bridge_key,proto3"`
}

func (m *vaultConfigWire) Reset()         { *m = vaultConfigWire{} }
func (m *vaultConfigWire) String() string { return proto.CompactTextString(m) }
func (m *vaultConfigWire) ProtoMessage()  {}

type manifestWire struct {
	ArkAddress         []byte             `protobuf:"bytes,1,opt,name=ark_address,proto3"`
	CreatedUnixNano    int64              `protobuf:"varint,2,opt,name=created_unix_nano,proto3"`
	LastModifiedNano   int64              `protobuf:"varint,3,opt,name=last_modified_unix_nano,proto3"`
	Name               string             `protobuf:"bytes,4,opt,name=name,proto3"`
	Description        string             `protobuf:"bytes,5,opt,name=description,proto3"`
	HasDescription     bool               `protobuf:"varint,6,opt,name=has_description,proto3"`
	AuthorizedWorker   []byte             `protobuf:"bytes,7,opt,name=authorized_worker,proto3"`
	RetiredWorkers     []*retiredKeyWire  `protobuf:"bytes,8,rep,name=retired_workers,proto3"`
	Vaults             []*vaultConfigWire `protobuf:"bytes,9,rep,name=vaults,proto3"`
}

func (m *manifestWire) Reset()         { *m = manifestWire{} }
func (m *manifestWire) String() string { return proto.CompactTextString(m) }
func (m *manifestWire) ProtoMessage()  {}

type keyRingWire struct {
	Keys [][]byte `protobuf:"bytes,1,rep,name=keys,proto3"`
}

func (m *keyRingWire) Reset()         { *m = keyRingWire{} }
func (m *keyRingWire) String() string { return proto.CompactTextString(m) }
func (m *keyRingWire) ProtoMessage()  {}

type stanzaWire struct {
	Tag  string   `protobuf:"bytes,1,opt,name=tag,proto3"`
	Args []string `protobuf:"bytes,2,rep,name=args,proto3"`
	Body []byte   `protobuf:"bytes,3,opt,name=body,proto3"`
}

func (m *stanzaWire) Reset()         { *m = stanzaWire{} }
func (m *stanzaWire) String() string { return proto.CompactTextString(m) }
func (m *stanzaWire) ProtoMessage()  {}

type envelopeWire struct {
	Stanzas    []*stanzaWire `protobuf:"bytes,1,rep,name=stanzas,proto3"`
	Ciphertext []byte        `protobuf:"bytes,2,opt,name=ciphertext,proto3"`
}

func (m *envelopeWire) Reset()         { *m = envelopeWire{} }
func (m *envelopeWire) String() string { return proto.CompactTextString(m) }
func (m *envelopeWire) ProtoMessage()  {}

const magicEnvelope = "ark_envelope_v00"
