package core

import "time"

// RetiredKey records that a public key of role R was once authoritative and
// no longer is, along with when it stopped being so. The manifest's
// retired_workers set is built from these (spec.md §3, §4.5); it only ever
// grows.
type RetiredKey[R Role] struct {
	PublicKey PublicKey[R]
	RetiredAt time.Time
}

// KeyRing is an ordered collection of historical secret keys of role R,
// addressed by their public key, used to keep every past Data key readable
// after rotation (spec.md §4.4, Testable Property 7).
type KeyRing[R Role] struct {
	keys []SecretKey[R]
}

// NewKeyRing builds an empty ring.
func NewKeyRing[R Role]() *KeyRing[R] { return &KeyRing[R]{} }

// Append adds sk as the newest entry.
func (k *KeyRing[R]) Append(sk SecretKey[R]) { k.keys = append(k.keys, sk) }

// Len is the number of keys held.
func (k *KeyRing[R]) Len() int { return len(k.keys) }

// Keys returns every key, oldest first.
func (k *KeyRing[R]) Keys() []SecretKey[R] { return k.keys }

// Current is the most recently appended key, or the zero key if the ring is
// empty.
func (k *KeyRing[R]) Current() (SecretKey[R], bool) {
	if len(k.keys) == 0 {
		return SecretKey[R]{}, false
	}
	return k.keys[len(k.keys)-1], true
}

// Find returns the key whose public half equals pub, if present.
func (k *KeyRing[R]) Find(pub PublicKey[R]) (SecretKey[R], bool) {
	for _, sk := range k.keys {
		if sk.PublicKey().Equal(pub) {
			return sk, true
		}
	}
	return SecretKey[R]{}, false
}

// Serialize frames the ring as magic-header-prefixed protobuf
// (ark_key_ring_v00, spec.md §4.9).
func (k *KeyRing[R]) Serialize() ([]byte, error) {
	wire := &keyRingWire{Keys: make([][]byte, len(k.keys))}
	for i, sk := range k.keys {
		wire.Keys[i] = sk.Bytes()
	}
	return encodeFramed(magicKeyRing, wire)
}

// DeserializeKeyRing reverses Serialize, validating the magic header before
// attempting to decode the body.
func DeserializeKeyRing[R Role](data []byte) (*KeyRing[R], error) {
	var wire keyRingWire
	if err := decodeFramed(magicKeyRing, data, &wire); err != nil {
		return nil, err
	}
	ring := &KeyRing[R]{keys: make([]SecretKey[R], len(wire.Keys))}
	for i, b := range wire.Keys {
		sk, err := SecretKeyFromBytes[R](b)
		if err != nil {
			return nil, err
		}
		ring.keys[i] = sk
	}
	return ring, nil
}
