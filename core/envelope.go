package core

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"

	bls "github.com/herumi/bls-eth-go-binary/bls"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// This file implements the two encryption schemes of spec.md §4.1:
// single-recipient BLS-based encryption, and a multi-recipient envelope
// built the way the source's age-based scheme is: a random file key AEAD-
// encrypts the plaintext once, and each recipient gets their own
// single-recipient-encrypted copy of the file key in a header "stanza"
// tagged blsttc, keyed by the recipient's hex public key -- grounded on
// ark-core/src/crypto/encrypt/age.rs and ark-core/src/crypto/encrypt/mod.rs
// in the retrieved original source, adapted onto a BLS Diffie-Hellman +
// HKDF + XChaCha20-Poly1305 construction (herumi/bls-eth-go-binary has no
// native asymmetric-encrypt primitive the way the Rust blsttc crate does).

const (
	stanzaTag      = "blsttc"
	fileKeyLen     = 32
	dhInfoSingle   = "ark/v0/single-recipient"
	dhInfoEnvelope = "ark/v0/envelope-file-key"
)

// --- low-level BLS-DH sealing, role-agnostic ----------------------------

// sealFor encrypts payload (expected to be a short, fixed-size key: either a
// plaintext directly for single-recipient mode, or a file key in envelope
// mode) to recipientPub using an ephemeral BLS keypair and XChaCha20-
// Poly1305 keyed by a BLS-DH shared secret.
func sealFor(recipientPub []byte, info string, payload []byte) ([]byte, error) {
	var recipient bls.PublicKey
	if err := recipient.Deserialize(recipientPub); err != nil {
		return nil, NewError(KindBadEncoding, "recipient public key", err)
	}

	var ephemeral bls.SecretKey
	ephemeral.SetByCSPRNG()
	ephemeralPub := ephemeral.GetPublicKey()

	shared := bls.DHKeyExchange(&ephemeral, &recipient)
	key, err := hkdfKey(shared.Serialize(), info)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, NewError(KindCryptoFailure, "init aead", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, NewError(KindCryptoFailure, "generate nonce", err)
	}

	ciphertext := aead.Seal(nil, nonce, payload, nil)

	out := make([]byte, 0, len(ephemeralPub.Serialize())+len(nonce)+len(ciphertext))
	out = append(out, ephemeralPub.Serialize()...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// openFor reverses sealFor given the recipient's secret scalar bytes.
func openFor(recipientSK []byte, info string, wire []byte) ([]byte, error) {
	const pubLen = publicKeyByteLen
	if len(wire) < pubLen+chacha20poly1305.NonceSizeX {
		return nil, NewError(KindCryptoFailure, "truncated ciphertext", nil)
	}
	var sk bls.SecretKey
	if err := sk.Deserialize(recipientSK); err != nil {
		return nil, NewError(KindBadEncoding, "recipient secret key", err)
	}
	var ephemeralPub bls.PublicKey
	if err := ephemeralPub.Deserialize(wire[:pubLen]); err != nil {
		return nil, NewError(KindBadEncoding, "ephemeral public key", err)
	}
	nonce := wire[pubLen : pubLen+chacha20poly1305.NonceSizeX]
	ciphertext := wire[pubLen+chacha20poly1305.NonceSizeX:]

	shared := bls.DHKeyExchange(&sk, &ephemeralPub)
	key, err := hkdfKey(shared.Serialize(), info)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, NewError(KindCryptoFailure, "init aead", err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrCryptoFailure
	}
	return plaintext, nil
}

func hkdfKey(secret []byte, info string) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, []byte(info))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, NewError(KindCryptoFailure, "derive symmetric key", err)
	}
	return key, nil
}

// --- single-recipient scheme (spec.md §4.1) -----------------------------

// Encrypt performs single-recipient BLS-based encryption to pk.
func Encrypt[R Role](pk PublicKey[R], plaintext []byte) ([]byte, error) {
	return sealFor(pk.Bytes(), dhInfoSingle, plaintext)
}

// Decrypt reverses Encrypt given the matching secret key.
func Decrypt[R Role](sk SecretKey[R], ciphertext []byte) ([]byte, error) {
	return openFor(sk.Bytes(), dhInfoSingle, ciphertext)
}

// --- multi-recipient envelope (spec.md §4.1) ----------------------------

// stanza is one recipient's wrapped file key.
type stanza struct {
	Tag  string
	Args []string
	Body []byte
}

// Envelope is the multi-recipient ciphertext wire form: one stanza per
// recipient wrapping a shared file key, plus the file-key-encrypted
// payload.
type Envelope struct {
	Stanzas    []stanza
	Ciphertext []byte
}

// EnvelopeRecipient abstracts "a public key that can receive an envelope",
// independent of its Role, so EncryptEnvelope can take a heterogeneous
// recipient set (ArkSeed + Helm + Worker + Data all at once).
type EnvelopeRecipient interface {
	envelopeRecipientBytes() []byte
}

type recipientAdapter[R Role] struct{ pk PublicKey[R] }

func (r recipientAdapter[R]) envelopeRecipientBytes() []byte { return r.pk.Bytes() }

// AsRecipient adapts a typed public key into an EnvelopeRecipient.
func AsRecipient[R Role](pk PublicKey[R]) EnvelopeRecipient {
	return recipientAdapter[R]{pk: pk}
}

// EnvelopeDecryptor abstracts "a secret key that might be able to open an
// envelope", independent of its Role.
type EnvelopeDecryptor interface {
	envelopeDecryptorBytes() []byte
	envelopeDecryptorPublicBytes() []byte
}

type decryptorAdapter[R Role] struct{ sk SecretKey[R] }

func (d decryptorAdapter[R]) envelopeDecryptorBytes() []byte       { return d.sk.Bytes() }
func (d decryptorAdapter[R]) envelopeDecryptorPublicBytes() []byte { return d.sk.PublicKey().Bytes() }

// AsDecryptor adapts a typed secret key into an EnvelopeDecryptor.
func AsDecryptor[R Role](sk SecretKey[R]) EnvelopeDecryptor {
	return decryptorAdapter[R]{sk: sk}
}

// EncryptEnvelope encrypts plaintext once under a random file key, then
// wraps that file key for every recipient in recipients.
func EncryptEnvelope(plaintext []byte, recipients ...EnvelopeRecipient) (*Envelope, error) {
	fileKey := make([]byte, fileKeyLen)
	if _, err := io.ReadFull(rand.Reader, fileKey); err != nil {
		return nil, NewError(KindCryptoFailure, "generate file key", err)
	}

	aead, err := chacha20poly1305.NewX(fileKey)
	if err != nil {
		return nil, NewError(KindCryptoFailure, "init aead", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, NewError(KindCryptoFailure, "generate nonce", err)
	}
	ciphertext := append(nonce, aead.Seal(nil, nonce, plaintext, nil)...)

	env := &Envelope{Ciphertext: ciphertext}
	for _, recipient := range recipients {
		pubBytes := recipient.envelopeRecipientBytes()
		body, err := sealFor(pubBytes, dhInfoEnvelope, fileKey)
		if err != nil {
			return nil, err
		}
		env.Stanzas = append(env.Stanzas, stanza{
			Tag:  stanzaTag,
			Args: []string{hex.EncodeToString(pubBytes)},
			Body: body,
		})
	}
	return env, nil
}

// DecryptEnvelope tries every blsttc-tagged stanza whose argument matches
// decryptor's public key, in order, before giving up. It distinguishes "no
// stanza named this key" (WrongRecipient) from "a stanza named this key but
// its ciphertext didn't decrypt" (CryptoFailure), per spec.md §4.1.
func DecryptEnvelope(env *Envelope, decryptor EnvelopeDecryptor) ([]byte, error) {
	myPub := hex.EncodeToString(decryptor.envelopeDecryptorPublicBytes())

	matched := false
	for _, st := range env.Stanzas {
		if st.Tag != stanzaTag || len(st.Args) == 0 || st.Args[0] != myPub {
			continue
		}
		matched = true
		fileKey, err := openFor(decryptor.envelopeDecryptorBytes(), dhInfoEnvelope, st.Body)
		if err != nil {
			continue
		}
		if len(env.Ciphertext) < chacha20poly1305.NonceSizeX {
			return nil, NewError(KindCryptoFailure, "truncated envelope ciphertext", nil)
		}
		aead, err := chacha20poly1305.NewX(fileKey)
		if err != nil {
			return nil, NewError(KindCryptoFailure, "init aead", err)
		}
		nonce := env.Ciphertext[:chacha20poly1305.NonceSizeX]
		body := env.Ciphertext[chacha20poly1305.NonceSizeX:]
		plaintext, err := aead.Open(nil, nonce, body, nil)
		if err != nil {
			continue
		}
		return plaintext, nil
	}
	if !matched {
		return nil, ErrWrongRecipient
	}
	return nil, ErrCryptoFailure
}

// encodeEnvelope frames env as magic-header-prefixed protobuf, the wire form
// stored as a scratchpad payload.
func encodeEnvelope(env *Envelope) ([]byte, error) {
	wire := &envelopeWire{Ciphertext: env.Ciphertext}
	for _, st := range env.Stanzas {
		wire.Stanzas = append(wire.Stanzas, &stanzaWire{Tag: st.Tag, Args: st.Args, Body: st.Body})
	}
	return encodeFramed(magicEnvelope, wire)
}

// decodeEnvelope reverses encodeEnvelope.
func decodeEnvelope(data []byte) (*Envelope, error) {
	var wire envelopeWire
	if err := decodeFramed(magicEnvelope, data, &wire); err != nil {
		return nil, err
	}
	env := &Envelope{Ciphertext: wire.Ciphertext}
	for _, st := range wire.Stanzas {
		env.Stanzas = append(env.Stanzas, stanza{Tag: st.Tag, Args: st.Args, Body: st.Body})
	}
	return env, nil
}
