package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleRecipientEncryptDecryptRoundTrip(t *testing.T) {
	sk := GenerateSecretKey[HelmRole]()
	plaintext := []byte("manifest payload")

	ciphertext, err := Encrypt(sk.PublicKey(), plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := Decrypt(sk, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestSingleRecipientDecryptWrongKeyFails(t *testing.T) {
	sk := GenerateSecretKey[HelmRole]()
	other := GenerateSecretKey[HelmRole]()
	ciphertext, err := Encrypt(sk.PublicKey(), []byte("secret"))
	require.NoError(t, err)

	_, err = Decrypt(other, ciphertext)
	require.Error(t, err)
}

func TestEnvelopeMultiRecipientRoundTrip(t *testing.T) {
	helm := GenerateSecretKey[HelmRole]()
	worker := GenerateSecretKey[WorkerRole]()
	plaintext := []byte("shared manifest contents")

	env, err := EncryptEnvelope(plaintext, AsRecipient(helm.PublicKey()), AsRecipient(worker.PublicKey()))
	require.NoError(t, err)
	assert.Len(t, env.Stanzas, 2)

	fromHelm, err := DecryptEnvelope(env, AsDecryptor(helm))
	require.NoError(t, err)
	assert.Equal(t, plaintext, fromHelm)

	fromWorker, err := DecryptEnvelope(env, AsDecryptor(worker))
	require.NoError(t, err)
	assert.Equal(t, plaintext, fromWorker)
}

func TestEnvelopeUnmatchedRecipientReturnsWrongRecipient(t *testing.T) {
	helm := GenerateSecretKey[HelmRole]()
	outsider := GenerateSecretKey[HelmRole]()

	env, err := EncryptEnvelope([]byte("payload"), AsRecipient(helm.PublicKey()))
	require.NoError(t, err)

	_, err = DecryptEnvelope(env, AsDecryptor(outsider))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongRecipient)
}

func TestEnvelopeTamperedCiphertextReturnsCryptoFailure(t *testing.T) {
	helm := GenerateSecretKey[HelmRole]()
	env, err := EncryptEnvelope([]byte("payload"), AsRecipient(helm.PublicKey()))
	require.NoError(t, err)

	tampered := *env
	tampered.Ciphertext = append([]byte(nil), env.Ciphertext...)
	tampered.Ciphertext[len(tampered.Ciphertext)-1] ^= 0xFF

	_, err = DecryptEnvelope(&tampered, AsDecryptor(helm))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCryptoFailure)
}

func TestEnvelopeWireRoundTrip(t *testing.T) {
	helm := GenerateSecretKey[HelmRole]()
	env, err := EncryptEnvelope([]byte("payload"), AsRecipient(helm.PublicKey()))
	require.NoError(t, err)

	wire, err := encodeEnvelope(env)
	require.NoError(t, err)

	decoded, err := decodeEnvelope(wire)
	require.NoError(t, err)

	plaintext, err := DecryptEnvelope(decoded, AsDecryptor(helm))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), plaintext)
}
