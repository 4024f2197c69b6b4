package core

import (
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// mnemonicWordCount is the only length this module accepts, per spec §6 ("the
// CLI ... prompts for secrets on stdin (seed = exactly 24 whitespace-separated
// words)").
const mnemonicWordCount = 24

// NewMnemonic generates a fresh 24-word BIP-39 English mnemonic with 256
// bits of entropy.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", NewError(KindCryptoFailure, "generate entropy", err)
	}
	m, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", NewError(KindCryptoFailure, "build mnemonic", err)
	}
	return m, nil
}

// normalizeMnemonic trims and collapses whitespace and validates both the
// word count and the BIP-39 checksum before any key material is derived
// from it.
func normalizeMnemonic(mnemonic string) (string, error) {
	words := strings.Fields(mnemonic)
	if len(words) != mnemonicWordCount {
		return "", NewError(KindBadEncoding, "mnemonic must be 24 words", nil)
	}
	normalized := strings.Join(words, " ")
	if !bip39.IsMnemonicValid(normalized) {
		return "", NewError(KindBadEncoding, "invalid mnemonic checksum", nil)
	}
	return normalized, nil
}

// mnemonicToSeed derives the raw BIP-39 seed (no passphrase; Arks have no
// concept of an optional passphrase layer) from a validated mnemonic.
func mnemonicToSeed(mnemonic string) []byte {
	return bip39.NewSeed(mnemonic, "")
}
