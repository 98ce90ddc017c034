// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto holds the symmetric cipher used by the credential vault and
// the password hashing helpers used for login and operator secrets.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// ErrCiphertextInvalid is returned by [Cipher.Decrypt] when the input is not
// a blob this cipher produced: bad hex, too short, or a failed
// authentication tag (wrong key or corrupted data).
var ErrCiphertextInvalid = errors.New("ciphertext is invalid")

// Cipher encrypts and decrypts short strings with AES-256-GCM.
//
// The 256-bit data key is derived as SHA-256 of the configured secret, so
// any non-empty secret string yields a valid key. The wire form is
// hex(nonce ‖ ciphertext): a random 12-byte nonce is prepended to the sealed
// blob so decryption can split it out. Identical plaintexts therefore
// produce different ciphertexts on every call.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives the data key from secret and builds the AEAD.
func NewCipher(secret string) (*Cipher, error) {
	key := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext and returns hex(nonce ‖ ciphertext). Returns an
// error only if the random nonce read fails.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)

	return hex.EncodeToString(append(nonce, sealed...)), nil
}

// Decrypt reverses [Cipher.Encrypt]. Any defect in the blob, including an
// authentication-tag mismatch from a wrong key, maps onto
// [ErrCiphertextInvalid].
func (c *Cipher) Decrypt(encoded string) (string, error) {
	blob, err := hex.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCiphertextInvalid, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(blob) < nonceSize {
		return "", fmt.Errorf("%w: blob shorter than nonce", ErrCiphertextInvalid)
	}

	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCiphertextInvalid, err)
	}

	return string(plaintext), nil
}
