// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package sec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// SecretBox performs symmetric encryption of small secrets at rest using
// AES-256-GCM with a server-held key.
//
// It is used exclusively for the MFA shared secret. Every Encrypt call draws
// a fresh random nonce; nonce reuse under GCM destroys confidentiality, so
// there is deliberately no way to supply one.
type SecretBox struct {
	aead cipher.AEAD
}

// NewSecretBox creates a SecretBox from a 32-byte key.
func NewSecretBox(key []byte) (*SecretBox, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("sec: secret box key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to initialize cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to initialize GCM: %w", err)
	}

	return &SecretBox{aead: aead}, nil
}

// Encrypt seals the plaintext and returns hex(nonce || ciphertext).
func (box *SecretBox) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, box.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("sec: failed to generate nonce: %w", err)
	}

	sealed := box.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by [SecretBox.Encrypt].
//
// Any failure (wrong key, truncated or corrupted record) is a hard error —
// a garbled secret must never flow into a code comparison.
func (box *SecretBox) Decrypt(encoded string) (string, error) {
	sealed, err := hex.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("sec: stored secret is not valid hex: %w", err)
	}

	nonceSize := box.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("sec: stored secret is truncated")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := box.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("sec: failed to decrypt stored secret: %w", err)
	}

	return string(plaintext), nil
}
