// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package newsletter

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// newToken returns a random token and the hash to store. Only the hash is
// persisted; the raw token travels in the email link.
func newToken() (raw, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	raw = hex.EncodeToString(b)
	return raw, HashToken(raw), nil
}

// HashToken returns the stored form of a token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// unsubscribeToken derives a stable per-subscriber token so that every
// campaign email can carry a working link without storing the raw value.
func unsubscribeToken(secret []byte, subscriberID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(subscriberID))
	return hex.EncodeToString(mac.Sum(nil))
}
