// Package util holds small shared helpers with no domain dependencies.
package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a random hex id with an optional type prefix, such as
// "rev_3f2a..." for review sessions. Collisions are not handled; 128
// random bits make them a non-concern.
func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}
