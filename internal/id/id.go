// Package id provides unique identifier generation utilities.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Short generates a short random hex ID (16 characters).
// Used to tag webhook deliveries in logs so retries and
// concurrent sends can be told apart.
func Short() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
