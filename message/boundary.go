package message

import (
	"crypto/rand"
	"encoding/hex"
)

// BoundaryLength is the length of generated boundaries.
const BoundaryLength = 40

// GenerateBoundary returns a random boundary of BoundaryLength hex digits. It
// is probably unique in most circumstances.
func GenerateBoundary() string {
	b := make([]byte, BoundaryLength/2)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
