package hash

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// DigestSize is the length of a BLAKE3 digest in bytes.
const DigestSize = 32

// Digest returns the BLAKE3-256 digest of data.
func Digest(data []byte) [DigestSize]byte {
	return blake3.Sum256(data)
}

// DigestHex returns the lowercase hex form of Digest(data).
func DigestHex(data []byte) string {
	d := Digest(data)
	return hex.EncodeToString(d[:])
}
