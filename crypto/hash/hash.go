// Package hash wraps the single hash oracle the state transition depends
// on: sha256(bytes) -> 32 bytes. Kept as a thin package so every call site
// names the oracle rather than importing crypto/sha256 directly, matching
// the host project's shared hashutil package.
package hash

import "crypto/sha256"

// Hash returns the SHA-256 digest of data.
func Hash(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// HashTo32 hashes the concatenation of data, returning a fixed 32-byte array.
func HashTo32(data ...[]byte) [32]byte {
	h := sha256.New()
	for _, d := range data {
		h.Write(d) //nolint:errcheck // hash.Hash.Write never errors
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
