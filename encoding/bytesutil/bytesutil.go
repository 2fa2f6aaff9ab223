// Package bytesutil collects the little endian and fixed-size byte helpers
// the state transition leans on when it builds shuffle/seed/domain buffers
// by hand, mirroring the host project's shared bytesutil package.
package bytesutil

import "encoding/binary"

// ToBytes32 copies (or truncates/zero-pads) x into a fixed 32-byte array.
func ToBytes32(x []byte) [32]byte {
	var b [32]byte
	copy(b[:], x)
	return b
}

// ToBytes4 copies (or truncates/zero-pads) x into a fixed 4-byte array.
func ToBytes4(x []byte) [4]byte {
	var b [4]byte
	copy(b[:], x)
	return b
}

// Bytes8 returns the little-endian 8-byte encoding of x.
func Bytes8(x uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, x)
	return b
}

// Bytes4 returns the little-endian 4-byte encoding of x.
func Bytes4(x uint64) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(x))
	return b
}

// Bytes1 returns the single-byte encoding of x.
func Bytes1(x uint64) []byte {
	return []byte{byte(x)}
}

// FromBytes8 decodes a little-endian uint64 from the first 8 bytes of b.
func FromBytes8(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// FromBytes4 decodes a little-endian uint32 from the first 4 bytes of b.
func FromBytes4(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// Xor returns the byte-wise exclusive-or of two 32-byte strings.
func Xor(a, b [32]byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// SafeCopyRootAtIndex copies a 32-byte slice into a fresh array, returning
// the zero root if the index is malformed, so callers never alias the
// backing slice of a ring buffer they're about to mutate elsewhere.
func SafeCopyRootAtIndex(roots [][32]byte, i uint64) [32]byte {
	if i >= uint64(len(roots)) {
		return [32]byte{}
	}
	return roots[i]
}
