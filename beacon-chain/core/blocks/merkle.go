package blocks

import "github.com/prysmaticlabs/beacon-engine/crypto/hash"

// IsValidMerkleBranch verifies leaf's inclusion at index under root via
// branch, climbing depth levels and picking the hash order from index's
// bits, per fastspec.py's is_valid_merkle_branch.
func IsValidMerkleBranch(leaf [32]byte, branch [][32]byte, depth uint64, index uint64, root [32]byte) bool {
	value := leaf
	for i := uint64(0); i < depth; i++ {
		if (index>>i)&1 == 1 {
			value = hash.HashTo32(branch[i][:], value[:])
		} else {
			value = hash.HashTo32(value[:], branch[i][:])
		}
	}
	return value == root
}
