package blocks

import (
	"testing"

	"github.com/prysmaticlabs/beacon-engine/crypto/hash"
	"github.com/prysmaticlabs/beacon-engine/testing/assert"
)

func TestIsValidMerkleBranch(t *testing.T) {
	leaf := hash.Hash([]byte("deposit"))
	sibling0 := hash.Hash([]byte("sibling0"))
	sibling1 := hash.Hash([]byte("sibling1"))

	// index 1 (binary ...01): leaf is the right child at depth 0, left child
	// at depth 1.
	level1 := hash.HashTo32(sibling0[:], leaf[:])
	root := hash.HashTo32(level1[:], sibling1[:])

	branch := [][32]byte{sibling0, sibling1}
	assert.True(t, IsValidMerkleBranch(leaf, branch, 2, 1, root))
	assert.True(t, !IsValidMerkleBranch(leaf, branch, 2, 0, root), "wrong index should not validate")

	wrongRoot := hash.Hash([]byte("not the root"))
	assert.True(t, !IsValidMerkleBranch(leaf, branch, 2, 1, wrongRoot))
}
