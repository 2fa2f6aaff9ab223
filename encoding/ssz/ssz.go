// Package ssz is the adapter over the generic SSZ codec this engine treats
// as an oracle: every container in consensus-types/types implements
// HashTreeRoot/HashTreeRootWith against the fastssz Hasher this package
// re-exports, so Merkleization logic lives in exactly one well-tested
// library rather than being reimplemented per container.
package ssz

import (
	"fmt"

	fastssz "github.com/prysmaticlabs/fastssz"
	"github.com/prysmaticlabs/go-bitfield"
)

// Hasher is the fastssz hash-tree-root builder every container's
// HashTreeRootWith method appends its fields to.
type Hasher = fastssz.Hasher

// NewHasher returns a fresh Hasher, pooled internally by fastssz.
func NewHasher() *Hasher {
	return fastssz.NewHasher()
}

// HashTreeRootable is satisfied by every typed container this engine
// Merkleizes.
type HashTreeRootable interface {
	HashTreeRoot() ([32]byte, error)
	HashTreeRootWith(hh *Hasher) error
}

// Marshaler is the SSZ byte-codec surface. No container in
// consensus-types/types implements it; the cmd harness reads its genesis
// state and block files as JSON.
type Marshaler interface {
	MarshalSSZ() ([]byte, error)
	UnmarshalSSZ([]byte) error
	SizeSSZ() int
}

// HashRootVector merkleizes a fixed-length vector of 32-byte roots (e.g.
// block_roots, state_roots, randao_mixes) with no length mix-in, since
// Vector types have a statically known length.
func HashRootVector(hh *Hasher, roots [][32]byte) {
	index := hh.Index()
	for _, r := range roots {
		hh.Append(r[:])
	}
	hh.Merkleize(index)
}

// HashRootList merkleizes a variable-length list of 32-byte roots with the
// length mixed in, per SSZ List semantics (used by historical_roots).
func HashRootList(hh *Hasher, roots [][32]byte, limit uint64) {
	index := hh.Index()
	for _, r := range roots {
		hh.Append(r[:])
	}
	hh.MerkleizeWithMixin(index, uint64(len(roots)), limit)
}

// HashUint64Vector merkleizes a fixed-length vector of uint64 (slashings).
func HashUint64Vector(hh *Hasher, vals []uint64) {
	index := hh.Index()
	for _, v := range vals {
		hh.AppendUint64(v)
	}
	hh.FillUpTo32()
	hh.Merkleize(index)
}

// HashUint64List merkleizes a variable-length list of uint64 with a length
// mix-in (balances).
func HashUint64List(hh *Hasher, vals []uint64, limit uint64) {
	index := hh.Index()
	for _, v := range vals {
		hh.AppendUint64(v)
	}
	hh.FillUpTo32()
	hh.MerkleizeWithMixin(index, uint64(len(vals)), limit)
}

// MerkleizeBitlist hashes a go-bitfield Bitlist the way fastssz's generated
// code does: pack the set-bit chunk into the tree, pad to the byte limit the
// list implies, and mix in the true bit count (the list's length, not its
// packed byte length).
func MerkleizeBitlist(hh *Hasher, bits bitfield.Bitlist, limit uint64) error {
	l := bits.Len()
	if l > limit {
		return fmt.Errorf("bitlist length %d exceeds limit %d", l, limit)
	}
	index := hh.Index()
	hh.PutBytes(bits.Bytes())
	hh.FillUpTo32()
	chunkLimit := (limit + 255) / 256
	hh.MerkleizeWithMixin(index, l, chunkLimit)
	return nil
}

// ReadOnlyIterator streams over a large state list field without
// materializing a second copy, keeping iteration over validators/balances/
// attestation lists allocation-free. Consumers must not
// retain T beyond one iteration step if T contains slice fields, since the
// backing array is reused copy. Here T is a value type so each Next clones.
type ReadOnlyIterator[T any] struct {
	items []T
	pos   int
}

// NewReadOnlyIterator wraps items for single-pass, read-only iteration.
func NewReadOnlyIterator[T any](items []T) *ReadOnlyIterator[T] {
	return &ReadOnlyIterator[T]{items: items}
}

// Next returns the next element and true, or the zero value and false once
// exhausted.
func (it *ReadOnlyIterator[T]) Next() (T, bool) {
	var zero T
	if it.pos >= len(it.items) {
		return zero, false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}

// Len reports the number of elements remaining.
func (it *ReadOnlyIterator[T]) Len() int {
	return len(it.items) - it.pos
}
