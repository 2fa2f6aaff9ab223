package types

import (
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"
)

// Checkpoint is identified by value: (epoch, block_root).
type Checkpoint struct {
	Epoch primitives.Epoch
	Root  [32]byte
}

// Equal reports whether two checkpoints carry the same value.
func (c *Checkpoint) Equal(o *Checkpoint) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Epoch == o.Epoch && c.Root == o.Root
}

// Copy returns a value copy of the checkpoint.
func (c *Checkpoint) Copy() *Checkpoint {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// HashTreeRoot returns the Merkle root of the checkpoint container.
func (c *Checkpoint) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := c.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the checkpoint's fields to an in-flight hasher.
func (c *Checkpoint) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutUint64(uint64(c.Epoch))
	hh.PutBytes(c.Root[:])
	return nil
}

// Fork identifies the currently active and previous signature domains.
type Fork struct {
	PreviousVersion [4]byte
	CurrentVersion  [4]byte
	Epoch           primitives.Epoch
}

// Copy returns a value copy of the fork.
func (f *Fork) Copy() *Fork {
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}

// HashTreeRoot returns the Merkle root of the fork container.
func (f *Fork) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := f.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the fork's fields to an in-flight hasher.
func (f *Fork) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutBytes(f.PreviousVersion[:])
	hh.PutBytes(f.CurrentVersion[:])
	hh.PutUint64(uint64(f.Epoch))
	return nil
}

// Eth1Data is the proposer's vote on the deposit contract's observed state.
type Eth1Data struct {
	DepositRoot  [32]byte
	DepositCount uint64
	BlockHash    [32]byte
}

// Equal reports whether two Eth1Data values are identical.
func (e *Eth1Data) Equal(o *Eth1Data) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.DepositRoot == o.DepositRoot && e.DepositCount == o.DepositCount && e.BlockHash == o.BlockHash
}

// Copy returns a value copy of the Eth1Data.
func (e *Eth1Data) Copy() *Eth1Data {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

// HashTreeRoot returns the Merkle root of the Eth1Data container.
func (e *Eth1Data) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := e.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the Eth1Data's fields to an in-flight hasher.
func (e *Eth1Data) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutBytes(e.DepositRoot[:])
	hh.PutUint64(e.DepositCount)
	hh.PutBytes(e.BlockHash[:])
	return nil
}
