package types

import (
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"
)

// VoluntaryExit is a validator's signed request to begin its exit, valid
// only once its minimum active epoch and signature both check out.
type VoluntaryExit struct {
	Epoch          primitives.Epoch
	ValidatorIndex primitives.ValidatorIndex
}

// HashTreeRoot returns the Merkle root of the voluntary exit container.
func (v *VoluntaryExit) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := v.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the voluntary exit's fields to an in-flight hasher.
func (v *VoluntaryExit) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutUint64(uint64(v.Epoch))
	hh.PutUint64(uint64(v.ValidatorIndex))
	return nil
}

// SignedVoluntaryExit pairs a voluntary exit with the exiting validator's signature.
type SignedVoluntaryExit struct {
	Exit      *VoluntaryExit
	Signature [96]byte
}

// HashTreeRoot returns the Merkle root of the signed voluntary exit container.
func (s *SignedVoluntaryExit) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := s.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the signed voluntary exit's fields to an in-flight hasher.
func (s *SignedVoluntaryExit) HashTreeRootWith(hh *ssz.Hasher) error {
	index := hh.Index()
	if err := s.Exit.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	hh.PutBytes(s.Signature[:])
	return nil
}
