package types

import ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"

// ForkData is the ephemeral container compute_domain hashes to derive a
// signature domain from a fork version and the genesis validators root.
type ForkData struct {
	CurrentVersion        [4]byte
	GenesisValidatorsRoot [32]byte
}

// HashTreeRoot returns the Merkle root of the fork data container.
func (f *ForkData) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := f.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the fork data's fields to an in-flight hasher.
func (f *ForkData) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutBytes(f.CurrentVersion[:])
	hh.PutBytes(f.GenesisValidatorsRoot[:])
	return nil
}

// SigningData is the ephemeral container compute_signing_root hashes to bind
// an object's root to the domain it is being signed under.
type SigningData struct {
	ObjectRoot [32]byte
	Domain     [32]byte
}

// HashTreeRoot returns the Merkle root of the signing data container.
func (s *SigningData) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := s.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the signing data's fields to an in-flight hasher.
func (s *SigningData) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutBytes(s.ObjectRoot[:])
	hh.PutBytes(s.Domain[:])
	return nil
}
