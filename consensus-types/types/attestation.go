package types

import (
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"
	"github.com/prysmaticlabs/go-bitfield"
)

// AttestationData is the Casper-FFG/LMD-GHOST vote an attestation carries:
// which slot and committee cast it, and the source/target checkpoints.
type AttestationData struct {
	Slot            primitives.Slot
	Index           primitives.CommitteeIndex
	BeaconBlockRoot [32]byte
	Source          *Checkpoint
	Target          *Checkpoint
}

// Equal reports whether two AttestationData values carry the same vote,
// used by IsSlashableAttestationData's double-vote check.
func (a *AttestationData) Equal(o *AttestationData) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.Slot == o.Slot && a.Index == o.Index && a.BeaconBlockRoot == o.BeaconBlockRoot &&
		a.Source.Equal(o.Source) && a.Target.Equal(o.Target)
}

// Copy returns a deep copy of the attestation data.
func (a *AttestationData) Copy() *AttestationData {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Source = a.Source.Copy()
	cp.Target = a.Target.Copy()
	return &cp
}

// HashTreeRoot returns the Merkle root of the attestation data container.
func (a *AttestationData) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := a.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the attestation data's fields to an in-flight hasher.
func (a *AttestationData) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutUint64(uint64(a.Slot))
	hh.PutUint64(uint64(a.Index))
	hh.PutBytes(a.BeaconBlockRoot[:])
	index := hh.Index()
	if err := a.Source.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	index = hh.Index()
	if err := a.Target.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	return nil
}

// IndexedAttestation names the sorted validator indices that jointly signed
// an AttestationData, the form committee-aware verification operates on.
type IndexedAttestation struct {
	AttestingIndices []primitives.ValidatorIndex
	Data             *AttestationData
	Signature        [96]byte
}

// MaxValidatorsPerCommittee bounds the list-typed attesting_indices field.
const MaxValidatorsPerCommittee = 2048

// HashTreeRoot returns the Merkle root of the indexed attestation container.
func (ia *IndexedAttestation) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := ia.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the indexed attestation's fields to an in-flight hasher.
func (ia *IndexedAttestation) HashTreeRootWith(hh *ssz.Hasher) error {
	index := hh.Index()
	for _, idx := range ia.AttestingIndices {
		hh.AppendUint64(uint64(idx))
	}
	hh.FillUpTo32()
	hh.MerkleizeWithMixin(index, uint64(len(ia.AttestingIndices)), MaxValidatorsPerCommittee)

	index = hh.Index()
	if err := ia.Data.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)

	hh.PutBytes(ia.Signature[:])
	return nil
}

// Attestation is the wire form produced by an attesting committee: an
// aggregation bitlist over the committee plus the shared data and signature.
type Attestation struct {
	AggregationBits bitfield.Bitlist
	Data            *AttestationData
	Signature       [96]byte
}

// HashTreeRoot returns the Merkle root of the attestation container.
func (a *Attestation) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := a.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the attestation's fields to an in-flight hasher.
func (a *Attestation) HashTreeRootWith(hh *ssz.Hasher) error {
	if err := ssz.MerkleizeBitlist(hh, a.AggregationBits, MaxValidatorsPerCommittee); err != nil {
		return err
	}
	index := hh.Index()
	if err := a.Data.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	hh.PutBytes(a.Signature[:])
	return nil
}

// PendingAttestation is the phase0-only epoch-process record of an included
// attestation: its data, committee bits, inclusion delay, and proposer.
type PendingAttestation struct {
	AggregationBits bitfield.Bitlist
	Data            *AttestationData
	InclusionDelay  primitives.Slot
	ProposerIndex   primitives.ValidatorIndex
}

// HashTreeRoot returns the Merkle root of the pending attestation container.
func (p *PendingAttestation) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := p.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the pending attestation's fields to an in-flight hasher.
func (p *PendingAttestation) HashTreeRootWith(hh *ssz.Hasher) error {
	if err := ssz.MerkleizeBitlist(hh, p.AggregationBits, MaxValidatorsPerCommittee); err != nil {
		return err
	}
	index := hh.Index()
	if err := p.Data.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	hh.PutUint64(uint64(p.InclusionDelay))
	hh.PutUint64(uint64(p.ProposerIndex))
	return nil
}

// AttesterSlashing proves two IndexedAttestations from the same attester(s)
// are mutually slashable (double vote or surround vote).
type AttesterSlashing struct {
	Attestation1 *IndexedAttestation
	Attestation2 *IndexedAttestation
}

// HashTreeRoot returns the Merkle root of the attester slashing container.
func (s *AttesterSlashing) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := s.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the attester slashing's fields to an in-flight hasher.
func (s *AttesterSlashing) HashTreeRootWith(hh *ssz.Hasher) error {
	index := hh.Index()
	if err := s.Attestation1.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	index = hh.Index()
	if err := s.Attestation2.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	return nil
}
