package types

import (
	"github.com/pkg/errors"

	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"
)

// BeaconBlockHeader is the slim, body-root-only envelope used wherever a
// full block would be wasteful: the state's latest_block_header field and
// ProposerSlashing's two conflicting headers.
type BeaconBlockHeader struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	BodyRoot      [32]byte
}

// Copy returns a value copy of the header.
func (h *BeaconBlockHeader) Copy() *BeaconBlockHeader {
	if h == nil {
		return nil
	}
	cp := *h
	return &cp
}

// HashTreeRoot returns the Merkle root of the header container.
func (h *BeaconBlockHeader) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := h.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the header's fields to an in-flight hasher.
func (h *BeaconBlockHeader) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutUint64(uint64(h.Slot))
	hh.PutUint64(uint64(h.ProposerIndex))
	hh.PutBytes(h.ParentRoot[:])
	hh.PutBytes(h.StateRoot[:])
	hh.PutBytes(h.BodyRoot[:])
	return nil
}

// SignedBeaconBlockHeader pairs a header with the proposer's signature over it.
type SignedBeaconBlockHeader struct {
	Header    *BeaconBlockHeader
	Signature [96]byte
}

// HashTreeRoot returns the Merkle root of the signed header container.
func (s *SignedBeaconBlockHeader) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := s.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the signed header's fields to an in-flight hasher.
func (s *SignedBeaconBlockHeader) HashTreeRootWith(hh *ssz.Hasher) error {
	index := hh.Index()
	if err := s.Header.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	hh.PutBytes(s.Signature[:])
	return nil
}

// ProposerSlashing proves a proposer double-proposed: two differently signed
// headers for the same slot.
type ProposerSlashing struct {
	Header1 *SignedBeaconBlockHeader
	Header2 *SignedBeaconBlockHeader
}

// HashTreeRoot returns the Merkle root of the proposer slashing container.
func (p *ProposerSlashing) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := p.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the proposer slashing's fields to an in-flight hasher.
func (p *ProposerSlashing) HashTreeRootWith(hh *ssz.Hasher) error {
	index := hh.Index()
	if err := p.Header1.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	index = hh.Index()
	if err := p.Header2.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	return nil
}

// Limits on the list-typed fields of BeaconBlockBody.
const (
	MaxProposerSlashings = 16
	MaxAttesterSlashings = 1
	MaxAttestations      = 128
	MaxDeposits          = 16
	MaxVoluntaryExits    = 16
)

// BeaconBlockBody carries the operations a proposer bundles into a block:
// RANDAO reveal, eth1 vote, and the five operation lists.
type BeaconBlockBody struct {
	RandaoReveal      [96]byte
	Eth1Data          *Eth1Data
	Graffiti          [32]byte
	ProposerSlashings []*ProposerSlashing
	AttesterSlashings []*AttesterSlashing
	Attestations      []*Attestation
	Deposits          []*Deposit
	VoluntaryExits    []*SignedVoluntaryExit
}

// HashTreeRoot returns the Merkle root of the block body container.
func (b *BeaconBlockBody) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := b.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the block body's fields to an in-flight hasher.
func (b *BeaconBlockBody) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutBytes(b.RandaoReveal[:])

	index := hh.Index()
	if err := b.Eth1Data.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)

	hh.PutBytes(b.Graffiti[:])

	if err := hashContainerList(hh, len(b.ProposerSlashings), MaxProposerSlashings, func(i int) error {
		return b.ProposerSlashings[i].HashTreeRootWith(hh)
	}); err != nil {
		return err
	}
	if err := hashContainerList(hh, len(b.AttesterSlashings), MaxAttesterSlashings, func(i int) error {
		return b.AttesterSlashings[i].HashTreeRootWith(hh)
	}); err != nil {
		return err
	}
	if err := hashContainerList(hh, len(b.Attestations), MaxAttestations, func(i int) error {
		return b.Attestations[i].HashTreeRootWith(hh)
	}); err != nil {
		return err
	}
	if err := hashContainerList(hh, len(b.Deposits), MaxDeposits, func(i int) error {
		return b.Deposits[i].HashTreeRootWith(hh)
	}); err != nil {
		return err
	}
	if err := hashContainerList(hh, len(b.VoluntaryExits), MaxVoluntaryExits, func(i int) error {
		return b.VoluntaryExits[i].HashTreeRootWith(hh)
	}); err != nil {
		return err
	}
	return nil
}

// hashContainerList merkleizes a variable-length list of container elements,
// mixing in the true element count. Shared by every List[Container, N]
// field across BeaconBlockBody and BeaconState.
func hashContainerList(hh *ssz.Hasher, n int, limit uint64, hashElem func(i int) error) error {
	if uint64(n) > limit {
		return errors.Errorf("list length %d exceeds limit %d", n, limit)
	}
	listIndex := hh.Index()
	for i := 0; i < n; i++ {
		elemIndex := hh.Index()
		if err := hashElem(i); err != nil {
			return err
		}
		hh.Merkleize(elemIndex)
	}
	hh.MerkleizeWithMixin(listIndex, uint64(n), limit)
	return nil
}

// BeaconBlock is the full proposal a proposer signs and gossips.
type BeaconBlock struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	Body          *BeaconBlockBody
}

// HashTreeRoot returns the Merkle root of the block container.
func (b *BeaconBlock) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := b.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the block's fields to an in-flight hasher.
func (b *BeaconBlock) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutUint64(uint64(b.Slot))
	hh.PutUint64(uint64(b.ProposerIndex))
	hh.PutBytes(b.ParentRoot[:])
	hh.PutBytes(b.StateRoot[:])
	index := hh.Index()
	if err := b.Body.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	return nil
}

// Header returns the slim BeaconBlockHeader view of this block, computing
// the body's hash-tree-root to fill BodyRoot.
func (b *BeaconBlock) Header() (*BeaconBlockHeader, error) {
	bodyRoot, err := b.Body.HashTreeRoot()
	if err != nil {
		return nil, errors.Wrap(err, "could not compute block body root")
	}
	return &BeaconBlockHeader{
		Slot:          b.Slot,
		ProposerIndex: b.ProposerIndex,
		ParentRoot:    b.ParentRoot,
		StateRoot:     b.StateRoot,
		BodyRoot:      bodyRoot,
	}, nil
}

// SignedBeaconBlock pairs a block with the proposer's signature over it.
type SignedBeaconBlock struct {
	Block     *BeaconBlock
	Signature [96]byte
}

// HashTreeRoot returns the Merkle root of the signed block container.
func (s *SignedBeaconBlock) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := s.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the signed block's fields to an in-flight hasher.
func (s *SignedBeaconBlock) HashTreeRootWith(hh *ssz.Hasher) error {
	index := hh.Index()
	if err := s.Block.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	hh.PutBytes(s.Signature[:])
	return nil
}
