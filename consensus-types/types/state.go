package types

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"

	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"
)

// HistoricalBatch snapshots SLOTS_PER_HISTORICAL_ROOT worth of block and
// state roots; its hash-tree-root becomes one leaf of historical_roots once
// the live ring buffers wrap.
type HistoricalBatch struct {
	BlockRoots [][32]byte
	StateRoots [][32]byte
}

// HashTreeRoot returns the Merkle root of the historical batch container.
func (h *HistoricalBatch) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := h.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the historical batch's fields to an in-flight hasher.
func (h *HistoricalBatch) HashTreeRootWith(hh *ssz.Hasher) error {
	ssz.HashRootVector(hh, h.BlockRoots)
	ssz.HashRootVector(hh, h.StateRoots)
	return nil
}

// BeaconState is the full consensus-critical state the transition functions
// operate over. The list-typed fields (Validators, Balances, *Attestations,
// HistoricalRoots, Eth1DataVotes) are bounded at hash time by the active
// BeaconChainConfig's limits, never by a struct tag.
type BeaconState struct {
	GenesisTime           uint64
	GenesisValidatorsRoot [32]byte
	Slot                  primitives.Slot
	Fork                  *Fork
	LatestBlockHeader     *BeaconBlockHeader
	BlockRoots            [][32]byte
	StateRoots            [][32]byte
	HistoricalRoots       [][32]byte

	Eth1Data      *Eth1Data
	Eth1DataVotes []*Eth1Data
	Eth1DepositIndex uint64

	Validators []*Validator
	Balances   []uint64

	RandaoMixes [][32]byte
	Slashings   []uint64

	PreviousEpochAttestations []*PendingAttestation
	CurrentEpochAttestations  []*PendingAttestation

	JustificationBits           bitfield.Bitvector4
	PreviousJustifiedCheckpoint *Checkpoint
	CurrentJustifiedCheckpoint  *Checkpoint
	FinalizedCheckpoint         *Checkpoint
}

// HashTreeRoot returns the Merkle root of the full beacon state.
func (s *BeaconState) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := s.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the beacon state's fields to an in-flight hasher,
// in BeaconState's declared field order.
func (s *BeaconState) HashTreeRootWith(hh *ssz.Hasher) error {
	cfg := params.BeaconConfig()

	hh.PutUint64(s.GenesisTime)
	hh.PutBytes(s.GenesisValidatorsRoot[:])
	hh.PutUint64(uint64(s.Slot))

	index := hh.Index()
	if err := s.Fork.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)

	index = hh.Index()
	if err := s.LatestBlockHeader.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)

	if uint64(len(s.BlockRoots)) != uint64(cfg.SlotsPerHistoricalRoot) {
		return errors.Errorf("block_roots length %d does not match SLOTS_PER_HISTORICAL_ROOT %d", len(s.BlockRoots), cfg.SlotsPerHistoricalRoot)
	}
	ssz.HashRootVector(hh, s.BlockRoots)

	if uint64(len(s.StateRoots)) != uint64(cfg.SlotsPerHistoricalRoot) {
		return errors.Errorf("state_roots length %d does not match SLOTS_PER_HISTORICAL_ROOT %d", len(s.StateRoots), cfg.SlotsPerHistoricalRoot)
	}
	ssz.HashRootVector(hh, s.StateRoots)

	ssz.HashRootList(hh, s.HistoricalRoots, cfg.HistoricalRootsLimit)

	index = hh.Index()
	if err := s.Eth1Data.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)

	if err := hashContainerList(hh, len(s.Eth1DataVotes), uint64(cfg.SlotsPerEth1VotingPeriod), func(i int) error {
		return s.Eth1DataVotes[i].HashTreeRootWith(hh)
	}); err != nil {
		return err
	}

	hh.PutUint64(s.Eth1DepositIndex)

	if err := hashContainerList(hh, len(s.Validators), cfg.ValidatorRegistryLimit, func(i int) error {
		return s.Validators[i].HashTreeRootWith(hh)
	}); err != nil {
		return err
	}

	ssz.HashUint64List(hh, s.Balances, cfg.ValidatorRegistryLimit)

	if uint64(len(s.RandaoMixes)) != uint64(cfg.EpochsPerHistoricalVector) {
		return errors.Errorf("randao_mixes length %d does not match EPOCHS_PER_HISTORICAL_VECTOR %d", len(s.RandaoMixes), cfg.EpochsPerHistoricalVector)
	}
	ssz.HashRootVector(hh, s.RandaoMixes)

	if uint64(len(s.Slashings)) != uint64(cfg.EpochsPerSlashingsVector) {
		return errors.Errorf("slashings length %d does not match EPOCHS_PER_SLASHINGS_VECTOR %d", len(s.Slashings), cfg.EpochsPerSlashingsVector)
	}
	ssz.HashUint64Vector(hh, s.Slashings)

	if err := hashContainerList(hh, len(s.PreviousEpochAttestations), cfg.MaxAttestations*uint64(cfg.SlotsPerEpoch), func(i int) error {
		return s.PreviousEpochAttestations[i].HashTreeRootWith(hh)
	}); err != nil {
		return err
	}
	if err := hashContainerList(hh, len(s.CurrentEpochAttestations), cfg.MaxAttestations*uint64(cfg.SlotsPerEpoch), func(i int) error {
		return s.CurrentEpochAttestations[i].HashTreeRootWith(hh)
	}); err != nil {
		return err
	}

	hh.PutBytes(s.JustificationBits.Bytes())

	index = hh.Index()
	if err := s.PreviousJustifiedCheckpoint.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)

	index = hh.Index()
	if err := s.CurrentJustifiedCheckpoint.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)

	index = hh.Index()
	if err := s.FinalizedCheckpoint.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)

	return nil
}
