package epoch

import (
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/go-bitfield"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epoch/precompute"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

// ProcessJustificationAndFinalization updates the Casper FFG checkpoints
// from the previous and current epochs' target-vote stake, then checks the
// four classic 2nd/3rd/4th-epoch finality rules against the justification
// bitfield's new state.
func ProcessJustificationAndFinalization(st *state.BeaconState, process *precompute.EpochProcess) error {
	cfg := params.BeaconConfig()
	if process.CurrentEpoch <= cfg.GenesisEpoch+1 {
		return nil
	}

	oldPrevJustified := st.PreviousJustifiedCheckpoint
	oldCurrJustified := st.CurrentJustifiedCheckpoint

	st.PreviousJustifiedCheckpoint = st.CurrentJustifiedCheckpoint
	st.JustificationBits = shiftJustificationBits(st.JustificationBits)

	if uint64(process.PrevEpochStake.TargetStake)*3 >= uint64(process.TotalActiveStake)*2 {
		root, err := precompute.BlockRootAtEpochStart(st, process.PrevEpoch)
		if err != nil {
			return errors.Wrap(err, "could not compute previous epoch block root")
		}
		st.CurrentJustifiedCheckpoint = &types.Checkpoint{Epoch: process.PrevEpoch, Root: root}
		st.JustificationBits.SetBitAt(1, true)
	}
	if uint64(process.CurrEpochStake.TargetStake)*3 >= uint64(process.TotalActiveStake)*2 {
		root, err := precompute.BlockRootAtEpochStart(st, process.CurrentEpoch)
		if err != nil {
			return errors.Wrap(err, "could not compute current epoch block root")
		}
		st.CurrentJustifiedCheckpoint = &types.Checkpoint{Epoch: process.CurrentEpoch, Root: root}
		st.JustificationBits.SetBitAt(0, true)
	}

	current := process.CurrentEpoch
	bits := st.JustificationBits

	if allBitsSet(bits, 1, 4) && oldPrevJustified.Epoch+3 == current {
		st.FinalizedCheckpoint = oldPrevJustified
	}
	if allBitsSet(bits, 1, 3) && oldPrevJustified.Epoch+2 == current {
		st.FinalizedCheckpoint = oldPrevJustified
	}
	if allBitsSet(bits, 0, 3) && oldCurrJustified.Epoch+2 == current {
		st.FinalizedCheckpoint = oldCurrJustified
	}
	if allBitsSet(bits, 0, 2) && oldCurrJustified.Epoch+1 == current {
		st.FinalizedCheckpoint = oldCurrJustified
	}
	return nil
}

// shiftJustificationBits implements bits[1:] = bits[:-1]; bits[0] = 0 over
// the fixed 4-bit justification vector: each epoch's outcome moves one slot
// further into history, and the newest slot starts unset.
func shiftJustificationBits(bits bitfield.Bitvector4) bitfield.Bitvector4 {
	shifted := bitfield.NewBitvector4()
	for i := uint64(1); i < 4; i++ {
		if bits.BitAt(i - 1) {
			shifted.SetBitAt(i, true)
		}
	}
	return shifted
}

// bitvector4 is the minimal surface ProcessJustificationAndFinalization
// needs from the state's 4-bit justification bitvector.
type bitvector4 interface {
	BitAt(uint64) bool
}

// allBitsSet reports whether every bit in [from, to) of bits is set.
func allBitsSet(bits bitvector4, from, to uint64) bool {
	for i := from; i < to; i++ {
		if !bits.BitAt(i) {
			return false
		}
	}
	return true
}
