package epoch

import (
	"github.com/pkg/errors"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epoch/precompute"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

// ProcessFinalUpdates closes out the epoch: eth1 vote reset, effective
// balance hysteresis, the rolling slashings/randao vectors, the historical
// roots accumulator, and rotating current epoch attestations into previous.
func ProcessFinalUpdates(st *state.BeaconState, process *precompute.EpochProcess) error {
	cfg := params.BeaconConfig()
	currentEpoch := process.CurrentEpoch
	nextEpoch := currentEpoch + 1

	if (uint64(st.Slot)+1)%uint64(cfg.SlotsPerEth1VotingPeriod) == 0 {
		st.Eth1DataVotes = nil
	}

	halfIncrement := cfg.EffectiveBalanceIncrement / 2
	for i, status := range process.Statuses {
		balance, err := st.BalanceAtIndex(primitives.ValidatorIndex(i))
		if err != nil {
			return err
		}
		effectiveBalance := uint64(status.EffectiveBalance)
		if balance < effectiveBalance || effectiveBalance+3*halfIncrement < balance {
			newEffectiveBalance := balance - balance%cfg.EffectiveBalanceIncrement
			if newEffectiveBalance > cfg.MaxEffectiveBalance {
				newEffectiveBalance = cfg.MaxEffectiveBalance
			}
			v, err := st.ValidatorAtIndex(primitives.ValidatorIndex(i))
			if err != nil {
				return err
			}
			v.EffectiveBalance = primitives.Gwei(newEffectiveBalance)
			if err := st.UpdateValidatorAtIndex(primitives.ValidatorIndex(i), v); err != nil {
				return err
			}
		}
	}

	if err := st.SetSlashingAtIndex(uint64(nextEpoch)%uint64(cfg.EpochsPerSlashingsVector), 0); err != nil {
		return err
	}

	currentMixIndex := uint64(currentEpoch) % uint64(cfg.EpochsPerHistoricalVector)
	if currentMixIndex >= uint64(len(st.RandaoMixes)) {
		return errors.Errorf("randao mix index %d out of range", currentMixIndex)
	}
	currentMix := st.RandaoMixes[currentMixIndex]
	if err := st.SetRandaoMixAtIndex(uint64(nextEpoch)%uint64(cfg.EpochsPerHistoricalVector), currentMix); err != nil {
		return err
	}

	if uint64(nextEpoch)%(uint64(cfg.SlotsPerHistoricalRoot)/uint64(cfg.SlotsPerEpoch)) == 0 {
		batch := &types.HistoricalBatch{BlockRoots: st.BlockRoots, StateRoots: st.StateRoots}
		root, err := batch.HashTreeRoot()
		if err != nil {
			return errors.Wrap(err, "could not compute historical batch root")
		}
		st.AppendHistoricalRoot(root)
	}

	st.PreviousEpochAttestations = st.CurrentEpochAttestations
	st.CurrentEpochAttestations = nil

	return nil
}
