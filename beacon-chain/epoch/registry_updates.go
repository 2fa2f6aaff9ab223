package epoch

import (
	coretime "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/time"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epoch/precompute"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
)

// ProcessRegistryUpdates applies the three registry transitions precompute
// already identified: ejections (queued into the shared exit queue),
// activation-eligibility grants, and churn-limited activations.
func ProcessRegistryUpdates(st *state.BeaconState, process *precompute.EpochProcess) error {
	cfg := params.BeaconConfig()
	exitEnd := process.ExitQueueEnd
	endChurn := process.ExitQueueEndChurn

	for _, index := range process.IndicesToEject {
		v, err := st.ValidatorAtIndex(index)
		if err != nil {
			return err
		}
		v.ExitEpoch = exitEnd
		v.WithdrawableEpoch = exitEnd + cfg.MinValidatorWithdrawabilityDelay
		if err := st.UpdateValidatorAtIndex(index, v); err != nil {
			return err
		}

		endChurn++
		if endChurn >= process.ChurnLimit {
			endChurn = 0
			exitEnd++
		}
	}

	for _, index := range process.IndicesToSetActivationEligibility {
		v, err := st.ValidatorAtIndex(index)
		if err != nil {
			return err
		}
		v.ActivationEligibilityEpoch = process.CurrentEpoch + 1
		if err := st.UpdateValidatorAtIndex(index, v); err != nil {
			return err
		}
	}

	finalityEpoch := st.FinalizedCheckpoint.Epoch
	limit := process.ChurnLimit
	for i, index := range process.IndicesToMaybeActivate {
		if uint64(i) >= limit {
			break
		}
		if process.Statuses[index].ActivationEligibilityEpoch > finalityEpoch {
			break
		}
		v, err := st.ValidatorAtIndex(index)
		if err != nil {
			return err
		}
		v.ActivationEpoch = coretime.ActivationExitEpoch(process.CurrentEpoch)
		if err := st.UpdateValidatorAtIndex(index, v); err != nil {
			return err
		}
	}
	return nil
}
