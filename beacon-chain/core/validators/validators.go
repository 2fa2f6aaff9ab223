// Package validators implements the per-validator lifecycle operations:
// activity checks, slashability checks, exit initiation, and slashing.
package validators

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	coretime "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/time"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/metrics"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

var log = logrus.WithField("prefix", "validators")

// IsActiveValidator reports whether v is active during epoch.
func IsActiveValidator(v *types.Validator, epoch primitives.Epoch) bool {
	return v.ActivationEpoch <= epoch && epoch < v.ExitEpoch
}

// IsSlashableValidator reports whether v can still be slashed at epoch: not
// already slashed, and either active or exited-but-not-yet-withdrawable.
func IsSlashableValidator(v *types.Validator, epoch primitives.Epoch) bool {
	return !v.Slashed && v.ActivationEpoch <= epoch && epoch < v.WithdrawableEpoch
}

// ChurnLimit returns the maximum number of validators that may enter or
// leave the active set in a single epoch, floored at MIN_PER_EPOCH_CHURN_LIMIT.
func ChurnLimit(activeValidatorCount uint64) primitives.ValidatorIndex {
	cfg := params.BeaconConfig()
	limit := activeValidatorCount / cfg.ChurnLimitQuotient
	if limit < cfg.MinPerEpochChurnLimit {
		limit = cfg.MinPerEpochChurnLimit
	}
	return primitives.ValidatorIndex(limit)
}

// InitiateValidatorExit schedules index's exit, respecting the per-epoch
// churn limit by queueing into the earliest exit epoch with room, the way
// fastspec.py's initiate_validator_exit walks the whole registry to find
// exit_queue_epoch and exit_queue_churn. The two scans are intentionally
// kept separate (not folded into one pass) so each reads as exactly the
// invariant it enforces.
func InitiateValidatorExit(st *state.BeaconState, index primitives.ValidatorIndex, activeValidatorCount uint64) error {
	v, err := st.ValidatorAtIndex(index)
	if err != nil {
		return err
	}
	cfg := params.BeaconConfig()
	if v.ExitEpoch != cfg.FarFutureEpoch {
		return nil
	}

	currentEpoch := coretime.CurrentEpoch(st.Slot)
	exitQueueEpoch := coretime.ActivationExitEpoch(currentEpoch)

	it := st.ValidatorIterator()
	for {
		other, _, ok := it.Next()
		if !ok {
			break
		}
		if other.ExitEpoch != cfg.FarFutureEpoch && other.ExitEpoch > exitQueueEpoch {
			exitQueueEpoch = other.ExitEpoch
		}
	}

	var exitQueueChurn uint64
	it = st.ValidatorIterator()
	for {
		other, _, ok := it.Next()
		if !ok {
			break
		}
		if other.ExitEpoch == exitQueueEpoch {
			exitQueueChurn++
		}
	}
	if exitQueueChurn >= uint64(ChurnLimit(activeValidatorCount)) {
		exitQueueEpoch++
	}

	v.ExitEpoch = exitQueueEpoch
	v.WithdrawableEpoch = exitQueueEpoch + cfg.MinValidatorWithdrawabilityDelay
	return st.UpdateValidatorAtIndex(index, v)
}

// SlashValidator applies the full slashing side effects to slashedIndex:
// exit initiation, the slashed flag, the slashings-vector accounting, the
// minimal-penalty balance decrease, and the proposer/whistleblower rewards.
// proposerIndex is supplied by the caller (the block processor), which
// already has the epoch context needed to resolve it; the same indirection
// is used for whistleblowerIndex, which is replaced by proposerIndex when
// hasWhistleblower is false.
func SlashValidator(
	st *state.BeaconState,
	slashedIndex primitives.ValidatorIndex,
	whistleblowerIndex primitives.ValidatorIndex,
	hasWhistleblower bool,
	proposerIndex primitives.ValidatorIndex,
	activeValidatorCount uint64,
) error {
	cfg := params.BeaconConfig()
	epoch := coretime.CurrentEpoch(st.Slot)

	if err := InitiateValidatorExit(st, slashedIndex, activeValidatorCount); err != nil {
		return errors.Wrap(err, "could not initiate validator exit")
	}

	v, err := st.ValidatorAtIndex(slashedIndex)
	if err != nil {
		return err
	}
	v.Slashed = true
	withdrawableEpoch := epoch + cfg.EpochsPerSlashingsVector
	if v.WithdrawableEpoch > withdrawableEpoch {
		withdrawableEpoch = v.WithdrawableEpoch
	}
	v.WithdrawableEpoch = withdrawableEpoch
	if err := st.UpdateValidatorAtIndex(slashedIndex, v); err != nil {
		return err
	}

	slashingsIndex := uint64(epoch) % uint64(cfg.EpochsPerSlashingsVector)
	current, err := slashingAtIndex(st, slashingsIndex)
	if err != nil {
		return err
	}
	if err := st.SetSlashingAtIndex(slashingsIndex, current+uint64(v.EffectiveBalance)); err != nil {
		return err
	}

	if err := st.DecreaseBalance(slashedIndex, uint64(v.EffectiveBalance)/cfg.MinSlashingPenaltyQuotient); err != nil {
		return err
	}

	if !hasWhistleblower {
		whistleblowerIndex = proposerIndex
	}
	whistleblowerReward := uint64(v.EffectiveBalance) / cfg.WhistleblowerRewardQuotient
	proposerReward := whistleblowerReward / cfg.ProposerRewardQuotient
	if err := st.IncreaseBalance(proposerIndex, proposerReward); err != nil {
		return err
	}
	if err := st.IncreaseBalance(whistleblowerIndex, whistleblowerReward-proposerReward); err != nil {
		return err
	}

	metrics.SlashingsProcessed.Inc()
	log.WithFields(logrus.Fields{
		"index":             slashedIndex,
		"withdrawableEpoch": withdrawableEpoch,
	}).Debug("validator slashed")
	return nil
}

func slashingAtIndex(st *state.BeaconState, index uint64) (uint64, error) {
	if index >= uint64(len(st.Slashings)) {
		return 0, errors.Errorf("slashing index %d out of range %d", index, len(st.Slashings))
	}
	return st.Slashings[index], nil
}
