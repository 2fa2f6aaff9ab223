package epoch

import (
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epoch/precompute"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	enginemath "github.com/prysmaticlabs/beacon-engine/math"
)

// baseRewardsPerEpoch is the four reward components (source, target, head,
// inclusion delay) every eligible attester's base_reward is divided across.
const baseRewardsPerEpoch = 4

// AttestationDeltas computes the per-validator reward and penalty for the
// epoch just completed, per fastspec.py's get_attestation_deltas.
func AttestationDeltas(st *state.BeaconState, process *precompute.EpochProcess) (rewards, penalties []uint64) {
	cfg := params.BeaconConfig()
	n := len(process.Statuses)
	rewards = make([]uint64, n)
	penalties = make([]uint64, n)

	totalBalance := uint64(process.TotalActiveUnslashedStake)
	if totalBalance == 0 {
		totalBalance = 1
	}

	attesterStake := func(flags uint8) uint64 {
		var stake uint64
		for _, s := range process.Statuses {
			if precompute.HasMarkers(s.Flags, flags) {
				stake += uint64(s.EffectiveBalance)
			}
		}
		return stake
	}

	prevSourceStake := attesterStake(precompute.FlagPrevSourceAttester | precompute.FlagUnslashed)
	prevTargetStake := attesterStake(precompute.FlagPrevTargetAttester | precompute.FlagUnslashed)
	prevHeadStake := attesterStake(precompute.FlagPrevHeadAttester | precompute.FlagUnslashed)

	balanceSqRoot := enginemath.IntegerSquareRoot(totalBalance)
	finalityDelay := uint64(process.PrevEpoch.SafeSub(st.FinalizedCheckpoint.Epoch))

	for i, status := range process.Statuses {
		if status.Flags&precompute.FlagEligibleAttester == 0 {
			continue
		}

		effBalance := uint64(status.EffectiveBalance)
		baseReward := effBalance * cfg.BaseRewardFactor / balanceSqRoot / baseRewardsPerEpoch

		if precompute.HasMarkers(status.Flags, precompute.FlagPrevSourceAttester|precompute.FlagUnslashed) {
			rewards[i] += enginemath.MulDiv64(baseReward, prevSourceStake, totalBalance)

			proposerReward := baseReward / cfg.ProposerRewardQuotient
			rewards[status.ProposerIndex] += proposerReward
			maxAttesterReward := baseReward - proposerReward
			rewards[i] += maxAttesterReward / uint64(status.InclusionDelay)
		} else {
			penalties[i] += baseReward
		}

		if precompute.HasMarkers(status.Flags, precompute.FlagPrevTargetAttester|precompute.FlagUnslashed) {
			rewards[i] += enginemath.MulDiv64(baseReward, prevTargetStake, totalBalance)
		} else {
			penalties[i] += baseReward
		}

		if precompute.HasMarkers(status.Flags, precompute.FlagPrevHeadAttester|precompute.FlagUnslashed) {
			rewards[i] += enginemath.MulDiv64(baseReward, prevHeadStake, totalBalance)
		} else {
			penalties[i] += baseReward
		}

		if finalityDelay > uint64(cfg.MinEpochsToInactivityPenalty) {
			penalties[i] += baseReward * baseRewardsPerEpoch
			if !precompute.HasMarkers(status.Flags, precompute.FlagPrevHeadAttester|precompute.FlagUnslashed) {
				penalties[i] += effBalance * finalityDelay / cfg.InactivityPenaltyQuotient
			}
		}
	}

	return rewards, penalties
}

// ProcessRewardsAndPenalties applies AttestationDeltas to every validator's
// balance (all rewards first, then all penalties), skipping genesis (which has no previous epoch to
// reward).
func ProcessRewardsAndPenalties(st *state.BeaconState, process *precompute.EpochProcess) error {
	cfg := params.BeaconConfig()
	if process.CurrentEpoch == cfg.GenesisEpoch {
		return nil
	}

	rewards, penalties := AttestationDeltas(st, process)
	for i := range rewards {
		if err := st.IncreaseBalance(primitives.ValidatorIndex(i), rewards[i]); err != nil {
			return err
		}
	}
	for i := range penalties {
		if err := st.DecreaseBalance(primitives.ValidatorIndex(i), penalties[i]); err != nil {
			return err
		}
	}
	return nil
}
