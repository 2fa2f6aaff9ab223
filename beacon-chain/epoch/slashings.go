package epoch

import (
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epoch/precompute"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	enginemath "github.com/prysmaticlabs/beacon-engine/math"
)

// ProcessSlashings applies the correlation penalty to every validator
// flagged slashed-this-epoch in process, proportional to the total amount
// slashed across the slashings vector.
func ProcessSlashings(st *state.BeaconState, process *precompute.EpochProcess) error {
	cfg := params.BeaconConfig()
	totalBalance := uint64(process.TotalActiveStake)

	var slashingsSum uint64
	for _, s := range st.Slashings {
		slashingsSum += s
	}
	scale := slashingsSum * 3
	if scale > totalBalance {
		scale = totalBalance
	}

	increment := cfg.EffectiveBalanceIncrement
	for _, index := range process.IndicesToSlash {
		effectiveBalance := uint64(process.Statuses[index].EffectiveBalance)
		penaltyNumerator := effectiveBalance / increment * scale
		penalty := enginemath.Div64WithRoundDown(penaltyNumerator, totalBalance) * increment
		if err := st.DecreaseBalance(index, penalty); err != nil {
			return err
		}
	}
	return nil
}
