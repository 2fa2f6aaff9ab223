// Package time converts between slots and epochs, the handful of pure
// arithmetic helpers every other core package calls into.
package time

import (
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
)

// CurrentEpoch returns the epoch containing slot.
func CurrentEpoch(slot primitives.Slot) primitives.Epoch {
	return primitives.Epoch(uint64(slot) / uint64(params.BeaconConfig().SlotsPerEpoch))
}

// StartSlot returns the first slot of epoch. Returns an error via the
// FarFutureEpoch sentinel pattern is unnecessary here: overflow is not
// reachable for any epoch produced by CurrentEpoch on a real slot.
func StartSlot(epoch primitives.Epoch) primitives.Slot {
	return primitives.Slot(uint64(epoch) * uint64(params.BeaconConfig().SlotsPerEpoch))
}

// ActivationExitEpoch returns the epoch at or after epoch at which a
// validator activated/exited that epoch can actually take effect, delayed
// by MAX_SEED_LOOKAHEAD so committees can be computed ahead of time.
func ActivationExitEpoch(epoch primitives.Epoch) primitives.Epoch {
	return epoch + 1 + params.BeaconConfig().MaxSeedLookahead
}

// PrevEpoch returns the epoch before the given one, or GENESIS_EPOCH itself
// if already at genesis (epochs cannot go negative).
func PrevEpoch(epoch primitives.Epoch) primitives.Epoch {
	genesis := params.BeaconConfig().GenesisEpoch
	if epoch == genesis {
		return genesis
	}
	return epoch - 1
}
