package blocks

import (
	"testing"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/testing/require"
)

func exitTestState(v *types.Validator, currentEpoch primitives.Epoch) (*state.BeaconState, *epochctx.Context) {
	st := state.New(&types.BeaconState{
		Fork:       &types.Fork{},
		Validators: []*types.Validator{v},
	})
	ec := &epochctx.Context{
		Current: &epochctx.ShufflingEpoch{
			Epoch:         currentEpoch,
			ActiveIndices: []primitives.ValidatorIndex{0},
		},
	}
	return st, ec
}

func TestProcessVoluntaryExit_RejectsInactiveValidator(t *testing.T) {
	cfg := params.BeaconConfig()
	v := &types.Validator{ActivationEpoch: 10, ExitEpoch: cfg.FarFutureEpoch}
	st, ec := exitTestState(v, 1)

	sve := &types.SignedVoluntaryExit{Exit: &types.VoluntaryExit{ValidatorIndex: 0, Epoch: 0}}
	err := ProcessVoluntaryExit(ec, st, sve)
	require.ErrorContains(t, "not active", err)
}

func TestProcessVoluntaryExit_RejectsAlreadyExiting(t *testing.T) {
	v := &types.Validator{ActivationEpoch: 0, ExitEpoch: 20}
	st, ec := exitTestState(v, 5)

	sve := &types.SignedVoluntaryExit{Exit: &types.VoluntaryExit{ValidatorIndex: 0, Epoch: 0}}
	err := ProcessVoluntaryExit(ec, st, sve)
	require.ErrorContains(t, "already initiated", err)
}

func TestProcessVoluntaryExit_RejectsNotYetEligible(t *testing.T) {
	cfg := params.BeaconConfig()
	v := &types.Validator{ActivationEpoch: 0, ExitEpoch: cfg.FarFutureEpoch}
	st, ec := exitTestState(v, 1)

	sve := &types.SignedVoluntaryExit{Exit: &types.VoluntaryExit{ValidatorIndex: 0, Epoch: 5}}
	err := ProcessVoluntaryExit(ec, st, sve)
	require.ErrorContains(t, "not yet eligible", err)
}

func TestProcessVoluntaryExit_RejectsBeforePersistentCommitteePeriod(t *testing.T) {
	cfg := params.BeaconConfig()
	v := &types.Validator{ActivationEpoch: 5, ExitEpoch: cfg.FarFutureEpoch}
	st, ec := exitTestState(v, 10)

	sve := &types.SignedVoluntaryExit{Exit: &types.VoluntaryExit{ValidatorIndex: 0, Epoch: 5}}
	err := ProcessVoluntaryExit(ec, st, sve)
	require.ErrorContains(t, "persistent committee period", err)
}
