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

func header(slot primitives.Slot, proposerIndex primitives.ValidatorIndex, parentRoot byte) *types.SignedBeaconBlockHeader {
	return &types.SignedBeaconBlockHeader{
		Header: &types.BeaconBlockHeader{
			Slot:          slot,
			ProposerIndex: proposerIndex,
			ParentRoot:    [32]byte{parentRoot},
		},
	}
}

func TestProcessProposerSlashing_RejectsDifferentSlots(t *testing.T) {
	ps := &types.ProposerSlashing{Header1: header(1, 0, 1), Header2: header(2, 0, 2)}
	st := state.New(&types.BeaconState{Validators: []*types.Validator{{}}})
	ec := &epochctx.Context{}

	err := ProcessProposerSlashing(ec, st, ps)
	require.ErrorContains(t, "different slots", err)
}

func TestProcessProposerSlashing_RejectsIdenticalHeaders(t *testing.T) {
	h := header(1, 0, 1)
	ps := &types.ProposerSlashing{Header1: h, Header2: h}
	st := state.New(&types.BeaconState{Validators: []*types.Validator{{}}})
	ec := &epochctx.Context{}

	err := ProcessProposerSlashing(ec, st, ps)
	require.ErrorContains(t, "identical", err)
}

func TestProcessProposerSlashing_RejectsAlreadySlashedProposer(t *testing.T) {
	cfg := params.BeaconConfig()
	ps := &types.ProposerSlashing{Header1: header(1, 0, 1), Header2: header(1, 0, 2)}
	st := state.New(&types.BeaconState{
		Validators: []*types.Validator{{Slashed: true, ExitEpoch: cfg.FarFutureEpoch, WithdrawableEpoch: cfg.FarFutureEpoch}},
	})
	ec := &epochctx.Context{Current: &epochctx.ShufflingEpoch{Epoch: 0}}

	err := ProcessProposerSlashing(ec, st, ps)
	require.ErrorContains(t, "not slashable", err)
}
