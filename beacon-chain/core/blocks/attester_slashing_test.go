package blocks

import (
	"testing"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/testing/assert"
	"github.com/prysmaticlabs/beacon-engine/testing/require"
)

func attestationData(sourceEpoch, targetEpoch primitives.Epoch, root byte) *types.AttestationData {
	return &types.AttestationData{
		Slot:            0,
		BeaconBlockRoot: [32]byte{root},
		Source:          &types.Checkpoint{Epoch: sourceEpoch},
		Target:          &types.Checkpoint{Epoch: targetEpoch},
	}
}

func TestIsSlashableAttestationData_DoubleVote(t *testing.T) {
	a := attestationData(1, 2, 0xAA)
	b := attestationData(1, 2, 0xBB)
	assert.True(t, IsSlashableAttestationData(a, b), "same target epoch with different data is a double vote")
}

func TestIsSlashableAttestationData_SurroundVote(t *testing.T) {
	outer := attestationData(1, 5, 0x01)
	inner := attestationData(2, 4, 0x01)
	assert.True(t, IsSlashableAttestationData(outer, inner), "outer's span strictly contains inner's")
	assert.True(t, !IsSlashableAttestationData(inner, outer), "surround detection is not symmetric in argument order")
}

func TestIsSlashableAttestationData_NotSlashable(t *testing.T) {
	a := attestationData(1, 2, 0x01)
	b := attestationData(1, 2, 0x01)
	assert.True(t, !IsSlashableAttestationData(a, b), "identical votes are not slashable")

	c := attestationData(3, 4, 0x02)
	assert.True(t, !IsSlashableAttestationData(a, c), "disjoint votes are not slashable")
}

func TestIsValidIndexedAttestation_RejectsEmptyIndices(t *testing.T) {
	st := state.New(&types.BeaconState{})
	ia := &types.IndexedAttestation{
		AttestingIndices: nil,
		Data:             attestationData(1, 2, 0x01),
	}
	assert.True(t, !IsValidIndexedAttestation(&epochctx.Context{}, st, ia))
}

func TestIsValidIndexedAttestation_RejectsUnsortedIndices(t *testing.T) {
	st := state.New(&types.BeaconState{Validators: make([]*types.Validator, 4)})
	for i := range st.Validators {
		st.Validators[i] = &types.Validator{}
	}
	ia := &types.IndexedAttestation{
		AttestingIndices: []primitives.ValidatorIndex{2, 1},
		Data:             attestationData(1, 2, 0x01),
	}
	assert.True(t, !IsValidIndexedAttestation(&epochctx.Context{}, st, ia))
}

func TestIsValidIndexedAttestation_RejectsDuplicateIndices(t *testing.T) {
	st := state.New(&types.BeaconState{Validators: make([]*types.Validator, 4)})
	for i := range st.Validators {
		st.Validators[i] = &types.Validator{}
	}
	ia := &types.IndexedAttestation{
		AttestingIndices: []primitives.ValidatorIndex{1, 1, 2},
		Data:             attestationData(1, 2, 0x01),
	}
	assert.True(t, !IsValidIndexedAttestation(&epochctx.Context{}, st, ia))
}

func TestProcessAttesterSlashing_RejectsNonSlashableData(t *testing.T) {
	st := state.New(&types.BeaconState{})
	as := &types.AttesterSlashing{
		Attestation1: &types.IndexedAttestation{Data: attestationData(1, 2, 0x01)},
		Attestation2: &types.IndexedAttestation{Data: attestationData(1, 2, 0x01)},
	}
	err := ProcessAttesterSlashing(&epochctx.Context{}, st, as)
	require.ErrorContains(t, "not mutually slashable", err)
}
