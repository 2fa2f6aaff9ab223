package stateutils

import (
	"testing"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/testing/assert"
)

func TestBuildPublicKeyToIndex_MapsEveryValidator(t *testing.T) {
	st := state.New(&types.BeaconState{
		Validators: []*types.Validator{
			{PublicKey: [48]byte{1}},
			{PublicKey: [48]byte{2}},
			{PublicKey: [48]byte{3}},
		},
	})

	m := BuildPublicKeyToIndex(st)
	assert.Equal(t, 3, len(m))
	assert.Equal(t, primitives.ValidatorIndex(0), m[[48]byte{1}])
	assert.Equal(t, primitives.ValidatorIndex(2), m[[48]byte{3}])
}

func TestExtend_OnlyAddsValidatorsFromIndexOnward(t *testing.T) {
	st := state.New(&types.BeaconState{
		Validators: []*types.Validator{{PublicKey: [48]byte{1}}},
	})
	m := BuildPublicKeyToIndex(st)

	st.AppendValidator(&types.Validator{PublicKey: [48]byte{2}}, 0)
	st.AppendValidator(&types.Validator{PublicKey: [48]byte{3}}, 0)
	m.Extend(st, 1)

	assert.Equal(t, 3, len(m))
	assert.Equal(t, primitives.ValidatorIndex(1), m[[48]byte{2}])
	assert.Equal(t, primitives.ValidatorIndex(2), m[[48]byte{3}])
}

func TestCopy_ProducesIndependentMap(t *testing.T) {
	m := PublicKeyToIndex{[48]byte{1}: 0}
	cp := m.Copy()
	cp[[48]byte{2}] = 1

	assert.Equal(t, 1, len(m))
	assert.Equal(t, 2, len(cp))
}
