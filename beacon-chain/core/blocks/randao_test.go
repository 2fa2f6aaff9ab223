package blocks

import (
	"testing"

	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/testing/assert"
	"github.com/prysmaticlabs/beacon-engine/testing/require"
)

// ProcessRandao's only independently-verifiable path in this module is
// rejection: crypto/bls exposes no signing helper, so a genuinely valid
// RANDAO reveal can't be constructed here (see DESIGN.md's Tests section).

func TestProcessRandao_RejectsMalformedReveal(t *testing.T) {
	st, ec := headerTestFixture(t, 64)
	body := &types.BeaconBlockBody{Eth1Data: &types.Eth1Data{}}

	err := ProcessRandao(ec, st, body)
	require.ErrorContains(t, ErrInvalidSignature.Error(), err)
}

func TestProcessRandao_DoesNotMixInRandaoOnRejectedReveal(t *testing.T) {
	st, ec := headerTestFixture(t, 64)
	mixIndex := uint64(ec.Current.Epoch) % uint64(64)
	before := st.RandaoMixes[mixIndex]
	body := &types.BeaconBlockBody{Eth1Data: &types.Eth1Data{}}

	err := ProcessRandao(ec, st, body)
	require.ErrorContains(t, ErrInvalidSignature.Error(), err)
	assert.Equal(t, before, st.RandaoMixes[mixIndex], "a rejected reveal must never reach the mix-in step")
}
