package epoch

import (
	"testing"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epoch/precompute"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/testing/assert"
	"github.com/prysmaticlabs/beacon-engine/testing/require"
)

func slashingsTestState(t *testing.T, balances []uint64, slashings []uint64) *state.BeaconState {
	t.Helper()
	return state.New(&types.BeaconState{
		Fork:              &types.Fork{},
		LatestBlockHeader: &types.BeaconBlockHeader{},
		BlockRoots:        make([][32]byte, 8),
		StateRoots:        make([][32]byte, 8),
		RandaoMixes:       make([][32]byte, 8),
		Eth1Data:          &types.Eth1Data{},
		Balances:          balances,
		Slashings:         slashings,
	})
}

func TestProcessSlashings_CapsScaleAtTotalActiveStake(t *testing.T) {
	useMinimalConfig(t)
	st := slashingsTestState(t, []uint64{32_000_000_000}, []uint64{40_000_000_000, 0})
	process := &precompute.EpochProcess{
		TotalActiveStake: 100_000_000_000,
		IndicesToSlash:   []primitives.ValidatorIndex{0},
		Statuses: []*precompute.AttesterStatus{
			{EffectiveBalance: 4_000_000_000},
		},
	}

	require.NoError(t, ProcessSlashings(st, process))
	// slashingsSum*3 = 120e9, capped to totalBalance 100e9.
	// penalty = (4e9/1e9 * 100e9) / 100e9 * 1e9 = 4e9.
	assert.Equal(t, uint64(32_000_000_000-4_000_000_000), st.Balances[0])
}

func TestProcessSlashings_UsesUncappedScaleWhenSlashingsSumIsSmall(t *testing.T) {
	useMinimalConfig(t)
	st := slashingsTestState(t, []uint64{32_000_000_000}, []uint64{1_000_000_000})
	process := &precompute.EpochProcess{
		TotalActiveStake: 10_000_000_000,
		IndicesToSlash:   []primitives.ValidatorIndex{0},
		Statuses: []*precompute.AttesterStatus{
			{EffectiveBalance: 4_000_000_000},
		},
	}

	require.NoError(t, ProcessSlashings(st, process))
	// scale = 1e9*3 = 3e9 (under totalBalance 10e9, uncapped).
	// penalty = floor(4e9/1e9 * 3e9 / 10e9) * 1e9 = floor(12e9/10e9)*1e9 = 1e9.
	assert.Equal(t, uint64(32_000_000_000-1_000_000_000), st.Balances[0])
}

func TestProcessSlashings_OnlyPenalizesIndicesToSlash(t *testing.T) {
	useMinimalConfig(t)
	st := slashingsTestState(t, []uint64{32_000_000_000, 32_000_000_000}, []uint64{40_000_000_000})
	process := &precompute.EpochProcess{
		TotalActiveStake: 100_000_000_000,
		IndicesToSlash:   []primitives.ValidatorIndex{0},
		Statuses: []*precompute.AttesterStatus{
			{EffectiveBalance: 4_000_000_000},
			{EffectiveBalance: 4_000_000_000},
		},
	}

	require.NoError(t, ProcessSlashings(st, process))
	assert.True(t, st.Balances[0] < 32_000_000_000, "the slashed validator must be penalized")
	assert.Equal(t, uint64(32_000_000_000), st.Balances[1], "a validator absent from IndicesToSlash must be untouched")
}
