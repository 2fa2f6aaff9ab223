package precompute

import (
	"testing"

	"github.com/prysmaticlabs/go-bitfield"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/testing/assert"
	"github.com/prysmaticlabs/beacon-engine/testing/require"
)

func useMinimalConfig(t *testing.T) {
	params.OverrideBeaconConfig(params.MinimalConfig())
	t.Cleanup(func() { params.OverrideBeaconConfig(params.MainnetConfig()) })
}

// precomputeTestFixture builds a state parked one slot past the start of
// epoch 1, so both the previous epoch (0) and current epoch (1) start slots
// fall inside the live block_roots window and can be independently recorded.
func precomputeTestFixture(t *testing.T, numValidators int) (*state.BeaconState, *epochctx.Context) {
	t.Helper()
	cfg := params.BeaconConfig()

	validators := make([]*types.Validator, numValidators)
	balances := make([]uint64, numValidators)
	for i := range validators {
		validators[i] = &types.Validator{
			PublicKey:         [48]byte{byte(i), byte(i >> 8)},
			EffectiveBalance:  primitives.Gwei(cfg.MaxEffectiveBalance),
			ActivationEpoch:   0,
			ExitEpoch:         cfg.FarFutureEpoch,
			WithdrawableEpoch: cfg.FarFutureEpoch,
		}
		balances[i] = cfg.MaxEffectiveBalance
	}
	randaoMixes := make([][32]byte, cfg.EpochsPerHistoricalVector)
	for i := range randaoMixes {
		randaoMixes[i] = [32]byte{byte(i), 0xEE}
	}
	blockRoots := make([][32]byte, cfg.SlotsPerHistoricalRoot)
	blockRoots[0] = [32]byte{0xAA}
	blockRoots[uint64(cfg.SlotsPerEpoch)] = [32]byte{0xBB}

	st := state.New(&types.BeaconState{
		Fork:              &types.Fork{},
		LatestBlockHeader: &types.BeaconBlockHeader{},
		BlockRoots:        blockRoots,
		StateRoots:        make([][32]byte, cfg.SlotsPerHistoricalRoot),
		Validators:        validators,
		Balances:          balances,
		RandaoMixes:       randaoMixes,
		Slashings:         make([]uint64, cfg.EpochsPerSlashingsVector),
		Eth1Data:          &types.Eth1Data{},
	})
	st.SetSlot(cfg.SlotsPerEpoch + 1)

	ec, err := epochctx.New(st)
	require.NoError(t, err)
	return st, ec
}

func TestNew_MarksSourceTargetHeadFlagsForVotingCommitteeMember(t *testing.T) {
	useMinimalConfig(t)
	st, ec := precomputeTestFixture(t, 64)
	cfg := params.BeaconConfig()

	committee, err := ec.GetBeaconCommittee(0, 0)
	require.NoError(t, err)
	voter := committee[0]

	bits := bitfield.NewBitlist(uint64(len(committee)))
	bits.SetBitAt(0, true)
	st.PreviousEpochAttestations = []*types.PendingAttestation{
		{
			AggregationBits: bits,
			Data: &types.AttestationData{
				Slot:            0,
				Index:           0,
				BeaconBlockRoot: [32]byte{0xAA},
				Source:          &types.Checkpoint{},
				Target:          &types.Checkpoint{Epoch: 0, Root: [32]byte{0xAA}},
			},
			InclusionDelay: cfg.MinAttestationInclusionDelay,
			ProposerIndex:  committee[len(committee)-1],
		},
	}

	out, err := New(ec, st)
	require.NoError(t, err)

	status := out.Statuses[voter]
	assert.True(t, HasMarkers(status.Flags, FlagPrevSourceAttester), "voting committee member must be marked as a source attester")
	assert.True(t, HasMarkers(status.Flags, FlagPrevTargetAttester), "a matching target root must mark the target flag")
	assert.True(t, HasMarkers(status.Flags, FlagPrevHeadAttester), "a matching head root must mark the head flag")
	assert.True(t, HasMarkers(status.Flags, FlagUnslashed|FlagEligibleAttester), "an unslashed active validator must be eligible and unslashed")

	balance := uint64(status.EffectiveBalance)
	assert.Equal(t, balance, uint64(out.PrevEpochStake.SourceStake))
	assert.Equal(t, balance, uint64(out.PrevEpochStake.TargetStake))
	assert.Equal(t, balance, uint64(out.PrevEpochStake.HeadStake))

	assert.True(t, status.HasProposerIndex, "the earliest-observed inclusion delay must record a proposer index")
	assert.Equal(t, committee[len(committee)-1], status.ProposerIndex)

	nonVoter := committee[1]
	assert.Equal(t, uint8(0), out.Statuses[nonVoter].Flags&FlagPrevSourceAttester, "a non-voting committee member must not be marked as an attester")
}

func TestNew_DoesNotMarkTargetOrHeadOnMismatchedRoots(t *testing.T) {
	useMinimalConfig(t)
	st, ec := precomputeTestFixture(t, 64)
	cfg := params.BeaconConfig()

	committee, err := ec.GetBeaconCommittee(0, 0)
	require.NoError(t, err)

	bits := bitfield.NewBitlist(uint64(len(committee)))
	bits.SetBitAt(0, true)
	st.PreviousEpochAttestations = []*types.PendingAttestation{
		{
			AggregationBits: bits,
			Data: &types.AttestationData{
				Slot:            0,
				Index:           0,
				BeaconBlockRoot: [32]byte{0xFF},
				Source:          &types.Checkpoint{},
				Target:          &types.Checkpoint{Epoch: 0, Root: [32]byte{0xFF}},
			},
			InclusionDelay: cfg.MinAttestationInclusionDelay,
			ProposerIndex:  committee[0],
		},
	}

	out, err := New(ec, st)
	require.NoError(t, err)

	status := out.Statuses[committee[0]]
	assert.True(t, HasMarkers(status.Flags, FlagPrevSourceAttester), "a source vote is unconditional on committee inclusion")
	assert.True(t, status.Flags&FlagPrevTargetAttester == 0, "a wrong target root must not mark the target flag")
	assert.True(t, status.Flags&FlagPrevHeadAttester == 0, "a wrong head root must not mark the head flag")
	assert.Equal(t, uint64(0), uint64(out.PrevEpochStake.TargetStake))
}

func TestNew_PopulatesActivationAndEjectionCandidateLists(t *testing.T) {
	useMinimalConfig(t)
	st, ec := precomputeTestFixture(t, 8)
	cfg := params.BeaconConfig()

	v0, err := st.ValidatorAtIndex(0)
	require.NoError(t, err)
	v1, err := st.ValidatorAtIndex(1)
	require.NoError(t, err)
	v2, err := st.ValidatorAtIndex(2)
	require.NoError(t, err)

	// idx 0: eligible for activation queueing this epoch.
	v0.ActivationEligibilityEpoch = cfg.FarFutureEpoch
	// idx 1: queued, ready to be moved into the active set.
	v1.ActivationEpoch = cfg.FarFutureEpoch
	v1.ActivationEligibilityEpoch = 0
	// idx 2: active but under the ejection threshold.
	v2.EffectiveBalance = primitives.Gwei(cfg.EjectionBalance)

	out, err := New(ec, st)
	require.NoError(t, err)

	assert.Equal(t, []primitives.ValidatorIndex{0}, out.IndicesToSetActivationEligibility)
	assert.Equal(t, []primitives.ValidatorIndex{1}, out.IndicesToMaybeActivate)
	assert.Equal(t, []primitives.ValidatorIndex{2}, out.IndicesToEject)
	assert.Equal(t, 0, len(out.IndicesToSlash), "no validator in this fixture is slashed")
}

func TestNew_TotalsActiveStakeAcrossUnslashedValidators(t *testing.T) {
	useMinimalConfig(t)
	st, ec := precomputeTestFixture(t, 8)
	cfg := params.BeaconConfig()

	v0, err := st.ValidatorAtIndex(0)
	require.NoError(t, err)
	v0.Slashed = true
	v0.WithdrawableEpoch = ec.Current.Epoch + cfg.EpochsPerSlashingsVector/2

	out, err := New(ec, st)
	require.NoError(t, err)

	assert.Equal(t, uint64(8), out.ActiveValidators, "a slashed-but-still-active validator still counts toward the active set")
	assert.Equal(t, uint64(8)*cfg.MaxEffectiveBalance, uint64(out.TotalActiveStake))
	assert.Equal(t, uint64(7)*cfg.MaxEffectiveBalance, uint64(out.TotalActiveUnslashedStake), "a slashed validator's balance must be excluded from the unslashed total")
	assert.Equal(t, []primitives.ValidatorIndex{0}, out.IndicesToSlash)
}

func TestBlockRootAtSlot_RejectsOutsideLiveWindow(t *testing.T) {
	useMinimalConfig(t)
	st, _ := precomputeTestFixture(t, 8)

	_, err := BlockRootAtSlot(st, st.Slot)
	require.ErrorContains(t, "outside the live block_roots window", err)
}

func TestBlockRootAtEpochStart_ResolvesRecordedRoot(t *testing.T) {
	useMinimalConfig(t)
	st, _ := precomputeTestFixture(t, 8)

	root, err := BlockRootAtEpochStart(st, 0)
	require.NoError(t, err)
	assert.Equal(t, [32]byte{0xAA}, root)
}
