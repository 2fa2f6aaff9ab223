// Package precompute builds EpochProcess: a single-pass summary of every
// validator's attestation participation and eligibility for the epoch
// about to transition, so the five epoch-transition stages (package epoch)
// each read flags and stake sums instead of re-scanning the state. This is
// the engine's C5 component.
package precompute

import (
	"github.com/pkg/errors"
	"sort"

	coretime "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/time"
	corevalidators "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/validators"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

// Attestation participation bit flags, one per (epoch, vote-component)
// pair, plus the two bookkeeping flags (unslashed, eligible) every reward
// computation gates on.
const (
	FlagPrevSourceAttester uint8 = 1 << iota
	FlagPrevTargetAttester
	FlagPrevHeadAttester
	FlagCurrSourceAttester
	FlagCurrTargetAttester
	FlagCurrHeadAttester
	FlagUnslashed
	FlagEligibleAttester
)

// HasMarkers reports whether flags carries every bit set in markers.
func HasMarkers(flags uint8, markers uint8) bool {
	return flags&markers == markers
}

// AttesterStatus tracks one validator's participation and flattened
// registry fields for the epoch being processed.
type AttesterStatus struct {
	Flags             uint8
	ProposerIndex     primitives.ValidatorIndex
	HasProposerIndex  bool
	InclusionDelay    primitives.Slot
	EffectiveBalance  primitives.Gwei
	Slashed           bool
	ActivationEpoch   primitives.Epoch
	ExitEpoch         primitives.Epoch
	WithdrawableEpoch primitives.Epoch
	ActivationEligibilityEpoch primitives.Epoch
	Active            bool
}

// EpochStakeSummary totals the effective balance of validators that voted
// correctly for each of the three FFG/LMD vote components.
type EpochStakeSummary struct {
	SourceStake primitives.Gwei
	TargetStake primitives.Gwei
	HeadStake   primitives.Gwei
}

// EpochProcess is the full precomputed summary process_epoch's five
// remaining stages consume.
type EpochProcess struct {
	PrevEpoch                  primitives.Epoch
	CurrentEpoch                primitives.Epoch
	Statuses                    []*AttesterStatus
	TotalActiveStake             primitives.Gwei
	TotalActiveUnslashedStake    primitives.Gwei
	PrevEpochStake               EpochStakeSummary
	CurrEpochStake               EpochStakeSummary
	ActiveValidators              uint64
	IndicesToSlash                []primitives.ValidatorIndex
	IndicesToSetActivationEligibility []primitives.ValidatorIndex
	IndicesToMaybeActivate        []primitives.ValidatorIndex
	IndicesToEject                 []primitives.ValidatorIndex
	ExitQueueEnd                   primitives.Epoch
	ExitQueueEndChurn               uint64
	ChurnLimit                      uint64
}

// New builds the EpochProcess for st, using ctx's already-rotated
// previous/current shufflings to resolve committees for every recorded
// attestation without re-deriving the seed or re-shuffling anything.
func New(ctx *epochctx.Context, st *state.BeaconState) (*EpochProcess, error) {
	cfg := params.BeaconConfig()
	out := &EpochProcess{
		CurrentEpoch: ctx.Current.Epoch,
		PrevEpoch:    ctx.Previous.Epoch,
	}

	withdrawableEpoch := out.CurrentEpoch + cfg.EpochsPerSlashingsVector/2
	exitQueueEnd := coretime.ActivationExitEpoch(out.CurrentEpoch)

	var totalActiveStake, totalActiveUnslashedStake uint64
	var activeCount uint64

	out.Statuses = make([]*AttesterStatus, st.NumValidators())
	it := st.ValidatorIterator()
	for {
		v, idx, ok := it.Next()
		if !ok {
			break
		}
		status := &AttesterStatus{
			EffectiveBalance:           v.EffectiveBalance,
			Slashed:                    v.Slashed,
			ActivationEpoch:            v.ActivationEpoch,
			ExitEpoch:                  v.ExitEpoch,
			WithdrawableEpoch:          v.WithdrawableEpoch,
			ActivationEligibilityEpoch: v.ActivationEligibilityEpoch,
		}

		if v.Slashed {
			if withdrawableEpoch == v.WithdrawableEpoch {
				out.IndicesToSlash = append(out.IndicesToSlash, idx)
			}
		} else {
			status.Flags |= FlagUnslashed
		}

		if corevalidators.IsActiveValidator(v, out.PrevEpoch) || (v.Slashed && out.PrevEpoch+1 < v.WithdrawableEpoch) {
			status.Flags |= FlagEligibleAttester
		}

		if corevalidators.IsActiveValidator(v, out.CurrentEpoch) {
			status.Active = true
			totalActiveStake += uint64(v.EffectiveBalance)
			activeCount++
			if !v.Slashed {
				totalActiveUnslashedStake += uint64(v.EffectiveBalance)
			}
		}

		if v.ExitEpoch != cfg.FarFutureEpoch && v.ExitEpoch > exitQueueEnd {
			exitQueueEnd = v.ExitEpoch
		}

		if v.ActivationEligibilityEpoch == cfg.FarFutureEpoch && v.EffectiveBalance == primitives.Gwei(cfg.MaxEffectiveBalance) {
			out.IndicesToSetActivationEligibility = append(out.IndicesToSetActivationEligibility, idx)
		}

		if v.ActivationEpoch == cfg.FarFutureEpoch && v.ActivationEligibilityEpoch <= out.CurrentEpoch {
			out.IndicesToMaybeActivate = append(out.IndicesToMaybeActivate, idx)
		}

		if status.Active && v.EffectiveBalance <= primitives.Gwei(cfg.EjectionBalance) && v.ExitEpoch == cfg.FarFutureEpoch {
			out.IndicesToEject = append(out.IndicesToEject, idx)
		}

		out.Statuses[idx] = status
	}

	out.TotalActiveStake = primitives.Gwei(totalActiveStake)
	out.TotalActiveUnslashedStake = primitives.Gwei(totalActiveUnslashedStake)
	out.ActiveValidators = activeCount
	if uint64(out.TotalActiveStake) < cfg.EffectiveBalanceIncrement {
		out.TotalActiveStake = primitives.Gwei(cfg.EffectiveBalanceIncrement)
	}

	sort.Slice(out.IndicesToMaybeActivate, func(i, j int) bool {
		a, b := out.IndicesToMaybeActivate[i], out.IndicesToMaybeActivate[j]
		ae, be := out.Statuses[a].ActivationEligibilityEpoch, out.Statuses[b].ActivationEligibilityEpoch
		if ae != be {
			return ae < be
		}
		return a < b
	})

	var exitQueueEndChurn uint64
	for _, status := range out.Statuses {
		if status.ExitEpoch == exitQueueEnd {
			exitQueueEndChurn++
		}
	}
	churnLimit := uint64(corevalidators.ChurnLimit(activeCount))
	if exitQueueEndChurn >= churnLimit {
		exitQueueEnd++
		exitQueueEndChurn = 0
	}
	out.ExitQueueEndChurn = exitQueueEndChurn
	out.ExitQueueEnd = exitQueueEnd
	out.ChurnLimit = churnLimit

	if err := statusProcessEpoch(ctx, st, out, st.PreviousEpochAttestations, &out.PrevEpochStake, out.PrevEpoch,
		FlagPrevSourceAttester, FlagPrevTargetAttester, FlagPrevHeadAttester); err != nil {
		return nil, errors.Wrap(err, "could not process previous epoch attestations")
	}
	if err := statusProcessEpoch(ctx, st, out, st.CurrentEpochAttestations, &out.CurrEpochStake, out.CurrentEpoch,
		FlagCurrSourceAttester, FlagCurrTargetAttester, FlagCurrHeadAttester); err != nil {
		return nil, errors.Wrap(err, "could not process current epoch attestations")
	}

	return out, nil
}

func statusProcessEpoch(
	ctx *epochctx.Context,
	st *state.BeaconState,
	out *EpochProcess,
	attestations []*types.PendingAttestation,
	stakeSummary *EpochStakeSummary,
	epoch primitives.Epoch,
	sourceFlag, targetFlag, headFlag uint8,
) error {
	actualTargetRoot, err := blockRootAtSlot(st, coretime.StartSlot(epoch))
	if err != nil {
		return err
	}

	var sourceStake, targetStake, headStake uint64
	for _, att := range attestations {
		votedTargetRoot := att.Data.Target.Root == actualTargetRoot
		actualHeadRoot, err := blockRootAtSlot(st, att.Data.Slot)
		if err != nil {
			return err
		}
		votedHeadRoot := att.Data.BeaconBlockRoot == actualHeadRoot

		committee, err := ctx.GetBeaconCommittee(att.Data.Slot, att.Data.Index)
		if err != nil {
			return err
		}

		for i, idx := range committee {
			if !att.AggregationBits.BitAt(uint64(i)) {
				continue
			}
			status := out.Statuses[idx]

			if epoch == out.PrevEpoch {
				if !status.HasProposerIndex || status.InclusionDelay > att.InclusionDelay {
					status.ProposerIndex = att.ProposerIndex
					status.HasProposerIndex = true
					status.InclusionDelay = att.InclusionDelay
				}
			}

			status.Flags |= sourceFlag
			sourceStake += uint64(status.EffectiveBalance)

			if votedTargetRoot {
				status.Flags |= targetFlag
				targetStake += uint64(status.EffectiveBalance)
			}
			if votedHeadRoot {
				status.Flags |= headFlag
				headStake += uint64(status.EffectiveBalance)
			}
		}
	}

	stakeSummary.SourceStake = primitives.Gwei(sourceStake)
	stakeSummary.TargetStake = primitives.Gwei(targetStake)
	stakeSummary.HeadStake = primitives.Gwei(headStake)
	return nil
}

// blockRootAtSlot returns the recorded block root for slot, which must fall
// within the live SLOTS_PER_HISTORICAL_ROOT window.
func blockRootAtSlot(st *state.BeaconState, slot primitives.Slot) ([32]byte, error) {
	return BlockRootAtSlot(st, slot)
}

// BlockRootAtSlot returns the recorded block root for slot, which must fall
// within the live SLOTS_PER_HISTORICAL_ROOT window. Exported so the epoch
// package's justification/finalization stage can resolve checkpoint roots
// without duplicating the bounds check.
func BlockRootAtSlot(st *state.BeaconState, slot primitives.Slot) ([32]byte, error) {
	cfg := params.BeaconConfig()
	if !(slot < st.Slot && st.Slot <= slot+cfg.SlotsPerHistoricalRoot) {
		return [32]byte{}, errors.Errorf("slot %d outside the live block_roots window for state slot %d", slot, st.Slot)
	}
	return st.BlockRoots[uint64(slot)%uint64(cfg.SlotsPerHistoricalRoot)], nil
}

// BlockRootAtEpochStart returns the block root recorded at the first slot
// of epoch.
func BlockRootAtEpochStart(st *state.BeaconState, epoch primitives.Epoch) ([32]byte, error) {
	return BlockRootAtSlot(st, coretime.StartSlot(epoch))
}
