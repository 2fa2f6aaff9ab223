package blocks

import (
	"sort"

	"github.com/pkg/errors"

	coretime "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/time"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

// indexedAttestationFromCommittee resolves att's aggregation bits against
// committee into the sorted attesting-indices form signature verification
// operates on.
func indexedAttestationFromCommittee(att *types.Attestation, committee []primitives.ValidatorIndex) *types.IndexedAttestation {
	var indices []primitives.ValidatorIndex
	for i, idx := range committee {
		if att.AggregationBits.BitAt(uint64(i)) {
			indices = append(indices, idx)
		}
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	return &types.IndexedAttestation{
		AttestingIndices: indices,
		Data:             att.Data,
		Signature:        att.Signature,
	}
}

// ProcessAttestation validates att against the committee/justification rules
// and records it as a PendingAttestation. The indexed-attestation signature
// is verified before the pending attestation is appended to state, so a bad
// signature simply rejects the block rather than leaving a half-applied
// attestation that a caller must roll back.
func ProcessAttestation(ctx *epochctx.Context, st *state.BeaconState, att *types.Attestation) error {
	cfg := params.BeaconConfig()
	data := att.Data

	committee, err := ctx.GetBeaconCommittee(data.Slot, data.Index)
	if err != nil {
		return errors.Wrap(err, "could not resolve attesting committee")
	}
	if att.AggregationBits.Len() != uint64(len(committee)) {
		return errors.New("aggregation bits length does not match committee size")
	}

	currentEpoch := ctx.Current.Epoch
	previousEpoch := ctx.Previous.Epoch
	if data.Target.Epoch != previousEpoch && data.Target.Epoch != currentEpoch {
		return errors.New("attestation target epoch is not the previous or current epoch")
	}
	if data.Target.Epoch != coretime.CurrentEpoch(data.Slot) {
		return errors.New("attestation target epoch does not match its slot's epoch")
	}
	if !(data.Slot+cfg.MinAttestationInclusionDelay <= st.Slot && st.Slot <= data.Slot+cfg.SlotsPerEpoch) {
		return errors.New("attestation is outside its inclusion window")
	}

	proposerIndex, err := ctx.GetBeaconProposer(st.Slot)
	if err != nil {
		return err
	}
	pending := &types.PendingAttestation{
		Data:            data,
		AggregationBits: att.AggregationBits,
		InclusionDelay:  st.Slot - data.Slot,
		ProposerIndex:   proposerIndex,
	}

	var targetsCurrentEpoch bool
	if data.Target.Epoch == currentEpoch {
		if !data.Source.Equal(st.CurrentJustifiedCheckpoint) {
			return errors.New("attestation source does not match the current justified checkpoint")
		}
		targetsCurrentEpoch = true
	} else {
		if !data.Source.Equal(st.PreviousJustifiedCheckpoint) {
			return errors.New("attestation source does not match the previous justified checkpoint")
		}
	}

	indexedAtt := indexedAttestationFromCommittee(att, committee)
	if !IsValidIndexedAttestation(ctx, st, indexedAtt) {
		return ErrInvalidSignature
	}

	if targetsCurrentEpoch {
		st.CurrentEpochAttestations = append(st.CurrentEpochAttestations, pending)
	} else {
		st.PreviousEpochAttestations = append(st.PreviousEpochAttestations, pending)
	}
	return nil
}
