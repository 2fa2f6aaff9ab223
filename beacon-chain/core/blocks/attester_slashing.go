package blocks

import (
	"sort"

	"github.com/pkg/errors"

	coresigning "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/signing"
	corevalidators "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/validators"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/crypto/bls"
)

// IsSlashableAttestationData reports whether a and b constitute a Casper
// FFG double vote (same target epoch, different data) or surround vote
// (a's span strictly contains b's).
func IsSlashableAttestationData(a, b *types.AttestationData) bool {
	doubleVote := !a.Equal(b) && a.Target.Epoch == b.Target.Epoch
	surroundVote := a.Source.Epoch < b.Source.Epoch && b.Target.Epoch < a.Target.Epoch
	return doubleVote || surroundVote
}

// IsValidIndexedAttestation verifies ia's attesting_indices are sorted,
// unique, within the committee-size bound, and that the aggregate
// signature over ia.Data checks out against those indices' pubkeys.
func IsValidIndexedAttestation(ctx *epochctx.Context, st *state.BeaconState, ia *types.IndexedAttestation) bool {
	indices := ia.AttestingIndices
	if len(indices) == 0 || uint64(len(indices)) > params.BeaconConfig().MaxValidatorsPerCommittee {
		return false
	}
	if !sort.SliceIsSorted(indices, func(i, j int) bool { return indices[i] < indices[j] }) {
		return false
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] == indices[i-1] {
			return false
		}
	}

	pubkeys := make([][]byte, len(indices))
	for i, idx := range indices {
		v, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return false
		}
		pk := v.PublicKey
		pubkeys[i] = pk[:]
	}

	domain, err := coresigning.Domain(st.Fork, ia.Data.Target.Epoch, params.BeaconConfig().DomainBeaconAttester, st.GenesisValidatorsRoot)
	if err != nil {
		return false
	}
	signingRoot, err := coresigning.ComputeSigningRoot(ia.Data, domain)
	if err != nil {
		return false
	}
	return bls.FastAggregateVerify(pubkeys, signingRoot, ia.Signature[:])
}

// ProcessAttesterSlashing verifies as's two indexed attestations are
// mutually slashable and valid, then slashes every validator index they
// share that is still slashable.
func ProcessAttesterSlashing(ctx *epochctx.Context, st *state.BeaconState, as *types.AttesterSlashing) error {
	a1, a2 := as.Attestation1, as.Attestation2
	if !IsSlashableAttestationData(a1.Data, a2.Data) {
		return errors.New("attestations are not mutually slashable")
	}
	if !IsValidIndexedAttestation(ctx, st, a1) {
		return errors.New("attestation 1 is not a valid indexed attestation")
	}
	if !IsValidIndexedAttestation(ctx, st, a2) {
		return errors.New("attestation 2 is not a valid indexed attestation")
	}

	set1 := make(map[primitives.ValidatorIndex]struct{}, len(a1.AttestingIndices))
	for _, idx := range a1.AttestingIndices {
		set1[idx] = struct{}{}
	}
	var shared []primitives.ValidatorIndex
	for _, idx := range a2.AttestingIndices {
		if _, ok := set1[idx]; ok {
			shared = append(shared, idx)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })

	proposerIndex, err := ctx.GetBeaconProposer(st.Slot)
	if err != nil {
		return err
	}
	activeCount := uint64(len(ctx.Current.ActiveIndices))

	var slashedAny bool
	for _, idx := range shared {
		v, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return err
		}
		if corevalidators.IsSlashableValidator(v, ctx.Current.Epoch) {
			if err := corevalidators.SlashValidator(st, idx, 0, false, proposerIndex, activeCount); err != nil {
				return err
			}
			slashedAny = true
		}
	}
	if !slashedAny {
		return errors.New("attester slashing did not slash any validator")
	}
	return nil
}
