package blocks

import (
	"github.com/pkg/errors"

	coresigning "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/signing"
	coretime "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/time"
	corevalidators "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/validators"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/crypto/bls"
)

// ProcessProposerSlashing verifies both conflicting signed headers and
// slashes the proposer named in ps if they check out.
func ProcessProposerSlashing(ctx *epochctx.Context, st *state.BeaconState, ps *types.ProposerSlashing) error {
	h1, h2 := ps.Header1, ps.Header2
	if h1.Header.Slot != h2.Header.Slot {
		return errors.New("proposer slashing headers are for different slots")
	}
	if *h1.Header == *h2.Header {
		return errors.New("proposer slashing headers are identical")
	}

	proposer, err := st.ValidatorAtIndex(h1.Header.ProposerIndex)
	if err != nil {
		return err
	}
	if !corevalidators.IsSlashableValidator(proposer, ctx.Current.Epoch) {
		return errors.New("proposer is not slashable")
	}

	cfg := params.BeaconConfig()
	for _, signed := range [2]*types.SignedBeaconBlockHeader{h1, h2} {
		domain, err := coresigning.Domain(st.Fork, coretime.CurrentEpoch(signed.Header.Slot), cfg.DomainBeaconProposer, st.GenesisValidatorsRoot)
		if err != nil {
			return err
		}
		signingRoot, err := coresigning.ComputeSigningRoot(signed.Header, domain)
		if err != nil {
			return err
		}
		if !bls.Verify(proposer.PublicKey[:], signingRoot, signed.Signature[:]) {
			return ErrInvalidSignature
		}
	}

	proposerIndex, err := ctx.GetBeaconProposer(st.Slot)
	if err != nil {
		return err
	}
	return corevalidators.SlashValidator(st, h1.Header.ProposerIndex, 0, false, proposerIndex, uint64(len(ctx.Current.ActiveIndices)))
}
