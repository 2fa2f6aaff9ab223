package blocks

import (
	"github.com/pkg/errors"

	coresigning "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/signing"
	corevalidators "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/validators"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/crypto/bls"
)

// ProcessVoluntaryExit verifies sve's signature and eligibility, then begins
// the named validator's exit.
func ProcessVoluntaryExit(ctx *epochctx.Context, st *state.BeaconState, sve *types.SignedVoluntaryExit) error {
	exit := sve.Exit
	v, err := st.ValidatorAtIndex(exit.ValidatorIndex)
	if err != nil {
		return err
	}

	currentEpoch := ctx.Current.Epoch
	if !corevalidators.IsActiveValidator(v, currentEpoch) {
		return errors.New("validator is not active")
	}
	if v.ExitEpoch != params.BeaconConfig().FarFutureEpoch {
		return errors.New("validator has already initiated exit")
	}
	if currentEpoch < exit.Epoch {
		return errors.New("voluntary exit is not yet eligible")
	}
	cfg := params.BeaconConfig()
	if currentEpoch < v.ActivationEpoch+cfg.PersistentCommitteePeriod {
		return errors.New("validator has not served the persistent committee period")
	}

	domain, err := coresigning.Domain(st.Fork, exit.Epoch, cfg.DomainVoluntaryExit, st.GenesisValidatorsRoot)
	if err != nil {
		return err
	}
	signingRoot, err := coresigning.ComputeSigningRoot(exit, domain)
	if err != nil {
		return err
	}
	if !bls.Verify(v.PublicKey[:], signingRoot, sve.Signature[:]) {
		return ErrInvalidSignature
	}

	return corevalidators.InitiateValidatorExit(st, exit.ValidatorIndex, uint64(len(ctx.Current.ActiveIndices)))
}
