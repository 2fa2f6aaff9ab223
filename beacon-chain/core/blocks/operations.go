package blocks

import (
	"github.com/pkg/errors"

	coresigning "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/signing"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/crypto/bls"
)

// ProcessOperations validates the deposit count a block must carry and then
// runs the five operation lists in the order fastspec.py applies them:
// proposer slashings, attester slashings, attestations, deposits, voluntary
// exits.
func ProcessOperations(ctx *epochctx.Context, st *state.BeaconState, body *types.BeaconBlockBody) error {
	cfg := params.BeaconConfig()
	outstanding := cfg.MaxDeposits
	if remaining := st.Eth1Data.DepositCount - st.Eth1DepositIndex; remaining < outstanding {
		outstanding = remaining
	}
	if uint64(len(body.Deposits)) != outstanding {
		return ErrInvalidDepositCount
	}

	for _, ps := range body.ProposerSlashings {
		if err := ProcessProposerSlashing(ctx, st, ps); err != nil {
			return errors.Wrap(err, "could not process proposer slashing")
		}
	}
	for _, as := range body.AttesterSlashings {
		if err := ProcessAttesterSlashing(ctx, st, as); err != nil {
			return errors.Wrap(err, "could not process attester slashing")
		}
	}
	for _, att := range body.Attestations {
		if err := ProcessAttestation(ctx, st, att); err != nil {
			return errors.Wrap(err, "could not process attestation")
		}
	}
	for _, d := range body.Deposits {
		if err := ProcessDeposit(ctx, st, d); err != nil {
			return errors.Wrap(err, "could not process deposit")
		}
	}
	for _, sve := range body.VoluntaryExits {
		if err := ProcessVoluntaryExit(ctx, st, sve); err != nil {
			return errors.Wrap(err, "could not process voluntary exit")
		}
	}
	return nil
}

// ProcessBlock runs the four per-block stages in order: header, RANDAO,
// eth1 data, operations.
func ProcessBlock(ctx *epochctx.Context, st *state.BeaconState, block *types.BeaconBlock) error {
	if err := ProcessBlockHeader(ctx, st, block); err != nil {
		return errors.Wrap(err, "could not process block header")
	}
	if err := ProcessRandao(ctx, st, block.Body); err != nil {
		return errors.Wrap(err, "could not process randao")
	}
	if err := ProcessEth1Data(st, block.Body); err != nil {
		return errors.Wrap(err, "could not process eth1 data")
	}
	if err := ProcessOperations(ctx, st, block.Body); err != nil {
		return errors.Wrap(err, "could not process operations")
	}
	return nil
}

// VerifyBlockSignature checks signedBlock's outer signature against its
// proposer's key under the beacon-proposer domain for the block's slot.
func VerifyBlockSignature(ctx *epochctx.Context, st *state.BeaconState, signedBlock *types.SignedBeaconBlock) (bool, error) {
	block := signedBlock.Block
	proposer, err := st.ValidatorAtIndex(block.ProposerIndex)
	if err != nil {
		return false, err
	}
	cfg := params.BeaconConfig()
	domain, err := coresigning.Domain(st.Fork, ctx.Current.Epoch, cfg.DomainBeaconProposer, st.GenesisValidatorsRoot)
	if err != nil {
		return false, err
	}
	signingRoot, err := coresigning.ComputeSigningRoot(block, domain)
	if err != nil {
		return false, err
	}
	return bls.Verify(proposer.PublicKey[:], signingRoot, signedBlock.Signature[:]), nil
}
