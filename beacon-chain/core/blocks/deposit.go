package blocks

import (
	"github.com/pkg/errors"

	coresigning "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/signing"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/crypto/bls"
)

// ProcessDeposit verifies d's Merkle inclusion proof against the running
// eth1 deposit root, then either tops up an existing validator's balance or
// -- once its own self-signature checks out -- appends a brand new one. A
// deposit with a bad self-signature is silently dropped rather than
// rejecting the block, since eth1 cannot be rolled back once it has
// accepted the deposit.
func ProcessDeposit(ctx *epochctx.Context, st *state.BeaconState, d *types.Deposit) error {
	leaf, err := d.Data.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute deposit data root")
	}
	if !IsValidMerkleBranch(leaf, d.Proof[:], types.DepositTreeDepth+1, st.Eth1DepositIndex, st.Eth1Data.DepositRoot) {
		return ErrInvalidMerkleBranch
	}
	st.Eth1DepositIndex++

	if idx, ok := ctx.PubkeyToIndex[d.Data.PublicKey]; ok {
		return st.IncreaseBalance(idx, uint64(d.Data.Amount))
	}

	cfg := params.BeaconConfig()
	domain, err := coresigning.ComputeDomain(cfg.DomainDeposit, cfg.GenesisForkVersion, [32]byte{})
	if err != nil {
		return errors.Wrap(err, "could not compute deposit domain")
	}
	signingRoot, err := coresigning.ComputeSigningRoot(d.Data.ToMessage(), domain)
	if err != nil {
		return errors.Wrap(err, "could not compute deposit signing root")
	}
	if !bls.Verify(d.Data.PublicKey[:], signingRoot, d.Data.Signature[:]) {
		return nil
	}

	v := &types.Validator{
		PublicKey:                  d.Data.PublicKey,
		WithdrawalCredentials:      d.Data.WithdrawalCredentials,
		ActivationEligibilityEpoch: cfg.FarFutureEpoch,
		ActivationEpoch:            cfg.FarFutureEpoch,
		ExitEpoch:                  cfg.FarFutureEpoch,
		WithdrawableEpoch:          cfg.FarFutureEpoch,
	}
	amount := uint64(d.Data.Amount)
	maxEffective := amount - amount%cfg.EffectiveBalanceIncrement
	if maxEffective > cfg.MaxEffectiveBalance {
		maxEffective = cfg.MaxEffectiveBalance
	}
	v.EffectiveBalance = primitives.Gwei(maxEffective)

	newIndex := st.NumValidators()
	st.AppendValidator(v, amount)
	ctx.PubkeyToIndex.Extend(st, newIndex)
	return nil
}
