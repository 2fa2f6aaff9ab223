package blocks

import (
	"github.com/pkg/errors"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

// ProcessBlockHeader verifies block's slot and parent root against st,
// caches a body-root-only copy of it as the new latest_block_header, and
// checks the proposer is not already slashed.
func ProcessBlockHeader(ctx *epochctx.Context, st *state.BeaconState, block *types.BeaconBlock) error {
	if block.Slot != st.Slot {
		return errors.Errorf("block slot %d does not match state slot %d", block.Slot, st.Slot)
	}

	parentRoot, err := st.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute latest block header root")
	}
	if block.ParentRoot != parentRoot {
		return ErrInvalidBlockRoot
	}

	bodyRoot, err := block.Body.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute block body root")
	}
	st.LatestBlockHeader = &types.BeaconBlockHeader{
		Slot:          block.Slot,
		ProposerIndex: block.ProposerIndex,
		ParentRoot:    block.ParentRoot,
		StateRoot:     [32]byte{},
		BodyRoot:      bodyRoot,
	}

	proposerIndex, err := ctx.GetBeaconProposer(st.Slot)
	if err != nil {
		return errors.Wrap(err, "could not resolve proposer")
	}
	if proposerIndex != block.ProposerIndex {
		return errors.Errorf("block proposer index %d does not match expected proposer %d", block.ProposerIndex, proposerIndex)
	}
	proposer, err := st.ValidatorAtIndex(proposerIndex)
	if err != nil {
		return err
	}
	if proposer.Slashed {
		return errors.New("proposer has been slashed")
	}
	return nil
}
