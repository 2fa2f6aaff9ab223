// Package transition drives the slot and block processing pipeline (C7-C9):
// advancing a state slot-by-slot, running the epoch transition at boundary
// crossings, and applying a signed block on top.
package transition

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/cache"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/core/blocks"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epoch"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/metrics"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

var log = logrus.WithField("prefix", "transition")

// ErrInvalidStateRoot is returned when a signed block's claimed post-state
// root does not match the root actually produced by applying it.
var ErrInvalidStateRoot = errors.New("block state root does not match computed state root")

// SkipSlots is the package-level skip-slot cache, shared across callers the
// way the host project keeps a single process-wide cache instance.
var SkipSlots = cache.NewSkipSlotCache()

// ProcessSlot does the per-slot bookkeeping for st's current slot: it caches
// the pre-state root into the state_roots ring buffer, backfills the latest
// block header's state root if it is still zeroed, and caches the new block
// root once the header is finalized for the slot. It does not change
// st.Slot; ProcessSlots increments the slot after calling it.
func ProcessSlot(st *state.BeaconState) error {
	cfg := params.BeaconConfig()

	prevStateRoot, err := st.BeaconState.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute state root")
	}
	if err := st.SetStateRootAtIndex(uint64(st.Slot)%uint64(cfg.SlotsPerHistoricalRoot), prevStateRoot); err != nil {
		return err
	}

	if st.LatestBlockHeader.StateRoot == ([32]byte{}) {
		st.LatestBlockHeader.StateRoot = prevStateRoot
	}

	prevBlockRoot, err := st.LatestBlockHeader.HashTreeRoot()
	if err != nil {
		return errors.Wrap(err, "could not compute latest block header root")
	}
	return st.SetBlockRootAtIndex(uint64(st.Slot)%uint64(cfg.SlotsPerHistoricalRoot), prevBlockRoot)
}

// ProcessSlots runs ProcessSlot for every slot from st.Slot up to, but not
// including, targetSlot, leaving st.Slot equal to targetSlot, and runs the
// epoch transition and rotates ec's shufflings at every epoch boundary
// crossed along the way.
func ProcessSlots(goCtx context.Context, ec *epochctx.Context, st *state.BeaconState, targetSlot primitives.Slot) error {
	goCtx, span := trace.StartSpan(goCtx, "transition.ProcessSlots")
	defer span.End()

	if st.Slot > targetSlot {
		return errors.Errorf("target slot %d is in the past relative to state slot %d", targetSlot, st.Slot)
	}
	cfg := params.BeaconConfig()

	for st.Slot < targetSlot {
		if err := ProcessSlot(st); err != nil {
			return errors.Wrap(err, "could not process slot")
		}
		nextSlot := st.Slot + 1
		if (uint64(nextSlot))%uint64(cfg.SlotsPerEpoch) == 0 {
			if err := epoch.ProcessEpoch(goCtx, ec, st); err != nil {
				return errors.Wrap(err, "could not process epoch")
			}
		}
		st.SetSlot(nextSlot)
		if (uint64(nextSlot))%uint64(cfg.SlotsPerEpoch) == 0 {
			if err := ec.RotateEpochs(st); err != nil {
				return errors.Wrap(err, "could not rotate epoch context")
			}
		}
	}
	return nil
}

// StateTransition is the C9 driver: it advances st to signedBlock's slot,
// optionally checks the block's outer signature, applies the block's
// operations, and -- when validateResult is set -- checks the resulting
// state root against the one the block claims.
func StateTransition(goCtx context.Context, ec *epochctx.Context, st *state.BeaconState, signedBlock *types.SignedBeaconBlock, validateResult bool) error {
	goCtx, span := trace.StartSpan(goCtx, "transition.StateTransition")
	defer span.End()

	block := signedBlock.Block
	log.WithField("slot", block.Slot).Trace("running state transition")

	cacheKey := block.Slot
	if cached := SkipSlots.Get(cacheKey); cached != nil && cached.Slot == block.Slot {
		*st = *cached.Copy()
	} else {
		SkipSlots.MarkInProgress(cacheKey)
		if err := ProcessSlots(goCtx, ec, st, block.Slot); err != nil {
			SkipSlots.MarkNotInProgress(cacheKey)
			return errors.Wrap(err, "could not process slots")
		}
		SkipSlots.Put(cacheKey, st.Copy())
		SkipSlots.MarkNotInProgress(cacheKey)
	}

	if validateResult {
		start := time.Now()
		valid, err := blocks.VerifyBlockSignature(ec, st, signedBlock)
		metrics.BlockStageSeconds.WithLabelValues("VerifyBlockSignature").Observe(time.Since(start).Seconds())
		if err != nil {
			return errors.Wrap(err, "could not verify block signature")
		}
		if !valid {
			return blocks.ErrInvalidSignature
		}
	}

	blockStart := time.Now()
	err := blocks.ProcessBlock(ec, st, block)
	metrics.BlockStageSeconds.WithLabelValues("ProcessBlock").Observe(time.Since(blockStart).Seconds())
	if err != nil {
		return errors.Wrap(err, "could not process block")
	}

	if validateResult {
		stateRoot, err := st.BeaconState.HashTreeRoot()
		if err != nil {
			return errors.Wrap(err, "could not compute post-state root")
		}
		if stateRoot != block.StateRoot {
			return ErrInvalidStateRoot
		}
	}

	return nil
}
