// Package epoch implements the five-stage epoch transition pipeline (C6):
// justification/finalization, rewards and penalties, registry updates,
// slashings, and final bookkeeping, run once per epoch boundary against a
// single shared EpochProcess precomputed by package precompute.
package epoch

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epoch/precompute"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/metrics"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
)

var log = logrus.WithField("prefix", "epoch")

// stage runs one named epoch-transition stage, wrapping it in its own trace
// span and recording its wall time against the per-stage histogram.
func stage(goCtx context.Context, name string, fn func() error) error {
	_, span := trace.StartSpan(goCtx, "epoch."+name)
	defer span.End()
	start := time.Now()
	err := fn()
	metrics.EpochStageSeconds.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return err
}

// ProcessEpoch runs the full epoch transition against st, using ec's
// already-rotated current/previous shufflings to resolve attesting
// committees.
func ProcessEpoch(goCtx context.Context, ec *epochctx.Context, st *state.BeaconState) error {
	goCtx, span := trace.StartSpan(goCtx, "epoch.ProcessEpoch")
	defer span.End()
	start := time.Now()
	defer func() {
		metrics.EpochTransitionSeconds.Observe(time.Since(start).Seconds())
	}()

	process, err := precompute.New(ec, st)
	if err != nil {
		return errors.Wrap(err, "could not prepare epoch process state")
	}
	log.WithFields(logrus.Fields{
		"prevEpoch":    process.PrevEpoch,
		"currentEpoch": process.CurrentEpoch,
		"activeCount":  process.ActiveValidators,
	}).Trace("prepared epoch process state")

	if err := stage(goCtx, "ProcessJustificationAndFinalization", func() error {
		return ProcessJustificationAndFinalization(st, process)
	}); err != nil {
		return errors.Wrap(err, "could not process justification and finalization")
	}
	if err := stage(goCtx, "ProcessRewardsAndPenalties", func() error {
		return ProcessRewardsAndPenalties(st, process)
	}); err != nil {
		return errors.Wrap(err, "could not process rewards and penalties")
	}
	if err := stage(goCtx, "ProcessRegistryUpdates", func() error {
		return ProcessRegistryUpdates(st, process)
	}); err != nil {
		return errors.Wrap(err, "could not process registry updates")
	}
	if err := stage(goCtx, "ProcessSlashings", func() error {
		return ProcessSlashings(st, process)
	}); err != nil {
		return errors.Wrap(err, "could not process slashings")
	}
	if err := stage(goCtx, "ProcessFinalUpdates", func() error {
		return ProcessFinalUpdates(st, process)
	}); err != nil {
		return errors.Wrap(err, "could not process final updates")
	}
	log.WithField("slot", st.Slot).Debug("epoch transition complete")
	return nil
}
