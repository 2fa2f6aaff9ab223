// Package metrics registers the Prometheus collectors the epoch and
// transition pipelines report wall-clock time and slashing counts through,
// mirroring the host project's promauto-registered collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EpochTransitionSeconds observes the wall time of one full ProcessEpoch
	// call.
	EpochTransitionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "beacon_engine_epoch_transition_seconds",
		Help: "Time to process one epoch transition.",
	})

	// EpochStageSeconds observes the wall time of each of the five
	// epoch-transition stages, labeled by stage name.
	EpochStageSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "beacon_engine_epoch_stage_seconds",
		Help: "Time to process one stage of the epoch transition.",
	}, []string{"stage"})

	// BlockStageSeconds observes the wall time of block signature
	// verification and of ProcessBlock, labeled by stage name.
	BlockStageSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "beacon_engine_block_stage_seconds",
		Help: "Time to process one stage of block processing.",
	}, []string{"stage"})

	// SlashingsProcessed counts validators slashed across both proposer and
	// attester slashings.
	SlashingsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beacon_engine_slashings_processed_total",
		Help: "Total number of validators slashed.",
	})
)
