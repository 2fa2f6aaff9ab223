package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/prysmaticlabs/beacon-engine/testing/assert"
)

func TestSlashingsProcessed_CountsAcrossCalls(t *testing.T) {
	before := testutil.ToFloat64(SlashingsProcessed)
	SlashingsProcessed.Inc()
	SlashingsProcessed.Inc()
	after := testutil.ToFloat64(SlashingsProcessed)
	assert.Equal(t, before+2, after)
}

func TestEpochStageSeconds_ObservesPerStageLabel(t *testing.T) {
	before := testutil.CollectAndCount(EpochStageSeconds)
	EpochStageSeconds.WithLabelValues("TestStage").Observe(0.5)
	after := testutil.CollectAndCount(EpochStageSeconds)
	assert.True(t, after > before, "observing a new stage label must register a new time series")
}
