package math

import (
	"testing"

	"github.com/prysmaticlabs/beacon-engine/testing/assert"
	"github.com/prysmaticlabs/beacon-engine/testing/require"
)

func TestIntegerSquareRoot(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{16, 4},
		{17, 4},
		{1000000000000000000, 1000000000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IntegerSquareRoot(tt.n))
	}
}

func TestMulDiv64(t *testing.T) {
	require.Equal(t, uint64(6), MulDiv64(2, 3, 1))
	require.Equal(t, uint64(1<<32), MulDiv64(1<<32, 1<<32, 1<<32))
}

func TestDiv64WithRoundDown(t *testing.T) {
	assert.Equal(t, uint64(0), Div64WithRoundDown(5, 0))
	assert.Equal(t, uint64(2), Div64WithRoundDown(5, 2))
}
