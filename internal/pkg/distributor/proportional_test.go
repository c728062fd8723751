package distributor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProportionalIntegerDistributor_Distribute(t *testing.T) {
	tests := []struct {
		name    string
		weights []int64
		amount  int64
		want    []int64
	}{
		{"proportional", []int64{4000, 6000}, -1000, []int64{-400, -600}},
		{"rounding gap goes to first share", []int64{1, 1, 1}, -100, []int64{-34, -33, -33}},
		{"half rounds toward zero", []int64{1, 1}, 3, []int64{2, 1}},
		{"single weight", []int64{12345}, -500, []int64{-500}},
		{"zero weight gets nothing", []int64{0, 5000}, -300, []int64{0, -300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProportionalIntegerDistributor{}.Distribute(tt.weights, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.amount, sum(got))
		})
	}
}

func TestProportionalIntegerDistributor_InvalidWeights(t *testing.T) {
	_, err := ProportionalIntegerDistributor{}.Distribute(nil, 100)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = ProportionalIntegerDistributor{}.Distribute([]int64{0, 0}, 100)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestRoundHalfDown(t *testing.T) {
	assert.Equal(t, int64(1), roundHalfDown(3, 2))
	assert.Equal(t, int64(-1), roundHalfDown(-3, 2))
	assert.Equal(t, int64(2), roundHalfDown(5, 3))
	assert.Equal(t, int64(-2), roundHalfDown(5, -3))
	assert.Equal(t, int64(0), roundHalfDown(1, 3))
}
