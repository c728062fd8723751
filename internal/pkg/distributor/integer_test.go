package distributor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerDistributor_Distribute(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		targets int
		want    []int64
	}{
		{"even split", 900, 3, []int64{300, 300, 300}},
		{"remainder goes to leading shares", 1000, 3, []int64{334, 333, 333}},
		{"negative amount keeps sign", -1000, 3, []int64{-334, -333, -333}},
		{"amount smaller than targets", -2, 4, []int64{-1, -1, 0, 0}},
		{"zero amount", 0, 2, []int64{0, 0}},
		{"single target", -17, 1, []int64{-17}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntegerDistributor{}.Distribute(tt.amount, tt.targets)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.amount, sum(got))
		})
	}
}

func TestIntegerDistributor_InvalidTargets(t *testing.T) {
	for _, targets := range []int{0, -1} {
		_, err := IntegerDistributor{}.Distribute(100, targets)
		assert.ErrorIs(t, err, ErrInvalidNumberOfTargets)
	}
}

func TestIntegerDistributor_SharesAlwaysSumToAmount(t *testing.T) {
	for amount := int64(-250); amount <= 250; amount += 7 {
		for targets := 1; targets <= 9; targets++ {
			got, err := IntegerDistributor{}.Distribute(amount, targets)
			require.NoError(t, err)
			require.Len(t, got, targets)
			require.Equal(t, amount, sum(got), "amount=%d targets=%d", amount, targets)
		}
	}
}

func sum(xs []int64) int64 {
	var s int64
	for _, x := range xs {
		s += x
	}
	return s
}
