package distributor

import "fmt"

// ProportionalIntegerDistributor splits an amount in proportion to a set of
// integer weights (typically item totals).
type ProportionalIntegerDistributor struct{}

// Distribute returns one share per weight. Each share is rounded half toward
// zero and the rounding gap is then spread one unit at a time starting from
// the first share.
func (ProportionalIntegerDistributor) Distribute(weights []int64, amount int64) ([]int64, error) {
	var total int64
	for _, w := range weights {
		total += w
	}
	if len(weights) == 0 || total == 0 {
		return nil, fmt.Errorf("distributor: %v: %w", weights, ErrInvalidWeights)
	}

	shares := make([]int64, len(weights))
	var distributed int64
	for i, w := range weights {
		shares[i] = roundHalfDown(w*amount, total)
		distributed += shares[i]
	}

	missing := amount - distributed
	step := int64(1)
	if missing < 0 {
		step = -1
		missing = -missing
	}
	for i := int64(0); i < missing; i++ {
		shares[i%int64(len(shares))] += step
	}
	return shares, nil
}

// roundHalfDown divides num by den and rounds to the nearest integer, with
// ties going toward zero.
func roundHalfDown(num, den int64) int64 {
	if den < 0 {
		num, den = -num, -den
	}
	neg := num < 0
	if neg {
		num = -num
	}

	q := num / den
	r := num % den
	if 2*r > den {
		q++
	}
	if neg {
		return -q
	}
	return q
}
