// Package distributor splits integer money amounts across a number of
// targets so that the shares always add up to the original amount.
package distributor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNumberOfTargets is returned when asked to split an amount
	// across zero or a negative number of targets.
	ErrInvalidNumberOfTargets = errors.New("number of targets must be bigger than 0")

	// ErrInvalidWeights is returned when proportional weights are empty or
	// sum to zero.
	ErrInvalidWeights = errors.New("weights must be non-empty and sum to a non-zero value")
)

// IntegerDistributor splits an amount into equal integer shares.
type IntegerDistributor struct{}

// Distribute splits amount into targets shares. The first |amount| % targets
// shares are one unit bigger than the rest, and every share carries the sign
// of amount.
func (IntegerDistributor) Distribute(amount int64, targets int) ([]int64, error) {
	if targets <= 0 {
		return nil, fmt.Errorf("distributor: %d targets: %w", targets, ErrInvalidNumberOfTargets)
	}

	sign := int64(1)
	if amount < 0 {
		sign = -1
		amount = -amount
	}

	n := int64(targets)
	low := amount / n
	remainder := amount % n

	shares := make([]int64, targets)
	for i := range shares {
		if int64(i) < remainder {
			shares[i] = (low + 1) * sign
			continue
		}
		shares[i] = low * sign
	}
	return shares, nil
}
