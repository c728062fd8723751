package distributor

import "fmt"

// MinimumPriceDistributor splits a (negative) discount across targets in
// proportion to their totals while never pushing a target below its minimum.
// Discount that a capped target cannot absorb is redistributed among the
// targets that still have room.
type MinimumPriceDistributor struct {
	proportional ProportionalIntegerDistributor
}

// Distribute returns one share per target. totals and minimums must have the
// same length. The returned shares sum to amount unless the targets run out
// of room, in which case every target ends at its minimum.
func (d MinimumPriceDistributor) Distribute(totals, minimums []int64, amount int64) ([]int64, error) {
	if len(totals) != len(minimums) {
		return nil, fmt.Errorf("distributor: %d totals for %d minimums: %w", len(totals), len(minimums), ErrInvalidWeights)
	}
	if len(totals) == 0 {
		return nil, fmt.Errorf("distributor: no targets: %w", ErrInvalidWeights)
	}

	if amount > 0 {
		// Surcharges are not bounded by minimum prices.
		return d.proportional.Distribute(totals, amount)
	}

	shares := make([]int64, len(totals))
	room := make([]int64, len(totals))
	for i := range totals {
		room[i] = max(totals[i]-minimums[i], 0)
	}

	for left := -amount; left > 0; {
		var open []int
		var weights []int64
		for i := range totals {
			if room[i] == 0 {
				continue
			}
			open = append(open, i)
			weights = append(weights, max(totals[i], 1))
		}
		if len(open) == 0 {
			break
		}

		split, err := d.proportional.Distribute(weights, left)
		if err != nil {
			return nil, err
		}

		var absorbed int64
		for j, s := range split {
			i := open[j]
			take := min(s, room[i])
			room[i] -= take
			shares[i] -= take
			absorbed += take
		}
		if absorbed == 0 {
			break
		}
		left -= absorbed
	}

	return shares, nil
}
