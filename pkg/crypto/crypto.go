package crypto

import (
	"crypto/rand"
	"math/big"
)

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

// RandWeighted returns a random index of weights, where the probability of
// index i is proportional to weights[i]. It panics if the total weight is not
// a positive number.
func RandWeighted(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}

	r := RandIntn(total)
	for i, w := range weights {
		if r < w {
			return i
		}

		r -= w
	}

	return len(weights) - 1
}
