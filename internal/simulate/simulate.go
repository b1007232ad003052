// Package simulate runs coin-flip experiments in the style of Kerrich's
// 10,000 tosses.
package simulate

import (
	"context"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Flips draws n fair coin flips, 1 for heads and 0 for tails.
func Flips(rng *rand.Rand, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = rng.IntN(2)
	}
	return out
}

// HeadsMinusExpected returns, after each toss i, the observed number of heads
// minus the expected (i+1)/2, doubled: 2*heads - (i+1).
func HeadsMinusExpected(flips []int) []float64 {
	out := make([]float64, len(flips))
	heads := 0
	for i, f := range flips {
		heads += f
		out[i] = float64(2*heads - (i + 1))
	}
	return out
}

// RunningMean returns the fraction of heads after each toss.
func RunningMean(flips []int) []float64 {
	out := make([]float64, len(flips))
	heads := 0
	for i, f := range flips {
		heads += f
		out[i] = float64(heads) / float64(i+1)
	}
	return out
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))
}

// Paths simulates trials independent runs of n flips and applies fn to each.
// Trial i draws from NewRand(seed+i), so the result does not depend on
// scheduling.
func Paths(ctx context.Context, seed uint64, trials, n int, fn func([]int) []float64) ([][]float64, error) {
	out := make([][]float64, trials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < trials; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = fn(Flips(NewRand(seed+uint64(i)), n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
