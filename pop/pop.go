// Package pop generates initial particle positions for the optimizer.
package pop

import (
	"math/rand"

	"github.com/petar/GoLLRB/llrb"

	"github.com/dvetal/pso"
)

// Rand is the random number source used by this package's helpers.
var Rand Rng = rand.New(rand.NewSource(1))

type Rng interface {
	Float64() float64
}

// New generates n points positioned uniformly at random in the boxed
// bounds defined by low and up.
func New(n int, low, up []float64) [][]float64 {
	if len(low) != len(up) {
		panic("low and up vectors are not same length")
	}

	points := make([][]float64, n)
	for i := range points {
		pos := make([]float64, len(low))
		for j := range pos {
			pos[j] = low[j] + Rand.Float64()*(up[j]-low[j])
		}
		points[i] = pos
	}
	return points
}

type item struct {
	pos    []float64
	howbad float64
}

func (p1 item) Less(than llrb.Item) bool {
	p2 := than.(item)
	return p1.howbad < p2.howbad
}

// NewFeasible tries to generate n points satisfying cons(x) >= 0
// within the boxed bounds defined by low and up.  It samples at most
// maxiter random candidates, keeping feasible ones, and queues up the
// least unfavorable infeasible points in case n feasible ones cannot
// be found.  Violation is measured as the summed magnitude of negative
// constraint outputs.  nbad reports how many returned points are
// infeasible; iter reports the number of candidate draws, which is
// exactly one per point when cons is nil.
func NewFeasible(n, maxiter int, low, up []float64, cons pso.VectorConstraint) (points [][]float64, nbad, iter int) {
	if len(low) != len(up) {
		panic("low and up vectors are not same length")
	}
	if cons == nil {
		return New(n, low, up), 0, n
	}

	violaters := llrb.New()
	points = make([][]float64, 0, n)
	for iter = 1; iter <= maxiter; iter++ {
		pos := make([]float64, len(low))
		for j := range pos {
			pos[j] = low[j] + Rand.Float64()*(up[j]-low[j])
		}

		howbad := 0.0
		for _, v := range cons(pos) {
			if v < 0 {
				howbad -= v
			}
		}

		if howbad == 0 {
			points = append(points, pos)
			if len(points) == n {
				return points, 0, iter
			}
		} else {
			violaters.InsertNoReplace(item{pos, howbad})
			for violaters.Len() > n-len(points) {
				violaters.DeleteMax()
			}
		}
	}

	for len(points) < n && violaters.Len() > 0 {
		least := violaters.DeleteMin().(item)
		points = append(points, least.pos)
		nbad++
	}
	return points, nbad, maxiter
}
