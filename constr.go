package pso

import (
	"gonum.org/v1/gonum/mat"
)

// bindCons resolves the configured constraint representation into a
// single vector-valued function of x.  A vector constraint takes
// precedence over a list of scalar constraints; with neither, the
// result is nil and every point is feasible.
func (s *Solver) bindCons() func(x []float64) []float64 {
	switch {
	case s.vcons != nil:
		s.debugf("single vector constraint function given\n")
		f, args := s.vcons, s.args
		return func(x []float64) []float64 { return f(x, args...) }
	case len(s.cons) > 0:
		s.debugf("converting %v scalar constraints to a single constraint function\n", len(s.cons))
		cons, args := s.cons, s.args
		return func(x []float64) []float64 {
			out := make([]float64, len(cons))
			for i, c := range cons {
				out[i] = c(x, args...)
			}
			return out
		}
	default:
		s.debugf("no constraints given\n")
		return nil
	}
}

// feasible reports whether every constraint output is >= 0 at x.
// Vacuously true when no constraints are configured.
func (s *Solver) feasible(x []float64) bool {
	if s.consf == nil {
		return true
	}
	for _, v := range s.consf(x) {
		if v < 0 {
			return false
		}
	}
	return true
}

// LinConstr lowers the boxed linear system "low <= A*x <= up" to a
// VectorConstraint in the engine's cons(x) >= 0 form.  The result
// stacks A*x - low on top of up - A*x.  An unbounded side may use
// -Inf/+Inf entries.
func LinConstr(low []float64, A *mat.Dense, up []float64) VectorConstraint {
	m, _ := A.Dims()
	if len(low) != m || len(up) != m {
		panic("constraint bound lengths do not match rows of A")
	}

	return func(x []float64, args ...interface{}) []float64 {
		ax := mat.NewVecDense(m, nil)
		ax.MulVec(A, mat.NewVecDense(len(x), x))

		out := make([]float64, 0, 2*m)
		for i := 0; i < m; i++ {
			out = append(out, ax.AtVec(i)-low[i])
		}
		for i := 0; i < m; i++ {
			out = append(out, up[i]-ax.AtVec(i))
		}
		return out
	}
}
