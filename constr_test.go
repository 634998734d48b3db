package pso_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/dvetal/pso"
)

func TestLinConstr(t *testing.T) {
	// 0 <= x0+x1 <= 10
	A := mat.NewDense(1, 2, []float64{1, 1})
	cons := pso.LinConstr([]float64{0}, A, []float64{10})

	cases := []struct {
		x        []float64
		feasible bool
	}{
		{[]float64{3, 4}, true},
		{[]float64{0, 0}, true},
		{[]float64{5, 5}, true},
		{[]float64{8, 4}, false},
		{[]float64{-1, 0}, false},
	}

	for _, c := range cases {
		ok := true
		for _, v := range cons(c.x) {
			if v < 0 {
				ok = false
			}
		}
		if ok != c.feasible {
			t.Errorf("x=%v: feasible=%v, expected %v (cons=%v)", c.x, ok, c.feasible, cons(c.x))
		}
	}
}

func TestLinConstrOneSided(t *testing.T) {
	// x0 - x1 >= 2, unbounded above
	A := mat.NewDense(1, 2, []float64{1, -1})
	cons := pso.LinConstr([]float64{2}, A, []float64{math.Inf(1)})

	if v := cons([]float64{5, 1}); v[0] < 0 || v[1] < 0 {
		t.Errorf("x=[5 1] should be feasible, cons=%v", v)
	}
	if v := cons([]float64{1, 5}); v[0] >= 0 {
		t.Errorf("x=[1 5] should violate the lower row, cons=%v", v)
	}
}

func TestLinConstrBadDims(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for mismatched bound lengths")
		}
	}()
	pso.LinConstr([]float64{0, 0}, mat.NewDense(1, 2, []float64{1, 1}), []float64{10})
}

func TestMinimizeLinConstr(t *testing.T) {
	// minimize the sphere subject to x0 + x1 >= 4; the constrained
	// minimum is at (2, 2).
	A := mat.NewDense(1, 2, []float64{1, 1})
	cons := pso.LinConstr([]float64{4}, A, []float64{math.Inf(1)})

	best, err := pso.Minimize(sphere, []float64{-10, -10}, []float64{10, 10},
		pso.VectorConstr(cons),
		pso.SwarmSize(100),
		pso.MaxIter(1000),
		pso.Seed(seed),
	)
	if err != nil {
		t.Fatal(err)
	}

	pos := best.Pos()
	if len(pos) == 0 {
		t.Fatal("no feasible point found")
	}
	if pos[0]+pos[1] < 4 {
		t.Errorf("returned infeasible best %v", pos)
	}
	if math.Abs(pos[0]-2) > 0.1 || math.Abs(pos[1]-2) > 0.1 {
		t.Errorf("best position %v, expected ~[2 2]", pos)
	}
	t.Logf("[pass:LinConstr] best %v at %v", best.Val, pos)
}
