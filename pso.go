// Package pso implements a derivative-free particle swarm optimizer
// for minimizing black-box objective functions over box bounds,
// optionally subject to inequality constraints.  It is intended for
// objectives where gradients are unavailable or unreliable.
package pso

import (
	"database/sql"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
)

// Defaults used by NewSolver for any knob not set by an Option.
const (
	DefaultSwarmSize = 10
	DefaultInertia   = 0.5
	DefaultCognition = 0.5
	DefaultSocial    = 0.5
	DefaultMaxIter   = 1000
	DefaultMinStep   = 1e-8
	DefaultMinFunc   = 1e-8
)

// Rng is the source of uniform random numbers for a run.  *rand.Rand
// satisfies it.
type Rng interface {
	// Float64 returns a uniform random number in [0, 1).
	Float64() float64
}

// Objective evaluates a candidate position and returns the value to
// minimize along with an opaque artifact produced by that evaluation
// (e.g. a model fitted as a by-product).  The artifact plays no role
// in the optimization math; the one belonging to the best position is
// surfaced when the run ends.
type Objective func(x []float64, args ...interface{}) (val float64, artifact interface{})

// Constraint returns a scalar that must be >= 0 for x to be feasible.
type Constraint func(x []float64, args ...interface{}) float64

// VectorConstraint returns a vector of scalars that must all be >= 0
// for x to be feasible.
type VectorConstraint func(x []float64, args ...interface{}) []float64

// Point is a position paired with its objective value and the artifact
// returned by the evaluation that produced it.  Positions are copied
// on construction and on access so points never alias live swarm
// state.
type Point struct {
	pos      []float64
	Val      float64
	Artifact interface{}
}

func NewPoint(pos []float64, val float64) Point {
	cpos := make([]float64, len(pos))
	copy(cpos, pos)
	return Point{pos: cpos, Val: val}
}

func (p Point) At(i int) float64 { return p.pos[i] }

func (p Point) Len() int { return len(p.pos) }

// Pos returns a copy of the point's position.  A zero-length result
// means the point is undefined - no feasible position was ever found.
func (p Point) Pos() []float64 {
	pos := make([]float64, len(p.pos))
	copy(pos, p.pos)
	return pos
}

// Solver holds the configuration and state for one optimization run.
// NewSolver fills in defaults; Options override them.  A Solver is
// single-use: create one per run.
type Solver struct {
	SwarmSize int
	// Omega is the inertia weight applied to a particle's previous
	// velocity.
	Omega float64
	// Phip is the cognitive weight pulling a particle toward its own
	// best-known position.
	Phip float64
	// Phig is the social weight pulling a particle toward the swarm's
	// best-known position.
	Phig float64
	MaxIter int
	// MinStep terminates the run when the Euclidean distance between
	// successive swarm-best positions drops to or below it.
	MinStep float64
	// MinFunc terminates the run when the change between successive
	// swarm-best values drops to or below it.  Checked before MinStep.
	MinFunc float64

	// Neval and Niter report the number of objective evaluations and
	// completed iterations after Run returns.
	Neval int
	Niter int

	obj    Objective
	lb, ub []float64
	cons   []Constraint
	vcons  VectorConstraint
	consf  func(x []float64) []float64
	args   []interface{}
	rng    Rng
	debug  io.Writer
	db     *sql.DB
	seeded [][]float64

	swarm []*Particle
	best  Point
}

type Option func(*Solver)

func SwarmSize(n int) Option {
	return func(s *Solver) { s.SwarmSize = n }
}

func Inertia(omega float64) Option {
	return func(s *Solver) { s.Omega = omega }
}

func LearnFactors(cognition, social float64) Option {
	return func(s *Solver) {
		s.Phip = cognition
		s.Phig = social
	}
}

func MaxIter(n int) Option {
	return func(s *Solver) { s.MaxIter = n }
}

func MinStep(tol float64) Option {
	return func(s *Solver) { s.MinStep = tol }
}

func MinFunc(tol float64) Option {
	return func(s *Solver) { s.MinFunc = tol }
}

// Constraints adds scalar inequality constraints; x is feasible iff
// every one returns >= 0 at x.  Ignored when VectorConstr is also set.
func Constraints(cons ...Constraint) Option {
	return func(s *Solver) { s.cons = append(s.cons, cons...) }
}

// VectorConstr sets a vector-valued constraint function; x is feasible
// iff every entry it returns is >= 0.  Takes precedence over
// Constraints.
func VectorConstr(f VectorConstraint) Option {
	return func(s *Solver) { s.vcons = f }
}

// ExtraArgs sets opaque values forwarded verbatim to every objective
// and constraint call.
func ExtraArgs(args ...interface{}) Option {
	return func(s *Solver) { s.args = args }
}

// Rand sets the random number source for the run.
func Rand(rng Rng) Option {
	return func(s *Solver) { s.rng = rng }
}

// Seed sets the run's random source to math/rand seeded with seed.
func Seed(seed int64) Option {
	return Rand(rand.New(rand.NewSource(seed)))
}

// Debug sets a writer that receives one diagnostic line per swarm-best
// improvement and per iteration.  It has no effect on the optimization
// trajectory.
func Debug(w io.Writer) Option {
	return func(s *Solver) { s.debug = w }
}

// DB sets a sql database where per-iteration particle state and the
// swarm best are recorded.  See TblParticles and TblBest.
func DB(db *sql.DB) Option {
	return func(s *Solver) { s.db = db }
}

// InitPoints seeds initial positions for the first len(points)
// particles; any remaining particles are positioned randomly.  Points
// beyond SwarmSize are ignored; points outside the box bounds are a
// configuration error.
func InitPoints(points [][]float64) Option {
	return func(s *Solver) { s.seeded = points }
}

// NewSolver validates the bounds and configuration and returns a
// solver ready to Run.  lb and ub give the lower and upper bound for
// each dimension of the search space.
func NewSolver(obj Objective, lb, ub []float64, opts ...Option) (*Solver, error) {
	s := &Solver{
		SwarmSize: DefaultSwarmSize,
		Omega:     DefaultInertia,
		Phip:      DefaultCognition,
		Phig:      DefaultSocial,
		MaxIter:   DefaultMaxIter,
		MinStep:   DefaultMinStep,
		MinFunc:   DefaultMinFunc,
		obj:       obj,
		lb:        append([]float64{}, lb...),
		ub:        append([]float64{}, ub...),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.obj == nil {
		return nil, fmt.Errorf("pso: objective function is nil")
	}
	if len(lb) != len(ub) {
		return nil, fmt.Errorf("pso: lower and upper bounds must be the same length (%v != %v)", len(lb), len(ub))
	}
	if len(lb) == 0 {
		return nil, fmt.Errorf("pso: bounds are empty")
	}
	for i := range lb {
		if ub[i] <= lb[i] {
			return nil, fmt.Errorf("pso: upper bound must exceed lower bound (dim %v: %v <= %v)", i, ub[i], lb[i])
		}
	}
	if s.SwarmSize <= 0 {
		return nil, fmt.Errorf("pso: swarm size must be positive, got %v", s.SwarmSize)
	}
	if s.MaxIter <= 0 {
		return nil, fmt.Errorf("pso: maxiter must be positive, got %v", s.MaxIter)
	}
	for _, p := range s.seeded {
		if len(p) != len(lb) {
			return nil, fmt.Errorf("pso: initial point has %v dimensions, bounds have %v", len(p), len(lb))
		}
		for i, v := range p {
			if v < lb[i] || v > ub[i] {
				return nil, fmt.Errorf("pso: initial point dim %v is %v, outside [%v, %v]", i, v, lb[i], ub[i])
			}
		}
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(0))
	}
	s.consf = s.bindCons()
	s.best = Point{Val: math.Inf(1)}

	if err := s.initdb(); err != nil {
		return nil, err
	}
	return s, nil
}

// Minimize runs a particle swarm optimization of obj over the box
// bounds lb/ub and returns the best point found.  The returned point
// carries the position, its objective value, and the artifact produced
// by the evaluation of that same position.  When no feasible point was
// ever found the point has zero length and an infinite value.
func Minimize(obj Objective, lb, ub []float64, opts ...Option) (Point, error) {
	s, err := NewSolver(obj, lb, ub, opts...)
	if err != nil {
		return Point{Val: math.Inf(1)}, err
	}
	return s.Run(), nil
}

func (s *Solver) eval(x []float64) (float64, interface{}) {
	s.Neval++
	return s.obj(x, s.args...)
}

func (s *Solver) debugf(format string, args ...interface{}) {
	if s.debug != nil {
		fmt.Fprintf(s.debug, format, args...)
	}
}

func (s *Solver) warnf(format string, args ...interface{}) {
	w := s.debug
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format, args...)
}
