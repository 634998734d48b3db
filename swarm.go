package pso

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Particle is one candidate solution in the swarm.  Pos and Vel are
// mutated in place by the update loop; Best holds a copy of the best
// feasible position the particle has seen along with its value and
// artifact.
type Particle struct {
	Id   int
	Pos  []float64
	Vel  []float64
	Val  float64
	Best Point
}

// Run executes the optimization and returns the best point found.  It
// stops when the change between successive swarm bests drops below
// MinFunc, when the distance between them drops below MinStep, or when
// MaxIter iterations complete, whichever comes first.
func (s *Solver) Run() Point {
	s.initSwarm()

	for it := 1; it <= s.MaxIter; it++ {
		s.Niter = it
		if best, stop := s.iterate(it); stop {
			return best
		}
		s.debugf("best after iteration %v: %v %v\n", it, s.best.Pos(), s.best.Val)
		s.recordIter(it)
	}
	s.debugf("stopping search: maximum iterations reached --> %v\n", s.MaxIter)

	if s.best.Len() == 0 {
		s.warnf("warning: no feasible point found\n")
	}
	return s.best
}

// initSwarm positions every particle uniformly at random inside the
// box bounds (or on a seeded point), evaluates it, and draws its
// velocity uniformly from [-(ub-lb), ub-lb] per dimension.  The swarm
// best is seeded from feasible particles only; when none is feasible
// it stays undefined and the loop proceeds regardless.
func (s *Solver) initSwarm() {
	vmax := make([]float64, len(s.lb))
	floats.SubTo(vmax, s.ub, s.lb)

	s.swarm = make([]*Particle, s.SwarmSize)
	for i := range s.swarm {
		p := &Particle{
			Id:  i,
			Pos: make([]float64, len(s.lb)),
			Vel: make([]float64, len(s.lb)),
		}
		if i < len(s.seeded) {
			copy(p.Pos, s.seeded[i])
		} else {
			for d := range p.Pos {
				p.Pos[d] = s.lb[d] + s.rng.Float64()*(s.ub[d]-s.lb[d])
			}
		}

		val, artifact := s.eval(p.Pos)
		p.Val = val
		p.Best = NewPoint(p.Pos, val)
		p.Best.Artifact = artifact

		if val < s.best.Val && s.feasible(p.Pos) {
			s.best = p.Best
		}

		for d := range p.Vel {
			p.Vel[d] = vmax[d] * (1 - 2*s.rng.Float64())
		}
		s.swarm[i] = p
	}
}

// iterate runs one iteration of the update loop.  Particles are
// processed in index order; later particles observe swarm-best updates
// made by earlier particles in the same iteration.  A non-zero stop
// return carries the terminating candidate, which is returned without
// being committed as the swarm best.
func (s *Solver) iterate(it int) (best Point, stop bool) {
	for _, p := range s.swarm {
		s.move(p)

		fx, artifact := s.eval(p.Pos)
		p.Val = fx
		if fx < p.Best.Val && s.feasible(p.Pos) {
			p.Best = NewPoint(p.Pos, fx)
			p.Best.Artifact = artifact

			if fx < s.best.Val {
				cand := p.Best
				s.debugf("new best for swarm at iteration %v: %v %v\n", it, cand.Pos(), fx)

				if s.best.Len() == 0 {
					// First feasible point ever seen: there is no
					// baseline to measure convergence against.
					s.best = cand
					continue
				}
				if math.Abs(s.best.Val-fx) <= s.MinFunc {
					s.debugf("stopping search: swarm best objective change less than %v\n", s.MinFunc)
					return cand, true
				}
				if floats.Distance(s.best.pos, cand.pos, 2) <= s.MinStep {
					s.debugf("stopping search: swarm best position change less than %v\n", s.MinStep)
					return cand, true
				}
				s.best = cand
			}
		}
	}
	return Point{}, false
}

// move applies the velocity and position update to p.  Positions that
// leave the box bounds are clamped back onto them; velocity is left
// untouched by the clamp.
func (s *Solver) move(p *Particle) {
	for d := range p.Vel {
		// rp and rg must be drawn inside this loop, uniquely for each
		// dimension of p's velocity.
		rp := s.rng.Float64()
		rg := s.rng.Float64()
		v := s.Omega*p.Vel[d] + s.Phip*rp*(p.Best.At(d)-p.Pos[d])
		if s.best.Len() > 0 {
			v += s.Phig * rg * (s.best.At(d) - p.Pos[d])
		}
		p.Vel[d] = v
	}

	for d := range p.Pos {
		p.Pos[d] += p.Vel[d]
		if p.Pos[d] < s.lb[d] {
			p.Pos[d] = s.lb[d]
		} else if p.Pos[d] > s.ub[d] {
			p.Pos[d] = s.ub[d]
		}
	}
}
