// Package solution caches per-edge costs and gains derived from the
// current set of routes, so local-search operators (such as
// operators.CrossExchange) can evaluate candidate moves in O(1)
// instead of re-walking affected routes on every trial.
package solution

import (
	"sort"

	"vrpsolve/internal/model"
	"vrpsolve/internal/route"
)

// State holds, per vehicle and per position, the edge-cost and gain
// caches local-search operators consult. It must be refreshed via
// Setup after any batch of accepted moves over the affected
// vehicle(s).
type State struct {
	in *model.Input

	// edgeCostsAroundEdge[v][k] is the sum of matrix costs on the two
	// edges adjacent to the edge starting at k: predecessor(k)->k and
	// (k+1)->successor(k+1), using the vehicle's start/end when an
	// edge touches a route boundary.
	edgeCostsAroundEdge [][]model.Cost

	// nodeGains[v][k] is the gain from removing the single job at k.
	nodeGains [][]model.Gain

	// edgeGains[v][k] is the gain from removing the two-job edge
	// starting at k (positions k and k+1).
	edgeGains [][]model.Gain

	// neighbors[j] holds every other job's rank, ordered nearest
	// first by travel cost from j's location -- the candidate list
	// operators consult instead of scanning every job pair.
	neighbors [][]int
}

// NewState builds an empty State sized for in's vehicle/job counts;
// call Setup once an initial set of routes exists.
func NewState(in *model.Input) *State {
	s := &State{in: in}
	s.buildNeighbors()
	return s
}

func (s *State) buildNeighbors() {
	jobs := s.in.Jobs()
	m := s.in.Matrix()
	s.neighbors = make([][]int, len(jobs))
	for j := range jobs {
		others := make([]int, 0, len(jobs)-1)
		for k := range jobs {
			if k != j {
				others = append(others, k)
			}
		}
		jLoc := jobs[j].Location
		sort.Slice(others, func(a, b int) bool {
			ca := m.Cost(jLoc, jobs[others[a]].Location)
			cb := m.Cost(jLoc, jobs[others[b]].Location)
			if ca != cb {
				return ca < cb
			}
			return others[a] < others[b]
		})
		s.neighbors[j] = others
	}
}

// Neighbors returns job-ranks ordered nearest-first to job j.
func (s *State) Neighbors(j int) []int { return s.neighbors[j] }

// Setup recomputes the per-vehicle edge caches from the current
// routes. routes must be indexed by vehicle-rank.
func (s *State) Setup(routes []route.Like) {
	s.edgeCostsAroundEdge = make([][]model.Cost, len(routes))
	s.nodeGains = make([][]model.Gain, len(routes))
	s.edgeGains = make([][]model.Gain, len(routes))

	m := s.in.Matrix()
	jobs := s.in.Jobs()

	for v, r := range routes {
		n := r.Size()
		costs := make([]model.Cost, n)
		s.nodeGains[v] = make([]model.Gain, n)
		s.edgeGains[v] = make([]model.Gain, n)

		vehicle := s.in.Vehicles()[r.Vehicle()]

		prevLoc := func(k int) (int, bool) {
			if k == 0 {
				if vehicle.HasStart() {
					return *vehicle.Start, true
				}
				return 0, false
			}
			return jobs[r.JobAt(k-1)].Location, true
		}
		nextLoc := func(k int) (int, bool) {
			if k == n-1 {
				if vehicle.HasEnd() {
					return *vehicle.End, true
				}
				return 0, false
			}
			return jobs[r.JobAt(k+1)].Location, true
		}
		aroundEdge := func(k int) model.Cost {
			var total model.Cost
			if p, ok := prevLoc(k); ok {
				total += m.Cost(p, jobs[r.JobAt(k)].Location)
			}
			if nx, ok := nextLoc(k + 1); ok {
				total += m.Cost(jobs[r.JobAt(k+1)].Location, nx)
			}
			return total
		}

		for k := 0; k < n; k++ {
			if k < n-1 {
				costs[k] = aroundEdge(k)
			}

			loc := jobs[r.JobAt(k)].Location
			var removed model.Cost
			if p, ok := prevLoc(k); ok {
				removed += m.Cost(p, loc)
			}
			if nx, ok := nextLoc(k); ok {
				removed += m.Cost(loc, nx)
			}
			var bridge model.Cost
			p, pok := prevLoc(k)
			nx, nok := nextLoc(k)
			if pok && nok {
				bridge = m.Cost(p, nx)
			} else if pok {
				bridge = 0
			} else if nok {
				bridge = 0
			}
			s.nodeGains[v][k] = model.Gain(removed) - model.Gain(bridge)
		}

		for k := 0; k < n-1; k++ {
			locK := jobs[r.JobAt(k)].Location
			locK1 := jobs[r.JobAt(k + 1)].Location
			var removed model.Cost
			if p, ok := prevLoc(k); ok {
				removed += m.Cost(p, locK)
			}
			removed += m.Cost(locK, locK1)
			if nx, ok := nextLoc(k + 1); ok {
				removed += m.Cost(locK1, nx)
			}
			var bridge model.Cost
			p, pok := prevLoc(k)
			nx, nok := nextLoc(k + 1)
			switch {
			case pok && nok:
				bridge = m.Cost(p, nx)
			default:
				bridge = 0
			}
			s.edgeGains[v][k] = model.Gain(removed) - model.Gain(bridge)
		}

		s.edgeCostsAroundEdge[v] = costs
	}
}

// EdgeCostsAroundEdge returns the cached adjacent-edge cost sum for
// the edge starting at rank in vehicle v's route.
func (s *State) EdgeCostsAroundEdge(v, rank int) model.Cost { return s.edgeCostsAroundEdge[v][rank] }

// NodeGain returns the cached single-node removal gain.
func (s *State) NodeGain(v, rank int) model.Gain { return s.nodeGains[v][rank] }

// EdgeGain returns the cached two-node edge removal gain.
func (s *State) EdgeGain(v, rank int) model.Gain { return s.edgeGains[v][rank] }
