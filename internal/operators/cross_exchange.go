// Package operators holds local-search moves that improve a solution
// built by heuristics.Solve. CrossExchange is the reference inter-route
// operator: it swaps the two-job edge starting at s_rank in one route
// with the two-job edge starting at t_rank in another, optionally
// reversing either edge, using solution.State's cached edge costs to
// bound the gain before paying for the exact feasibility check.
package operators

import (
	"vrpsolve/internal/model"
	"vrpsolve/internal/route"
	"vrpsolve/internal/solution"
)

// CrossExchange evaluates and applies swapping the edge
// (source[sRank], source[sRank+1]) with (target[tRank], target[tRank+1]).
// Both routes must have at least 2 jobs, and sRank/tRank must each be
// less than their route's size minus 1 -- the same preconditions the
// original operator asserts.
type CrossExchange struct {
	in    *model.Input
	state *solution.State

	source  *route.RawRoute
	sVehicle int
	sRank    int

	target   *route.RawRoute
	tVehicle int
	tRank    int

	gainUpperBoundComputed bool
	normalSGain            model.Gain
	reversedSGain          model.Gain
	normalTGain            model.Gain
	reversedTGain          model.Gain

	reverseSEdge bool
	reverseTEdge bool

	sIsNormalValid  bool
	sIsReverseValid bool
	tIsNormalValid  bool
	tIsReverseValid bool

	gainComputed bool
	storedGain   model.Gain
}

// NewCrossExchange constructs a CrossExchange candidate. The source and
// target routes and vehicle ranks are supplied explicitly (rather than
// derived from source.Vehicle()/target.Vehicle()) to mirror the
// original constructor's parameter list one-for-one.
func NewCrossExchange(in *model.Input, state *solution.State, source *route.RawRoute, sVehicle, sRank int, target *route.RawRoute, tVehicle, tRank int) *CrossExchange {
	return &CrossExchange{
		in:       in,
		state:    state,
		source:   source,
		sVehicle: sVehicle,
		sRank:    sRank,
		target:   target,
		tVehicle: tVehicle,
		tRank:    tRank,
	}
}

// GainUpperBound returns an upper bound on the total gain, computed
// from cached adjacent-edge costs without touching capacity feasibility.
// It must be called before IsValid/ComputeGain.
func (c *CrossExchange) GainUpperBound() model.Gain {
	m := c.in.Matrix()
	jobs := c.in.Jobs()
	vSource := c.in.Vehicles()[c.sVehicle]
	vTarget := c.in.Vehicles()[c.tVehicle]

	sJobs := c.source.JobRanks()
	tJobs := c.target.JobRanks()

	sLoc := jobs[sJobs[c.sRank]].Location
	sAfterLoc := jobs[sJobs[c.sRank+1]].Location
	tLoc := jobs[tJobs[c.tRank]].Location
	tAfterLoc := jobs[tJobs[c.tRank+1]].Location

	var previousCost, nextCost, reversePreviousCost, reverseNextCost model.Cost

	if c.sRank == 0 {
		if vSource.HasStart() {
			p := *vSource.Start
			previousCost = m.Cost(p, tLoc)
			reversePreviousCost = m.Cost(p, tAfterLoc)
		}
	} else {
		p := jobs[sJobs[c.sRank-1]].Location
		previousCost = m.Cost(p, tLoc)
		reversePreviousCost = m.Cost(p, tAfterLoc)
	}

	if c.sRank == len(sJobs)-2 {
		if vSource.HasEnd() {
			n := *vSource.End
			nextCost = m.Cost(tAfterLoc, n)
			reverseNextCost = m.Cost(tLoc, n)
		}
	} else {
		n := jobs[sJobs[c.sRank+2]].Location
		nextCost = m.Cost(tAfterLoc, n)
		reverseNextCost = m.Cost(tLoc, n)
	}

	c.normalSGain = model.Gain(c.state.EdgeCostsAroundEdge(c.sVehicle, c.sRank)) - model.Gain(previousCost) - model.Gain(nextCost)

	reverseEdgeCost := model.Gain(m.Cost(tLoc, tAfterLoc)) - model.Gain(m.Cost(tAfterLoc, tLoc))
	c.reversedSGain = model.Gain(c.state.EdgeCostsAroundEdge(c.sVehicle, c.sRank)) + reverseEdgeCost - model.Gain(reversePreviousCost) - model.Gain(reverseNextCost)

	previousCost, nextCost, reversePreviousCost, reverseNextCost = 0, 0, 0, 0

	if c.tRank == 0 {
		if vTarget.HasStart() {
			p := *vTarget.Start
			previousCost = m.Cost(p, sLoc)
			reversePreviousCost = m.Cost(p, sAfterLoc)
		}
	} else {
		p := jobs[tJobs[c.tRank-1]].Location
		previousCost = m.Cost(p, sLoc)
		reversePreviousCost = m.Cost(p, sAfterLoc)
	}

	if c.tRank == len(tJobs)-2 {
		if vTarget.HasEnd() {
			n := *vTarget.End
			nextCost = m.Cost(sAfterLoc, n)
			reverseNextCost = m.Cost(sLoc, n)
		}
	} else {
		n := jobs[tJobs[c.tRank+2]].Location
		nextCost = m.Cost(sAfterLoc, n)
		reverseNextCost = m.Cost(sLoc, n)
	}

	c.normalTGain = model.Gain(c.state.EdgeCostsAroundEdge(c.tVehicle, c.tRank)) - model.Gain(previousCost) - model.Gain(nextCost)

	reverseEdgeCost = model.Gain(m.Cost(sLoc, sAfterLoc)) - model.Gain(m.Cost(sAfterLoc, sLoc))
	c.reversedTGain = model.Gain(c.state.EdgeCostsAroundEdge(c.tVehicle, c.tRank)) + reverseEdgeCost - model.Gain(reversePreviousCost) - model.Gain(reverseNextCost)

	c.gainUpperBoundComputed = true

	best := func(a, b model.Gain) model.Gain {
		if a > b {
			return a
		}
		return b
	}
	return best(c.normalSGain, c.reversedSGain) + best(c.normalTGain, c.reversedTGain)
}

// IsValid checks vehicle/skill compatibility and capacity feasibility
// for inserting each edge into the other route, in both orientations,
// caching which orientation(s) came out feasible for ComputeGain/Apply.
func (c *CrossExchange) IsValid() bool {
	sJobs := c.source.JobRanks()
	tJobs := c.target.JobRanks()

	sCur, sAfter := sJobs[c.sRank], sJobs[c.sRank+1]
	tCur, tAfter := tJobs[c.tRank], tJobs[c.tRank+1]

	valid := c.in.VehicleOkWithJob(c.tVehicle, sCur)
	valid = valid && c.in.VehicleOkWithJob(c.tVehicle, sAfter)
	valid = valid && c.in.VehicleOkWithJob(c.sVehicle, tCur)
	valid = valid && c.in.VehicleOkWithJob(c.sVehicle, tAfter)
	if !valid {
		return false
	}

	jobs := c.in.Jobs()
	targetPickup := jobs[tCur].Pickup.Add(jobs[tAfter].Pickup)
	targetDelivery := jobs[tCur].Delivery.Add(jobs[tAfter].Delivery)

	valid = c.source.IsValidAdditionForCapacityMargins(c.in, targetPickup, targetDelivery, c.sRank, c.sRank+2)
	if !valid {
		return false
	}

	c.sIsNormalValid = c.source.IsValidAdditionForCapacityInclusion(c.in, targetDelivery, []int{tCur, tAfter}, false, c.sRank, c.sRank+2)
	c.sIsReverseValid = c.source.IsValidAdditionForCapacityInclusion(c.in, targetDelivery, []int{tCur, tAfter}, true, c.sRank, c.sRank+2)
	if !c.sIsNormalValid && !c.sIsReverseValid {
		return false
	}

	sourcePickup := jobs[sCur].Pickup.Add(jobs[sAfter].Pickup)
	sourceDelivery := jobs[sCur].Delivery.Add(jobs[sAfter].Delivery)

	if !c.target.IsValidAdditionForCapacityMargins(c.in, sourcePickup, sourceDelivery, c.tRank, c.tRank+2) {
		return false
	}

	c.tIsNormalValid = c.target.IsValidAdditionForCapacityInclusion(c.in, sourceDelivery, []int{sCur, sAfter}, false, c.tRank, c.tRank+2)
	c.tIsReverseValid = c.target.IsValidAdditionForCapacityInclusion(c.in, sourceDelivery, []int{sCur, sAfter}, true, c.tRank, c.tRank+2)
	return c.tIsNormalValid || c.tIsReverseValid
}

// ComputeGain picks, independently for each side, whichever feasible
// orientation yields the larger gain, and returns the total. IsValid
// must have returned true first.
func (c *CrossExchange) ComputeGain() model.Gain {
	c.storedGain = 0

	if c.reversedSGain > c.normalSGain {
		if c.sIsReverseValid {
			c.storedGain += c.reversedSGain
			c.reverseTEdge = true
		} else {
			c.storedGain += c.normalSGain
		}
	} else {
		if c.sIsNormalValid {
			c.storedGain += c.normalSGain
		} else {
			c.storedGain += c.reversedSGain
			c.reverseTEdge = true
		}
	}

	if c.reversedTGain > c.normalTGain {
		if c.tIsReverseValid {
			c.storedGain += c.reversedTGain
			c.reverseSEdge = true
		} else {
			c.storedGain += c.normalTGain
		}
	} else {
		if c.tIsNormalValid {
			c.storedGain += c.normalTGain
		} else {
			c.storedGain += c.reversedTGain
			c.reverseSEdge = true
		}
	}

	c.gainComputed = true
	return c.storedGain
}

// Apply performs the swap in place, reversing whichever edge
// ComputeGain determined should be reversed, then refreshes both
// routes' derived capacity state through RawRoute.Replace; time-window
// state of an enclosing TWRoute is not refreshed.
func (c *CrossExchange) Apply() {
	sJobs := c.source.JobRanks()
	tJobs := c.target.JobRanks()

	// reverseTEdge means "reverse the target edge", which after the
	// swap sits in the source route; reverseSEdge means "reverse the
	// source edge", which after the swap sits in the target route --
	// naming matches the original operator's apply().
	sSeq := []int{tJobs[c.tRank], tJobs[c.tRank+1]}
	if c.reverseTEdge {
		sSeq[0], sSeq[1] = sSeq[1], sSeq[0]
	}
	tSeq := []int{sJobs[c.sRank], sJobs[c.sRank+1]}
	if c.reverseSEdge {
		tSeq[0], tSeq[1] = tSeq[1], tSeq[0]
	}

	c.source.Replace(c.in, sSeq, c.sRank, c.sRank+2)
	c.target.Replace(c.in, tSeq, c.tRank, c.tRank+2)
}
