// Package route holds the two route representations the heuristics and
// operators consult in their inner loops: RawRoute (capacity only, for
// CVRP) and TWRoute (capacity + time windows, for VRPTW). Both expose
// incremental feasibility oracles so a hypothetical insertion or range
// replacement can be checked without materializing it.
package route

import "vrpsolve/internal/model"

// RawRoute is an ordered sequence of job-ranks for one vehicle, with
// incremental capacity tracking. current_loads[k] is the load carried
// after serving position k, following the convention that deliveries
// are all aboard at the start and dropped off as the route progresses,
// while pickups accumulate as the route progresses, so
//
//	currentLoads[k] = cumPickup[k] + (totalDelivery - cumDelivery[k])
//
// which keeps currentLoads within [0, capacity] for a feasible route
// without ever needing the vehicle's starting load as a separate input.
type RawRoute struct {
	vehicle int

	Route []int

	cumPickup   []model.Amount
	cumDelivery []model.Amount
	loads       []model.Amount

	// prefixMax[k]/prefixMin[k] hold the component-wise max/min of the
	// start load (totalDelivery) and loads[0..k]; suffixMax[k]/suffixMin[k]
	// hold the same over loads[k..n-1] and the end load (totalPickup).
	// Both let range-margin queries run in O(dim) instead of O(range
	// length).
	prefixMax []model.Amount
	prefixMin []model.Amount
	suffixMax []model.Amount
	suffixMin []model.Amount

	totalPickup   model.Amount
	totalDelivery model.Amount
}

// NewRawRoute returns an empty route for the given vehicle.
func NewRawRoute(in *model.Input, vehicle int) *RawRoute {
	r := &RawRoute{vehicle: vehicle}
	r.UpdateAmounts(in)
	return r
}

// Vehicle returns the vehicle-rank this route belongs to.
func (r *RawRoute) Vehicle() int { return r.vehicle }

// Size returns the number of jobs currently in the route.
func (r *RawRoute) Size() int { return len(r.Route) }

// UpdateAmounts forces a full O(n*dim) recomputation of current_loads
// and the margin arrays from r.Route. It is a no-op on observable
// state when called on a route only ever mutated through Add/Remove/
// Replace -- those already keep the derived arrays correct, so this
// exists for the cases (construction, tests, defensive callers) that
// want to recompute from scratch.
func (r *RawRoute) UpdateAmounts(in *model.Input) {
	n := len(r.Route)
	dim := in.AmountDim()
	r.cumPickup = make([]model.Amount, n)
	r.cumDelivery = make([]model.Amount, n)
	r.loads = make([]model.Amount, n)
	r.prefixMax = make([]model.Amount, n)
	r.prefixMin = make([]model.Amount, n)
	r.suffixMax = make([]model.Amount, n)
	r.suffixMin = make([]model.Amount, n)

	r.totalPickup = model.NewAmount(dim)
	r.totalDelivery = model.NewAmount(dim)
	for _, rank := range r.Route {
		job := in.Jobs()[rank]
		r.totalPickup = r.totalPickup.Add(job.Pickup)
		r.totalDelivery = r.totalDelivery.Add(job.Delivery)
	}

	cumP := model.NewAmount(dim)
	cumD := model.NewAmount(dim)
	for k, rank := range r.Route {
		job := in.Jobs()[rank]
		cumP = cumP.Add(job.Pickup)
		cumD = cumD.Add(job.Delivery)
		r.cumPickup[k] = cumP.Clone()
		r.cumDelivery[k] = cumD.Clone()
		r.loads[k] = cumP.Add(r.totalDelivery.Sub(cumD))
	}

	runningMax := r.totalDelivery
	runningMin := r.totalDelivery
	for k := 0; k < n; k++ {
		runningMax = componentMax(runningMax, r.loads[k])
		runningMin = componentMin(runningMin, r.loads[k])
		r.prefixMax[k] = runningMax
		r.prefixMin[k] = runningMin
	}
	runningMax = r.totalPickup
	runningMin = r.totalPickup
	for k := n - 1; k >= 0; k-- {
		runningMax = componentMax(runningMax, r.loads[k])
		runningMin = componentMin(runningMin, r.loads[k])
		r.suffixMax[k] = runningMax
		r.suffixMin[k] = runningMin
	}
}

// loadBefore returns the (virtual, if pos==0) load entering position
// pos: loads[pos-1], or totalDelivery if pos==0 (everything still to
// deliver is aboard, nothing picked up yet).
func (r *RawRoute) loadBefore(pos int) model.Amount {
	if pos == 0 {
		return r.totalDelivery
	}
	return r.loads[pos-1]
}

// prefixBounds returns the component-wise (max, min) of the start load
// totalDelivery and loads[0..upto) -- just totalDelivery if upto == 0.
func (r *RawRoute) prefixBounds(upto int) (model.Amount, model.Amount) {
	if upto == 0 {
		return r.totalDelivery, r.totalDelivery
	}
	return r.prefixMax[upto-1], r.prefixMin[upto-1]
}

// suffixBounds returns the component-wise (max, min) of loads[from..n)
// and the end load totalPickup -- just totalPickup if from == n.
func (r *RawRoute) suffixBounds(from int) (model.Amount, model.Amount) {
	if from >= len(r.Route) {
		return r.totalPickup, r.totalPickup
	}
	return r.suffixMax[from], r.suffixMin[from]
}

// segmentTotals returns the aggregate (pickup, delivery) currently
// carried by route[first:last).
func (r *RawRoute) segmentTotals(first, last int) (model.Amount, model.Amount) {
	zero := func() model.Amount {
		if len(r.cumPickup) > 0 {
			return model.NewAmount(len(r.cumPickup[0]))
		}
		return model.NewAmount(len(r.totalPickup))
	}
	pBefore, dBefore := zero(), zero()
	if first > 0 {
		pBefore, dBefore = r.cumPickup[first-1], r.cumDelivery[first-1]
	}
	pAfter, dAfter := pBefore, dBefore
	if last > 0 {
		pAfter, dAfter = r.cumPickup[last-1], r.cumDelivery[last-1]
	}
	return pAfter.Sub(pBefore), dAfter.Sub(dBefore)
}

// within reports whether amt stays within [0, capacity] component-wise.
func within(amt, capacity model.Amount) bool {
	for i := range amt {
		if amt[i] < 0 || amt[i] > capacity[i] {
			return false
		}
	}
	return true
}

func componentMax(a, b model.Amount) model.Amount {
	out := make(model.Amount, len(a))
	for i := range a {
		if a[i] >= b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

func componentMin(a, b model.Amount) model.Amount {
	out := make(model.Amount, len(a))
	for i := range a {
		if a[i] <= b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// IsValidAdditionForCapacity reports whether inserting one job with
// the given pickup/delivery amounts at index pos keeps every position
// of the resulting route within [0, capacity]. Runs in O(dim).
func (r *RawRoute) IsValidAdditionForCapacity(in *model.Input, pickup, delivery model.Amount, pos int) bool {
	capacity := in.Vehicles()[r.vehicle].Capacity
	return r.marginsValid(capacity, pickup, delivery, pos, pos)
}

// IsValidAdditionForCapacityMargins is a cheap O(dim) precheck for
// replacing route[first:last) with a subsequence whose aggregate
// pickup/delivery is (pickup, delivery). It only verifies the prefix
// and suffix around the range, which shift by an exactly known delta
// regardless of the interior -- it does not examine the interior, so
// a positive result does not guarantee feasibility; a negative result
// proves infeasibility and lets callers skip the expensive exact
// check (IsValidAdditionForCapacityInclusion).
func (r *RawRoute) IsValidAdditionForCapacityMargins(in *model.Input, pickup, delivery model.Amount, first, last int) bool {
	capacity := in.Vehicles()[r.vehicle].Capacity
	return r.marginsValid(capacity, pickup, delivery, first, last)
}

// marginsValid checks the exact prefix/suffix shift bounds shared by
// both the margins precheck and the exact inclusion check.
func (r *RawRoute) marginsValid(capacity, pickup, delivery model.Amount, first, last int) bool {
	oldPickup, oldDelivery := r.segmentTotals(first, last)
	deltaPickup := pickup.Sub(oldPickup)
	deltaDelivery := delivery.Sub(oldDelivery)

	maxB, minB := r.prefixBounds(first)
	if !within(maxB.Add(deltaDelivery), capacity) || !within(minB.Add(deltaDelivery), capacity) {
		return false
	}
	maxA, minA := r.suffixBounds(last)
	if !within(maxA.Add(deltaPickup), capacity) || !within(minA.Add(deltaPickup), capacity) {
		return false
	}
	// The load right after the replaced range (loads[last-1], or the
	// start load when last == 0) shifts by deltaPickup as well.
	return within(r.loadBefore(last).Add(deltaPickup), capacity)
}

// IsValidAdditionForCapacityInclusion is the exact check for
// replacing route[first:last) with an externally supplied subsequence
// seq (job-ranks), walked in reverse when reverse is true, whose
// aggregate delivery is the given amount (the caller is expected to
// already know this aggregate; the aggregate pickup is derived by
// summing seq here since every element must be looked up anyway).
func (r *RawRoute) IsValidAdditionForCapacityInclusion(in *model.Input, delivery model.Amount, seq []int, reverse bool, first, last int) bool {
	capacity := in.Vehicles()[r.vehicle].Capacity
	dim := in.AmountDim()

	newPickup := model.NewAmount(dim)
	for _, rank := range seq {
		newPickup = newPickup.Add(in.Jobs()[rank].Pickup)
	}
	if !r.marginsValid(capacity, newPickup, delivery, first, last) {
		return false
	}

	base := r.loadBefore(first)
	_, oldDelivery := r.segmentTotals(first, last)
	deltaDelivery := delivery.Sub(oldDelivery)
	base = base.Add(deltaDelivery)

	cumP := model.NewAmount(dim)
	cumD := model.NewAmount(dim)
	idxs := seq
	if reverse {
		idxs = make([]int, len(seq))
		for i, v := range seq {
			idxs[len(seq)-1-i] = v
		}
	}
	for _, rank := range idxs {
		job := in.Jobs()[rank]
		cumP = cumP.Add(job.Pickup)
		cumD = cumD.Add(job.Delivery)
		load := base.Add(cumP).Sub(cumD)
		if !within(load, capacity) {
			return false
		}
	}
	return true
}

// Add inserts job-rank jobRank at index pos and recomputes derived
// state. The caller must have already validated feasibility; this
// mutator assumes the precondition holds.
func (r *RawRoute) Add(in *model.Input, jobRank, pos int) {
	route := make([]int, 0, len(r.Route)+1)
	route = append(route, r.Route[:pos]...)
	route = append(route, jobRank)
	route = append(route, r.Route[pos:]...)
	r.Route = route
	r.UpdateAmounts(in)
}

// Remove deletes count consecutive job-ranks starting at pos.
func (r *RawRoute) Remove(in *model.Input, pos, count int) {
	route := make([]int, 0, len(r.Route)-count)
	route = append(route, r.Route[:pos]...)
	route = append(route, r.Route[pos+count:]...)
	r.Route = route
	r.UpdateAmounts(in)
}

// Replace substitutes route[first:last) with seq.
func (r *RawRoute) Replace(in *model.Input, seq []int, first, last int) {
	route := make([]int, 0, len(r.Route)-(last-first)+len(seq))
	route = append(route, r.Route[:first]...)
	route = append(route, seq...)
	route = append(route, r.Route[last:]...)
	r.Route = route
	r.UpdateAmounts(in)
}

// CurrentLoad returns the load carried after serving position k.
func (r *RawRoute) CurrentLoad(k int) model.Amount { return r.loads[k] }

// JobRanks returns the route's job-ranks in order. Callers must treat
// the returned slice as read-only.
func (r *RawRoute) JobRanks() []int { return r.Route }

// JobAt returns the job-rank at position k.
func (r *RawRoute) JobAt(k int) int { return r.Route[k] }

// IsValidAdditionForTW always holds for a capacity-only route: it
// carries no time-window state to violate. TWRoute shadows this with
// the real propagation-based check.
func (r *RawRoute) IsValidAdditionForTW(in *model.Input, jobRank, pos int) bool { return true }

// IsValidReplacementForTW always holds for a capacity-only route.
// TWRoute shadows this with the real propagation-based check.
func (r *RawRoute) IsValidReplacementForTW(in *model.Input, seq []int, reverse bool, first, last int) bool {
	return true
}
