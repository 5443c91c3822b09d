package route

import "vrpsolve/internal/model"

// TWRoute extends RawRoute with incremental time-window feasibility
// tracking: for each position k, earliest[k]/latest[k] bound the
// feasible service start, and twRank[k] records which of the job's
// declared windows is active.
type TWRoute struct {
	RawRoute

	earliest []model.Duration
	latest   []model.Duration
	twRank   []int
}

// NewTWRoute returns an empty time-window-tracking route for the
// given vehicle.
func NewTWRoute(in *model.Input, vehicle int) *TWRoute {
	r := &TWRoute{RawRoute: RawRoute{vehicle: vehicle}}
	r.RawRoute.UpdateAmounts(in)
	r.updateTW(in)
	return r
}

// Earliest returns the earliest feasible service start at position k.
func (r *TWRoute) Earliest(k int) model.Duration { return r.earliest[k] }

// Latest returns the latest feasible service start at position k.
func (r *TWRoute) Latest(k int) model.Duration { return r.latest[k] }

// TWRank returns the index, within job k's declared windows, of the
// window chosen for the current route.
func (r *TWRoute) TWRank(k int) int { return r.twRank[k] }

// chooseWindow returns the earliest window (by declaration order,
// ascending start time) whose End is at least arrival, leaving
// maximum slack for subsequent jobs. Returns ok=false if no window
// can accommodate the arrival.
func chooseWindow(tws []model.TimeWindow, arrival model.Duration) (int, bool) {
	for i, tw := range tws {
		if tw.End >= arrival {
			return i, true
		}
	}
	return 0, false
}

// propagate runs forward and backward propagation over seq (job-ranks)
// for the given vehicle, returning per-position earliest/latest/twRank
// and whether the sequence is feasible (earliest[k] <= latest[k]
// everywhere, with some window choice, for every position).
func propagate(in *model.Input, vehicle model.Vehicle, seq []int) ([]model.Duration, []model.Duration, []int, bool) {
	n := len(seq)
	earliest := make([]model.Duration, n)
	latest := make([]model.Duration, n)
	twRank := make([]int, n)
	if n == 0 {
		return earliest, latest, twRank, true
	}
	m := in.Matrix()
	jobs := in.Jobs()

	arrival := vehicle.TW.Start
	if vehicle.HasStart() {
		arrival += m.Duration(*vehicle.Start, jobs[seq[0]].Location)
	}
	for k := 0; k < n; k++ {
		job := jobs[seq[k]]
		idx, ok := chooseWindow(job.TWs, arrival)
		if !ok {
			return earliest, latest, twRank, false
		}
		twRank[k] = idx
		start := job.TWs[idx].Start
		if arrival > start {
			start = arrival
		}
		earliest[k] = start
		if k+1 < n {
			arrival = start + job.Service + m.Duration(job.Location, jobs[seq[k+1]].Location)
		}
	}

	back := vehicle.TW.End
	if vehicle.HasEnd() {
		lastJob := jobs[seq[n-1]]
		back -= m.Duration(lastJob.Location, *vehicle.End)
	}
	for k := n - 1; k >= 0; k-- {
		job := jobs[seq[k]]
		end := job.TWs[twRank[k]].End
		cap := back - job.Service
		if cap < end {
			end = cap
		}
		latest[k] = end
		if earliest[k] > latest[k] {
			return earliest, latest, twRank, false
		}
		if k > 0 {
			prevJob := jobs[seq[k-1]]
			back = latest[k] - m.Duration(prevJob.Location, job.Location)
		}
	}
	return earliest, latest, twRank, true
}

// updateTW recomputes earliest/latest/twRank for the current route
// from scratch, in O(n).
func (r *TWRoute) updateTW(in *model.Input) {
	vehicle := in.Vehicles()[r.vehicle]
	earliest, latest, twRank, ok := propagate(in, vehicle, r.Route)
	r.earliest, r.latest, r.twRank = earliest, latest, twRank
	if !ok {
		panic("route: TWRoute holds an infeasible sequence; mutators must only be called after a positive IsValidAdditionForTW")
	}
}

// IsValidAdditionForTW reports whether inserting jobRank at index pos
// admits a choice of job-window such that the resulting route is
// time-window feasible start to finish. Pure predicate, linear in
// route length, no exceptions.
func (r *TWRoute) IsValidAdditionForTW(in *model.Input, jobRank, pos int) bool {
	seq := make([]int, 0, len(r.Route)+1)
	seq = append(seq, r.Route[:pos]...)
	seq = append(seq, jobRank)
	seq = append(seq, r.Route[pos:]...)
	vehicle := in.Vehicles()[r.vehicle]
	_, _, _, ok := propagate(in, vehicle, seq)
	return ok
}

// IsValidReplacementForTW reports whether replacing route[first:last)
// with seq (job-ranks, in the given order) keeps the route
// time-window feasible.
func (r *TWRoute) IsValidReplacementForTW(in *model.Input, seq []int, reverse bool, first, last int) bool {
	ids := seq
	if reverse {
		ids = make([]int, len(seq))
		for i, v := range seq {
			ids[len(seq)-1-i] = v
		}
	}
	candidate := make([]int, 0, len(r.Route)-(last-first)+len(ids))
	candidate = append(candidate, r.Route[:first]...)
	candidate = append(candidate, ids...)
	candidate = append(candidate, r.Route[last:]...)
	vehicle := in.Vehicles()[r.vehicle]
	_, _, _, ok := propagate(in, vehicle, candidate)
	return ok
}

// Add inserts job-rank jobRank at index pos, recomputing both the
// capacity and time-window derived arrays. Callers must have already
// validated both IsValidAdditionForCapacity and IsValidAdditionForTW.
func (r *TWRoute) Add(in *model.Input, jobRank, pos int) {
	r.RawRoute.Add(in, jobRank, pos)
	r.updateTW(in)
}

// Remove deletes count consecutive job-ranks starting at pos.
func (r *TWRoute) Remove(in *model.Input, pos, count int) {
	r.RawRoute.Remove(in, pos, count)
	r.updateTW(in)
}

// Replace substitutes route[first:last) with seq.
func (r *TWRoute) Replace(in *model.Input, seq []int, first, last int) {
	r.RawRoute.Replace(in, seq, first, last)
	r.updateTW(in)
}

// UpdateAmounts forces a full recomputation of both capacity and
// time-window derived state.
func (r *TWRoute) UpdateAmounts(in *model.Input) {
	r.RawRoute.UpdateAmounts(in)
	r.updateTW(in)
}
