// Package heuristics builds an initial solution by greedy insertion,
// mirroring the basic and dynamic_vehicle_choice construction templates:
// each unassigned job is scored by the cost of its cheapest feasible
// insertion point minus lambda times a reference cost, and the
// cheapest-scoring job is inserted until no more insertions are
// feasible.
package heuristics

import (
	"context"
	"errors"
	"sort"

	"vrpsolve/internal/model"
	"vrpsolve/internal/route"
)

// Strategy selects which construction template drives Solve.
type Strategy int

const (
	// Basic scores every job against a single reference vehicle's
	// empty-route cost and processes vehicles in a fixed order.
	Basic Strategy = iota
	// DynamicVehicleChoice re-ranks the remaining vehicles after every
	// vehicle is filled, picking next whichever remaining vehicle is
	// the closest match for the largest number of still-unassigned
	// jobs, and scores jobs with a per-job regret against that choice.
	DynamicVehicleChoice
)

// Init selects how, if at all, each vehicle's route is seeded with one
// job before the greedy loop starts.
type Init int

const (
	// InitNone starts every route empty.
	InitNone Init = iota
	// InitHigherAmount seeds with the unassigned job whose pickup or
	// delivery amount dominates (≺) all others considered, in the
	// strict per-dimension order Amount.Dominates defines.
	InitHigherAmount
	// InitEarliestDeadline seeds with the unassigned job whose last
	// declared time window ends soonest.
	InitEarliestDeadline
	// InitFurthest seeds with the unassigned job with the largest
	// reference cost from the vehicle (furthest from the depot).
	InitFurthest
	// InitNearest seeds with the unassigned job with the smallest
	// reference cost from the vehicle (nearest to the depot).
	InitNearest
)

// NewRoute constructs an empty route.Like for the given vehicle. The
// caller supplies route.NewRawRoute or route.NewTWRoute depending on
// whether time windows are in play.
type NewRoute func(in *model.Input, vehicle int) route.Like

// Result is the outcome of one construction run.
type Result struct {
	Routes     []route.Like
	Unassigned []int
}

// ErrCanceled is returned, wrapped, when ctx is canceled mid-run.
var ErrCanceled = errors.New("heuristics: canceled")

// ProgressFunc is notified once per vehicle processed: vehicleRank is
// the vehicle just finished (seeded and filled to exhaustion),
// vehiclesDone/vehiclesTotal count progress, and unassigned is the
// current size of the unassigned set. It is a pure callback -- the
// core performs no I/O itself; a collaborator (internal/progress)
// may use it to stream updates over a websocket.
type ProgressFunc func(vehicleRank, vehiclesDone, vehiclesTotal, unassigned int)

// Option configures an optional aspect of a Solve call.
type Option func(*options)

type options struct {
	progress ProgressFunc
}

// WithProgress registers fn to be called after each vehicle is
// processed. Passing nil (or omitting the option) disables reporting.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

func buildOptions(opts []Option) options {
	var o options
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// Solve runs the selected construction strategy over in and returns one
// route per vehicle (in vehicle-rank order, some possibly empty) plus
// the job-ranks, ascending, that could not be inserted anywhere.
// Cancellation is checked once per vehicle processed.
func Solve(ctx context.Context, in *model.Input, strategy Strategy, init Init, lambda float64, newRoute NewRoute, opts ...Option) (Result, error) {
	o := buildOptions(opts)
	switch strategy {
	case DynamicVehicleChoice:
		return dynamicVehicleChoice(ctx, in, init, lambda, newRoute, o)
	default:
		return basic(ctx, in, init, lambda, newRoute, o)
	}
}

func emptyRouteCost(in *model.Input, vehicle model.Vehicle, job model.Job) model.Cost {
	m := in.Matrix()
	var c model.Cost
	if vehicle.HasStart() {
		c += m.Cost(*vehicle.Start, job.Location)
	}
	if vehicle.HasEnd() {
		c += m.Cost(job.Location, *vehicle.End)
	}
	return c
}

// additionCost returns the marginal travel cost of inserting jobRank at
// index pos of r: cost(prev,job)+cost(job,next)-cost(prev,next), using
// the vehicle's start/end depot at the boundaries and 0 for a leg with
// no depot to anchor it.
func additionCost(in *model.Input, vehicle model.Vehicle, r route.Like, jobRank, pos int) model.Cost {
	m := in.Matrix()
	jobs := in.Jobs()
	loc := jobs[jobRank].Location
	n := r.Size()

	prevLoc, havePrev := 0, false
	if pos == 0 {
		if vehicle.HasStart() {
			prevLoc, havePrev = *vehicle.Start, true
		}
	} else {
		prevLoc, havePrev = jobs[r.JobAt(pos-1)].Location, true
	}
	nextLoc, haveNext := 0, false
	if pos == n {
		if vehicle.HasEnd() {
			nextLoc, haveNext = *vehicle.End, true
		}
	} else {
		nextLoc, haveNext = jobs[r.JobAt(pos)].Location, true
	}

	var added model.Cost
	if havePrev {
		added += m.Cost(prevLoc, loc)
	}
	if haveNext {
		added += m.Cost(loc, nextLoc)
	}
	var removed model.Cost
	if havePrev && haveNext {
		removed = m.Cost(prevLoc, nextLoc)
	}
	return added - removed
}

// vehicleLess orders vehicles by capacity dominance first: a vehicle
// whose capacity dominates another's comes first; among equal
// capacities, the vehicle with the longer time window comes first.
// Stable, so equal vehicles keep their input order.
func vehicleLess(vehicles []model.Vehicle) func(i, j int) bool {
	return func(i, j int) bool {
		vi, vj := vehicles[i], vehicles[j]
		if vj.Capacity.Dominates(vi.Capacity) {
			return true
		}
		if vi.Capacity.Dominates(vj.Capacity) {
			return false
		}
		if vi.Capacity.Equal(vj.Capacity) {
			return model.TWLength(vi) > model.TWLength(vj)
		}
		return false
	}
}

func removeUnassigned(unassigned []int, jobRank int) []int {
	for i, j := range unassigned {
		if j == jobRank {
			return append(unassigned[:i], unassigned[i+1:]...)
		}
	}
	return unassigned
}

// feasible reports whether jobRank can be inserted at pos of r under
// both capacity and (if applicable) time-window constraints.
func feasible(in *model.Input, r route.Like, jobRank, pos int) bool {
	job := in.Jobs()[jobRank]
	if !r.IsValidAdditionForCapacity(in, job.Pickup, job.Delivery, pos) {
		return false
	}
	return r.IsValidAdditionForTW(in, jobRank, pos)
}

// seedIndex picks, per init, which unassigned job (if any) to seed r
// with before the greedy loop, restricted to jobs the vehicle is
// compatible with and that are feasible at position 0. refCost, when
// non-nil, supplies the reference cost InitFurthest/InitNearest rank
// by (defaults to emptyRouteCost against vehicle when nil).
func seedIndex(in *model.Input, vehicle model.Vehicle, vehicleRank int, r route.Like, unassigned []int, init Init, refCost func(jobRank int) model.Cost) (int, bool) {
	if init == InitHigherAmount {
		return seedHigherAmount(in, vehicleRank, r, unassigned)
	}
	if refCost == nil {
		refCost = func(jobRank int) model.Cost {
			return emptyRouteCost(in, vehicle, in.Jobs()[jobRank])
		}
	}

	best := -1
	var bestKey int64
	haveBest := false

	for _, jobRank := range unassigned {
		if !in.VehicleOkWithJob(vehicleRank, jobRank) {
			continue
		}
		if !feasible(in, r, jobRank, 0) {
			continue
		}
		job := in.Jobs()[jobRank]

		var key int64
		switch init {
		case InitEarliestDeadline:
			key = int64(job.TWs[len(job.TWs)-1].End)
		case InitFurthest:
			key = -int64(refCost(jobRank))
		case InitNearest:
			key = int64(refCost(jobRank))
		default:
			return -1, false
		}

		if !haveBest || key < bestKey {
			haveBest = true
			bestKey = key
			best = jobRank
		}
	}
	return best, haveBest
}

// seedHigherAmount seeds with the job whose pickup or delivery
// dominates (≺) a running "higher amount" threshold, each dominating
// hit raising the threshold to that amount so later candidates must
// clear the new bar. This is a running max-chain, not a total order:
// with several incomparable candidates, whichever is checked last
// among those clearing the current threshold wins, which is why
// unassigned is walked in ascending job-rank order.
func seedHigherAmount(in *model.Input, vehicleRank int, r route.Like, unassigned []int) (int, bool) {
	best := -1
	haveBest := false
	higher := in.ZeroAmount()

	for _, jobRank := range unassigned {
		if !in.VehicleOkWithJob(vehicleRank, jobRank) {
			continue
		}
		if !feasible(in, r, jobRank, 0) {
			continue
		}
		job := in.Jobs()[jobRank]

		if higher.Dominates(job.Pickup) {
			higher = job.Pickup
			best, haveBest = jobRank, true
		}
		if higher.Dominates(job.Delivery) {
			higher = job.Delivery
			best, haveBest = jobRank, true
		}
	}
	return best, haveBest
}

func basic(ctx context.Context, in *model.Input, init Init, lambda float64, newRoute NewRoute, o options) (Result, error) {
	jobs := in.Jobs()
	vehicles := in.Vehicles()

	routes := make([]route.Like, len(vehicles))
	for v := range vehicles {
		routes[v] = newRoute(in, v)
	}

	unassigned := make([]int, len(jobs))
	for j := range jobs {
		unassigned[j] = j
	}

	vehiclesRanks := make([]int, len(vehicles))
	for v := range vehiclesRanks {
		vehiclesRanks[v] = v
	}
	sort.SliceStable(vehiclesRanks, func(a, b int) bool {
		less := vehicleLess(vehicles)
		return less(vehiclesRanks[a], vehiclesRanks[b])
	})

	reference := vehicles[0]
	costs := make([]model.Cost, len(jobs))
	for j, job := range jobs {
		costs[j] = emptyRouteCost(in, reference, job)
	}

	for done, vRank := range vehiclesRanks {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Join(ErrCanceled, err)
		}
		if len(unassigned) == 0 {
			if o.progress != nil {
				o.progress(vRank, done+1, len(vehiclesRanks), len(unassigned))
			}
			break
		}
		vehicle := vehicles[vRank]
		r := routes[vRank]

		if init != InitNone {
			if seed, ok := seedIndex(in, vehicle, vRank, r, unassigned, init, func(jr int) model.Cost {
				return costs[jr]
			}); ok {
				r.Add(in, seed, 0)
				unassigned = removeUnassigned(unassigned, seed)
			}
		}

		for {
			bestJob, bestPos := -1, -1
			var bestScore float64
			for _, jobRank := range unassigned {
				if !in.VehicleOkWithJob(vRank, jobRank) {
					continue
				}
				for pos := 0; pos <= r.Size(); pos++ {
					if !feasible(in, r, jobRank, pos) {
						continue
					}
					cost := additionCost(in, vehicle, r, jobRank, pos)
					score := float64(cost) - lambda*float64(costs[jobRank])
					if bestJob == -1 || score < bestScore {
						bestJob, bestPos, bestScore = jobRank, pos, score
					}
				}
			}
			if bestJob == -1 {
				break
			}
			r.Add(in, bestJob, bestPos)
			unassigned = removeUnassigned(unassigned, bestJob)
		}

		if o.progress != nil {
			o.progress(vRank, done+1, len(vehiclesRanks), len(unassigned))
		}
	}

	sort.Ints(unassigned)
	return Result{Routes: routes, Unassigned: unassigned}, nil
}

func dynamicVehicleChoice(ctx context.Context, in *model.Input, init Init, lambda float64, newRoute NewRoute, o options) (Result, error) {
	jobs := in.Jobs()
	vehicles := in.Vehicles()

	routes := make([]route.Like, len(vehicles))
	for v := range vehicles {
		routes[v] = newRoute(in, v)
	}

	unassigned := make([]int, len(jobs))
	for j := range jobs {
		unassigned[j] = j
	}

	vehiclesRanks := make([]int, len(vehicles))
	for v := range vehiclesRanks {
		vehiclesRanks[v] = v
	}
	totalVehicles := len(vehiclesRanks)

	// costs[j][v] is job j's empty-route cost with vehicle v, computed
	// once up front -- it never depends on which other vehicles remain.
	costs := make([][]model.Cost, len(jobs))
	for j, job := range jobs {
		costs[j] = make([]model.Cost, len(vehicles))
		for v, vehicle := range vehicles {
			costs[j][v] = emptyRouteCost(in, vehicle, job)
		}
	}

	for len(vehiclesRanks) > 0 && len(unassigned) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Join(ErrCanceled, err)
		}

		minCost := make(map[int]model.Cost, len(unassigned))
		secondMinCost := make(map[int]model.Cost, len(unassigned))
		for _, j := range unassigned {
			min1, min2 := model.Cost(0), model.Cost(0)
			first, haveSecond := true, false
			for _, v := range vehiclesRanks {
				c := costs[j][v]
				switch {
				case first:
					min1, first = c, false
				case c < min1:
					min2, min1, haveSecond = min1, c, true
				case !haveSecond || c < min2:
					min2, haveSecond = c, true
				}
			}
			minCost[j] = min1
			secondMinCost[j] = min2
		}

		closest := make(map[int]int, len(vehiclesRanks))
		for _, v := range vehiclesRanks {
			count := 0
			for _, j := range unassigned {
				if costs[j][v] == minCost[j] {
					count++
				}
			}
			closest[v] = count
		}

		less := vehicleLess(vehicles)
		chosenIdx := 0
		for i := 1; i < len(vehiclesRanks); i++ {
			cand, cur := vehiclesRanks[i], vehiclesRanks[chosenIdx]
			if closest[cand] > closest[cur] || (closest[cand] == closest[cur] && less(cand, cur)) {
				chosenIdx = i
			}
		}
		vRank := vehiclesRanks[chosenIdx]
		vehiclesRanks = append(vehiclesRanks[:chosenIdx], vehiclesRanks[chosenIdx+1:]...)

		vehicle := vehicles[vRank]
		r := routes[vRank]

		regret := make(map[int]model.Cost, len(unassigned))
		for _, j := range unassigned {
			if minCost[j] < costs[j][vRank] {
				regret[j] = minCost[j]
			} else {
				regret[j] = secondMinCost[j]
			}
		}

		if init != InitNone {
			seedCandidates := unassigned
			if len(seedCandidates) > 0 {
				filtered := make([]int, 0, len(seedCandidates))
				for _, j := range seedCandidates {
					if costs[j][vRank] == minCost[j] {
						filtered = append(filtered, j)
					}
				}
				if len(filtered) > 0 {
					seedCandidates = filtered
				}
			}
			if seed, ok := seedIndex(in, vehicle, vRank, r, seedCandidates, init, func(jr int) model.Cost {
				return costs[jr][vRank]
			}); ok {
				r.Add(in, seed, 0)
				unassigned = removeUnassigned(unassigned, seed)
			}
		}

		for {
			bestJob, bestPos := -1, -1
			var bestScore float64
			for _, jobRank := range unassigned {
				if !in.VehicleOkWithJob(vRank, jobRank) {
					continue
				}
				for pos := 0; pos <= r.Size(); pos++ {
					if !feasible(in, r, jobRank, pos) {
						continue
					}
					cost := additionCost(in, vehicle, r, jobRank, pos)
					score := float64(cost) - lambda*float64(regret[jobRank])
					if bestJob == -1 || score < bestScore {
						bestJob, bestPos, bestScore = jobRank, pos, score
					}
				}
			}
			if bestJob == -1 {
				break
			}
			r.Add(in, bestJob, bestPos)
			unassigned = removeUnassigned(unassigned, bestJob)
		}

		if o.progress != nil {
			o.progress(vRank, totalVehicles-len(vehiclesRanks), totalVehicles, len(unassigned))
		}
	}

	sort.Ints(unassigned)
	return Result{Routes: routes, Unassigned: unassigned}, nil
}
