package model

import "fmt"

// Input is the immutable problem instance: jobs, vehicles, the travel
// matrix, and the vehicle/job compatibility predicate. It is built once
// by NewInput and never mutated afterwards, so a single *Input may be
// shared (read-only) across any number of concurrently running solves.
type Input struct {
	jobs      []Job
	vehicles  []Vehicle
	matrix    Matrix
	dim       int
	locations int
}

// NewInput validates and constructs an Input. Inconsistent input --
// mismatched amount dimensions, a job/vehicle location outside the
// matrix, a nonzero diagonal entry -- is reported here, before any solving
// begins, rather than discovered mid-heuristic.
func NewInput(jobs []Job, vehicles []Vehicle, matrix Matrix, locations int) (*Input, error) {
	if matrix == nil {
		return nil, fmt.Errorf("model: matrix must not be nil")
	}
	if locations <= 0 {
		return nil, fmt.Errorf("model: locations must be positive, got %d", locations)
	}
	for i := 0; i < locations; i++ {
		if c := matrix.Cost(i, i); c != 0 {
			return nil, fmt.Errorf("model: matrix diagonal must be zero, m[%d][%d]=%d", i, i, c)
		}
	}

	dim := -1
	for _, j := range jobs {
		if j.Location < 0 || j.Location >= locations {
			return nil, fmt.Errorf("model: job %d location %d out of range [0,%d)", j.Index, j.Location, locations)
		}
		if len(j.TWs) == 0 {
			return nil, fmt.Errorf("model: job %d has no time windows", j.Index)
		}
		for _, tw := range j.TWs {
			if tw.Start > tw.End {
				return nil, fmt.Errorf("model: job %d has an inverted time window [%d,%d]", j.Index, tw.Start, tw.End)
			}
		}
		if dim == -1 {
			dim = len(j.Pickup)
		}
		if len(j.Pickup) != dim || len(j.Delivery) != dim {
			return nil, fmt.Errorf("model: job %d amount dimension mismatch", j.Index)
		}
	}
	for _, v := range vehicles {
		if v.Start != nil && (*v.Start < 0 || *v.Start >= locations) {
			return nil, fmt.Errorf("model: vehicle %d start %d out of range [0,%d)", v.Index, *v.Start, locations)
		}
		if v.End != nil && (*v.End < 0 || *v.End >= locations) {
			return nil, fmt.Errorf("model: vehicle %d end %d out of range [0,%d)", v.Index, *v.End, locations)
		}
		if v.TW.Start > v.TW.End {
			return nil, fmt.Errorf("model: vehicle %d has an inverted time window", v.Index)
		}
		if dim == -1 {
			dim = len(v.Capacity)
		}
		if len(v.Capacity) != dim {
			return nil, fmt.Errorf("model: vehicle %d capacity dimension mismatch", v.Index)
		}
	}
	if dim == -1 {
		dim = 0
	}

	return &Input{
		jobs:      jobs,
		vehicles:  vehicles,
		matrix:    matrix,
		dim:       dim,
		locations: locations,
	}, nil
}

// Jobs returns the problem's jobs, indexed by job-rank.
func (in *Input) Jobs() []Job { return in.jobs }

// Vehicles returns the problem's vehicles, indexed by vehicle-rank.
func (in *Input) Vehicles() []Vehicle { return in.vehicles }

// Matrix returns the travel matrix.
func (in *Input) Matrix() Matrix { return in.matrix }

// ZeroAmount returns the additive identity in this Input's load space.
func (in *Input) ZeroAmount() Amount { return NewAmount(in.dim) }

// AmountDim reports the shared amount dimension.
func (in *Input) AmountDim() int { return in.dim }

// VehicleOkWithJob holds iff vehicle v's skill set is a superset of
// job j's required skills.
func (in *Input) VehicleOkWithJob(v, j int) bool {
	vehicle := in.vehicles[v]
	job := in.jobs[j]
	for skill := range job.Skills {
		if _, ok := vehicle.Skills[skill]; !ok {
			return false
		}
	}
	return true
}

// TWLength exposes the vehicle working-window length used by the
// heuristics' vehicle ordering (descending capacity, then descending
// window length).
func TWLength(v Vehicle) Duration { return v.TW.length() }
