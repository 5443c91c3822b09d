package route

import (
	"testing"

	"vrpsolve/internal/model"
)

func twJob(index, location int, windows ...model.TimeWindow) model.Job {
	return model.Job{
		Index:    index,
		Location: location,
		Pickup:   model.Amount{0},
		Delivery: model.Amount{1},
		TWs:      windows,
	}
}

func twInput(t *testing.T, jobs []model.Job, vehicleWindow model.TimeWindow) *model.Input {
	t.Helper()
	start, end := 0, 0
	vehicles := []model.Vehicle{{Start: &start, End: &end, Capacity: model.Amount{10}, TW: vehicleWindow}}
	in, err := model.NewInput(jobs, vehicles, lineMatrix{}, 10)
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	return in
}

// Job at location 5 with window [0,3]: travel time 5 > 3 so no window
// choice satisfies the earliest arrival.
func TestTWRouteRejectsUnreachableWindow(t *testing.T) {
	jobs := []model.Job{twJob(0, 5, model.TimeWindow{Start: 0, End: 3})}
	in := twInput(t, jobs, model.TimeWindow{Start: 0, End: 1000})
	r := NewTWRoute(in, 0)
	if r.IsValidAdditionForTW(in, 0, 0) {
		t.Fatal("expected insertion to be infeasible: travel time 5 exceeds window end 3")
	}
}

func TestTWRouteAcceptsEqualityCase(t *testing.T) {
	jobs := []model.Job{twJob(0, 5, model.TimeWindow{Start: 0, End: 5})}
	in := twInput(t, jobs, model.TimeWindow{Start: 0, End: 1000})
	r := NewTWRoute(in, 0)
	if !r.IsValidAdditionForTW(in, 0, 0) {
		t.Fatal("expected insertion to be feasible: travel time 5 exactly meets window end 5")
	}
	r.Add(in, 0, 0)
	if r.Earliest(0) != 5 {
		t.Fatalf("expected earliest arrival to be 5, got %d", r.Earliest(0))
	}
}

func TestTWRouteMultiWindowChoosesEarliest(t *testing.T) {
	jobs := []model.Job{twJob(0, 5,
		model.TimeWindow{Start: 20, End: 30},
		model.TimeWindow{Start: 100, End: 200},
	)}
	in := twInput(t, jobs, model.TimeWindow{Start: 0, End: 1000})
	r := NewTWRoute(in, 0)
	r.Add(in, 0, 0)
	if r.TWRank(0) != 0 {
		t.Fatalf("expected the earliest-starting window (rank 0) to be chosen, got rank %d", r.TWRank(0))
	}
	if r.Earliest(0) != 20 {
		t.Fatalf("expected earliest service start 20 (window start, since travel-only arrival is 5), got %d", r.Earliest(0))
	}
}

func TestTWRouteInvariantEarliestLessEqualLatest(t *testing.T) {
	jobs := []model.Job{
		twJob(0, 1, model.TimeWindow{Start: 0, End: 1000}),
		twJob(1, 2, model.TimeWindow{Start: 0, End: 1000}),
		twJob(2, 3, model.TimeWindow{Start: 0, End: 1000}),
	}
	in := twInput(t, jobs, model.TimeWindow{Start: 0, End: 1000})
	r := NewTWRoute(in, 0)
	r.Add(in, 0, 0)
	r.Add(in, 1, 1)
	r.Add(in, 2, 2)
	for k := 0; k < r.Size(); k++ {
		if r.Earliest(k) > r.Latest(k) {
			t.Fatalf("position %d: earliest %d > latest %d", k, r.Earliest(k), r.Latest(k))
		}
		job := jobs[r.JobAt(k)]
		tw := job.TWs[r.TWRank(k)]
		if r.Earliest(k) < tw.Start || r.Earliest(k) > tw.End {
			t.Fatalf("position %d: earliest %d outside chosen window %v", k, r.Earliest(k), tw)
		}
	}
}

func TestTWRouteAddRemoveRoundTrip(t *testing.T) {
	jobs := []model.Job{
		twJob(0, 1, model.TimeWindow{Start: 0, End: 1000}),
		twJob(1, 2, model.TimeWindow{Start: 0, End: 1000}),
	}
	in := twInput(t, jobs, model.TimeWindow{Start: 0, End: 1000})
	r := NewTWRoute(in, 0)
	r.Add(in, 1, 0)

	beforeEarliest := append([]model.Duration(nil), r.earliest...)
	beforeLatest := append([]model.Duration(nil), r.latest...)

	// add(j, p) followed by remove(p, 1) must restore the route.
	r.Add(in, 0, 0)
	r.Remove(in, 0, 1)

	if r.Size() != 1 || r.JobAt(0) != 1 {
		t.Fatalf("expected route to be restored to [1], got %v", r.JobRanks())
	}
	for k := range beforeEarliest {
		if r.Earliest(k) != beforeEarliest[k] || r.Latest(k) != beforeLatest[k] {
			t.Fatalf("position %d: round trip changed TW state: earliest got %d want %d, latest got %d want %d",
				k, r.Earliest(k), beforeEarliest[k], r.Latest(k), beforeLatest[k])
		}
	}
}

// Vehicle without start and without end: first/last adjacent-edge
// costs are zero, which here shows up as earliest[0] derived purely
// from the vehicle window start (no travel leg added).
func TestTWRouteNoDepotBoundaryIsZeroCost(t *testing.T) {
	jobs := []model.Job{twJob(0, 7, model.TimeWindow{Start: 0, End: 1000})}
	vehicles := []model.Vehicle{{Capacity: model.Amount{10}, TW: model.TimeWindow{Start: 0, End: 1000}}}
	in, err := model.NewInput(jobs, vehicles, lineMatrix{}, 10)
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	r := NewTWRoute(in, 0)
	r.Add(in, 0, 0)
	if r.Earliest(0) != 0 {
		t.Fatalf("expected earliest 0 with no start depot to anchor travel time, got %d", r.Earliest(0))
	}
}
