package operators

import (
	"testing"

	"vrpsolve/internal/model"
	"vrpsolve/internal/route"
	"vrpsolve/internal/solution"
)

type lineMatrix struct{}

func (lineMatrix) Cost(from, to int) model.Cost         { return model.Cost(abs(from - to)) }
func (lineMatrix) Duration(from, to int) model.Duration { return model.Duration(abs(from - to)) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func job(index, location int) model.Job {
	return model.Job{
		Index:    index,
		Location: location,
		Pickup:   model.Amount{1},
		Delivery: model.Amount{0},
		TWs:      []model.TimeWindow{{Start: 0, End: 1000}},
	}
}

// Scenario F: two routes [A,B,C,D] and [E,F,G,H], selecting edges
// (B,C) and (F,G). After apply with no reversal: [A,F,G,D] and
// [E,B,C,H].
func TestCrossExchangeNoReversalSwap(t *testing.T) {
	jobs := []model.Job{
		job(0, 10), job(1, 11), job(2, 12), job(3, 13), // A B C D
		job(4, 100), job(5, 101), job(6, 102), job(7, 103), // E F G H
	}
	start0, end0 := 0, 0
	start1, end1 := 200, 200
	vehicles := []model.Vehicle{
		{Start: &start0, End: &end0, Capacity: model.Amount{10}, TW: model.TimeWindow{Start: 0, End: 100000}},
		{Start: &start1, End: &end1, Capacity: model.Amount{10}, TW: model.TimeWindow{Start: 0, End: 100000}},
	}
	in, err := model.NewInput(jobs, vehicles, lineMatrix{}, 201)
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}

	source := route.NewRawRoute(in, 0)
	for i, rank := range []int{0, 1, 2, 3} {
		source.Add(in, rank, i)
	}
	target := route.NewRawRoute(in, 1)
	for i, rank := range []int{4, 5, 6, 7} {
		target.Add(in, rank, i)
	}

	state := solution.NewState(in)
	state.Setup([]route.Like{source, target})

	op := NewCrossExchange(in, state, source, 0, 1, target, 1, 1)
	_ = op.GainUpperBound()
	if !op.IsValid() {
		t.Fatal("expected the swap to be capacity-feasible (no skills, ample capacity)")
	}
	op.ComputeGain()
	op.Apply()

	wantSource := []int{0, 5, 6, 3}
	wantTarget := []int{4, 1, 2, 7}
	if got := source.JobRanks(); !equalInts(got, wantSource) {
		t.Fatalf("source route = %v, want %v", got, wantSource)
	}
	if got := target.JobRanks(); !equalInts(got, wantTarget) {
		t.Fatalf("target route = %v, want %v", got, wantTarget)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
