package model

import "testing"

type constMatrix struct{}

func (constMatrix) Cost(from, to int) Cost { return Cost(abs(from - to)) }
func (constMatrix) Duration(from, to int) Duration {
	return Duration(abs(from - to))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func validJob(index, location int) Job {
	return Job{
		Index:    index,
		Location: location,
		Pickup:   Amount{1},
		Delivery: Amount{0},
		TWs:      []TimeWindow{{Start: 0, End: 100}},
	}
}

func validVehicle(index int) Vehicle {
	start, end := 0, 0
	return Vehicle{Index: index, Start: &start, End: &end, Capacity: Amount{10}, TW: TimeWindow{Start: 0, End: 100}}
}

func TestNewInputRejectsLocationOutOfRange(t *testing.T) {
	// Job location 5 lies outside the declared [0,3) location space.
	jobs := []Job{validJob(0, 5)}
	vehicles := []Vehicle{validVehicle(0)}
	if _, err := NewInput(jobs, vehicles, constMatrix{}, 3); err == nil {
		t.Fatal("expected error for job location out of range")
	}
}

func TestNewInputRejectsEmptyTimeWindows(t *testing.T) {
	jobs := []Job{{Index: 0, Location: 0, Pickup: Amount{1}, Delivery: Amount{0}}}
	vehicles := []Vehicle{validVehicle(0)}
	if _, err := NewInput(jobs, vehicles, constMatrix{}, 2); err == nil {
		t.Fatal("expected error for job with no time windows")
	}
}

func TestNewInputRejectsDimensionMismatch(t *testing.T) {
	jobs := []Job{validJob(0, 0), {Index: 1, Location: 1, Pickup: Amount{1, 1}, Delivery: Amount{0}, TWs: []TimeWindow{{Start: 0, End: 1}}}}
	vehicles := []Vehicle{validVehicle(0)}
	if _, err := NewInput(jobs, vehicles, constMatrix{}, 2); err == nil {
		t.Fatal("expected error for mismatched amount dimensions")
	}
}

func TestNewInputOK(t *testing.T) {
	jobs := []Job{validJob(0, 1)}
	vehicles := []Vehicle{validVehicle(0)}
	in, err := NewInput(jobs, vehicles, constMatrix{}, 2)
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	if in.AmountDim() != 1 {
		t.Fatalf("expected dim 1, got %d", in.AmountDim())
	}
	if !in.ZeroAmount().Equal(Amount{0}) {
		t.Fatal("ZeroAmount should be the additive identity")
	}
}

func TestVehicleOkWithJobSkills(t *testing.T) {
	jobs := []Job{validJob(0, 0)}
	jobs[0].Skills = map[string]struct{}{"frozen": {}}
	v0 := validVehicle(0)
	v1 := validVehicle(1)
	v1.Skills = map[string]struct{}{"frozen": {}}
	vehicles := []Vehicle{v0, v1}

	in, err := NewInput(jobs, vehicles, constMatrix{}, 1)
	if err != nil {
		t.Fatalf("NewInput: %v", err)
	}
	if in.VehicleOkWithJob(0, 0) {
		t.Fatal("vehicle 0 lacks the frozen skill and should not qualify")
	}
	if !in.VehicleOkWithJob(1, 0) {
		t.Fatal("vehicle 1 has the frozen skill and should qualify")
	}
}
