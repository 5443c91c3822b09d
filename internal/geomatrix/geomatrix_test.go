package geomatrix

import "testing"

func TestDiagonalIsZero(t *testing.T) {
	m := New([]LatLng{{Lat: 40.0, Lng: -73.0}, {Lat: 41.0, Lng: -74.0}}, 60, 1)
	if m.Cost(0, 0) != 0 || m.Duration(0, 0) != 0 {
		t.Fatal("expected zero cost and duration on the diagonal")
	}
}

func TestDistanceIsSymmetric(t *testing.T) {
	m := New([]LatLng{{Lat: 40.7128, Lng: -74.0060}, {Lat: 34.0522, Lng: -118.2437}}, 80, 2)
	if m.Cost(0, 1) != m.Cost(1, 0) {
		t.Fatalf("expected symmetric cost, got %d vs %d", m.Cost(0, 1), m.Cost(1, 0))
	}
	if m.Duration(0, 1) != m.Duration(1, 0) {
		t.Fatalf("expected symmetric duration, got %d vs %d", m.Duration(0, 1), m.Duration(1, 0))
	}
}

func TestFasterSpeedYieldsShorterDuration(t *testing.T) {
	points := []LatLng{{Lat: 51.5074, Lng: -0.1278}, {Lat: 48.8566, Lng: 2.3522}}
	slow := New(points, 40, 1)
	fast := New(points, 120, 1)
	if fast.Duration(0, 1) >= slow.Duration(0, 1) {
		t.Fatalf("expected faster speed to shorten duration: fast=%d slow=%d", fast.Duration(0, 1), slow.Duration(0, 1))
	}
	// Cost depends only on distance and costPerKm, not speed.
	if fast.Cost(0, 1) != slow.Cost(0, 1) {
		t.Fatalf("expected cost to be speed-independent: fast=%d slow=%d", fast.Cost(0, 1), slow.Cost(0, 1))
	}
}

func TestKnownDistanceApproximation(t *testing.T) {
	// New York to London is roughly 5570km great-circle.
	m := New([]LatLng{{Lat: 40.7128, Lng: -74.0060}, {Lat: 51.5074, Lng: -0.1278}}, 1, 1)
	got := float64(m.Cost(0, 1))
	if got < 5400 || got > 5700 {
		t.Fatalf("expected ~5570km NY-London great circle distance, got %v", got)
	}
}
