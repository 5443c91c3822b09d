// Package geomatrix is a small model.Matrix implementation computing
// cost and travel time from straight-line (haversine) distance between
// locations, scaled by a configured speed. It's the default Matrix
// source when no external travel-time service is configured.
package geomatrix

import (
	"math"

	"vrpsolve/internal/model"
)

// LatLng is a location's coordinates.
type LatLng struct {
	Lat float64
	Lng float64
}

// Matrix computes Cost/Duration from great-circle distance between
// configured points, at a fixed speed, with a per-distance-unit cost
// multiplier.
type Matrix struct {
	points     []LatLng
	speedKph   float64
	costPerKm  float64
	durations  [][]model.Duration
	costs      [][]model.Cost
}

// New precomputes the full distance matrix for points, converting to
// Duration (seconds) at speedKph and to Cost at costPerKm.
func New(points []LatLng, speedKph, costPerKm float64) *Matrix {
	n := len(points)
	m := &Matrix{points: points, speedKph: speedKph, costPerKm: costPerKm}
	m.durations = make([][]model.Duration, n)
	m.costs = make([][]model.Cost, n)
	for i := 0; i < n; i++ {
		m.durations[i] = make([]model.Duration, n)
		m.costs[i] = make([]model.Cost, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			km := haversineKm(points[i], points[j])
			hours := km / speedKph
			m.durations[i][j] = model.Duration(hours * 3600)
			m.costs[i][j] = model.Cost(km * costPerKm)
		}
	}
	return m
}

// Cost returns the precomputed travel cost from -> to.
func (m *Matrix) Cost(from, to int) model.Cost { return m.costs[from][to] }

// Duration returns the precomputed travel time, in seconds, from -> to.
func (m *Matrix) Duration(from, to int) model.Duration { return m.durations[from][to] }

// haversineKm returns the great-circle distance between a and b, in
// kilometers.
func haversineKm(a, b LatLng) float64 {
	const earthRadiusKm = 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*sinLng*sinLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}
