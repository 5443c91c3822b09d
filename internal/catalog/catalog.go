// Package catalog loads a named job/vehicle dataset from Postgres to
// seed model.Input, opening a *sql.DB over the pgx/v5 stdlib driver.
// This is a read path only -- it never writes a solved route back:
// what persists here is the problem instance, not the answer.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"vrpsolve/internal/geomatrix"
	"vrpsolve/internal/model"
)

// Postgres loads datasets from a jobs/vehicles schema.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens dsn through the pgx stdlib driver and verifies
// connectivity with an immediate Ping.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error { return p.db.Close() }

// Dataset is the row-shaped result of loading one named dataset:
// jobs and vehicles ready for model.NewInput, plus the coordinates
// needed to build a geomatrix.Matrix over the same location space.
type Dataset struct {
	Jobs      []model.Job
	Vehicles  []model.Vehicle
	Locations []geomatrix.LatLng
}

// LoadDataset reads every job and vehicle tagged with datasetName,
// assigning location indices in the order locations are first seen
// (job locations before vehicle depot locations, insertion order) so
// Locations[i] is the coordinate model.NewInput's matrix argument must
// answer queries for at index i.
func (p *Postgres) LoadDataset(ctx context.Context, datasetName string) (Dataset, error) {
	locIndex := map[[2]float64]int{}
	var locations []geomatrix.LatLng

	indexFor := func(lat, lng float64) int {
		key := [2]float64{lat, lng}
		if idx, ok := locIndex[key]; ok {
			return idx
		}
		idx := len(locations)
		locIndex[key] = idx
		locations = append(locations, geomatrix.LatLng{Lat: lat, Lng: lng})
		return idx
	}

	jobs, err := p.loadJobs(ctx, datasetName, indexFor)
	if err != nil {
		return Dataset{}, err
	}
	vehicles, err := p.loadVehicles(ctx, datasetName, indexFor)
	if err != nil {
		return Dataset{}, err
	}

	return Dataset{Jobs: jobs, Vehicles: vehicles, Locations: locations}, nil
}

func (p *Postgres) loadJobs(ctx context.Context, datasetName string, indexFor func(lat, lng float64) int) ([]model.Job, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT rank, lat, lng, pickup, delivery, service_sec, tw_start, tw_end, skills
		FROM vrp_jobs
		WHERE dataset = $1
		ORDER BY rank`, datasetName)
	if err != nil {
		return nil, fmt.Errorf("catalog: query jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []model.Job
	for rows.Next() {
		var (
			rank                 int
			lat, lng             float64
			pickup, delivery     pqInt64Array
			serviceSec           int64
			twStart, twEnd       int64
			skills               pqStringArray
		)
		if err := rows.Scan(&rank, &lat, &lng, &pickup, &delivery, &serviceSec, &twStart, &twEnd, &skills); err != nil {
			return nil, fmt.Errorf("catalog: scan job: %w", err)
		}
		skillSet := map[string]struct{}(nil)
		if len(skills) > 0 {
			skillSet = make(map[string]struct{}, len(skills))
			for _, s := range skills {
				skillSet[s] = struct{}{}
			}
		}
		jobs = append(jobs, model.Job{
			Index:    rank,
			Location: indexFor(lat, lng),
			Pickup:   model.Amount(pickup),
			Delivery: model.Amount(delivery),
			Service:  model.Duration(serviceSec),
			TWs:      []model.TimeWindow{{Start: model.Duration(twStart), End: model.Duration(twEnd)}},
			Skills:   skillSet,
		})
	}
	return jobs, rows.Err()
}

func (p *Postgres) loadVehicles(ctx context.Context, datasetName string, indexFor func(lat, lng float64) int) ([]model.Vehicle, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT rank, start_lat, start_lng, end_lat, end_lng, capacity, tw_start, tw_end, skills, fixed_cost
		FROM vrp_vehicles
		WHERE dataset = $1
		ORDER BY rank`, datasetName)
	if err != nil {
		return nil, fmt.Errorf("catalog: query vehicles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vehicles []model.Vehicle
	for rows.Next() {
		var (
			rank                           int
			startLat, startLng             sql.NullFloat64
			endLat, endLng                 sql.NullFloat64
			capacity                       pqInt64Array
			twStart, twEnd                 int64
			skills                         pqStringArray
			fixedCost                      int64
		)
		if err := rows.Scan(&rank, &startLat, &startLng, &endLat, &endLng, &capacity, &twStart, &twEnd, &skills, &fixedCost); err != nil {
			return nil, fmt.Errorf("catalog: scan vehicle: %w", err)
		}
		var start, end *int
		if startLat.Valid && startLng.Valid {
			idx := indexFor(startLat.Float64, startLng.Float64)
			start = &idx
		}
		if endLat.Valid && endLng.Valid {
			idx := indexFor(endLat.Float64, endLng.Float64)
			end = &idx
		}
		skillSet := map[string]struct{}(nil)
		if len(skills) > 0 {
			skillSet = make(map[string]struct{}, len(skills))
			for _, s := range skills {
				skillSet[s] = struct{}{}
			}
		}
		vehicles = append(vehicles, model.Vehicle{
			Index:    rank,
			Start:    start,
			End:      end,
			Capacity: model.Amount(capacity),
			TW:       model.TimeWindow{Start: model.Duration(twStart), End: model.Duration(twEnd)},
			Skills:   skillSet,
			Fixed:    model.Cost(fixedCost),
		})
	}
	return vehicles, rows.Err()
}
