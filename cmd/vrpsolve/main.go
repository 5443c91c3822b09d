// Command vrpsolve is the HTTP front-end that wires the solver core to
// its collaborators: a YAML+env config (internal/config), a Postgres
// job/vehicle catalog (internal/catalog), an optional Redis matrix
// cache (internal/matrixcache), Prometheus/log telemetry
// (internal/telemetry), and a WebSocket progress dashboard
// (internal/progress). Connection strings are read from the
// environment and served through a plain net/http.ServeMux wrapped in
// a logging middleware.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vrpsolve/internal/catalog"
	"vrpsolve/internal/config"
	"vrpsolve/internal/geomatrix"
	"vrpsolve/internal/heuristics"
	"vrpsolve/internal/matrixcache"
	"vrpsolve/internal/model"
	"vrpsolve/internal/progress"
	"vrpsolve/internal/route"
	"vrpsolve/internal/telemetry"
)

func main() {
	cfg, err := config.Load(os.Getenv("VRPSOLVE_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	telemetry.RegisterDefault()
	logger := telemetry.New()
	hub := progress.NewHub()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", healthHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(telemetry.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/v1/solve", solveHandler(cfg, logger, hub))

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("vrpsolve listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, time.Since(start))
	})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// solveHandler loads the dataset named by the "dataset" query
// parameter, builds an Input, and runs the configured heuristic,
// publishing progress events to hub under the solve id (no route here
// serves hub.Handler) and returning a minimal plain-text summary --
// full JSON request/response
// serialization is a named out-of-scope collaborator, not this
// command's job.
func solveHandler(cfg config.Config, logger *telemetry.Logger, hub *progress.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dataset := r.URL.Query().Get("dataset")
		if dataset == "" {
			http.Error(w, "dataset query parameter required", http.StatusBadRequest)
			return
		}
		if cfg.DatabaseURL == "" {
			http.Error(w, "DATABASE_URL not configured", http.StatusServiceUnavailable)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), cfg.SolveTimeout)
		defer cancel()

		cat, err := catalog.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer func() { _ = cat.Close() }()

		ds, err := cat.LoadDataset(ctx, dataset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		points := make([]geomatrix.LatLng, len(ds.Locations))
		copy(points, ds.Locations)
		var matrix model.Matrix = geomatrix.New(points, 60, 1)
		if cfg.RedisURL != "" {
			cached, err := matrixcache.New(cfg.RedisURL, matrix, "vrpsolve:"+dataset, cfg.MatrixCacheTTL)
			if err == nil {
				matrix = cached
			} else {
				log.Printf("matrixcache disabled: %v", err)
			}
		}

		in, err := model.NewInput(ds.Jobs, ds.Vehicles, matrix, len(points))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		strategy := cfg.StrategyValue()
		solveID := logger.SolveStarted(strategy, len(ds.Jobs), len(ds.Vehicles))
		start := time.Now()

		newRoute := func(in *model.Input, v int) route.Like { return route.NewTWRoute(in, v) }
		res, err := heuristics.Solve(ctx, in, strategy, cfg.InitValue(), cfg.Lambda, newRoute,
			heuristics.WithProgress(hub.Reporter(solveID)))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		assigned := len(ds.Jobs) - len(res.Unassigned)
		logger.SolveFinished(solveID, strategy, time.Since(start), assigned, len(res.Unassigned))

		fmt.Fprintf(w, "solve_id=%s assigned=%d unassigned=%d\n", solveID, assigned, len(res.Unassigned))
		for v, r := range res.Routes {
			fmt.Fprintf(w, "vehicle %d: %v\n", v, r.JobRanks())
		}
	}
}
