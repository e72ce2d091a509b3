// Package server exposes the driftlens pipeline over HTTP: POST /scan runs
// a full orchestrator pass against a server-reachable git checkout and
// returns the Report; GET /runs/{id} retrieves a previously stored one.
//
// Generalized from stricture's internal/server ingest API (same App/Config/
// FileStore shape, same bearer-token auth toggle) onto driftlens's
// scan-and-report domain, now routed with go-chi instead of a bare
// http.ServeMux so CORS middleware composes cleanly for browser-based
// dashboards.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brennhill/driftlens/internal/config"
	"github.com/brennhill/driftlens/internal/fetch"
	"github.com/brennhill/driftlens/internal/orchestrator"
	"github.com/brennhill/driftlens/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxScanBodyBytes = 1 << 20 // 1MB

// App handles the HTTP API for driftlens-server.
type App struct {
	cfg      Config
	store    RunStore
	driftCfg *config.Config
	log      telemetry.Logger
	metrics  *telemetry.Metrics
	registry *prometheus.Registry
}

// New constructs the production HTTP server.
func New(cfg Config, driftCfg *config.Config) (*http.Server, error) {
	handler, err := NewHandler(cfg, driftCfg)
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}, nil
}

// NewHandler constructs the HTTP handler for tests and local embedding.
func NewHandler(cfg Config, driftCfg *config.Config) (http.Handler, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if driftCfg == nil {
		driftCfg = config.Default()
	}

	store, err := NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	app := &App{
		cfg:      cfg,
		store:    store,
		driftCfg: driftCfg,
		log:      telemetry.NewLogrus(),
		metrics:  telemetry.NewMetrics(registry),
		registry: registry,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", app.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	r.Post("/scan", app.handleScan)
	r.Get("/runs/{id}", app.handleGetRun)
	return r, nil
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleScan(w http.ResponseWriter, r *http.Request) {
	if !a.isAuthorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxScanBodyBytes)

	var req ScanRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	req, err := validateScanRequest(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	runID := newRunID()
	log := a.log.WithField("run_id", runID)

	ctx := r.Context()
	cs, err := fetch.DiffChangeSet(ctx, req.RepoDir, req.BaseRef, req.HeadRef)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("building change set: %v", err)})
		return
	}

	o := orchestrator.New(fetch.NewGitFetcher(req.RepoDir), a.driftCfg, log, a.metrics, nil)
	report, err := o.Run(ctx, cs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("run scan: %v", err)})
		return
	}

	if err := a.store.Save(runID, req, report); err != nil {
		log.Error("failed to persist run record", err)
	}

	writeJSON(w, http.StatusOK, ScanResponse{RunID: runID, Report: report})
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := a.store.Load(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *App) isAuthorized(r *http.Request) bool {
	switch a.cfg.AuthMode {
	case "", "none":
		return true
	case "token":
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
			return false
		}
		return auth[len(prefix):] == a.cfg.ScanToken
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"encode response: %v"}`, err), http.StatusInternalServerError)
	}
}
