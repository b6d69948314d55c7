package handlers

import (
	"net/http"
	"time"

	"github.com/sumeet-singh-parmar/aws-commander/app"
	"github.com/sumeet-singh-parmar/aws-commander/utils"
	"go.uber.org/zap"
)

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}

// ReadinessResponse reports per-dependency readiness
type ReadinessResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// HealthHandler reports process liveness without touching dependencies
func HealthHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, HealthResponse{
			Status:      "ok",
			Environment: deps.Config.Environment,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadinessHandler verifies the database is reachable before reporting ready
func ReadinessHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{}
		status := "ready"
		code := http.StatusOK

		if err := deps.DB.HealthCheck(r.Context()); err != nil {
			deps.Logger.Warn("readiness check failed", zap.Error(err))
			checks["database"] = "unavailable"
			status = "not_ready"
			code = http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}

		respondJSON(w, code, ReadinessResponse{
			Status:    status,
			Checks:    checks,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}
