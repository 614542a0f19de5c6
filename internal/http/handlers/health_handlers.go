package handlers

import (
	"net/http"
)

// HealthHandler godoc
// @Summary Liveness probe with pipeline status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if pipeline != nil {
		resp.Pipeline = PipelineStatus{
			BacklogSize: pipeline.BacklogSize(),
			WorkerCount: pipeline.WorkerCount(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
