package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	repo "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

// GetVendorScorecardsHandler godoc
// @Summary Vendor scorecards for every registered channel
// @Tags analytics
// @Produce json
// @Success 200 {array} repo.VendorScorecard
// @Failure 500 {string} string "Internal error"
// @Router /analytics/scorecards [get]
func GetVendorScorecardsHandler(w http.ResponseWriter, r *http.Request) {
	scorecards, err := analyticsRepo.VendorScorecards()
	if err != nil {
		http.Error(w, "could not compute scorecards", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, scorecards)
}

// GetVendorScorecardHandler godoc
// @Summary Vendor scorecard for one channel
// @Tags analytics
// @Produce json
// @Param id path int true "Channel ID"
// @Success 200 {object} repo.VendorScorecard
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /analytics/scorecards/{id} [get]
func GetVendorScorecardHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid channel ID", http.StatusBadRequest)
		return
	}

	scorecard, err := analyticsRepo.VendorScorecard(id)
	if err != nil {
		if err == repo.ErrChannelNotFound {
			http.Error(w, "channel not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not compute scorecard", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, scorecard)
}

// GetDashboardMetricsHandler godoc
// @Summary Platform-wide ingestion and extraction metrics
// @Tags analytics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {string} string "Internal error"
// @Router /analytics/metrics [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := analyticsRepo.GetDashboardMetrics()
	if err != nil {
		http.Error(w, "could not compute metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
