package api

import (
	// Go Internal Packages
	"encoding/json"
	"net/http"
	"strconv"

	// Local Packages
	errors "minilend-disburser/errors"
	models "minilend-disburser/models"
)

type alertsResponse struct {
	Alerts []models.SystemAlert `json:"alerts"`
	Stats  models.AlertStats    `json:"stats"`
}

// ListAlerts serves GET /api/disbursement/alerts?limit&unacknowledged.
func (h *Handlers) ListAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, h.Logger, errors.InvalidParamsErr(err))
			return
		}
		limit = parsed
	}
	unacknowledgedOnly := r.URL.Query().Get("unacknowledged") == "true"

	alerts, stats, err := h.Alerts.List(r.Context(), limit, unacknowledgedOnly)
	if err != nil {
		respondError(w, h.Logger, err)
		return
	}
	respondJSON(w, http.StatusOK, alertsResponse{Alerts: alerts, Stats: stats})
}

type acknowledgeRequest struct {
	AlertID        string `json:"alertId"`
	AcknowledgeAll bool   `json:"acknowledgeAll"`
}

type acknowledgeResponse struct {
	Success           bool   `json:"success"`
	AlertID           string `json:"alertId,omitempty"`
	AcknowledgedCount *int64 `json:"acknowledgedCount,omitempty"`
}

// AcknowledgeAlerts serves POST /api/disbursement/alerts with either
// {alertId} or {acknowledgeAll: true}. The shapes are mutually exclusive.
func (h *Handlers) AcknowledgeAlerts(w http.ResponseWriter, r *http.Request) {
	var req acknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.Logger, errors.InvalidBodyErr(err))
		return
	}

	switch {
	case req.AlertID != "" && req.AcknowledgeAll:
		respondError(w, h.Logger, errors.E(errors.Invalid, "alertId and acknowledgeAll are mutually exclusive", nil))
	case req.AlertID != "":
		if err := h.Alerts.Acknowledge(r.Context(), req.AlertID); err != nil {
			respondError(w, h.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, acknowledgeResponse{Success: true, AlertID: req.AlertID})
	case req.AcknowledgeAll:
		count, err := h.Alerts.AcknowledgeAll(r.Context())
		if err != nil {
			respondError(w, h.Logger, err)
			return
		}
		respondJSON(w, http.StatusOK, acknowledgeResponse{Success: true, AcknowledgedCount: &count})
	default:
		respondError(w, h.Logger, errors.E(errors.Invalid, "either alertId or acknowledgeAll is required", nil))
	}
}
