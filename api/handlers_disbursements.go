package api

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"net/http"

	// Local Packages
	errors "minilend-disburser/errors"
	models "minilend-disburser/models"

	// External Packages
	"go.uber.org/zap"
)

type DisbursementsService interface {
	Enqueue(ctx context.Context, req models.EnqueueRequest) (string, error)
	CheckExisting(ctx context.Context, transactionCode string) (*models.DisbursementJob, error)
	Status(ctx context.Context, jobID string) (*models.DisbursementJob, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Retry(ctx context.Context, jobID string) error
}

type AlertsService interface {
	List(ctx context.Context, limit int, unacknowledgedOnly bool) ([]models.SystemAlert, models.AlertStats, error)
	Acknowledge(ctx context.Context, alertID string) error
	AcknowledgeAll(ctx context.Context) (int64, error)
}

type Handlers struct {
	Logger        *zap.Logger
	Disbursements DisbursementsService
	Alerts        AlertsService
}

func NewHandlers(logger *zap.Logger, disbursements DisbursementsService, alerts AlertsService) *Handlers {
	return &Handlers{Logger: logger, Disbursements: disbursements, Alerts: alerts}
}

// Dashboard serves GET /api/disbursement/dashboard.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Disbursements.Dashboard(r.Context())
	if err != nil {
		respondError(w, h.Logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// Status serves GET /api/disbursement/status?jobId=<id>.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		respondError(w, h.Logger, errors.EmptyParamErr("jobId"))
		return
	}

	job, err := h.Disbursements.Status(r.Context(), jobID)
	if err != nil {
		respondError(w, h.Logger, err)
		return
	}
	if job == nil {
		respondError(w, h.Logger, errors.JobNotFoundErr(jobID))
		return
	}
	respondJSON(w, http.StatusOK, job)
}

type enqueueResponse struct {
	JobID string `json:"jobId"`
}

type conflictResponse struct {
	Error         string `json:"error"`
	ExistingJobID string `json:"existingJobId,omitempty"`
}

// Enqueue serves POST /api/disbursement/enqueue. A duplicate transaction
// code answers 409 with the id of the job that already covers it.
func (h *Handlers) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req models.EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.Logger, errors.InvalidBodyErr(err))
		return
	}

	jobID, err := h.Disbursements.Enqueue(r.Context(), req)
	if errors.IsKind(err, errors.Conflict) {
		resp := conflictResponse{Error: errors.Message(err)}
		if existing, lookupErr := h.Disbursements.CheckExisting(r.Context(), req.TransactionCode); lookupErr == nil && existing != nil {
			resp.ExistingJobID = existing.ID.Hex()
		}
		respondJSON(w, http.StatusConflict, resp)
		return
	}
	if err != nil {
		respondError(w, h.Logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, enqueueResponse{JobID: jobID})
}

type retryRequest struct {
	JobID string `json:"jobId"`
}

type retryResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
}

// Retry serves POST /api/disbursement/retry.
func (h *Handlers) Retry(w http.ResponseWriter, r *http.Request) {
	var req retryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.Logger, errors.InvalidBodyErr(err))
		return
	}
	if req.JobID == "" {
		respondError(w, h.Logger, errors.EmptyParamErr("jobId"))
		return
	}

	if err := h.Disbursements.Retry(r.Context(), req.JobID); err != nil {
		respondError(w, h.Logger, err)
		return
	}
	respondJSON(w, http.StatusOK, retryResponse{Success: true, JobID: req.JobID})
}
