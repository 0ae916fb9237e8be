package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitetrainer/internal/api/response"
	"sitetrainer/internal/llm"
	"sitetrainer/internal/store"
	"sitetrainer/internal/trainer"
	"sitetrainer/pkg/models"
)

const (
	defaultMaxPages = 20
	defaultMaxDepth = 2
)

// Trainer defines the interface the train handlers depend on.
type Trainer interface {
	StartTraining(ctx context.Context, req trainer.TrainingRequest) (*models.TrainingJob, error)
	RunSync(ctx context.Context, req trainer.TrainingRequest) (*models.TrainingJob, error)
	GetJob(ctx context.Context, jobID string) (*models.TrainingJob, error)
}

type trainRequest struct {
	JobID      string            `json:"jobId"`
	URL        string            `json:"url"`
	MaxPages   int               `json:"maxPages"`
	MaxDepth   int               `json:"maxDepth"`
	Documents  []models.Document `json:"documents"`
	Background bool              `json:"background"`
	UserID     string            `json:"userId"`
}

type trainAcceptedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"jobId"`
}

type trainSyncResponse struct {
	Success   bool         `json:"success"`
	Summary   string       `json:"summary"`
	FAQs      []models.FAQ `json:"faqs"`
	PageCount int          `json:"pageCount"`
	Domain    string       `json:"domain"`
}

// NewTrainHandler returns an http.HandlerFunc for POST /api/v1/train.
func NewTrainHandler(svc Trainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		// Validate before any job record is created.
		if req.URL == "" && len(req.Documents) == 0 {
			response.Error(w, http.StatusBadRequest, "Either url or documents is required")
			return
		}

		if req.MaxPages <= 0 {
			req.MaxPages = defaultMaxPages
		}
		if req.MaxDepth <= 0 {
			req.MaxDepth = defaultMaxDepth
		}

		training := trainer.TrainingRequest{
			JobID:     req.JobID,
			URL:       req.URL,
			Documents: req.Documents,
			MaxPages:  req.MaxPages,
			MaxDepth:  req.MaxDepth,
		}
		if req.UserID != "" {
			training.UserID = &req.UserID
		}

		if req.Background {
			job, err := svc.StartTraining(r.Context(), training)
			if err != nil {
				response.Error(w, http.StatusInternalServerError, "Failed to start training")
				return
			}
			response.Accepted(w, trainAcceptedResponse{
				Success: true,
				Message: "Training started",
				JobID:   job.JobID,
			})
			return
		}

		job, err := svc.RunSync(r.Context(), training)
		if err != nil {
			switch {
			case errors.Is(err, llm.ErrProviderUnavailable):
				response.Error(w, http.StatusBadGateway, "The LLM provider is not available")
			case errors.Is(err, llm.ErrInferenceTimeout):
				response.Error(w, http.StatusGatewayTimeout, "Training took too long and was cancelled")
			default:
				response.Error(w, http.StatusInternalServerError, "An unexpected error occurred")
			}
			return
		}

		if job.Status != models.JobStatusCompleted {
			msg := "Training failed"
			if job.Error != nil {
				msg = *job.Error
			}
			response.Error(w, http.StatusOK, msg)
			return
		}

		var summary string
		if job.Summary != nil {
			summary = *job.Summary
		}
		response.OK(w, trainSyncResponse{
			Success:   true,
			Summary:   summary,
			FAQs:      job.FAQs,
			PageCount: job.PageCount,
			Domain:    job.Domain,
		})
	}
}

// NewPollJobHandler returns an http.HandlerFunc for GET /api/v1/train/{jobID}.
// The response body is the job record itself, which clients poll until the
// status is completed or failed.
func NewPollJobHandler(svc Trainer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		if jobID == "" {
			response.Error(w, http.StatusBadRequest, "jobID is required")
			return
		}

		job, err := svc.GetJob(r.Context(), jobID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "Job not found")
				return
			}
			response.Error(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		response.OK(w, job)
	}
}
