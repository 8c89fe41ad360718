package fill

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/formrush/formrush/internal/gforms"
	httperrors "github.com/formrush/formrush/pkg/http/errors"
	"github.com/formrush/formrush/pkg/http/ws"
)

// HTTPHandlers provides REST and WebSocket endpoints for fill operations.
type HTTPHandlers struct {
	service *Service
	hub     *ws.Hub
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for fill endpoints.
func NewHTTPHandlers(service *Service, hub *ws.Hub, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		hub:     hub,
		logger:  logger.With().Str("component", "fill_http").Logger(),
	}
}

// SubmitResponse handles POST /v1/responses/submit
func (h *HTTPHandlers) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.URL == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "url is required", "url")
		return
	}

	result, err := h.service.SubmitOne(r.Context(), req)
	if err != nil {
		var subErr *gforms.SubmissionError
		if errors.As(err, &subErr) {
			// The form was parsed and the payload was built; the remote end
			// rejected it. Report the rejection with its status code.
			h.respondJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":   httperrors.ErrCodeSubmissionFailed,
				"message": err.Error(),
				"result":  result,
			})
			return
		}
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CreateJob handles POST /v1/fill/jobs
func (h *HTTPHandlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.URL == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "url is required", "url")
		return
	}
	if req.Count <= 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "count must be a positive integer", "count")
		return
	}

	job, err := h.service.CreateJob(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrTooManyResponses) {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "count")
			return
		}
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusAccepted, job)
}

// GetJob handles GET /v1/fill/jobs/{id}
func (h *HTTPHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidJobID, "Job id must be a UUID")
		return
	}

	job, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		h.logger.Error().Err(err).Str("job_id", jobID.String()).Msg("job lookup failed")
		httperrors.RespondInternalError(w, "Failed to load job")
		return
	}
	if job == nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeJobNotFound, "Job not found or expired")
		return
	}

	h.respondJSON(w, http.StatusOK, job)
}

// respondServiceError maps form resolution failures onto API error codes.
func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error) {
	var fetchErr *gforms.FetchError
	switch {
	case errors.Is(err, gforms.ErrNotAFormURL):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeNotAFormURL, "URL does not point at a supported form")
	case errors.Is(err, gforms.ErrSignInRequired):
		httperrors.RespondErrorWithDetails(w, http.StatusBadRequest, httperrors.ErrCodeSignInRequired,
			"Form requires sign-in and cannot be automated", map[string]interface{}{"requires_sign_in": true})
	case errors.Is(err, gforms.ErrNoFormData):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeNoFormData, "Form data was not found in the page")
	case errors.Is(err, gforms.ErrUnsupportedForm):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnsupportedForm, "Form has no questions that can be automated")
	case errors.As(err, &fetchErr):
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeFetchFailed, err.Error())
	default:
		h.logger.Error().Err(err).Msg("fill request failed")
		httperrors.RespondInternalError(w, "Request failed")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
