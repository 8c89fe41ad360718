package gforms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/formrush/formrush/internal/formwire"
	"github.com/formrush/formrush/internal/metrics"
	httperrors "github.com/formrush/formrush/pkg/http/errors"
)

// FormCache stores parsed forms between requests. A nil cache disables
// caching.
type FormCache interface {
	Get(ctx context.Context, formID string) (*formwire.ParsedForm, error)
	Set(ctx context.Context, form *formwire.ParsedForm) error
}

// AccessRecord captures one successful form parse for the access log.
type AccessRecord struct {
	FormID        string
	URL           string
	Title         string
	QuestionCount int
}

// AccessRecorder persists access records. A nil recorder disables logging.
type AccessRecorder interface {
	RecordAccess(ctx context.Context, rec AccessRecord) error
}

// AccessLogEntry is one stored access record, as served by the recent-forms
// listing.
type AccessLogEntry struct {
	ID            int64     `json:"id"`
	FormID        string    `json:"form_id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"question_count"`
	AccessedAt    time.Time `json:"accessed_at"`
}

// AccessLister reads back stored access records.
type AccessLister interface {
	ListRecent(ctx context.Context, limit int32) ([]AccessLogEntry, error)
}

// HTTPHandlers provides REST endpoints for form parsing.
type HTTPHandlers struct {
	fetcher *Fetcher
	cache   FormCache
	access  AccessRecorder
	lister  AccessLister
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for form endpoints.
func NewHTTPHandlers(fetcher *Fetcher, cache FormCache, access AccessRecorder, lister AccessLister, m *metrics.Metrics, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		fetcher: fetcher,
		cache:   cache,
		access:  access,
		lister:  lister,
		metrics: m,
		logger:  logger.With().Str("component", "gforms_http").Logger(),
	}
}

// ParseRequest is the body of POST /v1/forms/parse.
type ParseRequest struct {
	URL string `json:"url"`
}

// ParseResponse is the success body of POST /v1/forms/parse.
type ParseResponse struct {
	Form   *formwire.ParsedForm `json:"form"`
	Cached bool                 `json:"cached"`
}

// ParseForm handles POST /v1/forms/parse
func (h *HTTPHandlers) ParseForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.URL == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "url is required", "url")
		return
	}

	// Short links hide the form id until resolved, so only direct URLs get
	// a cache lookup.
	if h.cache != nil && !IsShortLink(req.URL) {
		if formID, ok := ExtractFormID(req.URL); ok {
			cached, err := h.cache.Get(r.Context(), formID)
			if err != nil {
				h.logger.Warn().Err(err).Str("form_id", formID).Msg("cache lookup failed")
			} else if cached != nil {
				h.metrics.FormParse(metrics.OutcomeOK)
				h.respondJSON(w, http.StatusOK, ParseResponse{Form: cached, Cached: true})
				return
			}
		}
	}

	form, err := h.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		h.respondFetchError(w, req.URL, err)
		return
	}
	h.metrics.FormParse(metrics.OutcomeOK)

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), form); err != nil {
			h.logger.Warn().Err(err).Str("form_id", form.FormID).Msg("cache store failed")
		}
	}
	h.recordAccess(req.URL, form)

	h.respondJSON(w, http.StatusOK, ParseResponse{Form: form, Cached: false})
}

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// RecentForms handles GET /v1/forms/recent
func (h *HTTPHandlers) RecentForms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.lister == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeServiceUnavailable, "Access logging is not enabled")
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "limit must be a positive integer", "limit")
			return
		}
		limit = n
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	entries, err := h.lister.ListRecent(r.Context(), int32(limit))
	if err != nil {
		h.logger.Error().Err(err).Msg("recent forms lookup failed")
		httperrors.RespondInternalError(w, "Failed to list recent forms")
		return
	}
	if entries == nil {
		entries = []AccessLogEntry{}
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"forms": entries})
}

// recordAccess logs the parse asynchronously so a slow database never
// delays the response.
func (h *HTTPHandlers) recordAccess(url string, form *formwire.ParsedForm) {
	if h.access == nil {
		return
	}
	rec := AccessRecord{
		FormID:        form.FormID,
		URL:           url,
		Title:         form.Title,
		QuestionCount: len(form.Questions),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.access.RecordAccess(ctx, rec); err != nil {
			h.logger.Warn().Err(err).Str("form_id", rec.FormID).Msg("access log write failed")
		}
	}()
}

func (h *HTTPHandlers) respondFetchError(w http.ResponseWriter, url string, err error) {
	var fetchErr *FetchError
	switch {
	case errors.Is(err, ErrNotAFormURL):
		h.metrics.FormParse(metrics.OutcomeRejected)
		httperrors.RespondBadRequest(w, httperrors.ErrCodeNotAFormURL, "URL does not point at a supported form")
	case errors.Is(err, ErrSignInRequired):
		h.metrics.FormParse(metrics.OutcomeSignIn)
		httperrors.RespondErrorWithDetails(w, http.StatusBadRequest, httperrors.ErrCodeSignInRequired,
			"Form requires sign-in and cannot be parsed", map[string]interface{}{"requires_sign_in": true})
	case errors.Is(err, ErrNoFormData):
		h.metrics.FormParse(metrics.OutcomeNoForm)
		httperrors.RespondBadRequest(w, httperrors.ErrCodeNoFormData, "Form data was not found in the page")
	case errors.Is(err, ErrUnsupportedForm):
		h.metrics.FormParse(metrics.OutcomeRejected)
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnsupportedForm, "Form has no questions that can be automated")
	case errors.As(err, &fetchErr):
		h.metrics.FormParse(metrics.OutcomeFailed)
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeFetchFailed, err.Error())
	default:
		h.metrics.FormParse(metrics.OutcomeFailed)
		h.logger.Error().Err(err).Str("url", url).Msg("form parse failed")
		httperrors.RespondInternalError(w, "Failed to parse form")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
