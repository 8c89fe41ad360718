package gforms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/formrush/formrush/internal/answergen"
)

// SubmissionError is a non-success, non-sign-in submission outcome.
type SubmissionError struct {
	StatusCode int
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission rejected with status %d", e.StatusCode)
}

// Submitter posts generated responses to a form's submission endpoint.
type Submitter struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	logger     zerolog.Logger
}

func NewSubmitter(httpClient *http.Client, logger zerolog.Logger) *Submitter {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 15 * time.Second,
			// A redirect is already a success signal; following it only
			// burns a request.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return &Submitter{
		httpClient: httpClient,
		userAgent:  defaultUserAgent,
		baseURL:    defaultBaseURL,
		logger:     logger.With().Str("component", "form_submitter").Logger(),
	}
}

// Submit posts one payload. The returned status code is always meaningful
// when err is nil or a *SubmissionError; a 401 surfaces as ErrSignInRequired
// so callers can distinguish it from generic rejection.
func (s *Submitter) Submit(ctx context.Context, formID string, published bool, payload answergen.Payload) (int, error) {
	endpoint := submitURLAt(s.baseURL, formID, published)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Referer", viewURLAt(s.baseURL, formID, published))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post response: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	status := resp.StatusCode
	switch {
	case status == http.StatusUnauthorized:
		return status, ErrSignInRequired
	case status >= 200 && status < 400:
		return status, nil
	default:
		s.logger.Warn().Int("status", status).Str("form_id", formID).Msg("submission rejected")
		return status, &SubmissionError{StatusCode: status}
	}
}
