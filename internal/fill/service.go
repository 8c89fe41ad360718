package fill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/formrush/formrush/internal/answergen"
	"github.com/formrush/formrush/internal/formwire"
	"github.com/formrush/formrush/internal/gforms"
	"github.com/formrush/formrush/internal/metrics"
	"github.com/formrush/formrush/pkg/http/ws"
)

// ErrTooManyResponses rejects batch requests over the configured cap.
var ErrTooManyResponses = errors.New("requested response count exceeds the configured maximum")

// Keeping only the first failures bounds job state size on long batches.
const maxRecordedFailures = 20

// FormFetcher resolves a form URL into a parsed form.
type FormFetcher interface {
	Fetch(ctx context.Context, url string) (*formwire.ParsedForm, error)
}

// ResponseSubmitter posts one generated payload.
type ResponseSubmitter interface {
	Submit(ctx context.Context, formID string, published bool, payload answergen.Payload) (int, error)
}

// JobStateStore persists job state between status polls.
type JobStateStore interface {
	StoreJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error)
	LockJob(ctx context.Context, jobID uuid.UUID, ttl time.Duration) (func() error, error)
}

// ProgressBroadcaster pushes job progress to WebSocket watchers.
type ProgressBroadcaster interface {
	BroadcastToJob(jobID uuid.UUID, msg ws.Message) error
}

// Options tunes batch execution.
type Options struct {
	// MinDelay..MaxDelay is the randomized pause between submissions.
	MinDelay time.Duration
	MaxDelay time.Duration
	// MaxCount caps the size of one batch.
	MaxCount int
	// SubmitTimeout bounds each individual submission attempt.
	SubmitTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MinDelay <= 0 {
		o.MinDelay = time.Second
	}
	if o.MaxDelay < o.MinDelay {
		o.MaxDelay = 3 * time.Second
	}
	if o.MaxCount <= 0 {
		o.MaxCount = 100
	}
	if o.SubmitTimeout <= 0 {
		o.SubmitTimeout = 30 * time.Second
	}
	return o
}

// Service generates and submits fake responses, one-off or as batch jobs.
type Service struct {
	fetcher   FormFetcher
	submitter ResponseSubmitter
	cache     gforms.FormCache
	store     JobStateStore
	hub       ProgressBroadcaster
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	opts      Options
	rng       *rand.Rand
}

// NewService wires the fill pipeline. cache and hub may be nil.
func NewService(fetcher FormFetcher, submitter ResponseSubmitter, cache gforms.FormCache, store JobStateStore, hub ProgressBroadcaster, m *metrics.Metrics, logger zerolog.Logger, opts Options) *Service {
	return &Service{
		fetcher:   fetcher,
		submitter: submitter,
		cache:     cache,
		store:     store,
		hub:       hub,
		metrics:   m,
		logger:    logger.With().Str("component", "fill_service").Logger(),
		opts:      opts.withDefaults(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// resolveForm parses the form behind a URL, going through the cache when
// the form id is visible in the URL itself.
func (s *Service) resolveForm(ctx context.Context, url string) (*formwire.ParsedForm, error) {
	if s.cache != nil && !gforms.IsShortLink(url) {
		if formID, ok := gforms.ExtractFormID(url); ok {
			cached, err := s.cache.Get(ctx, formID)
			if err != nil {
				s.logger.Warn().Err(err).Str("form_id", formID).Msg("cache lookup failed")
			} else if cached != nil {
				return cached, nil
			}
		}
	}

	form, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, form); err != nil {
			s.logger.Warn().Err(err).Str("form_id", form.FormID).Msg("cache store failed")
		}
	}
	return form, nil
}

// SubmitOne generates a single response and submits it immediately.
func (s *Service) SubmitOne(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	form, err := s.resolveForm(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	resp := answergen.NewResponse(req.Locale, nil)
	payload := answergen.BuildPayload(resp, form.Questions, req.Distributions, form.PageHistory, req.SkipOptional)

	status, err := s.submitter.Submit(ctx, form.FormID, form.IsPublishedForm, payload)
	result := &SubmitResult{
		FormID:     form.FormID,
		StatusCode: status,
		Submitted:  err == nil,
	}
	if err != nil {
		s.metrics.Submission(submissionOutcome(err))
		return result, err
	}
	s.metrics.Submission(metrics.OutcomeOK)
	return result, nil
}

// submissionOutcome maps a submission error onto its metric label; sign-in
// walls are counted apart from generic rejections.
func submissionOutcome(err error) string {
	if errors.Is(err, gforms.ErrSignInRequired) {
		return metrics.OutcomeSignIn
	}
	return metrics.OutcomeFailed
}

// CreateJob parses the form, persists a pending job and starts the batch in
// the background. The returned job snapshot is the pending state.
func (s *Service) CreateJob(ctx context.Context, req BatchRequest) (*Job, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("count must be positive")
	}
	if req.Count > s.opts.MaxCount {
		return nil, ErrTooManyResponses
	}

	form, err := s.resolveForm(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:        uuid.New(),
		FormID:    form.FormID,
		FormTitle: form.Title,
		Status:    StatusPending,
		Total:     req.Count,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.StoreJob(ctx, job); err != nil {
		return nil, fmt.Errorf("store job: %w", err)
	}

	go s.run(form, req, *job)

	return job, nil
}

// GetJob returns the current job state, or nil when unknown.
func (s *Service) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	return s.store.GetJob(ctx, jobID)
}

// run executes a batch: a fresh synthetic respondent per response, a
// randomized pause between submissions, progress persisted and broadcast
// after every attempt.
func (s *Service) run(form *formwire.ParsedForm, req BatchRequest, job Job) {
	ctx := context.Background()
	logger := s.logger.With().Str("job_id", job.ID.String()).Str("form_id", job.FormID).Logger()

	unlock, err := s.store.LockJob(ctx, job.ID, s.lockTTL(job.Total))
	if err != nil {
		logger.Error().Err(err).Msg("job lock failed, aborting batch")
		return
	}
	defer func() {
		if err := unlock(); err != nil {
			logger.Warn().Err(err).Msg("job unlock failed")
		}
	}()

	started := time.Now().UTC()
	job.Status = StatusRunning
	job.StartedAt = &started
	s.persist(ctx, &job, logger)

	for i := 0; i < job.Total; i++ {
		resp := answergen.NewResponse(req.Locale, nil)
		payload := answergen.BuildPayload(resp, form.Questions, req.Distributions, form.PageHistory, req.SkipOptional)

		attemptCtx, cancel := context.WithTimeout(ctx, s.opts.SubmitTimeout)
		status, err := s.submitter.Submit(attemptCtx, form.FormID, form.IsPublishedForm, payload)
		cancel()

		if err != nil {
			job.Failed++
			if len(job.Failures) < maxRecordedFailures {
				job.Failures = append(job.Failures, SubmissionFailure{
					Index:      i,
					StatusCode: status,
					Message:    err.Error(),
				})
			}
			s.metrics.Submission(submissionOutcome(err))
			logger.Warn().Err(err).Int("index", i).Int("status", status).Msg("submission failed")
		} else {
			job.Completed++
			s.metrics.Submission(metrics.OutcomeOK)
		}

		s.persist(ctx, &job, logger)
		s.broadcastProgress(&job, status, err)

		if i < job.Total-1 {
			time.Sleep(s.pause())
		}
	}

	finished := time.Now().UTC()
	job.FinishedAt = &finished
	if job.Completed > 0 {
		job.Status = StatusCompleted
	} else {
		job.Status = StatusFailed
	}
	s.persist(ctx, &job, logger)
	s.metrics.BatchCompleted(finished.Sub(started))
	s.broadcastComplete(&job, finished.Sub(started))

	logger.Info().
		Int("completed", job.Completed).
		Int("failed", job.Failed).
		Dur("duration", finished.Sub(started)).
		Msg("batch finished")
}

// lockTTL sizes the job lock to outlive the slowest possible batch: every
// submission at its timeout plus the longest pause, with a margin on top.
func (s *Service) lockTTL(total int) time.Duration {
	return time.Duration(total)*(s.opts.SubmitTimeout+s.opts.MaxDelay) + time.Minute
}

// pause picks the randomized inter-submission delay.
func (s *Service) pause() time.Duration {
	span := s.opts.MaxDelay - s.opts.MinDelay
	if span <= 0 {
		return s.opts.MinDelay
	}
	return s.opts.MinDelay + time.Duration(s.rng.Int63n(int64(span)))
}

func (s *Service) persist(ctx context.Context, job *Job, logger zerolog.Logger) {
	if err := s.store.StoreJob(ctx, job); err != nil {
		logger.Warn().Err(err).Msg("job state write failed")
	}
}

func (s *Service) broadcastProgress(job *Job, lastStatus int, lastErr error) {
	if s.hub == nil {
		return
	}
	payload := ws.JobProgressPayload{
		JobID:          job.ID.String(),
		Status:         string(job.Status),
		Total:          job.Total,
		Completed:      job.Completed,
		Failed:         job.Failed,
		LastStatusCode: lastStatus,
	}
	if lastErr != nil {
		payload.LastError = lastErr.Error()
	}
	s.send(job.ID, ws.TypeJobProgress, payload)
}

func (s *Service) broadcastComplete(job *Job, elapsed time.Duration) {
	if s.hub == nil {
		return
	}
	s.send(job.ID, ws.TypeJobComplete, ws.JobCompletePayload{
		JobID:      job.ID.String(),
		Status:     string(job.Status),
		Total:      job.Total,
		Completed:  job.Completed,
		Failed:     job.Failed,
		DurationMs: elapsed.Milliseconds(),
	})
}

func (s *Service) send(jobID uuid.UUID, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("type", msgType).Msg("progress payload marshal failed")
		return
	}
	if err := s.hub.BroadcastToJob(jobID, ws.Message{Type: msgType, Payload: data}); err != nil {
		s.logger.Debug().Err(err).Str("job_id", jobID.String()).Msg("progress broadcast failed")
	}
}
