package fill

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formrush/formrush/internal/answergen"
	"github.com/formrush/formrush/internal/formwire"
	"github.com/formrush/formrush/internal/gforms"
	"github.com/formrush/formrush/internal/metrics"
	"github.com/formrush/formrush/pkg/http/ws"
)

type stubFetcher struct {
	mu    sync.Mutex
	form  *formwire.ParsedForm
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (*formwire.ParsedForm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.form, nil
}

type stubSubmitter struct {
	mu       sync.Mutex
	payloads []answergen.Payload
	// results are consumed in order; the last one repeats.
	results []submitResult
}

type submitResult struct {
	status int
	err    error
}

func (s *stubSubmitter) Submit(ctx context.Context, formID string, published bool, payload answergen.Payload) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
	idx := len(s.payloads) - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	r := s.results[idx]
	return r.status, r.err
}

func (s *stubSubmitter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

type memStore struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]Job
	lockTTL time.Duration
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[uuid.UUID]Job)}
}

func (m *memStore) StoreJob(ctx context.Context, job *Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memStore) GetJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (m *memStore) LockJob(ctx context.Context, jobID uuid.UUID, ttl time.Duration) (func() error, error) {
	m.mu.Lock()
	m.lockTTL = ttl
	m.mu.Unlock()
	return func() error { return nil }, nil
}

type recordingHub struct {
	mu   sync.Mutex
	msgs []ws.Message
}

func (h *recordingHub) BroadcastToJob(jobID uuid.UUID, msg ws.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
	return nil
}

func (h *recordingHub) byType(msgType string) []ws.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []ws.Message
	for _, m := range h.msgs {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func testForm() *formwire.ParsedForm {
	return &formwire.ParsedForm{
		FormID:          "1FAIpQLTest",
		Title:           "Event Feedback",
		IsPublishedForm: true,
		PageHistory:     []int{0},
		Questions: []formwire.ParsedQuestion{
			{
				ID:       "111",
				EntryID:  "entry.1000",
				Title:    "Your name",
				Type:     formwire.TypeShortText,
				Required: true,
			},
			{
				ID:      "112",
				EntryID: "entry.2000",
				Title:   "Rating",
				Type:    formwire.TypeMultipleChoice,
				Options: []formwire.QuestionOption{
					{Value: "Good", Label: "Good"},
					{Value: "Bad", Label: "Bad"},
				},
			},
		},
	}
}

func fastOptions() Options {
	return Options{
		MinDelay:      time.Nanosecond,
		MaxDelay:      time.Nanosecond,
		MaxCount:      10,
		SubmitTimeout: time.Second,
	}
}

func newTestService(fetcher FormFetcher, submitter ResponseSubmitter, store JobStateStore, hub ProgressBroadcaster) *Service {
	return NewService(fetcher, submitter, nil, store, hub, nil, zerolog.Nop(), fastOptions())
}

func waitForDone(t *testing.T, store JobStateStore, jobID uuid.UUID) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		require.NoError(t, err)
		if job != nil && job.Done() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("job never finished")
	return nil
}

func TestSubmitOne(t *testing.T) {
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{{status: 200}}}
	svc := newTestService(fetcher, submitter, newMemStore(), nil)

	result, err := svc.SubmitOne(context.Background(), SubmitRequest{
		URL: "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
	})
	require.NoError(t, err)
	assert.True(t, result.Submitted)
	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, "1FAIpQLTest", result.FormID)

	require.Equal(t, 1, submitter.count())
	payload := submitter.payloads[0]
	name, ok := payload.Get("entry.1000")
	require.True(t, ok)
	assert.NotEmpty(t, name)
	rating, ok := payload.Get("entry.2000")
	require.True(t, ok)
	assert.Contains(t, []string{"Good", "Bad"}, rating)
}

func TestSubmitOneSkipsOptional(t *testing.T) {
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{{status: 200}}}
	svc := newTestService(fetcher, submitter, newMemStore(), nil)

	_, err := svc.SubmitOne(context.Background(), SubmitRequest{
		URL:          "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
		SkipOptional: true,
	})
	require.NoError(t, err)

	payload := submitter.payloads[0]
	_, hasRequired := payload.Get("entry.1000")
	_, hasOptional := payload.Get("entry.2000")
	assert.True(t, hasRequired)
	assert.False(t, hasOptional)
}

func TestSubmitOneSubmissionRejected(t *testing.T) {
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{{status: 400, err: &gforms.SubmissionError{StatusCode: 400}}}}
	svc := newTestService(fetcher, submitter, newMemStore(), nil)

	result, err := svc.SubmitOne(context.Background(), SubmitRequest{
		URL: "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
	})
	require.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Submitted)
	assert.Equal(t, 400, result.StatusCode)
}

func TestCreateJobValidation(t *testing.T) {
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{{status: 200}}}
	svc := newTestService(fetcher, submitter, newMemStore(), nil)

	_, err := svc.CreateJob(context.Background(), BatchRequest{URL: "x", Count: 0})
	assert.Error(t, err)

	_, err = svc.CreateJob(context.Background(), BatchRequest{URL: "x", Count: 11})
	assert.ErrorIs(t, err, ErrTooManyResponses)
	assert.Equal(t, 0, fetcher.calls)
}

func TestBatchRunsToCompletion(t *testing.T) {
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{{status: 200}}}
	store := newMemStore()
	hub := &recordingHub{}
	svc := newTestService(fetcher, submitter, store, hub)

	job, err := svc.CreateJob(context.Background(), BatchRequest{
		URL:   "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
		Count: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, "Event Feedback", job.FormTitle)

	final := waitForDone(t, store, job.ID)
	assert.Equal(t, StatusCompleted, final.Status)
	assert.Equal(t, 3, final.Completed)
	assert.Equal(t, 0, final.Failed)
	assert.NotNil(t, final.StartedAt)
	assert.NotNil(t, final.FinishedAt)
	assert.Equal(t, 3, submitter.count())

	assert.Len(t, hub.byType(ws.TypeJobProgress), 3)
	assert.Len(t, hub.byType(ws.TypeJobComplete), 1)
}

func TestBatchEachResponseIsIndependent(t *testing.T) {
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{{status: 200}}}
	store := newMemStore()
	svc := newTestService(fetcher, submitter, store, nil)

	job, err := svc.CreateJob(context.Background(), BatchRequest{
		URL:   "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
		Count: 5,
	})
	require.NoError(t, err)
	waitForDone(t, store, job.ID)

	// Names come from per-response identities, so a batch of 5 should not
	// produce 5 identical payloads.
	seen := make(map[string]bool)
	for _, p := range submitter.payloads {
		name, _ := p.Get("entry.1000")
		seen[name] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestBatchRecordsFailures(t *testing.T) {
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{
		{status: 200},
		{status: 500, err: &gforms.SubmissionError{StatusCode: 500}},
		{status: 200},
	}}
	store := newMemStore()
	svc := newTestService(fetcher, submitter, store, nil)

	job, err := svc.CreateJob(context.Background(), BatchRequest{
		URL:   "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
		Count: 3,
	})
	require.NoError(t, err)

	final := waitForDone(t, store, job.ID)
	assert.Equal(t, StatusCompleted, final.Status)
	assert.Equal(t, 2, final.Completed)
	assert.Equal(t, 1, final.Failed)
	require.Len(t, final.Failures, 1)
	assert.Equal(t, 1, final.Failures[0].Index)
	assert.Equal(t, 500, final.Failures[0].StatusCode)
}

func TestBatchAllFailuresMarksJobFailed(t *testing.T) {
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{
		{status: 500, err: &gforms.SubmissionError{StatusCode: 500}},
	}}
	store := newMemStore()
	svc := newTestService(fetcher, submitter, store, nil)

	job, err := svc.CreateJob(context.Background(), BatchRequest{
		URL:   "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
		Count: 2,
	})
	require.NoError(t, err)

	final := waitForDone(t, store, job.ID)
	assert.Equal(t, StatusFailed, final.Status)
	assert.Equal(t, 0, final.Completed)
	assert.Equal(t, 2, final.Failed)
}

// submissionCount reads one outcome's counter back out of a test registry.
func submissionCount(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "formrush_submissions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestSubmitOneCountsSignInOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{{status: 401, err: gforms.ErrSignInRequired}}}
	svc := NewService(fetcher, submitter, nil, newMemStore(), nil, metrics.NewWith(reg), zerolog.Nop(), fastOptions())

	_, err := svc.SubmitOne(context.Background(), SubmitRequest{
		URL: "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
	})
	require.ErrorIs(t, err, gforms.ErrSignInRequired)

	assert.Equal(t, 1.0, submissionCount(t, reg, "sign_in_required"))
	assert.Equal(t, 0.0, submissionCount(t, reg, "failed"))
}

func TestBatchCountsSignInOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{
		{status: 200},
		{status: 401, err: gforms.ErrSignInRequired},
		{status: 500, err: &gforms.SubmissionError{StatusCode: 500}},
	}}
	store := newMemStore()
	svc := NewService(fetcher, submitter, nil, store, nil, metrics.NewWith(reg), zerolog.Nop(), fastOptions())

	job, err := svc.CreateJob(context.Background(), BatchRequest{
		URL:   "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
		Count: 3,
	})
	require.NoError(t, err)

	final := waitForDone(t, store, job.ID)
	assert.Equal(t, 2, final.Failed)
	assert.Equal(t, 1.0, submissionCount(t, reg, "ok"))
	assert.Equal(t, 1.0, submissionCount(t, reg, "sign_in_required"))
	assert.Equal(t, 1.0, submissionCount(t, reg, "failed"))
}

func TestBatchLockOutlivesWorstCaseRun(t *testing.T) {
	opts := Options{
		MinDelay:      time.Second,
		MaxDelay:      3 * time.Second,
		MaxCount:      100,
		SubmitTimeout: 30 * time.Second,
	}
	svc := NewService(nil, nil, nil, newMemStore(), nil, nil, zerolog.Nop(), opts)

	// A full batch of slow submissions must finish inside the lock TTL.
	worstCase := 100 * (opts.SubmitTimeout + opts.MaxDelay)
	assert.GreaterOrEqual(t, svc.lockTTL(100), worstCase)
	assert.GreaterOrEqual(t, svc.lockTTL(1), opts.SubmitTimeout+opts.MaxDelay)

	// And the runner hands that TTL to the store when it takes the lock.
	fetcher := &stubFetcher{form: testForm()}
	submitter := &stubSubmitter{results: []submitResult{{status: 200}}}
	store := newMemStore()
	fast := newTestService(fetcher, submitter, store, nil)

	job, err := fast.CreateJob(context.Background(), BatchRequest{
		URL:   "https://docs.google.com/forms/d/e/1FAIpQLTest/viewform",
		Count: 2,
	})
	require.NoError(t, err)
	waitForDone(t, store, job.ID)

	store.mu.Lock()
	ttl := store.lockTTL
	store.mu.Unlock()
	assert.GreaterOrEqual(t, ttl, fast.lockTTL(2))
}

func TestCreateJobPropagatesFetchErrors(t *testing.T) {
	fetcher := &stubFetcher{err: gforms.ErrSignInRequired}
	submitter := &stubSubmitter{results: []submitResult{{status: 200}}}
	svc := newTestService(fetcher, submitter, newMemStore(), nil)

	_, err := svc.CreateJob(context.Background(), BatchRequest{URL: "x", Count: 1})
	assert.ErrorIs(t, err, gforms.ErrSignInRequired)
}
