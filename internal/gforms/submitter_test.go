package gforms

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formrush/formrush/internal/answergen"
)

func newTestSubmitter(t *testing.T, handler http.HandlerFunc) *Submitter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := srv.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	s := NewSubmitter(client, zerolog.Nop())
	s.baseURL = srv.URL
	return s
}

func testPayload() answergen.Payload {
	return answergen.Payload{
		{Key: "entry.1000", Value: "Alice Smith"},
		{Key: "entry.2000", Value: "Red"},
	}
}

func TestSubmitSuccess(t *testing.T) {
	var gotPath, gotBody, gotContentType string
	s := newTestSubmitter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	})

	status, err := s.Submit(context.Background(), "1FAIpQLTest", true, testPayload())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/forms/d/e/1FAIpQLTest/formResponse", gotPath)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "entry.1000=Alice+Smith&entry.2000=Red", gotBody)
}

func TestSubmitRedirectCountsAsSuccess(t *testing.T) {
	s := newTestSubmitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/formResponse/confirmation")
		w.WriteHeader(http.StatusFound)
	})

	status, err := s.Submit(context.Background(), "abc123", false, testPayload())
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, status)
}

func TestSubmitUnauthorized(t *testing.T) {
	s := newTestSubmitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	status, err := s.Submit(context.Background(), "abc123", false, testPayload())
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.ErrorIs(t, err, ErrSignInRequired)
}

func TestSubmitRejected(t *testing.T) {
	s := newTestSubmitter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	status, err := s.Submit(context.Background(), "abc123", false, testPayload())
	assert.Equal(t, http.StatusBadRequest, status)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, http.StatusBadRequest, subErr.StatusCode)
}

func TestSubmitEditorEndpoint(t *testing.T) {
	var gotPath string
	s := newTestSubmitter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	})

	_, err := s.Submit(context.Background(), "abc123", false, testPayload())
	require.NoError(t, err)
	assert.Equal(t, "/forms/d/abc123/formResponse", gotPath)
}
