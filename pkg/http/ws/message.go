package ws

import "encoding/json"

// MessageType constants for WebSocket protocol.
const (
	// Client -> Server
	TypeSubscribeJob   = "subscribe_job"
	TypeUnsubscribeJob = "unsubscribe_job"
	TypePing           = "ping"

	// Server -> Client
	TypeJobSnapshot = "job_snapshot"
	TypeJobProgress = "job_progress"
	TypeJobComplete = "job_complete"
	TypeError       = "error"
	TypePong        = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client Messages (incoming)

type SubscribeJobPayload struct {
	JobID string `json:"job_id"`
}

type UnsubscribeJobPayload struct {
	JobID string `json:"job_id"`
}

// Server Messages (outgoing)

// JobProgressPayload is pushed after every submission attempt in a batch.
type JobProgressPayload struct {
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	Failed         int    `json:"failed"`
	LastStatusCode int    `json:"last_status_code,omitempty"`
	LastError      string `json:"last_error,omitempty"`
}

// JobCompletePayload closes out a batch.
type JobCompletePayload struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Failed     int    `json:"failed"`
	DurationMs int64  `json:"duration_ms"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
