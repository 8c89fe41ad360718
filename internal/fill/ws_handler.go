package fill

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/formrush/formrush/internal/server"
	httperrors "github.com/formrush/formrush/pkg/http/errors"
	"github.com/formrush/formrush/pkg/http/ws"
)

// HandleWebSocket upgrades GET /ws/fill?job_id= into a progress stream for
// one job. The current job state is pushed immediately, then every
// submission attempt produces a progress message.
func (h *HTTPHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	jobParam := r.URL.Query().Get("job_id")
	if jobParam == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "job_id is required", "job_id")
		return
	}
	jobID, err := uuid.Parse(jobParam)
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

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	connID := uuid.New()
	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.RegisterConnection(connID, wsConn)
	h.hub.SubscribeJob(jobID, connID)

	go wsConn.WritePump()
	h.sendSnapshot(wsConn, job)

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleClientMessage(connID, wsConn, msg)
	})
	h.hub.UnregisterConnection(connID)
}

// sendSnapshot pushes the job state as seen at subscription time, so a
// watcher joining mid-batch does not start blind.
func (h *HTTPHandlers) sendSnapshot(conn *ws.Connection, job *Job) {
	data, err := json.Marshal(job)
	if err != nil {
		h.logger.Warn().Err(err).Msg("snapshot marshal failed")
		return
	}
	if err := conn.Send(ws.Message{Type: ws.TypeJobSnapshot, Payload: data}); err != nil {
		h.logger.Debug().Err(err).Msg("snapshot send failed")
	}
}

func (h *HTTPHandlers) handleClientMessage(connID uuid.UUID, conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypePing:
		return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})

	case ws.TypeSubscribeJob:
		jobID, err := jobIDFromPayload(msg.Payload)
		if err != nil {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, err.Error())
		}
		h.hub.SubscribeJob(jobID, connID)
		return nil

	case ws.TypeUnsubscribeJob:
		jobID, err := jobIDFromPayload(msg.Payload)
		if err != nil {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, err.Error())
		}
		h.hub.UnsubscribeJob(jobID, connID)
		return nil

	default:
		return h.sendError(conn, msg.RequestID, httperrors.ErrCodeUnknownMessageType, "Unknown message type: "+msg.Type)
	}
}

func jobIDFromPayload(raw json.RawMessage) (uuid.UUID, error) {
	var payload ws.SubscribeJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(payload.JobID)
}

func (h *HTTPHandlers) sendError(conn *ws.Connection, requestID, code, message string) error {
	data, err := json.Marshal(ws.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return err
	}
	return conn.Send(ws.Message{Type: ws.TypeError, Payload: data, RequestID: requestID})
}
