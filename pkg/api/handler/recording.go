package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vuminh/eduai-server/pkg/api/response"
	"github.com/vuminh/eduai-server/pkg/recorder"
)

type RecorderProvider interface {
	State() recorder.State
	Duration() int
	Start(ctx context.Context) error
	Stop() error
	Cancel() error
	Send() (string, error)
}

type recording struct {
	provider RecorderProvider
	chat     ChatProvider
	writer   response.JSONResponseWriter
}

func NewRecording(provider RecorderProvider, chat ChatProvider) *recording {
	return &recording{
		provider: provider,
		chat:     chat,
		writer:   response.JSONResponseWriter{},
	}
}

func (h *recording) Status(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w)
}

// Start detaches from the request context: capture runs until an explicit
// stop or cancel, not until the start response is written.
func (h *recording) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.Start(context.WithoutCancel(r.Context())); err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}
	h.writeStatus(w)
}

func (h *recording) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.Stop(); err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}
	h.writeStatus(w)
}

func (h *recording) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.Cancel(); err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}
	h.writeStatus(w)
}

type sendRecordingRequest struct {
	SessionID string `json:"sessionId"`
}

// Send releases the reviewed recording into the chat pipeline as a voice
// message for the given session.
func (h *recording) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	body, err := h.provider.Send()
	if err != nil {
		h.writer.WriteDomainError(w, err)
		return
	}

	session, err := h.chat.Send(r.Context(), req.SessionID, body, "")
	if err != nil && session.ID == "" {
		h.writer.WriteDomainError(w, err)
		return
	}

	h.writer.WriteSuccessResponse(w, map[string]interface{}{
		"session":   toSessionView(session),
		"completed": err == nil,
	})
}

func (h *recording) writeStatus(w http.ResponseWriter) {
	h.writer.WriteSuccessResponse(w, map[string]interface{}{
		"state":    h.provider.State(),
		"duration": h.provider.Duration(),
	})
}
