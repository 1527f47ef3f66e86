package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vuminh/eduai-server/pkg/api/response"
	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/logger"
)

type SpeechProvider interface {
	Speak(ctx context.Context, messageID, text string) error
	IsSpeaking(messageID string) bool
}

type speech struct {
	provider SpeechProvider
	writer   response.JSONResponseWriter
}

func NewSpeech(provider SpeechProvider) *speech {
	return &speech{
		provider: provider,
		writer:   response.JSONResponseWriter{},
	}
}

type speakRequest struct {
	MessageID string `json:"messageId"`
	Text      string `json:"text"`
}

// Speak starts synthesis in the background; the client polls Status for the
// speaking flag. Playback must not hold the HTTP request open.
func (s *speech) Speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.MessageID == "" || req.Text == "" {
		s.writer.WriteDomainError(w, domain.ErrEmptyMessage)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	go func() {
		if err := s.provider.Speak(ctx, req.MessageID, req.Text); err != nil {
			slog.ErrorContext(ctx, "Speaking message", "messageID", req.MessageID, logger.Err(err))
		}
	}()

	s.writer.WriteSuccessResponse(w, map[string]string{
		"status": "started",
	})
}

func (s *speech) Status(w http.ResponseWriter, r *http.Request) {
	s.writer.WriteSuccessResponse(w, map[string]bool{
		"speaking": s.provider.IsSpeaking(r.URL.Query().Get("messageId")),
	})
}
