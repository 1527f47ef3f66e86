package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vuminh/eduai-server/pkg/api/response"
	"github.com/vuminh/eduai-server/pkg/domain"
)

type ChatProvider interface {
	Send(ctx context.Context, sessionID, content, imageB64 string) (domain.ChatSession, error)
	InFlight(sessionID string) bool
}

type chat struct {
	provider ChatProvider
	writer   response.JSONResponseWriter
}

func NewChat(provider ChatProvider) *chat {
	return &chat{
		provider: provider,
		writer:   response.JSONResponseWriter{},
	}
}

type sendMessageRequest struct {
	Content  string `json:"content"`
	ImageB64 string `json:"imageB64"`
}

func (c *chat) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	session, err := c.provider.Send(r.Context(), chi.URLParam(r, "id"), req.Content, req.ImageB64)
	if err != nil && session.ID == "" {
		c.writer.WriteDomainError(w, err)
		return
	}

	// A failed completion still returns the session: the user's message is
	// kept so the client can offer a resend.
	c.writer.WriteSuccessResponse(w, map[string]interface{}{
		"session":   toSessionView(session),
		"completed": err == nil,
	})
}

func (c *chat) Status(w http.ResponseWriter, r *http.Request) {
	c.writer.WriteSuccessResponse(w, map[string]bool{
		"inFlight": c.provider.InFlight(chi.URLParam(r, "id")),
	})
}
