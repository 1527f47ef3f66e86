package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/vuminh/eduai-server/pkg/api/response"
	"github.com/vuminh/eduai-server/pkg/domain"
)

type SessionProvider interface {
	List() []domain.ChatSession
	Get(id string) (domain.ChatSession, bool)
	ActiveID() string
	Create(ctx context.Context, subjectID string, level domain.Level) (domain.ChatSession, error)
	SelectOrCreate(ctx context.Context, subjectID string, level domain.Level) (domain.ChatSession, error)
	Select(id string) (domain.ChatSession, error)
	Delete(ctx context.Context, id string) error
}

type sessions struct {
	provider SessionProvider
	writer   response.JSONResponseWriter
}

func NewSessions(provider SessionProvider) *sessions {
	return &sessions{
		provider: provider,
		writer:   response.JSONResponseWriter{},
	}
}

func (s *sessions) List(w http.ResponseWriter, r *http.Request) {
	s.writer.WriteSuccessResponse(w, map[string]interface{}{
		"sessions": lo.Map(s.provider.List(), func(c domain.ChatSession, _ int) sessionView {
			return toSessionView(c)
		}),
		"activeId": s.provider.ActiveID(),
	})
}

func (s *sessions) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := s.provider.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writer.WriteDomainError(w, domain.ErrNotFound)
		return
	}

	s.writer.WriteSuccessResponse(w, toSessionView(session))
}

type createSessionRequest struct {
	SubjectID string       `json:"subjectId"`
	Level     domain.Level `json:"level"`
}

func (s *sessions) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	session, err := s.provider.Create(r.Context(), req.SubjectID, req.Level)
	if err != nil {
		s.writer.WriteDomainError(w, err)
		return
	}

	s.writer.WriteSuccessResponse(w, toSessionView(session))
}

// SelectOrCreate reuses the existing session for a (subject, level) pair so
// opening the same subject twice continues one conversation.
func (s *sessions) SelectOrCreate(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	session, err := s.provider.SelectOrCreate(r.Context(), req.SubjectID, req.Level)
	if err != nil {
		s.writer.WriteDomainError(w, err)
		return
	}

	s.writer.WriteSuccessResponse(w, toSessionView(session))
}

func (s *sessions) Select(w http.ResponseWriter, r *http.Request) {
	session, err := s.provider.Select(chi.URLParam(r, "id"))
	if err != nil {
		s.writer.WriteDomainError(w, err)
		return
	}

	s.writer.WriteSuccessResponse(w, toSessionView(session))
}

func (s *sessions) Delete(w http.ResponseWriter, r *http.Request) {
	if err := s.provider.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writer.WriteDomainError(w, err)
		return
	}

	s.writer.WriteSuccessResponse(w, map[string]string{
		"activeId": s.provider.ActiveID(),
	})
}
