package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vuminh/eduai-server/pkg/api/response"
	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/services"
)

type QuizProvider interface {
	Snapshot() services.QuizSnapshot
	Start(ctx context.Context, topic string, level domain.Level) (services.QuizSnapshot, error)
	Answer(idx int) (services.QuizSnapshot, error)
	Next() (services.QuizSnapshot, error)
	Retry() services.QuizSnapshot
}

type quiz struct {
	provider QuizProvider
	writer   response.JSONResponseWriter
}

func NewQuiz(provider QuizProvider) *quiz {
	return &quiz{
		provider: provider,
		writer:   response.JSONResponseWriter{},
	}
}

func (q *quiz) Get(w http.ResponseWriter, r *http.Request) {
	q.writer.WriteSuccessResponse(w, q.provider.Snapshot())
}

type startQuizRequest struct {
	Topic string       `json:"topic"`
	Level domain.Level `json:"level"`
}

func (q *quiz) Start(w http.ResponseWriter, r *http.Request) {
	var req startQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		q.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	snapshot, err := q.provider.Start(r.Context(), req.Topic, req.Level)
	if err != nil {
		q.writer.WriteDomainError(w, err)
		return
	}

	q.writer.WriteSuccessResponse(w, snapshot)
}

type answerRequest struct {
	Index int `json:"index"`
}

func (q *quiz) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		q.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	snapshot, err := q.provider.Answer(req.Index)
	if err != nil {
		q.writer.WriteDomainError(w, err)
		return
	}

	q.writer.WriteSuccessResponse(w, snapshot)
}

func (q *quiz) Next(w http.ResponseWriter, r *http.Request) {
	snapshot, err := q.provider.Next()
	if err != nil {
		q.writer.WriteDomainError(w, err)
		return
	}

	q.writer.WriteSuccessResponse(w, snapshot)
}

func (q *quiz) Retry(w http.ResponseWriter, r *http.Request) {
	q.writer.WriteSuccessResponse(w, q.provider.Retry())
}
