package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/logger"
)

type JSONResponseWriter struct{}

func (j *JSONResponseWriter) WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding success response", logger.Err(err))
	}
}

func (j *JSONResponseWriter) WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		slog.Error("encoding error response", logger.Err(err))
	}
}

// WriteDomainError maps the service error sentinels onto HTTP statuses.
func (j *JSONResponseWriter) WriteDomainError(w http.ResponseWriter, err error) {
	j.WriteErrorResponse(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrEmptyTopic),
		errors.Is(err, domain.ErrInvalidLevel),
		errors.Is(err, domain.ErrInvalidSubject):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrChatBusy),
		errors.Is(err, domain.ErrQuizState),
		errors.Is(err, domain.ErrRecorderState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoMicAccess):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
