package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vuminh/eduai-server/pkg/api/handler"
	"github.com/vuminh/eduai-server/pkg/logger"
	"github.com/vuminh/eduai-server/pkg/monitoring"
)

// NewRouter wires the HTTP surface: catalog reads, session management, the
// chat pipeline, the quiz runner, speech playback and recording control.
func NewRouter(
	catalogProvider handler.CatalogProvider,
	sessionProvider handler.SessionProvider,
	chatProvider handler.ChatProvider,
	quizProvider handler.QuizProvider,
	speechProvider handler.SpeechProvider,
	recorderProvider handler.RecorderProvider,
) http.Handler {
	catalogHandler := handler.NewCatalog(catalogProvider)
	sessionsHandler := handler.NewSessions(sessionProvider)
	chatHandler := handler.NewChat(chatProvider)
	quizHandler := handler.NewQuiz(quizProvider)
	speechHandler := handler.NewSpeech(speechProvider)
	recordingHandler := handler.NewRecording(recorderProvider, chatProvider)

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", monitoring.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/subjects", catalogHandler.GetSubjects)
		r.Get("/levels", catalogHandler.GetLevels)
		r.Get("/courses", catalogHandler.GetCourses)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", sessionsHandler.List)
			r.Post("/", sessionsHandler.Create)
			r.Post("/select-or-create", sessionsHandler.SelectOrCreate)
			r.Get("/{id}", sessionsHandler.Get)
			r.Post("/{id}/select", sessionsHandler.Select)
			r.Delete("/{id}", sessionsHandler.Delete)
			r.Post("/{id}/messages", chatHandler.SendMessage)
			r.Get("/{id}/status", chatHandler.Status)
		})

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/", quizHandler.Get)
			r.Post("/start", quizHandler.Start)
			r.Post("/answer", quizHandler.Answer)
			r.Post("/next", quizHandler.Next)
			r.Post("/retry", quizHandler.Retry)
		})

		r.Post("/speech", speechHandler.Speak)
		r.Get("/speech/status", speechHandler.Status)

		r.Route("/recording", func(r chi.Router) {
			r.Get("/", recordingHandler.Status)
			r.Post("/start", recordingHandler.Start)
			r.Post("/stop", recordingHandler.Stop)
			r.Post("/cancel", recordingHandler.Cancel)
			r.Post("/send", recordingHandler.Send)
		})
	})

	return r
}

// requestID stamps each request with a short id that the log handler prints.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()[:8]
		next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
	})
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.DebugContext(r.Context(), "Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}
