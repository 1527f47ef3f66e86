package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters for the three external generative calls, labeled by outcome.
var (
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduai_chat_requests_total",
		Help: "Chat completion calls issued by the message pipeline.",
	}, []string{"status"})

	QuizGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduai_quiz_generations_total",
		Help: "Structured quiz generation calls.",
	}, []string{"status"})

	SpeechSyntheses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eduai_speech_syntheses_total",
		Help: "Text-to-speech synthesis calls.",
	}, []string{"status"})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
